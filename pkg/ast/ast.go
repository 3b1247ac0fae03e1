// Package ast defines the in-memory, type-safe representation of a parsed
// program: the node types produced by pkg/parser and consumed by pkg/sema
// and pkg/ir.
package ast

import "fmt"

// ----------------------------------------------------------------------------
// Types

// This section replaces the string-tagged types of a naive port (e.g. "int",
// "function:int") with a closed Go sum. A Type is either one of the four
// primitive kinds, Void, Unknown (the "couldn't be determined" sentinel used
// to keep semantic analysis from cascading a single error into dozens), or a
// Function type wrapping the return type of a declared function.

type Kind uint8

const (
	Int Kind = iota
	Float
	Char
	Void
	Unknown
	Function
	CharPtr // the type of a string literal; never a declarable variable type
)

// Type is a value type: two Types with the same Kind (and, for Function,
// the same Return) are considered identical regardless of identity.
type Type struct {
	Kind   Kind
	Return *Type // only meaningful when Kind == Function
}

func Primitive(k Kind) Type { return Type{Kind: k} }

func FunctionType(ret Type) Type { return Type{Kind: Function, Return: &ret} }

func (t Type) String() string {
	switch t.Kind {
	case Int:
		return "int"
	case Float:
		return "float"
	case Char:
		return "char"
	case Void:
		return "void"
	case Unknown:
		return "unknown"
	case Function:
		return fmt.Sprintf("function:%s", t.Return)
	case CharPtr:
		return "char*"
	default:
		return "invalid"
	}
}

// Assignable reports whether a value of type 'from' may be stored into a
// location of type 'to'. int and float freely convert into one another (the
// language has no narrowing warnings); every other kind, char included, is
// only assignable to the same kind; Unknown absorbs into
// anything so that one unresolved identifier doesn't cascade into a string
// of unrelated type errors further down the same expression.
func Assignable(to, from Type) bool {
	if to.Kind == Unknown || from.Kind == Unknown {
		return true
	}
	numeric := func(k Kind) bool { return k == Int || k == Float }
	if numeric(to.Kind) && numeric(from.Kind) {
		return true
	}
	return to.Kind == from.Kind
}

// TypeFromName maps a source-level type keyword ("int", "float", "char",
// "void") to its Type. Returns Unknown for anything else.
func TypeFromName(name string) Type {
	switch name {
	case "int":
		return Primitive(Int)
	case "float":
		return Primitive(Float)
	case "char":
		return Primitive(Char)
	case "void":
		return Primitive(Void)
	default:
		return Primitive(Unknown)
	}
}

// ----------------------------------------------------------------------------
// Program & declarations

// Program is the root node: an ordered list of top-level declarations
// (functions and global variables), in source order.
type Program struct {
	Declarations []Declaration
}

// Declaration is the shared marker interface for top-level constructs.
type Declaration interface{ declNode() }

// FunctionDecl declares a function: its signature plus, when Body is
// non-nil, the compound statement making up its definition.
type FunctionDecl struct {
	Name       string
	ReturnType Type
	Parameters []Parameter
	Body       *CompoundStmt // nil for a forward declaration
	Line       int
}

func (FunctionDecl) declNode() {}

// Parameter is one entry of a function's parameter list.
type Parameter struct {
	Name string
	Type Type
}

// VarDecl declares a variable, with an optional initializer expression.
// At the top level it is a global; inside a CompoundStmt it is a local.
type VarDecl struct {
	Name        string
	Type        Type
	Initializer Expression // nil when the declaration has no initializer
	Line        int
}

func (VarDecl) declNode() {}

// ----------------------------------------------------------------------------
// Statements

// Statement is the shared marker interface for every statement form.
type Statement interface{ stmtNode() }

func (VarDecl) stmtNode() {} // a VarDecl is also valid as a statement inside a body

// CompoundStmt is a brace-delimited block: { stmt* }.
type CompoundStmt struct {
	Statements []Statement
}

func (CompoundStmt) stmtNode() {}

// ExpressionStmt wraps an expression evaluated purely for its side effects.
type ExpressionStmt struct {
	Expression Expression // nil for a bare ';'
}

func (ExpressionStmt) stmtNode() {}

// ReturnStmt returns from the enclosing function, optionally with a value.
type ReturnStmt struct {
	Expression Expression // nil for a bare 'return;'
	Line       int
}

func (ReturnStmt) stmtNode() {}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	Condition Expression
	Then      Statement
	Else      Statement // nil when there is no else branch
}

func (IfStmt) stmtNode() {}

// WhileStmt is a pre-tested loop.
type WhileStmt struct {
	Condition Expression
	Body      Statement
}

func (WhileStmt) stmtNode() {}

// ForStmt is a C-style three-clause loop; any of the three clauses may be
// nil (an empty for-clause).
type ForStmt struct {
	Init      Statement // *VarDecl or *ExpressionStmt, or nil
	Condition Expression
	Update    Expression
	Body      Statement
}

func (ForStmt) stmtNode() {}

// ----------------------------------------------------------------------------
// Expressions

// Expression is the shared marker interface for every expression form.
type Expression interface{ exprNode() }

// BinaryOp is a two-operand operator expression (arithmetic, relational,
// equality, or logical).
type BinaryOp struct {
	Operator string
	Left     Expression
	Right    Expression
	Line     int
}

func (BinaryOp) exprNode() {}

// UnaryOp is a single-operand prefix operator expression ('-', '!').
type UnaryOp struct {
	Operator string
	Operand  Expression
	Line     int
}

func (UnaryOp) exprNode() {}

// Assignment stores Value into the variable named Target.
type Assignment struct {
	Target string
	Value  Expression
	Line   int
}

func (Assignment) exprNode() {}

// FunctionCall invokes Name with the given argument expressions, in
// source (left-to-right) order.
type FunctionCall struct {
	Name      string
	Arguments []Expression
	Line      int
}

func (FunctionCall) exprNode() {}

// Identifier references a previously declared variable or parameter.
type Identifier struct {
	Name string
	Line int
}

func (Identifier) exprNode() {}

// IntLiteral is a literal integer constant.
type IntLiteral struct {
	Value int64
}

func (IntLiteral) exprNode() {}

// FloatLiteral is a literal floating point constant.
type FloatLiteral struct {
	Value float64
}

func (FloatLiteral) exprNode() {}

// StringLiteral is a literal string constant (used only for calls like
// printf-style builtins; the language has no string variable type).
type StringLiteral struct {
	Value string
}

func (StringLiteral) exprNode() {}
