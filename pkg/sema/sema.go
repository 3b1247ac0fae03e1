// Package sema implements the Semantic Analyzer stage: it walks the AST
// built by pkg/parser, maintaining a scoped symbol table (see scopes.go)
// and accumulating every diagnosed error before reporting them together.
package sema

import (
	"fmt"

	"minicc.dev/compiler/pkg/ast"
)

// ----------------------------------------------------------------------------
// Errors

// SemanticError collects every diagnosed problem from one analysis run.
// Unlike LexicalError/ParseError it is not raised on the first failure:
// the analyzer keeps walking so a single source file can report several
// independent mistakes at once, matching original_source/
// semantic_analyzer.py's accumulate-then-raise contract.
type SemanticError struct {
	Messages []string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("semantic analysis failed with %d error(s): %v", len(e.Messages), e.Messages)
}

// ----------------------------------------------------------------------------
// Analyzer

// Analyzer walks an ast.Program, declaring and resolving symbols as it
// goes and type-checking every expression. A fresh Analyzer should be
// built per compilation (see pkg/driver); it carries no state across runs.
type Analyzer struct {
	scopes     *ScopeTable
	returnType *ast.Type // nil outside of a function body
	errors     []string
}

// Initializes and returns to the caller a brand new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{scopes: NewScopeTable()}
}

func (a *Analyzer) error(format string, args ...any) {
	a.errors = append(a.errors, fmt.Sprintf(format, args...))
}

// Analyze runs every semantic check over program and returns a
// *SemanticError carrying every diagnosed problem, or nil if none.
func (a *Analyzer) Analyze(program *ast.Program) error {
	a.visitProgram(program)

	if len(a.errors) > 0 {
		return &SemanticError{Messages: a.errors}
	}
	return nil
}

func (a *Analyzer) visitProgram(node *ast.Program) {
	for _, decl := range node.Declarations {
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			a.visitFunctionDecl(d)
		case *ast.VarDecl:
			a.visitVarDecl(d)
		}
	}
}

func (a *Analyzer) visitFunctionDecl(node *ast.FunctionDecl) {
	if err := a.scopes.Declare(node.Name, ast.FunctionType(node.ReturnType), "global"); err != nil {
		a.error("%s", err)
	}

	if node.Body == nil {
		return
	}

	scopeName := fmt.Sprintf("function:%s", node.Name)
	a.scopes.PushScope(scopeName)
	defer a.scopes.PopScope()

	prevReturn := a.returnType
	retType := node.ReturnType
	a.returnType = &retType
	defer func() { a.returnType = prevReturn }()

	for _, param := range node.Parameters {
		if err := a.scopes.Declare(param.Name, param.Type, scopeName); err != nil {
			a.error("%s", err)
		}
	}

	a.visitCompoundStmt(node.Body, false)
}

func (a *Analyzer) visitVarDecl(node *ast.VarDecl) {
	if err := a.scopes.Declare(node.Name, node.Type, a.scopes.CurrentScope()); err != nil {
		a.error("%s", err)
	}

	if node.Initializer != nil {
		initType := a.visitExpression(node.Initializer)
		if !ast.Assignable(node.Type, initType) {
			a.error("type mismatch in initialization of '%s': cannot assign %s to %s",
				node.Name, initType, node.Type)
		}
	}
}

// visitCompoundStmt visits a block's statements. pushScope controls
// whether a new "block" scope frame is opened: function bodies reuse the
// function's own frame (parameters and locals share one scope, as
// original_source/semantic_analyzer.py's visit_function_decl does), while
// nested { } blocks always open their own frame.
func (a *Analyzer) visitCompoundStmt(node *ast.CompoundStmt, pushScope bool) {
	if pushScope {
		a.scopes.PushScope("block")
		defer a.scopes.PopScope()
	}
	for _, stmt := range node.Statements {
		a.visitStatement(stmt)
	}
}

func (a *Analyzer) visitStatement(node ast.Statement) {
	switch s := node.(type) {
	case *ast.VarDecl:
		a.visitVarDecl(s)
	case *ast.CompoundStmt:
		a.visitCompoundStmt(s, true)
	case *ast.ExpressionStmt:
		if s.Expression != nil {
			a.visitExpression(s.Expression)
		}
	case *ast.ReturnStmt:
		a.visitReturnStmt(s)
	case *ast.IfStmt:
		a.visitIfStmt(s)
	case *ast.WhileStmt:
		a.visitWhileStmt(s)
	case *ast.ForStmt:
		a.visitForStmt(s)
	}
}

func (a *Analyzer) visitReturnStmt(node *ast.ReturnStmt) {
	if a.returnType == nil {
		a.error("return statement outside of function")
		return
	}

	if node.Expression != nil {
		exprType := a.visitExpression(node.Expression)
		if !ast.Assignable(*a.returnType, exprType) {
			a.error("return type mismatch: expected %s, got %s", a.returnType, exprType)
		}
	} else if a.returnType.Kind != ast.Void {
		a.error("return statement must return a value of type %s", a.returnType)
	}
}

func (a *Analyzer) visitIfStmt(node *ast.IfStmt) {
	a.visitExpression(node.Condition)
	a.visitStatement(node.Then)
	if node.Else != nil {
		a.visitStatement(node.Else)
	}
}

func (a *Analyzer) visitWhileStmt(node *ast.WhileStmt) {
	a.visitExpression(node.Condition)
	a.visitStatement(node.Body)
}

func (a *Analyzer) visitForStmt(node *ast.ForStmt) {
	a.scopes.PushScope("for")
	defer a.scopes.PopScope()

	if node.Init != nil {
		if decl, ok := node.Init.(*ast.VarDecl); ok {
			a.visitVarDecl(decl)
		} else {
			a.visitStatement(node.Init)
		}
	}

	if node.Condition != nil {
		a.visitExpression(node.Condition)
	}
	if node.Update != nil {
		a.visitExpression(node.Update)
	}

	a.visitStatement(node.Body)
}

// ----------------------------------------------------------------------------
// Expressions

func (a *Analyzer) visitExpression(node ast.Expression) ast.Type {
	switch e := node.(type) {
	case *ast.IntLiteral:
		return ast.Primitive(ast.Int)
	case *ast.FloatLiteral:
		return ast.Primitive(ast.Float)
	case *ast.StringLiteral:
		return ast.Primitive(ast.CharPtr)
	case *ast.Identifier:
		sym, ok := a.scopes.Resolve(e.Name)
		if !ok {
			a.error("undefined variable: '%s'", e.Name)
			return ast.Primitive(ast.Unknown)
		}
		return sym.Type
	case *ast.BinaryOp:
		return a.visitBinaryOp(e)
	case *ast.UnaryOp:
		return a.visitUnaryOp(e)
	case *ast.Assignment:
		return a.visitAssignment(e)
	case *ast.FunctionCall:
		return a.visitFunctionCall(e)
	default:
		return ast.Primitive(ast.Unknown)
	}
}

var comparisonOperators = map[string]bool{
	"&&": true, "||": true, "==": true, "!=": true,
	"<": true, ">": true, "<=": true, ">=": true,
}

func (a *Analyzer) visitBinaryOp(node *ast.BinaryOp) ast.Type {
	left := a.visitExpression(node.Left)
	right := a.visitExpression(node.Right)

	if comparisonOperators[node.Operator] {
		return ast.Primitive(ast.Int)
	}

	// Arithmetic operators: float is "sticky" - if either side is float
	// the result is float, matching the teacher's numeric promotion rule.
	if left.Kind == ast.Float || right.Kind == ast.Float {
		return ast.Primitive(ast.Float)
	}
	return ast.Primitive(ast.Int)
}

func (a *Analyzer) visitUnaryOp(node *ast.UnaryOp) ast.Type {
	operandType := a.visitExpression(node.Operand)
	if node.Operator == "!" {
		return ast.Primitive(ast.Int)
	}
	return operandType
}

func (a *Analyzer) visitAssignment(node *ast.Assignment) ast.Type {
	sym, ok := a.scopes.Resolve(node.Target)
	if !ok {
		a.error("assignment to undefined variable: '%s'", node.Target)
		return ast.Primitive(ast.Unknown)
	}

	valueType := a.visitExpression(node.Value)
	if !ast.Assignable(sym.Type, valueType) {
		a.error("type mismatch in assignment to '%s': cannot assign %s to %s", node.Target, valueType, sym.Type)
	}
	return sym.Type
}

// visitFunctionCall resolves the callee and visits every argument for its
// side effects only: arity and parameter types are never checked against
// the declaration, matching SPEC_FULL.md §9 decision 2.
func (a *Analyzer) visitFunctionCall(node *ast.FunctionCall) ast.Type {
	sym, ok := a.scopes.Resolve(node.Name)
	if !ok {
		a.error("call to undefined function: '%s'", node.Name)
		return ast.Primitive(ast.Unknown)
	}
	if sym.Type.Kind != ast.Function {
		a.error("'%s' is not a function", node.Name)
		return ast.Primitive(ast.Unknown)
	}

	for _, arg := range node.Arguments {
		a.visitExpression(arg)
	}

	return *sym.Type.Return
}
