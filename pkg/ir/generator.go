package ir

import (
	"fmt"
	"strconv"

	"minicc.dev/compiler/pkg/ast"
)

// ----------------------------------------------------------------------------
// IR Generator

// Generator takes a (semantically valid) ast.Program and lowers it to a
// flat []Instruction. Like the teacher's Lowerer structs it owns its own
// monotonic counters rather than reaching for package-level state, so a
// fresh Generator must be built per compilation to keep the P4 (fresh
// temporary/label uniqueness) invariant within one run.
type Generator struct {
	instructions []Instruction
	nTemp        int
	nLabel       int
}

// Initializes and returns to the caller a brand new Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) newTemp() string {
	t := fmt.Sprintf("t%d", g.nTemp)
	g.nTemp++
	return t
}

func (g *Generator) newLabel() string {
	l := fmt.Sprintf("L%d", g.nLabel)
	g.nLabel++
	return l
}

func (g *Generator) emit(inst Instruction) { g.instructions = append(g.instructions, inst) }

// Generate lowers program and returns the resulting instruction stream.
func (g *Generator) Generate(program *ast.Program) []Instruction {
	g.visitProgram(program)
	return g.instructions
}

func (g *Generator) visitProgram(node *ast.Program) {
	for _, decl := range node.Declarations {
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			g.visitFunctionDecl(d)
		case *ast.VarDecl:
			g.visitVarDecl(d)
		}
	}
}

func (g *Generator) visitFunctionDecl(node *ast.FunctionDecl) {
	if node.Body == nil {
		return
	}
	g.emit(FunctionStart{Name: node.Name})
	g.visitCompoundStmt(node.Body)
	g.emit(FunctionEnd{Name: node.Name})
}

// visitVarDecl only emits TAC when the declaration has an initializer -
// see SPEC_FULL.md §9 decision 4. A bare global `int g;` produces nothing.
func (g *Generator) visitVarDecl(node *ast.VarDecl) {
	if node.Initializer == nil {
		return
	}
	value := g.visitExpression(node.Initializer)
	g.emit(Assign{Result: node.Name, Arg1: value})
}

func (g *Generator) visitCompoundStmt(node *ast.CompoundStmt) {
	for _, stmt := range node.Statements {
		g.visitStatement(stmt)
	}
}

func (g *Generator) visitStatement(node ast.Statement) {
	switch s := node.(type) {
	case *ast.VarDecl:
		g.visitVarDecl(s)
	case *ast.CompoundStmt:
		g.visitCompoundStmt(s)
	case *ast.ExpressionStmt:
		if s.Expression != nil {
			g.visitExpression(s.Expression)
		}
	case *ast.ReturnStmt:
		g.visitReturnStmt(s)
	case *ast.IfStmt:
		g.visitIfStmt(s)
	case *ast.WhileStmt:
		g.visitWhileStmt(s)
	case *ast.ForStmt:
		g.visitForStmt(s)
	}
}

func (g *Generator) visitReturnStmt(node *ast.ReturnStmt) {
	if node.Expression != nil {
		g.emit(Return{Value: g.visitExpression(node.Expression)})
	} else {
		g.emit(Return{})
	}
}

func (g *Generator) visitIfStmt(node *ast.IfStmt) {
	cond := g.visitExpression(node.Condition)

	if node.Else != nil {
		elseLabel, endLabel := g.newLabel(), g.newLabel()
		g.emit(IfFalseGoto{Condition: cond, Label: elseLabel})
		g.visitStatement(node.Then)
		g.emit(Goto{Label: endLabel})
		g.emit(Label{Name: elseLabel})
		g.visitStatement(node.Else)
		g.emit(Label{Name: endLabel})
		return
	}

	endLabel := g.newLabel()
	g.emit(IfFalseGoto{Condition: cond, Label: endLabel})
	g.visitStatement(node.Then)
	g.emit(Label{Name: endLabel})
}

func (g *Generator) visitWhileStmt(node *ast.WhileStmt) {
	startLabel, endLabel := g.newLabel(), g.newLabel()

	g.emit(Label{Name: startLabel})
	cond := g.visitExpression(node.Condition)
	g.emit(IfFalseGoto{Condition: cond, Label: endLabel})
	g.visitStatement(node.Body)
	g.emit(Goto{Label: startLabel})
	g.emit(Label{Name: endLabel})
}

func (g *Generator) visitForStmt(node *ast.ForStmt) {
	if node.Init != nil {
		if decl, ok := node.Init.(*ast.VarDecl); ok {
			g.visitVarDecl(decl)
		} else {
			g.visitStatement(node.Init)
		}
	}

	startLabel, endLabel, updateLabel := g.newLabel(), g.newLabel(), g.newLabel()

	g.emit(Label{Name: startLabel})
	if node.Condition != nil {
		cond := g.visitExpression(node.Condition)
		g.emit(IfFalseGoto{Condition: cond, Label: endLabel})
	}

	g.visitStatement(node.Body)

	g.emit(Label{Name: updateLabel})
	if node.Update != nil {
		g.visitExpression(node.Update)
	}

	g.emit(Goto{Label: startLabel})
	g.emit(Label{Name: endLabel})
}

// visitExpression lowers node and returns the name of the TAC operand
// (a temporary, a variable name, or a literal's textual form) holding its
// result.
func (g *Generator) visitExpression(node ast.Expression) string {
	switch e := node.(type) {
	case *ast.IntLiteral:
		return strconv.FormatInt(e.Value, 10)
	case *ast.FloatLiteral:
		return strconv.FormatFloat(e.Value, 'g', -1, 64)
	case *ast.StringLiteral:
		return fmt.Sprintf("%q", e.Value)
	case *ast.Identifier:
		return e.Name
	case *ast.BinaryOp:
		return g.visitBinaryOp(e)
	case *ast.UnaryOp:
		return g.visitUnaryOp(e)
	case *ast.Assignment:
		return g.visitAssignment(e)
	case *ast.FunctionCall:
		return g.visitFunctionCall(e)
	default:
		return "unknown"
	}
}

func (g *Generator) visitBinaryOp(node *ast.BinaryOp) string {
	left := g.visitExpression(node.Left)
	right := g.visitExpression(node.Right)

	result := g.newTemp()
	g.emit(BinaryOp{Result: result, Arg1: left, Op: node.Operator, Arg2: right})
	return result
}

func (g *Generator) visitUnaryOp(node *ast.UnaryOp) string {
	operand := g.visitExpression(node.Operand)

	result := g.newTemp()
	g.emit(UnaryOp{Result: result, Op: node.Operator, Arg: operand})
	return result
}

func (g *Generator) visitAssignment(node *ast.Assignment) string {
	value := g.visitExpression(node.Value)
	g.emit(Assign{Result: node.Target, Arg1: value})
	return node.Target
}

// visitFunctionCall emits one Param per argument in reverse source order
// before the Call, matching original_source/intermediate_code.py's
// visit_function_call convention.
func (g *Generator) visitFunctionCall(node *ast.FunctionCall) string {
	for i := len(node.Arguments) - 1; i >= 0; i-- {
		arg := g.visitExpression(node.Arguments[i])
		g.emit(Param{Arg: arg})
	}

	result := g.newTemp()
	g.emit(Call{Result: result, Function: node.Name, NArgs: len(node.Arguments)})
	return result
}
