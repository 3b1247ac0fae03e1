// Package parser implements the Parser stage: recursive-descent with
// precedence climbing over the token stream produced by pkg/lexer,
// producing the pkg/ast tree consumed by pkg/sema.
package parser

import (
	"fmt"
	"strconv"

	"minicc.dev/compiler/pkg/ast"
	"minicc.dev/compiler/pkg/lexer"
)

// ----------------------------------------------------------------------------
// Errors

// ParseError reports a syntax error together with the offending token's
// position, in the same shape as lexer.LexicalError one stage down.
type ParseError struct {
	Line, Column int
	Message      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// ----------------------------------------------------------------------------
// Parser

// Parser consumes a flat token slice and builds an ast.Program from it. It
// holds only a cursor into the slice, not the lexer itself, matching the
// teacher's own two-phase (scan fully, then parse) pipeline shape.
type Parser struct {
	tokens  []lexer.Token
	pos     int
	current lexer.Token
}

// Initializes and returns to the caller a brand new Parser over tokens.
// Requires tokens to be non-empty and EOF-terminated (the contract
// lexer.Tokenize always upholds).
func NewParser(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens}
	if len(tokens) > 0 {
		p.current = tokens[0]
	}
	return p
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{p.current.Line, p.current.Column, fmt.Sprintf(format, args...)}
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
		p.current = p.tokens[p.pos]
	}
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, tt := range types {
		if p.current.Type == tt {
			return true
		}
	}
	return false
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if p.current.Type != tt {
		return lexer.Token{}, p.errorf("expected %s, got %s", tt, p.current.Type)
	}
	tok := p.current
	p.advance()
	return tok, nil
}

// Parse is the entry point: it consumes the whole token stream and
// returns the resulting ast.Program, or the first ParseError encountered.
func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}

	for p.current.Type != lexer.EOF {
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		program.Declarations = append(program.Declarations, decl)
	}

	return program, nil
}

// ----------------------------------------------------------------------------
// Declarations

func (p *Parser) parseDeclaration() (ast.Declaration, error) {
	if !p.match(lexer.INT, lexer.FLOAT, lexer.CHAR, lexer.VOID) {
		return nil, p.errorf("expected type specifier, got %s", p.current.Type)
	}
	typ := ast.TypeFromName(p.current.Value)
	line := p.current.Line
	p.advance()

	nameTok, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	if p.current.Type == lexer.LPAREN {
		return p.parseFunctionDecl(typ, nameTok.Value, line)
	}
	return p.parseVarDecl(typ, nameTok.Value, line)
}

func (p *Parser) parseFunctionDecl(returnType ast.Type, name string, line int) (*ast.FunctionDecl, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var params []ast.Parameter
	if p.current.Type != lexer.RPAREN {
		var err error
		params, err = p.parseParameterList()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	var body *ast.CompoundStmt
	if p.current.Type == lexer.LBRACE {
		b, err := p.parseCompoundStmt()
		if err != nil {
			return nil, err
		}
		body = b
	} else if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.FunctionDecl{Name: name, ReturnType: returnType, Parameters: params, Body: body, Line: line}, nil
}

func (p *Parser) parseParameterList() ([]ast.Parameter, error) {
	var params []ast.Parameter

	for {
		if !p.match(lexer.INT, lexer.FLOAT, lexer.CHAR) {
			return nil, p.errorf("expected parameter type")
		}
		paramType := ast.TypeFromName(p.current.Value)
		p.advance()

		nameTok, err := p.expect(lexer.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Parameter{Name: nameTok.Value, Type: paramType})

		if p.current.Type != lexer.COMMA {
			break
		}
		p.advance()
	}

	return params, nil
}

func (p *Parser) parseVarDecl(typ ast.Type, name string, line int) (*ast.VarDecl, error) {
	var init ast.Expression

	if p.current.Type == lexer.ASSIGN {
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		init = expr
	}

	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.VarDecl{Name: name, Type: typ, Initializer: init, Line: line}, nil
}

// ----------------------------------------------------------------------------
// Statements

func (p *Parser) parseCompoundStmt() (*ast.CompoundStmt, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	var stmts []ast.Statement
	for p.current.Type != lexer.RBRACE {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}

	return &ast.CompoundStmt{Statements: stmts}, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch {
	case p.match(lexer.INT, lexer.FLOAT, lexer.CHAR):
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		stmt, ok := decl.(ast.Statement)
		if !ok {
			return nil, p.errorf("function declarations are not allowed here")
		}
		return stmt, nil
	case p.current.Type == lexer.RETURN:
		return p.parseReturnStmt()
	case p.current.Type == lexer.IF:
		return p.parseIfStmt()
	case p.current.Type == lexer.WHILE:
		return p.parseWhileStmt()
	case p.current.Type == lexer.FOR:
		return p.parseForStmt()
	case p.current.Type == lexer.LBRACE:
		return p.parseCompoundStmt()
	default:
		return p.parseExpressionStmt()
	}
}

func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, error) {
	line := p.current.Line
	if _, err := p.expect(lexer.RETURN); err != nil {
		return nil, err
	}

	var expr ast.Expression
	if p.current.Type != lexer.SEMICOLON {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr = e
	}

	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.ReturnStmt{Expression: expr, Line: line}, nil
}

func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	if _, err := p.expect(lexer.IF); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	var elseStmt ast.Statement
	if p.current.Type == lexer.ELSE {
		p.advance()
		elseStmt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}

	return &ast.IfStmt{Condition: cond, Then: then, Else: elseStmt}, nil
}

func (p *Parser) parseWhileStmt() (*ast.WhileStmt, error) {
	if _, err := p.expect(lexer.WHILE); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Condition: cond, Body: body}, nil
}

func (p *Parser) parseForStmt() (*ast.ForStmt, error) {
	if _, err := p.expect(lexer.FOR); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var init ast.Statement
	switch {
	case p.match(lexer.INT, lexer.FLOAT, lexer.CHAR):
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		varDecl, ok := decl.(*ast.VarDecl)
		if !ok {
			return nil, p.errorf("for-loop initializer must be a variable declaration")
		}
		init = varDecl
	case p.current.Type != lexer.SEMICOLON:
		stmt, err := p.parseExpressionStmt()
		if err != nil {
			return nil, err
		}
		init = stmt
	default:
		p.advance() // bare ';'
	}

	var cond ast.Expression
	if p.current.Type != lexer.SEMICOLON {
		c, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	var update ast.Expression
	if p.current.Type != lexer.RPAREN {
		u, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		update = u
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return &ast.ForStmt{Init: init, Condition: cond, Update: update, Body: body}, nil
}

func (p *Parser) parseExpressionStmt() (*ast.ExpressionStmt, error) {
	if p.current.Type == lexer.SEMICOLON {
		p.advance()
		return &ast.ExpressionStmt{}, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expression: expr}, nil
}

// ----------------------------------------------------------------------------
// Expressions (precedence climbing, lowest to highest)
//
// assignment > logical-or > logical-and > equality > relational > additive
// > multiplicative > unary > postfix > primary

func (p *Parser) parseExpression() (ast.Expression, error) {
	expr, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}

	if p.current.Type == lexer.ASSIGN {
		ident, ok := expr.(*ast.Identifier)
		if !ok {
			return nil, p.errorf("invalid assignment target")
		}
		line := p.current.Line
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Target: ident.Name, Value: value, Line: line}, nil
	}

	return expr, nil
}

func (p *Parser) parseBinaryLevel(next func() (ast.Expression, error), types ...lexer.TokenType) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for p.match(types...) {
		op, line := p.current.Value, p.current.Line
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Operator: op, Left: left, Right: right, Line: line}
	}

	return left, nil
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseLogicalAnd, lexer.LOGICAL_OR)
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseEquality, lexer.LOGICAL_AND)
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseRelational, lexer.EQUAL, lexer.NOT_EQUAL)
}

func (p *Parser) parseRelational() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseAdditive, lexer.LESS_THAN, lexer.GREATER_THAN, lexer.LESS_EQUAL, lexer.GREATER_EQUAL)
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseMultiplicative, lexer.PLUS, lexer.MINUS)
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseUnary, lexer.MULTIPLY, lexer.DIVIDE, lexer.MODULO)
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.match(lexer.MINUS, lexer.LOGICAL_NOT) {
		op, line := p.current.Value, p.current.Line
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Operator: op, Operand: operand, Line: line}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.current.Type == lexer.LPAREN {
		ident, ok := expr.(*ast.Identifier)
		if !ok {
			return nil, p.errorf("invalid function call")
		}
		line := ident.Line
		p.advance()

		var args []ast.Expression
		if p.current.Type != lexer.RPAREN {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			for p.current.Type == lexer.COMMA {
				p.advance()
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
		}

		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		expr = &ast.FunctionCall{Name: ident.Name, Arguments: args, Line: line}
	}

	return expr, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	switch p.current.Type {
	case lexer.INTEGER_LITERAL:
		value, err := strconv.ParseInt(p.current.Value, 10, 64)
		if err != nil {
			return nil, p.errorf("malformed integer literal '%s'", p.current.Value)
		}
		p.advance()
		return &ast.IntLiteral{Value: value}, nil

	case lexer.FLOAT_LITERAL:
		value, err := strconv.ParseFloat(p.current.Value, 64)
		if err != nil {
			return nil, p.errorf("malformed float literal '%s'", p.current.Value)
		}
		p.advance()
		return &ast.FloatLiteral{Value: value}, nil

	case lexer.STRING_LITERAL:
		value := p.current.Value
		p.advance()
		return &ast.StringLiteral{Value: value}, nil

	case lexer.IDENTIFIER:
		tok := p.current
		p.advance()
		return &ast.Identifier{Name: tok.Value, Line: tok.Line}, nil

	case lexer.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, p.errorf("unexpected token: %s", p.current.Type)
	}
}
