// Package lexer implements the Scanner stage: it turns C source text into a
// flat, EOF-terminated stream of Tokens for pkg/parser to consume.
package lexer

import (
	"fmt"
	"io"
	"strings"
)

// ----------------------------------------------------------------------------
// Tokens

type TokenType uint8

const (
	// Keywords
	INT TokenType = iota
	FLOAT
	CHAR
	IF
	ELSE
	WHILE
	FOR
	RETURN
	VOID

	// Identifiers and literals
	IDENTIFIER
	INTEGER_LITERAL
	FLOAT_LITERAL
	STRING_LITERAL

	// Operators
	PLUS
	MINUS
	MULTIPLY
	DIVIDE
	MODULO
	ASSIGN
	EQUAL
	NOT_EQUAL
	LESS_THAN
	GREATER_THAN
	LESS_EQUAL
	GREATER_EQUAL
	LOGICAL_AND
	LOGICAL_OR
	LOGICAL_NOT

	// Delimiters
	SEMICOLON
	COMMA
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET

	// Special
	EOF
)

var keywords = map[string]TokenType{
	"int": INT, "float": FLOAT, "char": CHAR, "if": IF, "else": ELSE,
	"while": WHILE, "for": FOR, "return": RETURN, "void": VOID,
}

var twoCharOperators = map[string]TokenType{
	"==": EQUAL, "!=": NOT_EQUAL, "<=": LESS_EQUAL, ">=": GREATER_EQUAL,
	"&&": LOGICAL_AND, "||": LOGICAL_OR,
}

var singleCharOperators = map[byte]TokenType{
	'+': PLUS, '-': MINUS, '*': MULTIPLY, '/': DIVIDE, '%': MODULO,
	'=': ASSIGN, '<': LESS_THAN, '>': GREATER_THAN, '!': LOGICAL_NOT,
	';': SEMICOLON, ',': COMMA, '(': LPAREN, ')': RPAREN,
	'{': LBRACE, '}': RBRACE, '[': LBRACKET, ']': RBRACKET,
}

// Token is one lexical unit: its kind, the literal text it was scanned
// from, and its source position (1-based line and column, as reported by
// the teacher's own convention for diagnostics).
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
}

// ----------------------------------------------------------------------------
// Errors

// LexicalError reports a scanning failure together with the position it
// occurred at, mirroring the teacher's own *Error value types (e.g. the
// position-carrying errors returned by pkg/asm and pkg/vm parsers).
type LexicalError struct {
	Line, Column int
	Message      string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// ----------------------------------------------------------------------------
// Scanner

// Lexer scans a whole source buffer into a Token stream. It has no
// persistent state beyond the run it was created for: a new Lexer should
// be built per compilation (see pkg/driver).
type Lexer struct {
	source []byte
	pos    int
	line   int
	column int
}

// Initializes and returns to the caller a brand new Lexer reading from r.
func NewLexer(r io.Reader) (*Lexer, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read from 'io.Reader': %w", err)
	}
	return &Lexer{source: content, line: 1, column: 1}, nil
}

// NewLexerFromString is a convenience constructor for in-memory source,
// used throughout tests and by the --example built-in program.
func NewLexerFromString(source string) *Lexer {
	return &Lexer{source: []byte(source), line: 1, column: 1}
}

func (l *Lexer) current() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peek(offset int) byte {
	pos := l.pos + offset
	if pos >= len(l.source) {
		return 0
	}
	return l.source[pos]
}

func (l *Lexer) advance() {
	if l.pos >= len(l.source) {
		return
	}
	if l.source[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) skipWhitespace() {
	for strings.IndexByte(" \t\r\n", l.current()) >= 0 && l.current() != 0 {
		l.advance()
	}
}

// skipComment consumes a '//' or '/* */' comment starting at the current
// position. An unterminated block comment simply runs off the end of the
// buffer without raising an error: see SPEC_FULL.md §9, decision 1.
func (l *Lexer) skipComment() {
	if l.current() == '/' && l.peek(1) == '/' {
		for l.current() != 0 && l.current() != '\n' {
			l.advance()
		}
		l.advance() // skip the newline itself
		return
	}
	if l.current() == '/' && l.peek(1) == '*' {
		l.advance()
		l.advance()
		for l.current() != 0 {
			if l.current() == '*' && l.peek(1) == '/' {
				l.advance()
				l.advance()
				return
			}
			l.advance()
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }

func (l *Lexer) readNumber() (Token, error) {
	startLine, startCol := l.line, l.column
	var b strings.Builder
	isFloat := false

	for isDigit(l.current()) || l.current() == '.' {
		if l.current() == '.' {
			if isFloat {
				return Token{}, &LexicalError{l.line, l.column, "invalid number format"}
			}
			isFloat = true
		}
		b.WriteByte(l.current())
		l.advance()
	}

	tt := INTEGER_LITERAL
	if isFloat {
		tt = FLOAT_LITERAL
	}
	return Token{Type: tt, Value: b.String(), Line: startLine, Column: startCol}, nil
}

func (l *Lexer) readIdentifier() Token {
	startLine, startCol := l.line, l.column
	var b strings.Builder

	for isAlnum(l.current()) || l.current() == '_' {
		b.WriteByte(l.current())
		l.advance()
	}

	ident := b.String()
	tt, isKeyword := keywords[ident]
	if !isKeyword {
		tt = IDENTIFIER
	}
	return Token{Type: tt, Value: ident, Line: startLine, Column: startCol}
}

// readString scans a double-quoted literal. The only honored escape is
// \" (matching original_source/lexer.py's read_string); any other
// backslash is copied through verbatim.
func (l *Lexer) readString() (Token, error) {
	startLine, startCol := l.line, l.column
	var b strings.Builder

	l.advance() // opening quote

	for l.current() != 0 && l.current() != '"' {
		if l.current() == '\\' && l.peek(1) == '"' {
			b.WriteByte('"')
			l.advance()
			l.advance()
			continue
		}
		b.WriteByte(l.current())
		l.advance()
	}

	if l.current() == 0 {
		return Token{}, &LexicalError{l.line, l.column, "unterminated string literal"}
	}
	l.advance() // closing quote

	return Token{Type: STRING_LITERAL, Value: b.String(), Line: startLine, Column: startCol}, nil
}

// Tokenize scans the whole buffer and returns the resulting token stream,
// always EOF-terminated (P1). It fails fast on the first lexical error
// rather than accumulating them, matching spec.md §7's fail-fast contract
// for the scanner.
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := []Token{}

	for l.current() != 0 {
		l.skipWhitespace()
		if l.current() == 0 {
			break
		}

		if l.current() == '/' && (l.peek(1) == '/' || l.peek(1) == '*') {
			l.skipComment()
			continue
		}

		if isDigit(l.current()) {
			tok, err := l.readNumber()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			continue
		}

		if isAlpha(l.current()) || l.current() == '_' {
			tokens = append(tokens, l.readIdentifier())
			continue
		}

		if l.current() == '"' {
			tok, err := l.readString()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			continue
		}

		two := string(l.current()) + string(l.peek(1))
		if tt, ok := twoCharOperators[two]; ok {
			tokens = append(tokens, Token{Type: tt, Value: two, Line: l.line, Column: l.column})
			l.advance()
			l.advance()
			continue
		}

		if tt, ok := singleCharOperators[l.current()]; ok {
			tokens = append(tokens, Token{Type: tt, Value: string(l.current()), Line: l.line, Column: l.column})
			l.advance()
			continue
		}

		return nil, &LexicalError{l.line, l.column, fmt.Sprintf("unexpected character: '%c'", l.current())}
	}

	tokens = append(tokens, Token{Type: EOF, Value: "", Line: l.line, Column: l.column})
	return tokens, nil
}

// String renders a TokenType for diagnostics and test failure messages.
func (t TokenType) String() string {
	names := map[TokenType]string{
		INT: "INT", FLOAT: "FLOAT", CHAR: "CHAR", IF: "IF", ELSE: "ELSE",
		WHILE: "WHILE", FOR: "FOR", RETURN: "RETURN", VOID: "VOID",
		IDENTIFIER: "IDENTIFIER", INTEGER_LITERAL: "INTEGER_LITERAL",
		FLOAT_LITERAL: "FLOAT_LITERAL", STRING_LITERAL: "STRING_LITERAL",
		PLUS: "PLUS", MINUS: "MINUS", MULTIPLY: "MULTIPLY", DIVIDE: "DIVIDE",
		MODULO: "MODULO", ASSIGN: "ASSIGN", EQUAL: "EQUAL", NOT_EQUAL: "NOT_EQUAL",
		LESS_THAN: "LESS_THAN", GREATER_THAN: "GREATER_THAN", LESS_EQUAL: "LESS_EQUAL",
		GREATER_EQUAL: "GREATER_EQUAL", LOGICAL_AND: "LOGICAL_AND", LOGICAL_OR: "LOGICAL_OR",
		LOGICAL_NOT: "LOGICAL_NOT", SEMICOLON: "SEMICOLON", COMMA: "COMMA",
		LPAREN: "LPAREN", RPAREN: "RPAREN", LBRACE: "LBRACE", RBRACE: "RBRACE",
		LBRACKET: "LBRACKET", RBRACKET: "RBRACKET", EOF: "EOF",
	}
	if name, ok := names[t]; ok {
		return name
	}
	return "UNKNOWN"
}
