package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minicc.dev/compiler/pkg/lexer"
)

func TestTokenizeKeywordsAndIdentifiers(t *testing.T) {
	tokens, err := lexer.NewLexerFromString("int x = 5;").Tokenize()
	require.NoError(t, err)

	want := []lexer.TokenType{lexer.INT, lexer.IDENTIFIER, lexer.ASSIGN, lexer.INTEGER_LITERAL, lexer.SEMICOLON, lexer.EOF}
	require.Len(t, tokens, len(want))
	for i, tt := range want {
		assert.Equal(t, tt, tokens[i].Type, "token %d", i)
	}
	assert.Equal(t, "x", tokens[1].Value)
}

func TestTokenizeAlwaysEndsWithEOF(t *testing.T) {
	// P1: the token stream is always EOF terminated, even for empty input.
	tokens, err := lexer.NewLexerFromString("").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, lexer.EOF, tokens[0].Type)
}

func TestTokenizePositionsAreMonotonic(t *testing.T) {
	// P2: token positions never decrease across the stream.
	tokens, err := lexer.NewLexerFromString("int x;\nfloat y;").Tokenize()
	require.NoError(t, err)

	for i := 1; i < len(tokens); i++ {
		prev, cur := tokens[i-1], tokens[i]
		assert.True(t, cur.Line > prev.Line || (cur.Line == prev.Line && cur.Column >= prev.Column),
			"token %d (%v) is not after token %d (%v)", i, cur, i-1, prev)
	}
}

func TestTwoCharOperators(t *testing.T) {
	tokens, err := lexer.NewLexerFromString("a == b != c <= d >= e && f || g").Tokenize()
	require.NoError(t, err)

	want := []lexer.TokenType{
		lexer.IDENTIFIER, lexer.EQUAL, lexer.IDENTIFIER, lexer.NOT_EQUAL, lexer.IDENTIFIER,
		lexer.LESS_EQUAL, lexer.IDENTIFIER, lexer.GREATER_EQUAL, lexer.IDENTIFIER, lexer.LOGICAL_AND,
		lexer.IDENTIFIER, lexer.LOGICAL_OR, lexer.IDENTIFIER, lexer.EOF,
	}
	require.Len(t, tokens, len(want))
	for i, tt := range want {
		assert.Equal(t, tt, tokens[i].Type, "token %d", i)
	}
}

func TestSkipsLineAndBlockComments(t *testing.T) {
	tokens, err := lexer.NewLexerFromString("int x; // trailing comment\n/* block\ncomment */ float y;").Tokenize()
	require.NoError(t, err)

	var types []lexer.TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []lexer.TokenType{
		lexer.INT, lexer.IDENTIFIER, lexer.SEMICOLON,
		lexer.FLOAT, lexer.IDENTIFIER, lexer.SEMICOLON, lexer.EOF,
	}, types)
}

func TestUnterminatedBlockCommentRunsToEOF(t *testing.T) {
	// SPEC_FULL.md §9 decision 1: an unterminated /* comment is not an error.
	tokens, err := lexer.NewLexerFromString("int x; /* never closed").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, lexer.EOF, tokens[3].Type)
}

func TestUnterminatedStringIsLexicalError(t *testing.T) {
	_, err := lexer.NewLexerFromString(`"never closed`).Tokenize()
	require.Error(t, err)
	var lexErr *lexer.LexicalError
	require.ErrorAs(t, err, &lexErr)
}

func TestSecondDecimalPointIsLexicalError(t *testing.T) {
	_, err := lexer.NewLexerFromString("3.14.15").Tokenize()
	require.Error(t, err)
	var lexErr *lexer.LexicalError
	require.ErrorAs(t, err, &lexErr)
}

func TestUnexpectedCharacterIsLexicalError(t *testing.T) {
	_, err := lexer.NewLexerFromString("int x = 5 @ 3;").Tokenize()
	require.Error(t, err)
	var lexErr *lexer.LexicalError
	require.ErrorAs(t, err, &lexErr)
	assert.Contains(t, lexErr.Message, "@")
}

func TestStringEscapeHandling(t *testing.T) {
	tokens, err := lexer.NewLexerFromString(`"say \"hi\""`).Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, `say "hi"`, tokens[0].Value)
}
