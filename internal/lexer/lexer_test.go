package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tinyrange/safecpp/internal/lexer"
)

func types(toks []lexer.Token) []lexer.TokenType {
	tts := make([]lexer.TokenType, len(toks))
	for i, t := range toks {
		tts[i] = t.Type
	}
	return tts
}

func TestTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []lexer.TokenType
	}{
		{"declaration", "int *p = nullptr;", []lexer.TokenType{lexer.KW_INT, lexer.STAR, lexer.IDENT, lexer.ASSIGN, lexer.KW_NULLPTR, lexer.SEMI, lexer.EOF}},
		{"operators", "a += b && !c || d->e", []lexer.TokenType{lexer.IDENT, lexer.ADD_ASSIGN, lexer.IDENT, lexer.ANDAND, lexer.BANG, lexer.IDENT, lexer.OROR, lexer.IDENT, lexer.ARROW, lexer.IDENT, lexer.EOF}},
		{"increment", "i++ <= --j", []lexer.TokenType{lexer.IDENT, lexer.INC, lexer.LE, lexer.DEC, lexer.IDENT, lexer.EOF}},
		{"scope", "std::cout", []lexer.TokenType{lexer.IDENT, lexer.SCOPE, lexer.IDENT, lexer.EOF}},
		{"literals", `42 3.5f 'c' "s"`, []lexer.TokenType{lexer.INT, lexer.FLOAT, lexer.CHAR, lexer.STRING, lexer.EOF}},
		{"delete array", "delete[] p;", []lexer.TokenType{lexer.KW_DELETE, lexer.LBRACK, lexer.RBRACK, lexer.IDENT, lexer.SEMI, lexer.EOF}},
		{"preprocessor", "#include <cstdlib>\n#define N 4\nint x;", []lexer.TokenType{lexer.KW_INT, lexer.IDENT, lexer.SEMI, lexer.EOF}},
		{"comments", "int /* a */ x; // b\n// c", []lexer.TokenType{lexer.KW_INT, lexer.IDENT, lexer.SEMI, lexer.EOF}},
		{"hash mid line", "x # y", []lexer.TokenType{lexer.IDENT, lexer.ILLEGAL, lexer.IDENT, lexer.EOF}},
		{"empty", "", []lexer.TokenType{lexer.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, types(lexer.New(tt.src).Tokens()))
		})
	}
}

func TestPositions(t *testing.T) {
	t.Parallel()

	toks := lexer.New("int x;\n  x = 1;").Tokens()
	want := []lexer.Token{
		{Type: lexer.KW_INT, Lex: "int", Line: 1, Col: 1},
		{Type: lexer.IDENT, Lex: "x", Line: 1, Col: 5},
		{Type: lexer.SEMI, Lex: ";", Line: 1, Col: 6},
		{Type: lexer.IDENT, Lex: "x", Line: 2, Col: 3},
		{Type: lexer.ASSIGN, Lex: "=", Line: 2, Col: 5},
		{Type: lexer.INT, Lex: "1", Line: 2, Col: 7},
		{Type: lexer.SEMI, Lex: ";", Line: 2, Col: 8},
	}
	assert.Equal(t, want, toks[:len(want)])
}

func TestLookup(t *testing.T) {
	t.Parallel()

	assert.Equal(t, lexer.KW_RETURN, lexer.Lookup("return"))
	assert.Equal(t, lexer.KW_UNSIGNED, lexer.Lookup("unsigned"))
	assert.Equal(t, lexer.IDENT, lexer.Lookup("malloc"))

	assert.True(t, lexer.KW_DOUBLE.IsType())
	assert.False(t, lexer.KW_CONST.IsType())
	assert.True(t, lexer.KW_STATIC.IsQualifier())
	assert.Equal(t, "KW_INT", lexer.KW_INT.String())
}
