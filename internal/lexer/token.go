package lexer

//go:generate go tool stringer -type=TokenType

type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Identifiers + literals
	IDENT
	INT
	FLOAT
	CHAR
	STRING

	// Type keywords
	KW_INT
	KW_CHAR
	KW_BOOL
	KW_SHORT
	KW_LONG
	KW_FLOAT
	KW_DOUBLE
	KW_VOID
	KW_AUTO
	KW_UNSIGNED
	KW_SIGNED

	// Qualifiers
	KW_CONST
	KW_STATIC

	// Keywords
	KW_RETURN
	KW_IF
	KW_ELSE
	KW_WHILE
	KW_FOR
	KW_DO
	KW_BREAK
	KW_CONTINUE
	KW_NEW
	KW_DELETE
	KW_NULLPTR
	KW_SIZEOF
	KW_TRUE
	KW_FALSE

	// Symbols
	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }
	LBRACK // [
	RBRACK // ]
	SEMI   // ;
	COMMA  // ,
	COLON  // :
	SCOPE  // ::
	DOT    // .
	ARROW  // ->
	ASSIGN // =
	AMP    // &

	// Arithmetic
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	INC     // ++
	DEC     // --

	// Compound assignment
	ADD_ASSIGN // +=
	SUB_ASSIGN // -=
	MUL_ASSIGN // *=
	DIV_ASSIGN // /=

	// Logical
	ANDAND // &&
	OROR   // ||
	BANG   // !
	TILDE  // ~

	// Comparison
	EQEQ // ==
	NEQ  // !=
	LT   // <
	LE   // <=
	GT   // >
	GE   // >=
)

// keywords is read-only after package initialization.
var keywords = map[string]TokenType{
	"int":      KW_INT,
	"char":     KW_CHAR,
	"bool":     KW_BOOL,
	"short":    KW_SHORT,
	"long":     KW_LONG,
	"float":    KW_FLOAT,
	"double":   KW_DOUBLE,
	"void":     KW_VOID,
	"auto":     KW_AUTO,
	"unsigned": KW_UNSIGNED,
	"signed":   KW_SIGNED,
	"const":    KW_CONST,
	"static":   KW_STATIC,
	"return":   KW_RETURN,
	"if":       KW_IF,
	"else":     KW_ELSE,
	"while":    KW_WHILE,
	"for":      KW_FOR,
	"do":       KW_DO,
	"break":    KW_BREAK,
	"continue": KW_CONTINUE,
	"new":      KW_NEW,
	"delete":   KW_DELETE,
	"nullptr":  KW_NULLPTR,
	"sizeof":   KW_SIZEOF,
	"true":     KW_TRUE,
	"false":    KW_FALSE,
}

// Lookup returns the keyword token type for ident, or IDENT.
func Lookup(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}

// IsType reports whether tt starts a type specifier.
func (tt TokenType) IsType() bool { return tt >= KW_INT && tt <= KW_SIGNED }

// IsQualifier reports whether tt is a declaration qualifier.
func (tt TokenType) IsQualifier() bool { return tt == KW_CONST || tt == KW_STATIC }

type Token struct {
	Type TokenType
	Lex  string
	Line int
	Col  int
}
