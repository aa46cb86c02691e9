package lexer

import (
	"strings"
	"unicode"
)

type Lexer struct {
	src  []rune
	i    int
	ch   rune
	line int
	col  int
	bol  bool // only whitespace seen since the last newline
}

func New(src string) *Lexer {
	l := &Lexer{src: []rune(src), line: 1, bol: true}
	l.read()
	return l
}

func (l *Lexer) read() {
	if l.i >= len(l.src) {
		l.ch = 0
		return
	}
	if l.ch == '\n' {
		l.bol = true
	} else if l.ch != 0 && !unicode.IsSpace(l.ch) {
		l.bol = false
	}
	l.ch = l.src[l.i]
	l.i++
	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) peek() rune {
	if l.i >= len(l.src) {
		return 0
	}
	return l.src[l.i]
}

// Tokens lexes the whole input, including the trailing EOF token.
func (l *Lexer) Tokens() []Token {
	var toks []Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Type == EOF {
			return toks
		}
	}
}

func (l *Lexer) Next() Token {
	// skip spaces, comments and preprocessor lines
	for {
		for unicode.IsSpace(l.ch) {
			l.read()
		}
		if l.ch == '#' && l.bol {
			for l.ch != 0 && l.ch != '\n' {
				l.read()
			}
			continue
		}
		if l.ch == '/' && l.peek() == '/' {
			for l.ch != 0 && l.ch != '\n' {
				l.read()
			}
			continue
		}
		if l.ch == '/' && l.peek() == '*' {
			l.read()
			l.read()
			for l.ch != 0 {
				if l.ch == '*' && l.peek() == '/' {
					l.read()
					l.read()
					break
				}
				l.read()
			}
			continue
		}
		break
	}
	tok := Token{Line: l.line, Col: l.col}
	switch ch := l.ch; ch {
	case 0:
		tok.Type = EOF
	case '(':
		tok.Type, tok.Lex = LPAREN, string(ch)
		l.read()
	case ')':
		tok.Type, tok.Lex = RPAREN, string(ch)
		l.read()
	case '{':
		tok.Type, tok.Lex = LBRACE, string(ch)
		l.read()
	case '}':
		tok.Type, tok.Lex = RBRACE, string(ch)
		l.read()
	case '[':
		tok.Type, tok.Lex = LBRACK, string(ch)
		l.read()
	case ']':
		tok.Type, tok.Lex = RBRACK, string(ch)
		l.read()
	case ';':
		tok.Type, tok.Lex = SEMI, string(ch)
		l.read()
	case ',':
		tok.Type, tok.Lex = COMMA, string(ch)
		l.read()
	case '.':
		tok.Type, tok.Lex = DOT, string(ch)
		l.read()
	case '~':
		tok.Type, tok.Lex = TILDE, string(ch)
		l.read()
	case ':':
		tok.Type, tok.Lex = l.pick(':', COLON, SCOPE)
	case '=':
		tok.Type, tok.Lex = l.pick('=', ASSIGN, EQEQ)
	case '!':
		tok.Type, tok.Lex = l.pick('=', BANG, NEQ)
	case '<':
		tok.Type, tok.Lex = l.pick('=', LT, LE)
	case '>':
		tok.Type, tok.Lex = l.pick('=', GT, GE)
	case '*':
		tok.Type, tok.Lex = l.pick('=', STAR, MUL_ASSIGN)
	case '/':
		tok.Type, tok.Lex = l.pick('=', SLASH, DIV_ASSIGN)
	case '%':
		tok.Type, tok.Lex = PERCENT, string(ch)
		l.read()
	case '&':
		tok.Type, tok.Lex = l.pick('&', AMP, ANDAND)
	case '|':
		tok.Type, tok.Lex = l.pick('|', ILLEGAL, OROR)
	case '+':
		switch l.peek() {
		case '+':
			tok.Type, tok.Lex = INC, "++"
			l.read()
			l.read()
		default:
			tok.Type, tok.Lex = l.pick('=', PLUS, ADD_ASSIGN)
		}
	case '-':
		switch l.peek() {
		case '-':
			tok.Type, tok.Lex = DEC, "--"
			l.read()
			l.read()
		case '>':
			tok.Type, tok.Lex = ARROW, "->"
			l.read()
			l.read()
		default:
			tok.Type, tok.Lex = l.pick('=', MINUS, SUB_ASSIGN)
		}
	case '"':
		tok.Type, tok.Lex = STRING, l.quoted('"')
	case '\'':
		tok.Type, tok.Lex = CHAR, l.quoted('\'')
	default:
		if unicode.IsLetter(ch) || ch == '_' {
			var sb strings.Builder
			for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' {
				sb.WriteRune(l.ch)
				l.read()
			}
			tok.Lex = sb.String()
			tok.Type = Lookup(tok.Lex)
		} else if unicode.IsDigit(ch) {
			var sb strings.Builder
			tok.Type = INT
			for unicode.IsDigit(l.ch) || unicode.IsLetter(l.ch) || l.ch == '.' {
				if l.ch == '.' {
					tok.Type = FLOAT
				}
				sb.WriteRune(l.ch)
				l.read()
			}
			tok.Lex = sb.String()
		} else {
			tok.Type, tok.Lex = ILLEGAL, string(ch)
			l.read()
		}
	}
	return tok
}

// pick consumes the current rune and, if the next one is second, that one
// too, returning the matching token type and lexeme.
func (l *Lexer) pick(second rune, single, double TokenType) (TokenType, string) {
	first := l.ch
	l.read()
	if l.ch == second {
		l.read()
		return double, string([]rune{first, second})
	}
	return single, string(first)
}

// quoted reads a string or character literal, decoding simple escapes.
// An unterminated literal runs to the end of the line.
func (l *Lexer) quoted(quote rune) string {
	var sb strings.Builder
	l.read()
	for l.ch != 0 && l.ch != '\n' && l.ch != quote {
		if l.ch == '\\' {
			l.read()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '0':
				sb.WriteRune(0)
			case 0:
				return sb.String()
			default:
				sb.WriteRune(l.ch)
			}
			l.read()
			continue
		}
		sb.WriteRune(l.ch)
		l.read()
	}
	if l.ch == quote {
		l.read()
	}
	return sb.String()
}
