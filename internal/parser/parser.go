package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tinyrange/safecpp/internal/ast"
	"github.com/tinyrange/safecpp/internal/lexer"
	"github.com/tinyrange/safecpp/internal/types"
)

// DefaultMaxDepth bounds statement and expression nesting.
const DefaultMaxDepth = 1000

// ErrNestingTooDeep is returned when the input nests deeper than the
// configured limit.
var ErrNestingTooDeep = errors.New("nesting too deep")

// Option configures ParseFile.
type Option func(*Parser)

// WithMaxDepth overrides DefaultMaxDepth. Values <= 0 keep the default.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

type Parser struct {
	filename string
	lx       *lexer.Lexer
	tok      lexer.Token

	// scopes maps declared names to whether they hold a pointer.
	scopes []map[string]bool

	depth    int
	maxDepth int
}

func ParseFile(filename, src string, opts ...Option) (*ast.File, error) {
	p := &Parser{filename: filename, lx: lexer.New(src), maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	p.next()
	p.push()
	f := &ast.File{}
	for p.tok.Type != lexer.EOF {
		ds, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		f.Decls = append(f.Decls, ds...)
	}
	return f, nil
}

func (p *Parser) next() { p.tok = p.lx.Next() }

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%s:%d:%d: %s", p.filename, p.tok.Line, p.tok.Col, fmt.Sprintf(format, args...))
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if p.tok.Type != tt {
		return lexer.Token{}, p.errorf("expected %v, got %v %q", tt, p.tok.Type, p.tok.Lex)
	}
	t := p.tok
	p.next()
	return t, nil
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return fmt.Errorf("%s:%d:%d: %w (limit %d)", p.filename, p.tok.Line, p.tok.Col, ErrNestingTooDeep, p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) push() { p.scopes = append(p.scopes, map[string]bool{}) }

func (p *Parser) pop() { p.scopes = p.scopes[:len(p.scopes)-1] }

func (p *Parser) declare(name string, pointer bool) {
	p.scopes[len(p.scopes)-1][name] = pointer
}

// ref builds a reference to name, distinguishing pointers by declaration.
func (p *Parser) ref(name string) ast.Expr {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if ptr, ok := p.scopes[i][name]; ok {
			if ptr {
				return &ast.VarRef{Name: name}
			}
			return &ast.Ident{Name: name}
		}
	}
	return &ast.Ident{Name: name}
}

func (p *Parser) atTypeStart() bool {
	return p.tok.Type.IsType() || p.tok.Type.IsQualifier()
}

// parseType parses qualifiers, type specifiers and any pointer stars.
func (p *Parser) parseType() (types.Type, error) {
	for p.tok.Type.IsQualifier() {
		p.next()
	}
	if !p.tok.Type.IsType() {
		return types.Type{}, p.errorf("expected type, got %v %q", p.tok.Type, p.tok.Lex)
	}
	var kind types.Kind
	for seen := false; p.tok.Type.IsType() || p.tok.Type.IsQualifier(); p.next() {
		if k, ok := types.FromKeyword(p.tok.Lex); ok && (!seen || k != types.Int) {
			kind, seen = k, true
		}
	}
	return p.parseStars(types.Type{K: kind}), nil
}

func (p *Parser) parseStars(t types.Type) types.Type {
	for p.tok.Type == lexer.STAR || p.tok.Type == lexer.KW_CONST {
		if p.tok.Type == lexer.STAR {
			t = types.PointerTo(t)
		}
		p.next()
	}
	return t
}

func (p *Parser) parseDecl() ([]ast.Decl, error) {
	if !p.atTypeStart() {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return []ast.Decl{&ast.StmtDecl{Stmt: s}}, nil
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if p.tok.Type == lexer.LPAREN {
		fn, err := p.parseFunc(nameTok.Lex, typ)
		if err != nil {
			return nil, err
		}
		return []ast.Decl{fn}, nil
	}
	stmts, err := p.parseDeclarators(typ, nameTok.Lex)
	if err != nil {
		return nil, err
	}
	var ds []ast.Decl
	for _, s := range stmts {
		if d, ok := s.(*ast.DeclStmt); ok {
			ds = append(ds, &ast.VarDecl{Name: d.Name, Init: d.Init})
			continue
		}
		ds = append(ds, &ast.StmtDecl{Stmt: s})
	}
	return ds, nil
}

func (p *Parser) parseFunc(name string, ret types.Type) (*ast.FuncDecl, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	fn := &ast.FuncDecl{Name: name, Params: params, Ret: ret}
	if p.tok.Type == lexer.SEMI {
		// prototype
		p.next()
		return fn, nil
	}
	p.push()
	defer p.pop()
	for _, prm := range params {
		if prm.Name != "" {
			p.declare(prm.Name, prm.IsPointer())
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (p *Parser) parseParams() ([]ast.Param, error) {
	var params []ast.Param
	if p.tok.Type == lexer.RPAREN {
		return params, nil
	}
	if p.tok.Type == lexer.KW_VOID {
		p.next()
		if p.tok.Type == lexer.RPAREN {
			return params, nil
		}
		typ := p.parseStars(types.Type{K: types.Void})
		return p.parseParamRest(params, typ)
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return p.parseParamRest(params, typ)
}

func (p *Parser) parseParamRest(params []ast.Param, typ types.Type) ([]ast.Param, error) {
	for {
		var name string
		if p.tok.Type == lexer.AMP {
			// references behave like the referenced value
			p.next()
		}
		if p.tok.Type == lexer.IDENT {
			name = p.tok.Lex
			p.next()
		}
		if p.tok.Type == lexer.LBRACK {
			p.next()
			if p.tok.Type == lexer.INT {
				p.next()
			}
			if _, err := p.expect(lexer.RBRACK); err != nil {
				return nil, err
			}
			typ = types.PointerTo(typ)
		}
		params = append(params, ast.Param{Name: name, Typ: typ})
		if p.tok.Type != lexer.COMMA {
			return params, nil
		}
		p.next()
		var err error
		if typ, err = p.parseType(); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	p.push()
	defer p.pop()
	var stmts []ast.Stmt
	for p.tok.Type != lexer.RBRACE && p.tok.Type != lexer.EOF {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &ast.BlockStmt{Stmts: stmts}, nil
}

// parseLocalDecl parses a declaration statement after its type.
// Several declarators become a block of declarations.
func (p *Parser) parseLocalDecl() (ast.Stmt, error) {
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseDeclarators(typ, nameTok.Lex)
	if err != nil {
		return nil, err
	}
	if len(stmts) == 1 {
		return stmts[0], nil
	}
	return &ast.BlockStmt{Stmts: stmts}, nil
}

// parseDeclarators parses the rest of a declaration whose first declarator
// name has been consumed, through the terminating semicolon.
func (p *Parser) parseDeclarators(base types.Type, name string) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	typ := base
	for {
		s, err := p.parseDeclarator(typ, name)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		if p.tok.Type != lexer.COMMA {
			break
		}
		p.next()
		typ = p.parseStars(base.Base())
		nameTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		name = nameTok.Lex
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseDeclarator(typ types.Type, name string) (ast.Stmt, error) {
	if p.tok.Type == lexer.LBRACK {
		return p.parseArrayDeclarator(name)
	}
	var init ast.Expr
	if p.tok.Type == lexer.ASSIGN {
		p.next()
		var err error
		if init, err = p.parseAssign(); err != nil {
			return nil, err
		}
	}
	p.declare(name, typ.IsPointer())
	return &ast.DeclStmt{Name: name, Init: init}, nil
}

func (p *Parser) parseArrayDeclarator(name string) (ast.Stmt, error) {
	p.next()
	var size ast.Expr
	if p.tok.Type != lexer.RBRACK {
		var err error
		if size, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RBRACK); err != nil {
		return nil, err
	}
	if p.tok.Type == lexer.LBRACK {
		return nil, p.errorf("multi-dimensional arrays are not supported")
	}
	if p.tok.Type == lexer.ASSIGN {
		p.next()
		n, err := p.skipInitList()
		if err != nil {
			return nil, err
		}
		if size == nil {
			size = &ast.IntLit{Value: int64(n)}
		}
	}
	if size == nil {
		return nil, p.errorf("array %s has no size", name)
	}
	// arrays decay to pointers when referenced
	p.declare(name, true)
	return &ast.ExprStmt{X: &ast.ArrayDeclExpr{Name: name, Size: size}}, nil
}

// skipInitList consumes a brace initializer or string literal and returns
// its element count.
func (p *Parser) skipInitList() (int, error) {
	if p.tok.Type == lexer.STRING {
		n := len(p.tok.Lex) + 1
		p.next()
		return n, nil
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return 0, err
	}
	n := 0
	for p.tok.Type != lexer.RBRACE {
		if _, err := p.parseAssign(); err != nil {
			return 0, err
		}
		n++
		if p.tok.Type != lexer.COMMA {
			break
		}
		p.next()
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	switch p.tok.Type {
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.SEMI:
		p.next()
		return &ast.BlockStmt{}, nil
	case lexer.KW_RETURN:
		p.next()
		var e ast.Expr
		if p.tok.Type != lexer.SEMI {
			var err error
			if e, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.SEMI); err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{X: e}, nil
	case lexer.KW_IF:
		return p.parseIf()
	case lexer.KW_WHILE:
		p.next()
		cond, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		body, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return &ast.LoopStmt{Cond: cond, Body: body}, nil
	case lexer.KW_DO:
		p.next()
		body, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KW_WHILE); err != nil {
			return nil, err
		}
		cond, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMI); err != nil {
			return nil, err
		}
		return &ast.LoopStmt{Cond: cond, Body: body}, nil
	case lexer.KW_FOR:
		return p.parseFor()
	case lexer.KW_BREAK, lexer.KW_CONTINUE:
		kind := ast.Break
		if p.tok.Type == lexer.KW_CONTINUE {
			kind = ast.Continue
		}
		p.next()
		if _, err := p.expect(lexer.SEMI); err != nil {
			return nil, err
		}
		return &ast.BranchStmt{Kind: kind}, nil
	}
	if p.atTypeStart() {
		return p.parseLocalDecl()
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: e}, nil
}

func (p *Parser) parseCond() (ast.Expr, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	p.next()
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	s := &ast.IfStmt{Cond: cond, Then: then}
	if p.tok.Type == lexer.KW_ELSE {
		p.next()
		if s.Else, err = p.parseStmt(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	p.next()
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	p.push()
	defer p.pop()
	loop := &ast.LoopStmt{}
	var err error
	if p.tok.Type != lexer.SEMI {
		if loop.Init, err = p.parseStmt(); err != nil {
			return nil, err
		}
	} else {
		p.next()
	}
	if p.tok.Type != lexer.SEMI {
		if loop.Cond, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	if p.tok.Type != lexer.RPAREN {
		if loop.Post, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if loop.Body, err = p.parseStmt(); err != nil {
		return nil, err
	}
	return loop, nil
}

// Expr grammar, lowest precedence first:
// expr     = assign { ',' assign }
// assign   = lor [ assignop assign ]
// lor      = land { '||' land }
// land     = equality { '&&' equality }
// equality = rel { ('=='|'!=') rel }
// rel      = add { ('<'|'<='|'>'|'>=') add }
// add      = term { ('+'|'-') term }
// term     = unary { ('*'|'/'|'%') unary }
func (p *Parser) parseExpr() (ast.Expr, error) {
	e, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == lexer.COMMA {
		// the comma operator yields its right operand
		p.next()
		if e, err = p.parseAssign(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

var compoundOps = map[lexer.TokenType]ast.BinOp{
	lexer.ADD_ASSIGN: ast.OpAdd,
	lexer.SUB_ASSIGN: ast.OpSub,
	lexer.MUL_ASSIGN: ast.OpMul,
	lexer.DIV_ASSIGN: ast.OpDiv,
}

func (p *Parser) parseAssign() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	left, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	op, compound := compoundOps[p.tok.Type]
	if p.tok.Type != lexer.ASSIGN && !compound {
		return left, nil
	}
	if !assignable(left) {
		return nil, p.errorf("cannot assign to %T", left)
	}
	p.next()
	value, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if compound {
		value = &ast.BinaryExpr{Op: op, Left: cloneExpr(left), Right: value}
	}
	return &ast.AssignExpr{Target: left, Value: value}, nil
}

func assignable(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.VarRef, *ast.DerefExpr, *ast.IndexExpr:
		return true
	default:
		return false
	}
}

// binaryLevels lists operators by increasing precedence.
var binaryLevels = [][]lexer.TokenType{
	{lexer.OROR},
	{lexer.ANDAND},
	{lexer.EQEQ, lexer.NEQ},
	{lexer.LT, lexer.LE, lexer.GT, lexer.GE},
	{lexer.PLUS, lexer.MINUS},
	{lexer.STAR, lexer.SLASH, lexer.PERCENT},
}

func (p *Parser) parseBinary(level int) (ast.Expr, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for containsTok(binaryLevels[level], p.tok.Type) {
		op := p.tok.Type
		p.next()
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: binOpFromToken(op), Left: left, Right: right}
	}
	return left, nil
}

func containsTok(set []lexer.TokenType, tt lexer.TokenType) bool {
	for _, t := range set {
		if t == tt {
			return true
		}
	}
	return false
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	switch p.tok.Type {
	case lexer.STAR:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.DerefExpr{X: x}, nil
	case lexer.AMP:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if name, ok := ast.Name(x); ok {
			return &ast.AddrExpr{Name: name}, nil
		}
		return x, nil
	case lexer.MINUS:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if lit, ok := x.(*ast.IntLit); ok {
			return &ast.IntLit{Value: -lit.Value}, nil
		}
		return &ast.BinaryExpr{Op: ast.OpSub, Left: &ast.IntLit{}, Right: x}, nil
	case lexer.PLUS:
		p.next()
		return p.parseUnary()
	case lexer.BANG:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: ast.OpEq, Left: x, Right: &ast.IntLit{}}, nil
	case lexer.TILDE:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: ast.OpSub, Left: &ast.IntLit{Value: -1}, Right: x}, nil
	case lexer.INC, lexer.DEC:
		op := ast.OpAdd
		if p.tok.Type == lexer.DEC {
			op = ast.OpSub
		}
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return p.increment(x, op)
	case lexer.KW_NEW:
		return p.parseNew()
	case lexer.KW_DELETE:
		p.next()
		if p.tok.Type == lexer.LBRACK {
			p.next()
			if _, err := p.expect(lexer.RBRACK); err != nil {
				return nil, err
			}
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Name: "delete", Args: []ast.Expr{x}}, nil
	case lexer.KW_SIZEOF:
		return p.parseSizeof()
	case lexer.LPAREN:
		return p.parseParen()
	}
	return p.parsePostfix()
}

func (p *Parser) increment(x ast.Expr, op ast.BinOp) (ast.Expr, error) {
	if !assignable(x) {
		return nil, p.errorf("cannot increment %T", x)
	}
	return &ast.AssignExpr{
		Target: x,
		Value:  &ast.BinaryExpr{Op: op, Left: cloneExpr(x), Right: &ast.IntLit{Value: 1}},
	}, nil
}

// parseParen parses a cast '(' type ')' unary, dropping the type, or a
// parenthesized expression with its postfix operators.
func (p *Parser) parseParen() (ast.Expr, error) {
	p.next()
	if !p.atTypeStart() {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return p.parsePostfixOf(e)
	}
	if _, err := p.parseType(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return p.parseUnary()
}

func (p *Parser) parseNew() (ast.Expr, error) {
	p.next()
	if _, err := p.parseType(); err != nil {
		return nil, err
	}
	call := &ast.CallExpr{Name: "new"}
	switch p.tok.Type {
	case lexer.LBRACK:
		p.next()
		size, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACK); err != nil {
			return nil, err
		}
		call.Args = []ast.Expr{size}
		if p.tok.Type == lexer.LBRACE {
			if _, err := p.skipInitList(); err != nil {
				return nil, err
			}
		}
	case lexer.LPAREN:
		p.next()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		call.Args = args
	}
	return call, nil
}

func (p *Parser) parseSizeof() (ast.Expr, error) {
	p.next()
	call := &ast.CallExpr{Name: "sizeof"}
	if p.tok.Type != lexer.LPAREN {
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		call.Args = []ast.Expr{x}
		return call, nil
	}
	p.next()
	if p.atTypeStart() {
		if _, err := p.parseType(); err != nil {
			return nil, err
		}
	} else {
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = []ast.Expr{x}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfixOf(e)
}

func (p *Parser) parsePostfixOf(e ast.Expr) (ast.Expr, error) {
	for {
		switch p.tok.Type {
		case lexer.LPAREN:
			name, ok := ast.Name(e)
			if !ok {
				return nil, p.errorf("call of non-name expression %T", e)
			}
			p.next()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			e = &ast.CallExpr{Name: name, Args: args}
		case lexer.LBRACK:
			name, ok := ast.Name(e)
			if !ok {
				return nil, p.errorf("indexing is only supported on named arrays")
			}
			p.next()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACK); err != nil {
				return nil, err
			}
			e = &ast.IndexExpr{Name: name, Index: idx}
		case lexer.INC, lexer.DEC:
			op := ast.OpAdd
			if p.tok.Type == lexer.DEC {
				op = ast.OpSub
			}
			p.next()
			var err error
			if e, err = p.increment(e, op); err != nil {
				return nil, err
			}
		case lexer.DOT, lexer.ARROW, lexer.SCOPE:
			return nil, p.errorf("member access with %q is not supported", p.tok.Lex)
		default:
			return e, nil
		}
	}
}

// parseArgs parses call arguments after '(' through the closing ')'.
func (p *Parser) parseArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	for p.tok.Type != lexer.RPAREN {
		a, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.tok.Type != lexer.COMMA {
			break
		}
		p.next()
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.tok.Type {
	case lexer.IDENT:
		e := p.ref(p.tok.Lex)
		p.next()
		return e, nil
	case lexer.INT:
		lex := strings.TrimRight(p.tok.Lex, "uUlL")
		v, err := strconv.ParseInt(lex, 0, 64)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q", p.tok.Lex)
		}
		p.next()
		return &ast.IntLit{Value: v}, nil
	case lexer.FLOAT:
		v, err := strconv.ParseFloat(strings.TrimRight(p.tok.Lex, "fFlL"), 64)
		if err != nil {
			return nil, p.errorf("invalid floating literal %q", p.tok.Lex)
		}
		p.next()
		return &ast.IntLit{Value: int64(v)}, nil
	case lexer.CHAR:
		var v int64
		if r := []rune(p.tok.Lex); len(r) > 0 {
			v = int64(r[0])
		}
		p.next()
		return &ast.IntLit{Value: v}, nil
	case lexer.STRING:
		var sb strings.Builder
		for p.tok.Type == lexer.STRING {
			sb.WriteString(p.tok.Lex)
			p.next()
		}
		return &ast.StringLit{Value: sb.String()}, nil
	case lexer.KW_TRUE, lexer.KW_FALSE:
		lit := &ast.IntLit{}
		if p.tok.Type == lexer.KW_TRUE {
			lit.Value = 1
		}
		p.next()
		return lit, nil
	case lexer.KW_NULLPTR:
		p.next()
		return &ast.Ident{Name: "nullptr"}, nil
	default:
		return nil, p.errorf("unexpected token %v %q", p.tok.Type, p.tok.Lex)
	}
}

// cloneExpr deep-copies the lvalue forms so lowered compound assignments
// do not share nodes between target and value.
func cloneExpr(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.Ident:
		return &ast.Ident{Name: e.Name}
	case *ast.VarRef:
		return &ast.VarRef{Name: e.Name}
	case *ast.AddrExpr:
		return &ast.AddrExpr{Name: e.Name}
	case *ast.IntLit:
		return &ast.IntLit{Value: e.Value}
	case *ast.StringLit:
		return &ast.StringLit{Value: e.Value}
	case *ast.DerefExpr:
		return &ast.DerefExpr{X: cloneExpr(e.X)}
	case *ast.IndexExpr:
		return &ast.IndexExpr{Name: e.Name, Index: cloneExpr(e.Index)}
	case *ast.ArrayDeclExpr:
		return &ast.ArrayDeclExpr{Name: e.Name, Size: cloneExpr(e.Size)}
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{Op: e.Op, Left: cloneExpr(e.Left), Right: cloneExpr(e.Right)}
	case *ast.AssignExpr:
		return &ast.AssignExpr{Target: cloneExpr(e.Target), Value: cloneExpr(e.Value)}
	case *ast.CallExpr:
		args := make([]ast.Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = cloneExpr(a)
		}
		return &ast.CallExpr{Name: e.Name, Args: args}
	default:
		return e
	}
}

func binOpFromToken(t lexer.TokenType) ast.BinOp {
	switch t {
	case lexer.PLUS:
		return ast.OpAdd
	case lexer.MINUS:
		return ast.OpSub
	case lexer.STAR:
		return ast.OpMul
	case lexer.SLASH:
		return ast.OpDiv
	case lexer.PERCENT:
		return ast.OpRem
	case lexer.EQEQ:
		return ast.OpEq
	case lexer.NEQ:
		return ast.OpNe
	case lexer.LT:
		return ast.OpLt
	case lexer.LE:
		return ast.OpLe
	case lexer.GT:
		return ast.OpGt
	case lexer.GE:
		return ast.OpGe
	case lexer.ANDAND:
		return ast.OpLAnd
	case lexer.OROR:
		return ast.OpLOr
	default:
		return ast.OpAdd
	}
}
