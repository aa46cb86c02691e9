// Package checktest provides syntax trees shared by the checker tests.
package checktest

import "github.com/tinyrange/safecpp/internal/ast"

// Scenario is a small program given both as source and as the tree the
// parser builds for it.
type Scenario struct {
	Name  string
	Src   string
	Stmts []ast.Stmt
}

// Decls wraps statements as file-scope declarations.
func Decls(stmts []ast.Stmt) []ast.Decl {
	ds := make([]ast.Decl, len(stmts))
	for i, s := range stmts {
		if d, ok := s.(*ast.DeclStmt); ok {
			ds[i] = &ast.VarDecl{Name: d.Name, Init: d.Init}
			continue
		}
		ds[i] = &ast.StmtDecl{Stmt: s}
	}
	return ds
}

func File(stmts ...ast.Stmt) *ast.File { return &ast.File{Decls: Decls(stmts)} }

func Ref(name string) *ast.VarRef { return &ast.VarRef{Name: name} }

func Addr(name string) *ast.AddrExpr { return &ast.AddrExpr{Name: name} }

func Deref(name string) *ast.DerefExpr { return &ast.DerefExpr{X: Ref(name)} }

func Int(v int64) *ast.IntLit { return &ast.IntLit{Value: v} }

func Call(name string, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Name: name, Args: args}
}

func Decl(name string, init ast.Expr) *ast.DeclStmt { return &ast.DeclStmt{Name: name, Init: init} }

func Expr(e ast.Expr) *ast.ExprStmt { return &ast.ExprStmt{X: e} }

func Assign(target, value ast.Expr) *ast.ExprStmt {
	return Expr(&ast.AssignExpr{Target: target, Value: value})
}

func Array(name string, size int64) *ast.ExprStmt {
	return Expr(&ast.ArrayDeclExpr{Name: name, Size: Int(size)})
}

func Index(name string, i int64) *ast.IndexExpr { return &ast.IndexExpr{Name: name, Index: Int(i)} }

func New() *ast.CallExpr { return Call("new") }

func Delete(name string) *ast.ExprStmt { return Expr(Call("delete", Ref(name))) }

func Null() *ast.Ident { return &ast.Ident{Name: "nullptr"} }

// Scenarios returns fresh trees for the end-to-end programs.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:  "out of bounds",
			Src:   "int a[3]; a[5];",
			Stmts: []ast.Stmt{Array("a", 3), Expr(Index("a", 5))},
		},
		{
			Name: "clean lifecycle",
			Src:  "int *x = new int; *x = 42; int y = *x; delete x;",
			Stmts: []ast.Stmt{
				Decl("x", New()),
				Assign(Deref("x"), Int(42)),
				Decl("y", Deref("x")),
				Delete("x"),
			},
		},
		{
			Name:  "double free",
			Src:   "int *x = new int; delete x; delete x;",
			Stmts: []ast.Stmt{Decl("x", New()), Delete("x"), Delete("x")},
		},
		{
			Name:  "null dereference",
			Src:   "int *x = nullptr; int y = *x;",
			Stmts: []ast.Stmt{Decl("x", Null()), Decl("y", Deref("x"))},
		},
		{
			Name: "read then double free",
			Src:  "int *x = new int; int y = *x; delete x; delete x;",
			Stmts: []ast.Stmt{
				Decl("x", New()),
				Decl("y", Deref("x")),
				Delete("x"),
				Delete("x"),
			},
		},
	}
}

// Nest returns a statement nested depth blocks deep.
func Nest(depth int) ast.Stmt {
	var s ast.Stmt = Expr(Int(0))
	for range depth {
		s = &ast.BlockStmt{Stmts: []ast.Stmt{s}}
	}
	return s
}
