package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyrange/safecpp/internal/ast"
	"github.com/tinyrange/safecpp/internal/check"
	ct "github.com/tinyrange/safecpp/internal/check/checktest"
	"github.com/tinyrange/safecpp/internal/check/memory"
	"github.com/tinyrange/safecpp/internal/diag"
)

func TestScenarios(t *testing.T) {
	t.Parallel()

	want := map[string][]diag.Kind{
		"double free":           {diag.DoubleFree},
		"null dereference":      {diag.NullPointerDereference},
		"read then double free": {diag.DoubleFree},
	}

	for _, sc := range ct.Scenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			t.Parallel()

			list, err := memory.Analyze(sc.Stmts)
			require.NoError(t, err)
			if w := want[sc.Name]; w != nil {
				assert.Equal(t, w, list.Kinds())
			} else {
				assert.Empty(t, list)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stmts []ast.Stmt
		want  []diag.Kind
	}{
		{"free after allocation", []ast.Stmt{
			ct.Decl("p", ct.Call("malloc", ct.Int(4))),
			ct.Expr(ct.Call("free", ct.Ref("p"))),
		}, nil},
		{"leak on reallocation", []ast.Stmt{
			ct.Decl("p", ct.New()),
			ct.Assign(ct.Ref("p"), ct.New()),
		}, []diag.Kind{diag.MemoryLeak}},
		{"reallocation after free", []ast.Stmt{
			ct.Decl("p", ct.New()),
			ct.Delete("p"),
			ct.Assign(ct.Ref("p"), ct.New()),
			ct.Delete("p"),
		}, nil},
		{"realloc resizes in place", []ast.Stmt{
			ct.Decl("p", ct.Call("malloc", ct.Int(4))),
			ct.Assign(ct.Ref("p"), ct.Call("realloc", ct.Ref("p"), ct.Int(8))),
		}, nil},
		{"uninitialized read", []ast.Stmt{
			ct.Decl("n", nil),
			ct.Decl("m", &ast.BinaryExpr{Op: ast.OpAdd, Left: &ast.Ident{Name: "n"}, Right: ct.Int(1)}),
		}, []diag.Kind{diag.UninitializedAccess}},
		{"assignment initializes", []ast.Stmt{
			ct.Decl("n", nil),
			ct.Assign(&ast.Ident{Name: "n"}, ct.Int(3)),
			ct.Expr(&ast.Ident{Name: "n"}),
		}, nil},
		{"uninitialized dereference", []ast.Stmt{
			ct.Decl("p", nil),
			ct.Expr(ct.Deref("p")),
		}, []diag.Kind{diag.UninitializedAccess}},
		{"null index", []ast.Stmt{
			ct.Decl("p", &ast.Ident{Name: "NULL"}),
			ct.Assign(ct.Index("p", 0), ct.Int(1)),
		}, []diag.Kind{diag.NullPointerDereference}},
		{"copy carries null", []ast.Stmt{
			ct.Decl("p", ct.Null()),
			ct.Decl("q", ct.Ref("p")),
			ct.Expr(ct.Deref("q")),
		}, []diag.Kind{diag.NullPointerDereference}},
		{"copy carries freed", []ast.Stmt{
			ct.Decl("p", ct.New()),
			ct.Delete("p"),
			ct.Decl("q", ct.Ref("p")),
			ct.Delete("q"),
		}, []diag.Kind{diag.DoubleFree}},
		{"free of unknown is accepted", []ast.Stmt{ct.Delete("q"), ct.Delete("q")}, nil},
		{"free in branch stays local", []ast.Stmt{
			ct.Decl("p", ct.New()),
			&ast.IfStmt{Cond: ct.Ref("p"), Then: ct.Delete("p")},
			ct.Delete("p"),
		}, nil},
		{"address of uninitialized", []ast.Stmt{
			ct.Decl("x", nil),
			ct.Decl("p", ct.Addr("x")),
			ct.Assign(ct.Deref("p"), ct.Int(1)),
		}, nil},
		{"out parameter initializes", []ast.Stmt{
			ct.Decl("x", nil),
			ct.Expr(ct.Call("scanf", &ast.StringLit{Value: "%d"}, ct.Addr("x"))),
			ct.Expr(&ast.Ident{Name: "x"}),
		}, nil},
		{"address does not copy null", []ast.Stmt{
			ct.Decl("q", ct.Null()),
			ct.Decl("p", ct.Addr("q")),
			ct.Expr(ct.Deref("p")),
		}, nil},
		{"array declaration initializes", []ast.Stmt{
			ct.Decl("a", nil),
			ct.Array("a", 3),
			ct.Expr(ct.Index("a", 0)),
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			list, err := memory.Analyze(tt.stmts)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, list)
				return
			}
			assert.Equal(t, tt.want, list.Kinds())
		})
	}
}

func TestRepeatedFree(t *testing.T) {
	t.Parallel()

	for frees := 2; frees <= 5; frees++ {
		stmts := []ast.Stmt{ct.Decl("x", ct.New())}
		for range frees {
			stmts = append(stmts, ct.Delete("x"))
		}

		list, err := memory.Analyze(stmts)
		require.NoError(t, err)
		assert.Equal(t, frees-1, list.Count(diag.DoubleFree), "%d frees", frees)
	}
}

func TestMessages(t *testing.T) {
	t.Parallel()

	list, err := memory.Analyze([]ast.Stmt{
		ct.Decl("x", ct.Null()),
		ct.Expr(ct.Deref("x")),
		ct.Decl("y", ct.New()),
		ct.Delete("y"),
		ct.Delete("y"),
		ct.Decl("z", nil),
		ct.Expr(ct.Ref("z")),
	})
	require.NoError(t, err)

	var msgs []string
	for _, d := range list {
		msgs = append(msgs, d.Message)
	}
	assert.Equal(t, []string{
		"Null pointer dereference detected for variable: x",
		"Double free attempt on variable: y",
		"Uninitialized memory access of variable: z",
	}, msgs)
}

func TestCustomPrimitives(t *testing.T) {
	t.Parallel()

	c := memory.Checker{Options: check.Options{
		Primitives: check.DefaultPrimitives().Extend([]string{"xalloc"}, []string{"xfree"}, nil),
	}}
	list, err := c.Analyze([]ast.Stmt{
		ct.Decl("p", ct.Call("xalloc")),
		ct.Expr(ct.Call("xfree", ct.Ref("p"))),
		ct.Expr(ct.Call("xfree", ct.Ref("p"))),
	})
	require.NoError(t, err)
	assert.Equal(t, []diag.Kind{diag.DoubleFree}, list.Kinds())

	list, err = memory.Analyze([]ast.Stmt{
		ct.Decl("p", ct.Call("xalloc")),
		ct.Expr(ct.Call("xfree", ct.Ref("p"))),
		ct.Expr(ct.Call("xfree", ct.Ref("p"))),
	})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAnalyzeFile(t *testing.T) {
	t.Parallel()

	f := &ast.File{Decls: []ast.Decl{
		&ast.VarDecl{Name: "g"},
		&ast.FuncDecl{
			Name:   "f",
			Params: []ast.Param{{Name: "g"}},
			Body:   &ast.BlockStmt{Stmts: []ast.Stmt{ct.Expr(ct.Deref("g"))}},
		},
		&ast.FuncDecl{
			Name: "h",
			Body: &ast.BlockStmt{Stmts: []ast.Stmt{
				ct.Expr(&ast.Ident{Name: "g"}),
				ct.Assign(ct.Deref("g"), ct.Int(1)),
			}},
		},
		&ast.FuncDecl{
			Name: "k",
			Body: &ast.BlockStmt{Stmts: []ast.Stmt{
				ct.Decl("l", nil),
				ct.Expr(&ast.Ident{Name: "l"}),
			}},
		},
	}}

	list, err := memory.Checker{}.AnalyzeFile(f)
	require.NoError(t, err)
	assert.Equal(t, []diag.Kind{diag.NullPointerDereference, diag.UninitializedAccess}, list.Kinds())
	if assert.Len(t, list, 2) {
		assert.Equal(t, "g", list[0].Name)
		assert.Equal(t, "l", list[1].Name)
		assert.Equal(t, memory.Name, list[0].Checker)
	}
}

func TestStructuralErrors(t *testing.T) {
	t.Parallel()

	_, err := memory.Analyze([]ast.Stmt{&ast.IfStmt{Cond: ct.Int(1), Then: nil}})
	require.ErrorIs(t, err, diag.ErrMalformed)

	_, err = memory.Analyze([]ast.Stmt{ct.Assign(nil, ct.Int(1))})
	require.ErrorIs(t, err, diag.ErrMalformed)

	c := memory.Checker{Options: check.Options{MaxDepth: 8}}
	_, err = c.Analyze([]ast.Stmt{ct.Nest(50)})
	require.ErrorIs(t, err, diag.ErrTooDeep)
}
