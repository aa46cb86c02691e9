// Package bounds flags literal-index array accesses outside the declared
// capacity of the array.
//
// Only integer literal indices are checked; computed indices are never
// reported.
package bounds

import (
	"maps"

	"github.com/tinyrange/safecpp/internal/ast"
	"github.com/tinyrange/safecpp/internal/check"
	"github.com/tinyrange/safecpp/internal/diag"
)

// Name identifies the checker in diagnostics and configuration.
const Name = "bounds"

// Checker is the array bounds checker.
type Checker struct {
	Options check.Options
}

// Analyze checks stmts with default options.
func Analyze(stmts []ast.Stmt) (diag.List, error) {
	return Checker{}.Analyze(stmts)
}

// Analyze checks stmts in order against a fresh capacity table.
func (c Checker) Analyze(stmts []ast.Stmt) (diag.List, error) {
	p := c.newPass()
	st := newState()
	for _, s := range stmts {
		if err := p.stmt(s, st); err != nil {
			return nil, err
		}
	}
	return p.rep.List(), nil
}

// AnalyzeFile checks a whole file. Function bodies see the file-scope
// arrays declared before them unless a parameter or local declaration
// hides the name; their own declarations stay local.
func (c Checker) AnalyzeFile(f *ast.File) (diag.List, error) {
	p := c.newPass()
	st := newState()
	for _, d := range f.Decls {
		var err error
		switch d := d.(type) {
		case *ast.VarDecl:
			if d.Init != nil {
				err = p.expr(d.Init, st)
			}
			delete(st.caps, d.Name)
		case *ast.StmtDecl:
			err = p.stmt(d.Stmt, st)
		case *ast.FuncDecl:
			if d.Body == nil {
				continue
			}
			local := st.fork()
			for _, prm := range d.Params {
				delete(local.caps, prm.Name)
			}
			err = p.stmt(d.Body, local)
		case nil:
			err = diag.Malformed(Name, "nil declaration")
		default:
			p.rep.Unsupported(d)
		}
		if err != nil {
			return nil, err
		}
	}
	return p.rep.List(), nil
}

// state is the declared-capacity table of one pass.
type state struct {
	caps map[string]int64
}

func newState() *state { return &state{caps: make(map[string]int64)} }

func (s *state) fork() *state { return &state{caps: maps.Clone(s.caps)} }

type pass struct {
	guard *check.Guard
	rep   *diag.Reporter
}

func (c Checker) newPass() *pass {
	return &pass{
		guard: check.NewGuard(Name, c.Options),
		rep:   &diag.Reporter{Checker: Name},
	}
}

func (p *pass) stmt(s ast.Stmt, st *state) error {
	if err := p.guard.Enter(); err != nil {
		return err
	}
	defer p.guard.Leave()
	switch s := s.(type) {
	case *ast.BlockStmt:
		for _, inner := range s.Stmts {
			if err := p.stmt(inner, st); err != nil {
				return err
			}
		}
	case *ast.ExprStmt:
		return p.expr(s.X, st)
	case *ast.DeclStmt:
		if s.Init != nil {
			if err := p.expr(s.Init, st); err != nil {
				return err
			}
		}
		// a non-array declaration hides an array of the same name
		delete(st.caps, s.Name)
	case *ast.IfStmt:
		if err := p.expr(s.Cond, st); err != nil {
			return err
		}
		if err := p.stmt(s.Then, st.fork()); err != nil {
			return err
		}
		if s.Else != nil {
			return p.stmt(s.Else, st.fork())
		}
	case *ast.LoopStmt:
		return p.loop(s, st.fork())
	case *ast.ReturnStmt:
		if s.X != nil {
			return p.expr(s.X, st)
		}
	case *ast.BranchStmt:
	case nil:
		return diag.Malformed(Name, "nil statement")
	default:
		p.rep.Unsupported(s)
	}
	return nil
}

func (p *pass) loop(s *ast.LoopStmt, st *state) error {
	if s.Init != nil {
		if err := p.stmt(s.Init, st); err != nil {
			return err
		}
	}
	if s.Cond != nil {
		if err := p.expr(s.Cond, st); err != nil {
			return err
		}
	}
	if err := p.stmt(s.Body, st); err != nil {
		return err
	}
	if s.Post != nil {
		return p.expr(s.Post, st)
	}
	return nil
}

func (p *pass) expr(e ast.Expr, st *state) error {
	if err := p.guard.Enter(); err != nil {
		return err
	}
	defer p.guard.Leave()
	switch e := e.(type) {
	case *ast.Ident, *ast.VarRef, *ast.AddrExpr, *ast.IntLit, *ast.StringLit:
	case *ast.ArrayDeclExpr:
		if err := p.expr(e.Size, st); err != nil {
			return err
		}
		if size, ok := e.Size.(*ast.IntLit); ok && size.Value >= 0 {
			// last declaration wins
			st.caps[e.Name] = size.Value
		}
	case *ast.IndexExpr:
		if err := p.expr(e.Index, st); err != nil {
			return err
		}
		p.access(e, st)
	case *ast.CallExpr:
		for _, a := range e.Args {
			if err := p.expr(a, st); err != nil {
				return err
			}
		}
	case *ast.DerefExpr:
		return p.expr(e.X, st)
	case *ast.BinaryExpr:
		if err := p.expr(e.Left, st); err != nil {
			return err
		}
		return p.expr(e.Right, st)
	case *ast.AssignExpr:
		if err := p.expr(e.Target, st); err != nil {
			return err
		}
		return p.expr(e.Value, st)
	case nil:
		return diag.Malformed(Name, "nil expression")
	default:
		p.rep.Unsupported(e)
	}
	return nil
}

func (p *pass) access(e *ast.IndexExpr, st *state) {
	capacity, ok := st.caps[e.Name]
	if !ok {
		return
	}
	idx, ok := e.Index.(*ast.IntLit)
	if !ok {
		return
	}
	if idx.Value < 0 || idx.Value >= capacity {
		p.rep.Reportf(diag.OutOfBounds, e.Name,
			"Array access out of bounds for '%s': index %d, capacity %d", e.Name, idx.Value, capacity)
	}
}
