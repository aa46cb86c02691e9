// Package memory tracks the allocation lifecycle of variables: which names
// hold an allocation, which have been freed, which were declared without a
// value and which hold a null constant.
//
// Assignment copies the abstract state of the right-hand side onto the
// target name. Freeing a name that was never allocated is accepted without
// a diagnostic; the pointer checker reports that case instead.
package memory

import (
	"maps"

	"github.com/tinyrange/safecpp/internal/ast"
	"github.com/tinyrange/safecpp/internal/check"
	"github.com/tinyrange/safecpp/internal/diag"
)

const Name = "memory"

type Checker struct {
	Options check.Options
}

// Analyze checks stmts with default options.
func Analyze(stmts []ast.Stmt) (diag.List, error) {
	return Checker{}.Analyze(stmts)
}

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

// AnalyzeFile checks a whole file; each function body runs against a copy
// of the file-scope state with its parameters treated as initialized.
// File-scope variables declared without a value hold null.
func (c Checker) AnalyzeFile(f *ast.File) (diag.List, error) {
	p := c.newPass()
	st := newState()
	for _, d := range f.Decls {
		var err error
		switch d := d.(type) {
		case *ast.VarDecl:
			if d.Init == nil {
				// static storage starts out zeroed
				st.clear(d.Name)
				st.null[d.Name] = true
				continue
			}
			err = p.bind(d.Name, d.Init, st)
		case *ast.StmtDecl:
			err = p.stmt(d.Stmt, st)
		case *ast.FuncDecl:
			if d.Body == nil {
				continue
			}
			local := st.fork()
			for _, prm := range d.Params {
				local.clear(prm.Name)
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

type state struct {
	allocated map[string]ast.Expr // name -> allocating expression
	freed     map[string]bool
	uninit    map[string]bool
	null      map[string]bool
}

func newState() *state {
	return &state{
		allocated: make(map[string]ast.Expr),
		freed:     make(map[string]bool),
		uninit:    make(map[string]bool),
		null:      make(map[string]bool),
	}
}

func (s *state) fork() *state {
	return &state{
		allocated: maps.Clone(s.allocated),
		freed:     maps.Clone(s.freed),
		uninit:    maps.Clone(s.uninit),
		null:      maps.Clone(s.null),
	}
}

func (s *state) clear(name string) {
	delete(s.allocated, name)
	delete(s.freed, name)
	delete(s.uninit, name)
	delete(s.null, name)
}

// mirror copies the state of src onto dst.
func (s *state) mirror(dst, src string) {
	if a, ok := s.allocated[src]; ok {
		s.allocated[dst] = a
	} else {
		delete(s.allocated, dst)
	}
	setOrDelete(s.freed, dst, s.freed[src])
	setOrDelete(s.uninit, dst, s.uninit[src])
	setOrDelete(s.null, dst, s.null[src])
}

func setOrDelete(m map[string]bool, name string, v bool) {
	if v {
		m[name] = true
	} else {
		delete(m, name)
	}
}

type pass struct {
	prims check.Primitives
	guard *check.Guard
	rep   *diag.Reporter
}

func (c Checker) newPass() *pass {
	return &pass{
		prims: c.Options.Primitives,
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
		return p.declare(s.Name, s.Init, st)
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

// declare handles a named declaration with an optional initializer.
func (p *pass) declare(name string, init ast.Expr, st *state) error {
	if init == nil {
		st.clear(name)
		st.uninit[name] = true
		return nil
	}
	return p.bind(name, init, st)
}

// bind gives name the state produced by value.
func (p *pass) bind(name string, value ast.Expr, st *state) error {
	switch {
	case p.prims.IsAllocCall(value):
		if err := p.expr(value, st); err != nil {
			return err
		}
		p.allocate(name, value, st)
	case p.prims.IsNullExpr(value):
		st.clear(name)
		st.null[name] = true
	default:
		if err := p.expr(value, st); err != nil {
			return err
		}
		src, ok := source(value)
		if !ok {
			st.clear(name)
			return nil
		}
		if src != name {
			st.mirror(name, src)
		}
	}
	return nil
}

// source returns the name whose state value carries.
func source(value ast.Expr) (string, bool) {
	for {
		a, ok := value.(*ast.AssignExpr)
		if !ok {
			return ast.Name(value)
		}
		value = a.Target
	}
}

func (p *pass) allocate(name string, value ast.Expr, st *state) {
	if _, ok := st.allocated[name]; ok && !st.freed[name] && !resizes(name, value) {
		p.rep.Reportf(diag.MemoryLeak, name,
			"Memory leak: '%s' is reallocated before its previous allocation was freed", name)
	}
	st.clear(name)
	st.allocated[name] = value
}

// resizes reports whether value reallocates name itself, as in
// p = realloc(p, n), which hands the old block over instead of leaking it.
func resizes(name string, value ast.Expr) bool {
	c, ok := value.(*ast.CallExpr)
	if !ok || len(c.Args) == 0 {
		return false
	}
	arg, ok := ast.Name(c.Args[0])
	return ok && arg == name
}

func (p *pass) free(name string, st *state) {
	_, allocated := st.allocated[name]
	switch {
	case st.freed[name]:
		p.rep.Reportf(diag.DoubleFree, name, "Double free attempt on variable: %s", name)
	case allocated:
		st.freed[name] = true
	}
}

func (p *pass) read(name string, st *state) {
	if st.uninit[name] {
		p.rep.Reportf(diag.UninitializedAccess, name, "Uninitialized memory access of variable: %s", name)
	}
}

// deref reads name and then uses it as an address.
func (p *pass) deref(name string, st *state) {
	p.read(name, st)
	if st.null[name] {
		p.rep.Reportf(diag.NullPointerDereference, name, "Null pointer dereference detected for variable: %s", name)
	}
}

func (p *pass) expr(e ast.Expr, st *state) error {
	if err := p.guard.Enter(); err != nil {
		return err
	}
	defer p.guard.Leave()
	switch e := e.(type) {
	case *ast.IntLit, *ast.StringLit:
	case *ast.Ident:
		p.read(e.Name, st)
	case *ast.VarRef:
		p.read(e.Name, st)
	case *ast.AddrExpr:
		// the callee or pointer may write through the address
		delete(st.uninit, e.Name)
	case *ast.DerefExpr:
		if name, ok := ast.Name(e.X); ok {
			p.deref(name, st)
			return nil
		}
		return p.expr(e.X, st)
	case *ast.IndexExpr:
		p.deref(e.Name, st)
		return p.expr(e.Index, st)
	case *ast.ArrayDeclExpr:
		if err := p.expr(e.Size, st); err != nil {
			return err
		}
		st.clear(e.Name)
	case *ast.CallExpr:
		if name, ok := p.prims.FreedName(e); ok {
			p.read(name, st)
			p.free(name, st)
			return nil
		}
		for _, a := range e.Args {
			if err := p.expr(a, st); err != nil {
				return err
			}
		}
	case *ast.BinaryExpr:
		if err := p.expr(e.Left, st); err != nil {
			return err
		}
		return p.expr(e.Right, st)
	case *ast.AssignExpr:
		return p.assign(e, st)
	case nil:
		return diag.Malformed(Name, "nil expression")
	default:
		p.rep.Unsupported(e)
	}
	return nil
}

func (p *pass) assign(e *ast.AssignExpr, st *state) error {
	switch t := e.Target.(type) {
	case *ast.Ident:
		return p.bind(t.Name, e.Value, st)
	case *ast.VarRef:
		return p.bind(t.Name, e.Value, st)
	case *ast.DerefExpr:
		if err := p.expr(e.Value, st); err != nil {
			return err
		}
		return p.expr(t, st)
	case *ast.IndexExpr:
		if err := p.expr(e.Value, st); err != nil {
			return err
		}
		return p.expr(t, st)
	case nil:
		return diag.Malformed(Name, "assignment without target")
	default:
		p.rep.Unsupported(t)
		return p.expr(e.Value, st)
	}
}
