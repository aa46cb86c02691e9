// Package pointer runs a two-state machine over pointer variables and checks
// calls against the declared signatures of the file.
//
// A name is Allocated, Deallocated or, when absent from the state, unknown.
// Dereferencing anything but an Allocated name is reported, as is freeing a
// name that was never given a state.
package pointer

import (
	"maps"

	"github.com/tinyrange/safecpp/internal/ast"
	"github.com/tinyrange/safecpp/internal/check"
	"github.com/tinyrange/safecpp/internal/diag"
)

const Name = "pointer"

type State uint8

const (
	Allocated State = iota
	Deallocated
)

func (s State) String() string {
	if s == Allocated {
		return "Allocated"
	}
	return "Deallocated"
}

// Signature is what the pre-pass records about a declared function.
type Signature struct {
	// Pointer[i] reports whether parameter i has pointer type.
	Pointer []bool
	Returns bool // the result has pointer type
}

// Signatures maps function names to their declared signature. A later
// declaration of the same name replaces an earlier one.
type Signatures map[string]Signature

// CollectSignatures records every function declared in decls, prototypes
// included.
func CollectSignatures(decls []ast.Decl) Signatures {
	sigs := make(Signatures)
	for _, d := range decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		flags := make([]bool, len(fn.Params))
		for i, prm := range fn.Params {
			flags[i] = prm.IsPointer()
		}
		sigs[fn.Name] = Signature{Pointer: flags, Returns: fn.Ret.IsPointer()}
	}
	return sigs
}

type Checker struct {
	Options check.Options
}

// Analyze checks decls with default options.
func Analyze(decls []ast.Decl) (diag.List, error) {
	return Checker{}.Analyze(decls)
}

// Analyze collects the signatures of decls and then walks them in order.
// Function bodies run against a copy of the file-scope state in which their
// pointer parameters are Allocated.
func (c Checker) Analyze(decls []ast.Decl) (diag.List, error) {
	p := c.newPass(CollectSignatures(decls))
	st := make(state)
	for _, d := range decls {
		var err error
		switch d := d.(type) {
		case *ast.VarDecl:
			err = p.declare(d.Name, d.Init, st)
		case *ast.StmtDecl:
			err = p.stmt(d.Stmt, st)
		case *ast.FuncDecl:
			if d.Body == nil {
				continue
			}
			err = p.stmt(d.Body, st.enter(d.Params))
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

func (c Checker) AnalyzeFile(f *ast.File) (diag.List, error) {
	return c.Analyze(f.Decls)
}

type state map[string]State

func (s state) fork() state { return maps.Clone(s) }

// enter returns the state a function body starts from.
func (s state) enter(params []ast.Param) state {
	local := s.fork()
	for _, prm := range params {
		if prm.IsPointer() {
			local[prm.Name] = Allocated
		} else {
			delete(local, prm.Name)
		}
	}
	return local
}

type pass struct {
	prims check.Primitives
	sigs  Signatures
	guard *check.Guard
	rep   *diag.Reporter
}

func (c Checker) newPass(sigs Signatures) *pass {
	return &pass{
		prims: c.Options.Primitives,
		sigs:  sigs,
		guard: check.NewGuard(Name, c.Options),
		rep:   &diag.Reporter{Checker: Name},
	}
}

func (p *pass) stmt(s ast.Stmt, st state) error {
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

func (p *pass) loop(s *ast.LoopStmt, st state) error {
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

func (p *pass) declare(name string, init ast.Expr, st state) error {
	if init == nil {
		delete(st, name)
		return nil
	}
	return p.bind(name, init, st)
}

func (p *pass) bind(name string, value ast.Expr, st state) error {
	if err := p.expr(value, st); err != nil {
		return err
	}
	st[name] = p.produces(value, st)
	return nil
}

// produces returns the state a variable takes when assigned e.
func (p *pass) produces(e ast.Expr, st state) State {
	switch e := e.(type) {
	case *ast.AddrExpr, *ast.DerefExpr, *ast.StringLit:
		return Allocated
	case *ast.Ident:
		if p.allocated(e.Name, st) {
			return Allocated
		}
	case *ast.VarRef:
		// a copy shares the state of its source
		if p.allocated(e.Name, st) {
			return Allocated
		}
	case *ast.CallExpr:
		if p.prims.IsAlloc(e.Name) || p.sigs[e.Name].Returns {
			return Allocated
		}
	case *ast.AssignExpr:
		return p.produces(e.Value, st)
	case *ast.BinaryExpr:
		// pointer arithmetic keeps the state of the base pointer
		if (e.Op == ast.OpAdd || e.Op == ast.OpSub) && p.isPointer(e.Left, st) {
			return p.produces(e.Left, st)
		}
	}
	return Deallocated
}

// isPointer reports whether e may be passed for a pointer parameter.
// Null constants qualify even though they produce Deallocated.
func (p *pass) isPointer(e ast.Expr, st state) bool {
	switch e := e.(type) {
	case *ast.VarRef, *ast.AddrExpr, *ast.DerefExpr, *ast.StringLit:
		return true
	case *ast.Ident:
		return p.prims.IsNull(e.Name) || p.allocated(e.Name, st)
	case *ast.CallExpr:
		return p.prims.IsAlloc(e.Name) || p.sigs[e.Name].Returns
	case *ast.AssignExpr:
		return p.isPointer(e.Value, st)
	case *ast.BinaryExpr:
		return (e.Op == ast.OpAdd || e.Op == ast.OpSub) && p.isPointer(e.Left, st)
	}
	return false
}

func (p *pass) allocated(name string, st state) bool {
	s, ok := st[name]
	return ok && s == Allocated && !p.prims.IsNull(name)
}

func (p *pass) deref(name string, st state) {
	if !p.allocated(name, st) {
		p.rep.Reportf(diag.NullPointerDereference, name, "Null dereference of pointer '%s'", name)
	}
}

func (p *pass) free(name string, st state) {
	s, ok := st[name]
	switch {
	case !ok:
		p.rep.Reportf(diag.InvalidFree, name, "Invalid free of pointer '%s'", name)
	case s == Deallocated:
		p.rep.Reportf(diag.DoubleFree, name, "Double free of pointer '%s'", name)
	default:
		st[name] = Deallocated
	}
}

func (p *pass) expr(e ast.Expr, st state) error {
	if err := p.guard.Enter(); err != nil {
		return err
	}
	defer p.guard.Leave()
	switch e := e.(type) {
	case *ast.Ident, *ast.VarRef, *ast.AddrExpr, *ast.IntLit, *ast.StringLit:
	case *ast.DerefExpr:
		if name, ok := ast.Name(e.X); ok {
			p.deref(name, st)
			return nil
		}
		return p.expr(e.X, st)
	case *ast.IndexExpr:
		if err := p.expr(e.Index, st); err != nil {
			return err
		}
		p.deref(e.Name, st)
	case *ast.ArrayDeclExpr:
		if err := p.expr(e.Size, st); err != nil {
			return err
		}
		st[e.Name] = Allocated
	case *ast.CallExpr:
		return p.call(e, st)
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

func (p *pass) call(e *ast.CallExpr, st state) error {
	if name, ok := p.prims.FreedName(e); ok {
		if !p.prims.IsNull(name) {
			p.free(name, st)
		}
		return nil
	}
	for _, a := range e.Args {
		if err := p.expr(a, st); err != nil {
			return err
		}
	}
	sig, ok := p.sigs[e.Name]
	if !ok {
		return nil
	}
	if len(e.Args) != len(sig.Pointer) {
		p.rep.Reportf(diag.IncorrectNumberOfArguments, e.Name,
			"Incorrect number of arguments in call to '%s': expected %d, got %d", e.Name, len(sig.Pointer), len(e.Args))
		return nil
	}
	for i, ptr := range sig.Pointer {
		if ptr && !p.isPointer(e.Args[i], st) {
			p.rep.Reportf(diag.NonPointerArgumentForPointerParameter, e.Name,
				"Non-pointer argument %d passed for pointer parameter of '%s'", i+1, e.Name)
		}
	}
	return nil
}

func (p *pass) assign(e *ast.AssignExpr, st state) error {
	switch t := e.Target.(type) {
	case *ast.Ident:
		return p.bind(t.Name, e.Value, st)
	case *ast.VarRef:
		return p.bind(t.Name, e.Value, st)
	case *ast.DerefExpr, *ast.IndexExpr:
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
