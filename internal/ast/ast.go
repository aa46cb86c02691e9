// Package ast defines the syntax tree the checkers walk. Nodes are built once
// by the parser and treated as read-only afterwards.
package ast

import "github.com/tinyrange/safecpp/internal/types"

type File struct {
	Decls []Decl
}

// Funcs returns the function declarations of f in source order.
func (f *File) Funcs() []*FuncDecl {
	var fns []*FuncDecl
	for _, d := range f.Decls {
		if fn, ok := d.(*FuncDecl); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

type Decl interface{ isDecl() }

type FuncDecl struct {
	Name   string
	Params []Param
	Ret    types.Type
	Body   Stmt // nil for a prototype
}

func (*FuncDecl) isDecl() {}

type Param struct {
	Name string
	Typ  types.Type
}

func (p Param) IsPointer() bool { return p.Typ.IsPointer() }

type VarDecl struct {
	Name string
	Init Expr // may be nil
}

func (*VarDecl) isDecl() {}

// StmtDecl holds a statement written at file scope.
type StmtDecl struct {
	Stmt Stmt
}

func (*StmtDecl) isDecl() {}

type Stmt interface{ isStmt() }

type BlockStmt struct{ Stmts []Stmt }

func (*BlockStmt) isStmt() {}

type ExprStmt struct{ X Expr }

func (*ExprStmt) isStmt() {}

type DeclStmt struct {
	Name string
	Init Expr // may be nil
}

func (*DeclStmt) isStmt() {}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // may be nil
}

func (*IfStmt) isStmt() {}

// LoopStmt covers while, for and do-while loops.
type LoopStmt struct {
	Init Stmt // may be nil
	Cond Expr // may be nil (treated as true)
	Post Expr // may be nil
	Body Stmt
}

func (*LoopStmt) isStmt() {}

type ReturnStmt struct{ X Expr } // X may be nil

func (*ReturnStmt) isStmt() {}

type BranchKind int

const (
	Break BranchKind = iota
	Continue
)

type BranchStmt struct{ Kind BranchKind }

func (*BranchStmt) isStmt() {}

type Expr interface{ isExpr() }

type Ident struct{ Name string }

func (*Ident) isExpr() {}

type IntLit struct{ Value int64 }

func (*IntLit) isExpr() {}

type StringLit struct{ Value string }

func (*StringLit) isExpr() {}

type CallExpr struct {
	Name string
	Args []Expr
}

func (*CallExpr) isExpr() {}

// VarRef is a reference to a name known to hold a pointer.
type VarRef struct{ Name string }

func (*VarRef) isExpr() {}

// AddrExpr takes the address of a variable. It yields a valid pointer and
// does not read the variable.
type AddrExpr struct{ Name string }

func (*AddrExpr) isExpr() {}

type DerefExpr struct{ X Expr }

func (*DerefExpr) isExpr() {}

type BinaryExpr struct {
	Op          BinOp
	Left, Right Expr
}

func (*BinaryExpr) isExpr() {}

type AssignExpr struct {
	Target Expr
	Value  Expr
}

func (*AssignExpr) isExpr() {}

type IndexExpr struct {
	Name  string
	Index Expr
}

func (*IndexExpr) isExpr() {}

type ArrayDeclExpr struct {
	Name string
	Size Expr
}

func (*ArrayDeclExpr) isExpr() {}

type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLAnd
	OpLOr
)

var binOpNames = [...]string{
	OpAdd:  "+",
	OpSub:  "-",
	OpMul:  "*",
	OpDiv:  "/",
	OpRem:  "%",
	OpEq:   "==",
	OpNe:   "!=",
	OpLt:   "<",
	OpLe:   "<=",
	OpGt:   ">",
	OpGe:   ">=",
	OpLAnd: "&&",
	OpLOr:  "||",
}

func (op BinOp) String() string {
	if op < 0 || int(op) >= len(binOpNames) {
		return "?"
	}
	return binOpNames[op]
}

// Name returns the variable name an expression refers to directly, if any.
func Name(e Expr) (string, bool) {
	switch e := e.(type) {
	case *Ident:
		return e.Name, true
	case *VarRef:
		return e.Name, true
	default:
		return "", false
	}
}
