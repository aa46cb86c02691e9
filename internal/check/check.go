// Package check holds what the bounds, memory and pointer checkers share:
// the allocation primitive tables, checker options and the depth guard.
package check

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/tinyrange/safecpp/internal/ast"
	"github.com/tinyrange/safecpp/internal/diag"
)

// DefaultMaxDepth bounds the recursion of a checker over nested nodes.
const DefaultMaxDepth = 1000

// The default tables are never mutated after initialization and may be
// shared between concurrently running checkers.
var (
	defaultAllocators   = set("malloc", "calloc", "realloc", "new", "strdup")
	defaultDeallocators = set("free", "delete")
	defaultNulls        = set("nullptr", "NULL")
)

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Primitives recognizes allocation, deallocation and null names.
// The zero value recognizes the defaults.
type Primitives struct {
	alloc, free, null map[string]struct{}
}

// DefaultPrimitives returns the built-in tables.
func DefaultPrimitives() Primitives {
	return Primitives{alloc: defaultAllocators, free: defaultDeallocators, null: defaultNulls}
}

// Extend returns primitives recognizing the defaults plus the given names.
func (p Primitives) Extend(alloc, free, null []string) Primitives {
	p = p.orDefault()
	return Primitives{
		alloc: extend(p.alloc, alloc),
		free:  extend(p.free, free),
		null:  extend(p.null, null),
	}
}

func extend(base map[string]struct{}, names []string) map[string]struct{} {
	if len(names) == 0 {
		return base
	}
	m := maps.Clone(base)
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

func (p Primitives) orDefault() Primitives {
	if p.alloc == nil {
		return DefaultPrimitives()
	}
	return p
}

func (p Primitives) IsAlloc(name string) bool {
	_, ok := p.orDefault().alloc[name]
	return ok
}

func (p Primitives) IsFree(name string) bool {
	_, ok := p.orDefault().free[name]
	return ok
}

func (p Primitives) IsNull(name string) bool {
	_, ok := p.orDefault().null[name]
	return ok
}

// IsAllocCall reports whether e is a call to an allocation primitive.
func (p Primitives) IsAllocCall(e ast.Expr) bool {
	c, ok := e.(*ast.CallExpr)
	return ok && p.IsAlloc(c.Name)
}

// IsNullExpr reports whether e names a null constant.
func (p Primitives) IsNullExpr(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)
	return ok && p.IsNull(id.Name)
}

// FreedName returns the variable released by e if e is a call to a
// deallocation primitive with a plain name as its first argument.
func (p Primitives) FreedName(e *ast.CallExpr) (string, bool) {
	if !p.IsFree(e.Name) || len(e.Args) == 0 {
		return "", false
	}
	return ast.Name(e.Args[0])
}

// LogValue implements [slog.LogValuer].
func (p Primitives) LogValue() slog.Value {
	p = p.orDefault()
	return slog.GroupValue(
		slog.Any("alloc", slices.Sorted(maps.Keys(p.alloc))),
		slog.Any("free", slices.Sorted(maps.Keys(p.free))),
		slog.Any("null", slices.Sorted(maps.Keys(p.null))),
	)
}

// Options are shared by all checkers.
type Options struct {
	Primitives Primitives
	MaxDepth   int
}

func (o Options) Depth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Guard tracks traversal depth for one checker pass.
type Guard struct {
	checker string
	depth   int
	max     int
}

func NewGuard(checker string, o Options) *Guard {
	return &Guard{checker: checker, max: o.Depth()}
}

// Enter descends one level, failing once the limit is exceeded. Every
// successful Enter must be paired with Leave.
func (g *Guard) Enter() error {
	g.depth++
	if g.depth > g.max {
		g.depth--
		return &diag.StructuralError{
			Checker: g.checker,
			Detail:  fmt.Sprintf("limit %d", g.max),
			Err:     diag.ErrTooDeep,
		}
	}
	return nil
}

func (g *Guard) Leave() { g.depth-- }
