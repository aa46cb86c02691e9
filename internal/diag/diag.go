// Package diag holds the diagnostics shared by all checkers and the fatal
// structural errors that abort a checker's pass.
package diag

import (
	"errors"
	"fmt"
	"log/slog"
)

//go:generate go tool stringer -type=Kind

// Kind classifies a diagnostic.
type Kind uint8

const (
	OutOfBounds Kind = iota
	MemoryLeak
	DoubleFree
	InvalidFree
	UninitializedAccess
	NullPointerDereference
	IncorrectNumberOfArguments
	NonPointerArgumentForPointerParameter
	// Unsupported marks a node kind a checker does not model.
	Unsupported
)

// Diagnostic is a suspected defect. The AST carries no positions, so Name
// is the only locator.
type Diagnostic struct {
	Checker string `json:"checker"`
	Kind    Kind   `json:"kind"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string { return d.Message }

// LogValue implements [slog.LogValuer].
func (d Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("checker", d.Checker),
		slog.String("kind", d.Kind.String()),
		slog.String("name", d.Name),
	)
}

// MarshalText renders the kind by name in encoded reports.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// List is an ordered collection of diagnostics.
type List []Diagnostic

// OK reports whether no diagnostic was produced.
func (l List) OK() bool { return len(l) == 0 }

// Count returns the number of diagnostics of kind k.
func (l List) Count(k Kind) int {
	n := 0
	for _, d := range l {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// Kinds returns the kinds of l in order.
func (l List) Kinds() []Kind {
	ks := make([]Kind, len(l))
	for i, d := range l {
		ks[i] = d.Kind
	}
	return ks
}

// Reporter appends diagnostics on behalf of one checker.
type Reporter struct {
	Checker string
	list    List
}

// Reportf records a diagnostic of kind k about name.
func (r *Reporter) Reportf(k Kind, name, format string, args ...any) {
	r.list = append(r.list, Diagnostic{
		Checker: r.Checker,
		Kind:    k,
		Name:    name,
		Message: fmt.Sprintf(format, args...),
	})
}

// Unsupported records that node could not be analyzed.
func (r *Reporter) Unsupported(node any) {
	r.Reportf(Unsupported, "", "%s: unsupported node %T skipped", r.Checker, node)
}

// List returns everything reported so far.
func (r *Reporter) List() List { return r.list }

var (
	// ErrMalformed indicates a syntax tree the checker cannot trust,
	// such as a nil node where one is required.
	ErrMalformed = errors.New("malformed syntax tree")

	// ErrTooDeep indicates nesting beyond the checker's depth limit.
	ErrTooDeep = errors.New("syntax tree nested too deep")
)

// StructuralError aborts a checker's pass. It is reported separately from
// diagnostics.
type StructuralError struct {
	Checker string
	Detail  string
	Err     error
}

func (e *StructuralError) Error() string {
	if e.Detail == "" {
		return e.Checker + ": " + e.Err.Error()
	}
	return e.Checker + ": " + e.Err.Error() + ": " + e.Detail
}

func (e *StructuralError) Unwrap() error { return e.Err }

// Malformed returns a StructuralError wrapping ErrMalformed.
func Malformed(checker, format string, args ...any) error {
	return &StructuralError{Checker: checker, Detail: fmt.Sprintf(format, args...), Err: ErrMalformed}
}
