package types

import "strings"

// Kind is the base kind of a declarator type. Only the distinctions the
// parser needs are kept; the checkers never look past IsPointer.
type Kind int

const (
	Int Kind = iota
	Char
	Bool
	Short
	Long
	Float
	Double
	Void
	Auto
	Ptr
)

var kindNames = [...]string{
	Int:    "int",
	Char:   "char",
	Bool:   "bool",
	Short:  "short",
	Long:   "long",
	Float:  "float",
	Double: "double",
	Void:   "void",
	Auto:   "auto",
	Ptr:    "*",
}

// Type is a minimal description of a declared name's type: a base kind
// optionally wrapped in one or more pointer levels.
type Type struct {
	K    Kind
	Elem *Type // non-nil only when K==Ptr
}

func IntT() Type { return Type{K: Int} }

func PointerTo(elem Type) Type { return Type{K: Ptr, Elem: &elem} }

// FromKeyword maps a type-specifier keyword to its base kind.
// Modifiers such as unsigned/signed/const fold into the kind they qualify.
func FromKeyword(kw string) (Kind, bool) {
	switch kw {
	case "int", "unsigned", "signed":
		return Int, true
	case "char":
		return Char, true
	case "bool":
		return Bool, true
	case "short":
		return Short, true
	case "long":
		return Long, true
	case "float":
		return Float, true
	case "double":
		return Double, true
	case "void":
		return Void, true
	case "auto":
		return Auto, true
	default:
		return 0, false
	}
}

func (t Type) IsPointer() bool { return t.K == Ptr }

// Depth returns the number of pointer levels.
func (t Type) Depth() int {
	n := 0
	for cur := t; cur.K == Ptr && cur.Elem != nil; cur = *cur.Elem {
		n++
	}
	return n
}

// Base returns the innermost non-pointer type.
func (t Type) Base() Type {
	cur := t
	for cur.K == Ptr && cur.Elem != nil {
		cur = *cur.Elem
	}
	return cur
}

func (t Type) String() string {
	base := t.Base()
	name := "?"
	if int(base.K) < len(kindNames) {
		name = kindNames[base.K]
	}
	return name + strings.Repeat("*", t.Depth())
}
