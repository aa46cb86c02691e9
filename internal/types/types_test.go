package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType(t *testing.T) {
	t.Parallel()

	pp := PointerTo(PointerTo(Type{K: Char}))

	tests := []struct {
		typ     Type
		str     string
		depth   int
		pointer bool
	}{
		{IntT(), "int", 0, false},
		{PointerTo(IntT()), "int*", 1, true},
		{pp, "char**", 2, true},
		{Type{K: Void}, "void", 0, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.str, tt.typ.String())
		assert.Equal(t, tt.depth, tt.typ.Depth(), tt.str)
		assert.Equal(t, tt.pointer, tt.typ.IsPointer(), tt.str)
	}

	assert.Equal(t, Type{K: Char}, pp.Base())
}

func TestFromKeyword(t *testing.T) {
	t.Parallel()

	for kw, want := range map[string]Kind{"unsigned": Int, "double": Double, "auto": Auto} {
		got, ok := FromKeyword(kw)
		assert.True(t, ok, kw)
		assert.Equal(t, want, got, kw)
	}

	_, ok := FromKeyword("struct")
	assert.False(t, ok)
}
