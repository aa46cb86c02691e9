package config

// BitMask is a set of binary flags of type T.
type BitMask[T ~uint8 | ~uint16 | ~uint32 | ~uint64] struct {
	value T
}

// NewBitMask creates a [BitMask] with the specified flags enabled.
func NewBitMask[T ~uint8 | ~uint16 | ~uint32 | ~uint64](flags ...T) BitMask[T] {
	var b BitMask[T]
	for _, flag := range flags {
		b.Enable(flag)
	}

	return b
}

// Set enables or disables flag.
func (b *BitMask[T]) Set(flag T, value bool) {
	if value {
		b.Enable(flag)
	} else {
		b.Disable(flag)
	}
}

func (b *BitMask[T]) Enable(flag T) {
	b.value |= flag
}

func (b *BitMask[T]) Disable(flag T) {
	b.value &^= flag
}

// Enabled checks if any bit of flag is set.
func (b BitMask[T]) Enabled(flag T) bool {
	return b.value&flag != 0
}

// Value returns the raw flags.
func (b BitMask[T]) Value() T { return b.value }

// Empty reports whether no flag is set.
func (b BitMask[T]) Empty() bool { return b.value == 0 }
