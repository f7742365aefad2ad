package bytevec

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// SizeType is the set of unsigned integer types usable as length prefixes.
type SizeType interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Width is the byte width of every length prefix in one encode or decode call.
type Width uint8

const (
	Width8  Width = 1
	Width16 Width = 2
	Width32 Width = 4
	Width64 Width = 8
)

// WidthOf returns the prefix width selected by the size type S.
func WidthOf[S SizeType]() Width {
	return Width(bits.Len64(uint64(^S(0))) / 8)
}

// ParseWidth accepts u8, u16, u32, u64 or the byte counts 1, 2, 4, 8.
func ParseWidth(s string) (Width, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u8", "uint8", "1":
		return Width8, nil
	case "u16", "uint16", "2":
		return Width16, nil
	case "u32", "uint32", "4":
		return Width32, nil
	case "u64", "uint64", "8":
		return Width64, nil
	}
	return 0, fmt.Errorf("bytevec: unknown size type %q", s)
}

// Valid reports whether w is one of the four supported widths.
func (w Width) Valid() bool {
	switch w {
	case Width8, Width16, Width32, Width64:
		return true
	}
	return false
}

// MaxCount is the largest count a prefix of this width can hold.
func (w Width) MaxCount() uint64 {
	if w >= Width64 {
		return math.MaxUint64
	}
	return 1<<(8*uint(w)) - 1
}

func (w Width) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Width(%d)", uint8(w))
	}
	return fmt.Sprintf("u%d", 8*int(w))
}

// checkCount fails iff n cannot be represented by a prefix of width w.
func checkCount(n uint64, w Width) error {
	if max := w.MaxCount(); n > max {
		return &OverflowError{Count: n, Max: max}
	}
	return nil
}

// checkAvailable fails iff fewer than needed bytes remain.
func checkAvailable(remaining, needed int) error {
	if remaining < needed {
		return &BadSizeError{
			Expected: ExpectedSize{Relation: MoreThan, N: uint64(needed - 1)},
			Actual:   uint64(remaining),
		}
	}
	return nil
}
