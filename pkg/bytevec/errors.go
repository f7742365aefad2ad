package bytevec

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinels for errors.Is classification of the three wire failures.
var (
	ErrBadSize      = errors.New("bytevec: bad size")
	ErrOverflow     = errors.New("bytevec: overflow")
	ErrStringDecode = errors.New("bytevec: invalid utf-8 string")
)

// Relation is the kind of size relation a BadSizeError reports as violated.
type Relation uint8

const (
	LessOrEqualThan Relation = iota
	MoreThan
	EqualTo
)

// ExpectedSize describes the size relation that should have held.
type ExpectedSize struct {
	Relation Relation
	N        uint64
}

func (s ExpectedSize) String() string {
	switch s.Relation {
	case LessOrEqualThan:
		return fmt.Sprintf("less or equal than %d", s.N)
	case MoreThan:
		return fmt.Sprintf("more than %d", s.N)
	default:
		return fmt.Sprintf("%d", s.N)
	}
}

// BadSizeError reports a violated size relation: a short buffer, a
// DecodeMax ceiling, or an out-of-range discriminant or code point.
type BadSizeError struct {
	Expected ExpectedSize
	Actual   uint64
}

func (e *BadSizeError) Error() string {
	return fmt.Sprintf("bytevec: expected size %s, but the actual size is %d", e.Expected, e.Actual)
}

func (e *BadSizeError) Is(target error) bool { return target == ErrBadSize }

// OverflowError reports an encode-time count that exceeds the maximum of the
// chosen size type.
type OverflowError struct {
	Count uint64
	Max   uint64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("bytevec: count %d surpasses the size type maximum %d", e.Count, e.Max)
}

func (e *OverflowError) Is(target error) bool { return target == ErrOverflow }

// StringDecodeError reports string payload bytes that are not valid UTF-8.
// ValidUpTo is the length of the valid prefix of the payload; ErrorLen is the
// length of the invalid sequence, or zero if the payload ends mid-sequence.
// Offset is the position of the payload in the decoded buffer.
type StringDecodeError struct {
	Offset    int
	ValidUpTo int
	ErrorLen  int
}

func (e *StringDecodeError) Error() string {
	if e.ErrorLen == 0 {
		return fmt.Sprintf("bytevec: incomplete utf-8 byte sequence from index %d (string at offset %d)",
			e.ValidUpTo, e.Offset)
	}
	return fmt.Sprintf("bytevec: invalid utf-8 sequence of %d bytes from index %d (string at offset %d)",
		e.ErrorLen, e.ValidUpTo, e.Offset)
}

func (e *StringDecodeError) Is(target error) bool { return target == ErrStringDecode }

// TypeError reports a Go type the codec cannot represent. It signals misuse
// by the caller rather than malformed input.
type TypeError struct {
	Type   reflect.Type
	Reason string
}

func (e *TypeError) Error() string {
	if e.Type == nil {
		return "bytevec: " + e.Reason
	}
	return fmt.Sprintf("bytevec: unsupported type %s: %s", e.Type, e.Reason)
}
