package bytevec

import (
	"math"
	"unicode/utf8"
)

const maxInt = int(^uint(0) >> 1)

// MaxEmptyElements caps how many collection elements that consume no input a
// single decoder will produce.
const MaxEmptyElements = 1 << 20

// Decoder is a cursor over an immutable input buffer. It only moves forward,
// and every read checks the remaining length first.
type Decoder struct {
	data    []byte
	off     int
	width   Width
	limit   uint64
	limited bool
	empties uint64
}

// NewDecoder returns a decoder positioned at the start of data. It panics if
// w is not a valid width.
func NewDecoder(data []byte, w Width) *Decoder {
	if !w.Valid() {
		panic("bytevec: invalid width " + w.String())
	}
	return &Decoder{data: data, width: w}
}

// Width returns the prefix width of the decoder.
func (d *Decoder) Width() Width { return d.width }

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int { return d.off }

// Remaining returns the number of unconsumed bytes.
func (d *Decoder) Remaining() int { return len(d.data) - d.off }

// SetLimit makes every count read afterwards fail when it declares more than
// limit elements or bytes.
func (d *Decoder) SetLimit(limit uint64) {
	d.limit = limit
	d.limited = true
}

// Limit returns the ceiling set by SetLimit, if any.
func (d *Decoder) Limit() (uint64, bool) { return d.limit, d.limited }

func (d *Decoder) take(n int) ([]byte, error) {
	if err := checkAvailable(d.Remaining(), n); err != nil {
		return nil, err
	}
	b := d.data[d.off : d.off+n : d.off+n]
	d.off += n
	return b, nil
}

// discriminant reads a byte that must be 0 or 1.
func (d *Decoder) discriminant() (bool, error) {
	b, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, &BadSizeError{
		Expected: ExpectedSize{Relation: LessOrEqualThan, N: 1},
		Actual:   uint64(b[0]),
	}
}

// Bool reads a boolean. Bytes other than 0 and 1 are rejected.
func (d *Decoder) Bool() (bool, error) { return d.discriminant() }

// Present reads the discriminant byte of an optional value.
func (d *Decoder) Present() (bool, error) { return d.discriminant() }

func (d *Decoder) Uint8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) Uint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return le.Uint16(b), nil
}

func (d *Decoder) Uint32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return le.Uint32(b), nil
}

func (d *Decoder) Uint64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return le.Uint64(b), nil
}

func (d *Decoder) Int8() (int8, error) {
	v, err := d.Uint8()
	return int8(v), err
}

func (d *Decoder) Int16() (int16, error) {
	v, err := d.Uint16()
	return int16(v), err
}

func (d *Decoder) Int32() (int32, error) {
	v, err := d.Uint32()
	return int32(v), err
}

func (d *Decoder) Int64() (int64, error) {
	v, err := d.Uint64()
	return int64(v), err
}

func (d *Decoder) Float32() (float32, error) {
	v, err := d.Uint32()
	return math.Float32frombits(v), err
}

func (d *Decoder) Float64() (float64, error) {
	v, err := d.Uint64()
	return math.Float64frombits(v), err
}

// Char reads a 4 byte code point and rejects values that are not Unicode
// scalar values.
func (d *Decoder) Char() (Char, error) {
	v, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	if v > utf8.MaxRune {
		return 0, &BadSizeError{
			Expected: ExpectedSize{Relation: LessOrEqualThan, N: utf8.MaxRune},
			Actual:   uint64(v),
		}
	}
	if !utf8.ValidRune(rune(v)) {
		return 0, &BadSizeError{
			Expected: ExpectedSize{Relation: LessOrEqualThan, N: surrogateMin - 1},
			Actual:   uint64(v),
		}
	}
	return Char(v), nil
}

// Count reads a prefix of the decoder's width. A count above the decoder's
// limit is rejected before anything is read for it.
func (d *Decoder) Count() (int, error) {
	var n uint64
	switch d.width {
	case Width8:
		v, err := d.Uint8()
		if err != nil {
			return 0, err
		}
		n = uint64(v)
	case Width16:
		v, err := d.Uint16()
		if err != nil {
			return 0, err
		}
		n = uint64(v)
	case Width32:
		v, err := d.Uint32()
		if err != nil {
			return 0, err
		}
		n = uint64(v)
	default:
		v, err := d.Uint64()
		if err != nil {
			return 0, err
		}
		n = v
	}
	if n > uint64(maxInt) {
		return 0, &BadSizeError{
			Expected: ExpectedSize{Relation: LessOrEqualThan, N: uint64(maxInt)},
			Actual:   n,
		}
	}
	if d.limited && n > d.limit {
		return 0, &BadSizeError{
			Expected: ExpectedSize{Relation: LessOrEqualThan, N: d.limit},
			Actual:   n,
		}
	}
	return int(n), nil
}

// Items reads the count of a collection whose elements each occupy at least
// minSize bytes. With minSize above zero a count the remaining input cannot
// hold fails up front.
func (d *Decoder) Items(minSize int) (int, error) {
	n, err := d.Count()
	if err != nil {
		return 0, err
	}
	if minSize > 0 && n > d.Remaining()/minSize {
		needed := maxInt
		if n <= maxInt/minSize {
			needed = n * minSize
		}
		return 0, checkAvailable(d.Remaining(), needed)
	}
	return n, nil
}

// Each calls fn once for each of n collection elements. Elements that
// consume no input count against MaxEmptyElements.
func (d *Decoder) Each(n int, fn func() error) error {
	for i := 0; i < n; i++ {
		start := d.off
		if err := fn(); err != nil {
			return err
		}
		if d.off != start {
			continue
		}
		d.empties++
		if d.empties > MaxEmptyElements {
			return &BadSizeError{
				Expected: ExpectedSize{Relation: LessOrEqualThan, N: MaxEmptyElements},
				Actual:   d.empties,
			}
		}
	}
	return nil
}

// String reads a length-prefixed UTF-8 string.
func (d *Decoder) String() (string, error) {
	n, err := d.Count()
	if err != nil {
		return "", err
	}
	start := d.off
	b, err := d.take(n)
	if err != nil {
		return "", err
	}
	if err := validateUTF8(b, start); err != nil {
		return "", err
	}
	return string(b), nil
}

// Bytes reads a sequence of uint8 into a fresh slice.
func (d *Decoder) Bytes() ([]byte, error) {
	n, err := d.Count()
	if err != nil {
		return nil, err
	}
	b, err := d.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// capHint bounds a preallocation by what the remaining bytes could hold.
func (d *Decoder) capHint(count int) int {
	if r := d.Remaining(); count > r {
		return r
	}
	return count
}

const surrogateMin = 0xD800

func validateUTF8(b []byte, offset int) error {
	if utf8.Valid(b) {
		return nil
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r != utf8.RuneError || size != 1 {
			i += size
			continue
		}
		errLen := 1
		if !utf8.FullRune(b[i:]) {
			errLen = 0
		}
		return &StringDecodeError{Offset: offset, ValidUpTo: i, ErrorLen: errLen}
	}
	return nil
}
