package bytevec

import (
	"encoding/binary"
	"math"
)

var le = binary.LittleEndian

// Encoder appends encoded values to a growing buffer. Every length prefix it
// writes has the width chosen at construction.
type Encoder struct {
	buf   []byte
	width Width
}

// NewEncoder returns an empty encoder. It panics if w is not a valid width.
func NewEncoder(w Width) *Encoder {
	if !w.Valid() {
		panic("bytevec: invalid width " + w.String())
	}
	return &Encoder{width: w}
}

// Width returns the prefix width of the encoder.
func (e *Encoder) Width() Width { return e.width }

// Bytes returns the encoded buffer. The slice aliases the encoder's storage.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return len(e.buf) }

func (e *Encoder) PutBool(v bool) {
	if v {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

func (e *Encoder) PutUint8(v uint8)   { e.buf = append(e.buf, v) }
func (e *Encoder) PutUint16(v uint16) { e.buf = le.AppendUint16(e.buf, v) }
func (e *Encoder) PutUint32(v uint32) { e.buf = le.AppendUint32(e.buf, v) }
func (e *Encoder) PutUint64(v uint64) { e.buf = le.AppendUint64(e.buf, v) }
func (e *Encoder) PutInt8(v int8)     { e.PutUint8(uint8(v)) }
func (e *Encoder) PutInt16(v int16)   { e.PutUint16(uint16(v)) }
func (e *Encoder) PutInt32(v int32)   { e.PutUint32(uint32(v)) }
func (e *Encoder) PutInt64(v int64)   { e.PutUint64(uint64(v)) }

func (e *Encoder) PutFloat32(v float32) { e.PutUint32(math.Float32bits(v)) }
func (e *Encoder) PutFloat64(v float64) { e.PutUint64(math.Float64bits(v)) }

// PutChar writes the code point of c as a 4 byte unsigned integer.
func (e *Encoder) PutChar(c Char) { e.PutUint32(uint32(c)) }

// PutPresent writes the discriminant byte of an optional value.
func (e *Encoder) PutPresent(present bool) { e.PutBool(present) }

// PutCount writes n as a prefix of the encoder's width. Nothing is written if
// n does not fit.
func (e *Encoder) PutCount(n int) error {
	if err := checkCount(uint64(n), e.width); err != nil {
		return err
	}
	switch e.width {
	case Width8:
		e.PutUint8(uint8(n))
	case Width16:
		e.PutUint16(uint16(n))
	case Width32:
		e.PutUint32(uint32(n))
	default:
		e.PutUint64(uint64(n))
	}
	return nil
}

// PutString writes the UTF-8 byte length of s followed by its bytes.
func (e *Encoder) PutString(s string) error {
	if err := e.PutCount(len(s)); err != nil {
		return err
	}
	e.buf = append(e.buf, s...)
	return nil
}

// PutBytes writes b as a sequence of uint8.
func (e *Encoder) PutBytes(b []byte) error {
	if err := e.PutCount(len(b)); err != nil {
		return err
	}
	e.buf = append(e.buf, b...)
	return nil
}
