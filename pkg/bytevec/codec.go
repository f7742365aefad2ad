package bytevec

// Char is a Unicode scalar value encoded as a 4 byte code point. Unlike a
// plain int32 or rune, decoding a Char rejects surrogates and values above
// U+10FFFF.
type Char rune

// Marshaler is implemented by types that write their own encoding, usually
// through generated code.
type Marshaler interface {
	MarshalByteVec(e *Encoder) error
}

// Unmarshaler is implemented by types that read their own encoding. It must
// consume exactly the bytes the matching MarshalByteVec wrote.
type Unmarshaler interface {
	UnmarshalByteVec(d *Decoder) error
}

// Option is an optional value. It encodes like a pointer: a discriminant byte
// followed by the value when present.
type Option[T any] struct {
	Value T
	Valid bool
}

// Some returns a present Option holding v.
func Some[T any](v T) Option[T] { return Option[T]{Value: v, Valid: true} }

// None returns an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.Value, o.Valid }

func (o Option[T]) MarshalByteVec(e *Encoder) error {
	e.PutPresent(o.Valid)
	if !o.Valid {
		return nil
	}
	return Write(e, o.Value)
}

func (o *Option[T]) UnmarshalByteVec(d *Decoder) error {
	present, err := d.Present()
	if err != nil {
		return err
	}
	var v T
	if present {
		if err := Read(d, &v); err != nil {
			return err
		}
	}
	*o = Option[T]{Value: v, Valid: present}
	return nil
}
