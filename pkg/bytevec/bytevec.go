package bytevec

import "reflect"

// Encode encodes v with length prefixes of size type S. On failure no partial
// buffer is returned.
func Encode[S SizeType, T any](v T) ([]byte, error) {
	return EncodeWidth(WidthOf[S](), v)
}

// EncodeWidth is Encode with a width chosen at run time.
func EncodeWidth[T any](w Width, v T) ([]byte, error) {
	if !w.Valid() {
		return nil, &TypeError{Reason: "invalid width " + w.String()}
	}
	e := NewEncoder(w)
	if err := Write(e, v); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Size reports how many bytes Encode[S] would produce for v.
func Size[S SizeType, T any](v T) (int, error) {
	data, err := Encode[S](v)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// Decode decodes a T from data with length prefixes of size type S. Trailing
// bytes after the value are ignored.
func Decode[S SizeType, T any](data []byte) (T, error) {
	return DecodeWidth[T](WidthOf[S](), data)
}

// DecodeWidth is Decode with a width chosen at run time.
func DecodeWidth[T any](w Width, data []byte) (T, error) {
	var v T
	if !w.Valid() {
		return v, &TypeError{Reason: "invalid width " + w.String()}
	}
	if err := Read(NewDecoder(data, w), &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// DecodeMax is Decode, but it first rejects data longer than limit bytes,
// and any length prefix inside data that declares more than limit elements.
func DecodeMax[S SizeType, T any](data []byte, limit S) (T, error) {
	return DecodeMaxWidth[T](WidthOf[S](), data, uint64(limit))
}

// DecodeMaxWidth is DecodeMax with a width chosen at run time.
func DecodeMaxWidth[T any](w Width, data []byte, limit uint64) (T, error) {
	var v T
	if !w.Valid() {
		return v, &TypeError{Reason: "invalid width " + w.String()}
	}
	if err := CheckLimit(len(data), limit); err != nil {
		return v, err
	}
	d := NewDecoder(data, w)
	d.SetLimit(limit)
	if err := Read(d, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// CheckLimit fails with a BadSizeError when size exceeds limit.
func CheckLimit(size int, limit uint64) error {
	if uint64(size) > limit {
		return &BadSizeError{
			Expected: ExpectedSize{Relation: LessOrEqualThan, N: limit},
			Actual:   uint64(size),
		}
	}
	return nil
}

// Write encodes v into e using the codec for its kind. Generated code calls
// Write once per field.
func Write[T any](e *Encoder, v T) error {
	return e.encodeValue(reflect.ValueOf(&v).Elem())
}

// Read decodes into *v from d using the codec for its kind.
func Read[T any](d *Decoder, v *T) error {
	if v == nil {
		return &TypeError{Type: reflect.TypeOf(v), Reason: "nil destination"}
	}
	return d.decodeValue(reflect.ValueOf(v).Elem())
}
