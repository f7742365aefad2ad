package schema

import (
	"fmt"
	"math"

	"github.com/ssargent/bytevec/pkg/bytevec"
)

// Decode reads one value of type t. Structs come back as *Record, maps with
// string keys as map[string]any and other maps as []MapEntry. Sequences,
// sets, tuples and arrays come back as []any, chars as one-rune strings and
// absent options as nil.
func Decode(d *bytevec.Decoder, t *Type) (any, error) {
	switch t.Kind {
	case KindBool:
		return d.Bool()
	case KindU8:
		return d.Uint8()
	case KindU16:
		return d.Uint16()
	case KindU32:
		return d.Uint32()
	case KindU64:
		return d.Uint64()
	case KindI8:
		return d.Int8()
	case KindI16:
		return d.Int16()
	case KindI32:
		return d.Int32()
	case KindI64:
		return d.Int64()
	case KindF32:
		return d.Float32()
	case KindF64:
		return d.Float64()
	case KindChar:
		c, err := d.Char()
		if err != nil {
			return nil, err
		}
		return string(rune(c)), nil
	case KindString:
		return d.String()
	case KindBytes:
		return d.Bytes()
	case KindOption:
		ok, err := d.Present()
		if err != nil || !ok {
			return nil, err
		}
		return Decode(d, t.Elem)
	case KindVec, KindSet:
		n, err := d.Items(minSize(t.Elem, d.Width()))
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, min(n, d.Remaining()))
		err = d.Each(n, func() error {
			v, err := Decode(d, t.Elem)
			if err != nil {
				return err
			}
			out = append(out, v)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case KindArray:
		return decodeItems(d, t.Elem, nil, min(t.Len, d.Remaining()), t.Len)
	case KindTuple:
		return decodeItems(d, nil, t.Elems, len(t.Elems), len(t.Elems))
	case KindMap:
		return decodeMap(d, t)
	case KindStruct:
		rec := &Record{Name: t.Struct.Name, Fields: make([]RecordField, len(t.Struct.Fields))}
		for i, f := range t.Struct.Fields {
			v, err := Decode(d, f.Type)
			if err != nil {
				return nil, err
			}
			rec.Fields[i] = RecordField{Name: f.Name, Value: v}
		}
		return rec, nil
	}
	return nil, fmt.Errorf("schema: unknown kind %s", t.Kind)
}

func decodeItems(d *bytevec.Decoder, elem *Type, elems []*Type, capacity, n int) ([]any, error) {
	out := make([]any, 0, capacity)
	for i := 0; i < n; i++ {
		t := elem
		if elems != nil {
			t = elems[i]
		}
		v, err := Decode(d, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeMap(d *bytevec.Decoder, t *Type) (any, error) {
	n, err := d.Items(minSize(t.Key, d.Width()) + minSize(t.Elem, d.Width()))
	if err != nil {
		return nil, err
	}
	capacity := min(n, d.Remaining())
	if t.Key.Kind == KindString {
		out := make(map[string]any, capacity)
		err := d.Each(n, func() error {
			k, err := d.String()
			if err != nil {
				return err
			}
			v, err := Decode(d, t.Elem)
			if err != nil {
				return err
			}
			out[k] = v
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	out := make([]MapEntry, 0, capacity)
	err = d.Each(n, func() error {
		k, err := Decode(d, t.Key)
		if err != nil {
			return err
		}
		v, err := Decode(d, t.Elem)
		if err != nil {
			return err
		}
		out = append(out, MapEntry{Key: k, Value: v})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// minSize returns the fewest bytes a value of t occupies with prefixes of
// width w.
func minSize(t *Type, w bytevec.Width) int {
	switch t.Kind {
	case KindBool, KindU8, KindI8, KindOption:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32, KindF32, KindChar:
		return 4
	case KindU64, KindI64, KindF64:
		return 8
	case KindString, KindBytes, KindVec, KindSet, KindMap:
		return int(w)
	case KindArray:
		elem := minSize(t.Elem, w)
		if elem > 0 && t.Len > math.MaxInt/elem {
			return math.MaxInt
		}
		return t.Len * elem
	case KindTuple:
		total := 0
		for _, e := range t.Elems {
			total = addSize(total, minSize(e, w))
		}
		return total
	case KindStruct:
		total := 0
		for _, f := range t.Struct.Fields {
			total = addSize(total, minSize(f.Type, w))
		}
		return total
	}
	return 0
}

func addSize(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// DecodeValue decodes one value of the type expression expr from data and
// returns it along with whatever bytes follow it.
func (s *Schema) DecodeValue(w bytevec.Width, expr string, data []byte) (any, []byte, error) {
	return s.decodeValue(bytevec.NewDecoder(data, w), expr, data)
}

// DecodeValueMax is DecodeValue with the same ceiling bytevec.DecodeMax
// applies: data longer than limit bytes and counts above limit are rejected.
func (s *Schema) DecodeValueMax(w bytevec.Width, expr string, data []byte, limit uint64) (any, []byte, error) {
	if err := bytevec.CheckLimit(len(data), limit); err != nil {
		return nil, nil, err
	}
	d := bytevec.NewDecoder(data, w)
	d.SetLimit(limit)
	return s.decodeValue(d, expr, data)
}

func (s *Schema) decodeValue(d *bytevec.Decoder, expr string, data []byte) (any, []byte, error) {
	t, err := s.ResolveType(expr)
	if err != nil {
		return nil, nil, err
	}
	v, err := Decode(d, t)
	if err != nil {
		return nil, nil, err
	}
	return v, data[d.Offset():], nil
}
