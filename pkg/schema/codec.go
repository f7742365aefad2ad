package schema

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/ssargent/bytevec/pkg/bytevec"
)

// Encode writes v as type t. Values come in the shapes YAML and JSON decoders
// produce: maps, lists, numbers, strings, bools and nil, plus the Record and
// MapEntry values Decode returns.
func Encode(e *bytevec.Encoder, t *Type, v any) error {
	return encodeAt(e, t, v, "$")
}

// EncodeValue encodes v as the type expression expr with width w.
func (s *Schema) EncodeValue(w bytevec.Width, expr string, v any) ([]byte, error) {
	t, err := s.ResolveType(expr)
	if err != nil {
		return nil, err
	}
	e := bytevec.NewEncoder(w)
	if err := Encode(e, t, v); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func encodeAt(e *bytevec.Encoder, t *Type, v any, path string) error {
	switch t.Kind {
	case KindBool:
		b, err := asBool(path, v)
		if err != nil {
			return err
		}
		e.PutBool(b)
	case KindU8, KindU16, KindU32, KindU64:
		n, err := asUint(path, v)
		if err != nil {
			return err
		}
		if max := uintMax(t.Kind); n > max {
			return valueErrorf(path, "%d overflows %s", n, t)
		}
		putUint(e, t.Kind, n)
	case KindI8, KindI16, KindI32, KindI64:
		n, err := asInt(path, v)
		if err != nil {
			return err
		}
		if min, max := intRange(t.Kind); n < min || n > max {
			return valueErrorf(path, "%d overflows %s", n, t)
		}
		putInt(e, t.Kind, n)
	case KindF32:
		f, err := asFloat(path, v)
		if err != nil {
			return err
		}
		e.PutFloat32(float32(f))
	case KindF64:
		f, err := asFloat(path, v)
		if err != nil {
			return err
		}
		e.PutFloat64(f)
	case KindChar:
		r, err := asChar(path, v)
		if err != nil {
			return err
		}
		e.PutChar(bytevec.Char(r))
	case KindString:
		s, ok := v.(string)
		if !ok {
			return valueErrorf(path, "%v (%T) is not a string", v, v)
		}
		return e.PutString(s)
	case KindBytes:
		b, err := asBytes(path, v)
		if err != nil {
			return err
		}
		return e.PutBytes(b)
	case KindOption:
		if v == nil {
			e.PutPresent(false)
			return nil
		}
		e.PutPresent(true)
		return encodeAt(e, t.Elem, v, path)
	case KindVec, KindSet:
		return encodeList(e, t, v, path)
	case KindMap:
		return encodeMap(e, t, v, path)
	case KindTuple, KindArray:
		items, err := asList(path, v)
		if err != nil {
			return err
		}
		want := t.Len
		if t.Kind == KindTuple {
			want = len(t.Elems)
		}
		if len(items) != want {
			return valueErrorf(path, "%s needs %d elements, got %d", t, want, len(items))
		}
		for i, item := range items {
			elem := t.Elem
			if t.Kind == KindTuple {
				elem = t.Elems[i]
			}
			if err := encodeAt(e, elem, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case KindStruct:
		return encodeStruct(e, t.Struct, v, path)
	default:
		return valueErrorf(path, "unknown kind %s", t.Kind)
	}
	return nil
}

func encodeList(e *bytevec.Encoder, t *Type, v any, path string) error {
	items, err := asList(path, v)
	if err != nil {
		return err
	}
	if t.Kind == KindVec {
		if err := e.PutCount(len(items)); err != nil {
			return err
		}
		for i, item := range items {
			if err := encodeAt(e, t.Elem, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	}

	// Set members are encoded on their own first so duplicates can be
	// rejected and the output ordered the way the reflection encoder orders
	// Go map keys.
	members := make([][]byte, 0, len(items))
	for i, item := range items {
		sub := bytevec.NewEncoder(e.Width())
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		if err := encodeAt(sub, t.Elem, item, itemPath); err != nil {
			return err
		}
		for _, m := range members {
			if bytes.Equal(m, sub.Bytes()) {
				return valueErrorf(itemPath, "duplicate set member")
			}
		}
		members = append(members, sub.Bytes())
	}
	slices.SortFunc(members, func(a, b []byte) int { return compareKeys(t.Elem, e.Width(), a, b) })
	if err := e.PutCount(len(members)); err != nil {
		return err
	}
	for _, m := range members {
		writeRaw(e, m)
	}
	return nil
}

type encodedPair struct {
	key, value []byte
}

func encodeMap(e *bytevec.Encoder, t *Type, v any, path string) error {
	var entries []MapEntry
	switch x := v.(type) {
	case nil:
	case map[string]any:
		for k, val := range x {
			key, err := keyFromString(path, t.Key, k)
			if err != nil {
				return err
			}
			entries = append(entries, MapEntry{Key: key, Value: val})
		}
	case map[any]any:
		for k, val := range x {
			entries = append(entries, MapEntry{Key: k, Value: val})
		}
	case []MapEntry:
		entries = x
	case []any:
		for i, item := range x {
			entry, ok := item.(map[string]any)
			if !ok {
				return valueErrorf(fmt.Sprintf("%s[%d]", path, i), "map entries need key and value")
			}
			key, hasKey := entry["key"]
			val, hasValue := entry["value"]
			if !hasKey || !hasValue || len(entry) != 2 {
				return valueErrorf(fmt.Sprintf("%s[%d]", path, i), "map entries need exactly key and value")
			}
			entries = append(entries, MapEntry{Key: key, Value: val})
		}
	default:
		return valueErrorf(path, "%v (%T) is not a map", v, v)
	}

	pairs := make([]encodedPair, 0, len(entries))
	for _, entry := range entries {
		keyPath := fmt.Sprintf("%s[%v]", path, entry.Key)
		key := bytevec.NewEncoder(e.Width())
		if err := encodeAt(key, t.Key, entry.Key, keyPath); err != nil {
			return err
		}
		for _, p := range pairs {
			if bytes.Equal(p.key, key.Bytes()) {
				return valueErrorf(keyPath, "duplicate map key")
			}
		}
		value := bytevec.NewEncoder(e.Width())
		if err := encodeAt(value, t.Elem, entry.Value, keyPath); err != nil {
			return err
		}
		pairs = append(pairs, encodedPair{key: key.Bytes(), value: value.Bytes()})
	}
	slices.SortFunc(pairs, func(a, b encodedPair) int { return compareKeys(t.Key, e.Width(), a.key, b.key) })

	if err := e.PutCount(len(pairs)); err != nil {
		return err
	}
	for _, p := range pairs {
		writeRaw(e, p.key)
		writeRaw(e, p.value)
	}
	return nil
}

func encodeStruct(e *bytevec.Encoder, st *Struct, v any, path string) error {
	var lookup func(string) (any, bool)
	var size int
	switch x := v.(type) {
	case *Record:
		lookup, size = x.Get, len(x.Fields)
	case map[string]any:
		lookup = func(name string) (any, bool) {
			val, ok := x[name]
			return val, ok
		}
		size = len(x)
	default:
		return valueErrorf(path, "%v (%T) is not a %s", v, v, st.Name)
	}
	if size > len(st.Fields) {
		return valueErrorf(path, "%s has %d fields, got %d", st.Name, len(st.Fields), size)
	}
	for _, f := range st.Fields {
		val, ok := lookup(f.Name)
		if !ok {
			if f.Type.Kind != KindOption {
				return valueErrorf(path+"."+f.Name, "missing field")
			}
			size++
		}
		if err := encodeAt(e, f.Type, val, path+"."+f.Name); err != nil {
			return err
		}
	}
	if size != len(st.Fields) {
		return valueErrorf(path, "%s has unknown fields", st.Name)
	}
	return nil
}

// writeRaw appends bytes already encoded with e's width.
func writeRaw(e *bytevec.Encoder, b []byte) {
	for _, c := range b {
		e.PutUint8(c)
	}
}

func uintMax(k Kind) uint64 {
	switch k {
	case KindU8:
		return math.MaxUint8
	case KindU16:
		return math.MaxUint16
	case KindU32:
		return math.MaxUint32
	}
	return math.MaxUint64
}

func intRange(k Kind) (int64, int64) {
	switch k {
	case KindI8:
		return math.MinInt8, math.MaxInt8
	case KindI16:
		return math.MinInt16, math.MaxInt16
	case KindI32:
		return math.MinInt32, math.MaxInt32
	}
	return math.MinInt64, math.MaxInt64
}

func putUint(e *bytevec.Encoder, k Kind, n uint64) {
	switch k {
	case KindU8:
		e.PutUint8(uint8(n))
	case KindU16:
		e.PutUint16(uint16(n))
	case KindU32:
		e.PutUint32(uint32(n))
	default:
		e.PutUint64(n)
	}
}

func putInt(e *bytevec.Encoder, k Kind, n int64) {
	switch k {
	case KindI8:
		e.PutInt8(int8(n))
	case KindI16:
		e.PutInt16(int16(n))
	case KindI32:
		e.PutInt32(int32(n))
	default:
		e.PutInt64(n)
	}
}

// compareKeys orders encoded keys: primitives by value, strings by content,
// everything else by raw bytes.
func compareKeys(t *Type, w bytevec.Width, a, b []byte) int {
	le := binary.LittleEndian
	switch t.Kind {
	case KindBool, KindU8:
		return cmp.Compare(a[0], b[0])
	case KindU16:
		return cmp.Compare(le.Uint16(a), le.Uint16(b))
	case KindU32:
		return cmp.Compare(le.Uint32(a), le.Uint32(b))
	case KindU64:
		return cmp.Compare(le.Uint64(a), le.Uint64(b))
	case KindI8:
		return cmp.Compare(int8(a[0]), int8(b[0]))
	case KindI16:
		return cmp.Compare(int16(le.Uint16(a)), int16(le.Uint16(b)))
	case KindI32, KindChar:
		return cmp.Compare(int32(le.Uint32(a)), int32(le.Uint32(b)))
	case KindI64:
		return cmp.Compare(int64(le.Uint64(a)), int64(le.Uint64(b)))
	case KindF32:
		return cmp.Compare(math.Float32frombits(le.Uint32(a)), math.Float32frombits(le.Uint32(b)))
	case KindF64:
		return cmp.Compare(math.Float64frombits(le.Uint64(a)), math.Float64frombits(le.Uint64(b)))
	case KindString:
		return bytes.Compare(a[w:], b[w:])
	}
	return bytes.Compare(a, b)
}
