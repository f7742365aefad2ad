package bytevec

import (
	"bytes"
	"cmp"
	"reflect"
	"slices"
	"sync"
)

var (
	marshalerType   = reflect.TypeOf((*Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	charType        = reflect.TypeOf(Char(0))
)

type structInfo struct {
	fields []int
	err    error
}

// structCache maps a struct reflect.Type to its *structInfo.
var structCache sync.Map

// fieldsOf returns the indices of the fields of t that take part in the
// encoding, in declaration order.
func fieldsOf(t reflect.Type) ([]int, error) {
	if cached, ok := structCache.Load(t); ok {
		info := cached.(*structInfo)
		return info.fields, info.err
	}
	info := &structInfo{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Tag.Get("bytevec") == "-" {
			continue
		}
		if !f.IsExported() {
			info.err = &TypeError{Type: t, Reason: "field " + f.Name + " is unexported; tag it `bytevec:\"-\"` to skip it"}
			info.fields = nil
			break
		}
		info.fields = append(info.fields, i)
	}
	cached, _ := structCache.LoadOrStore(t, info)
	info = cached.(*structInfo)
	return info.fields, info.err
}

func (e *Encoder) encodeValue(v reflect.Value) error {
	t := v.Type()
	switch t.Kind() {
	case reflect.Pointer:
	case reflect.Interface:
		if v.IsNil() {
			return &TypeError{Type: t, Reason: "nil interface value"}
		}
		return e.encodeValue(v.Elem())
	default:
		if t.Implements(marshalerType) {
			return v.Interface().(Marshaler).MarshalByteVec(e)
		}
		if reflect.PointerTo(t).Implements(marshalerType) {
			if !v.CanAddr() {
				tmp := reflect.New(t).Elem()
				tmp.Set(v)
				v = tmp
			}
			return v.Addr().Interface().(Marshaler).MarshalByteVec(e)
		}
	}

	switch t.Kind() {
	case reflect.Bool:
		e.PutBool(v.Bool())
	case reflect.Int8:
		e.PutInt8(int8(v.Int()))
	case reflect.Int16:
		e.PutInt16(int16(v.Int()))
	case reflect.Int32:
		e.PutInt32(int32(v.Int()))
	case reflect.Int64, reflect.Int:
		e.PutInt64(v.Int())
	case reflect.Uint8:
		e.PutUint8(uint8(v.Uint()))
	case reflect.Uint16:
		e.PutUint16(uint16(v.Uint()))
	case reflect.Uint32:
		e.PutUint32(uint32(v.Uint()))
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		e.PutUint64(v.Uint())
	case reflect.Float32:
		e.PutFloat32(float32(v.Float()))
	case reflect.Float64:
		e.PutFloat64(v.Float())
	case reflect.String:
		return e.PutString(v.String())
	case reflect.Pointer:
		if v.IsNil() {
			e.PutPresent(false)
			return nil
		}
		e.PutPresent(true)
		return e.encodeValue(v.Elem())
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := e.encodeValue(v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Slice:
		if isPlainByte(t.Elem()) {
			return e.PutBytes(v.Bytes())
		}
		if err := e.PutCount(v.Len()); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := e.encodeValue(v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		if err := e.PutCount(v.Len()); err != nil {
			return err
		}
		entries := make([]mapEntry, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			entries = append(entries, mapEntry{key: iter.Key(), value: iter.Value()})
		}
		if err := e.sortEntries(entries); err != nil {
			return err
		}
		for _, entry := range entries {
			if err := e.encodeValue(entry.key); err != nil {
				return err
			}
			if err := e.encodeValue(entry.value); err != nil {
				return err
			}
		}
	case reflect.Struct:
		fields, err := fieldsOf(t)
		if err != nil {
			return err
		}
		for _, i := range fields {
			if err := e.encodeValue(v.Field(i)); err != nil {
				return err
			}
		}
	default:
		return &TypeError{Type: t, Reason: "kind " + t.Kind().String() + " has no wire representation"}
	}
	return nil
}

// decodeValue decodes into v, which must be settable.
func (d *Decoder) decodeValue(v reflect.Value) error {
	t := v.Type()
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
	default:
		if reflect.PointerTo(t).Implements(unmarshalerType) {
			return v.Addr().Interface().(Unmarshaler).UnmarshalByteVec(d)
		}
	}

	switch t.Kind() {
	case reflect.Bool:
		b, err := d.Bool()
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int8:
		x, err := d.Int8()
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
	case reflect.Int16:
		x, err := d.Int16()
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
	case reflect.Int32:
		if t == charType {
			c, err := d.Char()
			if err != nil {
				return err
			}
			v.SetInt(int64(c))
			return nil
		}
		x, err := d.Int32()
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
	case reflect.Int64, reflect.Int:
		x, err := d.Int64()
		if err != nil {
			return err
		}
		if v.OverflowInt(x) {
			return &BadSizeError{
				Expected: ExpectedSize{Relation: LessOrEqualThan, N: uint64(maxInt)},
				Actual:   uint64(x),
			}
		}
		v.SetInt(x)
	case reflect.Uint8:
		x, err := d.Uint8()
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case reflect.Uint16:
		x, err := d.Uint16()
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case reflect.Uint32:
		x, err := d.Uint32()
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		x, err := d.Uint64()
		if err != nil {
			return err
		}
		if v.OverflowUint(x) {
			return &BadSizeError{
				Expected: ExpectedSize{Relation: LessOrEqualThan, N: uint64(^uint(0))},
				Actual:   x,
			}
		}
		v.SetUint(x)
	case reflect.Float32:
		f, err := d.Float32()
		if err != nil {
			return err
		}
		v.SetFloat(float64(f))
	case reflect.Float64:
		f, err := d.Float64()
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.String:
		s, err := d.String()
		if err != nil {
			return err
		}
		v.SetString(s)
	case reflect.Pointer:
		present, err := d.Present()
		if err != nil {
			return err
		}
		if !present {
			v.SetZero()
			return nil
		}
		p := reflect.New(t.Elem())
		if err := d.decodeValue(p.Elem()); err != nil {
			return err
		}
		v.Set(p)
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := d.decodeValue(v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Slice:
		n, err := d.Items(minWireSize(t.Elem(), d.width))
		if err != nil {
			return err
		}
		if isPlainByte(t.Elem()) {
			b, err := d.take(n)
			if err != nil {
				return err
			}
			s := reflect.MakeSlice(t, n, n)
			copy(s.Bytes(), b)
			v.Set(s)
			return nil
		}
		s := reflect.MakeSlice(t, 0, d.capHint(n))
		err = d.Each(n, func() error {
			elem := reflect.New(t.Elem()).Elem()
			if err := d.decodeValue(elem); err != nil {
				return err
			}
			s = reflect.Append(s, elem)
			return nil
		})
		if err != nil {
			return err
		}
		v.Set(s)
	case reflect.Map:
		n, err := d.Items(minWireSize(t.Key(), d.width) + minWireSize(t.Elem(), d.width))
		if err != nil {
			return err
		}
		m := reflect.MakeMapWithSize(t, d.capHint(n))
		err = d.Each(n, func() error {
			key := reflect.New(t.Key()).Elem()
			if err := d.decodeValue(key); err != nil {
				return err
			}
			val := reflect.New(t.Elem()).Elem()
			if err := d.decodeValue(val); err != nil {
				return err
			}
			m.SetMapIndex(key, val)
			return nil
		})
		if err != nil {
			return err
		}
		v.Set(m)
	case reflect.Struct:
		fields, err := fieldsOf(t)
		if err != nil {
			return err
		}
		for _, i := range fields {
			if err := d.decodeValue(v.Field(i)); err != nil {
				return err
			}
		}
	default:
		return &TypeError{Type: t, Reason: "kind " + t.Kind().String() + " cannot be decoded"}
	}
	return nil
}

// isPlainByte reports whether slices of t can be copied as raw bytes.
func isPlainByte(t reflect.Type) bool {
	return t.Kind() == reflect.Uint8 &&
		!t.Implements(marshalerType) &&
		!reflect.PointerTo(t).Implements(unmarshalerType) &&
		!reflect.PointerTo(t).Implements(marshalerType)
}

// minWireSize returns the fewest bytes a value of t can occupy. Types with
// their own Unmarshaler report 0.
func minWireSize(t reflect.Type, w Width) int {
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return 0
	}
	switch t.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int64, reflect.Int, reflect.Uint64, reflect.Uint, reflect.Uintptr, reflect.Float64:
		return 8
	case reflect.String, reflect.Slice, reflect.Map:
		return int(w)
	case reflect.Pointer:
		return 1
	case reflect.Array:
		elem := minWireSize(t.Elem(), w)
		if elem > 0 && t.Len() > maxInt/elem {
			return maxInt
		}
		return t.Len() * elem
	case reflect.Struct:
		fields, err := fieldsOf(t)
		if err != nil {
			return 0
		}
		total := 0
		for _, i := range fields {
			total += minWireSize(t.Field(i).Type, w)
			if total < 0 {
				return maxInt
			}
		}
		return total
	}
	return 0
}

type mapEntry struct {
	key, value reflect.Value
}

// sortEntries orders map entries by key so equal maps encode identically.
// Keys of ordered kinds sort by value, anything else by its encoded bytes.
func (e *Encoder) sortEntries(entries []mapEntry) error {
	if len(entries) < 2 {
		return nil
	}
	switch entries[0].key.Kind() {
	case reflect.Bool:
		slices.SortFunc(entries, func(a, b mapEntry) int {
			return cmp.Compare(boolRank(a.key.Bool()), boolRank(b.key.Bool()))
		})
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		slices.SortFunc(entries, func(a, b mapEntry) int { return cmp.Compare(a.key.Int(), b.key.Int()) })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		slices.SortFunc(entries, func(a, b mapEntry) int { return cmp.Compare(a.key.Uint(), b.key.Uint()) })
	case reflect.Float32, reflect.Float64:
		slices.SortFunc(entries, func(a, b mapEntry) int { return cmp.Compare(a.key.Float(), b.key.Float()) })
	case reflect.String:
		slices.SortFunc(entries, func(a, b mapEntry) int { return cmp.Compare(a.key.String(), b.key.String()) })
	default:
		type encodedEntry struct {
			entry mapEntry
			raw   []byte
		}
		encoded := make([]encodedEntry, len(entries))
		for i, entry := range entries {
			sub := NewEncoder(e.width)
			if err := sub.encodeValue(entry.key); err != nil {
				return err
			}
			encoded[i] = encodedEntry{entry: entry, raw: sub.Bytes()}
		}
		slices.SortFunc(encoded, func(a, b encodedEntry) int { return bytes.Compare(a.raw, b.raw) })
		for i := range encoded {
			entries[i] = encoded[i].entry
		}
	}
	return nil
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
