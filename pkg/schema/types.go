package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the wire kind of a schema type.
type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindChar
	KindString
	KindBytes
	KindOption
	KindVec
	KindSet
	KindMap
	KindTuple
	KindArray
	KindStruct
)

var primitiveKinds = map[string]Kind{
	"bool":   KindBool,
	"u8":     KindU8,
	"u16":    KindU16,
	"u32":    KindU32,
	"u64":    KindU64,
	"usize":  KindU64,
	"i8":     KindI8,
	"i16":    KindI16,
	"i32":    KindI32,
	"i64":    KindI64,
	"isize":  KindI64,
	"f32":    KindF32,
	"f64":    KindF64,
	"char":   KindChar,
	"string": KindString,
	"bytes":  KindBytes,
}

var kindNames = map[Kind]string{
	KindBool: "bool", KindU8: "u8", KindU16: "u16", KindU32: "u32", KindU64: "u64",
	KindI8: "i8", KindI16: "i16", KindI32: "i32", KindI64: "i64",
	KindF32: "f32", KindF64: "f64", KindChar: "char", KindString: "string", KindBytes: "bytes",
	KindOption: "option", KindVec: "vec", KindSet: "set", KindMap: "map",
	KindTuple: "tuple", KindArray: "array", KindStruct: "struct",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Type is a parsed type expression.
type Type struct {
	Kind Kind
	// Elem is the payload of option, vec, set and array, and the value of map.
	Elem *Type
	// Key is the key of map.
	Key *Type
	// Elems are the tuple members in order.
	Elems []*Type
	// Len is the array length.
	Len int
	// Name and Struct identify a struct reference. Struct is set once the
	// type is resolved against a Schema.
	Name   string
	Struct *Struct
}

// IsPrimitive reports whether t is a fixed-width scalar.
func (t *Type) IsPrimitive() bool {
	return t.Kind <= KindChar
}

func (t *Type) String() string {
	switch t.Kind {
	case KindOption, KindVec, KindSet:
		return t.Kind.String() + "<" + t.Elem.String() + ">"
	case KindMap:
		return "map<" + t.Key.String() + ", " + t.Elem.String() + ">"
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "tuple<" + strings.Join(parts, ", ") + ">"
	case KindArray:
		return fmt.Sprintf("[%s; %d]", t.Elem, t.Len)
	case KindStruct:
		return t.Name
	}
	return t.Kind.String()
}

// ParseType parses a type expression such as "map<string, vec<u32>>".
// Struct references are left unresolved.
func ParseType(expr string) (*Type, error) {
	p := &parser{src: expr}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("schema: type %q at %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos], p.pos == start) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) number() (int, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, p.errorf("expected array length")
	}
	return strconv.Atoi(p.src[start:p.pos])
}

func (p *parser) parseType() (*Type, error) {
	if p.peek() == '[' {
		p.pos++
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		n, err := p.number()
		if err != nil {
			return nil, err
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		return &Type{Kind: KindArray, Elem: elem, Len: n}, nil
	}

	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected type name")
	}
	switch name {
	case "option", "vec", "set":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		kind := map[string]Kind{"option": KindOption, "vec": KindVec, "set": KindSet}[name]
		return &Type{Kind: kind, Elem: elem}, nil
	case "map":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		value, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return &Type{Kind: KindMap, Key: key, Elem: value}, nil
	case "tuple":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		t := &Type{Kind: KindTuple}
		for {
			elem, err := p.parseType()
			if err != nil {
				return nil, err
			}
			t.Elems = append(t.Elems, elem)
			if p.peek() != ',' {
				break
			}
			p.pos++
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return t, nil
	}
	if kind, ok := primitiveKinds[name]; ok {
		return &Type{Kind: kind}, nil
	}
	return &Type{Kind: KindStruct, Name: name}, nil
}
