// Package schema describes aggregates as ordered lists of named, typed fields
// and drives the bytevec codecs from that description at run time.
//
// A schema file is YAML:
//
//	package: employees
//	size_type: u32
//	structs:
//	  - name: Employee
//	    fields:
//	      - { name: id, type: u32 }
//	      - { name: profile, type: Profile }
//	      - { name: dept, type: string }
//	  - name: Profile
//	    fields:
//	      - { name: id, type: u32 }
//	      - { name: name, type: string }
//
// The same description feeds the codegen package, so values encoded through
// a schema and through generated code are byte-identical.
package schema

import (
	"fmt"
	"os"

	"github.com/ssargent/bytevec/pkg/bytevec"
	"gopkg.in/yaml.v3"
)

// Schema is a validated set of struct declarations.
type Schema struct {
	Package  string    `yaml:"package"`
	SizeType string    `yaml:"size_type,omitempty"`
	Structs  []*Struct `yaml:"structs"`

	byName map[string]*Struct
}

// Struct is an aggregate: fields encoded in declaration order, no framing.
type Struct struct {
	Name   string   `yaml:"name"`
	Fields []*Field `yaml:"fields"`
}

// Field is one named member of a Struct.
type Field struct {
	Name     string `yaml:"name"`
	TypeExpr string `yaml:"type"`
	Type     *Type  `yaml:"-"`
}

// Load reads and validates the schema file at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML schema document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := s.Resolve(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Resolve parses every field type, links struct references and validates the
// schema. Parse calls it; callers building a Schema in code must call it
// before use.
func (s *Schema) Resolve() error {
	if s.SizeType != "" {
		if _, err := bytevec.ParseWidth(s.SizeType); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}

	s.byName = make(map[string]*Struct, len(s.Structs))
	for _, st := range s.Structs {
		if !isIdent(st.Name) {
			return fmt.Errorf("schema: invalid struct name %q", st.Name)
		}
		if _, ok := primitiveKinds[st.Name]; ok || isTypeKeyword(st.Name) {
			return fmt.Errorf("schema: struct name %q is reserved", st.Name)
		}
		if _, dup := s.byName[st.Name]; dup {
			return fmt.Errorf("schema: duplicate struct %q", st.Name)
		}
		s.byName[st.Name] = st
	}

	for _, st := range s.Structs {
		seen := make(map[string]bool, len(st.Fields))
		for _, f := range st.Fields {
			if !isIdent(f.Name) {
				return fmt.Errorf("schema: %s: invalid field name %q", st.Name, f.Name)
			}
			if seen[f.Name] {
				return fmt.Errorf("schema: %s: duplicate field %q", st.Name, f.Name)
			}
			seen[f.Name] = true

			t, err := ParseType(f.TypeExpr)
			if err == nil {
				err = s.link(t)
			}
			if err != nil {
				return fmt.Errorf("schema: %s.%s: %w", st.Name, f.Name, err)
			}
			f.Type = t
		}
	}

	for _, st := range s.Structs {
		if err := s.checkContainment(st, map[string]bool{}); err != nil {
			return err
		}
	}
	for _, st := range s.Structs {
		for _, f := range st.Fields {
			if err := checkKeys(f.Type); err != nil {
				return fmt.Errorf("schema: %s.%s: %w", st.Name, f.Name, err)
			}
		}
	}
	return nil
}

// Struct returns the struct declared with name.
func (s *Schema) Struct(name string) (*Struct, bool) {
	st, ok := s.byName[name]
	return st, ok
}

// Width returns the schema's size type, defaulting to u32.
func (s *Schema) Width() bytevec.Width {
	if w, err := bytevec.ParseWidth(s.SizeType); err == nil {
		return w
	}
	return bytevec.Width32
}

// ResolveType parses expr and links its struct references to this schema.
func (s *Schema) ResolveType(expr string) (*Type, error) {
	t, err := ParseType(expr)
	if err != nil {
		return nil, err
	}
	if err := s.link(t); err != nil {
		return nil, err
	}
	if err := checkKeys(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Schema) link(t *Type) error {
	switch t.Kind {
	case KindStruct:
		st, ok := s.byName[t.Name]
		if !ok {
			return fmt.Errorf("unknown type %q", t.Name)
		}
		t.Struct = st
	case KindOption, KindVec, KindSet, KindArray:
		return s.link(t.Elem)
	case KindMap:
		if err := s.link(t.Key); err != nil {
			return err
		}
		return s.link(t.Elem)
	case KindTuple:
		for _, e := range t.Elems {
			if err := s.link(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkKeys rejects set elements and map keys that cannot be compared.
func checkKeys(t *Type) error {
	switch t.Kind {
	case KindSet:
		if !isComparable(t.Elem) {
			return fmt.Errorf("set element %s is not comparable", t.Elem)
		}
		return checkKeys(t.Elem)
	case KindMap:
		if !isComparable(t.Key) {
			return fmt.Errorf("map key %s is not comparable", t.Key)
		}
		if err := checkKeys(t.Key); err != nil {
			return err
		}
		return checkKeys(t.Elem)
	case KindOption, KindVec, KindArray:
		return checkKeys(t.Elem)
	case KindTuple:
		for _, e := range t.Elems {
			if err := checkKeys(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkContainment rejects structs that contain themselves without an
// option or collection in between; such values would be infinitely large.
func (s *Schema) checkContainment(st *Struct, path map[string]bool) error {
	if path[st.Name] {
		return fmt.Errorf("schema: struct %q contains itself without indirection", st.Name)
	}
	path[st.Name] = true
	defer delete(path, st.Name)
	for _, f := range st.Fields {
		for _, inner := range directStructs(f.Type) {
			if err := s.checkContainment(inner, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// directStructs lists the structs embedded in t by value.
func directStructs(t *Type) []*Struct {
	switch t.Kind {
	case KindStruct:
		return []*Struct{t.Struct}
	case KindArray:
		return directStructs(t.Elem)
	case KindTuple:
		var out []*Struct
		for _, e := range t.Elems {
			out = append(out, directStructs(e)...)
		}
		return out
	}
	return nil
}

// isComparable reports whether values of t can be set members or map keys.
func isComparable(t *Type) bool {
	switch t.Kind {
	case KindBytes, KindOption, KindVec, KindSet, KindMap:
		return false
	case KindArray:
		return isComparable(t.Elem)
	case KindTuple:
		for _, e := range t.Elems {
			if !isComparable(e) {
				return false
			}
		}
	case KindStruct:
		return structComparable(t.Struct, map[*Struct]bool{})
	}
	return true
}

func structComparable(st *Struct, visiting map[*Struct]bool) bool {
	if visiting[st] {
		return true
	}
	visiting[st] = true
	for _, f := range st.Fields {
		if f.Type == nil {
			continue
		}
		if f.Type.Kind == KindStruct {
			if !structComparable(f.Type.Struct, visiting) {
				return false
			}
			continue
		}
		if !isComparable(f.Type) {
			return false
		}
	}
	return true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i], i == 0) {
			return false
		}
	}
	return true
}

func isTypeKeyword(s string) bool {
	switch s {
	case "option", "vec", "set", "map", "tuple":
		return true
	}
	return false
}
