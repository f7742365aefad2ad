// Package codegen turns a schema into Go source: one struct per schema struct
// plus MarshalByteVec and UnmarshalByteVec methods that encode the fields in
// declaration order with no framing.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"github.com/ssargent/bytevec/pkg/schema"
)

// Options controls the generated file.
type Options struct {
	// Package overrides the schema's package name.
	Package string
	// Source names the schema file in the generated header.
	Source string
}

type fileData struct {
	Package string
	Source  string
	Structs []structData
}

type structData struct {
	Name     string
	Fields   []fieldData
	NeedsErr bool
}

type fieldData struct {
	Name   string
	Wire   string
	GoType string
	Encode string
	Decode string
}

// Generate renders s as gofmt'd Go source.
func Generate(s *schema.Schema, opts Options) ([]byte, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = s.Package
	}
	if !isGoIdent(pkg) {
		return nil, fmt.Errorf("codegen: invalid package name %q", pkg)
	}

	data := fileData{Package: pkg, Source: opts.Source}
	seenTypes := make(map[string]string, len(s.Structs))
	for _, st := range s.Structs {
		sd, err := structOf(st)
		if err != nil {
			return nil, err
		}
		if other, dup := seenTypes[sd.Name]; dup {
			return nil, fmt.Errorf("codegen: structs %q and %q both map to Go type %s", other, st.Name, sd.Name)
		}
		seenTypes[sd.Name] = st.Name
		data.Structs = append(data.Structs, sd)
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("codegen: failed to execute template: %w", err)
	}
	pretty, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: generated invalid Go code: %w", err)
	}
	return pretty, nil
}

func structOf(st *schema.Struct) (structData, error) {
	sd := structData{Name: exportedName(st.Name)}
	seen := make(map[string]string, len(st.Fields))
	for _, f := range st.Fields {
		if f.Type == nil {
			return sd, fmt.Errorf("codegen: %s.%s: schema is not resolved", st.Name, f.Name)
		}
		name := exportedName(f.Name)
		if reservedFieldNames[name] {
			return sd, fmt.Errorf("codegen: %s.%s: %s is a generated method name", st.Name, f.Name, name)
		}
		if other, dup := seen[name]; dup {
			return sd, fmt.Errorf("codegen: %s: fields %q and %q both map to %s", st.Name, other, f.Name, name)
		}
		seen[name] = f.Name

		fd := fieldData{Name: name, Wire: f.Name, GoType: goType(f.Type)}
		fd.Encode, fd.Decode = fieldCalls(f.Type, name)
		if needsErr(f.Type) {
			sd.NeedsErr = true
		}
		sd.Fields = append(sd.Fields, fd)
	}
	return sd, nil
}

var scalarCalls = map[schema.Kind]string{
	schema.KindBool:   "Bool",
	schema.KindU8:     "Uint8",
	schema.KindU16:    "Uint16",
	schema.KindU32:    "Uint32",
	schema.KindU64:    "Uint64",
	schema.KindI8:     "Int8",
	schema.KindI16:    "Int16",
	schema.KindI32:    "Int32",
	schema.KindI64:    "Int64",
	schema.KindF32:    "Float32",
	schema.KindF64:    "Float64",
	schema.KindChar:   "Char",
	schema.KindString: "String",
	schema.KindBytes:  "Bytes",
}

// fieldCalls returns the statements that encode and decode field v.<name>.
func fieldCalls(t *schema.Type, name string) (string, string) {
	field := "v." + name
	if call, ok := scalarCalls[t.Kind]; ok {
		decode := fmt.Sprintf("if %s, err = d.%s(); err != nil {\nreturn err\n}", field, call)
		switch t.Kind {
		case schema.KindString, schema.KindBytes:
			return fmt.Sprintf("if err := e.Put%s(%s); err != nil {\nreturn err\n}", call, field), decode
		}
		return fmt.Sprintf("e.Put%s(%s)", call, field), decode
	}
	if t.Kind == schema.KindStruct {
		return fmt.Sprintf("if err := %s.MarshalByteVec(e); err != nil {\nreturn err\n}", field),
			fmt.Sprintf("if err := %s.UnmarshalByteVec(d); err != nil {\nreturn err\n}", field)
	}
	return fmt.Sprintf("if err := bytevec.Write(e, %s); err != nil {\nreturn err\n}", field),
		fmt.Sprintf("if err := bytevec.Read(d, &%s); err != nil {\nreturn err\n}", field)
}

func needsErr(t *schema.Type) bool {
	_, ok := scalarCalls[t.Kind]
	return ok
}

// goType maps a schema type to the Go type whose reflection encoding is
// byte-identical.
func goType(t *schema.Type) string {
	switch t.Kind {
	case schema.KindBool:
		return "bool"
	case schema.KindU8:
		return "uint8"
	case schema.KindU16:
		return "uint16"
	case schema.KindU32:
		return "uint32"
	case schema.KindU64:
		return "uint64"
	case schema.KindI8:
		return "int8"
	case schema.KindI16:
		return "int16"
	case schema.KindI32:
		return "int32"
	case schema.KindI64:
		return "int64"
	case schema.KindF32:
		return "float32"
	case schema.KindF64:
		return "float64"
	case schema.KindChar:
		return "bytevec.Char"
	case schema.KindString:
		return "string"
	case schema.KindBytes:
		return "[]byte"
	case schema.KindOption:
		return "*" + goType(t.Elem)
	case schema.KindVec:
		return "[]" + goType(t.Elem)
	case schema.KindSet:
		return "map[" + goType(t.Elem) + "]struct{}"
	case schema.KindMap:
		return "map[" + goType(t.Key) + "]" + goType(t.Elem)
	case schema.KindArray:
		return fmt.Sprintf("[%d]%s", t.Len, goType(t.Elem))
	case schema.KindTuple:
		var buf bytes.Buffer
		buf.WriteString("struct {")
		for i, e := range t.Elems {
			if i > 0 {
				buf.WriteString(";")
			}
			fmt.Fprintf(&buf, " F%d %s", i, goType(e))
		}
		buf.WriteString(" }")
		return buf.String()
	case schema.KindStruct:
		return exportedName(t.Name)
	}
	return "any"
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by bytevec gen{{if .Source}} from {{.Source}}{{end}}. DO NOT EDIT.

package {{.Package}}

import "github.com/ssargent/bytevec/pkg/bytevec"
{{range .Structs}}
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.GoType}} // {{.Wire}}
{{- end}}
}

var (
	_ bytevec.Marshaler   = {{.Name}}{}
	_ bytevec.Unmarshaler = (*{{.Name}})(nil)
)

// MarshalByteVec encodes v field by field.
func (v {{.Name}}) MarshalByteVec(e *bytevec.Encoder) error {
{{- range .Fields}}
	{{.Encode}}
{{- end}}
	return nil
}

// UnmarshalByteVec decodes v field by field.
func (v *{{.Name}}) UnmarshalByteVec(d *bytevec.Decoder) error {
{{- if .NeedsErr}}
	var err error
{{- end}}
{{- range .Fields}}
	{{.Decode}}
{{- end}}
	return nil
}
{{end}}`))
