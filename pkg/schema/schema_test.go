package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ssargent/bytevec/pkg/bytevec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeesSchema = `
package: employees
size_type: u16
structs:
  - name: Employee
    fields:
      - { name: id, type: u32 }
      - { name: profile, type: Profile }
      - { name: dept, type: string }
  - name: Profile
    fields:
      - { name: id, type: u32 }
      - { name: name, type: string }
      - { name: last_name, type: string }
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(employeesSchema))
	require.NoError(t, err)

	assert.Equal(t, "employees", s.Package)
	assert.Equal(t, bytevec.Width16, s.Width())
	require.Len(t, s.Structs, 2)

	emp, ok := s.Struct("Employee")
	require.True(t, ok)
	profile := emp.Fields[1].Type
	assert.Equal(t, KindStruct, profile.Kind)
	require.NotNil(t, profile.Struct)
	assert.Equal(t, "Profile", profile.Struct.Name)

	_, ok = s.Struct("Missing")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(employeesSchema), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Structs, 2)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestWidthDefaultsToU32(t *testing.T) {
	s, err := Parse([]byte("structs: []"))
	require.NoError(t, err)
	assert.Equal(t, bytevec.Width32, s.Width())
}

func TestParseType(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"u8", "u8"},
		{"usize", "u64"},
		{"isize", "i64"},
		{" string ", "string"},
		{"option<bool>", "option<bool>"},
		{"vec<vec<u32>>", "vec<vec<u32>>"},
		{"map<string,i32>", "map<string, i32>"},
		{"set< char >", "set<char>"},
		{"tuple<u8, string, f64>", "tuple<u8, string, f64>"},
		{"[i16; 4]", "[i16; 4]"},
		{"map<u32, [Point; 2]>", "map<u32, [Point; 2]>"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			typ, err := ParseType(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, typ.String())
		})
	}
}

func TestParseType_Errors(t *testing.T) {
	for _, expr := range []string{
		"",
		"vec<",
		"vec<u8",
		"map<u8>",
		"[u8]",
		"[u8; ]",
		"tuple<>",
		"u8 u8",
		"option<u8>>",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseType(expr)
			assert.Error(t, err)
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "bad size type",
			doc:  "size_type: u24\nstructs: []",
			want: "u24",
		},
		{
			name: "unknown struct",
			doc: `
structs:
  - name: A
    fields:
      - { name: b, type: B }`,
			want: `unknown type "B"`,
		},
		{
			name: "duplicate struct",
			doc: `
structs:
  - name: A
    fields: []
  - name: A
    fields: []`,
			want: `duplicate struct "A"`,
		},
		{
			name: "duplicate field",
			doc: `
structs:
  - name: A
    fields:
      - { name: x, type: u8 }
      - { name: x, type: u16 }`,
			want: `duplicate field "x"`,
		},
		{
			name: "reserved name",
			doc: `
structs:
  - name: vec
    fields: []`,
			want: "reserved",
		},
		{
			name: "direct self containment",
			doc: `
structs:
  - name: Node
    fields:
      - { name: pair, type: "tuple<u8, Node>" }`,
			want: "contains itself",
		},
		{
			name: "uncomparable map key",
			doc: `
structs:
  - name: A
    fields:
      - { name: m, type: "map<vec<u8>, u8>" }`,
			want: "not comparable",
		},
		{
			name: "uncomparable struct set member",
			doc: `
structs:
  - name: A
    fields:
      - { name: s, type: set<B> }
  - name: B
    fields:
      - { name: tags, type: vec<string> }`,
			want: "not comparable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolve_IndirectRecursionAllowed(t *testing.T) {
	_, err := Parse([]byte(`
structs:
  - name: Node
    fields:
      - { name: value, type: i64 }
      - { name: next, type: option<Node> }
      - { name: children, type: vec<Node> }
`))
	assert.NoError(t, err)
}
