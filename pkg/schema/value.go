package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Record is a decoded aggregate. Its fields keep declaration order when
// marshaled to YAML or JSON.
type Record struct {
	Name   string
	Fields []RecordField
}

// RecordField is one decoded field of a Record.
type RecordField struct {
	Name  string
	Value any
}

// Get returns the value of the named field.
func (r *Record) Get(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (r *Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r.Fields {
		var value yaml.Node
		if err := value.Encode(f.Value); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
			&value)
	}
	return node, nil
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MapEntry is one pair of a decoded map whose keys are not strings.
type MapEntry struct {
	Key   any `yaml:"key" json:"key"`
	Value any `yaml:"value" json:"value"`
}

// Plain converts Records and MapEntry lists into plain maps and slices, for
// encoders that know nothing of Record.
func Plain(v any) any {
	switch x := v.(type) {
	case *Record:
		out := make(map[string]any, len(x.Fields))
		for _, f := range x.Fields {
			out[f.Name] = Plain(f.Value)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Plain(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Plain(e)
		}
		return out
	case []MapEntry:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = map[string]any{"key": Plain(e.Key), "value": Plain(e.Value)}
		}
		return out
	}
	return v
}

// ValueError reports a value that does not fit its schema type. It is raised
// before any wire encoding of that value.
type ValueError struct {
	Path   string
	Reason string
}

func (e *ValueError) Error() string {
	if e.Path == "" {
		return "schema: value: " + e.Reason
	}
	return fmt.Sprintf("schema: value at %s: %s", e.Path, e.Reason)
}

func valueErrorf(path, format string, args ...any) error {
	return &ValueError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func asInt(path string, v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) <= math.MaxInt64 {
			return int64(x), nil
		}
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x), nil
		}
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
			return int64(x), nil
		}
	case json.Number:
		if n, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return n, nil
		}
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, valueErrorf(path, "%v (%T) is not a signed integer", v, v)
}

func asUint(path string, v any) (uint64, error) {
	switch x := v.(type) {
	case uint:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case uint64:
		return x, nil
	case int, int8, int16, int32, int64:
		n, _ := asInt(path, x)
		if n >= 0 {
			return uint64(n), nil
		}
	case float64:
		if x == math.Trunc(x) && x >= 0 && x < math.MaxUint64 {
			return uint64(x), nil
		}
	case json.Number:
		if n, err := strconv.ParseUint(string(x), 10, 64); err == nil {
			return n, nil
		}
	case string:
		if n, err := strconv.ParseUint(x, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, valueErrorf(path, "%v (%T) is not an unsigned integer", v, v)
}

func asFloat(path string, v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f, nil
		}
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return f, nil
		}
	default:
		if n, err := asInt(path, v); err == nil {
			return float64(n), nil
		}
		if n, err := asUint(path, v); err == nil {
			return float64(n), nil
		}
	}
	return 0, valueErrorf(path, "%v (%T) is not a number", v, v)
}

func asBool(path string, v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		if b, err := strconv.ParseBool(x); err == nil {
			return b, nil
		}
	}
	return false, valueErrorf(path, "%v (%T) is not a bool", v, v)
}

// asChar accepts a one-rune string or an integer code point.
func asChar(path string, v any) (rune, error) {
	if s, ok := v.(string); ok {
		r, size := utf8.DecodeRuneInString(s)
		if size == len(s) && size > 0 && (r != utf8.RuneError || size > 1) {
			return r, nil
		}
		return 0, valueErrorf(path, "%q is not a single character", s)
	}
	n, err := asUint(path, v)
	if err != nil || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
		return 0, valueErrorf(path, "%v is not a Unicode scalar value", v)
	}
	return rune(n), nil
}

func asBytes(path string, v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	case []any:
		out := make([]byte, len(x))
		for i, e := range x {
			n, err := asUint(fmt.Sprintf("%s[%d]", path, i), e)
			if err != nil {
				return nil, err
			}
			if n > math.MaxUint8 {
				return nil, valueErrorf(fmt.Sprintf("%s[%d]", path, i), "%d overflows u8", n)
			}
			out[i] = byte(n)
		}
		return out, nil
	}
	return nil, valueErrorf(path, "%v (%T) is not bytes", v, v)
}

func asList(path string, v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case nil:
		return nil, nil
	}
	return nil, valueErrorf(path, "%v (%T) is not a list", v, v)
}

// keyFromString converts a YAML or JSON object key to a value of key type t.
func keyFromString(path string, t *Type, key string) (any, error) {
	switch {
	case t.Kind == KindString:
		return key, nil
	case t.Kind == KindBool:
		return asBool(path, key)
	case t.Kind == KindChar:
		return key, nil
	case t.Kind >= KindU8 && t.Kind <= KindU64:
		return asUint(path, key)
	case t.Kind >= KindI8 && t.Kind <= KindI64:
		return asInt(path, key)
	case t.Kind == KindF32 || t.Kind == KindF64:
		return asFloat(path, key)
	}
	return nil, valueErrorf(path, "map keys of type %s must be given as a list of key/value entries", t)
}
