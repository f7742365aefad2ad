package codegen

import (
	"go/token"
	"strings"
	"unicode"
)

var initialisms = map[string]bool{
	"API": true, "ASCII": true, "CPU": true, "DNS": true, "HTML": true, "HTTP": true,
	"ID": true, "IP": true, "JSON": true, "SQL": true, "TCP": true, "TLS": true,
	"UDP": true, "UI": true, "URI": true, "URL": true, "UTF8": true, "UUID": true,
	"XML": true,
}

// exportedName turns snake_case or lowerCamel into an exported Go name,
// upper-casing common initialisms: last_name -> LastName, user_id -> UserID.
func exportedName(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		if upper := strings.ToUpper(part); initialisms[upper] {
			b.WriteString(upper)
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	name := b.String()
	if name == "" || !unicode.IsLetter([]rune(name)[0]) {
		name = "X" + name
	}
	return name
}

func isGoIdent(s string) bool {
	return token.IsIdentifier(s) && s != "_"
}

var reservedFieldNames = map[string]bool{
	"MarshalByteVec":   true,
	"UnmarshalByteVec": true,
}
