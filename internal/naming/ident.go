package naming

import (
	"go/token"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SetterPrefix is prepended to the exported external name of a field to form
// its setter method name.
const SetterPrefix = "With"

// initialisms are rendered fully upper-case, following Go naming conventions.
var initialisms = map[string]struct{}{
	"API": {}, "ASCII": {}, "CPU": {}, "CSS": {}, "DNS": {}, "EOF": {},
	"GUID": {}, "HTML": {}, "HTTP": {}, "HTTPS": {}, "ID": {}, "IP": {},
	"JSON": {}, "RPC": {}, "SQL": {}, "SSH": {}, "TCP": {}, "TLS": {},
	"TTL": {}, "UDP": {}, "UI": {}, "UID": {}, "URI": {}, "URL": {},
	"UTF8": {}, "UUID": {}, "VM": {}, "XML": {}, "YAML": {},
}

// Exported renders s as an exported Go identifier: "kids" -> "Kids",
// "order_id" -> "OrderID", "descendents" -> "Descendents".
func Exported(s string) string {
	tokens := Tokenize(s)
	if len(tokens) == 0 {
		return ""
	}

	// cases.Caser is stateful, so each call gets its own.
	title := cases.Title(language.Und)

	var sb strings.Builder

	for _, tok := range tokens {
		upper := strings.ToUpper(tok)
		if _, ok := initialisms[upper]; ok {
			sb.WriteString(upper)
			continue
		}

		sb.WriteString(title.String(tok))
	}

	return sb.String()
}

// Unexported renders s as an unexported Go identifier. Keywords and
// predeclared identifiers get a "Val" suffix so the result is always usable as
// a parameter or struct field name.
func Unexported(s string) string {
	tokens := Tokenize(s)
	if len(tokens) == 0 {
		return ""
	}

	exported := Exported(strings.Join(tokens[1:], "_"))
	res := strings.ToLower(tokens[0]) + exported

	if token.IsKeyword(res) || isPredeclared(res) {
		res += "Val"
	}

	return res
}

// Snake renders s in lower snake case, used for file names: "OrderItem" -> "order_item".
func Snake(s string) string {
	tokens := Tokenize(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return strings.Join(tokens, "_")
}

// IsIdentifier reports whether s is a valid, non-keyword Go identifier.
func IsIdentifier(s string) bool {
	return token.IsIdentifier(s)
}

// Setter returns the setter method name exposed for an external field name.
func Setter(externalName string) string {
	return SetterPrefix + Exported(externalName)
}

// Builder returns the Init state type name for a record.
func Builder(record string) string {
	return Exported(record) + "Builder"
}

// Constructor returns the constructor function name for a record's builder.
func Constructor(record string) string {
	return "New" + Builder(record)
}

// Intermediate returns the type name of the state reached right after the
// field with the given external name was supplied.
func Intermediate(record, externalName string) string {
	return Builder(record) + "Has" + Exported(externalName)
}

// Final returns the type name of the terminal state, the only one exposing Build.
func Final(record string) string {
	return Builder(record) + "Ready"
}

// Slots returns the unexported name of the struct holding collected values.
func Slots(record string) string {
	return Unexported(record) + "BuilderSlots"
}

// StateStruct returns the unexported name of the struct every state type wraps.
func StateStruct(record string) string {
	return Unexported(record) + "BuilderState"
}

// FieldsVar returns the unexported name of the table of external field names.
func FieldsVar(record string) string {
	return Unexported(record) + "BuilderFields"
}

var predeclared = map[string]struct{}{
	"any": {}, "append": {}, "bool": {}, "byte": {}, "cap": {}, "clear": {},
	"close": {}, "complex": {}, "complex64": {}, "complex128": {}, "copy": {},
	"delete": {}, "error": {}, "false": {}, "float32": {}, "float64": {},
	"imag": {}, "int": {}, "int8": {}, "int16": {}, "int32": {}, "int64": {},
	"iota": {}, "len": {}, "make": {}, "max": {}, "min": {}, "new": {},
	"nil": {}, "panic": {}, "print": {}, "println": {}, "real": {},
	"recover": {}, "rune": {}, "string": {}, "true": {}, "uint": {},
	"uint8": {}, "uint16": {}, "uint32": {}, "uint64": {}, "uintptr": {},
	"b": {}, // receiver name used by generated methods
}

func isPredeclared(s string) bool {
	_, ok := predeclared[s]
	return ok
}
