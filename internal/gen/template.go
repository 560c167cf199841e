package gen

import "text/template"

var builderTemplate = template.Must(template.New("builder").Parse(`// Code generated by builder-generator. DO NOT EDIT.

package {{.PackageName}}
{{if eq (len .Imports) 1}}
import {{with index .Imports 0}}{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"{{end}}
{{else if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{if .EmitRecord}}
{{if .GenerateComments}}// {{.Record}} is the record assembled by {{.Builder}}.
{{end}}type {{.Record}} struct {
{{range .RecordFields}}	{{.Name}} {{.Type}}{{if .Tag}} {{.Tag}}{{end}}
{{end}}}
{{end}}
{{if .GenerateComments}}// {{.Slots}} holds the values collected by a {{.Record}} builder.
{{end}}type {{.Slots}} struct {
{{range .SlotFields}}	{{.Name}} {{.Type}}
{{end}}}

{{if .GenerateComments}}// {{.StateStruct}} is the storage every {{.Record}} builder state carries.
{{end}}type {{.StateStruct}} struct {
	slots  {{.Slots}}
	filled [{{.Len}}]bool
}
{{range $i, $s := .States}}
{{if $.GenerateComments}}// {{$s.Doc}}{{if eq $i 0}}
//
// Fields are supplied one at a time, in declaration order: {{$.Order}}.
// Each setter returns the next state and only {{$.Final.TypeName}} has
// Build, so calling Build before every field is set does not compile.
// The zero value is ready to use.{{end}}
{{end}}type {{$s.TypeName}} struct {
	{{$s.Field}} {{$.StateStruct}}
}
{{end}}
{{if .GenerateComments}}// {{.Constructor}} starts building a {{.Record}}.
{{end}}func {{.Constructor}}() {{.Builder}} {
	return {{.Builder}}{}
}
{{range .Setters}}
{{if $.GenerateComments}}// {{.Method}} sets {{.External}}{{if .Renamed}} (field {{.Declared}}){{end}} and moves to {{.To.TypeName}}.
{{end}}func (b {{.From.TypeName}}) {{.Method}}({{.Param}} {{.Type}}) {{.To.TypeName}} {
	b.{{.From.Field}}.slots.{{.Slot}} = {{.Param}}
	b.{{.From.Field}}.filled[{{.Index}}] = true

	return {{.To.TypeName}}{ {{.To.Field}}: b.{{.From.Field}} }
}
{{end}}
{{if .Strict}}{{if .GenerateComments}}// Build returns the assembled {{.Record}}. It fails with a
// *builderrt.MissingFieldError only for a {{.Final.TypeName}} that was not
// reached through the setters, such as its zero value.
{{end}}func (b {{.Final.TypeName}}) Build() ({{.Record}}, error) {
	if pos := builderrt.FirstUnset(b.{{.Final.Field}}.filled[:]); pos >= 0 {
		return {{.Record}}{}, builderrt.Missing("{{.Record}}", pos, {{.FieldsVar}}[pos])
	}

	return {{.Record}}{
{{range .Assignments}}		{{.RecordField}}: b.{{$.Final.Field}}.slots.{{.Slot}},
{{end}}	}, nil
}

var {{.FieldsVar}} = [{{.Len}}]string{ {{range $i, $n := .FieldNames}}{{if $i}}, {{end}}{{$n}}{{end}} }
{{else}}{{if .GenerateComments}}// Build returns the assembled {{.Record}}. Fields that were never supplied
// keep their zero value.
{{end}}func (b {{.Final.TypeName}}) Build() ({{.Record}}, error) {
	return {{.Record}}{
{{range .Assignments}}		{{.RecordField}}: b.{{$.Final.Field}}.slots.{{.Slot}},
{{end}}	}, nil
}
{{end}}`))
