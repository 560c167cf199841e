package schemafile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclFile represents the top-level structure of an HCL schema file:
//
//	package = "people"
//
//	record "Person" {
//	  defaults = false
//	  field "name" { type = string }
//	  field "age"  { type = number  go_type = "uint32" }
//	  field "kids" { type = list(string)  rename = "descendents" }
//	}
type hclFile struct {
	Package string       `hcl:"package,optional"`
	Records []*hclRecord `hcl:"record,block"`
}

type hclRecord struct {
	Name     string      `hcl:"name,label"`
	Defaults bool        `hcl:"defaults,optional"`
	Fields   []*hclField `hcl:"field,block"`
}

type hclField struct {
	Name string `hcl:"name,label"`
	// Type is an HCL type constraint; it is not evaluated as a value.
	Type    *hcl.Attribute `hcl:"type,optional"`
	GoType  string         `hcl:"go_type,optional"`
	Rename  string         `hcl:"rename,optional"`
	Imports []string       `hcl:"imports,optional"`
}

// ParseHCL parses an HCL schema document. filename is used in diagnostics.
func ParseHCL(data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()

	f, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	doc := document{Package: parsed.Package}

	for _, r := range parsed.Records {
		rd := recordDoc{Name: r.Name, Defaults: r.Defaults}

		for _, fld := range r.Fields {
			goType, diags := fieldGoType(fld)
			if diags.HasErrors() {
				return nil, fmt.Errorf("record %s: field %s: %w", r.Name, fld.Name, diags)
			}

			rd.Fields = append(rd.Fields, fieldDoc{
				Name:    fld.Name,
				Type:    goType,
				Rename:  fld.Rename,
				Imports: fld.Imports,
			})
		}

		doc.Records = append(doc.Records, rd)
	}

	return doc.build("")
}

// fieldGoType resolves the Go type of a field: go_type when set, otherwise
// the Go rendering of its HCL type constraint.
func fieldGoType(f *hclField) (string, hcl.Diagnostics) {
	if f.GoType != "" {
		return f.GoType, nil
	}

	if f.Type == nil {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing type",
			Detail:   fmt.Sprintf("Field %q needs a 'type' or a 'go_type' attribute.", f.Name),
		}}
	}

	ty, diags := typeexpr.TypeConstraint(f.Type.Expr)
	if diags.HasErrors() {
		return "", diags
	}

	expr, err := ctyGoType(ty)
	if err != nil {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported type",
			Detail:   err.Error() + "; use go_type to name a Go type directly.",
			Subject:  f.Type.Expr.Range().Ptr(),
		}}
	}

	return expr, nil
}

// ctyGoType renders a cty type as a Go type expression.
func ctyGoType(ty cty.Type) (string, error) {
	switch {
	case ty == cty.String:
		return "string", nil
	case ty == cty.Number:
		return "float64", nil
	case ty == cty.Bool:
		return "bool", nil
	case ty.IsListType() || ty.IsSetType():
		elem, err := ctyGoType(ty.ElementType())
		if err != nil {
			return "", err
		}

		return "[]" + elem, nil
	case ty.IsMapType():
		elem, err := ctyGoType(ty.ElementType())
		if err != nil {
			return "", err
		}

		return "map[string]" + elem, nil
	default:
		return "", fmt.Errorf("type %s has no Go equivalent", ty.FriendlyName())
	}
}
