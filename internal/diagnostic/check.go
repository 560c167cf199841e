package diagnostic

import (
	"fmt"
	"strings"

	"builder-generator/internal/naming"
	"builder-generator/internal/plan"
	"builder-generator/schema"
)

// Diagnostic codes produced by this package. Schema errors keep their
// schema.Code.
const (
	CodeLoadError       = "load_error"
	CodeNameCollision   = "name_collision"
	CodeRedundantRename = "redundant_rename"
	CodeCaseOnlyRename  = "case_only_rename"
	CodeChain           = "chain"
)

var schemaSuggestions = map[schema.Code][]string{
	schema.CodeEmptyRecord:           {"declare at least one field"},
	schema.CodeDuplicateExternalName: {"rename one of the fields"},
	schema.CodeDuplicateFieldName:    {"remove the repeated declaration"},
	schema.CodeInvalidName:           {"use a name that is a valid Go identifier once capitalized"},
	schema.CodeInvalidType:           {"write the type as it would appear in Go source"},
	schema.CodeDuplicateRecord:       {"give each record a distinct name"},
	schema.CodeRecursiveRecord:       {"hold the record through a pointer, slice or map"},
}

// FromError converts a load or schema error into error diagnostics. Every
// schema error found in a joined error becomes its own diagnostic; anything
// else is reported once under CodeLoadError.
func FromError(err error) Diagnostics {
	var d Diagnostics
	if err == nil {
		return d
	}

	leaves := schema.Errors(err)
	if len(leaves) == 0 {
		d.AddError(CodeLoadError, err.Error(), "", "")
		return d
	}

	for _, e := range leaves {
		msg := e.Unwrap().Error()
		if e.Detail != "" {
			msg += ": " + e.Detail
		}

		d.AddError(string(e.Code), msg, e.Record, e.Field, schemaSuggestions[e.Code]...)
	}

	return d
}

// Check inspects a valid schema set for problems that do not stop
// generation on their own, and for identifiers that would clash in the
// generated package.
func Check(set *schema.Set) Diagnostics {
	var d Diagnostics

	owners := map[string]string{}

	for _, rec := range set.Ordered() {
		for _, f := range rec.Fields() {
			checkRename(&d, rec.Name(), f)
		}

		p, err := plan.Synthesize(rec)
		if err != nil {
			d.Merge(FromError(err))
			continue
		}

		for _, ident := range declaredIdents(p) {
			if other, ok := owners[ident]; ok && other != rec.Name() {
				d.AddError(CodeNameCollision,
					fmt.Sprintf("generated identifier %s is also declared for record %s", ident, other),
					rec.Name(), "", "rename one of the records")

				continue
			}

			owners[ident] = rec.Name()
		}

		d.AddInfo(CodeChain, chainSummary(p), rec.Name(), "")
	}

	return d
}

// CheckEmitted reports records whose struct cannot be emitted because two
// declared names export to the same Go field name. It applies only when the
// record struct is generated alongside its builder.
func CheckEmitted(set *schema.Set) Diagnostics {
	var d Diagnostics

	for _, rec := range set.Ordered() {
		d.Merge(FromError(rec.ValidateEmitted()))
	}

	return d
}

func checkRename(d *Diagnostics, record string, f schema.FieldSpec) {
	switch {
	case !f.Renamed():
	case f.Rename == f.Name:
		d.AddWarning(CodeRedundantRename,
			fmt.Sprintf("rename %q equals the declared name", f.Rename),
			record, f.Name, "drop the rename")
	case naming.Setter(f.Rename) == naming.Setter(f.Name):
		d.AddWarning(CodeCaseOnlyRename,
			fmt.Sprintf("rename %q only changes case; the setter stays %s", f.Rename, naming.Setter(f.Name)),
			record, f.Name, "drop the rename or pick a different name")
	}
}

// declaredIdents lists the package-level identifiers generated for a plan,
// including the record type itself.
func declaredIdents(p *plan.BuilderPlan) []string {
	idents := []string{
		p.Record,
		p.Constructor,
		p.Slots,
		naming.StateStruct(p.Record),
		naming.FieldsVar(p.Record),
	}

	for _, st := range p.States {
		idents = append(idents, st.TypeName)
	}

	return idents
}

func chainSummary(p *plan.BuilderPlan) string {
	methods := make([]string, len(p.Setters))
	for i, s := range p.Setters {
		methods[i] = s.Method
	}

	return fmt.Sprintf("%s() -> %s -> %s.%s() (%s)",
		p.Constructor, strings.Join(methods, " -> "), p.Final().TypeName, p.Finalizer.Method, p.Finalizer.Policy)
}
