package gen

import (
	"fmt"
	"strconv"
	"strings"

	"builder-generator/internal/naming"
	"builder-generator/internal/plan"
	"builder-generator/schema"
)

// runtimePkg is the package name generated code uses for builderrt.
const runtimePkg = "builderrt"

// importSpec is one line of the generated import block.
type importSpec struct {
	Alias string
	Path  string
}

// templateData holds all data needed for the builder template.
type templateData struct {
	PackageName      string
	Filename         string
	Imports          []importSpec
	GenerateComments bool

	Record       string
	EmitRecord   bool
	RecordFields []recordField

	Builder     string
	Constructor string
	Slots       string
	StateStruct string
	SlotFields  []slotField
	Len         int
	Order       string

	States  []stateData
	Setters []setterData
	Final   stateData

	Strict      bool
	FieldsVar   string
	FieldNames  []string
	Assignments []assignmentData
}

// recordField is a field of an emitted record struct.
type recordField struct {
	Name string
	Type string
	Tag  string
}

// slotField is one slot of the storage struct shared by all states.
type slotField struct {
	Name string
	Type string
}

// stateData describes one state type. Each state wraps the shared storage in
// a field of its own name so that no two state types have identical
// underlying types; otherwise callers could convert Init into Final.
type stateData struct {
	TypeName string
	Field    string
	Doc      string
}

// setterData describes one transition method.
type setterData struct {
	Method   string
	Param    string
	Type     string
	Slot     string
	Index    int
	From     stateData
	To       stateData
	External string
	Declared string
	Renamed  bool
}

// assignmentData copies one slot into the record in Build.
type assignmentData struct {
	RecordField string
	Slot        string
}

// buildTemplateData constructs the template data from a synthesized plan.
func (g *Generator) buildTemplateData(p *plan.BuilderPlan) *templateData {
	strict := p.Finalizer.Policy == schema.Strict
	fields := p.Schema.Fields()

	data := &templateData{
		PackageName:      g.config.PackageName,
		Filename:         g.filename(p),
		Imports:          g.collectImports(p, strict),
		GenerateComments: g.config.GenerateComments,
		Record:           g.recordTypeName(p),
		EmitRecord:       g.config.EmitRecord,
		Builder:          p.Builder,
		Constructor:      p.Constructor,
		Slots:            p.Slots,
		StateStruct:      naming.StateStruct(p.Record),
		Len:              p.Len(),
		Strict:           strict,
		FieldsVar:        naming.FieldsVar(p.Record),
	}

	external := make([]string, len(p.Setters))
	for i, s := range p.Setters {
		external[i] = s.ExternalName()
	}

	data.Order = strings.Join(external, ", ")

	for i, st := range p.States {
		sd := stateData{
			TypeName: st.TypeName,
			Field:    "s" + strconv.Itoa(i),
			Doc:      g.stateDoc(p, st),
		}
		data.States = append(data.States, sd)
	}

	data.Final = data.States[len(data.States)-1]

	for i, s := range p.Setters {
		f := fields[i]

		data.SlotFields = append(data.SlotFields, slotField{Name: s.Param, Type: f.Type.Expr})
		data.FieldNames = append(data.FieldNames, strconv.Quote(s.ExternalName()))
		data.Setters = append(data.Setters, setterData{
			Method:   s.Method,
			Param:    s.Param,
			Type:     f.Type.Expr,
			Slot:     s.Param,
			Index:    i,
			From:     data.States[s.From],
			To:       data.States[s.To],
			External: s.ExternalName(),
			Declared: f.Name,
			Renamed:  f.Renamed(),
		})

		name := g.recordFieldName(f)
		data.Assignments = append(data.Assignments, assignmentData{RecordField: name, Slot: s.Param})

		if g.config.EmitRecord {
			rf := recordField{Name: name, Type: f.Type.Expr}
			if g.config.EmitJSONTags {
				rf.Tag = fmt.Sprintf("`json:%q`", s.ExternalName())
			}

			data.RecordFields = append(data.RecordFields, rf)
		}
	}

	return data
}

// recordTypeName returns the Go type Build returns. Emitted records get an
// exported name; records from Go source keep theirs.
func (g *Generator) recordTypeName(p *plan.BuilderPlan) string {
	if g.config.EmitRecord {
		return naming.Exported(p.Record)
	}

	return p.Record
}

// recordFieldName returns the Go field name a slot is copied into. Records
// loaded from Go source keep their declared names; emitted records export
// them.
func (g *Generator) recordFieldName(f schema.FieldSpec) string {
	if g.config.EmitRecord {
		return naming.Exported(f.Name)
	}

	return f.Name
}

func (g *Generator) stateDoc(p *plan.BuilderPlan, st plan.State) string {
	switch st.Kind {
	case plan.StateInit:
		return fmt.Sprintf("%s is the initial state of a %s builder.", st.TypeName, p.Record)
	case plan.StateFinal:
		return fmt.Sprintf("%s is the final state of a %s builder: every field has been supplied.", st.TypeName, p.Record)
	default:
		return fmt.Sprintf("%s is a %s builder whose fields up to %s are set.", st.TypeName, p.Record, st.Last.ExternalName())
	}
}

// filename generates the output filename for a record.
func (g *Generator) filename(p *plan.BuilderPlan) string {
	return naming.Snake(p.Record) + g.config.FileSuffix
}
