package plan

import (
	"builder-generator/builderrt"
	"builder-generator/internal/naming"
	"builder-generator/schema"
)

func chainSetters(s *schema.RecordSchema) []Setter {
	fields := s.Fields()
	setters := make([]Setter, len(fields))

	for i, f := range fields {
		setters[i] = Setter{
			Field:  f,
			Method: naming.Setter(f.ExternalName()),
			Param:  naming.Unexported(f.ExternalName()),
			From:   i,
			To:     i + 1,
		}
	}

	return setters
}

// SetterFrom returns the only setter legal in state. The final state has none.
func (p *BuilderPlan) SetterFrom(state int) (Setter, bool) {
	if state < 0 || state >= len(p.Setters) {
		return Setter{}, false
	}

	return p.Setters[state], true
}

// SetterByName finds a setter by method name ("WithAge") or by external
// field name ("age"), regardless of state. Declared names of renamed fields
// do not match.
func (p *BuilderPlan) SetterByName(name string) (Setter, bool) {
	for _, s := range p.Setters {
		if s.Method == name || s.ExternalName() == name {
			return s, true
		}
	}

	return Setter{}, false
}

// Dispatch resolves the setter called name for a builder in state current.
// It fails with *builderrt.UnknownFieldError when no setter has that name and
// with *builderrt.OutOfOrderError when the setter is not the one legal in
// current.
func (p *BuilderPlan) Dispatch(current int, name string) (Setter, error) {
	s, ok := p.SetterByName(name)
	if !ok {
		return Setter{}, &builderrt.UnknownFieldError{
			Record:     p.Record,
			Name:       name,
			Suggestion: naming.Suggest(name, p.Schema.ExternalNames()),
		}
	}

	if s.From != current {
		return Setter{}, &builderrt.OutOfOrderError{
			Record:   p.Record,
			Method:   s.Method,
			Expected: builderrt.State(s.From),
			Actual:   builderrt.State(current),
		}
	}

	return s, nil
}
