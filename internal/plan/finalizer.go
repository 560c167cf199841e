package plan

import (
	"builder-generator/builderrt"
	"builder-generator/schema"
)

// BuildMethod is the name of the finalizer in every emitted builder.
const BuildMethod = "Build"

func finalizerFor(s *schema.RecordSchema) Finalizer {
	f := Finalizer{
		Method: BuildMethod,
		State:  s.Len(),
		Policy: s.Policy(),
	}

	if f.Policy == schema.Strict {
		f.Checked = make([]int, s.Len())
		for i := range f.Checked {
			f.Checked[i] = i
		}
	}

	return f
}

// CheckFinal reports whether Build may run in state current.
func (p *BuilderPlan) CheckFinal(current int) error {
	if current == p.Finalizer.State {
		return nil
	}

	return &builderrt.OutOfOrderError{
		Record:   p.Record,
		Method:   p.Finalizer.Method,
		Expected: builderrt.State(p.Finalizer.State),
		Actual:   builderrt.State(current),
	}
}

// CheckFilled applies the finalizer policy to a fill mask. Under Strict the
// first unset checked position yields a *builderrt.MissingFieldError; under
// Defaulting it always succeeds.
func (p *BuilderPlan) CheckFilled(filled []bool) error {
	for _, pos := range p.Finalizer.Checked {
		if pos < len(filled) && filled[pos] {
			continue
		}

		return builderrt.Missing(p.Record, pos, p.Setters[pos].ExternalName())
	}

	return nil
}
