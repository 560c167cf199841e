package plan

import (
	"fmt"

	"builder-generator/internal/naming"
	"builder-generator/schema"
)

// Synthesize builds the state chain of a record: n+1 states and n setters,
// strictly linear, followed by the finalizer on the last state.
func Synthesize(s *schema.RecordSchema) (*BuilderPlan, error) {
	if s == nil {
		return nil, fmt.Errorf("synthesize: nil schema")
	}

	if s.Len() == 0 {
		return nil, fmt.Errorf("synthesize %s: %w", s.Name(), schema.ErrEmptyRecord)
	}

	record := s.Name()
	p := &BuilderPlan{
		Schema:      s,
		Record:      record,
		Builder:     naming.Builder(record),
		Constructor: naming.Constructor(record),
		Slots:       naming.Slots(record),
	}

	p.States = chainStates(s)
	p.Setters = chainSetters(s)
	p.Finalizer = finalizerFor(s)

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", record, err)
	}

	return p, nil
}

// SynthesizeSet synthesizes every record of set in dependency order.
func SynthesizeSet(set *schema.Set) ([]*BuilderPlan, error) {
	records := set.Ordered()
	plans := make([]*BuilderPlan, 0, len(records))

	for _, r := range records {
		p, err := Synthesize(r)
		if err != nil {
			return nil, err
		}

		plans = append(plans, p)
	}

	return plans, nil
}

func chainStates(s *schema.RecordSchema) []State {
	n := s.Len()
	record := s.Name()
	states := make([]State, n+1)

	states[0] = State{Index: 0, Kind: StateInit, TypeName: naming.Builder(record)}

	for i := 1; i <= n; i++ {
		last := s.Field(i - 1)
		st := State{Index: i, Kind: StateIntermediate, Last: &last}

		if i == n {
			st.Kind = StateFinal
			st.TypeName = naming.Final(record)
		} else {
			st.TypeName = naming.Intermediate(record, last.ExternalName())
		}

		states[i] = st
	}

	return states
}

// Validate re-checks the chain invariants: n+1 states with Init first and
// Final last, exactly one setter leaving every non-final state, no field
// reachable twice, and Build attached to the final state only.
func (p *BuilderPlan) Validate() error {
	n := p.Schema.Len()

	if len(p.States) != n+1 {
		return fmt.Errorf("chain has %d states, want %d", len(p.States), n+1)
	}

	if len(p.Setters) != n {
		return fmt.Errorf("chain has %d setters, want %d", len(p.Setters), n)
	}

	typeNames := make(map[string]int, n+1)

	for i, st := range p.States {
		if st.Index != i {
			return fmt.Errorf("state %d carries index %d", i, st.Index)
		}

		want := StateIntermediate

		switch i {
		case 0:
			want = StateInit
		case n:
			want = StateFinal
		}

		if st.Kind != want {
			return fmt.Errorf("state %d is %s, want %s", i, st.Kind, want)
		}

		if prev, ok := typeNames[st.TypeName]; ok {
			return fmt.Errorf("states %d and %d share type name %s", prev, i, st.TypeName)
		}

		typeNames[st.TypeName] = i
	}

	methods := make(map[string]int, n)

	for i, set := range p.Setters {
		if set.From != i || set.To != i+1 {
			return fmt.Errorf("setter %s leads %d -> %d, want %d -> %d", set.Method, set.From, set.To, i, i+1)
		}

		if set.Field.Index != i {
			return fmt.Errorf("setter %s stores field #%d from state %d", set.Method, set.Field.Index, i)
		}

		if prev, ok := methods[set.Method]; ok {
			return fmt.Errorf("setters %d and %d share method name %s", prev, i, set.Method)
		}

		methods[set.Method] = i
	}

	if p.Finalizer.State != n {
		return fmt.Errorf("finalizer attached to state %d, want %d", p.Finalizer.State, n)
	}

	return nil
}

// Init returns the initial state.
func (p *BuilderPlan) Init() State { return p.States[0] }

// Final returns the terminal state.
func (p *BuilderPlan) Final() State { return p.States[len(p.States)-1] }

// Len returns the number of fields, which is also the index of the final state.
func (p *BuilderPlan) Len() int { return len(p.Setters) }
