package dynamic

import (
	"fmt"
	"reflect"
	"slices"

	"builder-generator/builderrt"
	"builder-generator/internal/plan"
	"builder-generator/schema"
)

// Builder is a runtime builder for one record. It walks the same linear
// chain as a generated builder, but the state is an integer tag checked on
// every call instead of a distinct type.
//
// Every successful Set returns a new *Builder and consumes the receiver;
// further calls on a consumed builder fail with builderrt.ErrConsumed. A
// failed Set leaves the receiver usable.
type Builder struct {
	plan  *plan.BuilderPlan
	types []reflect.Type
	slots *slots
}

type slots struct {
	state  int
	values []any
	filled []bool
}

// New returns a builder in the Init state for the record described by s.
func New(s *schema.RecordSchema) (*Builder, error) {
	p, err := plan.Synthesize(s)
	if err != nil {
		return nil, fmt.Errorf("dynamic builder: %w", err)
	}

	return FromPlan(p), nil
}

// FromPlan returns a builder in the Init state driven by an existing plan.
func FromPlan(p *plan.BuilderPlan) *Builder {
	n := p.Len()

	types := make([]reflect.Type, n)
	for i, s := range p.Setters {
		types[i] = resolveType(s.Field.Type)
	}

	return &Builder{
		plan:  p,
		types: types,
		slots: &slots{values: make([]any, n), filled: make([]bool, n)},
	}
}

// Record returns the record name.
func (b *Builder) Record() string {
	return b.plan.Record
}

// State returns the current state tag, or -1 if the builder was consumed.
func (b *Builder) State() builderrt.State {
	if b.slots == nil {
		return -1
	}

	return builderrt.State(b.slots.state)
}

// Next returns the external name of the only field settable now, and false
// once the builder is final or consumed.
func (b *Builder) Next() (string, bool) {
	if b.slots == nil {
		return "", false
	}

	s, ok := b.plan.SetterFrom(b.slots.state)
	if !ok {
		return "", false
	}

	return s.ExternalName(), true
}

// Set supplies a field by setter name ("WithAge") or external name ("age").
func (b *Builder) Set(name string, v any) (*Builder, error) {
	if err := b.live(); err != nil {
		return nil, err
	}

	s, err := b.plan.Dispatch(b.slots.state, name)
	if err != nil {
		return nil, err
	}

	return b.store(s, v)
}

// SetAt supplies the field at position pos. It fails with OutOfOrder unless
// pos equals the current state.
func (b *Builder) SetAt(pos int, v any) (*Builder, error) {
	if err := b.live(); err != nil {
		return nil, err
	}

	if pos < 0 || pos >= b.plan.Len() {
		return nil, fmt.Errorf("%s: field position %d out of range [0, %d)", b.plan.Record, pos, b.plan.Len())
	}

	s := b.plan.Setters[pos]
	if s.From != b.slots.state {
		return nil, &builderrt.OutOfOrderError{
			Record:   b.plan.Record,
			Method:   s.Method,
			Expected: builderrt.State(s.From),
			Actual:   builderrt.State(b.slots.state),
		}
	}

	return b.store(s, v)
}

func (b *Builder) store(s plan.Setter, v any) (*Builder, error) {
	if rt := b.types[s.Field.Index]; !assignable(v, rt) {
		return nil, &builderrt.TypeMismatchError{
			Record: b.plan.Record,
			Field:  s.ExternalName(),
			Want:   rt.String(),
			Got:    typeName(v),
		}
	}

	st := b.slots
	b.slots = nil

	st.values[s.Field.Index] = v
	st.filled[s.Field.Index] = true
	st.state = s.To

	return &Builder{plan: b.plan, types: b.types, slots: st}, nil
}

// Build consumes a final builder and assembles the record. Under Strict every
// slot must be set; under Defaulting unset slots take their type's zero value.
func (b *Builder) Build() (*Record, error) {
	if err := b.live(); err != nil {
		return nil, err
	}

	if err := b.plan.CheckFinal(b.slots.state); err != nil {
		return nil, err
	}

	if err := b.plan.CheckFilled(b.slots.filled); err != nil {
		return nil, err
	}

	st := b.slots
	b.slots = nil

	values := make([]any, len(st.values))
	for i, v := range st.values {
		if st.filled[i] {
			values[i] = v
		} else {
			values[i] = zeroValue(b.types[i])
		}
	}

	return &Record{schema: b.plan.Schema, values: values}, nil
}

func (b *Builder) live() error {
	if b == nil {
		return builderrt.ErrConsumed
	}

	if b.slots == nil {
		return fmt.Errorf("%s: %w", b.plan.Record, builderrt.ErrConsumed)
	}

	return nil
}

// Snapshot is a detached copy of a builder's state, used to hand a
// construction in progress to another goroutine.
type Snapshot struct {
	Record string
	State  int
	Values []any
	Filled []bool
}

// Snapshot copies the builder's state without consuming it.
func (b *Builder) Snapshot() (Snapshot, error) {
	if err := b.live(); err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Record: b.plan.Record,
		State:  b.slots.state,
		Values: slices.Clone(b.slots.values),
		Filled: slices.Clone(b.slots.filled),
	}, nil
}

// Restore rebuilds a builder for s from a snapshot. The snapshot is taken as
// given: a final state with unset slots is accepted here and caught by Build.
func Restore(s *schema.RecordSchema, snap Snapshot) (*Builder, error) {
	b, err := New(s)
	if err != nil {
		return nil, err
	}

	n := b.plan.Len()

	switch {
	case snap.Record != b.plan.Record:
		return nil, fmt.Errorf("restore: snapshot of %s used for %s", snap.Record, b.plan.Record)
	case snap.State < 0 || snap.State > n:
		return nil, fmt.Errorf("restore %s: state %d out of range [0, %d]", snap.Record, snap.State, n)
	case len(snap.Values) != n || len(snap.Filled) != n:
		return nil, fmt.Errorf("restore %s: snapshot holds %d values and %d flags, want %d",
			snap.Record, len(snap.Values), len(snap.Filled), n)
	}

	b.slots.state = snap.State
	copy(b.slots.values, snap.Values)
	copy(b.slots.filled, snap.Filled)

	return b, nil
}
