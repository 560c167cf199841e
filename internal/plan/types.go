package plan

import (
	"builder-generator/schema"
)

// BuilderPlan is the final output of synthesis for one record.
// It contains everything needed to emit a builder, statically or at runtime.
type BuilderPlan struct {
	// Schema is the record the plan was synthesized from.
	Schema *schema.RecordSchema
	// Record is the record type name as it appears in generated code.
	Record string
	// Builder is the Init state type name, <Record>Builder.
	Builder string
	// Constructor is the constructor function name, New<Record>Builder.
	Constructor string
	// Slots is the unexported name of the slot storage struct.
	Slots string
	// States holds n+1 states; States[0] is Init and States[n] is Final.
	States []State
	// Setters holds n transitions; Setters[i] leads from States[i] to States[i+1].
	Setters []Setter
	// Finalizer is the completion operation, legal only in States[n].
	Finalizer Finalizer
}

// StateKind classifies a state by its position in the chain.
type StateKind int

const (
	// StateInit is the state a new builder starts in. No field is set.
	StateInit StateKind = iota
	// StateIntermediate is any state strictly between Init and Final.
	StateIntermediate
	// StateFinal is reached after the last setter; it is the only state with Build.
	StateFinal
)

func (k StateKind) String() string {
	switch k {
	case StateInit:
		return "init"
	case StateIntermediate:
		return "intermediate"
	case StateFinal:
		return "final"
	default:
		return "unknown"
	}
}

// State is one builder state. A builder in State i has fields 0..i-1 set.
type State struct {
	Index int
	Kind  StateKind
	// TypeName is the Go type emitted for this state.
	TypeName string
	// Last is the field supplied on the transition into this state; nil for Init.
	Last *schema.FieldSpec
}

// Setter is the transition State_From --Method--> State_To storing Field.
type Setter struct {
	Field schema.FieldSpec
	// Method is the setter name, With<Exported(ExternalName)>.
	Method string
	// Param is the parameter name used in generated code.
	Param string
	From  int
	To    int
}

// ExternalName is the name the setter is exposed under.
func (s Setter) ExternalName() string {
	return s.Field.ExternalName()
}

// Finalizer describes Build on the final state.
type Finalizer struct {
	Method string
	State  int
	Policy schema.Policy
	// Checked lists the positions Build re-checks before assembling the
	// record: every position under Strict, none under Defaulting.
	Checked []int
}
