package schema

import (
	"errors"
	"fmt"
	"slices"

	"builder-generator/internal/naming"
)

// FieldInput is one declared field as handed to New.
type FieldInput struct {
	Name   string
	Type   TypeRef
	Rename string
}

// FieldSpec is a field of a RecordSchema.
type FieldSpec struct {
	// Name is the declared field name.
	Name string
	// Type is the field's type.
	Type TypeRef
	// Rename optionally replaces Name in the generated API.
	Rename string
	// Index is the 0-based declaration position.
	Index int
}

// ExternalName resolves the name exposed by the generated API: the explicit
// rename if present, otherwise the declared name.
func (f FieldSpec) ExternalName() string {
	if f.Rename != "" {
		return f.Rename
	}

	return f.Name
}

// Renamed reports whether the field carries an explicit rename.
func (f FieldSpec) Renamed() bool {
	return f.Rename != ""
}

// RecordSchema is the ordered, immutable description of a record's fields.
// It always has at least one field and its external names are unique.
type RecordSchema struct {
	name       string
	policy     Policy
	fields     []FieldSpec
	byExternal map[string]int
}

// Option configures a RecordSchema at construction.
type Option func(*RecordSchema)

// WithPolicy sets the finalizer policy. The default is Strict.
func WithPolicy(p Policy) Option {
	return func(s *RecordSchema) {
		s.policy = p
	}
}

// WithDefaults applies the aggregate useDefaults flag.
func WithDefaults(useDefaults bool) Option {
	return WithPolicy(PolicyFor(useDefaults))
}

// New builds a RecordSchema for the named record. Position indices are
// assigned in declaration order. Every problem found is reported, joined
// into one error; no schema is returned on error.
func New(name string, fields []FieldInput, opts ...Option) (*RecordSchema, error) {
	s := &RecordSchema{
		name:       name,
		fields:     make([]FieldSpec, len(fields)),
		byExternal: make(map[string]int, len(fields)),
	}

	for _, opt := range opts {
		opt(s)
	}

	for i, in := range fields {
		s.fields[i] = FieldSpec{
			Name:   in.Name,
			Type:   in.Type,
			Rename: in.Rename,
			Index:  i,
		}
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	for _, f := range s.fields {
		s.byExternal[f.ExternalName()] = f.Index
	}

	return s, nil
}

// MustNew is like New but panics on error. Intended for tests and static tables.
func MustNew(name string, fields []FieldInput, opts ...Option) *RecordSchema {
	s, err := New(name, fields, opts...)
	if err != nil {
		panic(err)
	}

	return s
}

// validate checks the record invariants. Each field reports at most one
// problem, the first found.
func (s *RecordSchema) validate() error {
	if !naming.IsIdentifier(naming.Exported(s.name)) {
		return recordError(CodeInvalidName, s.name, fmt.Sprintf("record name %q is not usable as a Go identifier", s.name))
	}

	if len(s.fields) == 0 {
		return recordError(CodeEmptyRecord, s.name, "a builder needs at least one field to move from Init to Final")
	}

	var errs []error

	declared := make(map[string]FieldSpec, len(s.fields))
	external := make(map[string]FieldSpec, len(s.fields))
	setters := make(map[string]FieldSpec, len(s.fields))
	slots := make(map[string]FieldSpec, len(s.fields))

	for _, f := range s.fields {
		ext := f.ExternalName()
		slot := naming.Unexported(ext)

		switch {
		case !naming.IsIdentifier(naming.Exported(f.Name)):
			errs = append(errs, fieldError(CodeInvalidName, s.name, f,
				fmt.Sprintf("declared name %q is not usable as a Go identifier", f.Name)))

		case f.Renamed() && !naming.IsIdentifier(naming.Exported(f.Rename)):
			errs = append(errs, fieldError(CodeInvalidName, s.name, f,
				fmt.Sprintf("rename %q is not usable as a Go identifier", f.Rename)))

		case declared[f.Name].Name != "":
			errs = append(errs, fieldError(CodeDuplicateFieldName, s.name, f,
				fmt.Sprintf("also declared by field #%d", declared[f.Name].Index)))

		case external[ext].Name != "":
			errs = append(errs, fieldError(CodeDuplicateExternalName, s.name, f,
				fmt.Sprintf("%q is also the external name of field %q", ext, external[ext].Name)))

		case setters[naming.Setter(ext)].Name != "":
			other := setters[naming.Setter(ext)]
			errs = append(errs, fieldError(CodeDuplicateExternalName, s.name, f,
				fmt.Sprintf("%q and %q (field %q) both render setter %s",
					ext, other.ExternalName(), other.Name, naming.Setter(ext))))

		case slots[slot].Name != "":
			other := slots[slot]
			errs = append(errs, fieldError(CodeDuplicateExternalName, s.name, f,
				fmt.Sprintf("%q and %q (field %q) both render parameter %s",
					ext, other.ExternalName(), other.Name, slot)))

		default:
			if _, err := f.Type.Parse(); err != nil {
				errs = append(errs, fieldError(CodeInvalidType, s.name, f, err.Error()))
			}
		}

		if _, ok := declared[f.Name]; !ok {
			declared[f.Name] = f
		}

		if _, ok := external[ext]; !ok {
			external[ext] = f
		}

		if _, ok := setters[naming.Setter(ext)]; !ok {
			setters[naming.Setter(ext)] = f
		}

		if _, ok := slots[slot]; !ok {
			slots[slot] = f
		}
	}

	return errors.Join(errs...)
}

// ValidateEmitted checks what emitting the record struct itself needs on top
// of New: declared names must stay distinct once exported, since they become
// the struct's field names.
func (s *RecordSchema) ValidateEmitted() error {
	var errs []error

	seen := make(map[string]FieldSpec, len(s.fields))

	for _, f := range s.fields {
		name := naming.Exported(f.Name)

		if other, ok := seen[name]; ok {
			errs = append(errs, fieldError(CodeDuplicateFieldName, s.name, f,
				fmt.Sprintf("%q and %q both emit struct field %s", other.Name, f.Name, name)))

			continue
		}

		seen[name] = f
	}

	return errors.Join(errs...)
}

// Name returns the record name.
func (s *RecordSchema) Name() string { return s.name }

// Policy returns the finalizer policy.
func (s *RecordSchema) Policy() Policy { return s.policy }

// UseDefaults reports whether unset slots are filled with zero values.
func (s *RecordSchema) UseDefaults() bool { return s.policy == Defaulting }

// Len returns the number of fields.
func (s *RecordSchema) Len() int { return len(s.fields) }

// Field returns the field at position i. It panics if i is out of range.
func (s *RecordSchema) Field(i int) FieldSpec { return s.fields[i] }

// Fields returns a copy of the fields in declaration order.
func (s *RecordSchema) Fields() []FieldSpec { return slices.Clone(s.fields) }

// Lookup finds a field by its external name.
func (s *RecordSchema) Lookup(externalName string) (FieldSpec, bool) {
	i, ok := s.byExternal[externalName]
	if !ok {
		return FieldSpec{}, false
	}

	return s.fields[i], true
}

// ExternalNames returns the external names in declaration order.
func (s *RecordSchema) ExternalNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.ExternalName()
	}

	return names
}

// Imports returns the sorted, de-duplicated imports needed by all field types.
func (s *RecordSchema) Imports() []string {
	var res []string
	for _, f := range s.fields {
		res = append(res, f.Type.Imports...)
	}

	slices.Sort(res)

	return slices.Compact(res)
}
