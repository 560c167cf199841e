package dynamic

import (
	"fmt"
	"slices"

	"github.com/mitchellh/mapstructure"

	"builder-generator/internal/naming"
	"builder-generator/schema"
)

// Record is a fully assembled record produced by Builder.Build.
type Record struct {
	schema *schema.RecordSchema
	values []any
}

// Name returns the record name.
func (r *Record) Name() string {
	return r.schema.Name()
}

// Get returns the value of the field with the given external name.
func (r *Record) Get(name string) (any, bool) {
	f, ok := r.schema.Lookup(name)
	if !ok {
		return nil, false
	}

	return r.values[f.Index], true
}

// Values returns the field values in declaration order.
func (r *Record) Values() []any {
	return slices.Clone(r.values)
}

// Map returns the field values keyed by external name.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for _, f := range r.schema.Fields() {
		m[f.ExternalName()] = r.values[f.Index]
	}

	return m
}

// Decode copies the record into target, a pointer to a struct whose fields
// correspond to the declared field names. Names are matched after
// normalization, so "order_id" fills OrderID. Fields of the record without a
// counterpart in target are an error.
func (r *Record) Decode(target any) error {
	input := make(map[string]any, len(r.values))
	for _, f := range r.schema.Fields() {
		input[f.Name] = r.values[f.Index]
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      target,
		ErrorUnused: true,
		MatchName: func(mapKey, fieldName string) bool {
			return naming.Normalize(mapKey) == naming.Normalize(fieldName)
		},
	})
	if err != nil {
		return fmt.Errorf("decode %s: %w", r.schema.Name(), err)
	}

	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("decode %s: %w", r.schema.Name(), err)
	}

	return nil
}
