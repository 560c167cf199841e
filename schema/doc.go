// Package schema is the input model of the builder generator.
//
// A RecordSchema is an ordered, immutable list of fields, each with a
// declared name, a Go type expression, an optional rename and its 0-based
// declaration position. The external name of a field, the one exposed by the
// generated setter, is its rename when present and its declared name
// otherwise.
//
// New enforces the record invariants: at least one field, unique declared
// names and unique external names (also after rendering them as setter
// identifiers, so "kids" and "Kids" collide). Violations are reported as
// *Error values that match the package sentinels with errors.Is:
//
//	_, err := schema.New("Person", nil)
//	errors.Is(err, schema.ErrEmptyRecord) // true
//
// Schemas are plain values passed to the planner; nothing in this package
// reads files or global state.
package schema
