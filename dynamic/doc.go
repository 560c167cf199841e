// Package dynamic builds records at runtime from a schema, without generated
// code.
//
// The chain is the one a generated builder has, and so are the rules: fields
// are supplied in declaration order, one setter per state, and Build is legal
// only in the final state. Since there is a single Builder type, those rules
// are checked on each call and violations come back as builderrt errors:
//
//	b, _ := dynamic.New(personSchema)
//	b, err := b.Set("age", uint32(30)) // *builderrt.OutOfOrderError: name comes first
//
// A Builder is single-owner. Each successful Set hands its storage to the
// returned builder and leaves the receiver consumed. Use Snapshot and Restore
// to move a construction in progress across goroutines.
package dynamic
