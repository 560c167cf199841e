// Package builderrt is the runtime support imported by generated builders.
//
// Generated Go builders enforce field order statically: each state is its
// own type and exposes one setter, and only the final state has Build. What
// the type system cannot rule out is a final state built from its zero value,
// skipping the chain. Strict finalizers therefore re-check every slot and
// report the first unset one as a *MissingFieldError.
//
// Runtime builders, which track their state in an integer tag instead of a
// type, additionally report *OutOfOrderError, *UnknownFieldError and
// *TypeMismatchError. All errors wrap a package sentinel for errors.Is.
package builderrt
