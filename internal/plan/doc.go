// Package plan synthesizes the linear state chain of a record builder.
//
// For a record with fields f0..f(n-1) the chain is:
//
//	State0 (Init) --With<f0>--> State1 --With<f1>--> ... --With<f(n-1)>--> Staten (Final)
//
// Only Staten carries the finalizer, Build. Each state has at most one
// outgoing setter, so no field can be set twice or out of order and the
// chain has n+1 states rather than one per subset of set fields.
//
// A BuilderPlan is consumed by two emitters: internal/gen renders it as Go
// source with one named type per state, and package dynamic drives it at
// runtime with an integer state tag, using Dispatch and CheckFinal to turn
// misuse into builderrt errors.
package plan
