// Package gen renders builder plans as Go source.
//
// Generation uses text/template followed by golang.org/x/tools/imports in
// format-only mode. Each record yields one file holding:
//   - a slots struct with one slot per field and a fill mask
//   - one named type per chain state, New<Record>Builder and the Init state
//   - one With<Field> method per state, returning the next state
//   - Build on <Record>BuilderReady only
//
// Strict builders import builderrt to report a Ready state that skipped the
// chain. Defaulting builders have no runtime dependency.
package gen
