// Package naming holds the identifier conventions of generated builders.
//
// The convention is fixed:
//   - Init state:         <Record>Builder, created by New<Record>Builder
//   - intermediate state: <Record>BuilderHas<Field>, named after the field
//     supplied last
//   - final state:        <Record>BuilderReady, the only state with Build
//   - setter:             With<Field>, where <Field> is the exported form of
//     the field's external name (its rename if present, else its declared name)
//
// Exported forms are built by splitting an identifier into words (snake_case,
// kebab-case and CamelCase are all understood), title-casing each word and
// keeping common initialisms upper-case.
package naming
