// Package diagnostic provides structured errors, warnings and notes about
// record schemas for the builder generator.
//
// Key capabilities:
//   - Schema errors converted to diagnostics with stable codes
//   - Warnings for renames that change nothing or only change case
//   - A per-record summary of the chain that will be generated
package diagnostic
