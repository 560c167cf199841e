package analyze

import (
	"builder-generator/schema"
)

// PackageInfo holds the records found in one loaded package.
type PackageInfo struct {
	Path string // Import path
	Name string // Package name
	Dir  string // Directory holding the package sources, where builders are written
	// Records lists the annotated structs in source order.
	Records []*schema.RecordSchema
}

// Result is the output of loading a set of packages.
type Result struct {
	Packages []*PackageInfo
}

// Records returns the records of every package in load order.
func (r *Result) Records() []*schema.RecordSchema {
	var res []*schema.RecordSchema
	for _, p := range r.Packages {
		res = append(res, p.Records...)
	}

	return res
}

// Directive marks a struct type for builder generation when it appears on a
// line of its doc comment. "//builder:generate defaults" selects the
// defaulting policy.
const Directive = "//builder:generate"

// DirectiveDefaults is the directive argument selecting the defaulting policy.
const DirectiveDefaults = "defaults"

// TagKey is the struct tag key read for per-field options:
//
//	Kids []string `builder:"rename=descendents"`
//	Kids []string `builder:"descendents"`
//	cache map[string]int `builder:"-"`
const TagKey = "builder"
