package schema

import (
	"errors"
	"fmt"
	"go/ast"
	"strings"
)

// Set is an ordered collection of records generated into the same package.
type Set struct {
	records []*RecordSchema
	byName  map[string]int
	order   []int
}

// NewSet groups records. It fails when two records share a name or when a
// record contains itself by value, directly or through other records of the
// set.
func NewSet(records ...*RecordSchema) (*Set, error) {
	s := &Set{
		records: records,
		byName:  make(map[string]int, len(records)),
	}

	var errs []error

	for i, r := range records {
		if prev, ok := s.byName[r.Name()]; ok {
			errs = append(errs, recordError(CodeDuplicateRecord, r.Name(),
				fmt.Sprintf("records #%d and #%d share the name", prev, i)))

			continue
		}

		s.byName[r.Name()] = i
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	order, stuck, err := topoSort(len(records), s.valueDeps)
	if err != nil {
		return nil, err
	}

	if len(stuck) > 0 {
		names := make([]string, len(stuck))
		for i, idx := range stuck {
			names[i] = records[idx].Name()
		}

		return nil, recordError(CodeRecursiveRecord, names[0],
			"cycle through "+strings.Join(names, ", ")+"; use a pointer, slice or map to break it")
	}

	s.order = order

	return s, nil
}

// Records returns the records in input order.
func (s *Set) Records() []*RecordSchema {
	return s.records
}

// Ordered returns the records with every record after the records it embeds by value.
func (s *Set) Ordered() []*RecordSchema {
	res := make([]*RecordSchema, len(s.order))
	for i, idx := range s.order {
		res[i] = s.records[idx]
	}

	return res
}

// Lookup finds a record by name.
func (s *Set) Lookup(name string) (*RecordSchema, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}

	return s.records[i], true
}

// Len returns the number of records.
func (s *Set) Len() int {
	return len(s.records)
}

// valueDeps lists the records of the set that record i holds by value.
func (s *Set) valueDeps(i int) []int {
	var deps []int

	seen := map[int]bool{}

	for _, f := range s.records[i].fields {
		expr, err := f.Type.Parse()
		if err != nil {
			continue
		}

		collectValueRefs(expr, func(name string) {
			if j, ok := s.byName[name]; ok && !seen[j] {
				seen[j] = true
				deps = append(deps, j)
			}
		})
	}

	return deps
}

// collectValueRefs reports identifiers a type expression stores inline.
// Pointers, slices, maps, channels, funcs and interfaces are indirections
// and stop the walk.
func collectValueRefs(e ast.Expr, visit func(name string)) {
	switch x := e.(type) {
	case *ast.Ident:
		visit(x.Name)
	case *ast.ParenExpr:
		collectValueRefs(x.X, visit)
	case *ast.ArrayType:
		if x.Len != nil {
			collectValueRefs(x.Elt, visit)
		}
	case *ast.StructType:
		for _, fld := range x.Fields.List {
			collectValueRefs(fld.Type, visit)
		}
	case *ast.IndexExpr:
		collectValueRefs(x.X, visit)
	case *ast.IndexListExpr:
		collectValueRefs(x.X, visit)
	}
}
