package schemafile

import (
	"errors"
	"fmt"

	"builder-generator/schema"
)

// File is a loaded schema document.
type File struct {
	// Path is the file the document was read from, empty for in-memory input.
	Path string
	// Package is the package name requested by the document, if any.
	Package string
	// Set holds the document's records.
	Set *schema.Set
}

// document is the shape shared by the YAML and JSON formats:
//
//	package: people
//	records:
//	  - name: Person
//	    defaults: false
//	    fields:
//	      - {name: name, type: string}
//	      - {name: kids, type: "[]string", rename: descendents}
type document struct {
	Package string      `yaml:"package" json:"package"`
	Records []recordDoc `yaml:"records" json:"records"`
}

type recordDoc struct {
	Name     string     `yaml:"name" json:"name"`
	Defaults bool       `yaml:"defaults" json:"defaults"`
	Fields   []fieldDoc `yaml:"fields" json:"fields"`
}

type fieldDoc struct {
	Name    string   `yaml:"name" json:"name"`
	Type    string   `yaml:"type" json:"type"`
	Rename  string   `yaml:"rename" json:"rename"`
	Imports []string `yaml:"imports" json:"imports"`
}

// build validates every record of the document and assembles the set.
// All schema errors are reported, joined.
func (d *document) build(path string) (*File, error) {
	records := make([]*schema.RecordSchema, 0, len(d.Records))

	var errs []error

	for i, rd := range d.Records {
		if rd.Name == "" {
			errs = append(errs, fmt.Errorf("record #%d: missing name", i))
			continue
		}

		fields := make([]schema.FieldInput, len(rd.Fields))
		for j, fd := range rd.Fields {
			fields[j] = schema.FieldInput{
				Name:   fd.Name,
				Type:   schema.Type(fd.Type, fd.Imports...),
				Rename: fd.Rename,
			}
		}

		rec, err := schema.New(rd.Name, fields, schema.WithDefaults(rd.Defaults))
		if err != nil {
			errs = append(errs, err)
			continue
		}

		records = append(records, rec)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no records defined")
	}

	set, err := schema.NewSet(records...)
	if err != nil {
		return nil, err
	}

	return &File{Path: path, Package: d.Package, Set: set}, nil
}
