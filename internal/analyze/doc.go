// Package analyze is the Go-source input adapter.
//
// It loads packages with golang.org/x/tools/go/packages and turns every
// struct whose doc comment carries the builder directive into a record
// schema. Field types are rendered with go/types as seen from the struct's
// own package, so the generated builder can live next to it.
//
//	//builder:generate
//	type Person struct {
//		Name string
//		Age  uint32
//		Kids []string `builder:"rename=descendents"`
//	}
package analyze
