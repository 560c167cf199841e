package schema

import (
	"fmt"
	"go/ast"
	"go/parser"
	"reflect"
	"slices"
	"strconv"
)

// TypeRef references a field type as a Go type expression, written the way it
// appears inside the generated package (e.g. "string", "[]string",
// "time.Time", "map[string]Address").
type TypeRef struct {
	// Expr is the Go type expression.
	Expr string
	// Imports lists the import paths Expr needs, sorted and de-duplicated.
	Imports []string

	rtype reflect.Type
}

// Type returns a TypeRef for a type expression and the imports it needs.
func Type(expr string, imports ...string) TypeRef {
	imps := slices.Clone(imports)
	slices.Sort(imps)

	return TypeRef{Expr: expr, Imports: slices.Compact(imps)}
}

// TypeOf returns a TypeRef for T. The reflect type is kept so runtime
// builders can compute zero values and check assignability.
func TypeOf[T any]() TypeRef {
	return FromReflect(reflect.TypeFor[T]())
}

// FromReflect returns a TypeRef describing t.
func FromReflect(t reflect.Type) TypeRef {
	var imports []string

	expr := reflectExpr(t, &imports)
	ref := Type(expr, imports...)
	ref.rtype = t

	return ref
}

// Reflect returns the reflect type behind the reference, or nil if the
// reference was built from a bare expression.
func (t TypeRef) Reflect() reflect.Type {
	return t.rtype
}

// IsZero reports whether the reference is unset.
func (t TypeRef) IsZero() bool {
	return t.Expr == ""
}

// String returns the type expression.
func (t TypeRef) String() string {
	return t.Expr
}

// Parse parses the type expression.
func (t TypeRef) Parse() (ast.Expr, error) {
	if t.Expr == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	expr, err := parser.ParseExpr(t.Expr)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", t.Expr, err)
	}

	if !isTypeExpr(expr) {
		return nil, fmt.Errorf("%q is not a type expression", t.Expr)
	}

	return expr, nil
}

// isTypeExpr rejects parsable expressions that can never denote a type,
// such as literals and calls.
func isTypeExpr(e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.Ident, *ast.ArrayType, *ast.MapType, *ast.ChanType,
		*ast.FuncType, *ast.InterfaceType, *ast.StructType:
		return true
	case *ast.StarExpr:
		return isTypeExpr(x.X)
	case *ast.ParenExpr:
		return isTypeExpr(x.X)
	case *ast.SelectorExpr:
		_, ok := x.X.(*ast.Ident)
		return ok
	case *ast.IndexExpr:
		return isTypeExpr(x.X)
	case *ast.IndexListExpr:
		return isTypeExpr(x.X)
	default:
		return false
	}
}

func reflectExpr(t reflect.Type, imports *[]string) string {
	if t.Name() != "" {
		if t.PkgPath() != "" {
			*imports = append(*imports, t.PkgPath())
		}

		return t.String()
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + reflectExpr(t.Elem(), imports)
	case reflect.Slice:
		return "[]" + reflectExpr(t.Elem(), imports)
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + reflectExpr(t.Elem(), imports)
	case reflect.Map:
		return "map[" + reflectExpr(t.Key(), imports) + "]" + reflectExpr(t.Elem(), imports)
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + reflectExpr(t.Elem(), imports)
		case reflect.SendDir:
			return "chan<- " + reflectExpr(t.Elem(), imports)
		default:
			return "chan " + reflectExpr(t.Elem(), imports)
		}
	default:
		// Unnamed func, interface and struct types are spelled by reflect;
		// their package references are not tracked.
		return t.String()
	}
}
