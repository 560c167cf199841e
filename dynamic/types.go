package dynamic

import (
	"go/ast"
	"reflect"
	"strconv"

	"builder-generator/schema"
)

var basicTypes = map[string]reflect.Type{
	"any":        reflect.TypeFor[any](),
	"bool":       reflect.TypeFor[bool](),
	"byte":       reflect.TypeFor[byte](),
	"complex64":  reflect.TypeFor[complex64](),
	"complex128": reflect.TypeFor[complex128](),
	"error":      reflect.TypeFor[error](),
	"float32":    reflect.TypeFor[float32](),
	"float64":    reflect.TypeFor[float64](),
	"int":        reflect.TypeFor[int](),
	"int8":       reflect.TypeFor[int8](),
	"int16":      reflect.TypeFor[int16](),
	"int32":      reflect.TypeFor[int32](),
	"int64":      reflect.TypeFor[int64](),
	"rune":       reflect.TypeFor[rune](),
	"string":     reflect.TypeFor[string](),
	"uint":       reflect.TypeFor[uint](),
	"uint8":      reflect.TypeFor[uint8](),
	"uint16":     reflect.TypeFor[uint16](),
	"uint32":     reflect.TypeFor[uint32](),
	"uint64":     reflect.TypeFor[uint64](),
	"uintptr":    reflect.TypeFor[uintptr](),
}

// resolveType returns the reflect type of a field, or nil when it cannot be
// known at runtime (named types from schema files, for example). Values for
// unresolved fields are stored unchecked and default to nil.
func resolveType(ref schema.TypeRef) reflect.Type {
	if rt := ref.Reflect(); rt != nil {
		return rt
	}

	expr, err := ref.Parse()
	if err != nil {
		return nil
	}

	return resolveExpr(expr)
}

func resolveExpr(e ast.Expr) reflect.Type {
	switch x := e.(type) {
	case *ast.Ident:
		return basicTypes[x.Name]
	case *ast.ParenExpr:
		return resolveExpr(x.X)
	case *ast.StarExpr:
		if elem := resolveExpr(x.X); elem != nil {
			return reflect.PointerTo(elem)
		}
	case *ast.ArrayType:
		elem := resolveExpr(x.Elt)
		if elem == nil {
			return nil
		}

		if x.Len == nil {
			return reflect.SliceOf(elem)
		}

		lit, ok := x.Len.(*ast.BasicLit)
		if !ok {
			return nil
		}

		n, err := strconv.Atoi(lit.Value)
		if err != nil {
			return nil
		}

		return reflect.ArrayOf(n, elem)
	case *ast.MapType:
		key, val := resolveExpr(x.Key), resolveExpr(x.Value)
		if key != nil && val != nil && key.Comparable() {
			return reflect.MapOf(key, val)
		}
	case *ast.InterfaceType:
		if x.Methods == nil || len(x.Methods.List) == 0 {
			return basicTypes["any"]
		}
	}

	return nil
}

// assignable reports whether v can be stored in a slot of type rt. A nil v
// is accepted for types whose zero value is nil.
func assignable(v any, rt reflect.Type) bool {
	if rt == nil {
		return true
	}

	if v == nil {
		switch rt.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan,
			reflect.Func, reflect.Interface:
			return true
		default:
			return false
		}
	}

	return reflect.TypeOf(v).AssignableTo(rt)
}

func zeroValue(rt reflect.Type) any {
	if rt == nil {
		return nil
	}

	return reflect.Zero(rt).Interface()
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	return reflect.TypeOf(v).String()
}
