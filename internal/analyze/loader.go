package analyze

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"builder-generator/internal/ctxlog"
	"builder-generator/schema"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and extracts record schemas from structs
// annotated with the builder directive.
type Analyzer struct {
	// Dir is the directory patterns are resolved against. Empty means the
	// current directory.
	Dir string
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// LoadPackages loads the specified packages and extracts their records.
// Patterns are standard Go package patterns (e.g., "./models", "example.com/app/...").
// Every schema problem in every package is reported, joined into one error.
func (a *Analyzer) LoadPackages(ctx context.Context, patterns ...string) (*Result, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var loadErrs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			loadErrs = append(loadErrs, e)
		}
	}

	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(loadErrs...))
	}

	res := &Result{}

	var errs []error

	for _, pkg := range pkgs {
		info, err := processPackage(ctx, pkg.Types, pkg.Syntax, pkg.TypesInfo)
		if err != nil {
			errs = append(errs, fmt.Errorf("package %s: %w", pkg.PkgPath, err))
			continue
		}

		if len(pkg.GoFiles) > 0 {
			info.Dir = filepath.Dir(pkg.GoFiles[0])
		}

		res.Packages = append(res.Packages, info)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return res, nil
}

// processPackage extracts records from the syntax and type information of
// one package.
func processPackage(ctx context.Context, pkg *types.Package, files []*ast.File, info *types.Info) (*PackageInfo, error) {
	logger := ctxlog.FromContext(ctx)

	pkgInfo := &PackageInfo{
		Path: pkg.Path(),
		Name: pkg.Name(),
	}

	var errs []error

	for _, file := range files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				useDefaults, ok := parseDirective(doc)
				if !ok {
					continue
				}

				obj, _ := info.Defs[ts.Name].(*types.TypeName)
				if obj == nil {
					errs = append(errs, fmt.Errorf("type %s: no type information", ts.Name.Name))
					continue
				}

				rec, err := recordFromType(pkg, obj, useDefaults)
				if err != nil {
					errs = append(errs, err)
					continue
				}

				logger.Debug("record found",
					"package", pkg.Path(),
					"record", rec.Name(),
					"fields", rec.Len(),
					"policy", rec.Policy().String())

				pkgInfo.Records = append(pkgInfo.Records, rec)
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return pkgInfo, nil
}

// parseDirective reports whether doc carries the builder directive and
// whether it asks for the defaulting policy.
func parseDirective(doc *ast.CommentGroup) (useDefaults, found bool) {
	if doc == nil {
		return false, false
	}

	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, Directive)
		if !ok {
			continue
		}

		// "//builder:generated" and similar are not the directive.
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}

		args := strings.Fields(rest)

		return slices.Contains(args, DirectiveDefaults), true
	}

	return false, false
}

// recordFromType builds the schema of an annotated struct type.
func recordFromType(pkg *types.Package, obj *types.TypeName, useDefaults bool) (*schema.RecordSchema, error) {
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("type %s: builder directive on an alias", obj.Name())
	}

	if named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("type %s: generic structs are not supported", obj.Name())
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("type %s: builder directive on a non-struct type", obj.Name())
	}

	q := newQualifier(pkg)

	var fields []schema.FieldInput

	for i := range st.NumFields() {
		field := st.Field(i)

		rename, skip, err := parseTag(reflect.StructTag(st.Tag(i)))
		if err != nil {
			return nil, fmt.Errorf("type %s: field %s: %w", obj.Name(), field.Name(), err)
		}

		if skip || field.Name() == "_" {
			continue
		}

		expr := types.TypeString(field.Type(), q.qualify)

		fields = append(fields, schema.FieldInput{
			Name:   field.Name(),
			Type:   schema.Type(expr, q.take()...),
			Rename: rename,
		})
	}

	return schema.New(obj.Name(), fields, schema.WithDefaults(useDefaults))
}

// parseTag reads the builder tag of a field.
func parseTag(tag reflect.StructTag) (rename string, skip bool, err error) {
	value, ok := tag.Lookup(TagKey)
	if !ok || value == "" {
		return "", false, nil
	}

	if value == "-" {
		return "", true, nil
	}

	for _, opt := range strings.Split(value, ",") {
		opt = strings.TrimSpace(opt)

		key, val, hasValue := strings.Cut(opt, "=")

		switch {
		case !hasValue && rename == "":
			rename = key
		case hasValue && key == "rename":
			rename = val
		default:
			return "", false, fmt.Errorf("unknown %s tag option %q", TagKey, opt)
		}
	}

	return rename, false, nil
}

// qualifier renders package-qualified type names as seen from pkg and
// records the imports they need.
type qualifier struct {
	pkg     *types.Package
	imports []string
}

func newQualifier(pkg *types.Package) *qualifier {
	return &qualifier{pkg: pkg}
}

func (q *qualifier) qualify(other *types.Package) string {
	if other == nil || other.Path() == q.pkg.Path() {
		return ""
	}

	q.imports = append(q.imports, other.Path())

	return other.Name()
}

// take returns the imports collected since the previous call.
func (q *qualifier) take() []string {
	res := q.imports
	q.imports = nil

	return res
}
