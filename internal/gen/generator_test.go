package gen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"builder-generator/internal/plan"
	"builder-generator/schema"
)

func personPlan(t *testing.T, rename string, opts ...schema.Option) *plan.BuilderPlan {
	t.Helper()

	s, err := schema.New("Person", []schema.FieldInput{
		{Name: "Name", Type: schema.Type("string")},
		{Name: "Age", Type: schema.Type("uint32"), Rename: rename},
		{Name: "Born", Type: schema.Type("time.Time", "time")},
	}, opts...)
	require.NoError(t, err)

	p, err := plan.Synthesize(s)
	require.NoError(t, err)

	return p
}

func testConfig() GeneratorConfig {
	cfg := DefaultGeneratorConfig()
	cfg.PackageName = "people"
	cfg.OutputDir = ""

	return cfg
}

// methodsByReceiver parses src and returns, per receiver type, its method names.
func methodsByReceiver(t *testing.T, src []byte) (map[string][]string, *ast.File) {
	t.Helper()

	file, err := parser.ParseFile(token.NewFileSet(), "out.go", src, parser.ParseComments)
	require.NoError(t, err, string(src))

	methods := make(map[string][]string)

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil {
			continue
		}

		recv := fn.Recv.List[0].Type.(*ast.Ident).Name
		methods[recv] = append(methods[recv], fn.Name.Name)
	}

	return methods, file
}

// runtimeImporter type-checks builderrt from its sources and defers every
// other import to the default importer.
type runtimeImporter struct {
	fset *token.FileSet
	std  types.Importer
	rt   *types.Package
}

func (im *runtimeImporter) Import(path string) (*types.Package, error) {
	if path != DefaultRuntimeImport {
		return im.std.Import(path)
	}

	if im.rt != nil {
		return im.rt, nil
	}

	paths, err := filepath.Glob(filepath.Join("..", "..", "builderrt", "*.go"))
	if err != nil {
		return nil, err
	}

	var files []*ast.File

	for _, p := range paths {
		if strings.HasSuffix(p, "_test.go") {
			continue
		}

		f, err := parser.ParseFile(im.fset, p, nil, 0)
		if err != nil {
			return nil, err
		}

		files = append(files, f)
	}

	conf := types.Config{Importer: im.std}

	im.rt, err = conf.Check(path, im.fset, files, nil)

	return im.rt, err
}

// typeCheck type-checks generated source together with extra files of the
// same package, such as the declaration of a record loaded from Go source.
func typeCheck(t *testing.T, src []byte, extra ...string) *types.Package {
	t.Helper()

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "out.go", src, 0)
	require.NoError(t, err, string(src))

	files := []*ast.File{file}

	for i, e := range extra {
		f, err := parser.ParseFile(fset, "extra"+strconv.Itoa(i)+".go", e, 0)
		require.NoError(t, err, e)

		files = append(files, f)
	}

	conf := types.Config{Importer: &runtimeImporter{fset: fset, std: importer.Default()}}

	pkg, err := conf.Check(file.Name.Name, fset, files, nil)
	require.NoError(t, err, string(src))

	return pkg
}

const personDecl = `package people

import "time"

type Person struct {
	Name string
	Age  uint32
	Born time.Time
}
`

// readyBuild returns the signature of Build on the record's final state.
func readyBuild(t *testing.T, pkg *types.Package, record string) *types.Signature {
	t.Helper()

	obj := pkg.Scope().Lookup(record + "BuilderReady")
	require.NotNil(t, obj, "%sBuilderReady not declared", record)

	ms := types.NewMethodSet(obj.Type())
	sel := ms.Lookup(pkg, "Build")
	require.NotNil(t, sel)
	assert.Equal(t, 1, ms.Len())

	return sel.Obj().Type().(*types.Signature)
}

func TestGenerator_Generate_TypeChecks(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		files, err := NewGenerator(testConfig()).Generate([]*plan.BuilderPlan{personPlan(t, "years")})
		require.NoError(t, err)

		pkg := typeCheck(t, files[0].Content, personDecl)
		sig := readyBuild(t, pkg, "Person")
		assert.Equal(t, "people.Person", sig.Results().At(0).Type().String())
	})

	t.Run("defaulting", func(t *testing.T) {
		files, err := NewGenerator(testConfig()).Generate([]*plan.BuilderPlan{personPlan(t, "", schema.WithDefaults(true))})
		require.NoError(t, err)

		readyBuild(t, typeCheck(t, files[0].Content, personDecl), "Person")
	})

	t.Run("emitted record", func(t *testing.T) {
		cfg := testConfig()
		cfg.EmitRecord = true
		cfg.EmitJSONTags = true

		files, err := NewGenerator(cfg).Generate([]*plan.BuilderPlan{personPlan(t, "years")})
		require.NoError(t, err)

		pkg := typeCheck(t, files[0].Content)
		assert.NotNil(t, pkg.Scope().Lookup("Person"))
		readyBuild(t, pkg, "Person")
	})
}

func TestGenerator_Generate_KeywordAndPredeclaredNames(t *testing.T) {
	fields := []schema.FieldInput{
		{Name: "type", Type: schema.Type("string")},
		{Name: "b", Type: schema.Type("byte")},
		{Name: "len", Type: schema.Type("int")},
		{Name: "string", Type: schema.Type("string")},
		{Name: "time", Type: schema.Type("time.Time", "time")},
	}

	for _, useDefaults := range []bool{false, true} {
		s, err := schema.New("Token", fields, schema.WithDefaults(useDefaults))
		require.NoError(t, err)

		p, err := plan.Synthesize(s)
		require.NoError(t, err)

		cfg := testConfig()
		cfg.EmitRecord = true

		files, err := NewGenerator(cfg).Generate([]*plan.BuilderPlan{p})
		require.NoError(t, err)

		content := string(files[0].Content)
		assert.Contains(t, content, "func (b TokenBuilder) WithType(typeVal string) TokenBuilderHasType {")
		assert.Contains(t, content, "WithB(bVal byte)")
		assert.Contains(t, content, "WithLen(lenVal int)")
		assert.Contains(t, content, "WithString(stringVal string)")

		readyBuild(t, typeCheck(t, files[0].Content), "Token")
	}
}

func TestGenerator_Generate_EmittedFieldCollision(t *testing.T) {
	s, err := schema.New("Thing", []schema.FieldInput{
		{Name: "name", Type: schema.Type("string"), Rename: "first"},
		{Name: "Name", Type: schema.Type("string"), Rename: "second"},
	})
	require.NoError(t, err)

	p, err := plan.Synthesize(s)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.EmitRecord = true

	files, err := NewGenerator(cfg).Generate([]*plan.BuilderPlan{p})
	require.Error(t, err)
	assert.Nil(t, files)
	assert.ErrorIs(t, err, schema.ErrDuplicateFieldName)

	// Records from Go source keep their declared field names.
	files, err = NewGenerator(testConfig()).Generate([]*plan.BuilderPlan{p})
	require.NoError(t, err)
	typeCheck(t, files[0].Content, "package people\n\ntype Thing struct {\n\tname string\n\tName string\n}\n")
}

func TestGenerator_Generate_StrictChain(t *testing.T) {
	files, err := NewGenerator(testConfig()).Generate([]*plan.BuilderPlan{personPlan(t, "")})
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.Equal(t, "person_builder.go", files[0].Filename)
	assert.Equal(t, "Person", files[0].Record)

	content := string(files[0].Content)

	assert.True(t, strings.HasPrefix(content, "// Code generated by builder-generator. DO NOT EDIT.\n"))
	assert.Contains(t, content, "package people")
	assert.Contains(t, content, `"builder-generator/builderrt"`)
	assert.Contains(t, content, `"time"`)
	assert.Contains(t, content, "func NewPersonBuilder() PersonBuilder {")
	assert.Contains(t, content, "func (b PersonBuilder) WithName(name string) PersonBuilderHasName {")
	assert.Contains(t, content, "func (b PersonBuilderHasName) WithAge(age uint32) PersonBuilderHasAge {")
	assert.Contains(t, content, "func (b PersonBuilderHasAge) WithBorn(born time.Time) PersonBuilderReady {")
	assert.Contains(t, content, "func (b PersonBuilderReady) Build() (Person, error) {")
	assert.Contains(t, content, "builderrt.FirstUnset(b.s3.filled[:])")
	assert.Contains(t, content, `var personBuilderFields = [3]string{"Name", "Age", "Born"}`)
	assert.Contains(t, content, "Name: b.s3.slots.name,")

	methods, _ := methodsByReceiver(t, files[0].Content)
	assert.Equal(t, map[string][]string{
		"PersonBuilder":        {"WithName"},
		"PersonBuilderHasName": {"WithAge"},
		"PersonBuilderHasAge":  {"WithBorn"},
		"PersonBuilderReady":   {"Build"},
	}, methods)
}

func TestGenerator_Generate_StateTypesAreDistinct(t *testing.T) {
	files, err := NewGenerator(testConfig()).Generate([]*plan.BuilderPlan{personPlan(t, "")})
	require.NoError(t, err)

	_, file := methodsByReceiver(t, files[0].Content)

	wrapped := make(map[string]string)

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			if !strings.HasPrefix(ts.Name.Name, "PersonBuilder") {
				continue
			}

			st := ts.Type.(*ast.StructType)
			require.Len(t, st.Fields.List, 1)
			wrapped[ts.Name.Name] = st.Fields.List[0].Names[0].Name
		}
	}

	assert.Equal(t, map[string]string{
		"PersonBuilder":        "s0",
		"PersonBuilderHasName": "s1",
		"PersonBuilderHasAge":  "s2",
		"PersonBuilderReady":   "s3",
	}, wrapped)
}

func TestGenerator_Generate_Rename(t *testing.T) {
	files, err := NewGenerator(testConfig()).Generate([]*plan.BuilderPlan{personPlan(t, "years")})
	require.NoError(t, err)

	content := string(files[0].Content)

	assert.Contains(t, content, "WithYears(years uint32) PersonBuilderHasYears")
	assert.NotContains(t, content, "WithAge")
	assert.Contains(t, content, "Age:  b.s3.slots.years,")
	assert.Contains(t, content, `[3]string{"Name", "years", "Born"}`)
	assert.Contains(t, content, "WithYears sets years (field Age)")
}

func TestGenerator_Generate_Defaulting(t *testing.T) {
	files, err := NewGenerator(testConfig()).Generate([]*plan.BuilderPlan{personPlan(t, "", schema.WithDefaults(true))})
	require.NoError(t, err)

	content := string(files[0].Content)

	assert.NotContains(t, content, "builderrt")
	assert.NotContains(t, content, "personBuilderFields")
	assert.Contains(t, content, "keep their zero value")
	assert.Contains(t, content, "func (b PersonBuilderReady) Build() (Person, error) {")

	methodsByReceiver(t, files[0].Content)
}

func TestGenerator_Generate_EmitRecord(t *testing.T) {
	s, err := schema.New("order_item", []schema.FieldInput{
		{Name: "sku", Type: schema.Type("string")},
		{Name: "qty", Type: schema.Type("int"), Rename: "quantity"},
	})
	require.NoError(t, err)

	p, err := plan.Synthesize(s)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.EmitRecord = true
	cfg.EmitJSONTags = true

	files, err := NewGenerator(cfg).Generate([]*plan.BuilderPlan{p})
	require.NoError(t, err)

	assert.Equal(t, "order_item_builder.go", files[0].Filename)

	content := string(files[0].Content)
	assert.Contains(t, content, "type OrderItem struct {")
	assert.Contains(t, content, "func (b OrderItemBuilderReady) Build() (OrderItem, error) {")
	assert.Contains(t, content, "Sku string `json:\"sku\"`")
	assert.Contains(t, content, "Qty int    `json:\"quantity\"`")
	assert.Contains(t, content, "func NewOrderItemBuilder() OrderItemBuilder {")
	assert.Contains(t, content, "func (b OrderItemBuilderHasSku) WithQuantity(quantity int) OrderItemBuilderReady {")

	methodsByReceiver(t, files[0].Content)
}

func TestGenerator_Generate_NoComments(t *testing.T) {
	cfg := testConfig()
	cfg.GenerateComments = false

	files, err := NewGenerator(cfg).Generate([]*plan.BuilderPlan{personPlan(t, "")})
	require.NoError(t, err)

	content := string(files[0].Content)
	assert.NotContains(t, content, "// PersonBuilder is")
	assert.NotContains(t, content, "// WithName")
	assert.Contains(t, content, "DO NOT EDIT")
}

func TestGenerator_Generate_SingleImportAndAlias(t *testing.T) {
	s, err := schema.New("Tag", []schema.FieldInput{{Name: "Value", Type: schema.Type("string")}})
	require.NoError(t, err)

	p, err := plan.Synthesize(s)
	require.NoError(t, err)

	files, err := NewGenerator(testConfig()).Generate([]*plan.BuilderPlan{p})
	require.NoError(t, err)
	assert.Contains(t, string(files[0].Content), "import \"builder-generator/builderrt\"\n")

	cfg := testConfig()
	cfg.RuntimeImport = "example.com/vendored/rt"

	files, err = NewGenerator(cfg).Generate([]*plan.BuilderPlan{p})
	require.NoError(t, err)
	assert.Contains(t, string(files[0].Content), `import builderrt "example.com/vendored/rt"`)

	methods, _ := methodsByReceiver(t, files[0].Content)
	assert.Equal(t, []string{"WithValue"}, methods["TagBuilder"])
	assert.Equal(t, []string{"Build"}, methods["TagBuilderReady"])
}

func TestGenerator_Generate_FormatFailureWritesSidecar(t *testing.T) {
	dir := t.TempDir()

	cfg := testConfig()
	cfg.PackageName = "not-a-package"
	cfg.OutputDir = dir

	files, err := NewGenerator(cfg).Generate([]*plan.BuilderPlan{personPlan(t, "")})
	require.Error(t, err)
	assert.Nil(t, files)

	raw, err := os.ReadFile(filepath.Join(dir, "person_builder.unformatted.go"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "package not-a-package")
}

func TestGenerator_Generate_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.PackageName = ""

	_, err := NewGenerator(cfg).Generate([]*plan.BuilderPlan{personPlan(t, "")})
	assert.Error(t, err)

	p := personPlan(t, "")
	_, err = NewGenerator(testConfig()).Generate([]*plan.BuilderPlan{p, p})
	assert.ErrorContains(t, err, "already generated")
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	files := []GeneratedFile{
		{Filename: "a_builder.go", Content: []byte("package a\n")},
		{Filename: "b_builder.go", Content: []byte("package a\n")},
	}

	require.NoError(t, WriteFiles(files, dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.Equal(t, []string{"a_builder.go", "b_builder.go"}, names)
}

func TestWriteFiles_RenameFailure(t *testing.T) {
	dir := t.TempDir()

	// A non-empty directory in place of the second file makes its rename fail.
	blocker := filepath.Join(dir, "b_builder.go")
	require.NoError(t, os.MkdirAll(filepath.Join(blocker, "keep"), 0o755))

	files := []GeneratedFile{
		{Filename: "a_builder.go", Content: []byte("package a\n")},
		{Filename: "b_builder.go", Content: []byte("package a\n")},
	}

	err := WriteFiles(files, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b_builder.go")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	// Temporaries are gone; the file renamed before the failure stays.
	assert.Equal(t, []string{"a_builder.go", "b_builder.go"}, names)
	assert.DirExists(t, blocker)
}

func TestDebugFilename(t *testing.T) {
	assert.Equal(t, "person_builder.unformatted.go", debugFilename("person_builder.go"))
}
