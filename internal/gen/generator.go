package gen

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/tools/imports"

	"builder-generator/internal/common"
	"builder-generator/internal/plan"
)

// DefaultRuntimeImport is the import path of the runtime support package
// referenced by strict builders.
const DefaultRuntimeImport = "builder-generator/builderrt"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is where generated files go. Also used for debug sidecars.
	OutputDir string
	// FileSuffix is appended to the snake-cased record name to form file names.
	FileSuffix string
	// RuntimeImport is the import path of the builderrt package.
	RuntimeImport string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
	// EmitRecord emits the record struct itself next to its builder. Used when
	// the schema does not come from existing Go source.
	EmitRecord bool
	// EmitJSONTags adds json tags, keyed by external name, to emitted record structs.
	EmitJSONTags bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "builders",
		OutputDir:        "./generated",
		FileSuffix:       "_builder.go",
		RuntimeImport:    DefaultRuntimeImport,
		GenerateComments: true,
	}
}

// Generator generates Go builder code from synthesized plans.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.FileSuffix == "" {
		config.FileSuffix = "_builder.go"
	}

	if config.RuntimeImport == "" {
		config.RuntimeImport = DefaultRuntimeImport
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "person_builder.go").
	Filename string
	// Record is the record the file was generated for.
	Record string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate emits one file per plan. Either every file is returned or none:
// the first failing record aborts generation.
func (g *Generator) Generate(plans []*plan.BuilderPlan) ([]GeneratedFile, error) {
	if g.config.PackageName == "" {
		return nil, fmt.Errorf("generating builders: package name is required")
	}

	files := make([]GeneratedFile, 0, len(plans))
	seen := make(map[string]string, len(plans))

	for _, p := range plans {
		file, err := g.GenerateRecord(p)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", p.Record, err)
		}

		if other, ok := seen[file.Filename]; ok {
			return nil, fmt.Errorf("generating %s: file %s already generated for %s", p.Record, file.Filename, other)
		}

		seen[file.Filename] = p.Record
		files = append(files, *file)
	}

	return files, nil
}

// GenerateRecord emits the builder for one record.
func (g *Generator) GenerateRecord(p *plan.BuilderPlan) (*GeneratedFile, error) {
	if g.config.EmitRecord {
		if err := p.Schema.ValidateEmitted(); err != nil {
			return nil, err
		}
	}

	data := g.buildTemplateData(p)

	var buf bytes.Buffer
	if err := builderTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := imports.Process(data.Filename, buf.Bytes(), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		// Best-effort: the sidecar only aids debugging the template output.
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, data.Filename, buf.Bytes())
		}

		return nil, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Filename: data.Filename,
		Record:   p.Record,
		Content:  formatted,
	}, nil
}

// runtimeAlias returns the import alias needed to refer to the runtime
// package as "builderrt", or "" when its path already ends in builderrt.
func (g *Generator) runtimeAlias() string {
	if common.PkgAlias(g.config.RuntimeImport) == runtimePkg {
		return ""
	}

	return runtimePkg
}

func (g *Generator) collectImports(p *plan.BuilderPlan, strict bool) []importSpec {
	var specs []importSpec

	for _, imp := range p.Schema.Imports() {
		specs = append(specs, importSpec{Path: imp})
	}

	if strict {
		specs = append(specs, importSpec{Alias: g.runtimeAlias(), Path: g.config.RuntimeImport})
	}

	slices.SortFunc(specs, func(a, b importSpec) int { return strings.Compare(a.Path, b.Path) })

	return slices.CompactFunc(specs, func(a, b importSpec) bool { return a.Path == b.Path })
}
