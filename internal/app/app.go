// Package app wires loading, synthesis, diagnostics and emission into the
// operations the command line exposes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"builder-generator/internal/analyze"
	"builder-generator/internal/common"
	"builder-generator/internal/config"
	"builder-generator/internal/ctxlog"
	"builder-generator/internal/diagnostic"
	"builder-generator/internal/gen"
	"builder-generator/internal/plan"
	"builder-generator/internal/schemafile"
	"builder-generator/schema"
)

// ErrNoRecords is returned when the input declares nothing to generate.
var ErrNoRecords = errors.New("no records found")

// ErrInvalid is returned by Check when any error diagnostic was reported.
var ErrInvalid = errors.New("validation failed")

// Input selects where records come from. Exactly one of Patterns and
// SchemaFile is set.
type Input struct {
	// Patterns are Go package patterns scanned for //builder:generate structs.
	Patterns []string
	// SchemaFile is a YAML, JSON or HCL schema document.
	SchemaFile string
	// Dir resolves relative package patterns. Empty means the working directory.
	Dir string
}

// Validate reports whether exactly one source is selected.
func (in Input) Validate() error {
	switch {
	case len(in.Patterns) > 0 && in.SchemaFile != "":
		return errors.New("use either package patterns or a schema file, not both")
	case len(in.Patterns) == 0 && in.SchemaFile == "":
		return errors.New("no input: give package patterns or a schema file")
	}

	return nil
}

// unit is a group of records generated into one package directory.
type unit struct {
	pkg        string
	dir        string
	set        *schema.Set
	emitRecord bool
}

func (u unit) check() diagnostic.Diagnostics {
	d := diagnostic.Check(u.set)
	if u.emitRecord {
		d.Merge(diagnostic.CheckEmitted(u.set))
	}

	return d
}

// App runs generator operations with a fixed configuration.
type App struct {
	out io.Writer
	cfg config.Config
}

// New creates an App printing reports to out.
func New(out io.Writer, cfg config.Config) *App {
	return &App{out: out, cfg: cfg}
}

// load reads the input into generation units. Go packages become one unit
// each, written next to their sources; a schema file is one unit written to
// the configured output directory.
func (a *App) load(ctx context.Context, in Input) ([]unit, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx)

	if in.SchemaFile != "" {
		f, err := schemafile.LoadFile(ctx, in.SchemaFile)
		if err != nil {
			return nil, err
		}

		pkg := a.cfg.PackageName
		if f.Package != "" {
			pkg = f.Package
		}

		return []unit{{pkg: pkg, dir: a.cfg.OutputDir, set: f.Set, emitRecord: a.cfg.EmitRecord}}, nil
	}

	analyzer := analyze.NewAnalyzer()
	analyzer.Dir = in.Dir

	res, err := analyzer.LoadPackages(ctx, in.Patterns...)
	if err != nil {
		return nil, err
	}

	var units []unit

	for _, p := range res.Packages {
		if common.IsEmpty(p.Records) {
			logger.Debug("package has no records", "package", p.Path)
			continue
		}

		set, err := schema.NewSet(p.Records...)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", p.Path, err)
		}

		units = append(units, unit{pkg: p.Name, dir: p.Dir, set: set})
	}

	if len(units) == 0 {
		return nil, fmt.Errorf("%w in %v (annotate a struct with %s)", ErrNoRecords, in.Patterns, analyze.Directive)
	}

	return units, nil
}

// Generate synthesizes and emits builders for every record of the input.
// Nothing is written unless every record generates cleanly.
func (a *App) Generate(ctx context.Context, in Input) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	units, err := a.load(ctx, in)
	if err != nil {
		return nil, err
	}

	type output struct {
		dir   string
		files []gen.GeneratedFile
	}

	var outputs []output

	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if d := u.check(); d.HasErrors() {
			return nil, d.Error()
		}

		plans, err := plan.SynthesizeSet(u.set)
		if err != nil {
			return nil, err
		}

		gcfg := a.cfg.Generator()
		gcfg.PackageName = u.pkg
		gcfg.OutputDir = u.dir
		gcfg.EmitRecord = u.emitRecord

		files, err := gen.NewGenerator(gcfg).Generate(plans)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", u.pkg, err)
		}

		outputs = append(outputs, output{dir: u.dir, files: files})
	}

	var written []string

	for _, o := range outputs {
		if err := gen.WriteFiles(o.files, o.dir); err != nil {
			return written, err
		}

		for _, f := range o.files {
			logger.Info("generated builder", "record", f.Record, "file", f.Filename, "dir", o.dir)
			written = append(written, f.Filename)
		}
	}

	return written, nil
}

// Check validates the input and prints every diagnostic. Load and schema
// errors are reported as diagnostics rather than returned; ErrInvalid is
// returned when any error diagnostic was printed.
func (a *App) Check(ctx context.Context, in Input) (diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	units, err := a.load(ctx, in)
	if err != nil {
		diags = diagnostic.FromError(err)
	}

	for _, u := range units {
		diags.Merge(u.check())
	}

	for _, d := range diags.All() {
		fmt.Fprintf(a.out, "%s: %s\n", d.Severity, d)
	}

	if diags.HasErrors() {
		return diags, fmt.Errorf("%w: %d error(s)", ErrInvalid, len(diags.Errors))
	}

	return diags, nil
}

// Plan prints the state chain of every record. With dump set the raw plans
// are printed instead.
func (a *App) Plan(ctx context.Context, in Input, dump bool) error {
	units, err := a.load(ctx, in)
	if err != nil {
		return err
	}

	for _, u := range units {
		plans, err := plan.SynthesizeSet(u.set)
		if err != nil {
			return err
		}

		if dump {
			dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
			dumper.Fdump(a.out, plans)

			continue
		}

		reports := make([]*plan.ChainReport, len(plans))
		for i, p := range plans {
			reports[i] = plan.GenerateReport(p)
		}

		fmt.Fprint(a.out, plan.FormatReport(reports...))
	}

	return nil
}

// PrintConfig writes the effective configuration as TOML.
func (a *App) PrintConfig() error {
	return a.cfg.WriteTOML(a.out)
}
