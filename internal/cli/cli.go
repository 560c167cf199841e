package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"builder-generator/internal/app"
	"builder-generator/internal/common"
	"builder-generator/internal/config"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Command is a builder-generator subcommand.
type Command string

const (
	CmdGen    Command = "gen"
	CmdCheck  Command = "check"
	CmdPlan   Command = "plan"
	CmdConfig Command = "config"
)

var commands = []Command{CmdGen, CmdCheck, CmdPlan, CmdConfig}

// Options is the parsed command line.
type Options struct {
	Command Command
	Input   app.Input
	Config  config.Config
	// Dump prints raw plans instead of the chain report (plan only).
	Dump bool
}

const usageText = `
builder-generator - typestate builders for Go records.

Usage:
  builder-generator <command> [options] [PACKAGES...]

Commands:
  gen      generate builders
  check    validate records and print diagnostics
  plan     print the state chain of every record
  config   print the effective configuration as TOML

Records come from Go packages (structs annotated with //builder:generate)
or from a YAML, JSON or HCL schema file given with -schema.

Settings are read from defaults, the -config TOML file, BUILDERGEN_*
environment variables and flags, later sources winning.

Options:
`

// Parse processes command-line arguments. It returns the parsed options, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	slog.Debug("CLI parser started.")

	flagSet := flag.NewFlagSet("builder-generator", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, usageText)
		flagSet.PrintDefaults()
	}

	cmdName, ok := common.First(args)
	if !ok || cmdName == "-h" || cmdName == "-help" || cmdName == "--help" || cmdName == "help" {
		flagSet.Usage()
		return nil, true, nil
	}

	cmd := Command(cmdName)
	if !slices.Contains(commands, cmd) {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unknown command %q", cmdName)}
	}

	pkgFlag := flagSet.String("pkg", "", "Comma-separated Go package patterns to scan.")
	schemaFlag := flagSet.String("schema", "", "Schema file (.yaml, .yml, .json or .hcl).")
	configFlag := flagSet.String("config", "", "TOML configuration file.")
	dumpFlag := flagSet.Bool("dump", false, "With plan: print the raw plans.")

	// Flags mapped onto configuration keys; only explicitly set ones override.
	flagSet.String("out", "", "Output directory for schema-file input.")
	flagSet.String("package", "", "Package name for schema-file input.")
	flagSet.String("suffix", "", "Generated file name suffix.")
	flagSet.String("runtime", "", "Import path of the builderrt runtime package.")
	flagSet.Bool("comments", true, "Emit doc comments.")
	flagSet.Bool("emit-record", true, "Declare the record struct for schema-file input.")
	flagSet.Bool("json-tags", false, "Add json tags to emitted record structs.")
	flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}

		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("Arguments parsed successfully.", "command", cmd)

	opts := &Options{Command: cmd, Dump: *dumpFlag}

	patterns := append(splitList(*pkgFlag), flagSet.Args()...)
	opts.Input = app.Input{Patterns: patterns, SchemaFile: *schemaFlag}

	if cmd != CmdConfig {
		if err := opts.Input.Validate(); err != nil {
			return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
		}
	}

	if opts.Dump && cmd != CmdPlan {
		return nil, false, &ExitError{Code: ExitUsage, Message: "-dump is only valid with the plan command"}
	}

	overrides := map[string]any{}

	flagSet.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})

	cfg, err := config.Load(config.Sources{File: *configFlag, Flags: overrides})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	opts.Config = cfg

	slog.Debug("CLI parser finished successfully.", "options", opts)

	return opts, false, nil
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"out":         "output_dir",
	"package":     "package",
	"suffix":      "file_suffix",
	"runtime":     "runtime_import",
	"comments":    "comments",
	"emit-record": "emit_record",
	"json-tags":   "json_tags",
	"log-format":  "log_format",
	"log-level":   "log_level",
}

func splitList(s string) []string {
	var res []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}

	return res
}
