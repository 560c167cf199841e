// Package config assembles the generator configuration from defaults, a
// TOML file, BUILDERGEN_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"

	"builder-generator/internal/gen"
	"builder-generator/internal/naming"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "BUILDERGEN_"

// Config is the effective generator configuration.
type Config struct {
	PackageName      string `mapstructure:"package" toml:"package"`
	OutputDir        string `mapstructure:"output_dir" toml:"output_dir"`
	FileSuffix       string `mapstructure:"file_suffix" toml:"file_suffix"`
	RuntimeImport    string `mapstructure:"runtime_import" toml:"runtime_import"`
	GenerateComments bool   `mapstructure:"comments" toml:"comments"`
	// EmitRecord declares the record struct next to its builder. It only
	// applies to schema files; Go-source records are already declared.
	EmitRecord       bool   `mapstructure:"emit_record" toml:"emit_record"`
	EmitJSONTags     bool   `mapstructure:"json_tags" toml:"json_tags"`
	LogLevel         string `mapstructure:"log_level" toml:"log_level"`
	LogFormat        string `mapstructure:"log_format" toml:"log_format"`
}

// Keys lists every configuration key, in the order they are documented.
var Keys = []string{
	"package",
	"output_dir",
	"file_suffix",
	"runtime_import",
	"comments",
	"emit_record",
	"json_tags",
	"log_level",
	"log_format",
}

// Default returns the built-in configuration.
func Default() Config {
	g := gen.DefaultGeneratorConfig()

	return Config{
		PackageName:      g.PackageName,
		OutputDir:        g.OutputDir,
		FileSuffix:       g.FileSuffix,
		RuntimeImport:    g.RuntimeImport,
		GenerateComments: g.GenerateComments,
		EmitRecord:       true,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Sources are the inputs Load layers over the defaults.
type Sources struct {
	// File is an optional TOML file path.
	File string
	// Lookup reads environment variables. Nil means os.LookupEnv.
	Lookup func(key string) (string, bool)
	// Flags holds values set explicitly on the command line, by key.
	Flags map[string]any
}

// Load merges defaults < file < environment < flags and validates the result.
func Load(src Sources) (Config, error) {
	merged := toMap(Default())

	if src.File != "" {
		fileValues := map[string]any{}
		if _, err := toml.DecodeFile(src.File, &fileValues); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", src.File, err)
		}

		if err := overlay(merged, fileValues, "config file "+src.File); err != nil {
			return Config{}, err
		}
	}

	lookup := src.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	for _, key := range Keys {
		if v, ok := lookup(EnvName(key)); ok {
			merged[key] = v
		}
	}

	if err := overlay(merged, src.Flags, "flags"); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := decode(merged, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// EnvName returns the environment variable that sets key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case !naming.IsIdentifier(c.PackageName) || c.PackageName != strings.ToLower(c.PackageName):
		return fmt.Errorf("invalid package name %q", c.PackageName)
	case c.OutputDir == "":
		return fmt.Errorf("output_dir must not be empty")
	case !strings.HasSuffix(c.FileSuffix, ".go"):
		return fmt.Errorf("file_suffix %q must end in .go", c.FileSuffix)
	case c.RuntimeImport == "":
		return fmt.Errorf("runtime_import must not be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log_format %q: must be 'text' or 'json'", c.LogFormat)
	}

	return nil
}

// Generator converts the configuration to the code generator's settings.
func (c Config) Generator() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		PackageName:      c.PackageName,
		OutputDir:        c.OutputDir,
		FileSuffix:       c.FileSuffix,
		RuntimeImport:    c.RuntimeImport,
		GenerateComments: c.GenerateComments,
		EmitRecord:       c.EmitRecord,
		EmitJSONTags:     c.EmitJSONTags,
	}
}

// WriteTOML writes the configuration in the file format Load reads.
func (c Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func toMap(c Config) map[string]any {
	return map[string]any{
		"package":        c.PackageName,
		"output_dir":     c.OutputDir,
		"file_suffix":    c.FileSuffix,
		"runtime_import": c.RuntimeImport,
		"comments":       c.GenerateComments,
		"emit_record":    c.EmitRecord,
		"json_tags":      c.EmitJSONTags,
		"log_level":      c.LogLevel,
		"log_format":     c.LogFormat,
	}
}

// overlay copies values over dst, rejecting keys that are not configuration keys.
func overlay(dst, values map[string]any, source string) error {
	for k, v := range values {
		if _, ok := dst[k]; !ok {
			return fmt.Errorf("%s: unknown key %q", source, k)
		}

		dst[k] = v
	}

	return nil
}

func decode(values map[string]any, target *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(values); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}

	return nil
}
