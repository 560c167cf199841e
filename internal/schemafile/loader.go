package schemafile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"builder-generator/internal/ctxlog"
)

// Format identifies a schema document format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("unsupported schema file extension %q (want .yaml, .yml, .json or .hcl)", filepath.Ext(path))
	}
}

// LoadFile reads and parses a schema document, choosing the parser by extension.
func LoadFile(ctx context.Context, path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	f, err := Parse(data, format, path)
	if err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}

	f.Path = path

	ctxlog.FromContext(ctx).Debug("schema file loaded",
		"path", path,
		"format", string(format),
		"package", f.Package,
		"records", f.Set.Len())

	return f, nil
}

// Parse parses data in the given format. filename is only used in messages.
func Parse(data []byte, format Format, filename string) (*File, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(data)
	case FormatJSON:
		return ParseJSON(data)
	case FormatHCL:
		return ParseHCL(data, filename)
	default:
		return nil, fmt.Errorf("unknown schema format %q", format)
	}
}
