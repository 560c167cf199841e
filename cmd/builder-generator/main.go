// Package main provides the CLI entrypoint for builder-generator.
//
// builder-generator is a Go codegen tool that:
//   - Reads records from annotated Go structs or from YAML, JSON and HCL schema files
//   - Synthesizes a linear typestate chain per record, one state per supplied field
//   - Generates builders whose misuse does not compile
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"builder-generator/internal/cli"
)

func main() {
	// Use a minimal logger until the configured one takes over in cli.Run.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFailure)
	}
}

// run parses args and executes the selected command.
func run(outW, errW io.Writer, args []string) error {
	opts, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}

	if shouldExit {
		return nil
	}

	return cli.Run(context.Background(), opts, outW, errW)
}
