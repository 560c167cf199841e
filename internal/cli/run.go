package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"builder-generator/internal/app"
	"builder-generator/internal/ctxlog"
)

// Run executes a parsed command. Reports go to out and logs to logOut.
// Failures come back as *ExitError carrying ExitFailure.
func Run(ctx context.Context, opts *Options, out, logOut io.Writer) error {
	logger := ctxlog.New(opts.Config.LogLevel, opts.Config.LogFormat, logOut)
	ctx = ctxlog.WithLogger(ctx, logger)

	a := app.New(out, opts.Config)

	var err error

	switch opts.Command {
	case CmdGen:
		var files []string

		files, err = a.Generate(ctx, opts.Input)
		if err == nil {
			fmt.Fprintf(out, "generated %d file(s)\n", len(files))
		}
	case CmdCheck:
		_, err = a.Check(ctx, opts.Input)
	case CmdPlan:
		err = a.Plan(ctx, opts.Input, opts.Dump)
	case CmdConfig:
		err = a.PrintConfig()
	default:
		return &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unknown command %q", opts.Command)}
	}

	if err != nil {
		logger.Debug("command failed", "command", opts.Command, "error", err)

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr
		}

		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%s: %v", opts.Command, err)}
	}

	return nil
}
