package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/deepnoodle-ai/wonton/cli"

	_ "github.com/Tsinling0525/flowpatch/edits/assign"
	_ "github.com/Tsinling0525/flowpatch/edits/block"
	_ "github.com/Tsinling0525/flowpatch/edits/replace"
)

const version = "0.3.0"

// errUsage marks mistakes in how the command was invoked; they exit with 2.
var errUsage = errors.New("usage")

func main() {
	app := cli.New("flowpatch").
		Description("Back up, migrate, patch, validate and push n8n workflow files").
		Version(version).
		GlobalFlags(
			cli.String("config", "c").
				Env("FLOWPATCH_CONFIG").
				Help("Config file (.yaml, .yml or .json)"),
			cli.String("log-level", "").
				Env("FLOWPATCH_LOG_LEVEL").
				Help("Log level (debug, info, warn, error)"),
		)

	registerCommands(app)

	if err := app.Execute(); err != nil {
		if cli.IsHelpRequested(err) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	if code := cli.GetExitCode(err); code != 0 {
		return code
	}
	return 1
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}
