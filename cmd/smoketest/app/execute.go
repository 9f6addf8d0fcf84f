package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/smoketest/cmd/smoketest/cmd/run"
	"github.com/agentstation/smoketest/internal/cmd/output"
	"github.com/agentstation/smoketest/internal/envfile"
	"github.com/agentstation/smoketest/pkg/errors"
)

// Execute runs the smoketest CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
// Without a subcommand the root performs a smoke run.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "smoketest",
		Short:   "OpenAPI-driven HTTP smoke tests",
		Version: a.version,
		Long: `smoketest reads the OpenAPI specs of every service under
<root>/microservices/*/openapi/*.yaml and sends one GET request to each
endpoint that needs no path parameters, stopping at the first endpoint that
does not answer 2xx. It exits 0 when every endpoint passes, or when there is
nothing to test, and 1 otherwise.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("root", "", "repository root containing microservices/ (default is the working directory)")
	flags.String("config", "", "config file (default is ./.smoketest.yaml or $HOME/.smoketest.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "print only the summary (and --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml, wide")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("smoketest {{.Version}}\n")

	// A bare `smoketest` behaves like `smoketest run`.
	run.Attach(rootCmd, a)

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if configFile := mustGetString(cmd, "config"); configFile != "" {
		config, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(Flags{
		Verbose:  mustGetBool(cmd, "verbose"),
		Quiet:    mustGetBool(cmd, "quiet"),
		NoColor:  mustGetBool(cmd, "no-color"),
		Format:   mustGetString(cmd, "format"),
		LogLevel: mustGetString(cmd, "log-level"),
		Root:     mustGetString(cmd, "root"),
	})

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	// Reinitialize logger with updated config
	if !a.customLogger {
		logger := NewLogger(a.config, a.stderr)
		a.logger = &logger
	}

	loaded, err := envfile.Load(a.config.Root)
	if err != nil {
		return err
	}
	for _, path := range loaded {
		a.logger.Debug().Str("path", path).Msg("Loaded env file")
	}
	if a.config.ConfigFile != "" {
		a.logger.Debug().Str("path", a.config.ConfigFile).Msg("Using config file")
	}
	return nil
}

// ExitCode maps an Execute error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// ErrorMessage returns the line printed for err, or "" when the failure was
// already reported on stdout.
func ErrorMessage(err error) string {
	switch {
	case err == nil, errors.IsSmokeFailure(err):
		return ""
	case errors.IsValidationError(err):
		return "Error: " + err.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}

// ExitOnError prints err to stderr and exits with its exit code.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	printError(os.Stderr, err)
	os.Exit(ExitCode(err))
}

func printError(w io.Writer, err error) {
	if msg := ErrorMessage(err); msg != "" {
		_, _ = fmt.Fprintln(w, msg)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
