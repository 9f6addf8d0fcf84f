// Package run implements the smoke run command.
package run

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentstation/smoketest/cmd/application"
	"github.com/agentstation/smoketest/internal/cmd/cmdutil"
	"github.com/agentstation/smoketest/internal/cmd/console"
	"github.com/agentstation/smoketest/internal/cmd/output"
	"github.com/agentstation/smoketest/internal/cmd/table"
	"github.com/agentstation/smoketest/internal/metrics"
	"github.com/agentstation/smoketest/pkg/constants"
	"github.com/agentstation/smoketest/pkg/discovery"
	"github.com/agentstation/smoketest/pkg/errors"
	"github.com/agentstation/smoketest/pkg/logging"
	"github.com/agentstation/smoketest/pkg/probe"
)

// NewCommand creates the run command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Probe every testable GET endpoint, stopping at the first failure",
		Long: `Run scans <root>/microservices/*/openapi/*.yaml, extracts every GET
endpoint that can be called without path parameters or required headers,
and requests each one in order. The run stops at the first endpoint that
does not answer 2xx within the timeout and exits with status 1.

Relative server URLs are resolved to http://localhost:<port>, where the
port comes from --port, the config file, <SERVICE>_HOST_PORT or 8080.`,
		Example: `  smoketest run
  smoketest run --root ../portal --timeout 2s
  smoketest run --port directory=9090 --report smoke.json`,
		Args: cobra.NoArgs,
	}
	Attach(cmd, app)
	return cmd
}

// Attach adds the run flags to cmd and makes the smoke run its action.
// The root command uses it so a bare invocation runs the smoke test.
func Attach(cmd *cobra.Command, app application.Application) {
	flags := cmdutil.AddRunFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return Run(cmd, app, flags)
	}
}

// Run executes a smoke run. It returns a *errors.ProbeError when an endpoint fails.
func Run(cmd *cobra.Command, app application.Application, flags *cmdutil.RunFlags) error {
	overrides, err := flags.Parse()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	ctx = logging.WithRunID(ctx, runID)

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	structured := format == output.FormatJSON || format == output.FormatYAML

	var progress io.Writer = app.Stdout()
	if structured {
		progress = io.Discard
	}
	printer := console.NewPrinter(progress, app.NoColor(), app.Quiet())

	printer.Scanning()
	resolver := discovery.NewResolver(discovery.WithPorts(cmdutil.MergePorts(app.Ports(), overrides)))
	found, err := cmdutil.Discover(ctx, app.Root(), app.SpecPattern(), resolver)
	if err != nil {
		return err
	}
	if len(found.Files) == 0 {
		printer.NoSpecs()
		return nil
	}

	printer.Found(found.Stats.SpecFiles, found.Stats.Endpoints)
	if found.Stats.Endpoints == 0 {
		printer.NoEndpoints()
		return nil
	}

	collector := metrics.NewCollector()
	prober, err := probe.New(
		probe.WithTimeout(flags.EffectiveTimeout(cmd, app.Timeout())),
		probe.WithRunID(runID),
		probe.WithObserver(func(r probe.Result) {
			printer.Result(r)
			collector.Observe(r)
		}),
	)
	if err != nil {
		return err
	}

	report := prober.Run(ctx, found.Services)
	report.SpecFiles = found.Stats.SpecFiles
	collector.Record(report)

	printer.Summary(report)
	if format == output.FormatWide && !app.Quiet() {
		if err := output.Write(app.Stdout(), format, table.ResultsToTableData(report.Results), report); err != nil {
			return errors.WrapIO("write", "stdout", err)
		}
	}
	if structured {
		if err := output.NewFormatter(format).Format(app.Stdout(), report); err != nil {
			return errors.WrapIO("write", "stdout", err)
		}
	}

	if err := writeArtifacts(ctx, flags, report, collector); err != nil {
		return err
	}
	return report.Err()
}

// writeArtifacts writes the optional report and metrics files.
func writeArtifacts(ctx context.Context, flags *cmdutil.RunFlags, report *probe.Report, collector *metrics.Collector) error {
	logger := logging.FromContext(ctx)

	if flags.Report != "" {
		if err := WriteReport(flags.Report, report); err != nil {
			return err
		}
		logger.Debug().Str("path", flags.Report).Msg("Wrote run report")
	}

	if flags.MetricsFile != "" {
		if err := collector.WriteTextfile(flags.MetricsFile); err != nil {
			return err
		}
		logger.Debug().Str("path", flags.MetricsFile).Msg("Wrote metrics textfile")
	}
	return nil
}

// WriteReport writes report as indented JSON to path.
func WriteReport(path string, report *probe.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("mkdir", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := (&output.JSONFormatter{Indent: "  "}).Format(f, report); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return f.Close()
}
