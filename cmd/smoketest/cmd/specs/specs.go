// Package specs implements the specs command.
package specs

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/smoketest/cmd/application"
	"github.com/agentstation/smoketest/internal/cmd/output"
	"github.com/agentstation/smoketest/internal/cmd/table"
	"github.com/agentstation/smoketest/pkg/discovery"
	"github.com/agentstation/smoketest/pkg/errors"
	"github.com/agentstation/smoketest/pkg/logging"
	"github.com/agentstation/smoketest/pkg/openapi"
)

// NewCommand creates the specs command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "specs",
		Short: "Show the discovered spec files and how many endpoints each contributes",
		Example: `  smoketest specs
  smoketest specs -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.Select(app.OutputFormat(), app.Stdout())
			if err != nil {
				return err
			}

			rows, err := Collect(app)
			if err != nil {
				return err
			}
			return output.Write(app.Stdout(), format, table.SpecsToTableData(rows, format == output.FormatWide), rows)
		},
	}
}

// Collect describes every spec file under the application root.
// Unreadable or malformed files are errors; classification failures are noted on the row.
func Collect(app application.Application) ([]table.SpecRow, error) {
	logger := app.Logger()

	files, err := openapi.Discover(app.Root(), app.SpecPattern())
	if err != nil {
		return nil, err
	}

	resolver := discovery.NewResolver(discovery.WithPorts(app.Ports()))
	rows := make([]table.SpecRow, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.WrapIO("read", file, err)
		}
		doc, err := openapi.Parse(data, file)
		if err != nil {
			return nil, err
		}

		spec := discovery.FromDocument(file, doc, resolver)
		row := table.SpecRow{
			File:      file,
			Service:   spec.ServiceName,
			Version:   doc.Version(),
			ServerURL: spec.DeclaredURL,
			BaseURL:   spec.BaseURL,
			Paths:     len(doc.Paths),
			Testable:  len(spec.Endpoints),
		}

		info, err := openapi.Inspect(data)
		if err != nil {
			logger.Warn().Err(err).Str(logging.SpecFileKey, file).Msg("Could not classify spec")
			row.InspectNote = err.Error()
		} else {
			row.Type = info.Type
			if info.Version != "" {
				row.Version = info.Version
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
