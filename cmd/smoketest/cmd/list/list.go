// Package list implements the list command.
package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/smoketest/cmd/application"
	"github.com/agentstation/smoketest/internal/cmd/cmdutil"
	"github.com/agentstation/smoketest/internal/cmd/output"
	"github.com/agentstation/smoketest/internal/cmd/table"
	"github.com/agentstation/smoketest/pkg/discovery"
	"github.com/agentstation/smoketest/pkg/logging"
)

// NewCommand creates the list command.
func NewCommand(app application.Application) *cobra.Command {
	var ports *cmdutil.PortFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "endpoints"},
		Short:   "List the endpoints a run would probe, without sending requests",
		Example: `  smoketest list
  smoketest list -o wide
  smoketest list --port directory=9090 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides, err := ports.Parse()
			if err != nil {
				return err
			}
			format, err := output.Select(app.OutputFormat(), app.Stdout())
			if err != nil {
				return err
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			resolver := discovery.NewResolver(discovery.WithPorts(cmdutil.MergePorts(app.Ports(), overrides)))
			found, err := cmdutil.Discover(ctx, app.Root(), app.SpecPattern(), resolver)
			if err != nil {
				return err
			}

			services := found.Services
			if services == nil {
				services = []discovery.ServiceSpec{}
			}
			rows := table.EndpointsToTableData(services, format == output.FormatWide)
			return output.Write(app.Stdout(), format, rows, services)
		},
	}
	ports = cmdutil.AddPortFlags(cmd)
	return cmd
}
