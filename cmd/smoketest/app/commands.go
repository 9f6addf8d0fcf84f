package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/smoketest/cmd/smoketest/cmd/completion"
	"github.com/agentstation/smoketest/cmd/smoketest/cmd/list"
	"github.com/agentstation/smoketest/cmd/smoketest/cmd/run"
	"github.com/agentstation/smoketest/cmd/smoketest/cmd/specs"
	"github.com/agentstation/smoketest/cmd/smoketest/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(run.NewCommand(a))
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(specs.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())
}
