// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-wings-provision",
	Short: "GoWings-Provision is a self-provisioning plugin for game-server panels",
	Long: `GoWings-Provision lets panel users create their own game servers within
an administrator-defined policy (allowed locations, nodes, realms and spells,
resource minimums and per-user or per-group permission grants) and provides
the admin API for managing that policy.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
