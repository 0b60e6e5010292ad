package root

import (
	"github.com/spf13/cobra"
)

// RootCmd is the top-level hrms command.
var RootCmd = &cobra.Command{
	Use:           "hrms",
	Short:         "HRMS command line client",
	Long:          "Command line interface for the HR management API. Set HRMS_API_URL to target a non-local server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// GetRoot returns the RootCmd.
func GetRoot() *cobra.Command {
	return RootCmd
}
