// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skyport",
	Short: "Skyport panel settings service",
	Long: `Skyport serves the administrative settings of the panel:
display name, registration and verification toggles, theme colors,
SMTP settings and the logo.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
