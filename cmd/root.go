package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the linkmcp application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "linkmcp",
	Short: "LinkedIn MCP server with a built-in OAuth authorization proxy",
	Long: `linkmcp exposes LinkedIn profile, company, posting, and analytics
operations as MCP tools, and fronts them with an OAuth 2.0 authorization
proxy so MCP clients can authenticate end users against LinkedIn without
manual token handling.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This is called from the main package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "linkmcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
