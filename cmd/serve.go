package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"linkmcp/internal/config"
	"linkmcp/internal/server"
	"linkmcp/pkg/logging"
)

// serveConfigPath points at an optional YAML configuration file.
// Environment variables override file values.
var serveConfigPath string

// serveDebug enables verbose logging across the application.
var serveDebug bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the OAuth proxy and MCP tool server",
	Long: `Starts the HTTP server hosting the OAuth authorization proxy
(discovery, registration, authorize, callback, and token endpoints) and
the MCP streamable transport at /mcp.

Configuration comes from an optional YAML file (--config) overridden by
environment variables. LINKEDIN_CLIENT_ID and LINKEDIN_CLIENT_SECRET are
required; they identify this proxy at LinkedIn.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if serveDebug {
		cfg.Debug = true
	}

	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, rootCmd.Version).Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a YAML configuration file")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
}
