package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"agentflow/internal/app"
)

var (
	serveDebug      bool
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the agentflow backend server",
	Long: `Start the agentflow backend server.

The server exposes the WebSocket endpoint browser clients connect to for
execution lifecycle updates, the event ingress used by the workflow engine,
and a health endpoint. Credentials declared in the configuration file are
loaded into the credential store at startup and reloaded when the file
changes on disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Config directory path (default: ~/.config/agentflow)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg := app.NewConfig(serveDebug, serveConfigPath)

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return application.Run(ctx)
}
