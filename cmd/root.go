package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeInvalidConfig indicates the configuration failed validation.
	ExitCodeInvalidConfig = 2
)

// rootCmd represents the base command for the agentflow backend.
var rootCmd = &cobra.Command{
	Use:   "agentflow",
	Short: "Backend services for the agentflow workflow builder",
	Long: `agentflow runs the backend services of the agentflow visual workflow
builder: the request-authentication dispatcher that signs outbound HTTP
calls made by workflow nodes, and the real-time event service that fans
execution lifecycle updates out to browser clients over WebSocket
connections.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "agentflow version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}
