package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"agentflow/internal/auth"
	"agentflow/internal/config"
	"agentflow/internal/credential"
)

var checkConfigPath string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration file",
	Long: `Validate the configuration file and the credentials it declares.

Loads the configuration the same way 'agentflow serve' does, runs full
validation, and prints one row per declared credential with its scheme,
a masked preview of its secret material, and any validation findings.
Secrets are never printed in full.

Exits with a non-zero status when the configuration is invalid.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkConfigPath, "config-path", "", "Config directory path (default: ~/.config/agentflow)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := checkConfigPath
	if path == "" {
		path = config.GetDefaultConfigPathOrPanic()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}

	errs := config.Validate(cfg)

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration: %s\n\n", config.ConfigFilePath(path))
	renderCredentialTable(cmd, cfg, errs)

	if errs.HasErrors() {
		fmt.Fprintf(cmd.OutOrStdout(), "\nConfiguration is invalid (%d problem(s)):\n", len(errs))
		for _, ve := range errs {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", ve.Error())
		}
		os.Exit(ExitCodeInvalidConfig)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\nConfiguration is valid.")
	return nil
}

func renderCredentialTable(cmd *cobra.Command, cfg config.AgentFlowConfig, errs config.ValidationErrors) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"NAME", "SCHEME", "SECRET", "STATUS"})

	if len(cfg.Credentials) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No credentials declared.")
		return
	}

	for i, spec := range cfg.Credentials {
		t.AppendRow(table.Row{
			spec.Name,
			spec.Scheme,
			secretPreview(spec),
			credentialStatus(i, errs),
		})
	}

	t.Render()
}

// secretPreview returns a masked preview of the credential's secret
// material. The raw value never reaches the terminal.
func secretPreview(spec config.CredentialSpec) string {
	cfg, err := spec.ToAuthConfig()
	if err != nil {
		return "-"
	}

	switch c := credential.MaskConfig(cfg).(type) {
	case auth.APIKey:
		return c.Value
	case auth.Basic:
		return c.Password
	case auth.Bearer:
		return c.Token
	case auth.OAuth2:
		return c.ClientSecret
	default:
		return "-"
	}
}

// credentialStatus summarizes the validation findings for the credential at
// the given index. Validate tags findings with a "credentials[i]" field
// prefix, which ties each finding back to its row.
func credentialStatus(index int, errs config.ValidationErrors) string {
	prefix := fmt.Sprintf("credentials[%d]", index)

	var findings []string
	for _, ve := range errs {
		if strings.HasPrefix(ve.Field, prefix) {
			findings = append(findings, ve.Message)
		}
	}
	if len(findings) == 0 {
		return "ok"
	}
	return strings.Join(findings, "; ")
}
