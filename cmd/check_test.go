package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agentflow/internal/config"
)

func TestSecretPreviewMasksValues(t *testing.T) {
	tests := []struct {
		name string
		spec config.CredentialSpec
		want string
	}{
		{
			name: "bearer token",
			spec: config.CredentialSpec{Scheme: "bearer", Token: "hunter22"},
			want: "hu****22",
		},
		{
			name: "basic password",
			spec: config.CredentialSpec{Scheme: "basic", Username: "admin", Password: "pw"},
			want: "****",
		},
		{
			name: "oauth2 client secret",
			spec: config.CredentialSpec{Scheme: "oauth2", ClientSecret: "supersecretvalue"},
			want: "su**********ue",
		},
		{
			name: "none scheme has no secret",
			spec: config.CredentialSpec{Scheme: "none"},
			want: "-",
		},
		{
			name: "unknown scheme",
			spec: config.CredentialSpec{Scheme: "kerberos"},
			want: "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := secretPreview(tt.spec); got != tt.want {
				t.Errorf("secretPreview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCredentialStatusGroupsFindingsByIndex(t *testing.T) {
	errs := config.ValidationErrors{
		{Field: "credentials[0].name", Message: "credential name is required"},
		{Field: "credentials[1]", Message: "bearer config requires a token"},
		{Field: "server.port", Message: "port 99999 is out of range"},
	}

	if got := credentialStatus(0, errs); got != "credential name is required" {
		t.Errorf("credentialStatus(0) = %q", got)
	}
	if got := credentialStatus(1, errs); got != "bearer config requires a token" {
		t.Errorf("credentialStatus(1) = %q", got)
	}
	if got := credentialStatus(2, errs); got != "ok" {
		t.Errorf("credentialStatus(2) = %q, want 'ok'", got)
	}
}

func TestRunCheckValidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgYAML := `
credentials:
  - name: github
    scheme: bearer
    token: ghp_example_token
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfgYAML), 0644); err != nil {
		t.Fatal(err)
	}

	originalPath := checkConfigPath
	defer func() { checkConfigPath = originalPath }()
	checkConfigPath = dir

	var buf strings.Builder
	checkCmd.SetOut(&buf)

	if err := runCheck(checkCmd, nil); err != nil {
		t.Fatalf("runCheck() returned error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Configuration is valid.") {
		t.Errorf("Expected valid-config message, got:\n%s", output)
	}
	if !strings.Contains(output, "github") {
		t.Errorf("Expected credential name in table, got:\n%s", output)
	}
	if strings.Contains(output, "ghp_example_token") {
		t.Errorf("Raw secret leaked into output:\n%s", output)
	}
}
