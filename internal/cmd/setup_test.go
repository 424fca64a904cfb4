package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig drops a config file pointing all output into the test's
// directory and returns its path together with the html dir.
func writeConfig(t *testing.T, extra string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	htmlDir := filepath.Join(dir, "html")

	content := fmt.Sprintf("html_dir: %s\nmarkdown_dir: %s\n%s",
		htmlDir, filepath.Join(dir, "md"), extra)

	path := filepath.Join(dir, "sitemd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path, htmlDir
}

func TestSetupRunsConfiguredCommand(t *testing.T) {
	t.Setenv("SITEMD_GENERATOR", "")

	cfgPath, htmlDir := writeConfig(t, "setup:\n  command: echo bootstrap-ok\n")

	code, out, _ := runCLI(t, "--config", cfgPath, "setup")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "bootstrap-ok")
	assert.Contains(t, out, "Setup complete")
	assert.FileExists(t, filepath.Join(htmlDir, ".setup-done"))
}

func TestSetupArgsOverrideConfig(t *testing.T) {
	t.Setenv("SITEMD_GENERATOR", "")

	cfgPath, _ := writeConfig(t, "setup:\n  command: echo from-config\n")

	code, out, _ := runCLI(t, "--config", cfgPath, "setup", "--", "echo", "from args")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "from args")
	assert.NotContains(t, out, "from-config")
}

func TestSetupExitStatus(t *testing.T) {
	t.Setenv("SITEMD_GENERATOR", "")

	cfgPath, htmlDir := writeConfig(t, "setup:\n  command: exit 3\n")

	code, _, errOut := runCLI(t, "--config", cfgPath, "setup")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "exited with 3")
	assert.NoFileExists(t, filepath.Join(htmlDir, ".setup-done"))
}

func TestSetupNoCommand(t *testing.T) {
	t.Setenv("SITEMD_GENERATOR", "")

	cfgPath, _ := writeConfig(t, "")

	code, _, errOut := runCLI(t, "--config", cfgPath, "setup")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no setup command configured")
}

func TestSetupShellPipeline(t *testing.T) {
	t.Setenv("SITEMD_GENERATOR", "")

	cfgPath, _ := writeConfig(t, "setup:\n  command: echo one && echo two\n")

	code, out, _ := runCLI(t, "--config", cfgPath, "setup")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
}
