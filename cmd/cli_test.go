package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountsAddThenList(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home,
		"accounts", "add",
		"--name", "Alice",
		"--handle", "7506",
		"--address", "393513919566@c.us",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "added Alice (393513919566@c.us)")

	_, _, err = executeCLI(t, home, "accounts", "add", "--handle", "15037", "--address", "393271696617@c.us")
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, home, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "accounts: 2")
	assert.Contains(t, stdout, "Alice")
	assert.Contains(t, stdout, "393271696617@c.us")
	assert.Contains(t, stdout, "peers: 1")
}

func TestAccountsAddRejectsDuplicateAddress(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeRegistryFixture(home))

	_, _, err := executeCLI(t, home, "accounts", "add", "--handle", "99", "--address", "a@c.us")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate account address")
}

func TestAccountsAddRequiresHandle(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "accounts", "add", "--address", "a@c.us")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"handle\" not set")
}

func TestWindowAtInstant(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "window", "--at", "2026-03-02T20:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, stdout, "06:00-23:00 America/Los_Angeles")
	assert.Contains(t, stdout, "closes in 11 hours at 23:00")

	stdout, _, err = executeCLI(t, home, "window", "--at", "2026-03-02T10:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, stdout, "closed")
	assert.Contains(t, stdout, "opens in 4 hours at 06:00")
}

func TestWindowHonoursConfigFile(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\ntimezone = \"UTC\"\nstart = \"09:00\"\nend = \"17:00\"\n"), 0o600))

	stdout, _, err := executeCLI(t, home, "--config", path, "window", "--at", "2026-03-02T08:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, stdout, "09:00-17:00 UTC")
	assert.Contains(t, stdout, "opens in 1 hour")
}

func TestInvalidConfigFailsFast(t *testing.T) {
	home := t.TempDir()
	t.Setenv("WARMER_WINDOW_TIMEZONE", "Mars/Olympus")

	_, _, err := executeCLI(t, home, "window")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestGenerateDryRunPrintsMessage(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "generate", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "words)")
}

func TestGenerateWithoutCredentialsFails(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load credentials")
}

func TestRunWithEmptyRegistryFails(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "run", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account registry is empty")
}

func TestRunWithoutCredentialsFails(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeRegistryFixture(home))

	_, _, err := executeCLI(t, home, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load credentials")
	assert.Contains(t, err.Error(), "warmer/openai_api_key")
	assert.Contains(t, err.Error(), "warmer/waapi_token")
}

func TestCredentialsSetFallsBackToFileStore(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "credentials", "set", "--key", "waapi", "--value", "tok-123")
	require.NoError(t, err)
	assert.Contains(t, stdout, "stored warmer/waapi_token")

	data, err := os.ReadFile(filepath.Join(home, ".config", "warmer", "secrets", "warmer", "waapi_token"))
	require.NoError(t, err)
	assert.Equal(t, "tok-123", string(data))
}

func TestVersionSkipsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("WARMER_WINDOW_TIMEZONE", "Mars/Olympus")

	stdout, _, err := executeCLI(t, home, "version")
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("PASSWORD_STORE_DIR", filepath.Join(home, ".password-store"))
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("WAAPI_TOKEN", "")
	t.Chdir(home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeRegistryFixture(home string) error {
	configDir := filepath.Join(home, ".config", "warmer")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	registry := `version = 1

[[accounts]]
name = "Alice"
routing_handle = "7506"
address = "a@c.us"

[[accounts]]
name = "Bob"
routing_handle = "15037"
address = "b@c.us"
`

	return os.WriteFile(filepath.Join(configDir, "accounts.toml"), []byte(registry), 0o600)
}
