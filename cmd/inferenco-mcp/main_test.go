package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferenco/inferenco-mcp/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "inferenco-mcp dev"), out)
}

func TestToolsCmd(t *testing.T) {
	t.Setenv(config.EnvTools, "")
	os.Unsetenv(config.EnvTools)

	out, err := execute(t, "tools")
	require.NoError(t, err)
	for _, name := range []string{"echo", "increment", "reverse", "dice", "clock"} {
		assert.Contains(t, out, name)
	}
	assert.True(t, strings.HasPrefix(out, "NAME"), out)
}

func TestToolsCmd_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inferenco.toml")
	require.NoError(t, os.WriteFile(path, []byte("tool_set = \"minimal\"\n"), 0o600))

	t.Setenv(config.EnvTools, "")
	os.Unsetenv(config.EnvTools)

	out, err := execute(t, "tools", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "increment")
	assert.NotContains(t, out, "dice")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	t.Setenv(config.EnvTransport, "carrier-pigeon")

	_, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRootCmd_TransportFlagValidated(t *testing.T) {
	_, err := execute(t, "--transport", "smoke-signal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}
