package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func load(t *testing.T, opts Options) (Config, error) {
	t.Helper()
	if opts.DotEnvPath == "" {
		opts.DotEnvPath = filepath.Join(t.TempDir(), "missing.env")
	}
	if opts.Lookup == nil {
		opts.Lookup = envMap(nil)
	}
	return Load(opts)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, Options{})
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "x-api-key", cfg.AuthHeader)
	assert.False(t, cfg.AuthEnabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoad_Env(t *testing.T) {
	cfg, err := load(t, Options{Lookup: envMap(map[string]string{
		EnvTransport:       "http",
		EnvPort:            "9090",
		EnvAuthEnabled:     "true",
		EnvAPIKeys:         " alpha, beta ,,gamma ",
		EnvAuthHeader:      "x-custom-key",
		EnvTools:           "minimal",
		EnvLogLevel:        "debug",
		EnvRateLimit:       "20",
		EnvRateBurst:       "40",
		EnvRequestTimeout:  "5s",
		EnvMaxRequestBytes: "2048",
		EnvCORSOrigins:     "https://a.example,https://b.example",
		EnvShutdownTimeout: "1m",
	})})
	require.NoError(t, err)

	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.AuthEnabled)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, cfg.APIKeys)
	assert.Equal(t, "x-custom-key", cfg.AuthHeader)
	assert.Equal(t, "minimal", cfg.ToolSet)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 20, cfg.RateLimit)
	assert.Equal(t, 40, cfg.RateBurst)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(2048), cfg.MaxRequestBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := writeFile(t, "inferenco.toml", `
transport = "websocket"
port = 7000
auth_enabled = true
api_keys = ["file-key"]
request_timeout = "45s"
`)

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := load(t, Options{ConfigPath: path})
		require.NoError(t, err)
		assert.Equal(t, TransportWebSocket, cfg.Transport)
		assert.Equal(t, 7000, cfg.Port)
		assert.Equal(t, []string{"file-key"}, cfg.APIKeys)
		assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "0.0.0.0", cfg.Host)
		assert.Equal(t, path, cfg.Source)
	})

	t.Run("env overrides file", func(t *testing.T) {
		cfg, err := load(t, Options{ConfigPath: path, Lookup: envMap(map[string]string{EnvPort: "7001"})})
		require.NoError(t, err)
		assert.Equal(t, 7001, cfg.Port)
		assert.Equal(t, TransportWebSocket, cfg.Transport)
	})

	t.Run("path from env", func(t *testing.T) {
		cfg, err := load(t, Options{Lookup: envMap(map[string]string{EnvConfig: path})})
		require.NoError(t, err)
		assert.Equal(t, 7000, cfg.Port)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		bad := writeFile(t, "bad.toml", "transprot = \"http\"\n")
		_, err := load(t, Options{ConfigPath: bad})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "transprot")
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := load(t, Options{ConfigPath: filepath.Join(t.TempDir(), "nope.toml")})
		assert.Error(t, err)
	})
}

func TestLoad_DotEnv(t *testing.T) {
	dotenv := writeFile(t, ".env", "INFERENCO_MCP_TRANSPORT=http\nINFERENCO_MCP_PORT=8181\n")

	t.Run("fills unset keys", func(t *testing.T) {
		cfg, err := load(t, Options{DotEnvPath: dotenv})
		require.NoError(t, err)
		assert.Equal(t, TransportHTTP, cfg.Transport)
		assert.Equal(t, 8181, cfg.Port)
	})

	t.Run("environment wins", func(t *testing.T) {
		cfg, err := load(t, Options{DotEnvPath: dotenv, Lookup: envMap(map[string]string{EnvPort: "8282"})})
		require.NoError(t, err)
		assert.Equal(t, 8282, cfg.Port)
		assert.Equal(t, TransportHTTP, cfg.Transport)
	})
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv(EnvTransport, "http")
	t.Setenv(EnvPort, "6060")

	cfg, err := Load(Options{DotEnvPath: filepath.Join(t.TempDir(), "none.env")})
	require.NoError(t, err)
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, 6060, cfg.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want []string
	}{
		{"unknown transport", map[string]string{EnvTransport: "carrier-pigeon"}, []string{"carrier-pigeon"}},
		{"unparsable port", map[string]string{EnvPort: "eighty"}, []string{EnvPort}},
		{"port out of range", map[string]string{EnvPort: "70000"}, []string{EnvPort}},
		{"zero port", map[string]string{EnvPort: "0"}, []string{EnvPort}},
		{"bad bool", map[string]string{EnvAuthEnabled: "maybe"}, []string{EnvAuthEnabled}},
		{"auth without keys", map[string]string{EnvAuthEnabled: "1"}, []string{"api_keys"}},
		{"auth without header", map[string]string{EnvAuthEnabled: "1", EnvAPIKeys: "k", EnvAuthHeader: ""}, []string{"auth_header"}},
		{"unknown tool set", map[string]string{EnvTools: "everything"}, []string{"everything"}},
		{"bad duration", map[string]string{EnvRequestTimeout: "soon"}, []string{EnvRequestTimeout}},
		{"negative rate", map[string]string{EnvRateLimit: "-1"}, []string{"rate_limit"}},
		{"zero body limit", map[string]string{EnvMaxRequestBytes: "0"}, []string{"max_request_bytes"}},
		{
			"errors are aggregated",
			map[string]string{EnvTransport: "tcp", EnvTools: "all", EnvLogLevel: "loud"},
			[]string{"tcp", "all", "loud"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, Options{Lookup: envMap(tt.env)})
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , ,"))
	assert.Equal(t, []string{"a", "b c"}, SplitList(" a ,b c,"))
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", " yes ", "on"} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"0", "false", "No", "off", ""} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, b, s)
	}
	_, err := ParseBool("perhaps")
	assert.Error(t, err)
}
