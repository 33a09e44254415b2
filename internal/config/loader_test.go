package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultLoginPath, cfg.LoginPath)
	assert.Equal(t, DefaultHomePath, cfg.HomePath)
	assert.Equal(t, DefaultAuthPollInterval, cfg.AuthPollInterval)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
api_url: https://lucid.example.com
port: 9000
auth_poll_interval: 250ms
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://lucid.example.com", cfg.APIURL)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.AuthPollInterval)
	assert.Equal(t, DefaultLoginPath, cfg.LoginPath, "unset keys keep their defaults")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "port: 9000\n")
	t.Setenv("LUCID_CONSOLE_PORT", "9100")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("LUCID_CONSOLE_PORT", "9100")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", DefaultPort, "")
	flags.String("api-url", DefaultAPIURL, "")
	require.NoError(t, flags.Parse([]string{"--port", "9200"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Port)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL, "unchanged flags must not clobber other layers")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing api_url", func(c *Config) { c.APIURL = "" }, "api_url is required"},
		{"port too low", func(c *Config) { c.Port = 0 }, "port must be between"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "port must be between"},
		{"login equals home", func(c *Config) { c.HomePath = c.LoginPath }, "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				APIURL:    DefaultAPIURL,
				Port:      DefaultPort,
				LoginPath: DefaultLoginPath,
				HomePath:  DefaultHomePath,
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
