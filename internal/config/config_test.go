package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", c.Host)
	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, time.Second, c.TickInterval)
	assert.Equal(t, "AAPL", c.DefaultSymbol)
	assert.True(t, c.MetricsEnabled)
	assert.Empty(t, c.NATSURL)
	assert.Equal(t, "0.0.0.0:8080", c.ListenAddr())
}

func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, `
port: 9000
tick_interval: 2s
default_symbol: MSFT
log_level: debug
nats_url: nats://file:4222
`)
	t.Setenv("DASH_PORT", "9100")
	t.Setenv("DASH_DEFAULT_SYMBOL", "TSLA")

	c, err := Load([]string{"-config", path, "-symbol", "AMD"})
	require.NoError(t, err)

	assert.Equal(t, 9100, c.Port, "env beats file")
	assert.Equal(t, 2*time.Second, c.TickInterval, "file beats default")
	assert.Equal(t, "AMD", c.DefaultSymbol, "flag beats env")
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "nats://file:4222", c.NATSURL)
}

func TestLoadConfigFileFromEnv(t *testing.T) {
	path := writeFile(t, "port: 7070\n")
	t.Setenv("CONFIG_FILE", path)

	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 7070, c.Port)
}

func TestLoadFlags(t *testing.T) {
	c, err := Load([]string{"-port", "8181", "-tick", "250ms", "-metrics=false", "-nats-url", "nats://x:4222", "-seed", "42"})
	require.NoError(t, err)

	assert.Equal(t, 8181, c.Port)
	assert.Equal(t, 250*time.Millisecond, c.TickInterval)
	assert.False(t, c.MetricsEnabled)
	assert.Equal(t, "nats://x:4222", c.NATSURL)
	assert.Equal(t, int64(42), c.Seed)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"missing file", []string{"-config", "/does/not/exist.yaml"}, nil},
		{"unknown flag", []string{"-bogus"}, nil},
		{"bad env value", nil, map[string]string{"DASH_PORT": "eighty"}},
		{"unknown symbol", []string{"-symbol", "ZZZZ"}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(tc.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeFile(t, "port: [\n")
	_, err := Load([]string{"-config", path})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port zero", func(c *Config) { c.Port = 0 }, "port"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "port"},
		{"zero interval", func(c *Config) { c.TickInterval = 0 }, "tick interval"},
		{"symbol", func(c *Config) { c.DefaultSymbol = "aapl" }, "unknown symbol"},
		{"send buffer", func(c *Config) { c.SendBufferSize = 0 }, "send buffer"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestSetupLogging(t *testing.T) {
	defer func(l zerolog.Logger, lvl zerolog.Level) {
		log.Logger = l
		zerolog.SetGlobalLevel(lvl)
	}(log.Logger, zerolog.GlobalLevel())

	var buf bytes.Buffer
	require.NoError(t, setupLogging(&buf, "warn", "json"))

	log.Info().Msg("hidden")
	log.Warn().Str("symbol", "AAPL").Msg("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, `"symbol":"AAPL"`)

	assert.Error(t, setupLogging(&buf, "loud", "json"))
}

func TestLoadIgnoresWindowSize(t *testing.T) {
	path := writeFile(t, "port: 9001\nwindow_size: 10\n")
	t.Setenv("DASH_WINDOW_SIZE", "12")

	c, err := Load([]string{"-config", path})
	require.NoError(t, err)
	assert.Equal(t, 9001, c.Port)
}
