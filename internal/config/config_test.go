package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)

		assert.Equal(t, Dev, cfg.Env)
		assert.Equal(t, "127.0.0.1:6379", cfg.Network.Address)
		assert.Zero(t, cfg.Network.MaxConnections)
		assert.Zero(t, cfg.Network.IdleTimeout)
		assert.Zero(t, cfg.Protocol.MaxLineSizeBytes)
		assert.Zero(t, cfg.Protocol.MaxArrayLen)
		assert.Zero(t, cfg.Protocol.MaxDepth)
		assert.Equal(t, "stdout", cfg.Logging.Output)
	})

	t.Run("yaml file", func(t *testing.T) {
		path := writeConfig(t, `
env: prod
network:
  address: "0.0.0.0:7000"
  max_connections: 10
  idle_timeout: 30s
protocol:
  max_line_size: 64KB
  max_array_len: 128
  max_depth: 4
logging:
  level: warn
  output: stderr
`)

		cfg, err := NewConfig(path)
		require.NoError(t, err)

		assert.Equal(t, Prod, cfg.Env)
		assert.Equal(t, "0.0.0.0:7000", cfg.Network.Address)
		assert.Equal(t, 10, cfg.Network.MaxConnections)
		assert.Equal(t, 30*time.Second, cfg.Network.IdleTimeout)
		assert.Equal(t, uint64(64*1024), cfg.Protocol.MaxLineSizeBytes)
		assert.Equal(t, 128, cfg.Protocol.MaxArrayLen)
		assert.Equal(t, 4, cfg.Protocol.MaxDepth)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, "stderr", cfg.Logging.Output)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("RESPKV_ADDRESS", "127.0.0.1:6390")
		t.Setenv("RESPKV_MAX_DEPTH", "2")

		cfg, err := NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:6390", cfg.Network.Address)
		assert.Equal(t, 2, cfg.Protocol.MaxDepth)
	})

	t.Run("invalid values", func(t *testing.T) {
		testCases := []struct {
			name    string
			content string
		}{
			{"unknown env", "env: staging\n"},
			{"bad size", "protocol:\n  max_line_size: 12.3MB\n"},
			{"negative depth", "protocol:\n  max_depth: -1\n"},
			{"negative connections", "network:\n  max_connections: -5\n"},
			{"unknown output", "logging:\n  output: file\n"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewConfig(writeConfig(t, tc.content))
				assert.Error(t, err)
			})
		}
	})

	t.Run("unreadable path", func(t *testing.T) {
		// путь через обычный файл даёт ENOTDIR, а не ErrNotExist
		path := filepath.Join(writeConfig(t, "env: prod\n"), "inner.yaml")

		_, err := NewConfig(path)
		require.Error(t, err)
		assert.NotErrorIs(t, err, fs.ErrNotExist)
		assert.Contains(t, err.Error(), "failed to stat config file")
	})
}

func TestWithPort(t *testing.T) {
	cfg := &Config{Network: NetworkConfig{Address: "127.0.0.1:6379"}}

	require.NoError(t, cfg.WithPort(6380))
	assert.Equal(t, "127.0.0.1:6380", cfg.Network.Address)

	cfg.Network.Address = "no-port"
	assert.Error(t, cfg.WithPort(6380))
}
