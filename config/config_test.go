package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/pixhist/codec"
	"github.com/gogpu/pixhist/replay"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvCodec, EnvReplayMode, EnvDigestPath, EnvFrameDelayMS, EnvCacheEntries, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.Equal(t, codec.Snappy, s.SnapshotCodec())
	assert.Equal(t, replay.ModeOff, s.Mode())
	assert.Equal(t, 160*time.Millisecond, s.FrameDelay())
	assert.Equal(t, slog.LevelInfo, s.SlogLevel())
}

func TestMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadTOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "pixhist.toml", `
codec = "zstd"
replay_mode = "verify"
digest_path = "run.digest"
frame_delay_ms = 40
`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "zstd", s.Codec)
	assert.Equal(t, replay.ModeVerify, s.Mode())
	assert.Equal(t, "run.digest", s.DigestPath)
	assert.Equal(t, 40*time.Millisecond, s.FrameDelay())
	assert.Equal(t, 8, s.CacheEntries, "unset keys keep their defaults")
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "pixhist.yml", "codec: s2\ncache_entries: 0\nlog_level: debug\n")
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, codec.S2, s.SnapshotCodec())
	assert.Zero(t, s.CacheEntries)
	assert.Equal(t, slog.LevelDebug, s.SlogLevel())
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "pixhist.toml", "codec = \"zstd\"\nframe_delay_ms = 40\n")
	t.Setenv(EnvCodec, "flate")
	t.Setenv(EnvFrameDelayMS, "100")
	t.Setenv(EnvReplayMode, "record")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "flate", s.Codec)
	assert.Equal(t, 100, s.FrameDelayMS)
	assert.Equal(t, replay.ModeRecord, s.Mode())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		env  map[string]string
	}{
		{name: "unknown codec", file: "a.toml", body: `codec = "lz4"`},
		{name: "unknown mode", file: "a.yaml", body: "replay_mode: rewind\n"},
		{name: "bad level", file: "a.yaml", body: "log_level: loud\n"},
		{name: "negative delay", file: "a.toml", body: "frame_delay_ms = -1"},
		{name: "malformed toml", file: "a.toml", body: "codec = "},
		{name: "env not a number", env: map[string]string{EnvCacheEntries: "many"}},
		{name: "env negative cache", env: map[string]string{EnvCacheEntries: "-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file, tt.body)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestUnsupportedFormat(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "pixhist.ini", "codec=none"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
