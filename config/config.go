// Package config loads pixhist settings from defaults, an optional TOML or
// YAML file and PIXHIST_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/pixhist/codec"
	"github.com/gogpu/pixhist/replay"
)

// Environment variables read by Load.
const (
	EnvCodec        = "PIXHIST_CODEC"
	EnvReplayMode   = "PIXHIST_REPLAY_MODE"
	EnvDigestPath   = "PIXHIST_DIGEST_PATH"
	EnvFrameDelayMS = "PIXHIST_FRAME_DELAY_MS"
	EnvCacheEntries = "PIXHIST_CACHE_ENTRIES"
	EnvLogLevel     = "PIXHIST_LOG_LEVEL"
)

// ErrUnsupportedFormat is returned for config files that are neither TOML
// nor YAML.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// Settings holds every tunable of the pixhist tools.
type Settings struct {
	// Codec names the snapshot compression codec.
	Codec string `toml:"codec" yaml:"codec"`

	// ReplayMode is off, record or verify.
	ReplayMode string `toml:"replay_mode" yaml:"replay_mode"`

	// DigestPath is the digest file read in verify mode and written in
	// record mode.
	DigestPath string `toml:"digest_path" yaml:"digest_path"`

	// FrameDelayMS is the per-frame delay of exported animations.
	FrameDelayMS int `toml:"frame_delay_ms" yaml:"frame_delay_ms"`

	// CacheEntries is the per-shard capacity of the pixel cache.
	// Zero disables the cache.
	CacheEntries int `toml:"cache_entries" yaml:"cache_entries"`

	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Codec:        codec.Default.Name(),
		ReplayMode:   replay.ModeOff.String(),
		FrameDelayMS: 160,
		CacheEntries: 8,
		LogLevel:     "info",
	}
}

// Load merges the file at path (if any) and the environment over the
// defaults and validates the result. An empty path or a missing file
// yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		if err := loadFile(path, &s); err != nil {
			return s, fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	if err := loadEnv(&s, os.LookupEnv); err != nil {
		return s, err
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func loadFile(path string, s *Settings) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, s)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, s)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func loadEnv(s *Settings, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCodec); ok && v != "" {
		s.Codec = v
	}
	if v, ok := lookup(EnvReplayMode); ok && v != "" {
		s.ReplayMode = v
	}
	if v, ok := lookup(EnvDigestPath); ok && v != "" {
		s.DigestPath = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		s.LogLevel = v
	}
	for name, dst := range map[string]*int{
		EnvFrameDelayMS: &s.FrameDelayMS,
		EnvCacheEntries: &s.CacheEntries,
	} {
		v, ok := lookup(name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks that every field names something pixhist understands.
func (s Settings) Validate() error {
	if _, err := codec.Lookup(s.Codec); err != nil {
		return fmt.Errorf("config: codec: %w", err)
	}
	if _, err := replay.ParseMode(s.ReplayMode); err != nil {
		return fmt.Errorf("config: replay_mode: %w", err)
	}
	if _, err := parseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	if s.FrameDelayMS < 0 {
		return fmt.Errorf("config: frame_delay_ms must be >= 0, got %d", s.FrameDelayMS)
	}
	if s.CacheEntries < 0 {
		return fmt.Errorf("config: cache_entries must be >= 0, got %d", s.CacheEntries)
	}
	return nil
}

// SnapshotCodec returns the configured codec. It panics if the settings
// have not been validated.
func (s Settings) SnapshotCodec() codec.Codec {
	c, err := codec.Lookup(s.Codec)
	if err != nil {
		panic(err)
	}
	return c
}

// Mode returns the configured replay mode, or ModeOff if it is invalid.
func (s Settings) Mode() replay.Mode {
	m, err := replay.ParseMode(s.ReplayMode)
	if err != nil {
		return replay.ModeOff
	}
	return m
}

// FrameDelay returns the animation frame delay.
func (s Settings) FrameDelay() time.Duration {
	return time.Duration(s.FrameDelayMS) * time.Millisecond
}

// SlogLevel returns the configured log level, or slog.LevelInfo if it is
// invalid.
func (s Settings) SlogLevel() slog.Level {
	l, err := parseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}
