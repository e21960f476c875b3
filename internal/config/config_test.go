package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"

	"comet/internal/game"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Preset != "station" || cfg.Renderer != RendererGL || cfg.TPS != 60 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "comet.toml", `
seed = 77
preset = "comet"
renderer = "terminal"
tps = 30

[window]
width = 640

[audio]
enabled = false

[logging]
level = "debug"
format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 77 || cfg.Preset != "comet" || cfg.Renderer != RendererTerminal || cfg.TPS != 30 {
		t.Errorf("top-level keys not applied: %+v", cfg)
	}
	if cfg.Window.Width != 640 || cfg.Window.Height != 720 {
		t.Errorf("Expected width override and default height, got %+v", cfg.Window)
	}
	if cfg.Audio.Enabled || cfg.Audio.SampleRate != 44100 {
		t.Errorf("unexpected audio config: %+v", cfg.Audio)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected json logging, got %q", cfg.Logging.Format)
	}
	if got := cfg.TickInterval(); got != time.Second/30 {
		t.Errorf("Expected tick interval %v, got %v", time.Second/30, got)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"renderer", `renderer = "vulkan"`},
		{"tps", `tps = 0`},
		{"window", "[window]\nheight = -1"},
		{"volume", "[audio]\nvolume = 2.0"},
		{"log level", "[logging]\nlevel = \"loud\""},
		{"log format", "[logging]\nformat = \"xml\""},
		{"fov zero", "[camera]\nfov = 0.0"},
		{"fov wide", "[camera]\nfov = 180.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.toml", tt.body))
			if !errors.Is(err, game.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoggingZapLevel(t *testing.T) {
	for in, want := range map[string]zapcore.Level{"": zapcore.InfoLevel, "debug": zapcore.DebugLevel, "WARN": zapcore.WarnLevel} {
		got, err := LoggingConfig{Level: in}.ZapLevel()
		if err != nil || got != want {
			t.Errorf("level %q: got %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := (LoggingConfig{Level: "loud"}).ZapLevel(); err == nil {
		t.Error("Expected an error for an unknown level")
	}
}

func TestLoadParseError(t *testing.T) {
	_, err := Load(writeFile(t, "c.toml", "seed = ["))
	if err == nil {
		t.Fatal("Expected a parse error")
	}
	if errors.Is(err, game.ErrInvalidConfig) {
		t.Error("parse errors are not validation errors")
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeFile(t, "c.toml", "seed = 5\n")
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvSeed, "12345")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 12345 {
		t.Errorf("Expected COMET_SEED to win, got %d", cfg.Seed)
	}

	t.Setenv(EnvSeed, "abc")
	if _, err := LoadFromEnv(); !errors.Is(err, game.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a bad seed, got %v", err)
	}
}

func TestResolveSeed(t *testing.T) {
	now := time.Unix(0, 987654321)
	if got := (&Config{Seed: 3}).ResolveSeed(now); got != 3 {
		t.Errorf("Expected configured seed, got %d", got)
	}
	if got := (&Config{}).ResolveSeed(now); got != 987654321 {
		t.Errorf("Expected clock seed, got %d", got)
	}
}
