package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"comet/internal/game"
)

// Env vars read by LoadFromEnv.
const (
	EnvConfigPath = "COMET_CONFIG"
	EnvSeed       = "COMET_SEED"

	DefaultPath = "config/comet.toml"
)

type Config struct {
	Seed        uint64 `toml:"seed"` // 0 picks one from the clock
	Preset      string `toml:"preset"`
	PresetsFile string `toml:"presets_file"`
	Renderer    string `toml:"renderer"` // "gl" or "terminal"
	TPS         int    `toml:"tps"`      // simulation ticks per second

	Window  WindowConfig  `toml:"window"`
	Camera  CameraConfig  `toml:"camera"`
	Audio   AudioConfig   `toml:"audio"`
	Logging LoggingConfig `toml:"logging"`
}

type WindowConfig struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Fullscreen bool   `toml:"fullscreen"`
	VSync      bool   `toml:"vsync"`
}

// CameraConfig overrides the preset's camera when Override is set.
type CameraConfig struct {
	Override    bool       `toml:"override"`
	Position    [3]float64 `toml:"position"`
	Target      [3]float64 `toml:"target"`
	FOV         float64    `toml:"fov"`
	MoveSpeed   float64    `toml:"move_speed"`  // world units per second
	Sensitivity float64    `toml:"sensitivity"` // radians per pixel
	Shake       bool       `toml:"shake"`
}

type AudioConfig struct {
	Enabled    bool    `toml:"enabled"`
	SampleRate int     `toml:"sample_rate"`
	Volume     float64 `toml:"volume"` // 0.0-1.0
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty logs to stderr
}

// Load reads path over the defaults. A missing file is not an error; the
// defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by COMET_CONFIG (or DefaultPath) and
// applies COMET_SEED.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultPath
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if s := os.Getenv(EnvSeed); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, &game.ConfigError{Field: EnvSeed, Reason: err.Error()}
		}
		cfg.Seed = v
	}
	return cfg, nil
}

// ResolveSeed returns the configured seed, or one derived from now.
func (c *Config) ResolveSeed(now time.Time) uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(now.UnixNano())
}

// TickInterval is the wall duration of one simulation tick.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TPS)
}

func (c *Config) validate() error {
	switch c.Renderer {
	case RendererGL, RendererTerminal:
	default:
		return &game.ConfigError{Field: "renderer", Reason: fmt.Sprintf("unknown renderer %q", c.Renderer)}
	}
	if c.TPS <= 0 || c.TPS > 1000 {
		return &game.ConfigError{Field: "tps", Reason: fmt.Sprintf("must be in 1..1000, got %d", c.TPS)}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return &game.ConfigError{Field: "window", Reason: "width and height must be > 0"}
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return &game.ConfigError{Field: "audio.volume", Reason: fmt.Sprintf("must be in 0..1, got %g", c.Audio.Volume)}
	}
	if !(c.Camera.FOV > 0 && c.Camera.FOV < 180) {
		return &game.ConfigError{Field: "camera.fov", Reason: fmt.Sprintf("must be in (0, 180) degrees, got %g", c.Camera.FOV)}
	}
	if _, err := c.Logging.ZapLevel(); err != nil {
		return &game.ConfigError{Field: "logging.level", Reason: err.Error()}
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return &game.ConfigError{Field: "logging.format", Reason: fmt.Sprintf("must be console or json, got %q", c.Logging.Format)}
	}
	return nil
}

// ZapLevel parses Level; an empty level means info.
func (l LoggingConfig) ZapLevel() (zapcore.Level, error) {
	if l.Level == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, err
	}
	return level, nil
}

const (
	RendererGL       = "gl"
	RendererTerminal = "terminal"
)

func defaults() *Config {
	return &Config{
		Preset:      "station",
		PresetsFile: "config/presets.yaml",
		Renderer:    RendererGL,
		TPS:         60,
		Window: WindowConfig{
			Title:  "comet",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Camera: CameraConfig{
			FOV:         game.DefaultFOV,
			MoveSpeed:   40,
			Sensitivity: 0.0025,
			Shake:       true,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     0.5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
