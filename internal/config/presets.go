package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"comet/internal/game"
)

// Preset is one named scene as stored in presets.yaml.
type Preset struct {
	Name        string          `yaml:"name"`
	CometRadius float64         `yaml:"comet_radius"`
	Camera      PresetCamera    `yaml:"camera"`
	Path        PresetPath      `yaml:"path"`
	Pools       []PresetPool    `yaml:"pools"`
	Structure   PresetStruct    `yaml:"structure"`
	Firing      PresetFiring    `yaml:"firing"`
	Stars       PresetStarfield `yaml:"stars"`
	Ground      PresetGround    `yaml:"ground"`
	Tail        PresetTail      `yaml:"tail"`
	Label       PresetLabel     `yaml:"label"`
}

type PresetCamera struct {
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`
}

type PresetPath struct {
	Kind string `yaml:"kind"` // "linear" or "circular"

	// linear
	StartX    float64 `yaml:"start_x"`
	EndX      float64 `yaml:"end_x"`
	Duration  int64   `yaml:"duration_ticks"`
	Amplitude float64 `yaml:"amplitude"`

	// circular
	Radius       float64 `yaml:"radius"`
	CenterX      float64 `yaml:"center_x"`
	CenterZ      float64 `yaml:"center_z"`
	AngularSpeed float64 `yaml:"angular_speed"`

	Height float64 `yaml:"height"`
}

type PresetPool struct {
	Name        string  `yaml:"name"`
	Count       int     `yaml:"count"`
	SpeedScale  float64 `yaml:"speed_scale"`
	SpreadScale float64 `yaml:"spread_scale"`
	DecayScale  float64 `yaml:"decay_scale"`
	Color       string  `yaml:"color"` // #rrggbb
	Size        float32 `yaml:"size"`
	Opacity     float32 `yaml:"opacity"`
}

type PresetStruct struct {
	Enabled     bool         `yaml:"enabled"`
	Center      [3]float64   `yaml:"center"`
	Spin        float64      `yaml:"spin"`
	Radius      float64      `yaml:"radius"`
	Details     int          `yaml:"details"`
	DetailScale float64      `yaml:"detail_scale"`
	MaxAttempts int          `yaml:"max_attempts"`
	Dish        PresetZone   `yaml:"dish"`
	Exclude     []PresetZone `yaml:"exclude"`
}

// PresetZone is a spot on the structure surface in degrees.
type PresetZone struct {
	Phi    float64 `yaml:"phi_deg"`
	Theta  float64 `yaml:"theta_deg"`
	Radius float64 `yaml:"radius"`
}

type PresetFiring struct {
	CycleMs    int64   `yaml:"cycle_ms"`
	ActiveMs   int64   `yaml:"active_ms"`
	Base       float64 `yaml:"base_intensity"`
	Amplitude  float64 `yaml:"amplitude"`
	PulseRate  float64 `yaml:"pulse_rate"`
	BeamLength float64 `yaml:"beam_length"`
}

type PresetStarfield struct {
	Count  int     `yaml:"count"`
	Spread float64 `yaml:"spread"`
	Height float64 `yaml:"height"`
	Spin   float64 `yaml:"spin"`
	Size   float32 `yaml:"size"`
}

type PresetGround struct {
	Enabled bool    `yaml:"enabled"`
	Height  float64 `yaml:"height"`
	Size    float64 `yaml:"size"`
	Spacing float64 `yaml:"spacing"`
	Color   string  `yaml:"color"`
}

// PresetTail is the cone behind the comet; zero length means no tail.
type PresetTail struct {
	Length  float64 `yaml:"length"`
	Radius  float64 `yaml:"radius"`
	Color   string  `yaml:"color"`
	Opacity float32 `yaml:"opacity"`
}

type PresetLabel struct {
	Text   string     `yaml:"text"`
	Offset [3]float64 `yaml:"offset"`
}

type presetsFile struct {
	Presets []Preset `yaml:"presets"`
}

// Catalog holds the built-in presets plus any loaded from YAML. A loaded
// preset replaces a built-in of the same name.
type Catalog struct {
	byName map[string]Preset
}

func NewCatalog() *Catalog {
	c := &Catalog{byName: make(map[string]Preset)}
	for _, p := range builtinPresets() {
		c.byName[p.Name] = p
	}
	return c
}

// LoadFile merges the presets in path into the catalog. An empty path or a
// missing file is a no-op.
func (c *Catalog) LoadFile(path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read presets %s: %w", path, err)
	}
	return c.Parse(data)
}

// Parse merges YAML preset data into the catalog. Every entry is checked
// before any is merged, so a failed Parse leaves the catalog unchanged.
func (c *Catalog) Parse(data []byte) (int, error) {
	var f presetsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("parse presets: %w", err)
	}
	seen := make(map[string]bool, len(f.Presets))
	for i, p := range f.Presets {
		if p.Name == "" {
			return 0, &game.ConfigError{Field: fmt.Sprintf("presets[%d].name", i), Reason: "must not be empty"}
		}
		if seen[p.Name] {
			return 0, &game.ConfigError{Field: fmt.Sprintf("presets[%d].name", i), Reason: fmt.Sprintf("duplicate preset %q", p.Name)}
		}
		seen[p.Name] = true
		if _, err := p.Scene(0); err != nil {
			return 0, err
		}
	}
	for _, p := range f.Presets {
		c.byName[p.Name] = p
	}
	return len(f.Presets), nil
}

func (c *Catalog) Lookup(name string) (Preset, error) {
	p, ok := c.byName[name]
	if !ok {
		return Preset{}, &game.ConfigError{Field: "preset", Reason: fmt.Sprintf("unknown preset %q", name)}
	}
	return p, nil
}

// Names lists presets in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CameraPose returns the starting eye and look-at point.
func (p Preset) CameraPose() (pos, target mgl64.Vec3) {
	return mgl64.Vec3(p.Camera.Position), mgl64.Vec3(p.Camera.Target)
}

// Scene converts the preset into the core's configuration. Values are checked
// later by game.NewScene; only preset-level shape errors are reported here.
func (p Preset) Scene(seed uint64) (game.SceneConfig, error) {
	cfg := game.SceneConfig{
		Seed:        seed,
		CometRadius: p.CometRadius,
	}

	switch p.Path.Kind {
	case "linear":
		amp := p.Path.Amplitude
		if amp == 0 {
			amp = game.DefaultLinearAmplitude
		}
		cfg.Path = game.PathSpec{
			Kind: game.PathLinear,
			Linear: game.LinearPath{
				StartX:        p.Path.StartX,
				EndX:          p.Path.EndX,
				Height:        p.Path.Height,
				DurationTicks: p.Path.Duration,
				Amplitude:     amp,
			},
		}
	case "circular":
		cfg.Path = game.PathSpec{
			Kind: game.PathCircular,
			Circular: game.CircularPath{
				Radius:       p.Path.Radius,
				Height:       p.Path.Height,
				CenterX:      p.Path.CenterX,
				CenterZ:      p.Path.CenterZ,
				AngularSpeed: p.Path.AngularSpeed,
			},
		}
	default:
		return cfg, &game.ConfigError{Field: p.Name + ".path.kind", Reason: fmt.Sprintf("unknown path kind %q", p.Path.Kind)}
	}

	for _, pp := range p.Pools {
		col, err := hexOr(pp.Color, colorful.Color{R: 1, G: 1, B: 1}, p.Name+".pools."+pp.Name+".color")
		if err != nil {
			return cfg, err
		}
		cfg.Pools = append(cfg.Pools, game.PoolSpec{
			Name:        pp.Name,
			Count:       pp.Count,
			SpeedScale:  pp.SpeedScale,
			SpreadScale: pp.SpreadScale,
			DecayScale:  pp.DecayScale,
			Color:       col,
			Size:        pp.Size,
			Opacity:     pp.Opacity,
		})
	}

	st := p.Structure
	radius := st.Radius
	if radius <= 0 {
		radius = 1
	}
	cfg.Structure = game.StructureConfig{
		Center: mgl64.Vec3(st.Center),
		Spin:   st.Spin,
		Surface: game.SurfaceConfig{
			Radius:      radius,
			BaseScale:   st.DetailScale,
			MaxAttempts: st.MaxAttempts,
			Seed:        int64(seed),
		},
		Dish: game.DishConfig{Disabled: true},
	}
	if st.Enabled {
		cfg.Structure.Surface.Count = st.Details
		cfg.Structure.Dish = game.DishConfig{
			Phi:    mgl64.DegToRad(st.Dish.Phi),
			Theta:  mgl64.DegToRad(st.Dish.Theta),
			Radius: st.Dish.Radius,
		}
		for _, z := range st.Exclude {
			cfg.Structure.Extra = append(cfg.Structure.Extra,
				game.ExclusionZoneAt(radius, mgl64.DegToRad(z.Phi), mgl64.DegToRad(z.Theta), z.Radius))
		}
	}

	cfg.Firing = game.FiringConfig{
		CycleMs:       p.Firing.CycleMs,
		ActiveMs:      p.Firing.ActiveMs,
		BaseIntensity: orDefault(p.Firing.Base, game.DefaultBeamBase),
		Amplitude:     orDefault(p.Firing.Amplitude, game.DefaultBeamAmplitude),
		PulseRate:     orDefault(p.Firing.PulseRate, game.DefaultBeamPulseRate),
		BeamLength:    p.Firing.BeamLength,
	}
	if cfg.Firing.CycleMs == 0 {
		// No firing configured: a valid cycle that never opens.
		cfg.Firing.CycleMs = math.MaxInt32
		cfg.Firing.ActiveMs = 0
	}

	cfg.Stars = game.StarfieldConfig{
		Count:  p.Stars.Count,
		Spread: p.Stars.Spread,
		Height: p.Stars.Height,
		Spin:   p.Stars.Spin,
		Size:   p.Stars.Size,
	}

	groundCol, err := hexOr(p.Ground.Color, defaultGroundColor, p.Name+".ground.color")
	if err != nil {
		return cfg, err
	}
	cfg.Ground = game.GroundConfig{
		Enabled: p.Ground.Enabled,
		Height:  p.Ground.Height,
		Size:    p.Ground.Size,
		Spacing: p.Ground.Spacing,
		Color:   groundCol,
	}

	tailCol, err := hexOr(p.Tail.Color, defaultTailColor, p.Name+".tail.color")
	if err != nil {
		return cfg, err
	}
	cfg.Tail = game.TailConfig{
		Length:  p.Tail.Length,
		Radius:  p.Tail.Radius,
		Opacity: p.Tail.Opacity,
		Color:   tailCol,
	}

	cfg.Label = game.LabelConfig{
		Text:   p.Label.Text,
		Offset: mgl64.Vec3(p.Label.Offset),
	}
	return cfg, nil
}

var (
	defaultGroundColor = colorful.Color{R: 0x1a / 255.0, G: 0x47 / 255.0, B: 0x2a / 255.0}
	defaultTailColor   = colorful.Color{R: 1, G: 0x44 / 255.0, B: 0}
)

// hexOr parses a #rrggbb colour, returning def for an empty string.
func hexOr(hex string, def colorful.Color, field string) (colorful.Color, error) {
	if hex == "" {
		return def, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return def, &game.ConfigError{Field: field, Reason: err.Error()}
	}
	return c, nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
