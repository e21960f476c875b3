package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"comet/internal/game"
)

func TestBuiltinPresetsBuildScenes(t *testing.T) {
	c := NewCatalog()
	for _, name := range []string{"comet", "station"} {
		t.Run(name, func(t *testing.T) {
			p, err := c.Lookup(name)
			if err != nil {
				t.Fatal(err)
			}
			sc, err := p.Scene(42)
			if err != nil {
				t.Fatalf("Scene: %v", err)
			}
			s, err := game.NewScene(sc, game.NewManualClock(0), nil, nil)
			if err != nil {
				t.Fatalf("NewScene: %v", err)
			}
			if err := s.BuildStructure(); err != nil {
				t.Fatalf("BuildStructure: %v", err)
			}
			s.OnTick(0)
			s.OnTick(1)
		})
	}
}

func TestStationPresetMatchesReferenceOrbit(t *testing.T) {
	p, _ := NewCatalog().Lookup("station")
	sc, err := p.Scene(1)
	if err != nil {
		t.Fatal(err)
	}
	got := game.Pose(0, sc.Path).Position
	if !vecNear(got, mgl64.Vec3{300, 70, -100}, 1e-9) {
		t.Errorf("Expected tick 0 at (300, 70, -100), got %v", got)
	}
	if sc.Firing.CycleMs != 10000 || sc.Firing.ActiveMs != 4000 {
		t.Errorf("unexpected firing window %d/%d", sc.Firing.CycleMs, sc.Firing.ActiveMs)
	}
	if len(sc.Pools) != 3 {
		t.Errorf("Expected main/spark/glow pools, got %d", len(sc.Pools))
	}
	if sc.Structure.Dish.Disabled {
		t.Error("Expected the station to have a dish")
	}
}

func TestCometPresetNeverFires(t *testing.T) {
	p, _ := NewCatalog().Lookup("comet")
	sc, err := p.Scene(1)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Path.Kind != game.PathLinear || sc.Path.Linear.DurationTicks != 500 {
		t.Errorf("unexpected path %+v", sc.Path)
	}
	if sc.Firing.ActiveMs != 0 || !sc.Structure.Dish.Disabled {
		t.Error("Expected the comet preset to have no firing and no dish")
	}
}

func TestParsePresets(t *testing.T) {
	c := NewCatalog()
	n, err := c.Parse([]byte(`
presets:
  - name: station
    path: {kind: circular, radius: 50, height: 5, angular_speed: 0.01}
    pools:
      - {name: main, count: 10, speed_scale: 1, spread_scale: 0.1, decay_scale: 0.5, color: "#00ff00"}
  - name: extra
    path: {kind: linear, start_x: 0, end_x: 10, height: 1, duration_ticks: 100}
`))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Expected 2 presets parsed, got %d", n)
	}
	names := c.Names()
	if len(names) != 3 || names[0] != "comet" || names[1] != "extra" || names[2] != "station" {
		t.Errorf("unexpected names %v", names)
	}

	st, _ := c.Lookup("station")
	sc, err := st.Scene(9)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Path.Circular.Radius != 50 {
		t.Errorf("Expected the file to replace the built-in, radius=%v", sc.Path.Circular.Radius)
	}
	if g := sc.Pools[0].Color.G; g != 1 {
		t.Errorf("Expected green pool colour, got %v", sc.Pools[0].Color)
	}
	if sc.Firing.CycleMs <= 0 || sc.Firing.ActiveMs != 0 {
		t.Errorf("Expected a closed firing window when unset, got %+v", sc.Firing)
	}

	ex, _ := c.Lookup("extra")
	sc, err = ex.Scene(9)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Path.Linear.Amplitude != game.DefaultLinearAmplitude {
		t.Errorf("Expected default amplitude, got %v", sc.Path.Linear.Amplitude)
	}
}

func TestPresetErrors(t *testing.T) {
	c := NewCatalog()
	if _, err := c.Lookup("missing"); !errors.Is(err, game.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for an unknown preset, got %v", err)
	}
	if _, err := c.Parse([]byte("presets:\n  - path: {kind: linear}\n")); !errors.Is(err, game.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a nameless preset, got %v", err)
	}
	if _, err := c.Parse([]byte("presets: [")); err == nil {
		t.Error("Expected a YAML error")
	}

	bad := Preset{Name: "x", Path: PresetPath{Kind: "spiral"}}
	if _, err := bad.Scene(1); !errors.Is(err, game.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for an unknown path kind, got %v", err)
	}
	bad = Preset{Name: "x", Path: PresetPath{Kind: "linear", Duration: 1}, Pools: []PresetPool{{Name: "m", Color: "orange"}}}
	if _, err := bad.Scene(1); !errors.Is(err, game.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a bad colour, got %v", err)
	}
}

func TestCometPresetDecor(t *testing.T) {
	p, _ := NewCatalog().Lookup("comet")
	sc, err := p.Scene(1)
	if err != nil {
		t.Fatal(err)
	}
	g := sc.Ground
	if !g.Enabled || g.Height != -10 || g.Size != 100 {
		t.Errorf("Expected a 100x100 ground at y=-10, got %+v", g)
	}
	if hex := g.Color.Hex(); hex != "#1a472a" {
		t.Errorf("Expected ground colour #1a472a, got %s", hex)
	}
	if sc.Tail.Length != 9 || sc.Tail.Radius != 0.9 || sc.Tail.Color.Hex() != "#ff4400" {
		t.Errorf("unexpected tail %+v", sc.Tail)
	}
	if sc.Label.Text != "memex.tech" || !vecNear(sc.Label.Offset, mgl64.Vec3{0, -0.5, 1.5}, 1e-12) {
		t.Errorf("unexpected label %+v", sc.Label)
	}

	st, _ := NewCatalog().Lookup("station")
	sc, err = st.Scene(1)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Ground.Enabled || sc.Label.Text != "" {
		t.Errorf("Expected the station to have no ground or label, got %+v %+v", sc.Ground, sc.Label)
	}
}

func TestParseFailureLeavesCatalogUntouched(t *testing.T) {
	c := NewCatalog()
	cases := map[string]string{
		"nameless entry": `
presets:
  - name: comet
    path: {kind: circular, radius: 5, height: 1, angular_speed: 0.1}
  - path: {kind: linear}
`,
		"bad path kind": `
presets:
  - name: comet
    path: {kind: circular, radius: 5, height: 1, angular_speed: 0.1}
  - name: other
    path: {kind: spiral}
`,
		"bad tail colour": `
presets:
  - name: comet
    path: {kind: circular, radius: 5, height: 1, angular_speed: 0.1}
    tail: {length: 3, radius: 1, color: "red"}
`,
		"duplicate name": `
presets:
  - name: comet
    path: {kind: circular, radius: 5, height: 1, angular_speed: 0.1}
  - name: comet
    path: {kind: linear, duration_ticks: 10}
`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := c.Parse([]byte(data)); !errors.Is(err, game.ErrInvalidConfig) {
				t.Fatalf("Expected ErrInvalidConfig, got %v", err)
			}
			p, err := c.Lookup("comet")
			if err != nil {
				t.Fatal(err)
			}
			if p.Path.Kind != "linear" {
				t.Errorf("Expected the built-in comet to survive, got path kind %q", p.Path.Kind)
			}
			if got := c.Names(); len(got) != 2 {
				t.Errorf("Expected only the built-ins, got %v", got)
			}
		})
	}
}

func TestRepoPresetsFile(t *testing.T) {
	path := filepath.Join("..", "..", "config", "presets.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Skip("presets file not present")
	}
	c := NewCatalog()
	if _, err := c.LoadFile(path); err != nil {
		t.Fatal(err)
	}
	p, err := c.Lookup("halo")
	if err != nil {
		t.Fatal(err)
	}
	sc, err := p.Scene(3)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := game.NewScene(sc, nil, nil, nil); err != nil {
		t.Errorf("halo preset rejected: %v", err)
	}
}

func TestLoadFileMissingIsNoop(t *testing.T) {
	c := NewCatalog()
	n, err := c.LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil || n != 0 {
		t.Errorf("Expected no-op, got n=%d err=%v", n, err)
	}
	if n, err := c.LoadFile(""); err != nil || n != 0 {
		t.Errorf("Expected no-op for an empty path, got n=%d err=%v", n, err)
	}
}

func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}
