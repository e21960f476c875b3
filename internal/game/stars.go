package game

import (
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

type StarfieldConfig struct {
	Count  int
	Spread float64 // half-width of the x/z box
	Height float64 // stars fill y in [0, Height)
	Spin   float64 // yaw radians per tick
	Size   float32
}

// Starfield is generated once; only its yaw changes per tick.
type Starfield struct {
	Points []mgl64.Vec3
	Colors []colorful.Color
	Spin   float64
	Size   float32

	buf []float32
}

func NewStarfield(cfg StarfieldConfig, rng *Rand) (*Starfield, error) {
	if cfg.Count < 0 {
		return nil, configErr("stars.count", "must be >= 0, got %d", cfg.Count)
	}
	if cfg.Count > 0 && !(cfg.Spread > 0 && cfg.Height > 0) {
		return nil, configErr("stars", "spread and height must be > 0")
	}
	if rng == nil {
		rng = NewRand(1)
	}
	size := cfg.Size
	if size <= 0 {
		size = 1
	}
	sf := &Starfield{
		Points: make([]mgl64.Vec3, cfg.Count),
		Colors: make([]colorful.Color, cfg.Count),
		Spin:   cfg.Spin,
		Size:   size,
	}
	for i := range sf.Points {
		sf.Points[i] = mgl64.Vec3{
			rng.RangeF(-cfg.Spread, cfg.Spread),
			rng.RangeF(0, cfg.Height),
			rng.RangeF(-cfg.Spread, cfg.Spread),
		}
		// Mostly white with a faint warm or cool cast.
		hue := 40.0
		if rng.Intn(2) == 0 {
			hue = 230.0
		}
		sf.Colors[i] = colorful.Hcl(hue, rng.RangeF(0, 0.12), rng.RangeF(0.75, 1.0)).Clamped()
	}
	return sf, nil
}

// Yaw is the field's rotation about Y at tick.
func (sf *Starfield) Yaw(tick int64) float64 { return float64(tick) * sf.Spin }

// RenderData packs the stars in their rest frame; the renderer applies Yaw.
// Format: [x, y, z, size, r, g, b, a] * N.
func (sf *Starfield) RenderData() []float32 {
	if sf.buf != nil {
		return sf.buf
	}
	buf := make([]float32, 0, len(sf.Points)*8)
	for i, p := range sf.Points {
		c := sf.Colors[i]
		buf = append(buf,
			float32(p[0]), float32(p[1]), float32(p[2]), sf.Size,
			float32(c.R), float32(c.G), float32(c.B), 1,
		)
	}
	sf.buf = buf
	return buf
}
