package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// GroundConfig is a flat square at y = Height centred on the origin.
type GroundConfig struct {
	Enabled bool
	Height  float64
	Size    float64 // edge length
	Spacing float64 // grid step of the rendered points; 0 means Size/20
	Color   colorful.Color
}

// Ground is the floor as a point grid.
type Ground struct {
	Height  float64
	Size    float64
	Spacing float64
	Color   colorful.Color
	Points  []mgl64.Vec3

	buf []float32
}

// NewGround returns nil for a disabled ground.
func NewGround(cfg GroundConfig) (*Ground, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Size <= 0 {
		return nil, configErr("ground.size", "must be > 0, got %v", cfg.Size)
	}
	if cfg.Spacing < 0 || cfg.Spacing > cfg.Size {
		return nil, configErr("ground.spacing", "must be in 0..size, got %v", cfg.Spacing)
	}
	spacing := cfg.Spacing
	if spacing == 0 {
		spacing = cfg.Size / 20
	}
	n := int(math.Floor(cfg.Size/spacing+1e-9)) + 1
	half := cfg.Size / 2
	g := &Ground{
		Height:  cfg.Height,
		Size:    cfg.Size,
		Spacing: spacing,
		Color:   cfg.Color,
		Points:  make([]mgl64.Vec3, 0, n*n),
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			g.Points = append(g.Points, mgl64.Vec3{
				-half + float64(i)*spacing,
				cfg.Height,
				-half + float64(j)*spacing,
			})
		}
	}
	return g, nil
}

// RenderData packs the grid once. Format: [x, y, z, size, r, g, b, a] * N.
func (g *Ground) RenderData() []float32 {
	if g.buf != nil {
		return g.buf
	}
	size := float32(g.Spacing * 0.3)
	buf := make([]float32, 0, len(g.Points)*8)
	for _, p := range g.Points {
		buf = append(buf,
			float32(p[0]), float32(p[1]), float32(p[2]), size,
			float32(g.Color.R), float32(g.Color.G), float32(g.Color.B), 1,
		)
	}
	g.buf = buf
	return buf
}

// TailConfig is the glowing cone trailing the comet: Radius at the comet,
// tapering to a point Length behind it.
type TailConfig struct {
	Length  float64
	Radius  float64
	Opacity float32
	Color   colorful.Color
}

const tailSamples = 24

// TailRenderData packs the tail as sprites from base along dir, widest at the
// base. Format: [x, y, z, size, r, g, b, a] * N.
func TailRenderData(base, dir mgl64.Vec3, cfg TailConfig, buf []float32) []float32 {
	buf = buf[:0]
	if cfg.Length <= 0 || dir.LenSqr() == 0 {
		return buf
	}
	dir = dir.Normalize()
	op := cfg.Opacity
	if op <= 0 {
		op = 1
	}
	for i := 0; i < tailSamples; i++ {
		t := float64(i) / float64(tailSamples-1)
		p := base.Add(dir.Mul(t * cfg.Length))
		buf = append(buf,
			float32(p[0]), float32(p[1]), float32(p[2]),
			float32(2*cfg.Radius*(1-t)),
			float32(cfg.Color.R), float32(cfg.Color.G), float32(cfg.Color.B),
			op*float32(1-0.8*t),
		)
	}
	return buf
}

// LabelConfig is a caption riding along with the comet.
type LabelConfig struct {
	Text   string
	Offset mgl64.Vec3 // from the comet centre, world axes
}
