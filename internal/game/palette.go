package game

import (
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette holds the fixed scene colours shared by the renderers. Trail
// colours come from the pool specs instead.
var Palette = struct {
	Space colorful.Color
	Comet colorful.Color
	Beam  colorful.Color
	Hull  colorful.Color
	Dish  colorful.Color
	Label colorful.Color
}{
	Space: colorful.Color{R: 0, G: 0, B: 0.05},
	Comet: colorful.Color{R: 1, G: 0.85, B: 0.6},
	Beam:  colorful.Color{R: 0.55, G: 0.95, B: 1},
	Hull:  colorful.Color{R: 0.55, G: 0.58, B: 0.62},
	Dish:  colorful.Color{R: 0.9, G: 0.9, B: 1},
	Label: colorful.Color{R: 1, G: 1, B: 1},
}

// SunDir is the unit direction toward the key light.
var SunDir = mgl64.Vec3{10, 20, 10}.Normalize()

// HullShade is the diffuse factor for a surface with unit normal n.
func HullShade(n mgl64.Vec3) float64 {
	return 0.35 + 0.65*max(0, n.Dot(SunDir))
}

// BeamColor whitens the beam as intensity rises.
func BeamColor(intensity float64) colorful.Color {
	return Palette.Beam.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, clampF(intensity/4, 0, 1))
}
