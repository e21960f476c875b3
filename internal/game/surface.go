package game

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// ExclusionZone keeps detail away from a point on the sphere surface.
type ExclusionZone struct {
	Center    mgl64.Vec3
	MinDistSq float64
}

// ExclusionZoneAt builds a zone centred on the sphere point at azimuth phi and
// polar angle theta, rejecting anything closer than minDist.
func ExclusionZoneAt(radius, phi, theta, minDist float64) ExclusionZone {
	return ExclusionZone{
		Center:    sphericalToCartesian(radius, phi, theta),
		MinDistSq: minDist * minDist,
	}
}

// Detail is one accepted decorative element. Normal points away from the
// sphere centre.
type Detail struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	Scale    float64
}

type SurfaceConfig struct {
	Count       int
	Radius      float64
	BaseScale   float64
	MaxAttempts int
	Seed        int64 // noise seed for Scale modulation
}

// PlacementStats summarises one PlaceSurfaceDetail run.
type PlacementStats struct {
	Requested int
	Placed    int
	Skipped   int
}

func (c SurfaceConfig) validate(zones []ExclusionZone) error {
	if c.Count < 0 {
		return configErr("surface.count", "must be >= 0, got %d", c.Count)
	}
	if !(c.Radius > 0) {
		return configErr("surface.radius", "must be > 0, got %g", c.Radius)
	}
	if c.MaxAttempts <= 0 {
		return configErr("surface.max_attempts", "must be > 0, got %d", c.MaxAttempts)
	}
	for i, z := range zones {
		if !(z.MinDistSq >= 0) {
			return configErr("surface.exclusion", "zone %d: min distance squared must be >= 0, got %g", i, z.MinDistSq)
		}
	}
	return nil
}

// sphericalToCartesian maps azimuth phi and polar angle theta (from +Y) to a
// point on the sphere of radius r.
func sphericalToCartesian(r, phi, theta float64) mgl64.Vec3 {
	sinT, cosT := math.Sincos(theta)
	sinP, cosP := math.Sincos(phi)
	return mgl64.Vec3{r * sinT * cosP, r * cosT, r * sinT * sinP}
}

func excluded(pos mgl64.Vec3, zones []ExclusionZone) bool {
	for _, z := range zones {
		if pos.Sub(z.Center).LenSqr() < z.MinDistSq {
			return true
		}
	}
	return false
}

// PlaceSurfaceDetail scatters cfg.Count elements over the sphere, resampling
// any that land inside an exclusion zone. An element that cannot be placed in
// cfg.MaxAttempts draws is skipped and logged; the rest still get placed.
func PlaceSurfaceDetail(cfg SurfaceConfig, zones []ExclusionZone, rng *Rand, log *zap.Logger) ([]Detail, PlacementStats, error) {
	stats := PlacementStats{Requested: cfg.Count}
	if err := cfg.validate(zones); err != nil {
		return nil, stats, err
	}
	if rng == nil {
		rng = NewRand(1)
	}
	if log == nil {
		log = zap.NewNop()
	}
	base := cfg.BaseScale
	if base <= 0 {
		base = 1
	}
	noise := perlin.NewPerlin(DetailNoiseAlpha, DetailNoiseBeta, DetailNoiseOctaves, cfg.Seed)

	out := make([]Detail, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		placed := false
		for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
			phi := rng.RangeF(0, 2*math.Pi)
			theta := rng.RangeF(0, math.Pi)
			pos := sphericalToCartesian(cfg.Radius, phi, theta)
			if excluded(pos, zones) {
				continue
			}
			n := noise.Noise2D(phi*DetailNoiseFreq, theta*DetailNoiseFreq)
			out = append(out, Detail{
				Position: pos,
				Normal:   pos.Normalize(),
				Scale:    base * (1 + DetailScaleSwing*clampF(n*2, -1, 1)),
			})
			placed = true
			break
		}
		if !placed {
			stats.Skipped++
			log.Warn("surface detail skipped",
				zap.Int("element", i),
				zap.Int("attempts", cfg.MaxAttempts))
		}
	}
	stats.Placed = len(out)
	return out, stats, nil
}
