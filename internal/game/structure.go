package game

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// DishConfig places the firing dish on the structure's surface. The dish is
// both the beam anchor and an exclusion zone for surface detail.
type DishConfig struct {
	Phi      float64 // azimuth, radians
	Theta    float64 // polar angle from +Y, radians
	Radius   float64 // keep-out distance around the dish centre
	Disabled bool
}

type StructureConfig struct {
	Center  mgl64.Vec3
	Spin    float64 // yaw radians per tick
	Surface SurfaceConfig
	Dish    DishConfig
	Extra   []ExclusionZone // additional keep-out zones, rest frame
}

// Structure is the generated station: detail in its rest frame plus the dish
// anchor.
type Structure struct {
	Center  mgl64.Vec3
	Radius  float64
	Details []Detail
	Anchor  mgl64.Vec3 // rest frame
	HasDish bool
	Stats   PlacementStats
}

func (c StructureConfig) zones() []ExclusionZone {
	zones := make([]ExclusionZone, 0, len(c.Extra)+1)
	if !c.Dish.Disabled {
		zones = append(zones, ExclusionZoneAt(c.Surface.Radius, c.Dish.Phi, c.Dish.Theta, c.Dish.Radius))
	}
	return append(zones, c.Extra...)
}

// BuildStructure runs detail placement once.
func BuildStructure(cfg StructureConfig, rng *Rand, log *zap.Logger) (*Structure, error) {
	details, stats, err := PlaceSurfaceDetail(cfg.Surface, cfg.zones(), rng, log)
	if err != nil {
		return nil, err
	}
	st := &Structure{
		Center:  cfg.Center,
		Radius:  cfg.Surface.Radius,
		Details: details,
		Stats:   stats,
		HasDish: !cfg.Dish.Disabled,
	}
	if st.HasDish {
		st.Anchor = sphericalToCartesian(cfg.Surface.Radius, cfg.Dish.Phi, cfg.Dish.Theta)
	}
	return st, nil
}

// DetailRenderData packs the details rotated by yaw about the structure
// centre. Format: [x, y, z, size, nx, ny, nz, 0] * N.
func (st *Structure) DetailRenderData(yaw float64, buf []float32) []float32 {
	buf = buf[:0]
	rot := mgl64.Rotate3DY(yaw)
	for _, d := range st.Details {
		p := st.Center.Add(rot.Mul3x1(d.Position))
		n := rot.Mul3x1(d.Normal)
		buf = append(buf,
			float32(p[0]), float32(p[1]), float32(p[2]), float32(d.Scale),
			float32(n[0]), float32(n[1]), float32(n[2]), 0,
		)
	}
	return buf
}

// AnchorWorld is the dish position in world space with the structure turned
// by yaw.
func (st *Structure) AnchorWorld(yaw float64) mgl64.Vec3 {
	return st.Center.Add(mgl64.Rotate3DY(yaw).Mul3x1(st.Anchor))
}
