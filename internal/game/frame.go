package game

import "github.com/go-gl/mathgl/mgl64"

// EntityUpdate is the per-tick transform/visibility of one named entity.
type EntityUpdate struct {
	Position  mgl64.Vec3
	Yaw       float64
	Direction mgl64.Vec3 // beam only
	Scale     float64
	Visible   bool
	Intensity float64
}

// Frame is what a renderer receives after each tick. It is rebuilt in place;
// sinks must not keep it past Submit.
type Frame struct {
	Tick      int64
	WallMs    int64
	Emitter   EmitterPose
	Threshold float64
	Entities  map[string]EntityUpdate

	Pools     []*ParticlePool
	Stars     *Starfield
	Structure *Structure // nil until the structure is ready
	Ground    *Ground    // nil when disabled
	Tail      TailConfig
	Label     string
}

// FrameSink consumes frames; implemented by the GL and terminal renderers.
type FrameSink interface {
	Submit(f *Frame) error
}

// Entity returns the update for name.
func (f *Frame) Entity(name string) (EntityUpdate, bool) {
	e, ok := f.Entities[name]
	return e, ok
}
