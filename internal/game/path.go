package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type PathKind uint8

const (
	PathLinear PathKind = iota
	PathCircular
)

func (k PathKind) String() string {
	switch k {
	case PathLinear:
		return "linear"
	case PathCircular:
		return "circular"
	}
	return "unknown"
}

// LinearPath sweeps from StartX to EndX at a fixed height, snapping back
// every DurationTicks.
type LinearPath struct {
	StartX, EndX  float64
	Height        float64
	DurationTicks int64
	Amplitude     float64 // z sway; 0 keeps the sweep flat
}

// CircularPath orbits (CenterX, CenterZ) in the horizontal plane at Height.
type CircularPath struct {
	Radius           float64
	Height           float64
	CenterX, CenterZ float64
	AngularSpeed     float64 // radians per tick
}

// PathSpec selects exactly one of the two paths via Kind.
type PathSpec struct {
	Kind     PathKind
	Linear   LinearPath
	Circular CircularPath
}

// EmitterPose is the moving body's pose for one tick.
type EmitterPose struct {
	Position mgl64.Vec3
	Heading  float64    // yaw, radians
	Forward  mgl64.Vec3 // unit direction of travel
}

func (p PathSpec) Validate() error {
	switch p.Kind {
	case PathLinear:
		if p.Linear.DurationTicks <= 0 {
			return configErr("path.duration_ticks", "must be > 0, got %d", p.Linear.DurationTicks)
		}
	case PathCircular:
		if !(p.Circular.Radius > 0) {
			return configErr("path.radius", "must be > 0, got %g", p.Circular.Radius)
		}
	default:
		return configErr("path.kind", "unknown path kind %d", p.Kind)
	}
	return nil
}

// Pose evaluates the path at tick. It holds no state: the same tick always
// yields the same pose.
func Pose(tick int64, spec PathSpec) EmitterPose {
	if spec.Kind == PathCircular {
		return circularPose(tick, spec.Circular)
	}
	return linearPose(tick, spec.Linear)
}

func linearPose(tick int64, p LinearPath) EmitterPose {
	dur := p.DurationTicks
	if dur <= 0 {
		dur = 1
	}
	progress := float64(floorMod(tick, dur)) / float64(dur)

	fwd := mgl64.Vec3{1, 0, 0}
	if p.EndX < p.StartX {
		fwd = mgl64.Vec3{-1, 0, 0}
	}
	return EmitterPose{
		Position: mgl64.Vec3{
			p.StartX + (p.EndX-p.StartX)*progress,
			p.Height,
			math.Sin(progress*2*math.Pi) * p.Amplitude,
		},
		Forward: fwd,
	}
}

func circularPose(tick int64, p CircularPath) EmitterPose {
	a := float64(tick) * p.AngularSpeed
	sin, cos := math.Sincos(a)

	// d/da of (cos a, sin a); flipped when orbiting clockwise.
	fwd := mgl64.Vec3{-sin, 0, cos}
	if p.AngularSpeed < 0 {
		fwd = fwd.Mul(-1)
	}
	return EmitterPose{
		Position: mgl64.Vec3{
			p.CenterX + p.Radius*cos,
			p.Height,
			p.CenterZ + p.Radius*sin,
		},
		Heading: math.Atan2(-cos, -sin),
		Forward: fwd,
	}
}
