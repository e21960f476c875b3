package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a free-look camera: a position plus yaw/pitch in radians.
// Yaw 0 looks down -Z.
type Camera struct {
	Pos   mgl64.Vec3
	Yaw   float64
	Pitch float64
	FOV   float64 // vertical, degrees

	// Screen shake.
	ShakeX, ShakeY float64 // current offset in world units
	ShakeTimer     float64 // remaining shake time
	ShakeIntensity float64 // max offset magnitude
}

// NewCameraLookingAt places the camera at pos facing target.
func NewCameraLookingAt(pos, target mgl64.Vec3, fov float64) Camera {
	c := Camera{Pos: pos, FOV: fov}
	if c.FOV <= 0 {
		c.FOV = DefaultFOV
	}
	d := target.Sub(pos)
	if d.LenSqr() > 0 {
		d = d.Normalize()
		c.Yaw = math.Atan2(d[0], -d[2])
		c.Pitch = math.Asin(clampF(d[1], -1, 1))
	}
	return c
}

// Forward is the unit view direction.
func (c *Camera) Forward() mgl64.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	return mgl64.Vec3{sy * cp, sp, -cy * cp}
}

// Right is the unit strafe direction, always horizontal.
func (c *Camera) Right() mgl64.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	return mgl64.Vec3{cy, 0, sy}
}

// Look turns the camera; pitch is clamped short of straight up/down.
func (c *Camera) Look(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	lim := mgl64.DegToRad(MaxPitchDegrees)
	c.Pitch = clampF(c.Pitch+dPitch, -lim, lim)
}

// Move translates along the view (forward), strafe (right) and world-up axes.
func (c *Camera) Move(forward, right, up float64) {
	c.Pos = c.Pos.
		Add(c.Forward().Mul(forward)).
		Add(c.Right().Mul(right)).
		Add(mgl64.Vec3{0, up, 0})
}

// AddShake triggers screen shake with given intensity and duration.
func (c *Camera) AddShake(intensity, duration float64) {
	if intensity > c.ShakeIntensity {
		c.ShakeIntensity = intensity
	}
	if duration > c.ShakeTimer {
		c.ShakeTimer = duration
	}
}

// UpdateShake decays shake and computes random offsets.
func (c *Camera) UpdateShake(dt float64, seed uint64) {
	if c.ShakeTimer <= 0 {
		c.ShakeX = 0
		c.ShakeY = 0
		c.ShakeIntensity = 0
		return
	}
	c.ShakeTimer = approach(c.ShakeTimer, 0, dt)
	t := c.ShakeTimer
	rr := NewRand(seed ^ uint64(t*10000))
	mag := c.ShakeIntensity * (t / (t + 0.08))
	c.ShakeX = rr.RangeF(-mag, mag)
	c.ShakeY = rr.RangeF(-mag, mag)
}

// EffectivePos returns the eye position with shake applied.
func (c *Camera) EffectivePos() mgl64.Vec3 {
	return c.Pos.Add(c.Right().Mul(c.ShakeX)).Add(mgl64.Vec3{0, c.ShakeY, 0})
}

// View returns the world-to-eye matrix.
func (c *Camera) View() mgl32.Mat4 {
	eye := c.EffectivePos()
	at := eye.Add(c.Forward())
	return mgl32.LookAtV(vec32(eye), vec32(at), mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *Camera) Projection(aspect float64) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	fov := c.FOV
	if fov <= 0 {
		fov = DefaultFOV
	}
	return mgl32.Perspective(mgl32.DegToRad(float32(fov)), float32(aspect), CameraNear, CameraFar)
}

// Project maps a world point to normalised device coordinates. ok is false
// for points behind the eye.
func (c *Camera) Project(p mgl64.Vec3, aspect float64) (x, y float64, ok bool) {
	clip := c.Projection(aspect).Mul4(c.View()).Mul4x1(vec32(p).Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, false
	}
	return float64(clip[0] / clip[3]), float64(clip[1] / clip[3]), true
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
