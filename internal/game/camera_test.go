package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCameraLookingAt(t *testing.T) {
	pos := mgl64.Vec3{0, 10, 50}
	target := mgl64.Vec3{20, 0, -30}
	c := NewCameraLookingAt(pos, target, 0)

	want := target.Sub(pos).Normalize()
	if !vecNear(c.Forward(), want, 1e-9) {
		t.Errorf("forward %v, want %v", c.Forward(), want)
	}
	if c.FOV != DefaultFOV {
		t.Errorf("Expected default FOV, got %v", c.FOV)
	}

	x, y, ok := c.Project(target, 16.0/9.0)
	if !ok || math.Abs(x) > 1e-3 || math.Abs(y) > 1e-3 {
		t.Errorf("Expected target at screen centre, got (%v, %v) ok=%v", x, y, ok)
	}
	if _, _, ok := c.Project(pos.Sub(want.Mul(10)), 1); ok {
		t.Error("Expected a point behind the camera to be rejected")
	}
}

func TestCameraRightIsPerpendicular(t *testing.T) {
	for _, yaw := range []float64{0, 0.7, math.Pi, -2} {
		c := Camera{Yaw: yaw}
		if d := c.Right().Dot(c.Forward()); math.Abs(d) > 1e-12 {
			t.Errorf("yaw %v: right.forward = %v", yaw, d)
		}
	}
	c := Camera{}
	if !vecNear(c.Right(), mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("Expected +X right at yaw 0, got %v", c.Right())
	}
}

func TestCameraLookClampsPitch(t *testing.T) {
	c := Camera{}
	c.Look(0, 10)
	if lim := mgl64.DegToRad(MaxPitchDegrees); math.Abs(c.Pitch-lim) > 1e-12 {
		t.Errorf("pitch %v, want clamp %v", c.Pitch, lim)
	}
	c.Look(0, -20)
	if lim := -mgl64.DegToRad(MaxPitchDegrees); math.Abs(c.Pitch-lim) > 1e-12 {
		t.Errorf("pitch %v, want clamp %v", c.Pitch, lim)
	}
}

func TestCameraMove(t *testing.T) {
	c := Camera{}
	c.Move(2, 1, 3)
	want := mgl64.Vec3{1, 3, -2}
	if !vecNear(c.Pos, want, 1e-12) {
		t.Errorf("pos %v, want %v", c.Pos, want)
	}
}

func TestCameraShakeDecays(t *testing.T) {
	c := Camera{}
	c.AddShake(BeamShakeAmount, BeamShakeTime)
	c.UpdateShake(0.1, 1)
	if math.Abs(c.ShakeX) > BeamShakeAmount || math.Abs(c.ShakeY) > BeamShakeAmount {
		t.Errorf("shake (%v, %v) larger than intensity", c.ShakeX, c.ShakeY)
	}
	for i := 0; i < 10; i++ {
		c.UpdateShake(0.1, 1)
	}
	c.UpdateShake(0.1, 1)
	if c.ShakeX != 0 || c.ShakeY != 0 || c.ShakeTimer != 0 {
		t.Errorf("Expected shake to settle, got (%v, %v) timer=%v", c.ShakeX, c.ShakeY, c.ShakeTimer)
	}
	if c.EffectivePos() != c.Pos {
		t.Error("Expected no offset once settled")
	}
}

func TestFollowCameraConverges(t *testing.T) {
	pose := EmitterPose{Position: mgl64.Vec3{10, 0, 0}, Forward: mgl64.Vec3{0, 0, -1}}
	cam := NewCameraLookingAt(mgl64.Vec3{0, 50, 100}, mgl64.Vec3{}, 0)
	for i := 0; i < 600; i++ {
		UpdateFollowCamera(&cam, pose, 1.0/60)
	}
	want := mgl64.Vec3{10, FollowHeight, FollowDistance}
	if d := cam.Pos.Sub(want).Len(); d > 0.01 {
		t.Errorf("Expected camera at %v, got %v", want, cam.Pos)
	}
	toComet := pose.Position.Sub(cam.Pos).Normalize()
	if cam.Forward().Dot(toComet) < 0.9999 {
		t.Errorf("camera not facing the comet: forward %v", cam.Forward())
	}
}

func TestFollowCameraZeroDtHoldsPosition(t *testing.T) {
	cam := NewCameraLookingAt(mgl64.Vec3{0, 5, 20}, mgl64.Vec3{}, 0)
	UpdateFollowCamera(&cam, EmitterPose{Forward: mgl64.Vec3{1, 0, 0}}, 0)
	if cam.Pos != (mgl64.Vec3{0, 5, 20}) {
		t.Errorf("Expected no movement at dt 0, got %v", cam.Pos)
	}
}
