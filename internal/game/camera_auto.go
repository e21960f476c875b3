package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Chase offsets relative to the comet's heading.
const (
	FollowDistance = 30.0
	FollowHeight   = 8.0
	FollowRate     = 3.0 // 1/s
)

// UpdateFollowCamera eases the camera toward a point behind and above the
// comet and turns it to face the comet.
func UpdateFollowCamera(cam *Camera, pose EmitterPose, dt float64) {
	want := pose.Position.
		Sub(pose.Forward.Mul(FollowDistance)).
		Add(mgl64.Vec3{0, FollowHeight, 0})
	k := 1 - math.Exp(-FollowRate*dt)
	cam.Pos = cam.Pos.Add(want.Sub(cam.Pos).Mul(k))

	look := NewCameraLookingAt(cam.Pos, pose.Position, cam.FOV)
	cam.Yaw, cam.Pitch = look.Yaw, look.Pitch
}
