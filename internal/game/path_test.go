package game

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func stationPath() PathSpec {
	return PathSpec{
		Kind: PathCircular,
		Circular: CircularPath{
			Radius:       300,
			Height:       70,
			CenterX:      0,
			CenterZ:      -100,
			AngularSpeed: 0.0005,
		},
	}
}

func cometPath() PathSpec {
	return PathSpec{
		Kind: PathLinear,
		Linear: LinearPath{
			StartX:        -30,
			EndX:          30,
			Height:        10,
			DurationTicks: 500,
			Amplitude:     2,
		},
	}
}

func TestCircularPoseAtTickZero(t *testing.T) {
	got := Pose(0, stationPath()).Position
	want := mgl64.Vec3{300, 70, -100}
	if !vecNear(got, want, 1e-9) {
		t.Errorf("Expected %v at tick 0, got %v", want, got)
	}
}

func TestPoseIsDeterministic(t *testing.T) {
	for _, spec := range []PathSpec{stationPath(), cometPath()} {
		for _, tick := range []int64{0, 1, 249, 500, 12345, 1 << 40} {
			a := Pose(tick, spec)
			b := Pose(tick, spec)
			if a != b {
				t.Errorf("%s tick %d: poses differ: %+v vs %+v", spec.Kind, tick, a, b)
			}
		}
	}
}

func TestCircularPoseStaysOnRadius(t *testing.T) {
	spec := stationPath()
	c := spec.Circular
	for tick := int64(0); tick < 20000; tick += 37 {
		p := Pose(tick, spec)
		dx := p.Position[0] - c.CenterX
		dz := p.Position[2] - c.CenterZ
		r := math.Hypot(dx, dz)
		if math.Abs(r-c.Radius) > 1e-9 {
			t.Fatalf("tick %d: radius %v, want %v", tick, r, c.Radius)
		}
		if p.Position[1] != c.Height {
			t.Fatalf("tick %d: height %v, want %v", tick, p.Position[1], c.Height)
		}
	}
}

func TestCircularForwardIsTangent(t *testing.T) {
	spec := stationPath()
	for _, tick := range []int64{0, 1000, 5000, 9999} {
		p := Pose(tick, spec)
		radial := p.Position.Sub(mgl64.Vec3{spec.Circular.CenterX, p.Position[1], spec.Circular.CenterZ})
		if d := radial.Normalize().Dot(p.Forward); math.Abs(d) > 1e-9 {
			t.Errorf("tick %d: forward not tangent, dot=%v", tick, d)
		}
		// Forward should point where the next tick's position lies.
		next := Pose(tick+1, spec).Position
		if next.Sub(p.Position).Dot(p.Forward) <= 0 {
			t.Errorf("tick %d: forward %v points against travel", tick, p.Forward)
		}
		if math.Abs(p.Forward.Len()-1) > 1e-12 {
			t.Errorf("tick %d: forward not unit: %v", tick, p.Forward.Len())
		}
	}
}

func TestCircularHeading(t *testing.T) {
	spec := stationPath()
	tick := int64(1234)
	a := float64(tick) * spec.Circular.AngularSpeed
	want := math.Atan2(-math.Cos(a), -math.Sin(a))
	if got := Pose(tick, spec).Heading; got != want {
		t.Errorf("Expected heading %v, got %v", want, got)
	}
}

func TestCircularClockwiseForward(t *testing.T) {
	spec := stationPath()
	spec.Circular.AngularSpeed = -0.01
	p := Pose(10, spec)
	next := Pose(11, spec).Position
	if next.Sub(p.Position).Dot(p.Forward) <= 0 {
		t.Errorf("clockwise forward %v points against travel", p.Forward)
	}
}

func TestLinearPose(t *testing.T) {
	spec := cometPath()
	tests := []struct {
		tick  int64
		wantX float64
	}{
		{0, -30},
		{125, -15},
		{250, 0},
		{499, -30 + 60*499.0/500.0},
		{500, -30}, // snap back
		{750, 0},
	}
	for _, tt := range tests {
		p := Pose(tt.tick, spec)
		if math.Abs(p.Position[0]-tt.wantX) > 1e-9 {
			t.Errorf("tick %d: x=%v, want %v", tt.tick, p.Position[0], tt.wantX)
		}
		if p.Position[1] != 10 {
			t.Errorf("tick %d: y=%v, want 10", tt.tick, p.Position[1])
		}
		if p.Heading != 0 {
			t.Errorf("tick %d: heading %v, want 0", tt.tick, p.Heading)
		}
	}

	quarter := Pose(125, spec).Position[2]
	if math.Abs(quarter-2) > 1e-9 {
		t.Errorf("Expected z sway of 2 at a quarter sweep, got %v", quarter)
	}
}

func TestLinearForwardFollowsSweep(t *testing.T) {
	spec := cometPath()
	if f := Pose(10, spec).Forward; f != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("Expected +X forward, got %v", f)
	}
	spec.Linear.StartX, spec.Linear.EndX = 30, -30
	if f := Pose(10, spec).Forward; f != (mgl64.Vec3{-1, 0, 0}) {
		t.Errorf("Expected -X forward, got %v", f)
	}
}

func TestLinearNegativeTickWraps(t *testing.T) {
	spec := cometPath()
	a := Pose(-1, spec)
	b := Pose(499, spec)
	if a != b {
		t.Errorf("Expected tick -1 to equal tick 499, got %v vs %v", a.Position, b.Position)
	}
}

func TestPathValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    PathSpec
		wantErr bool
	}{
		{"circular ok", stationPath(), false},
		{"linear ok", cometPath(), false},
		{"zero duration", PathSpec{Kind: PathLinear}, true},
		{"zero radius", PathSpec{Kind: PathCircular}, true},
		{"negative radius", PathSpec{Kind: PathCircular, Circular: CircularPath{Radius: -1}}, true},
		{"unknown kind", PathSpec{Kind: 9}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

// vecNear compares with an absolute tolerance; mgl64's ApproxEqual turns
// relative near zero and rejects plain rounding noise.
func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}
