package game

import (
	"github.com/go-gl/mathgl/mgl64"
)

// AdvanceAll steps every pool against the same pose.
func (ts *TrailSystem) AdvanceAll(pose EmitterPose, deltaTicks int64) {
	for _, p := range ts.Pools {
		ts.Advance(p, pose, deltaTicks)
	}
}

// Advance moves every particle of pool by deltaTicks steps and respawns the
// ones that drifted past the threshold. deltaTicks <= 0 is a no-op. An
// unseeded pool is scattered instead of stepped.
func (ts *TrailSystem) Advance(pool *ParticlePool, pose EmitterPose, deltaTicks int64) {
	if pool == nil || deltaTicks <= 0 || len(pool.P) == 0 {
		return
	}
	if !pool.seeded {
		ts.Scatter(pool, pose)
		return
	}
	if deltaTicks > MaxCatchUpTicks {
		deltaTicks = MaxCatchUpTicks
	}

	limit := ts.Threshold
	if limit <= 0 {
		limit = RecycleThreshold
	}
	limit2 := limit * limit

	for step := int64(0); step < deltaTicks; step++ {
		for i := range pool.P {
			p := &pool.P[i]

			before := p.Pos.Sub(pose.Position).LenSqr()
			p.Pos = p.Pos.Add(p.Vel.Mul(pool.SpeedScale))
			after := p.Pos.Sub(pose.Position).LenSqr()

			// A particle already outside the radius respawns even if its
			// velocity would carry it back in.
			if before > limit2 || after > limit2 || !finiteVec(p.Pos) {
				pool.respawn(p, pose)
			}
		}
	}
	pool.dirty = true
}

// respawn places p exactly on the emitter and draws a new velocity pointing
// mostly against the direction of travel.
func (pool *ParticlePool) respawn(p *Particle, pose EmitterPose) {
	fwd := pose.Forward
	if fwd.LenSqr() == 0 || !finiteVec(fwd) {
		fwd = mgl64.Vec3{1, 0, 0}
	} else {
		fwd = fwd.Normalize()
	}
	// Horizontal perpendicular to travel.
	lateral := mgl64.Vec3{-fwd[2], 0, fwd[0]}
	if lateral.LenSqr() == 0 {
		lateral = mgl64.Vec3{0, 0, 1}
	} else {
		lateral = lateral.Normalize()
	}
	up := mgl64.Vec3{0, 1, 0}

	r := pool.rng
	back := fwd.Mul(-pool.DecayScale * r.RangeF(MinBackwardDraw, 1))
	jitter := pool.SpreadScale * JitterFraction
	side := lateral.Mul(r.RangeF(-jitter, jitter))
	lift := up.Mul(r.RangeF(-jitter, jitter))

	p.Pos = pose.Position
	p.Vel = back.Add(side).Add(lift)
	pool.recycled++
}
