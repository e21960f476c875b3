package game

import "math"

const maxScatterSteps = 4096

// Scatter respawns every particle of pool at the emitter and pushes each one a
// random number of steps along its new velocity, so a trail starts out
// populated instead of as a single clump. Particles stay inside the recycle
// radius.
func (ts *TrailSystem) Scatter(pool *ParticlePool, pose EmitterPose) {
	if pool == nil || len(pool.P) == 0 {
		return
	}
	limit := ts.Threshold
	if limit <= 0 {
		limit = RecycleThreshold
	}
	limit2 := limit * limit

	for i := range pool.P {
		p := &pool.P[i]
		pool.respawn(p, pose)

		step := p.Vel.Mul(pool.SpeedScale)
		if step.LenSqr() == 0 {
			continue
		}
		maxSteps := int(math.Min(limit/step.Len(), maxScatterSteps))
		for n := pool.rng.Intn(maxSteps + 1); n > 0; n-- {
			next := p.Pos.Add(step)
			if next.Sub(pose.Position).LenSqr() > limit2 {
				break
			}
			p.Pos = next
		}
	}
	pool.seeded = true
	pool.dirty = true
}

// ScatterAll scatters every pool.
func (ts *TrailSystem) ScatterAll(pose EmitterPose) {
	for _, p := range ts.Pools {
		ts.Scatter(p, pose)
	}
}
