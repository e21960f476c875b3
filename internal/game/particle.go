package game

import (
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

type Particle struct {
	Pos mgl64.Vec3
	Vel mgl64.Vec3
}

// PoolSpec configures one trail layer.
type PoolSpec struct {
	Name        string
	Count       int
	SpeedScale  float64
	SpreadScale float64
	DecayScale  float64

	Color   colorful.Color
	Size    float32
	Opacity float32
}

// ParticlePool is one fixed-capacity trail layer. P never changes length
// after creation; particles are recycled in place.
type ParticlePool struct {
	Name        string
	P           []Particle
	SpeedScale  float64
	SpreadScale float64
	DecayScale  float64

	Color   colorful.Color
	Size    float32
	Opacity float32

	dirty     bool
	seeded    bool
	rng       *Rand
	recycled  uint64
	renderBuf []float32
}

// Len is the pool's fixed particle count.
func (p *ParticlePool) Len() int { return len(p.P) }

// Recycled counts respawns since creation.
func (p *ParticlePool) Recycled() uint64 { return p.recycled }

// Dirty reports whether positions changed since the last TakeDirty.
func (p *ParticlePool) Dirty() bool { return p.dirty }

// TakeDirty returns the dirty flag and clears it. TrailPacker calls this to
// decide whether the pool's buffer needs repacking.
func (p *ParticlePool) TakeDirty() bool {
	d := p.dirty
	p.dirty = false
	return d
}

// TrailSystem owns every trail layer. Pools never interact.
type TrailSystem struct {
	Pools     []*ParticlePool
	Threshold float64
	seed      uint64
}

func NewTrailSystem(seed uint64) *TrailSystem {
	if seed == 0 {
		seed = 1
	}
	return &TrailSystem{
		Threshold: RecycleThreshold,
		seed:      seed,
	}
}

func (spec PoolSpec) validate() error {
	field := "pools." + spec.Name
	if spec.Count < 0 {
		return configErr(field+".count", "must be >= 0, got %d", spec.Count)
	}
	if !(spec.SpeedScale > 0) {
		return configErr(field+".speed_scale", "must be > 0, got %g", spec.SpeedScale)
	}
	if !(spec.DecayScale > 0) {
		return configErr(field+".decay_scale", "must be > 0, got %g", spec.DecayScale)
	}
	if !(spec.SpreadScale >= 0) {
		return configErr(field+".spread_scale", "must be >= 0, got %g", spec.SpreadScale)
	}
	return nil
}

// CreatePool validates spec and allocates the pool at full capacity. The
// particles are parked until the first Advance or Scatter seeds them around
// the emitter.
func (ts *TrailSystem) CreatePool(spec PoolSpec) (*ParticlePool, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	for _, p := range ts.Pools {
		if p.Name == spec.Name {
			return nil, configErr("pools."+spec.Name, "duplicate pool name")
		}
	}
	size := spec.Size
	if size <= 0 {
		size = 1
	}
	opacity := spec.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	pool := &ParticlePool{
		Name:        spec.Name,
		P:           make([]Particle, spec.Count),
		SpeedScale:  spec.SpeedScale,
		SpreadScale: spec.SpreadScale,
		DecayScale:  spec.DecayScale,
		Color:       spec.Color,
		Size:        size,
		Opacity:     opacity,
		rng:         NewRand(hashSeed(ts.seed, len(ts.Pools)+1, spec.Count)),
	}
	ts.Pools = append(ts.Pools, pool)
	return pool, nil
}

// Pool returns the pool called name, or nil.
func (ts *TrailSystem) Pool(name string) *ParticlePool {
	for _, p := range ts.Pools {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// RenderData packs the pool for point-sprite upload.
// Format: [x, y, z, size, r, g, b, a] * N.
// Alpha fades with distance from the emitter so fresh particles read brightest.
func (p *ParticlePool) RenderData(emitter mgl64.Vec3, threshold float64) []float32 {
	buf := p.renderBuf[:0]
	if threshold <= 0 {
		threshold = RecycleThreshold
	}
	r, g, b := p.Color.Clamped().RGB255()
	rc := float32(r) / 255.0
	gc := float32(g) / 255.0
	bc := float32(b) / 255.0
	for i := range p.P {
		pt := &p.P[i]
		fade := 1.0 - clampF(pt.Pos.Sub(emitter).Len()/threshold, 0, 1)
		a := p.Opacity * float32(0.15+0.85*fade)
		buf = append(buf,
			float32(pt.Pos[0]), float32(pt.Pos[1]), float32(pt.Pos[2]),
			p.Size*float32(0.6+0.4*fade),
			rc, gc, bc, a,
		)
	}
	p.renderBuf = buf
	return buf
}

// TrailPacker keeps the last packed buffer of each pool and repacks a pool
// only after it has been advanced.
type TrailPacker struct {
	bufs  map[*ParticlePool][]float32
	packs int
}

func NewTrailPacker() *TrailPacker {
	return &TrailPacker{bufs: make(map[*ParticlePool][]float32)}
}

// Data returns pool's render buffer, see RenderData.
func (tp *TrailPacker) Data(pool *ParticlePool, emitter mgl64.Vec3, threshold float64) []float32 {
	dirty := pool.TakeDirty()
	if buf, ok := tp.bufs[pool]; ok && !dirty {
		return buf
	}
	buf := pool.RenderData(emitter, threshold)
	tp.bufs[pool] = buf
	tp.packs++
	return buf
}

// Packs counts RenderData calls made so far.
func (tp *TrailPacker) Packs() int { return tp.packs }
