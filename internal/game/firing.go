package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

type FiringPhase int

const (
	PhaseIdle   FiringPhase = iota
	PhaseFiring             // beam attached, intensity pulsing
)

func (p FiringPhase) String() string {
	if p == PhaseFiring {
		return "firing"
	}
	return "idle"
}

type FiringConfig struct {
	CycleMs  int64 // wall-clock length of one cycle
	ActiveMs int64 // firing window at the start of each cycle

	BaseIntensity float64
	Amplitude     float64
	PulseRate     float64 // radians per tick

	StructureCenter mgl64.Vec3
	BeamLength      float64
}

func (c FiringConfig) validate() error {
	if c.CycleMs <= 0 {
		return configErr("firing.cycle_ms", "must be > 0, got %d", c.CycleMs)
	}
	if c.ActiveMs < 0 {
		return configErr("firing.active_ms", "must be >= 0, got %d", c.ActiveMs)
	}
	if c.ActiveMs > c.CycleMs {
		return configErr("firing.active_ms", "must not exceed cycle_ms (%d), got %d", c.CycleMs, c.ActiveMs)
	}
	return nil
}

// Beam is the auxiliary resource attached while firing. Its orientation is
// fixed when firing starts.
type Beam struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
	Length    float64
}

// BeamSink receives the edge actions of the firing machine.
type BeamSink interface {
	AttachBeam(b Beam)
	DetachBeam()
}

// FiringState toggles the beam on wall-clock cycle boundaries. The anchor is
// the dish position in the structure's rest frame; until it arrives the
// machine stays idle whatever the clock says.
type FiringState struct {
	cfg    FiringConfig
	anchor *Deferred[mgl64.Vec3]
	sink   BeamSink
	log    *zap.Logger

	phase       FiringPhase
	beam        Beam
	intensity   float64
	cycle       int64 // cycle index of the current/last entry
	entries     int
	lastEntered bool
}

func NewFiringState(cfg FiringConfig, anchor *Deferred[mgl64.Vec3], sink BeamSink, log *zap.Logger) (*FiringState, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.BeamLength <= 0 {
		cfg.BeamLength = DefaultBeamLength
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FiringState{
		cfg:    cfg,
		anchor: anchor,
		sink:   sink,
		log:    log,
		phase:  PhaseIdle,
	}, nil
}

func (f *FiringState) Phase() FiringPhase { return f.phase }
func (f *FiringState) IsFiring() bool { return f.phase == PhaseFiring }
func (f *FiringState) Intensity() float64 { return f.intensity }
func (f *FiringState) Beam() (Beam, bool) { return f.beam, f.phase == PhaseFiring }
func (f *FiringState) Entries() int { return f.entries }
func (f *FiringState) Config() FiringConfig { return f.cfg }

// Active reports whether wallMs falls inside a cycle's firing window, and the
// index of that cycle.
func (f *FiringState) Active(wallMs int64) (bool, int64) {
	rem := floorMod(wallMs, f.cfg.CycleMs)
	idx := (wallMs - rem) / f.cfg.CycleMs
	return rem < f.cfg.ActiveMs, idx
}

// Update evaluates the clock condition for this tick.
func (f *FiringState) Update(ctx TickContext) {
	active, cycle := f.Active(ctx.WallMs)

	switch f.phase {
	case PhaseIdle:
		if !active {
			return
		}
		// One entry per cycle, and never for a cycle at or before the last
		// one entered, even if the clock steps backwards.
		if f.lastEntered && cycle <= f.cycle {
			return
		}
		f.tryEnter(ctx, cycle)

	case PhaseFiring:
		if !active {
			f.exit(ctx)
			return
		}
		if cycle < f.cycle {
			f.exit(ctx)
			return
		}
		if cycle > f.cycle {
			// A whole idle window passed between ticks.
			f.exit(ctx)
			f.tryEnter(ctx, cycle)
			return
		}
		f.pulse(ctx.Tick)
	}
}

func (f *FiringState) tryEnter(ctx TickContext, cycle int64) {
	local, ok := f.anchor.Poll()
	if !ok {
		return
	}
	center := f.cfg.StructureCenter
	origin := center.Add(mgl64.Rotate3DY(ctx.StructureYaw).Mul3x1(local))
	dir := origin.Sub(center)
	if dir.LenSqr() == 0 {
		dir = mgl64.Vec3{0, 0, 1}
	}
	f.beam = Beam{
		Origin:    origin,
		Direction: dir.Normalize(),
		Length:    f.cfg.BeamLength,
	}
	f.phase = PhaseFiring
	f.cycle = cycle
	f.lastEntered = true
	f.entries++
	f.pulse(ctx.Tick)
	if f.sink != nil {
		f.sink.AttachBeam(f.beam)
	}
	f.log.Debug("firing started",
		zap.Int64("tick", ctx.Tick),
		zap.Int64("wall_ms", ctx.WallMs),
		zap.Int64("cycle", cycle))
}

func (f *FiringState) exit(ctx TickContext) {
	f.phase = PhaseIdle
	f.intensity = 0
	if f.sink != nil {
		f.sink.DetachBeam()
	}
	f.log.Debug("firing stopped",
		zap.Int64("tick", ctx.Tick),
		zap.Int64("wall_ms", ctx.WallMs))
}

func (f *FiringState) pulse(tick int64) {
	f.intensity = f.cfg.BaseIntensity + f.cfg.Amplitude*math.Sin(float64(tick)*f.cfg.PulseRate)
}
