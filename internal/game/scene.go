package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// TickContext is everything a component may read during one tick.
type TickContext struct {
	Tick         int64
	WallMs       int64
	Pose         EmitterPose
	StructureYaw float64
}

type SceneConfig struct {
	Seed      uint64
	Path      PathSpec
	Pools     []PoolSpec
	Structure StructureConfig
	Firing    FiringConfig
	Stars     StarfieldConfig
	Ground    GroundConfig
	Tail      TailConfig
	Label     LabelConfig

	CometRadius float64
}

// Scene wires the core components together and drives them from OnTick.
// All of its state belongs to the tick goroutine.
type Scene struct {
	cfg   SceneConfig
	clock Clock
	bus   *EventBus
	log   *zap.Logger

	Trail  *TrailSystem
	Firing *FiringState
	Stars  *Starfield
	Ground *Ground

	structure *Deferred[*Structure]
	anchor    *Deferred[mgl64.Vec3]
	built     *Structure
	beam      *beamSlot

	frame    Frame
	lastTick int64
	started  bool
}

// NewScene validates cfg and builds every tick-loop component. The structure
// is not generated here; call BuildStructure or BuildStructureAsync.
func NewScene(cfg SceneConfig, clock Clock, bus *EventBus, log *zap.Logger) (*Scene, error) {
	if err := cfg.Path.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if bus == nil {
		bus = NewEventBus()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	if cfg.CometRadius <= 0 {
		cfg.CometRadius = 1.5
	}
	if cfg.Structure.Surface.MaxAttempts == 0 {
		cfg.Structure.Surface.MaxAttempts = DefaultMaxAttempts
	}
	if err := cfg.Structure.Surface.validate(cfg.Structure.zones()); err != nil {
		return nil, err
	}
	cfg.Firing.StructureCenter = cfg.Structure.Center

	s := &Scene{
		cfg:       cfg,
		clock:     clock,
		bus:       bus,
		log:       log,
		Trail:     NewTrailSystem(hashSeed(cfg.Seed, 1, 0)),
		structure: NewDeferred[*Structure](),
		anchor:    NewDeferred[mgl64.Vec3](),
	}
	for _, ps := range cfg.Pools {
		if _, err := s.Trail.CreatePool(ps); err != nil {
			return nil, fmt.Errorf("create pool %q: %w", ps.Name, err)
		}
	}

	stars, err := NewStarfield(cfg.Stars, NewRand(hashSeed(cfg.Seed, 2, 0)))
	if err != nil {
		return nil, err
	}
	s.Stars = stars

	if cfg.Tail.Length < 0 || cfg.Tail.Radius < 0 {
		return nil, configErr("tail", "length and radius must be >= 0")
	}
	ground, err := NewGround(cfg.Ground)
	if err != nil {
		return nil, err
	}
	s.Ground = ground

	s.beam = &beamSlot{bus: bus}
	firing, err := NewFiringState(cfg.Firing, s.anchor, s.beam, log)
	if err != nil {
		return nil, err
	}
	s.Firing = firing

	s.frame.Entities = make(map[string]EntityUpdate, 8+len(s.Trail.Pools))
	s.frame.Pools = s.Trail.Pools
	s.frame.Stars = s.Stars
	s.frame.Threshold = s.Trail.Threshold
	s.frame.Ground = s.Ground
	s.frame.Tail = cfg.Tail
	s.frame.Label = cfg.Label.Text
	return s, nil
}

// BuildStructure generates the structure on the calling goroutine and fills
// the structure and anchor slots.
func (s *Scene) BuildStructure() error {
	st, err := BuildStructure(s.cfg.Structure, NewRand(hashSeed(s.cfg.Seed, 3, 0)), s.log)
	if err != nil {
		return err
	}
	s.deliver(st)
	return nil
}

// BuildStructureAsync generates the structure on a new goroutine. The tick
// loop picks it up on the first tick after it is done; errors are reported on
// the returned channel, which is closed when the work finishes.
func (s *Scene) BuildStructureAsync() <-chan error {
	errc := make(chan error, 1)
	cfg := s.cfg.Structure
	rng := NewRand(hashSeed(s.cfg.Seed, 3, 0))
	go func() {
		defer close(errc)
		st, err := BuildStructure(cfg, rng, s.log)
		if err != nil {
			errc <- err
			return
		}
		s.deliver(st)
	}()
	return errc
}

// deliver only touches the Deferred slots, which are safe across goroutines.
func (s *Scene) deliver(st *Structure) {
	s.structure.Resolve(st)
	if st.HasDish {
		s.anchor.Resolve(st.Anchor)
	}
}

// OnTick runs one animation step for elapsedTicks since start.
func (s *Scene) OnTick(elapsedTicks int64) {
	ctx := TickContext{
		Tick:         elapsedTicks,
		WallMs:       s.clock.NowMs(),
		Pose:         Pose(elapsedTicks, s.cfg.Path),
		StructureYaw: float64(elapsedTicks) * s.cfg.Structure.Spin,
	}

	s.pollStructure(ctx)

	if !s.started {
		s.Trail.ScatterAll(ctx.Pose)
		s.started = true
	} else {
		s.Trail.AdvanceAll(ctx.Pose, elapsedTicks-s.lastTick)
	}
	s.lastTick = elapsedTicks

	s.Firing.Update(ctx)
	s.publish(ctx)
}

func (s *Scene) pollStructure(ctx TickContext) {
	if s.built != nil {
		return
	}
	st, ok := s.structure.Poll()
	if !ok {
		return
	}
	s.built = st
	s.frame.Structure = st
	s.log.Info("structure ready",
		zap.Int("details", st.Stats.Placed),
		zap.Int("skipped", st.Stats.Skipped),
		zap.Int64("tick", ctx.Tick))
	s.bus.Emit(Event{Type: EventStructureReady, Tick: ctx.Tick, Pos: st.Center})
	if st.HasDish {
		s.bus.Emit(Event{Type: EventAnchorReady, Tick: ctx.Tick, Pos: st.Anchor})
	}
}

func (s *Scene) publish(ctx TickContext) {
	f := &s.frame
	f.Tick = ctx.Tick
	f.WallMs = ctx.WallMs
	f.Emitter = ctx.Pose
	clear(f.Entities)

	f.Entities[EntityComet] = EntityUpdate{
		Position: ctx.Pose.Position,
		Yaw:      ctx.Pose.Heading,
		Scale:    s.cfg.CometRadius,
		Visible:  true,
	}
	f.Entities[EntityStructure] = EntityUpdate{
		Position: s.cfg.Structure.Center,
		Yaw:      ctx.StructureYaw,
		Scale:    s.cfg.Structure.Surface.Radius,
		Visible:  s.built != nil && (len(s.built.Details) > 0 || s.built.HasDish),
	}
	f.Entities[EntityTail] = EntityUpdate{
		Position:  ctx.Pose.Position,
		Yaw:       ctx.Pose.Heading,
		Direction: ctx.Pose.Forward.Mul(-1),
		Scale:     s.cfg.Tail.Length,
		Visible:   s.cfg.Tail.Length > 0,
	}
	f.Entities[EntityLabel] = EntityUpdate{
		Position: ctx.Pose.Position.Add(s.cfg.Label.Offset),
		Scale:    1,
		Visible:  s.cfg.Label.Text != "",
	}
	f.Entities[EntityGround] = EntityUpdate{
		Position: mgl64.Vec3{0, s.cfg.Ground.Height, 0},
		Scale:    s.cfg.Ground.Size,
		Visible:  s.Ground != nil,
	}
	f.Entities[EntityStars] = EntityUpdate{
		Yaw:     s.Stars.Yaw(ctx.Tick),
		Scale:   1,
		Visible: len(s.Stars.Points) > 0,
	}

	beam, firing := s.Firing.Beam()
	f.Entities[EntityBeam] = EntityUpdate{
		Position:  beam.Origin,
		Direction: beam.Direction,
		Scale:     beam.Length,
		Visible:   firing,
		Intensity: s.Firing.Intensity(),
	}
	f.Entities[EntityBeamLight] = EntityUpdate{
		Position:  beam.Origin,
		Visible:   s.beam.attached,
		Intensity: s.Firing.Intensity(),
	}
	for _, p := range s.Trail.Pools {
		f.Entities[TrailEntity(p.Name)] = EntityUpdate{
			Position: ctx.Pose.Position,
			Scale:    1,
			Visible:  p.Len() > 0,
		}
	}
}

// Frame returns the frame built by the last OnTick.
func (s *Scene) Frame() *Frame { return &s.frame }

// Structure returns the generated structure, or nil while it is pending.
func (s *Scene) Structure() *Structure { return s.built }

func (s *Scene) Bus() *EventBus { return s.bus }

func (s *Scene) Config() SceneConfig { return s.cfg }

// beamSlot is the scene-side owner of the auxiliary beam light.
type beamSlot struct {
	bus      *EventBus
	attached bool
	beam     Beam
}

func (b *beamSlot) AttachBeam(beam Beam) {
	b.attached = true
	b.beam = beam
	b.bus.Emit(Event{Type: EventFiringStarted, Pos: beam.Origin, Value: beam.Length})
}

func (b *beamSlot) DetachBeam() {
	b.attached = false
	b.bus.Emit(Event{Type: EventFiringStopped, Pos: b.beam.Origin})
}
