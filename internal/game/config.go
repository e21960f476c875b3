package game

// Particle trail.
const (
	RecycleThreshold = 10.0 // world units from the emitter before a particle respawns
	MaxCatchUpTicks  = 8    // per-advance step cap after a frame hitch
	JitterFraction   = 0.35 // lateral/vertical share of a respawn velocity
	MinBackwardDraw  = 0.5  // lower bound of the backward speed draw (x DecayScale)
)

// Surface detail.
const (
	DefaultMaxAttempts = 64
	DetailNoiseAlpha   = 2.0
	DetailNoiseBeta    = 2.0
	DetailNoiseOctaves = 3
	DetailNoiseFreq    = 1.7
	DetailScaleSwing   = 0.45 // +/- share of the base scale driven by noise
)

// Linear path.
const DefaultLinearAmplitude = 2.0 // z sway of the linear sweep

// Firing pulse defaults.
const (
	DefaultBeamBase      = 2.0
	DefaultBeamAmplitude = 0.6
	DefaultBeamPulseRate = 0.35
	DefaultBeamLength    = 400.0
)

// Camera.
const (
	DefaultFOV      = 75.0
	CameraNear      = 0.1
	CameraFar       = 2000.0
	MaxPitchDegrees = 89.0
	BeamShakeAmount = 0.6
	BeamShakeTime   = 0.45
)

// Entity names published in every Frame.
const (
	EntityComet     = "comet"
	EntityStructure = "structure"
	EntityStars     = "stars"
	EntityBeam      = "beam"
	EntityBeamLight = "beam-light"
	EntityGround    = "ground"
	EntityTail      = "tail"
	EntityLabel     = "label"
	trailPrefix     = "trail/"
)

// TrailEntity returns the frame entity name of the pool called name.
func TrailEntity(name string) string { return trailPrefix + name }
