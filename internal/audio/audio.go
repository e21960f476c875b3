package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"go.uber.org/zap"

	"comet/internal/game"
)

const channelCount = 2

// Volumes relative to the master volume.
const (
	sfxGain   = 0.9
	humGain   = 0.7
	droneGain = 0.25
)

// System plays the procedural soundtrack. Every method is a no-op until the
// device reports ready, and on a nil *System.
type System struct {
	ctx    *oto.Context
	ready  chan struct{}
	rate   int
	volume float64
	log    *zap.Logger

	hum   oto.Player
	drone oto.Player
}

// New opens the audio device. Callers treat an error as "run silent".
func New(sampleRate int, volume float64, log *zap.Logger) (*System, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	ctx, ready, err := oto.NewContext(sampleRate, channelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	return &System{ctx: ctx, ready: ready, rate: sampleRate, volume: volume, log: log}, nil
}

func (s *System) isReady() bool {
	if s == nil {
		return false
	}
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Attach subscribes the beam sounds to the scene's firing events.
func (s *System) Attach(bus *game.EventBus) {
	if s == nil || bus == nil {
		return
	}
	bus.Subscribe(game.EventFiringStarted, func(game.Event) {
		s.playOnce(genCharge(s.rate), sfxGain)
		s.StartHum()
	})
	bus.Subscribe(game.EventFiringStopped, func(game.Event) {
		s.StopHum()
		s.playOnce(genPowerDown(s.rate), sfxGain)
	})
}

func (s *System) playOnce(samples []byte, gain float64) {
	if !s.isReady() || len(samples) == 0 {
		return
	}
	go func() {
		player := s.ctx.NewPlayer(&soundReader{data: samples})
		player.SetVolume(s.volume * gain)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

func (s *System) loop(r io.Reader, gain float64) oto.Player {
	player := s.ctx.NewPlayer(r)
	player.SetVolume(s.volume * gain)
	player.Play()
	return player
}

func (s *System) StartHum() {
	if !s.isReady() || s.hum != nil {
		return
	}
	s.hum = s.loop(&humReader{rate: float64(s.rate), seed: 0x5EED}, humGain)
}

func (s *System) StopHum() {
	if s == nil || s.hum == nil {
		return
	}
	if err := s.hum.Close(); err != nil {
		s.log.Debug("close hum player", zap.Error(err))
	}
	s.hum = nil
}

// StartDrone begins the ambient pad. The device may take a moment to come up
// after New, so this waits for it briefly.
func (s *System) StartDrone() {
	if s == nil || s.drone != nil {
		return
	}
	select {
	case <-s.ready:
	case <-time.After(500 * time.Millisecond):
		s.log.Warn("audio device not ready, skipping drone")
		return
	}
	s.drone = s.loop(&droneReader{rate: float64(s.rate)}, droneGain)
}

// Close stops every looping player.
func (s *System) Close() {
	if s == nil {
		return
	}
	s.StopHum()
	if s.drone != nil {
		s.drone.Close()
		s.drone = nil
	}
}
