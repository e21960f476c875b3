package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"comet/internal/game"
)

type Options struct {
	TickInterval time.Duration
	MoveStep     float64 // world units per key press
	TurnStep     float64 // radians per key press
	Shake        bool
}

func (o *Options) setDefaults() {
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second / 60
	}
	if o.MoveStep <= 0 {
		o.MoveStep = 4
	}
	if o.TurnStep <= 0 {
		o.TurnStep = 0.05
	}
}

// Run drives scene on a ticker and draws every tick until ctx is cancelled
// or the user quits. screen must not be initialised yet; Run owns it.
func Run(ctx context.Context, scene *game.Scene, screen tcell.Screen, cam game.Camera, opts Options, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	opts.setDefaults()
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	r := NewRenderer(screen, cam)
	if opts.Shake {
		scene.Bus().Subscribe(game.EventFiringStarted, func(game.Event) {
			r.Camera().AddShake(game.BeamShakeAmount, game.BeamShakeTime)
		})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(opts.TickInterval)
	defer ticker.Stop()

	start := time.Now()
	last := start
	var tick int64
	for {
		select {
		case <-ctx.Done():
			log.Info("terminal renderer stopped", zap.Int64("ticks", tick))
			return nil

		case ev := <-events:
			if !handleEvent(ev, r, opts) {
				log.Info("quit requested", zap.Int64("ticks", tick))
				return nil
			}

		case now := <-ticker.C:
			tick = int64(now.Sub(start) / opts.TickInterval)
			scene.OnTick(tick)

			dt := now.Sub(last).Seconds()
			last = now
			if dt > 0 {
				r.SetFPS(1 / dt)
			}
			if r.Follow {
				game.UpdateFollowCamera(r.Camera(), scene.Frame().Emitter, dt)
			}
			r.Camera().UpdateShake(dt, uint64(tick))
			if err := r.Submit(scene.Frame()); err != nil {
				return err
			}
		}
	}
}

// handleEvent applies input to the camera. It returns false on quit.
func handleEvent(ev tcell.Event, r *Renderer, opts Options) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		cam := r.Camera()
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			cam.Look(-opts.TurnStep, 0)
		case tcell.KeyRight:
			cam.Look(opts.TurnStep, 0)
		case tcell.KeyUp:
			cam.Look(0, opts.TurnStep)
		case tcell.KeyDown:
			cam.Look(0, -opts.TurnStep)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'w':
				cam.Move(opts.MoveStep, 0, 0)
			case 's':
				cam.Move(-opts.MoveStep, 0, 0)
			case 'a':
				cam.Move(0, -opts.MoveStep, 0)
			case 'd':
				cam.Move(0, opts.MoveStep, 0)
			case 'e', ' ':
				cam.Move(0, 0, opts.MoveStep)
			case 'c':
				cam.Move(0, 0, -opts.MoveStep)
			case 'h':
				r.ShowHUD = !r.ShowHUD
			case 'f':
				r.Follow = !r.Follow
			}
		}
	case *tcell.EventResize:
		r.screen.Sync()
	}
	return true
}
