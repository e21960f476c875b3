package desktop

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"comet/internal/config"
	"comet/internal/game"
)

// Run opens the window and drives scene from the frame loop until the window
// closes or ctx is cancelled. It must be called from the main goroutine.
func Run(ctx context.Context, scene *game.Scene, cfg *config.Config, cam game.Camera, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	window, err := initWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	// No font atlas on the GL path; the comet label goes in the title bar.
	if label := scene.Frame().Label; label != "" {
		window.SetTitle(cfg.Window.Title + " - " + label)
	}

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	log.Info("gl ready", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	rend, err := NewRenderer(&cam)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	if cfg.Camera.Shake {
		scene.Bus().Subscribe(game.EventFiringStarted, func(game.Event) {
			cam.AddShake(game.BeamShakeAmount, game.BeamShakeTime)
		})
	}

	// Surface placement runs off the render thread; the scene picks it up on
	// a later tick.
	built := scene.BuildStructureAsync()

	input := NewInput()
	follow := false
	tps := float64(cfg.TPS)
	seed := scene.Config().Seed

	start := glfw.GetTime()
	last := start
	for !window.ShouldClose() {
		select {
		case <-ctx.Done():
			window.SetShouldClose(true)
			continue
		case err := <-built:
			built = nil
			if err != nil {
				return fmt.Errorf("build structure: %w", err)
			}
		default:
		}

		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > 0.1 {
			dt = 0.1
		}

		glfw.PollEvents()
		if input.JustPressed(window, glfw.KeyEscape) {
			window.SetShouldClose(true)
		}
		if input.JustPressed(window, glfw.KeyTab) {
			input.ToggleLook(window)
		}
		if input.JustPressed(window, glfw.KeyF) {
			follow = !follow
		}
		input.Fly(window, &cam, dt, cfg.Camera.MoveSpeed, cfg.Camera.Sensitivity)

		scene.OnTick(int64((now - start) * tps))
		if follow {
			game.UpdateFollowCamera(&cam, scene.Frame().Emitter, dt)
		}
		cam.UpdateShake(dt, seed^uint64(now*1000))

		fbW, fbH := window.GetFramebufferSize()
		rend.SetViewport(fbW, fbH)
		if err := rend.Submit(scene.Frame()); err != nil {
			return err
		}
		window.SwapBuffers()
	}
	log.Info("window closed", zap.Int64("tick", scene.Frame().Tick))
	return nil
}
