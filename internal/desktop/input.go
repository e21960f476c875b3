package desktop

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"comet/internal/game"
)

type Input struct {
	prevKeys    map[glfw.Key]bool
	prevCursorX float64
	prevCursorY float64
	hasCursor   bool
	looking     bool
}

func NewInput() *Input {
	return &Input{prevKeys: make(map[glfw.Key]bool)}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// axis is +1/-1/0 depending on which of the two keys is held.
func axis(window *glfw.Window, pos, neg glfw.Key) float64 {
	v := 0.0
	if window.GetKey(pos) == glfw.Press {
		v++
	}
	if window.GetKey(neg) == glfw.Press {
		v--
	}
	return v
}

// ToggleLook grabs or releases the cursor for mouse look.
func (in *Input) ToggleLook(window *glfw.Window) {
	in.looking = !in.looking
	in.hasCursor = false
	if in.looking {
		window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

// Fly applies WASD/space/shift movement and, while looking, mouse look.
// speed is world units per second, sens radians per pixel.
func (in *Input) Fly(window *glfw.Window, cam *game.Camera, dt, speed, sens float64) {
	step := speed * dt
	if window.GetKey(glfw.KeyLeftControl) == glfw.Press {
		step *= 4
	}
	cam.Move(
		axis(window, glfw.KeyW, glfw.KeyS)*step,
		axis(window, glfw.KeyD, glfw.KeyA)*step,
		axis(window, glfw.KeySpace, glfw.KeyLeftShift)*step,
	)

	if !in.looking {
		return
	}
	cx, cy := window.GetCursorPos()
	if in.hasCursor {
		cam.Look((cx-in.prevCursorX)*sens, -(cy-in.prevCursorY)*sens)
	}
	in.prevCursorX, in.prevCursorY = cx, cy
	in.hasCursor = true
}
