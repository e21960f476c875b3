package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"comet/internal/game"
)

// Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 2.0

// Slightly lifted from the GL clear colour so terminals show some blue.
var background = game.Palette.Space.BlendRgb(colorful.Color{B: 1}, 0.15)

// Renderer draws frames as coloured glyphs, nearest point per cell wins.
type Renderer struct {
	screen tcell.Screen
	cam    game.Camera

	w, h  int
	depth []float64

	ShowHUD bool
	Follow  bool // chase the comet instead of free flight
	fps     float64
}

func NewRenderer(screen tcell.Screen, cam game.Camera) *Renderer {
	return &Renderer{screen: screen, cam: cam, ShowHUD: true}
}

// Camera is the live camera; input handlers move it between frames.
func (r *Renderer) Camera() *game.Camera { return &r.cam }

// SetFPS feeds the HUD counter.
func (r *Renderer) SetFPS(fps float64) { r.fps = fps }

func (r *Renderer) resize() {
	w, h := r.screen.Size()
	if w != r.w || h != r.h || r.depth == nil {
		r.w, r.h = w, h
		r.depth = make([]float64, w*h)
	}
	for i := range r.depth {
		r.depth[i] = math.Inf(1)
	}
}

func (r *Renderer) aspect() float64 {
	if r.h == 0 {
		return 1
	}
	return float64(r.w) / (float64(r.h) * cellAspect)
}

// Submit implements game.FrameSink.
func (r *Renderer) Submit(f *game.Frame) error {
	r.resize()
	if r.w == 0 || r.h == 0 {
		return nil
	}
	r.screen.Fill(' ', tcell.StyleDefault.Background(toTcell(background)))

	if e, ok := f.Entity(game.EntityStars); ok && e.Visible && f.Stars != nil {
		rot := mgl64.Rotate3DY(e.Yaw)
		for i, p := range f.Stars.Points {
			r.plot(rot.Mul3x1(p), '.', f.Stars.Colors[i].BlendRgb(background, 0.4))
		}
	}

	if e, ok := f.Entity(game.EntityGround); ok && e.Visible && f.Ground != nil {
		col := f.Ground.Color
		for _, p := range f.Ground.Points {
			r.plot(p, '.', col)
		}
	}

	if e, ok := f.Entity(game.EntityStructure); ok && e.Visible && f.Structure != nil {
		st := f.Structure
		rot := mgl64.Rotate3DY(e.Yaw)
		for _, d := range st.Details {
			shade := game.HullShade(rot.Mul3x1(d.Normal))
			r.plot(st.Center.Add(rot.Mul3x1(d.Position)), '#', game.Palette.Hull.BlendRgb(background, 1-shade))
		}
		if st.HasDish {
			r.plot(st.AnchorWorld(e.Yaw), '@', game.Palette.Dish)
		}
	}

	for _, pool := range f.Pools {
		e, ok := f.Entity(game.TrailEntity(pool.Name))
		if !ok || !e.Visible {
			continue
		}
		for i := range pool.P {
			p := pool.P[i].Pos
			fade := 1 - math.Min(p.Sub(f.Emitter.Position).Len()/f.Threshold, 1)
			a := float64(pool.Opacity) * (0.25 + 0.75*fade)
			r.plot(p, glyphFor(fade), background.BlendRgb(pool.Color, a))
		}
	}

	if e, ok := f.Entity(game.EntityBeam); ok && e.Visible {
		col := game.BeamColor(e.Intensity)
		steps := int(e.Scale)
		for i := 0; i <= steps; i++ {
			r.plot(e.Position.Add(e.Direction.Mul(float64(i))), '|', col)
		}
	}

	if e, ok := f.Entity(game.EntityTail); ok && e.Visible {
		steps := max(int(e.Scale*2), 1)
		for i := 1; i <= steps; i++ {
			t := float64(i) / float64(steps)
			a := float64(f.Tail.Opacity)
			if a <= 0 {
				a = 1
			}
			r.plot(e.Position.Add(e.Direction.Mul(t*e.Scale)), '~', background.BlendRgb(f.Tail.Color, a*(1-0.8*t)))
		}
	}

	if e, ok := f.Entity(game.EntityComet); ok && e.Visible {
		r.plot(e.Position, 'O', game.Palette.Comet)
	}

	if e, ok := f.Entity(game.EntityLabel); ok && e.Visible && f.Label != "" {
		if col, row, ok := r.cell(e.Position); ok {
			r.label(col-len(f.Label)/2, row, f.Label)
		}
	}

	if r.ShowHUD {
		phase := "idle"
		if b, ok := f.Entity(game.EntityBeam); ok && b.Visible {
			phase = fmt.Sprintf("FIRING %.2f", b.Intensity)
		}
		r.text(0, 0, fmt.Sprintf(" tick %d  %s  %.0f fps ", f.Tick, phase, r.fps))
	}

	r.screen.Show()
	return nil
}

func glyphFor(fade float64) rune {
	switch {
	case fade > 0.66:
		return '*'
	case fade > 0.33:
		return '+'
	default:
		return '.'
	}
}

// cell maps a world point to its screen cell.
func (r *Renderer) cell(p mgl64.Vec3) (col, row int, ok bool) {
	x, y, ok := r.cam.Project(p, r.aspect())
	if !ok || x < -1 || x >= 1 || y <= -1 || y > 1 {
		return 0, 0, false
	}
	col = int((x + 1) / 2 * float64(r.w))
	row = int((1 - y) / 2 * float64(r.h))
	if col < 0 || col >= r.w || row < 0 || row >= r.h {
		return 0, 0, false
	}
	return col, row, true
}

// plot projects p and draws ch if it is the nearest thing in its cell.
func (r *Renderer) plot(p mgl64.Vec3, ch rune, c colorful.Color) {
	col, row, ok := r.cell(p)
	if !ok {
		return
	}
	d := p.Sub(r.cam.EffectivePos()).LenSqr()
	idx := row*r.w + col
	if d > r.depth[idx] {
		return
	}
	r.depth[idx] = d
	style := tcell.StyleDefault.Foreground(toTcell(c)).Background(toTcell(background))
	r.screen.SetContent(col, row, ch, nil, style)
}

func (r *Renderer) text(x, y int, s string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for _, ch := range s {
		if x >= r.w {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// label draws s over the scene, clipped to the screen.
func (r *Renderer) label(x, y int, s string) {
	style := tcell.StyleDefault.Foreground(toTcell(game.Palette.Label)).Background(toTcell(background)).Bold(true)
	for _, ch := range s {
		if x >= r.w {
			return
		}
		if x >= 0 {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x++
	}
}

func toTcell(c colorful.Color) tcell.Color {
	rr, gg, bb := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(rr), int32(gg), int32(bb))
}
