package desktop

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"comet/internal/game"
)

// Upper bound on vertices uploaded in one draw call.
const maxVertices = 65536

const dishSize = 8

// glOffset converts a byte offset to the pointer form VertexAttribPointer takes.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type pointUniforms struct {
	model, view, proj, viewportH, gain int32
}

// Renderer draws frames with OpenGL point sprites. It implements game.FrameSink.
type Renderer struct {
	glowProg   uint32
	solidProg  uint32
	detailProg uint32

	vao, vbo uint32

	glowU  pointUniforms
	solidU pointUniforms

	detU struct {
		view, proj, viewportH, lightDir, hull int32
	}

	cam       *game.Camera
	fbW, fbH  int
	detailBuf []float32
	scratch   []float32
	trails    *game.TrailPacker
}

// NewRenderer links the programs and sets up the streaming buffer. A GL
// context must be current.
func NewRenderer(cam *game.Camera) (*Renderer, error) {
	glowProg, err := linkProgram(pointVertSrc, glowFragSrc)
	if err != nil {
		return nil, fmt.Errorf("glow program: %w", err)
	}
	solidProg, err := linkProgram(pointVertSrc, solidFragSrc)
	if err != nil {
		gl.DeleteProgram(glowProg)
		return nil, fmt.Errorf("solid program: %w", err)
	}
	detailProg, err := linkProgram(detailVertSrc, solidFragSrc)
	if err != nil {
		gl.DeleteProgram(glowProg)
		gl.DeleteProgram(solidProg)
		return nil, fmt.Errorf("detail program: %w", err)
	}

	r := &Renderer{
		glowProg:   glowProg,
		solidProg:  solidProg,
		detailProg: detailProg,
		cam:        cam,
		trails:     game.NewTrailPacker(),
	}

	// Streaming buffer: 8 floats per vertex.
	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	stride := int32(8 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, maxVertices*int(stride), nil, gl.STREAM_DRAW)
	// aPos (vec3)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	// aSize (float)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, stride, glOffset(3*4))
	// aColor / aNormal (vec4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, glOffset(4*4))

	r.glowU = pointLocations(glowProg)
	r.solidU = pointLocations(solidProg)

	gl.UseProgram(detailProg)
	r.detU.view = gl.GetUniformLocation(detailProg, gl.Str("uView\x00"))
	r.detU.proj = gl.GetUniformLocation(detailProg, gl.Str("uProj\x00"))
	r.detU.viewportH = gl.GetUniformLocation(detailProg, gl.Str("uViewportH\x00"))
	r.detU.lightDir = gl.GetUniformLocation(detailProg, gl.Str("uLightDir\x00"))
	r.detU.hull = gl.GetUniformLocation(detailProg, gl.Str("uHull\x00"))
	sun, hull := game.SunDir, game.Palette.Hull
	gl.Uniform3f(r.detU.lightDir, float32(sun[0]), float32(sun[1]), float32(sun[2]))
	gl.Uniform3f(r.detU.hull, float32(hull.R), float32(hull.G), float32(hull.B))

	space := game.Palette.Space
	gl.ClearColor(float32(space.R), float32(space.G), float32(space.B), 1)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Disable(gl.CULL_FACE)

	return r, nil
}

func pointLocations(prog uint32) pointUniforms {
	gl.UseProgram(prog)
	u := pointUniforms{
		model:     gl.GetUniformLocation(prog, gl.Str("uModel\x00")),
		view:      gl.GetUniformLocation(prog, gl.Str("uView\x00")),
		proj:      gl.GetUniformLocation(prog, gl.Str("uProj\x00")),
		viewportH: gl.GetUniformLocation(prog, gl.Str("uViewportH\x00")),
		gain:      gl.GetUniformLocation(prog, gl.Str("uGain\x00")),
	}
	ident := mgl32.Ident4()
	gl.UniformMatrix4fv(u.model, 1, false, &ident[0])
	return u
}

func (r *Renderer) Destroy() {
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	for _, id := range []uint32{r.glowProg, r.solidProg, r.detailProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
}

// SetViewport records the framebuffer size used by the next Submit.
func (r *Renderer) SetViewport(fbW, fbH int) {
	r.fbW, r.fbH = fbW, fbH
}

// Submit implements game.FrameSink.
func (r *Renderer) Submit(f *game.Frame) error {
	if r.fbW <= 0 || r.fbH <= 0 {
		return nil
	}
	gl.Viewport(0, 0, int32(r.fbW), int32(r.fbH))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	view := r.cam.View()
	proj := r.cam.Projection(float64(r.fbW) / float64(r.fbH))
	vh := float32(r.fbH)

	// Opaque hull first so the additive passes depth-test against it.
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	if e, ok := f.Entity(game.EntityStructure); ok && e.Visible && f.Structure != nil {
		r.detailBuf = f.Structure.DetailRenderData(e.Yaw, r.detailBuf)
		if f.Structure.HasDish {
			a := f.Structure.AnchorWorld(e.Yaw)
			n := a.Sub(f.Structure.Center)
			r.detailBuf = append(r.detailBuf,
				float32(a[0]), float32(a[1]), float32(a[2]), dishSize,
				float32(n[0]), float32(n[1]), float32(n[2]), 0)
		}
		gl.UseProgram(r.detailProg)
		gl.UniformMatrix4fv(r.detU.view, 1, false, &view[0])
		gl.UniformMatrix4fv(r.detU.proj, 1, false, &proj[0])
		gl.Uniform1f(r.detU.viewportH, vh)
		r.draw(r.detailBuf, gl.POINTS)
	}

	if e, ok := f.Entity(game.EntityGround); ok && e.Visible && f.Ground != nil {
		gl.UseProgram(r.solidProg)
		gl.UniformMatrix4fv(r.solidU.view, 1, false, &view[0])
		gl.UniformMatrix4fv(r.solidU.proj, 1, false, &proj[0])
		gl.Uniform1f(r.solidU.viewportH, vh)
		r.draw(f.Ground.RenderData(), gl.POINTS)
	}

	gl.DepthMask(false)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE)

	gl.UseProgram(r.glowProg)
	gl.UniformMatrix4fv(r.glowU.view, 1, false, &view[0])
	gl.UniformMatrix4fv(r.glowU.proj, 1, false, &proj[0])
	gl.Uniform1f(r.glowU.viewportH, vh)
	gl.Uniform1f(r.glowU.gain, 1)

	if e, ok := f.Entity(game.EntityStars); ok && e.Visible && f.Stars != nil {
		model := mgl32.HomogRotate3DY(float32(e.Yaw))
		gl.UniformMatrix4fv(r.glowU.model, 1, false, &model[0])
		r.draw(f.Stars.RenderData(), gl.POINTS)
		ident := mgl32.Ident4()
		gl.UniformMatrix4fv(r.glowU.model, 1, false, &ident[0])
	}

	for _, pool := range f.Pools {
		if e, ok := f.Entity(game.TrailEntity(pool.Name)); !ok || !e.Visible {
			continue
		}
		r.draw(r.trails.Data(pool, f.Emitter.Position, f.Threshold), gl.POINTS)
	}

	if e, ok := f.Entity(game.EntityTail); ok && e.Visible {
		r.scratch = game.TailRenderData(e.Position, e.Direction, f.Tail, r.scratch)
		r.draw(r.scratch, gl.POINTS)
	}

	if e, ok := f.Entity(game.EntityComet); ok && e.Visible {
		r.scratch = appendVertex(r.scratch[:0], e.Position, float32(e.Scale*2), game.Palette.Comet, 1)
		r.draw(r.scratch, gl.POINTS)
	}

	if e, ok := f.Entity(game.EntityBeamLight); ok && e.Visible {
		gl.Uniform1f(r.glowU.gain, float32(e.Intensity))
		r.scratch = appendVertex(r.scratch[:0], e.Position, 12, game.Palette.Beam, 1)
		r.draw(r.scratch, gl.POINTS)
		gl.Uniform1f(r.glowU.gain, 1)
	}

	if e, ok := f.Entity(game.EntityBeam); ok && e.Visible {
		col := game.BeamColor(e.Intensity)
		end := e.Position.Add(e.Direction.Mul(e.Scale))
		r.scratch = appendVertex(r.scratch[:0], e.Position, 1, col, 1)
		r.scratch = appendVertex(r.scratch, end, 1, col, 0.2)
		gl.UseProgram(r.solidProg)
		gl.UniformMatrix4fv(r.solidU.view, 1, false, &view[0])
		gl.UniformMatrix4fv(r.solidU.proj, 1, false, &proj[0])
		gl.Uniform1f(r.solidU.viewportH, vh)
		r.draw(r.scratch, gl.LINES)
	}

	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	return nil
}

func (r *Renderer) draw(buf []float32, mode uint32) {
	count := len(buf) / 8
	if count == 0 {
		return
	}
	if count > maxVertices {
		count = maxVertices
	}
	gl.BufferData(gl.ARRAY_BUFFER, count*8*4, gl.Ptr(buf), gl.STREAM_DRAW)
	gl.DrawArrays(mode, 0, int32(count))
}

func appendVertex(buf []float32, p mgl64.Vec3, size float32, c colorful.Color, a float32) []float32 {
	return append(buf,
		float32(p[0]), float32(p[1]), float32(p[2]), size,
		float32(c.R), float32(c.G), float32(c.B), a,
	)
}
