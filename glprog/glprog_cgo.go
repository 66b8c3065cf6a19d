//go:build !tinygo && cgo

package glprog

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.1-core/glgl"
	"github.com/soypat/tonelab"
	"github.com/soypat/tonelab/imgsrc"
	"github.com/soypat/tonelab/session"
)

// Window is a GLFW window with a current GL 4.1 core context. Input
// callbacks only queue events; [Window.PollEvents] hands them to the caller.
type Window struct {
	w      *glfw.Window
	events []Event
}

// NewWindow creates a window and makes its context current. The returned
// function terminates GLFW.
func NewWindow(cfg WindowConfig) (*Window, func(), error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	w, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	w.MakeContextCurrent()
	glfw.SwapInterval(1)
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	win := &Window{w: w}
	w.SetKeyCallback(win.onKey)
	w.SetCharCallback(win.onChar)
	w.SetDropCallback(win.onDrop)
	return win, glfw.Terminate, nil
}

var keymap = map[glfw.Key]Key{
	glfw.KeyUp:        KeyUp,
	glfw.KeyDown:      KeyDown,
	glfw.KeyLeft:      KeyLeft,
	glfw.KeyRight:     KeyRight,
	glfw.KeyTab:       KeyTab,
	glfw.KeyEnter:     KeyEnter,
	glfw.KeyKPEnter:   KeyEnter,
	glfw.KeyBackspace: KeyBackspace,
	glfw.KeyR:         KeyRecompile,
	glfw.KeyS:         KeyScenario,
	glfw.KeyP:         KeyPreset,
	glfw.KeyH:         KeyHidePanel,
	glfw.KeyEscape:    KeyEscape,
}

func (win *Window) onKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}
	k, ok := keymap[key]
	if !ok {
		return
	}
	win.events = append(win.events, Event{Kind: EventKey, Key: k, Shift: mods&glfw.ModShift != 0})
}

func (win *Window) onChar(w *glfw.Window, char rune) {
	win.events = append(win.events, Event{Kind: EventChar, Rune: char})
}

func (win *Window) onDrop(w *glfw.Window, names []string) {
	win.events = append(win.events, Event{Kind: EventDrop, Paths: names})
}

// PollEvents processes pending window events and returns the queued
// application events. The returned slice is valid until the next call.
func (win *Window) PollEvents() []Event {
	win.events = win.events[:0]
	glfw.PollEvents()
	return win.events
}

// ShouldClose reports whether the user asked to close the window.
func (win *Window) ShouldClose() bool { return win.w.ShouldClose() }

// SetShouldClose flags the window for closing.
func (win *Window) SetShouldClose() { win.w.SetShouldClose(true) }

// FramebufferSize returns the drawable size in pixels.
func (win *Window) FramebufferSize() (width, height int) { return win.w.GetFramebufferSize() }

// SetTitle sets the window title.
func (win *Window) SetTitle(title string) { win.w.SetTitle(title) }

// SwapBuffers presents the frame.
func (win *Window) SwapBuffers() { win.w.SwapBuffers() }

// Compiler compiles fragment shaders against the fixed vertex shader. It
// implements [session.Compiler] and requires a current GL context.
type Compiler struct{}

var _ session.Compiler = Compiler{}

// Compile compiles and links fragmentSource. The returned error carries the
// driver's info log verbatim.
func (Compiler) Compile(fragmentSource string) (session.Program, error) {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertexSource + "\x00",
		Fragment: fragmentSource + "\x00",
	})
	if err != nil {
		return nil, err
	}
	return &Program{prog: prog, locs: make(map[string]int32)}, nil
}

// Program is a linked GL program with a cache of uniform locations.
type Program struct {
	prog glgl.Program
	locs map[string]int32
}

// Delete releases the GL program.
func (p *Program) Delete() { p.prog.Delete() }

// location returns the location of the named uniform or -1 when the linker
// discarded it. GL ignores uploads to location -1.
func (p *Program) location(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc, err := p.prog.UniformLocation(name + "\x00")
	if err != nil {
		loc = -1
	}
	p.locs[name] = loc
	return loc
}

func (p *Program) upload(name string, uv uniformValue) {
	loc := p.location(name)
	if loc < 0 {
		return
	}
	switch uv.vt {
	case tonelab.Bool, tonelab.Int:
		gl.Uniform1i(loc, uv.i)
	case tonelab.Uint:
		gl.Uniform1ui(loc, uv.u)
	case tonelab.Float:
		gl.Uniform1f(loc, uv.f[0])
	case tonelab.Vec3:
		gl.Uniform3f(loc, uv.f[0], uv.f[1], uv.f[2])
	}
}

// Renderer draws the image texture through a [Program] and an optional
// control panel overlay on top.
type Renderer struct {
	vao, vbo    uint32
	tex         uint32
	imageAspect float32

	overlay     glgl.Program
	overlayVAO  uint32
	overlayTex  uint32
	overlayLocs [4]int32 // offset, size, screen, panel.
}

// NewRenderer allocates the quad geometry and the overlay program. It
// requires a current GL context.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{imageAspect: 1}
	square := []float32{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
	}
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(square), gl.Ptr(square), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	overlay, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   overlayVertexSource + "\x00",
		Fragment: overlayFragmentSource + "\x00",
	})
	if err != nil {
		r.Delete()
		return nil, fmt.Errorf("overlay program: %w", err)
	}
	r.overlay = overlay
	for i, name := range [4]string{"_offset\x00", "_size\x00", "_screen\x00", "_panel\x00"} {
		r.overlayLocs[i], err = overlay.UniformLocation(name)
		if err != nil {
			r.Delete()
			return nil, fmt.Errorf("overlay program: %w", err)
		}
	}
	gl.GenVertexArrays(1, &r.overlayVAO)
	return r, glgl.Err()
}

// SetImage uploads img as the texture sampled by the tonemapping shader.
func (r *Renderer) SetImage(img *imgsrc.Image) error {
	if img == nil || len(img.Pix) < 4*img.Width*img.Height || img.Width == 0 {
		return errors.New("invalid image")
	}
	if r.tex == 0 {
		gl.GenTextures(1, &r.tex)
	}
	gl.BindTexture(gl.TEXTURE_2D, r.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(img.Width), int32(img.Height), 0, gl.RGBA, gl.FLOAT, gl.Ptr(img.Pix))
	setSampling(gl.LINEAR)
	r.imageAspect = img.AspectRatio()
	return glgl.Err()
}

// Draw clears the framebuffer and draws the image through prog, uploading
// the static controls and every uniform's current value.
func (r *Renderer) Draw(prog session.Program, uniforms []session.Uniform, st *Static, width, height int) error {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0.1, 0.1, 0.1, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	p, ok := prog.(*Program)
	if !ok || p == nil || r.tex == 0 || height == 0 {
		return nil
	}
	p.prog.Bind()
	defer p.prog.Unbind()
	gl.Uniform1f(p.location("_viewAspectRatio"), float32(width)/float32(height))
	gl.Uniform1f(p.location("_imageAspectRatio"), r.imageAspect)
	gl.Uniform1i(p.location("_tex"), 0)
	gl.Uniform1f(p.location("_exposure"), st.ExposureScale())
	gl.Uniform1i(p.location("_showClamp"), int32(st.ShowClamp.Value().Scalar))
	gl.Uniform1i(p.location("_pureGammaEncode"), int32(st.GammaEncode.Value().Scalar))
	for i := range uniforms {
		u := &uniforms[i]
		uv, err := convertUniform(u.Type, u.Control.Value())
		if err != nil {
			return err
		}
		p.upload(u.Name, uv)
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.tex)
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	return glgl.Err()
}

// DrawOverlay blends img over the top-left corner of the framebuffer.
func (r *Renderer) DrawOverlay(img *image.RGBA, width, height int) error {
	size := img.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return nil
	}
	if r.overlayTex == 0 {
		gl.GenTextures(1, &r.overlayTex)
	}
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, r.overlayTex)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size.X), int32(size.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	setSampling(gl.NEAREST)

	r.overlay.Bind()
	defer r.overlay.Unbind()
	gl.Uniform2f(r.overlayLocs[0], 8, 8)
	gl.Uniform2f(r.overlayLocs[1], float32(size.X), float32(size.Y))
	gl.Uniform2f(r.overlayLocs[2], float32(width), float32(height))
	gl.Uniform1i(r.overlayLocs[3], 1)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA) // image.RGBA is premultiplied.
	gl.BindVertexArray(r.overlayVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.Disable(gl.BLEND)
	gl.ActiveTexture(gl.TEXTURE0)
	return glgl.Err()
}

// Delete releases all GL objects owned by the renderer.
func (r *Renderer) Delete() {
	if r.overlay.ID() != 0 {
		r.overlay.Delete()
	}
	for _, tex := range []*uint32{&r.tex, &r.overlayTex} {
		if *tex != 0 {
			gl.DeleteTextures(1, tex)
			*tex = 0
		}
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	for _, vao := range []*uint32{&r.vao, &r.overlayVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
			*vao = 0
		}
	}
}

func setSampling(filter int32) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}
