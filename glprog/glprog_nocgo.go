//go:build tinygo || !cgo

package glprog

import (
	"image"

	"github.com/soypat/tonelab/imgsrc"
	"github.com/soypat/tonelab/session"
)

type Window struct{}

func NewWindow(cfg WindowConfig) (*Window, func(), error) { return nil, nil, errNoCGO }

func (win *Window) PollEvents() []Event                  { return nil }
func (win *Window) ShouldClose() bool                    { return true }
func (win *Window) SetShouldClose()                      {}
func (win *Window) FramebufferSize() (width, height int) { return 0, 0 }
func (win *Window) SetTitle(title string)                {}
func (win *Window) SwapBuffers()                         {}

type Compiler struct{}

func (Compiler) Compile(fragmentSource string) (session.Program, error) { return nil, errNoCGO }

type Renderer struct{}

func NewRenderer() (*Renderer, error) { return nil, errNoCGO }

func (r *Renderer) SetImage(img *imgsrc.Image) error { return errNoCGO }

func (r *Renderer) Draw(prog session.Program, uniforms []session.Uniform, st *Static, width, height int) error {
	return errNoCGO
}

func (r *Renderer) DrawOverlay(img *image.RGBA, width, height int) error { return errNoCGO }

func (r *Renderer) Delete() {}
