// Package glprog compiles tonemapping shaders with OpenGL and draws the
// loaded image through the current program. Everything touching the GL
// context requires cgo; without it constructors return an error.
package glprog

import (
	_ "embed"
	"errors"
	"fmt"
	"math"

	"github.com/soypat/tonelab"
	"github.com/soypat/tonelab/control"
)

var (
	//go:embed glsl/vertex.glsl
	vertexSource string
	//go:embed glsl/overlay.vert
	overlayVertexSource string
	//go:embed glsl/overlay.frag
	overlayFragmentSource string
)

// VertexSource returns the fixed vertex shader linked with every fragment
// shader. It draws the image as a quad preserving its aspect ratio.
func VertexSource() string { return vertexSource }

// WindowConfig configures the window created by NewWindow.
type WindowConfig struct {
	Title         string
	Width, Height int
}

// Key is a key recognized by the application. Letter keys are named by
// their action: R recompiles, S cycles scenarios, P cycles presets and H
// hides the panel.
type Key uint8

const (
	keyUndefined Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyTab
	KeyEnter
	KeyBackspace
	KeyRecompile
	KeyScenario
	KeyPreset
	KeyHidePanel
	KeyEscape
)

// EventKind tells the kind of an [Event].
type EventKind uint8

const (
	EventKey EventKind = iota + 1
	// EventChar carries a typed character in Rune.
	EventChar
	EventDrop
)

// Event is an input event queued by window callbacks and drained by the
// main loop between frames.
type Event struct {
	Kind  EventKind
	Key   Key
	Shift bool
	Rune  rune
	// Paths of files dropped on the window.
	Paths []string
}

// Static are the controls applied to every program regardless of user
// declarations.
type Static struct {
	// Exposure in stops, uploaded as 2^x.
	Exposure    *control.Range
	ShowClamp   *control.Checkbox
	GammaEncode *control.Checkbox
}

// NewStatic returns the static controls at their startup values.
func NewStatic() *Static {
	exposure := control.NewRange("Exposure", -10, 15, 0, true, false)
	return &Static{
		Exposure:    exposure,
		ShowClamp:   control.NewCheckbox("Mark clamped regions", false),
		GammaEncode: control.NewCheckbox("Encode in gamma 2.2", true),
	}
}

// Controls returns the static controls in display order.
func (st *Static) Controls() []control.Stepper {
	return []control.Stepper{st.Exposure, st.ShowClamp, st.GammaEncode}
}

// ExposureScale returns the linear exposure multiplier.
func (st *Static) ExposureScale() float32 {
	return float32(math.Exp2(st.Exposure.Value().Scalar))
}

// uniformValue is a control value converted to the argument of the GL
// uniform call matching the uniform's type.
type uniformValue struct {
	vt tonelab.ValueType
	i  int32
	u  uint32
	f  [3]float32
}

var errNoCGO = errors.New("OpenGL rendering requires cgo and is not supported on TinyGo")

func convertUniform(vt tonelab.ValueType, v tonelab.Value) (uv uniformValue, err error) {
	uv.vt = vt
	switch vt {
	case tonelab.Bool:
		if v.Scalar != 0 && !math.IsNaN(v.Scalar) {
			uv.i = 1
		}
	case tonelab.Int:
		uv.i = int32(saturate(v.Scalar, math.MinInt32, math.MaxInt32))
	case tonelab.Uint:
		uv.u = uint32(saturate(v.Scalar, 0, math.MaxUint32))
	case tonelab.Float:
		uv.f[0] = float32(v.Scalar)
	case tonelab.Vec3:
		uv.f = [3]float32{v.RGB.X, v.RGB.Y, v.RGB.Z}
	default:
		return uv, fmt.Errorf("cannot upload uniform of type %s", vt)
	}
	return uv, nil
}

// saturate truncates v toward zero and clamps it to [lo,hi]. NaN maps to 0.
func saturate(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return math.Trunc(v)
}
