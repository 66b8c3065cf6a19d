// Package control turns uniform descriptors into interactive controls.
//
// A [Spec] carries everything needed to build one control, including the
// initial value resolved by the caller. [Synthesize] dispatches a Spec to a
// [Factory] which owns the widget representation. [Models] is a headless
// factory whose controls are plain Go values driven by keyboard events.
package control

import (
	"fmt"
	"math"
	"strconv"

	"github.com/soypat/tonelab"
)

// Default bounds of a range control missing min= or max=.
const (
	DefaultRangeMin = 0
	DefaultRangeMax = 100
)

// Spec describes a control to be built. Only the fields relevant to Kind
// are read.
type Spec struct {
	Kind  tonelab.ControlKind
	Label string

	// Range bounds. Missing or malformed bounds fall back to
	// [DefaultRangeMin] and [DefaultRangeMax].
	Min, Max       float64
	HasMin, HasMax bool
	Logarithmic    bool

	// Choices of a Choice control.
	Choices []string

	// Initial values.
	Checked    bool    // Checkbox.
	Text       string  // Number.
	Initial    float64 // Range. Ignored when outside [Min,Max].
	HasInitial bool    // Range.
	Selected   int     // Choice. Out of range means the first choice.
	Hex        string  // Color in #rrggbb form.
}

// Control is a synthesized control. Value returns 0 or 1 for a checkbox,
// a number for number and range controls, the zero-based selected index
// for a choice and a linear color for a color control.
type Control interface {
	Kind() tonelab.ControlKind
	Label() string
	Value() tonelab.Value
}

// Factory builds controls. Implementations own the widgets and their
// rendering.
type Factory interface {
	NewCheckbox(label string, checked bool) Control
	NewNumber(label, text string) Control
	// NewRange receives normalized bounds with min <= max, and min > 0 when
	// logarithmic is set.
	NewRange(label string, min, max, initial float64, hasInitial, logarithmic bool) Control
	NewChoice(label string, options []string, selected int) Control
	NewColor(label, hex string) Control
}

// Synthesize builds the control described by spec using f.
func Synthesize(f Factory, spec Spec) (Control, error) {
	switch spec.Kind {
	case tonelab.Checkbox:
		return f.NewCheckbox(spec.Label, spec.Checked), nil
	case tonelab.Number:
		return f.NewNumber(spec.Label, spec.Text), nil
	case tonelab.Range:
		min, max, log := spec.RangeBounds()
		return f.NewRange(spec.Label, min, max, spec.Initial, spec.HasInitial, log), nil
	case tonelab.Choice:
		sel := spec.Selected
		if sel < 0 || sel >= len(spec.Choices) {
			sel = 0
		}
		return f.NewChoice(spec.Label, spec.Choices, sel), nil
	case tonelab.Color:
		return f.NewColor(spec.Label, spec.Hex), nil
	}
	return nil, fmt.Errorf("control %q: undefined kind %s", spec.Label, spec.Kind)
}

// RangeBounds returns the effective bounds of a range control. Missing or
// NaN bounds take their defaults, a max below min collapses to min and a
// logarithmic range with non-positive min becomes linear.
func (spec *Spec) RangeBounds() (min, max float64, logarithmic bool) {
	min, max = DefaultRangeMin, DefaultRangeMax
	if spec.HasMin && !math.IsNaN(spec.Min) {
		min = spec.Min
	}
	if spec.HasMax && !math.IsNaN(spec.Max) {
		max = spec.Max
	}
	if max < min {
		max = min
	}
	return min, max, spec.Logarithmic && min > 0
}

// InRange reports whether v lies within the effective range bounds.
func (spec *Spec) InRange(v float64) bool {
	min, max, _ := spec.RangeBounds()
	return v >= min && v <= max
}

// DefaultSpec returns the spec of a freshly declared uniform, with the
// initial value taken from the descriptor's default or the kind's neutral
// value.
func DefaultSpec(ud *tonelab.UniformDescriptor) Spec {
	spec := Spec{
		Kind:        ud.Kind,
		Label:       ud.ControlLabel(),
		Min:         ud.Min,
		Max:         ud.Max,
		HasMin:      ud.HasMin,
		HasMax:      ud.HasMax,
		Logarithmic: ud.Logarithmic,
		Choices:     ud.Choices,
	}
	spec.ResetInitial(ud)
	return spec
}

// ResetInitial replaces the initial value of spec with the descriptor's
// default, or the neutral value of its kind when there is none.
func (spec *Spec) ResetInitial(ud *tonelab.UniformDescriptor) {
	switch spec.Kind {
	case tonelab.Checkbox:
		spec.Checked = ud.DefaultChecked()
	case tonelab.Number:
		spec.Text = "0"
		if ud.HasDefault {
			spec.Text = ud.Default
		}
	case tonelab.Range:
		spec.HasInitial = false
		if ud.HasDefault {
			v, err := strconv.ParseFloat(ud.Default, 64)
			spec.Initial = v
			spec.HasInitial = err == nil
		}
	case tonelab.Choice:
		spec.Selected = 0
		if ud.HasDefault {
			spec.Selected = choiceIndex(ud.Choices, ud.Default)
		}
	case tonelab.Color:
		spec.Hex = BlackHex
		if ud.HasDefault {
			spec.Hex = ud.Default
		}
	}
}

// choiceIndex resolves a default given either as an index or as a choice name.
func choiceIndex(choices []string, def string) int {
	if idx, err := strconv.Atoi(def); err == nil {
		if idx >= 0 && idx < len(choices) {
			return idx
		}
		return 0
	}
	for i, c := range choices {
		if c == def {
			return i
		}
	}
	return 0
}

// FormatValue formats a scalar the way number fields display it.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
