package control

import (
	"math"
	"strconv"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/tonelab"
)

// Models is a [Factory] of headless controls. Every control it returns also
// implements [Stepper] so a keyboard driven panel can edit it.
type Models struct{}

var _ Factory = Models{}

// Stepper is implemented by controls that can be nudged by discrete steps.
type Stepper interface {
	Control
	// Step moves the control n steps. Negative n moves it backwards.
	Step(n int)
	// String returns the displayed value.
	String() string
}

func (Models) NewCheckbox(label string, checked bool) Control {
	return NewCheckbox(label, checked)
}

func (Models) NewNumber(label, text string) Control {
	return &Number{label: label, Text: text}
}

func (Models) NewRange(label string, min, max, initial float64, hasInitial, logarithmic bool) Control {
	return NewRange(label, min, max, initial, hasInitial, logarithmic)
}

func (Models) NewChoice(label string, options []string, selected int) Control {
	return &Choice{label: label, Options: options, Selected: selected}
}

func (Models) NewColor(label, hex string) Control {
	c, err := ParseHex(hex)
	if err != nil {
		c = 0
	}
	return &Color{label: label, c: c}
}

// Checkbox is a boolean control.
type Checkbox struct {
	label   string
	Checked bool
}

// NewCheckbox returns a checkbox control.
func NewCheckbox(label string, checked bool) *Checkbox {
	return &Checkbox{label: label, Checked: checked}
}

func (cb *Checkbox) Kind() tonelab.ControlKind { return tonelab.Checkbox }
func (cb *Checkbox) Label() string             { return cb.label }

func (cb *Checkbox) Value() tonelab.Value {
	if cb.Checked {
		return tonelab.ScalarValue(1)
	}
	return tonelab.ScalarValue(0)
}

// Step toggles the checkbox once per odd n.
func (cb *Checkbox) Step(n int) {
	if n%2 != 0 {
		cb.Checked = !cb.Checked
	}
}

func (cb *Checkbox) String() string {
	if cb.Checked {
		return "[x]"
	}
	return "[ ]"
}

// Number is a free text numeric field.
type Number struct {
	label string
	Text  string
}

func (n *Number) Kind() tonelab.ControlKind { return tonelab.Number }
func (n *Number) Label() string             { return n.label }

// Value parses Text. Unparsable text yields NaN.
func (n *Number) Value() tonelab.Value {
	v, err := strconv.ParseFloat(n.Text, 64)
	if err != nil {
		v = math.NaN()
	}
	return tonelab.ScalarValue(v)
}

// Step adds n to the current value. Unparsable text restarts at zero.
func (n *Number) Step(steps int) {
	v := n.Value().Scalar
	if math.IsNaN(v) {
		v = 0
	}
	n.Text = FormatValue(v + float64(steps))
}

func (n *Number) String() string { return n.Text }

// Range is a slider with a numeric echo. Both views read the single owned
// slider position and every change goes through one update path. For a
// logarithmic range the position is the natural logarithm of the value.
type Range struct {
	label       string
	min, max    float64
	logarithmic bool
	pos         float64
	echo        string
}

// NewRange returns a range control over [min,max]. A hasInitial value inside
// the bounds is used as the initial value, otherwise the slider starts at the
// geometric mean of the bounds for logarithmic ranges and the arithmetic mean
// for linear ones.
func NewRange(label string, min, max, initial float64, hasInitial, logarithmic bool) *Range {
	r := &Range{label: label, min: min, max: max, logarithmic: logarithmic}
	if hasInitial && initial >= min && initial <= max {
		r.SetValue(initial)
	} else {
		lo, hi := r.SliderBounds()
		r.update((lo + hi) / 2)
	}
	return r
}

func (r *Range) Kind() tonelab.ControlKind { return tonelab.Range }
func (r *Range) Label() string             { return r.label }

func (r *Range) Value() tonelab.Value {
	return tonelab.ScalarValue(r.value())
}

func (r *Range) value() float64 {
	if r.logarithmic {
		return math.Exp(r.pos)
	}
	return r.pos
}

// Bounds returns the value bounds.
func (r *Range) Bounds() (min, max float64) { return r.min, r.max }

// Logarithmic reports whether the slider works in the logarithmic domain.
func (r *Range) Logarithmic() bool { return r.logarithmic }

// SliderBounds returns the bounds of the slider position.
func (r *Range) SliderBounds() (lo, hi float64) {
	if r.logarithmic {
		return math.Log(r.min), math.Log(r.max)
	}
	return r.min, r.max
}

// Slider returns the slider position.
func (r *Range) Slider() float64 { return r.pos }

// SetSlider moves the slider view.
func (r *Range) SetSlider(pos float64) { r.update(pos) }

// SetValue sets the control to v, mapping it to the slider domain.
func (r *Range) SetValue(v float64) {
	if r.logarithmic {
		v = math.Log(v)
	}
	r.update(v)
}

// Echo returns the numeric echo view, which shows the value.
func (r *Range) Echo() string { return r.echo }

// SetEcho edits the numeric echo view. Unparsable text is rejected and the
// echo reverts to the current value.
func (r *Range) SetEcho(text string) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) {
		r.update(r.pos)
		return
	}
	r.SetValue(v)
}

// Step moves the slider by n hundredths of its span.
func (r *Range) Step(n int) {
	lo, hi := r.SliderBounds()
	r.update(r.pos + float64(n)*(hi-lo)/100)
}

func (r *Range) String() string { return r.echo }

// update is the single write path of the slider position. It clamps pos to
// the slider bounds and refreshes the echo.
func (r *Range) update(pos float64) {
	lo, hi := r.SliderBounds()
	switch {
	case math.IsNaN(pos):
		pos = lo
	case pos < lo:
		pos = lo
	case pos > hi:
		pos = hi
	}
	r.pos = pos
	r.echo = FormatValue(r.value())
}

// Choice selects one of an ordered list of options.
type Choice struct {
	label    string
	Options  []string
	Selected int
}

func (c *Choice) Kind() tonelab.ControlKind { return tonelab.Choice }
func (c *Choice) Label() string             { return c.label }
func (c *Choice) Value() tonelab.Value      { return tonelab.ScalarValue(float64(c.Selected)) }

// Step cycles the selection by n options.
func (c *Choice) Step(n int) {
	if len(c.Options) == 0 {
		return
	}
	c.Selected = ((c.Selected+n)%len(c.Options) + len(c.Options)) % len(c.Options)
}

func (c *Choice) String() string {
	if c.Selected < 0 || c.Selected >= len(c.Options) {
		return ""
	}
	return c.Options[c.Selected]
}

// Color is an 8 bit per channel color picker.
type Color struct {
	label string
	c     uint32
	// Channel is the channel edited by Step: 0 red, 1 green, 2 blue.
	Channel int
}

func (c *Color) Kind() tonelab.ControlKind { return tonelab.Color }
func (c *Color) Label() string             { return c.label }

// Value returns the linear color.
func (c *Color) Value() tonelab.Value { return tonelab.RGBValue(c.Linear()) }

// Linear returns the linear color.
func (c *Color) Linear() ms3.Vec { return cToLinear(c.c) }

// Hex returns the color in #rrggbb form.
func (c *Color) Hex() string { return string(AppendHex(nil, c.c)) }

// SetHex sets the color. Malformed colors are rejected.
func (c *Color) SetHex(hex string) error {
	v, err := ParseHex(hex)
	if err != nil {
		return err
	}
	c.c = v
	return nil
}

// NextChannel selects the next channel for editing.
func (c *Color) NextChannel() { c.Channel = (c.Channel + 1) % 3 }

// Step adds n to the selected channel, saturating at 0 and 255.
func (c *Color) Step(n int) {
	shift := uint(16 - 8*(c.Channel%3))
	v := int(uint8(c.c>>shift)) + n
	v = max(0, min(255, v))
	c.c = c.c&^(0xff<<shift) | uint32(v)<<shift
}

func (c *Color) String() string { return c.Hex() }
