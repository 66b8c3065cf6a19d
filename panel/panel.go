// Package panel lays out controls as a keyboard driven list and rasterizes
// it into an image meant to be drawn over the rendered frame.
package panel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/tonelab/control"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Config configures a [Panel]. Zero fields take defaults.
type Config struct {
	// Width of the rendered panel in pixels. Default 380.
	Width int
	// FontSize in points. Default 13.
	FontSize float64
	// DPI of the target display. Default 72.
	DPI float64
	// Bitmap uses the fixed 7x13 bitmap face instead of Go Regular.
	Bitmap bool
	// MaxMessageLines limits how many lines of the message are shown. Default 12.
	MaxMessageLines int
}

// Section is a titled group of controls.
type Section struct {
	Title    string
	Controls []control.Control
}

type entry struct {
	title string // Non-empty for section headers.
	ctl   control.Control
}

// Panel is a list of controls with one selected control. It is not safe
// for concurrent use.
type Panel struct {
	cfg      Config
	face     font.Face
	lineH    int
	ascent   int
	entries  []entry
	selected int // Index into entries, always a control or -1.
	status   string
	message  string
	img      *image.RGBA
	// Text entry state of the selected control.
	editing bool
	edit    string
}

var (
	background = color.RGBA{A: 190}
	foreground = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	highlight  = color.RGBA{R: 255, G: 200, B: 60, A: 255}
	errorText  = color.RGBA{R: 255, G: 110, B: 110, A: 255}
	barTrack   = color.RGBA{R: 70, G: 70, B: 70, A: 255}
)

// New returns an empty panel.
func New(cfg Config) (*Panel, error) {
	if cfg.Width == 0 {
		cfg.Width = 380
	}
	if cfg.FontSize == 0 {
		cfg.FontSize = 13
	}
	if cfg.DPI == 0 {
		cfg.DPI = 72
	}
	if cfg.MaxMessageLines == 0 {
		cfg.MaxMessageLines = 12
	}
	if cfg.Width < 64 || cfg.FontSize < 0 || cfg.DPI < 0 || cfg.MaxMessageLines < 0 {
		return nil, errors.New("invalid panel config")
	}
	p := &Panel{cfg: cfg, selected: -1}
	if cfg.Bitmap {
		p.face = basicfont.Face7x13
	} else {
		ttf, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("parsing panel font: %w", err)
		}
		p.face = truetype.NewFace(ttf, &truetype.Options{
			Size:    cfg.FontSize,
			DPI:     cfg.DPI,
			Hinting: font.HintingFull,
		})
	}
	metrics := p.face.Metrics()
	p.ascent = metrics.Ascent.Ceil()
	p.lineH = metrics.Height.Ceil() + 3
	return p, nil
}

// SetSections replaces the listed controls. The selection is kept on the
// control with the same label when there is one.
func (p *Panel) SetSections(sections ...Section) {
	p.editing = false
	prev := p.Selected()
	prevIdx := p.selected
	p.entries = p.entries[:0]
	for _, s := range sections {
		if len(s.Controls) == 0 {
			continue
		}
		p.entries = append(p.entries, entry{title: s.Title})
		for _, c := range s.Controls {
			p.entries = append(p.entries, entry{ctl: c})
		}
	}
	p.selected = -1
	for i, e := range p.entries {
		if e.ctl != nil && prev != nil && e.ctl.Label() == prev.Label() {
			p.selected = i
			return
		}
	}
	if prevIdx >= len(p.entries) {
		prevIdx = len(p.entries) - 1
	}
	p.selected = max(prevIdx, 0)
	if !p.selectable(p.selected) {
		p.Move(1)
	}
}

// Selected returns the selected control or nil.
func (p *Panel) Selected() control.Control {
	if !p.selectable(p.selected) {
		return nil
	}
	return p.entries[p.selected].ctl
}

func (p *Panel) selectable(i int) bool {
	return i >= 0 && i < len(p.entries) && p.entries[i].ctl != nil
}

// Move moves the selection n controls down, wrapping around. Negative n
// moves up. Section headers are skipped.
func (p *Panel) Move(n int) {
	p.editing = false
	var idx []int
	pos := -1
	for i := range p.entries {
		if !p.selectable(i) {
			continue
		}
		if i == p.selected {
			pos = len(idx)
		}
		idx = append(idx, i)
	}
	switch {
	case len(idx) == 0:
		p.selected = -1
		return
	case pos < 0:
		// Land on the first control after the current position.
		for _, i := range idx {
			if i > p.selected {
				p.selected = i
				return
			}
		}
		p.selected = idx[0]
		return
	}
	pos = ((pos+n)%len(idx) + len(idx)) % len(idx)
	p.selected = idx[pos]
}

// Step steps the selected control by one unit, or ten units when coarse is
// set. It reports whether a control changed.
func (p *Panel) Step(dir int, coarse bool) bool {
	s, ok := p.Selected().(control.Stepper)
	if !ok {
		return false
	}
	if coarse {
		dir *= 10
	}
	s.Step(dir)
	return true
}

// NextChannel cycles the edited channel of a selected color control.
func (p *Panel) NextChannel() {
	if c, ok := p.Selected().(*control.Color); ok {
		c.NextChannel()
	}
}

// BeginEdit starts text entry on the selected number or range control with
// its current text. It reports whether editing started.
func (p *Panel) BeginEdit() bool {
	switch c := p.Selected().(type) {
	case *control.Number:
		p.edit = c.Text
	case *control.Range:
		p.edit = c.Echo()
	default:
		return false
	}
	p.editing = true
	return true
}

// Editing reports whether text entry is in progress.
func (p *Panel) Editing() bool { return p.editing }

// Type appends a printable character to the text being edited.
func (p *Panel) Type(r rune) {
	if p.editing && unicode.IsPrint(r) {
		p.edit += string(r)
	}
}

// Backspace removes the last character of the text being edited.
func (p *Panel) Backspace() {
	if p.editing && p.edit != "" {
		_, size := utf8.DecodeLastRuneInString(p.edit)
		p.edit = p.edit[:len(p.edit)-size]
	}
}

// CommitEdit ends text entry and writes the text to the selected control.
// A range rejects text that is not a number and keeps its value. It
// reports whether a control was written.
func (p *Panel) CommitEdit() bool {
	if !p.editing {
		return false
	}
	p.editing = false
	switch c := p.Selected().(type) {
	case *control.Number:
		c.Text = p.edit
	case *control.Range:
		c.SetEcho(p.edit)
	default:
		return false
	}
	return true
}

// CancelEdit ends text entry leaving the control unchanged.
func (p *Panel) CancelEdit() { p.editing = false }

// SetStatus sets the status line shown at the top of the panel.
func (p *Panel) SetStatus(status string) { p.status = status }

// SetMessage sets the message shown at the bottom of the panel, usually the
// last compile diagnostic. Empty clears it.
func (p *Panel) SetMessage(msg string) { p.message = msg }

// Render draws the panel. The returned image is reused by later calls.
func (p *Panel) Render() *image.RGBA {
	lines := 1 + len(p.entries)
	var msgLines []string
	if p.message != "" {
		msgLines = strings.Split(strings.TrimRight(p.message, "\n"), "\n")
		if len(msgLines) > p.cfg.MaxMessageLines {
			msgLines = append(msgLines[:p.cfg.MaxMessageLines], "...")
		}
		lines += 1 + len(msgLines)
	}
	bounds := image.Rect(0, 0, p.cfg.Width, lines*p.lineH+p.lineH/2)
	if p.img == nil || p.img.Bounds() != bounds {
		p.img = image.NewRGBA(bounds)
	}
	draw.Draw(p.img, bounds, image.NewUniform(background), image.Point{}, draw.Src)

	const margin = 8
	valueX := p.cfg.Width * 11 / 20
	y := 0
	p.text(margin, y, p.status, highlight)
	for i, e := range p.entries {
		y += p.lineH
		if e.ctl == nil {
			p.text(margin, y, e.title, highlight)
			continue
		}
		col := foreground
		marker := "  "
		if i == p.selected {
			col = highlight
			marker = "> "
		}
		p.text(margin, y, marker+e.ctl.Label(), col)
		if i == p.selected && p.editing {
			p.text(valueX, y, p.edit+"_", col)
			continue
		}
		p.value(valueX, y, e.ctl, col, i == p.selected)
	}
	for _, line := range msgLines {
		y += p.lineH
		p.text(margin, y+p.lineH, line, errorText)
	}
	return p.img
}

func (p *Panel) text(x, y int, s string, c color.RGBA) {
	d := font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(c),
		Face: p.face,
		Dot:  fixed.P(x, y+p.ascent+1),
	}
	d.DrawString(s)
}

func (p *Panel) value(x, y int, ctl control.Control, col color.RGBA, selected bool) {
	switch c := ctl.(type) {
	case *control.Range:
		lo, hi := c.SliderBounds()
		frac := float32(0)
		if hi > lo {
			frac = ms1.Clamp(float32((c.Slider()-lo)/(hi-lo)), 0, 1)
		}
		const barW = 60
		barH := max(p.lineH/4, 2)
		top := y + (p.lineH-barH)/2
		fill(p.img, image.Rect(x, top, x+barW, top+barH), barTrack)
		fill(p.img, image.Rect(x, top, x+int(frac*barW), top+barH), col)
		label := c.Echo()
		if selected {
			bmin, bmax := c.Bounds()
			label += " [" + control.FormatValue(bmin) + ", " + control.FormatValue(bmax) + "]"
			if c.Logarithmic() {
				label += " log"
			}
		}
		p.text(x+barW+6, y, label, col)
	case *control.Color:
		sw := p.lineH - 4
		rgb, _ := control.ParseHex(c.Hex())
		fill(p.img, image.Rect(x, y+2, x+sw, y+2+sw), color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 255})
		label := c.Hex()
		if selected {
			label += " " + [3]string{"R", "G", "B"}[c.Channel%3]
		}
		p.text(x+sw+6, y, label, col)
	case control.Stepper:
		p.text(x, y, c.String(), col)
	default:
		p.text(x, y, fmt.Sprint(ctl.Value().Scalar), col)
	}
}

func fill(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}
