package panel

import (
	"image"
	"image/color"
	"testing"

	"github.com/soypat/tonelab/control"
)

func newTestPanel(t *testing.T, bitmap bool) (*Panel, *control.Range, *control.Checkbox, *control.Color) {
	t.Helper()
	p, err := New(Config{Bitmap: bitmap})
	if err != nil {
		t.Fatal(err)
	}
	exposure := control.NewRange("Exposure", -10, 15, 0, true, false)
	clamp := control.NewCheckbox("Mark clamped regions", false)
	tint := control.Models{}.NewColor("Tint", "#7b7b7b").(*control.Color)
	p.SetSections(
		Section{Title: "Display", Controls: []control.Control{exposure, clamp}},
		Section{Title: "Empty"},
		Section{Title: "Shader", Controls: []control.Control{tint}},
	)
	return p, exposure, clamp, tint
}

func TestNavigation(t *testing.T) {
	p, exposure, clamp, tint := newTestPanel(t, true)
	if p.Selected() != exposure {
		t.Fatalf("want first control selected, got %v", p.Selected())
	}
	p.Move(1)
	if p.Selected() != clamp {
		t.Fatal("want checkbox after moving down")
	}
	p.Move(1) // Skips the section header.
	if p.Selected() != tint {
		t.Fatal("want color after moving down twice")
	}
	p.Move(1)
	if p.Selected() != exposure {
		t.Fatal("want selection to wrap to the top")
	}
	p.Move(-1)
	if p.Selected() != tint {
		t.Fatal("want selection to wrap to the bottom")
	}
}

func TestSelectionKeptByLabel(t *testing.T) {
	p, _, _, _ := newTestPanel(t, true)
	p.Move(2)
	tint2 := control.Models{}.NewColor("Tint", "#ff0000")
	other := control.NewCheckbox("Other", true)
	p.SetSections(Section{Title: "Shader", Controls: []control.Control{other, tint2}})
	if p.Selected() != tint2 {
		t.Errorf("want selection to follow label, got %v", p.Selected())
	}
	p.SetSections()
	if p.Selected() != nil {
		t.Error("want no selection on empty panel")
	}
	p.Move(1)
	if p.Step(1, false) {
		t.Error("step on empty panel should not report a change")
	}
}

func TestStep(t *testing.T) {
	p, exposure, clamp, tint := newTestPanel(t, true)
	if !p.Step(1, false) {
		t.Fatal("expected range to step")
	}
	if got := exposure.Value().Scalar; got != 0.25 {
		t.Errorf("want 1/100 of span, got %v", got)
	}
	p.Step(-1, true)
	if got := exposure.Value().Scalar; got != -2.25 {
		t.Errorf("want coarse step of 10 units, got %v", got)
	}
	p.Move(1)
	p.Step(1, false)
	if !clamp.Checked {
		t.Error("want checkbox toggled")
	}
	p.Move(1)
	p.NextChannel()
	if tint.Channel != 1 {
		t.Errorf("want green channel, got %d", tint.Channel)
	}
	p.Step(1, false)
	if tint.Hex() != "#7b7c7b" {
		t.Errorf("want green stepped, got %s", tint.Hex())
	}
}

func TestEdit(t *testing.T) {
	p, exposure, _, _ := newTestPanel(t, true)
	if !p.BeginEdit() || !p.Editing() {
		t.Fatal("want range editable")
	}
	p.Backspace()
	p.Backspace() // Empty text is left alone.
	for _, r := range "2.5\n" {
		p.Type(r)
	}
	if !p.CommitEdit() || p.Editing() {
		t.Fatal("want edit committed")
	}
	if got := exposure.Value().Scalar; got != 2.5 {
		t.Errorf("want typed exposure 2.5, got %v", got)
	}
	p.BeginEdit()
	p.Type('x')
	p.CommitEdit()
	if got := exposure.Value().Scalar; got != 2.5 {
		t.Errorf("want text that is not a number rejected, got %v", got)
	}
	p.Move(1)
	if p.BeginEdit() {
		t.Error("checkbox should not be editable")
	}
	if p.CommitEdit() {
		t.Error("commit without edit should report no change")
	}

	k := control.Models{}.NewNumber("K", "1").(*control.Number)
	p.SetSections(Section{Title: "Shader", Controls: []control.Control{k}})
	p.BeginEdit()
	p.Type('2')
	p.CancelEdit()
	if k.Text != "1" {
		t.Errorf("cancel changed text to %q", k.Text)
	}
	p.BeginEdit()
	p.Backspace()
	for _, r := range "0.5" {
		p.Type(r)
	}
	if p.Render() == nil {
		t.Fatal("render while editing")
	}
	p.CommitEdit()
	if got := k.Value().Scalar; got != 0.5 {
		t.Errorf("want number 0.5, got %v", got)
	}
	p.BeginEdit()
	p.SetSections(Section{Title: "Shader", Controls: []control.Control{k}})
	if p.Editing() {
		t.Error("want edit cancelled when sections change")
	}
}

func TestRender(t *testing.T) {
	for _, bitmap := range []bool{true, false} {
		p, _, _, _ := newTestPanel(t, bitmap)
		p.SetStatus("Flat Sponza | Multi")
		img := p.Render()
		if img.Bounds().Dx() != 380 {
			t.Errorf("want default width, got %d", img.Bounds().Dx())
		}
		h := img.Bounds().Dy()
		if !hasColor(img, highlight) {
			t.Error("want highlighted text for selection")
		}
		p.SetMessage("line one\nline two")
		img = p.Render()
		if img.Bounds().Dy() <= h {
			t.Error("want message to grow the panel")
		}
		if !hasReddish(img) {
			t.Error("want message drawn in error color")
		}
		p.SetMessage("")
		if p.Render().Bounds().Dy() != h {
			t.Error("want panel to shrink after clearing message")
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	if _, err := New(Config{Width: 10}); err == nil {
		t.Error("expected error for narrow panel")
	}
}

func hasColor(img *image.RGBA, c color.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				return true
			}
		}
	}
	return false
}

// hasReddish reports whether img has a pixel whose red channel clearly
// dominates green, as left by text drawn in the error color.
func hasReddish(img *image.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := img.RGBAAt(x, y)
			if int(px.R) >= int(px.G)+100 {
				return true
			}
		}
	}
	return false
}
