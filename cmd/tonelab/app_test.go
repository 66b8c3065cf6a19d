package main

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/tonelab/control"
	"github.com/soypat/tonelab/glprog"
	"github.com/soypat/tonelab/imgsrc"
	"github.com/soypat/tonelab/panel"
	"github.com/soypat/tonelab/scenario"
	"github.com/soypat/tonelab/session"
)

type fakeProgram struct{}

func (fakeProgram) Delete() {}

type fakeCompiler struct{ fail error }

func (c *fakeCompiler) Compile(string) (session.Program, error) {
	if c.fail != nil {
		return nil, c.fail
	}
	return fakeProgram{}, nil
}

type fakeWindow struct {
	title  string
	closed bool
}

func (w *fakeWindow) SetShouldClose()                      { w.closed = true }
func (w *fakeWindow) FramebufferSize() (width, height int) { return 640, 480 }
func (w *fakeWindow) SetTitle(title string)                { w.title = title }

type fakeRenderer struct{ img *imgsrc.Image }

func (r *fakeRenderer) SetImage(img *imgsrc.Image) error { r.img = img; return nil }

func (r *fakeRenderer) Draw(session.Program, []session.Uniform, *glprog.Static, int, int) error {
	return nil
}

func (r *fakeRenderer) DrawOverlay(*image.RGBA, int, int) error { return nil }

const testSource = `
uniform float K; // default=2.5
vec3 tonemap(vec3 x) { return x * K; }
`

func newTestApp(t *testing.T) (*app, *fakeCompiler) {
	t.Helper()
	fc := &fakeCompiler{}
	scenarios := scenario.Builtin()
	sess, err := session.New(session.Config{
		Compiler: fc,
		Source:   testSource,
		Scenario: &scenarios[0],
	})
	if err != nil {
		t.Fatal(err)
	}
	p, err := panel.New(panel.Config{Bitmap: true})
	if err != nil {
		t.Fatal(err)
	}
	a := &app{
		log:       log.New(io.Discard, "", 0),
		win:       &fakeWindow{},
		rend:      &fakeRenderer{},
		sess:      sess,
		static:    glprog.NewStatic(),
		panel:     p,
		scenarios: scenarios,
		srcName:   "test.glsl",
	}
	a.report(sess.Recompile())
	if sess.State() != session.Live {
		t.Fatalf("want live session, got %s", sess.State())
	}
	return a, fc
}

func writePNG(t *testing.T) string {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	m.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "drop.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, m); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadImageCompileFailureKeepsScenario(t *testing.T) {
	a, fc := newTestApp(t)
	rend := a.rend.(*fakeRenderer)
	win := a.win.(*fakeWindow)
	path := writePNG(t)

	fc.fail = errors.New("bad shader")
	if err := a.loadImage(path); err == nil {
		t.Fatal("expected compile error")
	}
	if a.sess.Scenario() != &a.scenarios[0] || a.scenIdx != 0 {
		t.Errorf("want scenario kept, got index %d", a.scenIdx)
	}
	if rend.img != nil || win.title != "" {
		t.Error("image swapped although the scenario is still active")
	}

	fc.fail = nil
	if err := a.loadImage(path); err != nil {
		t.Fatal(err)
	}
	if a.sess.Scenario() != nil || a.scenIdx != -1 {
		t.Errorf("want scenario cleared, got index %d", a.scenIdx)
	}
	if rend.img == nil || rend.img.Width != 2 {
		t.Error("want dropped image shown")
	}
	if win.title != "tonelab - drop.png" {
		t.Errorf("unexpected title %q", win.title)
	}
}

func TestLoadImageDecodeError(t *testing.T) {
	a, _ := newTestApp(t)
	if err := a.loadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error")
	}
	if a.sess.Scenario() == nil {
		t.Error("scenario cleared although the image could not be read")
	}
}

func TestTypeNumber(t *testing.T) {
	a, _ := newTestApp(t)
	for i := 0; i < 32 && a.panel.Selected().Label() != "K"; i++ {
		a.handle(glprog.Event{Kind: glprog.EventKey, Key: glprog.KeyDown})
	}
	k, ok := a.panel.Selected().(*control.Number)
	if !ok {
		t.Fatalf("want number K selected, got %T", a.panel.Selected())
	}
	key := func(code glprog.Key) { a.handle(glprog.Event{Kind: glprog.EventKey, Key: code}) }
	key(glprog.KeyEnter)
	if !a.panel.Editing() {
		t.Fatal("want text entry after Enter")
	}
	key(glprog.KeyBackspace)
	key(glprog.KeyBackspace)
	key(glprog.KeyBackspace)
	for _, r := range "4s" {
		// Letter keys also produce a key event which must not act.
		if r == 's' {
			key(glprog.KeyScenario)
		}
		a.handle(glprog.Event{Kind: glprog.EventChar, Rune: r})
	}
	key(glprog.KeyBackspace)
	key(glprog.KeyEscape)
	if a.panel.Editing() || k.Text != "2.5" {
		t.Fatalf("want edit discarded, got %q", k.Text)
	}
	if win := a.win.(*fakeWindow); win.closed {
		t.Fatal("Esc while editing closed the window")
	}
	if a.scenIdx != 0 {
		t.Error("scenario key acted while editing")
	}

	key(glprog.KeyEnter)
	a.handle(glprog.Event{Kind: glprog.EventChar, Rune: '0'})
	key(glprog.KeyEnter)
	if k.Text != "2.50" {
		t.Errorf("want typed text applied, got %q", k.Text)
	}
	if !strings.Contains(a.status(), "code at line") {
		t.Errorf("status misses user line: %q", a.status())
	}
}
