package main

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/soypat/tonelab"
	"github.com/soypat/tonelab/control"
	"github.com/soypat/tonelab/glprog"
	"github.com/soypat/tonelab/imgsrc"
	"github.com/soypat/tonelab/panel"
	"github.com/soypat/tonelab/preset"
	"github.com/soypat/tonelab/scenario"
	"github.com/soypat/tonelab/session"
	"github.com/soypat/tonelab/watch"
)

// window and renderer are implemented by the glprog types.
type window interface {
	SetShouldClose()
	FramebufferSize() (width, height int)
	SetTitle(title string)
}

type renderer interface {
	SetImage(img *imgsrc.Image) error
	Draw(prog session.Program, uniforms []session.Uniform, st *glprog.Static, width, height int) error
	DrawOverlay(img *image.RGBA, width, height int) error
}

type app struct {
	log       *log.Logger
	win       window
	rend      renderer
	sess      *session.Session
	static    *glprog.Static
	panel     *panel.Panel
	assets    string
	scenarios []scenario.Scenario
	scenIdx   int // -1 when a user image is shown.
	presets   []string
	presetIdx int
	srcName   string
	shader    string // Path of the shader file, empty when using presets.
	hidden    bool
}

func run(cfg flags, logger *log.Logger) error {
	if cfg.watch && cfg.shader == "" {
		return errors.New("-watch requires -shader")
	}
	win, terminate, err := glprog.NewWindow(glprog.WindowConfig{
		Title:  "tonelab",
		Width:  cfg.width,
		Height: cfg.height,
	})
	if err != nil {
		return err
	}
	defer terminate()
	rend, err := glprog.NewRenderer()
	if err != nil {
		return err
	}
	defer rend.Delete()
	a := &app{
		log:       logger,
		win:       win,
		rend:      rend,
		static:    glprog.NewStatic(),
		assets:    cfg.assets,
		scenarios: scenario.Builtin(),
		scenIdx:   -1,
		presets:   preset.Names(),
		shader:    cfg.shader,
	}
	a.panel, err = panel.New(panel.Config{})
	if err != nil {
		return err
	}

	var src string
	if cfg.shader != "" {
		src, err = a.readShader()
	} else {
		a.presetIdx = indexOf(a.presets, cfg.preset)
		if a.presetIdx < 0 {
			return fmt.Errorf("unknown preset %q, want one of %q", cfg.preset, a.presets)
		}
		a.srcName = cfg.preset
		src, err = preset.Source(cfg.preset)
	}
	if err != nil {
		return err
	}
	var sc *scenario.Scenario
	switch {
	case cfg.image != "":
		var img *imgsrc.Image
		img, err = imgsrc.DecodeFile(cfg.image)
		if err == nil {
			err = a.showImage(cfg.image, img)
		}
	case cfg.scenario != "":
		a.scenIdx, err = a.scenarioIndex(cfg.scenario)
		if err == nil {
			sc = &a.scenarios[a.scenIdx]
			a.loadScenarioImage()
		}
	default:
		err = a.setGradient()
	}
	if err != nil {
		return err
	}
	a.sess, err = session.New(session.Config{
		Compiler: glprog.Compiler{},
		Log:      logger,
		Source:   src,
		Scenario: sc,
	})
	if err != nil {
		return err
	}
	defer a.sess.Close()
	a.report(a.sess.Recompile())

	var changed <-chan struct{}
	if cfg.watch {
		w, err := watch.New(cfg.shader, logger)
		if err != nil {
			return err
		}
		defer w.Close()
		changed = w.Changed()
	}

	for !win.ShouldClose() {
		for _, ev := range win.PollEvents() {
			a.handle(ev)
		}
		select {
		case <-changed:
			a.shader = cfg.shader // Editing the file switches back from presets.
			a.report(a.reloadShader())
		default:
		}
		if err := a.draw(); err != nil {
			return err
		}
		win.SwapBuffers()
	}
	return nil
}

func (a *app) handle(ev glprog.Event) {
	if ev.Kind == glprog.EventDrop {
		if len(ev.Paths) > 0 {
			a.report(a.loadImage(ev.Paths[0]))
		}
		return
	}
	if a.panel.Editing() {
		a.handleEdit(ev)
		return
	}
	switch ev.Key {
	case glprog.KeyUp:
		a.panel.Move(-1)
	case glprog.KeyDown:
		a.panel.Move(1)
	case glprog.KeyLeft:
		a.panel.Step(-1, ev.Shift)
	case glprog.KeyRight:
		a.panel.Step(1, ev.Shift)
	case glprog.KeyTab:
		a.panel.NextChannel()
	case glprog.KeyEnter:
		a.panel.BeginEdit()
	case glprog.KeyRecompile:
		if a.shader != "" {
			a.report(a.reloadShader())
		} else {
			a.report(a.sess.Recompile())
		}
	case glprog.KeyScenario:
		a.report(a.nextScenario())
	case glprog.KeyPreset:
		a.shader = ""
		a.report(a.setPreset((a.presetIdx + 1) % len(a.presets)))
	case glprog.KeyHidePanel:
		a.hidden = !a.hidden
	case glprog.KeyEscape:
		a.win.SetShouldClose()
	}
}

// handleEdit routes events to the panel while a value is being typed.
// Letter keys arrive as characters so their actions are suspended.
func (a *app) handleEdit(ev glprog.Event) {
	if ev.Kind == glprog.EventChar {
		a.panel.Type(ev.Rune)
		return
	}
	switch ev.Key {
	case glprog.KeyBackspace:
		a.panel.Backspace()
	case glprog.KeyEnter:
		a.panel.CommitEdit()
	case glprog.KeyEscape:
		a.panel.CancelEdit()
	}
}

func (a *app) draw() error {
	width, height := a.win.FramebufferSize()
	err := a.rend.Draw(a.sess.Program(), a.sess.Uniforms(), a.static, width, height)
	if err != nil || a.hidden {
		return err
	}
	a.panel.SetStatus(a.status())
	return a.rend.DrawOverlay(a.panel.Render(), width, height)
}

// report refreshes the panel after a session change and shows err, if any,
// as the panel message.
func (a *app) report(err error) {
	a.syncPanel()
	if err == nil {
		a.panel.SetMessage("")
		return
	}
	var cerr *session.CompileError
	if !errors.As(err, &cerr) {
		a.log.Print(err)
	}
	a.panel.SetMessage(err.Error())
}

func (a *app) syncPanel() {
	var decl, scen []control.Control
	for _, u := range a.sess.Uniforms() {
		if u.Origin == tonelab.FromScenario {
			scen = append(scen, u.Control)
		} else {
			decl = append(decl, u.Control)
		}
	}
	var display []control.Control
	for _, c := range a.static.Controls() {
		display = append(display, c)
	}
	sceneTitle := "Scenario"
	if sc := a.sess.Scenario(); sc != nil {
		sceneTitle = sc.Name
	}
	a.panel.SetSections(
		panel.Section{Title: "Display", Controls: display},
		panel.Section{Title: sceneTitle, Controls: scen},
		panel.Section{Title: a.srcName, Controls: decl},
	)
}

func (a *app) status() string {
	scene := "custom image"
	if sc := a.sess.Scenario(); sc != nil {
		scene = sc.Name
	}
	status := fmt.Sprintf("%s | %s | %s", a.srcName, scene, a.sess.State())
	if line := a.sess.UserLine(); line > 0 {
		status += fmt.Sprintf(" | code at line %d", line)
	}
	return status
}

func (a *app) setPreset(i int) error {
	src, err := preset.Source(a.presets[i])
	if err != nil {
		return err
	}
	a.presetIdx = i
	a.srcName = a.presets[i]
	return a.sess.SetSource(src)
}

func (a *app) readShader() (string, error) {
	src, err := os.ReadFile(a.shader)
	if err != nil {
		return "", err
	}
	a.srcName = filepath.Base(a.shader)
	return string(src), nil
}

func (a *app) reloadShader() error {
	src, err := a.readShader()
	if err != nil {
		return err
	}
	return a.sess.SetSource(src)
}

func (a *app) nextScenario() error {
	next := (a.scenIdx + 1) % len(a.scenarios)
	err := a.sess.SetScenario(&a.scenarios[next])
	if err != nil {
		return err
	}
	a.scenIdx = next
	a.loadScenarioImage()
	return nil
}

// loadScenarioImage loads the image of the active scenario from the assets
// directory. A missing image is replaced by a synthetic gradient so the
// scenario stays usable.
func (a *app) loadScenarioImage() {
	sc := &a.scenarios[a.scenIdx]
	img, err := imgsrc.DecodeFile(filepath.Join(a.assets, sc.Image))
	if err == nil {
		err = a.rend.SetImage(img)
	}
	if err != nil {
		a.log.Printf("scenario %s: %v, using gradient", sc.Name, err)
		if err := a.setGradient(); err != nil {
			a.log.Print(err)
		}
	}
}

func (a *app) setGradient() error {
	img, err := imgsrc.Gradient(1024, 512, 16)
	if err != nil {
		return err
	}
	return a.rend.SetImage(img)
}

// loadImage shows the image at path and deactivates the scenario. When the
// shader fails to compile without the scenario uniforms the scenario and
// its image stay active.
func (a *app) loadImage(path string) error {
	img, err := imgsrc.DecodeFile(path)
	if err != nil {
		return err
	}
	err = a.sess.ClearScenario()
	if err != nil {
		return err
	}
	return a.showImage(path, img)
}

func (a *app) showImage(path string, img *imgsrc.Image) error {
	err := a.rend.SetImage(img)
	if err != nil {
		return err
	}
	a.scenIdx = -1
	a.win.SetTitle("tonelab - " + filepath.Base(path))
	return nil
}

func (a *app) scenarioIndex(name string) (int, error) {
	for i := range a.scenarios {
		if a.scenarios[i].Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("unknown scenario %q, want one of %q", name, scenario.Names())
}

func indexOf(s []string, v string) int {
	for i := range s {
		if s[i] == v {
			return i
		}
	}
	return -1
}
