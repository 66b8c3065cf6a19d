// Command tonelab is an interactive lab for tonemapping shaders. It draws an
// HDR image through a user supplied GLSL tonemap function and builds a
// control for every annotated uniform declaration.
//
// Keys: Up/Down select a control, Left/Right change it (Shift for larger
// steps), Tab selects the color channel, R recompiles, S cycles scenarios,
// P cycles presets, H hides the panel and Esc quits. Enter types a value
// into the selected number or range, a second Enter applies it and Esc
// discards it. Dropping an image on the window replaces the scenario image.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/soypat/tonelab/preset"
	"github.com/soypat/tonelab/scenario"
)

func init() {
	runtime.LockOSThread()
}

type flags struct {
	shader   string
	preset   string
	scenario string
	image    string
	assets   string
	width    int
	height   int
	silent   bool
	watch    bool
}

func main() {
	var cfg flags
	flag.StringVar(&cfg.shader, "shader", "", "GLSL file with the tonemap function. Overrides -preset")
	flag.StringVar(&cfg.preset, "preset", preset.Default, "built-in shader to start with")
	flag.StringVar(&cfg.scenario, "scenario", scenario.Default, "built-in scenario to start with, empty for none")
	flag.StringVar(&cfg.image, "image", "", "image to tonemap. Disables the scenario")
	flag.StringVar(&cfg.assets, "assets", "assets", "directory holding scenario images")
	flag.IntVar(&cfg.width, "width", 1280, "window width")
	flag.IntVar(&cfg.height, "height", 720, "window height")
	flag.BoolVar(&cfg.silent, "silent", false, "disable logging")
	flag.BoolVar(&cfg.watch, "watch", false, "recompile when the -shader file changes")
	flag.Parse()

	logger := log.New(os.Stderr, "tonelab: ", log.Ltime)
	if cfg.silent {
		logger.SetOutput(io.Discard)
	}
	err := run(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
}
