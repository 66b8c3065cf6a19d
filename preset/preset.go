// Package preset provides built-in tonemap shaders.
package preset

import (
	_ "embed"
	"fmt"
	"strings"
)

// Default is the preset loaded at startup.
const Default = "Multi"

var (
	//go:embed glsl/minimal.glsl
	minimal string
	//go:embed glsl/multi.glsl
	multi string
)

var presets = []struct {
	name, source string
}{
	{"Minimal", minimal},
	{"Multi", multi},
}

// Names returns the preset names in menu order.
func Names() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.name
	}
	return names
}

// Source returns the shader source of the named preset with leading
// whitespace removed.
func Source(name string) (string, error) {
	for _, p := range presets {
		if p.name == name {
			return strings.TrimLeft(p.source, " \t\r\n"), nil
		}
	}
	return "", fmt.Errorf("unknown preset %q, want one of %q", name, Names())
}
