// Package scenario holds the built-in scenarios. A scenario pairs an image
// with fixed uniforms and a shading fragment that recombines the image
// before it reaches the user's tonemap.
package scenario

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/soypat/tonelab"
)

// Scenario overlays fixed uniforms and a shading fragment on the user's
// shader. The fragment may read the scenario's uniforms, which are declared
// ahead of user code.
type Scenario struct {
	Name string
	// Image is the file name of the scenario image inside the assets directory.
	Image    string
	Uniforms []tonelab.UniformDescriptor
	Fragment string
}

// AppendDeclarations appends one uniform declaration line per scenario uniform.
func (sc *Scenario) AppendDeclarations(dst []byte) []byte {
	for i := range sc.Uniforms {
		u := &sc.Uniforms[i]
		dst = append(dst, "uniform "...)
		dst = append(dst, u.Type.String()...)
		dst = append(dst, ' ')
		dst = append(dst, u.Name...)
		dst = append(dst, ";\n"...)
	}
	return dst
}

// Default is the scenario active at startup.
const Default = "Flat Sponza"

var (
	//go:embed glsl/flat_sponza.glsl
	flatSponzaFragment string
	//go:embed glsl/text_light.glsl
	textLightFragment string
	//go:embed glsl/shelf.glsl
	shelfFragment string
)

// Builtin returns the built-in scenarios in menu order. The returned slice
// is freshly allocated on every call.
func Builtin() []Scenario {
	return []Scenario{
		{
			Name:  "Flat Sponza",
			Image: "sponza.tiff",
			Uniforms: []tonelab.UniformDescriptor{
				color("_skyColor", "Sky Color", "#00a2ff"),
				color("_sunColor", "Sun Color", "#fff7cb"),
				linear("_sunPower", "Sun Power", -5, 10, "0"),
				color("_lightColor", "Light Color", "#ff3300"),
				linear("_lightPower", "Light Power", -5, 10, "0"),
			},
			Fragment: strings.TrimSpace(flatSponzaFragment),
		},
		{
			Name:  "Text Light",
			Image: "text.tiff",
			Uniforms: []tonelab.UniformDescriptor{
				color("_color", "Light Color", "#0033ff"),
			},
			Fragment: strings.TrimSpace(textLightFragment),
		},
		{
			Name:  "Shelf",
			Image: "shelf.tiff",
			Uniforms: []tonelab.UniformDescriptor{
				linear("_rotateMix", "Rotated Hue Mix", 0, 1, "0"),
			},
			Fragment: strings.TrimSpace(shelfFragment),
		},
	}
}

// Names returns the built-in scenario names in menu order.
func Names() []string {
	builtin := Builtin()
	names := make([]string, len(builtin))
	for i := range builtin {
		names[i] = builtin[i].Name
	}
	return names
}

// Lookup returns the built-in scenario with the given name.
func Lookup(name string) (*Scenario, error) {
	builtin := Builtin()
	for i := range builtin {
		if builtin[i].Name == name {
			return &builtin[i], nil
		}
	}
	return nil, fmt.Errorf("unknown scenario %q, want one of %q", name, Names())
}

func color(name, label, hex string) tonelab.UniformDescriptor {
	return tonelab.UniformDescriptor{
		Name:       name,
		Type:       tonelab.Vec3,
		Kind:       tonelab.Color,
		Default:    hex,
		HasDefault: true,
		Label:      label,
		Origin:     tonelab.FromScenario,
	}
}

func linear(name, label string, min, max float64, def string) tonelab.UniformDescriptor {
	return tonelab.UniformDescriptor{
		Name:       name,
		Type:       tonelab.Float,
		Kind:       tonelab.Range,
		Min:        min,
		Max:        max,
		HasMin:     true,
		HasMax:     true,
		Default:    def,
		HasDefault: true,
		Label:      label,
		Origin:     tonelab.FromScenario,
	}
}
