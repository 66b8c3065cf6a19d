package session

import (
	"bytes"
	_ "embed"

	"github.com/soypat/tonelab"
)

var (
	//go:embed glsl/header.glsl
	fragmentHeader string
	//go:embed glsl/footer.glsl
	fragmentFooter string
)

// Parts are the variable pieces of a fragment shader.
type Parts struct {
	Macros []tonelab.Macro
	// Declarations are scenario uniform declarations, placed ahead of user
	// code so both user code and the scenario fragment may reference them.
	Declarations string
	// User is the user's declaration and shading text.
	User string
	// Fragment is the scenario shading fragment.
	Fragment string
}

// Assembly is an assembled fragment shader.
type Assembly struct {
	Source string
	// UserLine is the 1-based line of Source at which user text starts.
	UserLine int
}

// Assemble concatenates the fixed header, generated macros, scenario
// declarations, user text, scenario fragment and fixed footer. Every
// non-empty part starts on a new line.
func Assemble(p Parts) Assembly {
	var buf bytes.Buffer
	writePart(&buf, fragmentHeader)
	writePart(&buf, string(tonelab.AppendDefines(nil, p.Macros)))
	writePart(&buf, p.Declarations)
	userLine := bytes.Count(buf.Bytes(), []byte{'\n'}) + 1
	writePart(&buf, p.User)
	writePart(&buf, p.Fragment)
	writePart(&buf, fragmentFooter)
	return Assembly{
		Source:   buf.String(),
		UserLine: userLine,
	}
}

func writePart(buf *bytes.Buffer, part string) {
	buf.WriteString(part)
	if len(part) > 0 && part[len(part)-1] != '\n' {
		buf.WriteByte('\n')
	}
}
