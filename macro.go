package tonelab

import (
	"strconv"
	"strings"
)

// Macro is a preprocessor constant naming one option of a Choice uniform.
type Macro struct {
	Name  string
	Value int
}

// ChoiceMacros returns one macro per option of every Choice descriptor.
// Macro names are UPPER(name)_UPPER(option) with every character outside
// [0-9A-Za-z_] removed from the option, and values are zero-based indices.
func ChoiceMacros(uniforms []UniformDescriptor) []Macro {
	var macros []Macro
	for i := range uniforms {
		ud := &uniforms[i]
		if ud.Kind != Choice {
			continue
		}
		prefix := strings.ToUpper(ud.Name) + "_"
		for idx, choice := range ud.Choices {
			macros = append(macros, Macro{
				Name:  prefix + strings.ToUpper(sanitizeIdent(choice)),
				Value: idx,
			})
		}
	}
	return macros
}

// AppendDefines appends a "#define NAME VALUE" line per macro to dst.
func AppendDefines(dst []byte, macros []Macro) []byte {
	for _, m := range macros {
		dst = append(dst, "#define "...)
		dst = append(dst, m.Name...)
		dst = append(dst, ' ')
		dst = strconv.AppendInt(dst, int64(m.Value), 10)
		dst = append(dst, '\n')
	}
	return dst
}

func sanitizeIdent(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if !isWordByte(s[i]) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if isWordByte(s[i]) {
			b = append(b, s[i])
		}
	}
	return string(b)
}
