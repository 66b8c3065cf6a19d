package tonelab

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// DefaultKeyword is the keyword that introduces a parameter declaration.
const DefaultKeyword = "uniform"

// scalarTypes are the types a parameter declaration may have, in matching order.
var scalarTypes = [...]struct {
	name string
	vt   ValueType
}{
	{"bool", Bool},
	{"float", Float},
	{"int", Int},
	{"uint", Uint},
}

// Parser scans parameter declarations of the form
//
//	uniform float Gain; // range min=0 max=4 default=1
//
// and produces a [UniformDescriptor] for every line that matches. Lines that
// do not match are ignored; the parser never fails.
type Parser struct {
	// Keyword introducing a declaration. Empty means [DefaultKeyword].
	Keyword string
}

// ParseUniforms parses text with the default [Parser].
func ParseUniforms(text string) []UniformDescriptor {
	var p Parser
	return p.AppendUniforms(nil, text)
}

// AppendUniforms parses text and appends one descriptor per matching
// declaration line to dst, in order of appearance. Repeated names are not
// deduplicated. Block comments are stripped from the whole text before
// splitting it into lines.
func (p *Parser) AppendUniforms(dst []UniformDescriptor, text string) []UniformDescriptor {
	keyword := p.Keyword
	if keyword == "" {
		keyword = DefaultKeyword
	}
	text = StripBlockComments(text)
	for len(text) > 0 {
		line, rest, _ := strings.Cut(text, "\n")
		text = rest
		decl, ok := scanDeclaration(line, keyword)
		if !ok {
			continue
		}
		dst = append(dst, decl.descriptor())
	}
	return dst
}

// StripBlockComments removes every /* ... */ comment from text. Comments may
// span lines. An unterminated comment is left in place.
func StripBlockComments(text string) string {
	var b strings.Builder
	stripped := false
	for {
		start := strings.Index(text, "/*")
		if start < 0 {
			break
		}
		end := strings.Index(text[start+2:], "*/")
		if end < 0 {
			break
		}
		b.WriteString(text[:start])
		text = text[start+2+end+2:]
		stripped = true
	}
	if !stripped {
		return text
	}
	b.WriteString(text)
	return b.String()
}

type declaration struct {
	vt         ValueType
	name       string
	comment    string
	hasComment bool
}

// scanDeclaration matches a single line against
//
//	^\s*<keyword>\s*(bool|float|int|uint)\s*(\w*)\s*;\s*(?://\s*(.*))?
func scanDeclaration(line, keyword string) (d declaration, ok bool) {
	s := trimSpace(line)
	s, ok = strings.CutPrefix(s, keyword)
	if !ok {
		return d, false
	}
	s = trimSpace(s)
	ok = false
	for _, st := range scalarTypes {
		if strings.HasPrefix(s, st.name) {
			d.vt = st.vt
			s = s[len(st.name):]
			ok = true
			break
		}
	}
	if !ok {
		return d, false
	}
	s = trimSpace(s)
	n := 0
	for n < len(s) && isWordByte(s[n]) {
		n++
	}
	d.name = s[:n]
	s = trimSpace(s[n:])
	s, ok = strings.CutPrefix(s, ";")
	if !ok {
		return d, false
	}
	s = trimSpace(s)
	if comment, isComment := strings.CutPrefix(s, "//"); isComment {
		d.comment = trimSpace(comment)
		d.hasComment = true
	}
	return d, true
}

func (d declaration) descriptor() UniformDescriptor {
	ud := UniformDescriptor{
		Name:   d.name,
		Type:   d.vt,
		Kind:   Number,
		Origin: FromDeclaration,
	}
	if d.vt == Bool {
		ud.Kind = Checkbox
	}
	if !d.hasComment {
		return ud
	}
	args := strings.Fields(d.comment)
	if len(args) > 1 && (args[0] == "choices" || args[0] == "options") && (d.vt == Int || d.vt == Uint) {
		ud.Kind = Choice
		ud.Choices = append([]string{}, args[1:]...)
		return ud
	}
	for _, arg := range args {
		switch {
		case arg == "range" || arg == "logrange":
			if d.vt == Float {
				ud.Kind = Range
				ud.Logarithmic = arg == "logrange"
			}
		case strings.HasPrefix(arg, "min="):
			ud.Min = parseFloat(arg[len("min="):])
			ud.HasMin = true
		case strings.HasPrefix(arg, "max="):
			ud.Max = parseFloat(arg[len("max="):])
			ud.HasMax = true
		case strings.HasPrefix(arg, "default="):
			lit := arg[len("default="):]
			ud.HasDefault = true
			if ud.Kind == Checkbox {
				lit = strconv.FormatBool(isTruthy(lit))
			}
			ud.Default = lit
		}
	}
	return ud
}

// isTruthy reports false when tok contains "false", "no" or "0" ignoring case.
func isTruthy(tok string) bool {
	tok = strings.ToLower(tok)
	return !strings.Contains(tok, "false") && !strings.Contains(tok, "no") && !strings.Contains(tok, "0")
}

// parseFloat returns NaN for malformed literals so bound checks against
// them always fail.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func trimSpace(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
