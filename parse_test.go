package tonelab_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/soypat/tonelab"
)

func TestParseUniforms(t *testing.T) {
	var tests = []struct {
		name string
		src  string
		want []tonelab.UniformDescriptor
	}{
		{
			name: "bool no comment",
			src:  "uniform bool Enable;",
			want: []tonelab.UniformDescriptor{
				{Name: "Enable", Type: tonelab.Bool, Kind: tonelab.Checkbox},
			},
		},
		{
			name: "bool default falsy",
			src:  "  uniform bool Flip; // default=No",
			want: []tonelab.UniformDescriptor{
				{Name: "Flip", Type: tonelab.Bool, Kind: tonelab.Checkbox, Default: "false", HasDefault: true},
			},
		},
		{
			name: "bool default truthy",
			src:  "uniform bool Flip; // default=yes",
			want: []tonelab.UniformDescriptor{
				{Name: "Flip", Type: tonelab.Bool, Kind: tonelab.Checkbox, Default: "true", HasDefault: true},
			},
		},
		{
			name: "float range",
			src:  "uniform float Gain; // range min=0 max=10 default=3.14",
			want: []tonelab.UniformDescriptor{
				{Name: "Gain", Type: tonelab.Float, Kind: tonelab.Range, Min: 0, Max: 10, HasMin: true, HasMax: true, Default: "3.14", HasDefault: true},
			},
		},
		{
			name: "float logrange order independent",
			src:  "uniform float White; // max=100 logrange min=1",
			want: []tonelab.UniformDescriptor{
				{Name: "White", Type: tonelab.Float, Kind: tonelab.Range, Logarithmic: true, Min: 1, Max: 100, HasMin: true, HasMax: true},
			},
		},
		{
			name: "range ignored on int",
			src:  "uniform int Steps; // range min=0 max=3",
			want: []tonelab.UniformDescriptor{
				{Name: "Steps", Type: tonelab.Int, Kind: tonelab.Number, Min: 0, Max: 3, HasMin: true, HasMax: true},
			},
		},
		{
			name: "int choices",
			src:  "uniform int Mode; // choices Alpha Beta",
			want: []tonelab.UniformDescriptor{
				{Name: "Mode", Type: tonelab.Int, Kind: tonelab.Choice, Choices: []string{"Alpha", "Beta"}},
			},
		},
		{
			name: "uint options alias",
			src:  "uniform uint Op;// options A B C",
			want: []tonelab.UniformDescriptor{
				{Name: "Op", Type: tonelab.Uint, Kind: tonelab.Choice, Choices: []string{"A", "B", "C"}},
			},
		},
		{
			name: "choices without options",
			src:  "uniform int Mode; // choices",
			want: []tonelab.UniformDescriptor{
				{Name: "Mode", Type: tonelab.Int, Kind: tonelab.Number},
			},
		},
		{
			name: "choices on float",
			src:  "uniform float Mode; // choices A B",
			want: []tonelab.UniformDescriptor{
				{Name: "Mode", Type: tonelab.Float, Kind: tonelab.Number},
			},
		},
		{
			name: "no spaces",
			src:  "uniformfloatX;//range",
			want: []tonelab.UniformDescriptor{
				{Name: "X", Type: tonelab.Float, Kind: tonelab.Range},
			},
		},
		{
			name: "duplicates kept",
			src:  "uniform float A;\nuniform int A;\n",
			want: []tonelab.UniformDescriptor{
				{Name: "A", Type: tonelab.Float, Kind: tonelab.Number},
				{Name: "A", Type: tonelab.Int, Kind: tonelab.Number},
			},
		},
		{
			name: "block comments stripped",
			src:  "/* uniform float Hidden;\nuniform float AlsoHidden; */\nuniform float Shown; /* note */ // range",
			want: []tonelab.UniformDescriptor{
				{Name: "Shown", Type: tonelab.Float, Kind: tonelab.Range},
			},
		},
		{
			name: "unterminated block comment kept",
			src:  "/* open\nuniform float Visible;",
			want: []tonelab.UniformDescriptor{
				{Name: "Visible", Type: tonelab.Float, Kind: tonelab.Number},
			},
		},
		{
			name: "non matching lines",
			src:  "vec3 tonemap(vec3 c) { return c; }\nuniform vec3 Tint;\nuniform float Missing\n// uniform float Commented;",
		},
		{
			name: "empty",
			src:  "",
		},
	}
	for _, test := range tests {
		got := tonelab.ParseUniforms(test.src)
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s:\n got %+v\nwant %+v", test.name, got, test.want)
		}
	}
}

func TestDeclarationSpacing(t *testing.T) {
	var tests = []struct {
		src  string
		name string
		vt   tonelab.ValueType
	}{
		{"uniform float Gain;", "Gain", tonelab.Float},
		{"uniform\tint\t Mode ;", "Mode", tonelab.Int},
		{"  uniform  bool   Flip  ;  // default=no", "Flip", tonelab.Bool},
		{"uniformuintCount;", "Count", tonelab.Uint},
		{"uniform float ;", "", tonelab.Float},
	}
	for _, test := range tests {
		got := tonelab.ParseUniforms(test.src)
		if len(got) != 1 {
			t.Errorf("%q: want 1 descriptor, got %d", test.src, len(got))
			continue
		}
		if got[0].Name != test.name || got[0].Type != test.vt {
			t.Errorf("%q: got name %q type %s, want %q %s", test.src, got[0].Name, got[0].Type, test.name, test.vt)
		}
	}
	for _, src := range []string{"uniform float Gain", "uniform vec3 Tint;", "float Gain;"} {
		if got := tonelab.ParseUniforms(src); len(got) != 0 {
			t.Errorf("%q: want no match, got %+v", src, got)
		}
	}
}

func TestParseMalformedNumber(t *testing.T) {
	got := tonelab.ParseUniforms("uniform float X; // range min=abc max=1")
	if len(got) != 1 {
		t.Fatalf("want 1 descriptor, got %d", len(got))
	}
	ud := got[0]
	if !ud.HasMin || !math.IsNaN(ud.Min) {
		t.Errorf("want NaN min, got %v (has=%v)", ud.Min, ud.HasMin)
	}
	if ud.Max != 1 {
		t.Errorf("want max 1, got %v", ud.Max)
	}
	if err := ud.Validate(); err == nil {
		t.Error("expected validation error for NaN bound")
	}
}

func TestParserKeyword(t *testing.T) {
	p := tonelab.Parser{Keyword: "param"}
	got := p.AppendUniforms(nil, "uniform float A;\nparam float B; // range min=1 max=2")
	if len(got) != 1 || got[0].Name != "B" || got[0].Kind != tonelab.Range {
		t.Fatalf("unexpected descriptors %+v", got)
	}
}

func TestStripBlockComments(t *testing.T) {
	var tests = []struct {
		in, want string
	}{
		{"abc", "abc"},
		{"a/*x*/b/*y*/c", "abc"},
		{"a/*/b", "a/*/b"},
		{"a/**/b/*", "ab/*"},
		{"a/*\n\n*/b", "ab"},
	}
	for _, test := range tests {
		got := tonelab.StripBlockComments(test.in)
		if got != test.want {
			t.Errorf("StripBlockComments(%q)=%q, want %q", test.in, got, test.want)
		}
	}
}

func TestValidate(t *testing.T) {
	good := tonelab.ParseUniforms(`
uniform bool A;
uniform float B; // range min=0 max=1
uniform float C; // logrange min=0.1 max=10
uniform int D; // choices X Y
uniform uint E;
`)
	for i := range good {
		if err := good[i].Validate(); err != nil {
			t.Error(err)
		}
	}
	bad := tonelab.ParseUniforms(`
uniform float B; // range
uniform float C; // logrange min=0 max=10
uniform float D; // range min=2 max=1
`)
	if len(bad) != 3 {
		t.Fatalf("want 3 descriptors, got %d", len(bad))
	}
	for i := range bad {
		if err := bad[i].Validate(); err == nil {
			t.Errorf("%s: expected validation error", bad[i].Name)
		}
	}
}
