package tonelab_test

import (
	"reflect"
	"testing"

	"github.com/soypat/tonelab"
)

func TestChoiceMacros(t *testing.T) {
	uniforms := tonelab.ParseUniforms(`
uniform int Mode; // choices Alpha Beta
uniform float Gain;
uniform uint op; // choices a-b c.d! e
`)
	got := tonelab.ChoiceMacros(uniforms)
	want := []tonelab.Macro{
		{Name: "MODE_ALPHA", Value: 0},
		{Name: "MODE_BETA", Value: 1},
		{Name: "OP_AB", Value: 0},
		{Name: "OP_CD", Value: 1},
		{Name: "OP_E", Value: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
	defines := string(tonelab.AppendDefines(nil, got[:2]))
	const wantDefines = "#define MODE_ALPHA 0\n#define MODE_BETA 1\n"
	if defines != wantDefines {
		t.Errorf("got defines %q, want %q", defines, wantDefines)
	}
}

func TestChoiceMacrosEmpty(t *testing.T) {
	macros := tonelab.ChoiceMacros(tonelab.ParseUniforms("void main() {}"))
	if len(macros) != 0 {
		t.Errorf("want no macros, got %v", macros)
	}
	if b := tonelab.AppendDefines(nil, macros); len(b) != 0 {
		t.Errorf("want no defines, got %q", b)
	}
}
