package tonelab

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/geometry/ms3"
)

// ValueType is the GLSL type of a uniform.
type ValueType uint8

const (
	typeUndefined ValueType = iota
	Bool
	Float
	Int
	Uint
	Vec3
)

func (vt ValueType) String() string {
	switch vt {
	case Bool:
		return "bool"
	case Float:
		return "float"
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Vec3:
		return "vec3"
	}
	return "undefined"
}

// ControlKind is the kind of interactive control synthesized for a uniform.
type ControlKind uint8

const (
	kindUndefined ControlKind = iota
	Checkbox
	Number
	Range
	Choice
	Color
)

func (ck ControlKind) String() string {
	switch ck {
	case Checkbox:
		return "checkbox"
	case Number:
		return "number"
	case Range:
		return "range"
	case Choice:
		return "choice"
	case Color:
		return "color"
	}
	return "undefined"
}

// Origin tells where a descriptor was declared.
type Origin uint8

const (
	// FromDeclaration descriptors are parsed from user uniform declarations.
	FromDeclaration Origin = iota
	// FromScenario descriptors are fixed by the active scenario.
	FromScenario
)

// UniformDescriptor is the parsed representation of one uniform declaration.
// Descriptors are immutable for the duration of a recompilation pass.
type UniformDescriptor struct {
	Name string
	Type ValueType
	Kind ControlKind
	// Min and Max are only meaningful when HasMin and HasMax are set.
	// A malformed literal yields NaN.
	Min, Max       float64
	HasMin, HasMax bool
	Logarithmic    bool
	// Choices lists the option names of a Choice descriptor in declaration order.
	Choices []string
	// Default is the literal after "default=". For Bool descriptors it is
	// normalized to "true" or "false".
	Default    string
	HasDefault bool
	// Label is the control label. Empty means Name.
	Label  string
	Origin Origin
}

// ControlLabel returns the label shown next to the uniform's control.
func (ud *UniformDescriptor) ControlLabel() string {
	if ud.Label != "" {
		return ud.Label
	}
	return ud.Name
}

// DefaultChecked returns the checkbox default, which is true when unset.
func (ud *UniformDescriptor) DefaultChecked() bool {
	if !ud.HasDefault {
		return true
	}
	return ud.Default != "false"
}

// Validate reports the descriptor invariants that do not hold. Invalid
// descriptors still produce controls; Validate exists for diagnostics.
func (ud *UniformDescriptor) Validate() error {
	var errs []error
	if ud.Name == "" {
		errs = append(errs, errors.New("empty uniform name"))
	}
	if ud.Type == typeUndefined {
		errs = append(errs, errors.New("undefined uniform type"))
	}
	switch ud.Kind {
	case Checkbox, Number, Color:
	case Choice:
		if ud.Type != Int && ud.Type != Uint {
			errs = append(errs, fmt.Errorf("choice requires int or uint, got %s", ud.Type))
		}
		if len(ud.Choices) == 0 {
			errs = append(errs, errors.New("choice without options"))
		}
	case Range:
		if ud.Type != Float {
			errs = append(errs, fmt.Errorf("range requires float, got %s", ud.Type))
		}
		switch {
		case !ud.HasMin || !ud.HasMax:
			errs = append(errs, errors.New("range requires min= and max="))
		case math.IsNaN(ud.Min) || math.IsNaN(ud.Max):
			errs = append(errs, errors.New("malformed range bound"))
		case ud.Min > ud.Max:
			errs = append(errs, fmt.Errorf("range min %g greater than max %g", ud.Min, ud.Max))
		case ud.Logarithmic && ud.Min <= 0:
			errs = append(errs, fmt.Errorf("logrange requires positive min, got %g", ud.Min))
		}
	default:
		errs = append(errs, fmt.Errorf("undefined control kind %d", ud.Kind))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("uniform %q: %w", ud.Name, errors.Join(errs...))
}

// Value is the current value of a uniform as read from its control.
type Value struct {
	// Scalar holds checkbox (0 or 1), number, range and choice index values.
	Scalar float64
	// RGB holds linear color values for vec3 uniforms.
	RGB ms3.Vec
}

// ScalarValue returns a Value holding a scalar.
func ScalarValue(v float64) Value { return Value{Scalar: v} }

// RGBValue returns a Value holding a linear color.
func RGBValue(rgb ms3.Vec) Value { return Value{RGB: rgb} }
