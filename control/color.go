package control

import (
	"errors"
	"strconv"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
)

// DisplayGamma is the power law used to convert between the 8 bit encoded
// color of a picker and the linear color uploaded to the shader.
const DisplayGamma = 2.2

// BlackHex is the neutral color of a picker.
const BlackHex = "#000000"

var errBadHex = errors.New("color must have the form #rrggbb")

// ParseHex decodes a "#rrggbb" color into its 24 bit value.
func ParseHex(hex string) (uint32, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, errBadHex
	}
	c, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, errBadHex
	}
	return uint32(c), nil
}

// AppendHex appends the "#rrggbb" form of the 24 bit color c to dst.
func AppendHex(dst []byte, c uint32) []byte {
	const digits = "0123456789abcdef"
	dst = append(dst, '#')
	for shift := 20; shift >= 0; shift -= 4 {
		dst = append(dst, digits[(c>>shift)&0xf])
	}
	return dst
}

// HexToLinear decodes a "#rrggbb" color and applies the display gamma to
// every channel so that the result is linear.
func HexToLinear(hex string) (ms3.Vec, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return ms3.Vec{}, err
	}
	return cToLinear(c), nil
}

// LinearToHex encodes a linear color with the inverse display gamma,
// rounding every channel to the nearest 8 bit value. Channels outside [0,1]
// are clamped.
func LinearToHex(rgb ms3.Vec) string {
	return string(AppendHex(make([]byte, 0, 7), linearToC(rgb)))
}

func cToLinear(c uint32) ms3.Vec {
	return ms3.Vec{
		X: decodeChannel(uint8(c >> 16)),
		Y: decodeChannel(uint8(c >> 8)),
		Z: decodeChannel(uint8(c)),
	}
}

func linearToC(rgb ms3.Vec) uint32 {
	return uint32(encodeChannel(rgb.X))<<16 |
		uint32(encodeChannel(rgb.Y))<<8 |
		uint32(encodeChannel(rgb.Z))
}

func decodeChannel(v uint8) float32 {
	return math.Pow(float32(v)/math.MaxUint8, DisplayGamma)
}

func encodeChannel(v float32) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	v = ms1.Clamp(v, 0, 1)
	return uint8(math.Round(math.Pow(v, 1/DisplayGamma) * math.MaxUint8))
}
