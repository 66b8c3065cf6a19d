// Package imgsrc decodes images into linear floating point RGBA buffers
// ready for upload as a texture.
package imgsrc

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a linear RGBA image with 4 float32 components per pixel. Rows
// are stored bottom to top, matching OpenGL texture coordinates.
type Image struct {
	Width, Height int
	Pix           []float32
}

// AspectRatio returns width over height.
func (img *Image) AspectRatio() float32 {
	if img.Height == 0 {
		return 1
	}
	return float32(img.Width) / float32(img.Height)
}

// At returns the linear RGBA components at x, y with y increasing upwards.
func (img *Image) At(x, y int) (r, g, b, a float32) {
	i := 4 * (y*img.Width + x)
	p := img.Pix[i : i+4 : i+4]
	return p[0], p[1], p[2], p[3]
}

// Decode reads an encoded image and converts it to linear RGBA. Encoded
// values are assumed to follow the sRGB transfer function. Supported formats
// are PNG, JPEG, GIF, BMP, TIFF and WebP.
func Decode(r io.Reader) (*Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("empty %s image", format)
	}
	w, h := bounds.Dx(), bounds.Dy()
	img := &Image{Width: w, Height: h, Pix: make([]float32, 4*w*h)}
	for y := 0; y < h; y++ {
		row := img.Pix[4*w*(h-1-y) : 4*w*(h-y)]
		for x := 0; x < w; x++ {
			r, g, b, a := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			p := row[4*x : 4*x+4 : 4*x+4]
			p[0] = unpremultiply(r, a)
			p[1] = unpremultiply(g, a)
			p[2] = unpremultiply(b, a)
			p[3] = float32(a) / 0xffff
		}
	}
	return img, nil
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (*Image, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	img, err := Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func unpremultiply(c, a uint32) float32 {
	if a == 0 {
		return 0
	}
	return SRGBToLinear(float32(c) / float32(a))
}

// SRGBToLinear applies the piecewise sRGB EOTF to an encoded value in [0,1].
func SRGBToLinear(v float32) float32 {
	v = ms1.Clamp(v, 0, 1)
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Gradient returns a synthetic high dynamic range test image of the given
// size. Exposure increases left to right over stops, spanning 2^-stops/2 to
// 2^+stops/2, and hue sweeps bottom to top with a gray band at the bottom.
func Gradient(width, height int, stops float32) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("gradient size must be positive")
	}
	img := &Image{Width: width, Height: height, Pix: make([]float32, 4*width*height)}
	for y := 0; y < height; y++ {
		t := (float32(y) + 0.5) / float32(height)
		r, g, b := hueSweep(t)
		if t < 0.125 {
			r, g, b = 1, 1, 1
		}
		for x := 0; x < width; x++ {
			s := (float32(x) + 0.5) / float32(width)
			lum := math.Exp2(ms1.Interp(-stops/2, stops/2, s))
			p := img.Pix[4*(y*width+x):]
			p[0], p[1], p[2], p[3] = lum*r, lum*g, lum*b, 1
		}
	}
	return img, nil
}

// hueSweep returns a fully saturated color with maximum component 1.
func hueSweep(t float32) (r, g, b float32) {
	const third = 2 * math.Pi / 3
	r = math.Cos(2*math.Pi*t - 0*third)
	g = math.Cos(2*math.Pi*t - 1*third)
	b = math.Cos(2*math.Pi*t - 2*third)
	lo := min(r, g, b)
	hi := max(r, g, b)
	return (r - lo) / (hi - lo), (g - lo) / (hi - lo), (b - lo) / (hi - lo)
}
