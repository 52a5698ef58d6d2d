package gekko

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// LinearRgba is a colour in linear space, laid out as a vec4<f32> uniform.
type LinearRgba struct {
	R, G, B, A float32
}

// CSS named colours, converted from sRGB.
var (
	Gold  = SrgbHex("#FFD700")
	White = SrgbHex("#FFFFFF")
	Black = SrgbHex("#000000")
)

// ParseSrgbHex converts an sRGB "#rrggbb" string to linear RGBA with alpha 1.
func ParseSrgbHex(hex string) (LinearRgba, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return LinearRgba{}, fmt.Errorf("parse colour %q: %w", hex, err)
	}
	r, g, b := c.LinearRgb()
	return LinearRgba{R: float32(r), G: float32(g), B: float32(b), A: 1}, nil
}

// SrgbHex is ParseSrgbHex for literals; it panics on malformed input.
func SrgbHex(hex string) LinearRgba {
	c, err := ParseSrgbHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

func (c LinearRgba) WithAlpha(a float32) LinearRgba {
	c.A = a
	return c
}
