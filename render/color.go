package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/heartfall/vmath"
)

// RGB is a true-color value shared by the terminal and GL views
type RGB struct {
	R, G, B uint8
}

var (
	RGBBlack      = RGB{0, 0, 0}
	RGBBackground = RGB{12, 8, 16}
	RGBHUD        = RGB{170, 160, 180}
	RGBWarn       = RGB{255, 200, 50}
)

// clamp rounds down into a channel, saturating at both ends
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v)
}

// Blend mixes src over c, alpha 1 is all src
func (c RGB) Blend(src RGB, alpha float64) RGB {
	a := vmath.Clamp(alpha, 0, 1)
	mix := func(x, y uint8) uint8 { return clamp(float64(x) + (float64(y)-float64(x))*a + 0.5) }
	return RGB{mix(c.R, src.R), mix(c.G, src.G), mix(c.B, src.B)}
}

// Shade multiplies by a light intensity and adds a white specular term
func (c RGB) Shade(intensity, specular float64) RGB {
	s := specular * 255
	return RGB{
		R: clamp(float64(c.R)*intensity + s),
		G: clamp(float64(c.G)*intensity + s),
		B: clamp(float64(c.B)*intensity + s),
	}
}

// Tcell converts to a true-color tcell color
func (c RGB) Tcell() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
