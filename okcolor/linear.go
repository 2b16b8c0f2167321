package okcolor

import (
	"image/color"
	"math"
)

// LinearRGB holds gamma-expanded sRGB components in [0, 1].
type LinearRGB struct {
	R float64
	G float64
	B float64
}

func LinearOf(c color.Color) LinearRGB {
	if lc, ok := c.(LinearRGB); ok {
		return lc
	}

	r, g, b, _ := c.RGBA()
	return LinearRGB{
		R: toLinear(float64(r) / 0xffff),
		G: toLinear(float64(g) / 0xffff),
		B: toLinear(float64(b) / 0xffff),
	}
}

// RGBA implements color.Color, clamping out of gamut components.
func (lc LinearRGB) RGBA() (uint32, uint32, uint32, uint32) {
	return toSRGB(lc.R), toSRGB(lc.G), toSRGB(lc.B), 0xffff
}

func toSRGB(x float64) uint32 {
	return uint32(math.Round(fromLinear(min(max(x, 0), 1)) * 0xffff))
}

func toLinear(x float64) float64 {
	if x >= 0.04045 {
		return math.Pow((x+0.055)/1.055, 2.4)
	}
	return x / 12.92
}

const pow float64 = 1.0 / 2.4

func fromLinear(x float64) float64 {
	if x >= 0.0031308 {
		return math.Pow(x, pow)*1.055 - 0.055
	}
	return x * 12.92
}
