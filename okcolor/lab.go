// based on:
// https://bottosson.github.io/posts/oklab/

package okcolor

import (
	"image/color"
	"math"
)

type Lab struct {
	L float64 // perceived lightness
	A float64 // how green/red the color is
	B float64 // how blue/yellow the color is
}

// LabOf converts c to OKLab, ignoring alpha.
func LabOf(c color.Color) Lab {
	return LinearOf(c).Lab()
}

func (lc LinearRGB) Lab() Lab {
	l := math.Cbrt(0.4122214708*lc.R + 0.5363325363*lc.G + 0.0514459929*lc.B)
	m := math.Cbrt(0.2119034982*lc.R + 0.6806995451*lc.G + 0.1073969566*lc.B)
	s := math.Cbrt(0.0883024619*lc.R + 0.2817188376*lc.G + 0.6299787005*lc.B)

	return Lab{
		L: 0.2104542553*l + 0.7936177850*m - 0.0040720468*s,
		A: 1.9779984951*l - 2.4285922050*m + 0.4505937099*s,
		B: 0.0259040371*l + 0.7827717662*m - 0.8086757660*s,
	}
}

// Distance returns the squared euclidean distance between two OKLab colors.
func (lc Lab) Distance(o Lab) float64 {
	dL := lc.L - o.L
	da := lc.A - o.A
	db := lc.B - o.B
	return dL*dL + da*da + db*db
}
