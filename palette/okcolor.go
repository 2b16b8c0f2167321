package palette

import (
	"image/color"
	"math"

	"bmpgen/okcolor"
)

// Lab is a palette converted to OKLab, matching colors by perceived difference
// rather than by RGB distance.
type Lab []okcolor.Lab

func NewLab(p color.Palette) Lab {
	pal := make(Lab, len(p))
	for i, c := range p {
		pal[i] = okcolor.LabOf(c)
	}
	return pal
}

// Index returns the index of the palette entry closest to c. It returns 0 for an
// empty palette.
func (p Lab) Index(c color.Color) int {
	lc := okcolor.LabOf(c)
	ret, best := 0, math.MaxFloat64
	for i, v := range p {
		d := lc.Distance(v)
		if d < best {
			if d == 0 {
				return i
			}
			ret, best = i, d
		}
	}
	return ret
}
