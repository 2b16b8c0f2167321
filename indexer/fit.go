package indexer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// Fit selects how a source picture whose aspect ratio differs from the canvas
// is brought to the canvas size.
type Fit int

const (
	// Stretch scales both axes independently.
	Stretch Fit = iota
	// Crop trims the longer axis of the source around its center.
	Crop
	// Pad centers the scaled source over a background color.
	Pad
)

var fitNames = [...]string{
	Stretch: "stretch",
	Crop:    "crop",
	Pad:     "pad",
}

func (f Fit) String() string {
	if f < 0 || int(f) >= len(fitNames) {
		return fmt.Sprintf("Fit(%d)", int(f))
	}
	return fitNames[f]
}

func ParseFit(s string) (Fit, error) {
	for i, name := range fitNames {
		if strings.EqualFold(s, name) {
			return Fit(i), nil
		}
	}
	return 0, fmt.Errorf("unsupported fit %q, should be one of %s", s, strings.Join(fitNames[:], ", "))
}

// FitImage returns src scaled to exactly width x height. bg paints the borders
// left by Pad.
func FitImage(src image.Image, width, height int, fit Fit, bg color.Color) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}

	srcBounds := src.Bounds()
	srcW, srcH := float64(srcBounds.Dx()), float64(srcBounds.Dy())
	if srcW == 0 || srcH == 0 {
		return nil, fmt.Errorf("empty source image")
	}
	destW, destH := float64(width), float64(height)
	if srcW == destW && srcH == destH {
		return src, nil
	}

	destSize := image.Rect(0, 0, width, height)
	destBounds := destSize
	srcAR, destAR := srcW/srcH, destW/destH

	switch fit {
	case Stretch:
	case Crop:
		if srcAR < destAR {
			dh := int(math.Round((srcH - srcW/destAR) / 2))
			srcBounds.Min.Y += dh
			srcBounds.Max.Y -= dh
		} else if srcAR > destAR {
			dw := int(math.Round((srcW - srcH*destAR) / 2))
			srcBounds.Min.X += dw
			srcBounds.Max.X -= dw
		}
	case Pad:
		if srcAR < destAR {
			idw := int(math.Round((destW - destH*srcAR) / 2))
			destBounds.Min.X += idw
			destBounds.Max.X -= idw
		} else if srcAR > destAR {
			idh := int(math.Round((destH - destW/srcAR) / 2))
			destBounds.Min.Y += idh
			destBounds.Max.Y -= idh
		}
	default:
		return nil, fmt.Errorf("unsupported fit %v", fit)
	}

	dest := image.NewRGBA64(destSize)
	if fit == Pad && bg != nil {
		draw.Draw(dest, destSize, image.NewUniform(bg), image.Point{}, draw.Src)
	}
	if !destBounds.Empty() {
		draw.CatmullRom.Scale(dest, destBounds, src, srcBounds, draw.Over, nil)
	}
	return dest, nil
}
