package indexer

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"bmpgen/palette"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Quantizer selects how source image colors are mapped onto palette entries.
type Quantizer int

const (
	// Nearest picks the entry with the smallest RGB distance.
	Nearest Quantizer = iota
	// Dither applies Floyd-Steinberg error diffusion.
	Dither
	// Perceptual picks the entry with the smallest OKLab distance.
	Perceptual
)

var quantizerNames = [...]string{
	Nearest:    "nearest",
	Dither:     "dither",
	Perceptual: "perceptual",
}

func (q Quantizer) String() string {
	if q < 0 || int(q) >= len(quantizerNames) {
		return fmt.Sprintf("Quantizer(%d)", int(q))
	}
	return quantizerNames[q]
}

func ParseQuantizer(s string) (Quantizer, error) {
	for i, name := range quantizerNames {
		if strings.EqualFold(s, name) {
			return Quantizer(i), nil
		}
	}
	return 0, fmt.Errorf("unsupported quantizer %q, should be one of %s", s, strings.Join(quantizerNames[:], ", "))
}

// Image serves indices from a source picture already scaled to the canvas and
// reduced to the palette.
type Image struct {
	pix *image.Paletted
}

// FromImage scales src to width x height and maps every pixel onto pal.
func FromImage(src image.Image, width, height int, pal color.Palette, q Quantizer) (*Image, error) {
	switch {
	case width <= 0 || height <= 0:
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	case len(pal) == 0 || len(pal) > 256:
		return nil, fmt.Errorf("invalid palette size %d", len(pal))
	}

	rect := image.Rect(0, 0, width, height)
	scaled := image.NewRGBA64(rect)
	if sb := src.Bounds(); sb.Dx() == width && sb.Dy() == height {
		draw.Draw(scaled, rect, src, sb.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(scaled, rect, src, sb, draw.Src, nil)
	}

	dest := image.NewPaletted(rect, pal)
	switch q {
	case Nearest:
		draw.Draw(dest, rect, scaled, rect.Min, draw.Src)
	case Dither:
		draw.FloydSteinberg.Draw(dest, rect, scaled, rect.Min)
	case Perceptual:
		lab := palette.NewLab(pal)
		for y := range height {
			for x := range width {
				dest.SetColorIndex(x, y, uint8(lab.Index(scaled.RGBA64At(x, y))))
			}
		}
	default:
		return nil, fmt.Errorf("unsupported quantizer %v", q)
	}

	return &Image{pix: dest}, nil
}

func (m *Image) Index(x, y int) int {
	return int(m.pix.ColorIndexAt(x, y))
}

// Paletted exposes the quantized picture.
func (m *Image) Paletted() *image.Paletted {
	return m.pix
}

// DecodeFile decodes a gif, jpeg, png, bmp, tiff or webp picture.
func DecodeFile(name string) (image.Image, string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, "", fmt.Errorf("could not open image %q: %w", name, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image %q: %w", name, err)
	}
	return img, format, nil
}
