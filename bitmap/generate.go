package bitmap

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"bmpgen/indexer"
	"bmpgen/palette"
	"bmpgen/rle"
)

const (
	DefaultWidth  = 400
	DefaultHeight = 400
)

var (
	ErrInvalidConfig = errors.New("invalid bitmap configuration")
	ErrTooLarge      = errors.New("bitmap exceeds 4 GiB")
)

type Config struct {
	Width   int
	Height  int
	Palette color.Palette

	// Workers is passed to the RLE encoder; see rle.Encoder.
	Workers int
}

// DefaultConfig is a 400x400 canvas using the classic 16 color palette.
func DefaultConfig() Config {
	pal, _ := palette.Named(palette.Default)
	return Config{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Palette: pal,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Width > math.MaxInt32:
		return fmt.Errorf("%w: width must be in [1, %d], got %d", ErrInvalidConfig, math.MaxInt32, c.Width)
	case c.Height <= 0 || c.Height > math.MaxInt32:
		return fmt.Errorf("%w: height must be in [1, %d], got %d", ErrInvalidConfig, math.MaxInt32, c.Height)
	case len(c.Palette) == 0:
		return fmt.Errorf("%w: palette is empty", ErrInvalidConfig)
	case len(c.Palette) > rle.MaxColors:
		return fmt.Errorf("%w: palette has %d colors, at most %d fit 8 bits", ErrInvalidConfig, len(c.Palette), rle.MaxColors)
	}
	return nil
}

// Bitmap is a generated BMP file split in its two parts. The caller owns both.
type Bitmap struct {
	Metadata  []byte
	PixelData []byte
}

// Generate encodes the canvas painted by idx and builds the matching metadata.
// The configuration is checked before idx is called.
func Generate(cfg Config, idx indexer.Indexer) (*Bitmap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, fmt.Errorf("%w: no indexer", ErrInvalidConfig)
	}

	enc := rle.Encoder{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Colors:  len(cfg.Palette),
		Workers: cfg.Workers,
	}
	pix, err := enc.Encode(idx)
	if err != nil {
		return nil, fmt.Errorf("could not encode pixel data: %w", err)
	}

	if size := MetadataSize(len(cfg.Palette)) + len(pix); int64(size) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}

	return &Bitmap{
		Metadata:  Metadata(cfg.Width, cfg.Height, cfg.Palette, len(pix)),
		PixelData: pix,
	}, nil
}

// Size is the length of the complete file.
func (b *Bitmap) Size() int {
	return len(b.Metadata) + len(b.PixelData)
}

// WriteTo writes the metadata followed by the pixel data.
func (b *Bitmap) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Metadata)
	if err != nil {
		return int64(n), fmt.Errorf("could not write metadata: %w", err)
	}

	m, err := w.Write(b.PixelData)
	if err != nil {
		return int64(n + m), fmt.Errorf("could not write pixel data: %w", err)
	}
	return int64(n + m), nil
}
