// Package profile reads generation settings from YAML files.
//
//	width: 400
//	height: 400
//	palette: classic16
//	pattern:
//	  kind: diagonal
//	  band: 8
package profile

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"bmpgen/bitmap"
	"bmpgen/indexer"
	"bmpgen/palette"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

var ErrInvalidProfile = errors.New("invalid profile")

// Pattern kinds.
const (
	Diagonal   = "diagonal"
	Vertical   = "vertical"
	Horizontal = "horizontal"
	Constant   = "constant"
	Checker    = "checker"
	Expr       = "expr"
	Image      = "image"
)

var Kinds = []string{Diagonal, Vertical, Horizontal, Constant, Checker, Expr, Image}

type Profile struct {
	Width   int            `yaml:"width"`
	Height  int            `yaml:"height"`
	Palette string         `yaml:"palette"`
	Colors  []string       `yaml:"colors"`
	Workers int            `yaml:"workers"`
	Pattern map[string]any `yaml:"pattern"`

	// dir resolves relative palette and image paths.
	dir string
}

// Pattern describes the indexer painting the canvas. Fields unused by Kind are
// ignored.
type Pattern struct {
	Kind     string `mapstructure:"kind"`
	Band     int    `mapstructure:"band"`     // diagonal, vertical, horizontal
	Index    int    `mapstructure:"index"`    // constant
	Size     int    `mapstructure:"size"`     // checker
	A        int    `mapstructure:"a"`        // checker
	B        int    `mapstructure:"b"`        // checker
	Expr     string `mapstructure:"expr"`     // expr
	Image    string `mapstructure:"image"`    // image
	Quantize string `mapstructure:"quantize"` // image
	Fit      string `mapstructure:"fit"`      // image

	dir string
}

func DefaultPattern() Pattern {
	return Pattern{
		Kind:     Diagonal,
		Band:     8,
		Size:     8,
		B:        1,
		Quantize: indexer.Nearest.String(),
		Fit:      indexer.Stretch.String(),
	}
}

func Load(name string) (*Profile, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("could not read profile %q: %w", name, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not load profile %q: %w", name, err)
	}
	p.dir = filepath.Dir(name)
	return p, nil
}

func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	return &p, nil
}

// Config returns the canvas settings, filling in the 400x400 classic16 defaults.
func (p *Profile) Config() (bitmap.Config, error) {
	cfg := bitmap.DefaultConfig()
	if p.Width != 0 {
		cfg.Width = p.Width
	}
	if p.Height != 0 {
		cfg.Height = p.Height
	}
	cfg.Workers = p.Workers

	switch {
	case len(p.Colors) > 0:
		pal, err := palette.ParseHexList(p.Colors)
		if err != nil {
			return cfg, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
		}
		cfg.Palette = pal
	case p.Palette != "":
		pal, err := palette.LoadPalette(p.resolve(p.Palette))
		if err != nil {
			return cfg, err
		}
		cfg.Palette = pal
	}

	return cfg, cfg.Validate()
}

// DecodePattern decodes the pattern section over DefaultPattern.
func (p *Profile) DecodePattern() (Pattern, error) {
	pat := DefaultPattern()
	pat.dir = p.dir
	if len(p.Pattern) == 0 {
		return pat, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &pat,
	})
	if err != nil {
		return pat, err
	}
	if err := dec.Decode(p.Pattern); err != nil {
		return pat, fmt.Errorf("%w: pattern: %w", ErrInvalidProfile, err)
	}
	return pat, nil
}

// Indexer builds the pattern of the profile for cfg.
func (p *Profile) Indexer(cfg bitmap.Config) (indexer.Indexer, error) {
	pat, err := p.DecodePattern()
	if err != nil {
		return nil, err
	}
	return pat.Indexer(cfg.Width, cfg.Height, cfg.Palette)
}

// Indexer builds the indexer for a width x height canvas over pal.
func (pat Pattern) Indexer(width, height int, pal color.Palette) (indexer.Indexer, error) {
	switch pat.Kind {
	case Diagonal, Vertical, Horizontal:
		if pat.Band <= 0 {
			return nil, fmt.Errorf("%w: %s band must be greater than 0, got %d", ErrInvalidProfile, pat.Kind, pat.Band)
		}
		switch pat.Kind {
		case Vertical:
			return indexer.Vertical(pat.Band, len(pal)), nil
		case Horizontal:
			return indexer.Horizontal(pat.Band, len(pal)), nil
		}
		return indexer.Diagonal(pat.Band, len(pal)), nil
	case Constant:
		return indexer.Constant(pat.Index), nil
	case Checker:
		if pat.Size <= 0 {
			return nil, fmt.Errorf("%w: checker size must be greater than 0, got %d", ErrInvalidProfile, pat.Size)
		}
		return indexer.Checker(pat.Size, pat.A, pat.B), nil
	case Expr:
		if pat.Expr == "" {
			return nil, fmt.Errorf("%w: expr pattern needs an expression", ErrInvalidProfile)
		}
		expr, err := indexer.NewExpression(pat.Expr, width, height, len(pal))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
		}
		return expr, nil
	case Image:
		if pat.Image == "" {
			return nil, fmt.Errorf("%w: image pattern needs an image", ErrInvalidProfile)
		}
		q, err := indexer.ParseQuantizer(pat.Quantize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
		}
		fit, err := indexer.ParseFit(pat.Fit)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
		}
		src, _, err := indexer.DecodeFile(resolve(pat.dir, pat.Image))
		if err != nil {
			return nil, err
		}
		// Pad borders take the first palette entry.
		var bg color.Color
		if len(pal) > 0 {
			bg = pal[0]
		}
		if src, err = indexer.FitImage(src, width, height, fit, bg); err != nil {
			return nil, err
		}
		return indexer.FromImage(src, width, height, pal, q)
	}
	return nil, fmt.Errorf("%w: unknown pattern kind %q", ErrInvalidProfile, pat.Kind)
}

func (p *Profile) resolve(name string) string {
	if _, err := palette.Named(name); err == nil {
		return name
	}
	return resolve(p.dir, name)
}

func resolve(dir, name string) string {
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
