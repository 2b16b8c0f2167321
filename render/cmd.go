package render

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"bmpgen/bitmap"
	"bmpgen/fileop"
	"bmpgen/indexer"
	"bmpgen/palette"
	"bmpgen/profile"
)

// CLICmd generates one bitmap. Flags that are not given fall back to the
// profile, then to the reference settings: a 400x400 classic16 canvas painted with
// 8 pixel diagonal bands.
type CLICmd struct {
	Profile  string   `help:"YAML profile with canvas, palette and pattern settings" type:"path"`
	Width    *int     `help:"Canvas width in pixels (default 400)" group:"canvas"`
	Height   *int     `help:"Canvas height in pixels (default 400)" group:"canvas"`
	Palette  string   `help:"Palette name (classic16, bw, gray16, vga16, spectra6, websafe, plan9) or PAL file in RIFF format" group:"canvas"`
	Color    []string `help:"Palette colors as #RRGGBB, replacing --palette" group:"canvas"`
	Pattern  string   `help:"Pattern painting the canvas (default diagonal)" enum:",diagonal,vertical,horizontal,constant,checker,expr,image" default:"" group:"pattern"`
	Band     *int     `help:"Band width of diagonal, vertical and horizontal patterns (default 8)" group:"pattern"`
	Index    *int     `help:"Palette index of the constant pattern" group:"pattern"`
	Size     *int     `help:"Square size of the checker pattern (default 8)" group:"pattern"`
	Expr     string   `help:"Expression over x, y, w, h and n giving the palette index, e.g. '((x+y)/8) % n'" group:"pattern"`
	Image    string   `help:"Source picture of the image pattern" type:"path" group:"pattern"`
	Quantize string   `help:"Color mapping of the image pattern (default nearest)" enum:",nearest,dither,perceptual" default:"" group:"pattern"`
	Fit      string   `help:"Aspect ratio handling of the image pattern (default stretch)" enum:",stretch,crop,pad" default:"" group:"pattern"`
	Workers  *int     `help:"Rows encoded in parallel, negative for one worker per CPU" group:"output"`
	Output   string   `help:"Destination file" short:"o" default:"img.bmp" type:"path" group:"output"`
	Force    bool     `help:"Overwrite the destination if it exists" default:"false" group:"output"`

	prof *profile.Profile `kong:"-"`
}

func (c *CLICmd) Validate() error {
	prof := &profile.Profile{}
	if c.Profile != "" {
		var err error
		if prof, err = profile.Load(c.Profile); err != nil {
			return err
		}
	}

	if c.Palette != "" {
		if _, err := palette.LoadPalette(c.Palette); err != nil {
			return err
		}
	}
	if _, err := palette.ParseHexList(c.Color); err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(c.Output), ".bmp") {
		slog.Warn("destination does not have a .bmp extension", "file", c.Output)
	}

	c.prof = c.apply(prof)
	return nil
}

// apply overrides the profile with every flag that was given.
func (c *CLICmd) apply(p *profile.Profile) *profile.Profile {
	if c.Width != nil {
		p.Width = *c.Width
	}
	if c.Height != nil {
		p.Height = *c.Height
	}
	if c.Workers != nil {
		p.Workers = *c.Workers
	}
	if c.Palette != "" {
		p.Palette, p.Colors = absName(c.Palette), nil
	}
	if len(c.Color) > 0 {
		p.Colors = c.Color
	}

	if p.Pattern == nil {
		p.Pattern = map[string]any{}
	}
	set := func(key string, value any, ok bool) {
		if ok {
			p.Pattern[key] = value
		}
	}
	setInt := func(key string, value *int) {
		if value != nil {
			p.Pattern[key] = *value
		}
	}
	set("kind", c.Pattern, c.Pattern != "")
	setInt("band", c.Band)
	setInt("index", c.Index)
	setInt("size", c.Size)
	set("expr", c.Expr, c.Expr != "")
	set("image", absPath(c.Image), c.Image != "")
	set("quantize", c.Quantize, c.Quantize != "")
	set("fit", c.Fit, c.Fit != "")

	return p
}

func (c *CLICmd) Run() error {
	prof := c.prof
	if prof == nil {
		if err := c.Validate(); err != nil {
			return err
		}
		prof = c.prof
	}

	cfg, err := prof.Config()
	if err != nil {
		return err
	}
	idx, err := prof.Indexer(cfg)
	if err != nil {
		return err
	}

	logger := slog.Default().With("file", c.Output)
	logger.Info("generating", "width", cfg.Width, "height", cfg.Height, "colors", len(cfg.Palette),
		"pattern", describe(idx), "workers", cfg.Workers)

	bmp, err := bitmap.Generate(cfg, idx)
	if err != nil {
		return err
	}

	n, err := fileop.WriteFile(c.Output, c.Force, func(w io.Writer) (int64, error) {
		return bmp.WriteTo(w)
	})
	if err != nil {
		return err
	}

	logger.Info("stats", "metadata", len(bmp.Metadata), "pixels", len(bmp.PixelData), "bytes", n,
		"ratio", fmt.Sprintf("%.3f", float64(len(bmp.PixelData))/(float64(cfg.Width)*float64(cfg.Height))))
	return nil
}

func describe(idx indexer.Indexer) string {
	switch v := idx.(type) {
	case fmt.Stringer:
		return v.String()
	case *indexer.Image:
		b := v.Paletted().Bounds()
		return fmt.Sprintf("image %dx%d", b.Dx(), b.Dy())
	}
	return fmt.Sprintf("%T", idx)
}

// absName makes a palette file path absolute so a profile directory does not
// change its meaning; built-in names are kept.
func absName(name string) string {
	if _, err := palette.Named(name); err == nil {
		return name
	}
	return absPath(name)
}

func absPath(name string) string {
	if abs, err := filepath.Abs(name); err == nil {
		return abs
	}
	return name
}
