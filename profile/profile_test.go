package profile

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"bmpgen/bitmap"
	"bmpgen/palette"
)

func TestEmptyProfileUsesReferenceSettings(t *testing.T) {
	p, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := p.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 400 || cfg.Height != 400 || len(cfg.Palette) != 16 {
		t.Errorf("Config() = %dx%d with %d colors, want 400x400 with 16", cfg.Width, cfg.Height, len(cfg.Palette))
	}

	idx, err := p.Indexer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := idx.Index(399, 399); got != (798/8)%16 {
		t.Errorf("default pattern Index(399, 399) = %d", got)
	}
}

func TestParseFullProfile(t *testing.T) {
	doc := `
width: 64
height: 32
colors: ["#000000", "#ffffff", "#ff0000"]
workers: 2
pattern:
  kind: checker
  size: 4
  a: 1
  b: 2
`
	p, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := p.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 64 || cfg.Height != 32 || cfg.Workers != 2 {
		t.Errorf("Config() = %+v", cfg)
	}
	if len(cfg.Palette) != 3 || cfg.Palette[2] != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("palette = %v", cfg.Palette)
	}

	idx, err := p.Indexer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Index(0, 0) != 1 || idx.Index(4, 0) != 2 {
		t.Errorf("checker pattern = %d, %d, want 1, 2", idx.Index(0, 0), idx.Index(4, 0))
	}
}

func TestPatternKinds(t *testing.T) {
	tests := []struct {
		pattern map[string]any
		x, y    int
		want    int
	}{
		{map[string]any{"kind": "diagonal", "band": 2}, 3, 3, 3},
		{map[string]any{"kind": "vertical", "band": "4"}, 9, 0, 2},
		{map[string]any{"kind": "horizontal"}, 0, 17, 2},
		{map[string]any{"kind": "constant", "index": 5}, 7, 7, 5},
		{map[string]any{"kind": "expr", "expr": "x % 3"}, 5, 0, 2},
	}

	for _, tt := range tests {
		p := &Profile{Pattern: tt.pattern}
		cfg, err := p.Config()
		if err != nil {
			t.Fatal(err)
		}
		idx, err := p.Indexer(cfg)
		if err != nil {
			t.Errorf("%v: %v", tt.pattern, err)
			continue
		}
		if got := idx.Index(tt.x, tt.y); got != tt.want {
			t.Errorf("%v: Index(%d, %d) = %d, want %d", tt.pattern, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestInvalidProfiles(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "depth: 24\n",
		"unknown kind":    "pattern: {kind: spiral}\n",
		"unknown param":   "pattern: {kind: diagonal, bands: 3}\n",
		"zero band":       "pattern: {kind: vertical, band: 0}\n",
		"zero size":       "pattern: {kind: checker, size: 0}\n",
		"empty expr":      "pattern: {kind: expr}\n",
		"bad expr":        "pattern: {kind: expr, expr: 'x +'}\n",
		"bad color":       "colors: [red]\n",
		"image no path":   "pattern: {kind: image}\n",
		"bad quantizer":   "pattern: {kind: image, image: a.png, quantize: octree}\n",
		"bad fit":         "pattern: {kind: image, image: a.png, fit: zoom}\n",
		"bad yaml syntax": "width: [\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := Parse([]byte(doc))
			if err == nil {
				var cfg bitmap.Config
				if cfg, err = p.Config(); err == nil {
					_, err = p.Indexer(cfg)
				}
			}
			if !errors.Is(err, ErrInvalidProfile) {
				t.Errorf("error = %v, want ErrInvalidProfile", err)
			}
		})
	}
}

func TestConfigRejectsBadCanvas(t *testing.T) {
	p, err := Parse([]byte("width: -3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Config(); !errors.Is(err, bitmap.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()

	pal, _ := palette.Named("spectra6")
	palFile, err := os.Create(filepath.Join(dir, "six.pal"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := palette.WriteTo(palFile, []color.Palette{pal}); err != nil {
		t.Fatal(err)
	}
	if err := palFile.Close(); err != nil {
		t.Fatal(err)
	}

	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, pal[3])
	src.Set(1, 0, pal[4])
	imgFile, err := os.Create(filepath.Join(dir, "src.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(imgFile, src); err != nil {
		t.Fatal(err)
	}
	if err := imgFile.Close(); err != nil {
		t.Fatal(err)
	}

	doc := "width: 2\nheight: 1\npalette: six.pal\npattern:\n  kind: image\n  image: src.png\n"
	name := filepath.Join(dir, "profile.yml")
	if err := os.WriteFile(name, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(name)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := p.Config()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Palette) != 6 {
		t.Fatalf("palette has %d colors, want 6", len(cfg.Palette))
	}
	idx, err := p.Indexer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Index(0, 0) != 3 || idx.Index(1, 0) != 4 {
		t.Errorf("image pattern = %d, %d, want 3, 4", idx.Index(0, 0), idx.Index(1, 0))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}
