package palette

import (
	"errors"
	"fmt"
	"image/color"
	stdpalette "image/color/palette"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Default is the name of the palette used when none is requested.
const Default = "classic16"

var ErrUnknownPalette = errors.New("unknown palette")

var named = map[string]color.Palette{
	"classic16": FromRGB(
		0xFF0000, // red
		0x8B0000, // dark red
		0xFFA500, // orange
		0xFFC0CB, // pink
		0xFFFF00, // yellow
		0x00FF00, // lime
		0x008000, // green
		0x8FBC8F, // dark sea green
		0x00FFFF, // cyan
		0x000080, // navy
		0x800080, // purple
		0xFF00FF, // magenta
		0xD2691E, // chocolate
		0x708090, // slate gray
		0x000000, // black
		0xFFFFFF, // white
	),
	"bw": FromRGB(0x000000, 0xFFFFFF),
	"gray16": func() color.Palette {
		pal := make(color.Palette, 16)
		for i := range pal {
			v := uint8(i * 0x11)
			pal[i] = color.RGBA{R: v, G: v, B: v, A: 0xff}
		}
		return pal
	}(),
	"vga16": FromRGB(
		0x000000, 0x0000AA, 0x00AA00, 0x00AAAA,
		0xAA0000, 0xAA00AA, 0xAA5500, 0xAAAAAA,
		0x555555, 0x5555FF, 0x55FF55, 0x55FFFF,
		0xFF5555, 0xFF55FF, 0xFFFF55, 0xFFFFFF,
	),
	"spectra6": FromRGB(0x000000, 0xFFFFFF, 0xFFFF00, 0xFF0000, 0x0000FF, 0x00FF00),
	"websafe":  stdpalette.WebSafe,
	"plan9":    stdpalette.Plan9,
}

// Names lists the built-in palettes in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Named returns a copy of a built-in palette.
func Named(name string) (color.Palette, error) {
	pal, ok := named[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
	return slices.Clone(pal), nil
}

// LoadPalette resolves a built-in palette name, falling back to reading a RIFF
// palette file. Every palette found in the file is concatenated.
func LoadPalette(nameOrPath string) (color.Palette, error) {
	if pal, err := Named(nameOrPath); err == nil {
		return pal, nil
	}

	f, err := os.Open(nameOrPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q is neither a built-in palette nor a file", ErrUnknownPalette, nameOrPath)
		}
		return nil, fmt.Errorf("could not open palette file %q: %w", nameOrPath, err)
	}
	defer f.Close()

	pals, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("could not read palette file %q: %w", nameOrPath, err)
	}

	var res color.Palette
	for _, pal := range pals {
		res = append(res, pal...)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("palette file %q has no colors", nameOrPath)
	}
	return res, nil
}

// FromRGB builds an opaque palette from 0xRRGGBB values.
func FromRGB(values ...uint32) color.Palette {
	pal := make(color.Palette, len(values))
	for i, v := range values {
		pal[i] = rgb(v)
	}
	return pal
}

// ParseHex reads a color written as #RGB, #RGBA, #RRGGBB, #RRGGBBAA or
// 0xRRGGBB. An alpha component is accepted and discarded: bitmap palettes are
// opaque.
func ParseHex(s string) (color.RGBA, error) {
	digits, ok := strings.CutPrefix(s, "#")
	if !ok {
		digits, ok = strings.CutPrefix(strings.ToLower(s), "0x")
	}
	if !ok {
		return color.RGBA{}, fmt.Errorf("invalid color %q, should be #RGB, #RRGGBB, #RRGGBBAA or 0xRRGGBB", s)
	}

	if n := len(digits); n == 3 || n == 4 {
		long := make([]byte, 0, 2*n)
		for i := range n {
			long = append(long, digits[i], digits[i])
		}
		digits = string(long)
	}
	if n := len(digits); n != 6 && n != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q, should be #RGB, #RRGGBB, #RRGGBBAA or 0xRRGGBB", s)
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("could not read color %q: %w", s, err)
	}
	if len(digits) == 8 {
		v >>= 8
	}
	return rgb(uint32(v)), nil
}

// ParseHexList parses every entry of values with ParseHex.
func ParseHexList(values []string) (color.Palette, error) {
	pal := make(color.Palette, len(values))
	for i, v := range values {
		c, err := ParseHex(v)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		pal[i] = c
	}
	return pal, nil
}

func rgb(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
