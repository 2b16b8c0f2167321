// Package swatch lists the built-in palettes and exports them as RIFF PAL files.
package swatch

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"

	"bmpgen/fileop"
	"bmpgen/palette"
)

type CLICmd struct {
	List   ListCmd   `cmd:"" help:"List the built-in palettes"`
	Export ExportCmd `cmd:"" help:"Write a palette to a RIFF PAL file"`
}

type ListCmd struct {
	Colors bool `help:"Print every color of each palette" default:"false"`

	out io.Writer `kong:"-"`
}

func (c *ListCmd) Run() error {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	for _, name := range palette.Names() {
		pal, err := palette.Named(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%-10s %3d colors\n", name, len(pal)); err != nil {
			return err
		}
		if !c.Colors {
			continue
		}
		for i, col := range pal {
			rgba := color.NRGBAModel.Convert(col).(color.NRGBA)
			if _, err := fmt.Fprintf(out, "  %3d #%02x%02x%02x\n", i, rgba.R, rgba.G, rgba.B); err != nil {
				return err
			}
		}
	}
	return nil
}

type ExportCmd struct {
	Name  string `arg:"" help:"Palette name or PAL file"`
	Dest  string `arg:"" help:"Destination PAL file" type:"path"`
	Force bool   `help:"Overwrite the destination if it exists" default:"false"`
}

func (c *ExportCmd) Run() error {
	pal, err := palette.LoadPalette(c.Name)
	if err != nil {
		return err
	}

	n, err := fileop.WriteFile(c.Dest, c.Force, func(w io.Writer) (int64, error) {
		return palette.WriteTo(w, []color.Palette{pal})
	})
	if err != nil {
		return err
	}

	slog.Info("exported", "palette", c.Name, "colors", len(pal), "file", c.Dest, "bytes", n)
	return nil
}
