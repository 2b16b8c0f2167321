package main

import (
	"log/slog"
	"os"

	"bmpgen/render"
	"bmpgen/swatch"

	"github.com/alecthomas/kong"
)

var cli struct {
	Generate render.CLICmd `cmd:"" default:"withargs" help:"Generate an RLE8 compressed BMP image"`
	Palette  swatch.CLICmd `cmd:"" help:"List and export palettes"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("bmpgen"),
		kong.Description("Paint 8 bit palette images and store them as RLE8 compressed bitmaps."),
		kong.UsageOnError(),
	)

	if err := kctx.Run(); err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
