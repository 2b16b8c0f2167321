// Package fileop writes output files through a temporary file renamed into place.
package fileop

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

var ErrExists = errors.New("destination file already exists")

// CheckDest fails if dest exists, or cannot be checked.
func CheckDest(dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
		return nil
	}
	if info.IsDir() {
		return fmt.Errorf("destination %q is a directory", dest)
	}
	return fmt.Errorf("%w: %q", ErrExists, dest)
}

// WriteFile creates dest with the bytes produced by write. The data goes to a
// temporary file in the destination directory first, which is renamed over dest
// only once write and the flush succeeded. Without overwrite an existing dest is
// an error.
func WriteFile(dest string, overwrite bool, write func(io.Writer) (int64, error)) (n int64, err error) {
	if overwrite {
		if info, err := os.Stat(dest); err == nil && info.IsDir() {
			return 0, fmt.Errorf("destination %q is a directory", dest)
		}
	} else if err := CheckDest(dest); err != nil {
		return 0, err
	}

	dir, name := filepath.Split(dest)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("unable to create destination folder %q: %w", dir, err)
	}

	outFile, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return 0, fmt.Errorf("could not create temporary destination for %q: %w", dest, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", outFile.Name(), defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", outFile.Name(), defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), dest); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", dest, defErr)
			}
		}
		if err != nil {
			if rmErr := os.Remove(outFile.Name()); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				slog.Error("could not remove temporary file", "name", outFile.Name(), "error", rmErr)
			}
		}
	}()

	if n, err = write(outFile); err != nil {
		return n, fmt.Errorf("could not write %q: %w", dest, err)
	}

	canRename = true
	return n, nil
}
