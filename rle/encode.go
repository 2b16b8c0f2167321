// Package rle compresses 8 bit palette indices with the BMP RLE8 scheme.
//
// Only encoded runs are produced: every run is a (count, index) byte pair, every
// scanline ends with an end-of-line escape and the last one with end-of-bitmap.
// Rows are emitted bottom-up, as BMP stores them.
package rle

import (
	"errors"
	"fmt"
	"math"

	"bmpgen/indexer"
	"bmpgen/parallel"
)

const (
	// MaxRun is the longest run a single record can hold.
	MaxRun = 255
	// MaxColors is the largest palette an 8 bit index can address.
	MaxColors = 256

	maxReserve = 16 << 20
)

var (
	EndOfLine   = [2]byte{0x00, 0x00}
	EndOfBitmap = [2]byte{0x00, 0x01}
)

var (
	ErrInvalidCanvas = errors.New("invalid canvas")
	ErrIndexRange    = errors.New("palette index out of range")
)

// MaxSize is the upper bound of the pixel data of a width x height canvas.
func MaxSize(width, height int) int {
	return (width + 1) * 2 * height
}

type Encoder struct {
	Width  int
	Height int
	Colors int

	// Workers is the number of goroutines encoding rows. 0 and 1 encode in the
	// calling goroutine, a negative value uses GOMAXPROCS. The output does not
	// depend on it.
	Workers int
}

func (e *Encoder) validate() error {
	switch {
	case e.Width <= 0 || e.Width > math.MaxInt32:
		return fmt.Errorf("%w: width must be in [1, %d], got %d", ErrInvalidCanvas, math.MaxInt32, e.Width)
	case e.Height <= 0 || e.Height > math.MaxInt32:
		return fmt.Errorf("%w: height must be in [1, %d], got %d", ErrInvalidCanvas, math.MaxInt32, e.Height)
	case e.Colors <= 0 || e.Colors > MaxColors:
		return fmt.Errorf("%w: colors must be in [1, %d], got %d", ErrInvalidCanvas, MaxColors, e.Colors)
	}
	return nil
}

// Encode returns the RLE8 pixel data of the canvas painted by idx.
func (e *Encoder) Encode(idx indexer.Indexer) ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	if e.Workers == 0 || e.Workers == 1 {
		return e.encodeSequential(idx)
	}
	return e.encodeRows(parallel.Start(e.Workers), idx)
}

func (e *Encoder) encodeSequential(idx indexer.Indexer) ([]byte, error) {
	reserve := maxReserve
	if size := (int64(e.Width) + 1) * 2 * int64(e.Height); size < maxReserve {
		reserve = int(size)
	}
	buf := make([]byte, 0, reserve)

	var err error
	for y := e.Height - 1; y >= 0; y-- {
		if buf, err = e.appendRow(buf, idx, y); err != nil {
			return nil, err
		}
		buf = appendTerminator(buf, y)
	}
	return buf, nil
}

// encodeRows encodes every row on its own buffer and joins them in file order.
func (e *Encoder) encodeRows(pool *parallel.Pool, idx indexer.Indexer) ([]byte, error) {
	rows := make([][]byte, e.Height)
	errs := make([]error, e.Height)

	// job i encodes the i-th row of the file, y = Height-1-i
	pool.Range(e.Height, func(i int) {
		rows[i], errs[i] = e.appendRow(nil, idx, e.Height-1-i)
	})

	size := 0
	for i, row := range rows {
		if errs[i] != nil {
			return nil, errs[i]
		}
		size += len(row) + 2
	}

	buf := make([]byte, 0, size)
	for i, row := range rows {
		buf = append(buf, row...)
		buf = appendTerminator(buf, e.Height-1-i)
	}
	return buf, nil
}

// appendRow appends the run records of row y to dst. A run is flushed as soon as
// it reaches MaxRun, so a run of 256 equal pixels becomes 255 + 1.
func (e *Encoder) appendRow(dst []byte, idx indexer.Indexer, y int) ([]byte, error) {
	cur, err := e.index(idx, 0, y)
	if err != nil {
		return dst, err
	}

	run := 1
	for x := 1; x < e.Width; x++ {
		next, err := e.index(idx, x, y)
		if err != nil {
			return dst, err
		}

		if next == cur {
			if run == MaxRun {
				dst = append(dst, byte(run), byte(cur))
				run = 1
			} else {
				run++
			}
			continue
		}

		dst = append(dst, byte(run), byte(cur))
		cur, run = next, 1
	}

	return append(dst, byte(run), byte(cur)), nil
}

func (e *Encoder) index(idx indexer.Indexer, x, y int) (int, error) {
	i := idx.Index(x, y)
	if i < 0 || i >= e.Colors {
		return 0, fmt.Errorf("%w: %d at (%d, %d), palette has %d colors", ErrIndexRange, i, x, y, e.Colors)
	}
	return i, nil
}

func appendTerminator(buf []byte, y int) []byte {
	if y == 0 {
		return append(buf, EndOfBitmap[:]...)
	}
	return append(buf, EndOfLine[:]...)
}
