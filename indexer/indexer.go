// Package indexer maps canvas coordinates to palette indices.
//
// Every indexer in this package is pure and safe for concurrent use, so an encoder
// may query pixels in any order from several goroutines.
package indexer

// Indexer returns the palette index of the pixel at (x, y), with x in [0, width)
// and y in [0, height). Behaviour for coordinates outside the canvas is undefined.
type Indexer interface {
	Index(x, y int) int
}

// Func adapts a plain function to the Indexer interface.
type Func func(x, y int) int

func (f Func) Index(x, y int) int {
	return f(x, y)
}

// Diagonal paints diagonal bands of the given width cycling through colors
// entries: ((x+y)/band) % colors.
func Diagonal(band, colors int) Func {
	return func(x, y int) int {
		return ((x + y) / band) % colors
	}
}

// Vertical paints vertical stripes of the given width.
func Vertical(band, colors int) Func {
	return func(x, _ int) int {
		return (x / band) % colors
	}
}

// Horizontal paints horizontal stripes of the given height.
func Horizontal(band, colors int) Func {
	return func(_, y int) int {
		return (y / band) % colors
	}
}

// Constant paints every pixel with index i.
func Constant(i int) Func {
	return func(int, int) int {
		return i
	}
}

// Checker alternates indices a and b in squares of the given size, starting with
// a at the origin.
func Checker(size, a, b int) Func {
	return func(x, y int) int {
		if (x/size+y/size)%2 == 0 {
			return a
		}
		return b
	}
}
