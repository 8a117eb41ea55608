// Package sheet analyzes tile sheets: it pads a decoded image to a whole tile
// grid and derives, for every tile, whether it is empty and which of its
// edges carry opaque pixels. Classification looks at the alpha channel only.
package sheet

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"sync/atomic"
)

var (
	// ErrDecodeFailure marks a sheet whose pixels could not be produced.
	ErrDecodeFailure = errors.New("sheet: decode failure")
	// ErrInvalidTileSize marks a tile size that is unset, not positive or
	// larger than MaxTileSize.
	ErrInvalidTileSize = errors.New("sheet: invalid tile size")
)

// MaxTileSize bounds the tile size Analyze accepts.
const MaxTileSize = 4096

// Analysis is the result of analyzing one sheet. It is built completely by
// Analyze and never modified afterwards.
type Analysis struct {
	img      *image.NRGBA
	tileSize int
	original image.Point
	cols     int
	rows     int

	empty map[Coord]struct{}
	conns map[Coord]Connection
}

// Analyze normalizes img for tileSize and classifies every tile exactly once.
// The tile size is checked before the pixel buffer is touched.
func Analyze(img *image.NRGBA, tileSize int) (*Analysis, error) {
	if tileSize <= 0 || tileSize > MaxTileSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTileSize, tileSize)
	}
	if img == nil {
		return nil, fmt.Errorf("%w: no image", ErrDecodeFailure)
	}

	b := img.Bounds()
	norm := Normalize(img, tileSize)
	nb := norm.Bounds()

	a := &Analysis{
		img:      norm,
		tileSize: tileSize,
		original: image.Pt(b.Dx(), b.Dy()),
		cols:     nb.Dx() / tileSize,
		rows:     nb.Dy() / tileSize,
		empty:    make(map[Coord]struct{}),
		conns:    make(map[Coord]Connection, nb.Dx()/tileSize*(nb.Dy()/tileSize)),
	}

	for tx := 0; tx < a.cols; tx++ {
		for ty := 0; ty < a.rows; ty++ {
			c := Coord{tx, ty}
			if TileEmpty(norm, tileSize, c) {
				a.empty[c] = struct{}{}
			}
			a.conns[c] = TileConnections(norm, tileSize, c)
		}
	}

	return a, nil
}

// Image returns the normalized sheet.
func (a *Analysis) Image() *image.NRGBA { return a.img }

// TileSize returns the side length of one tile in pixels.
func (a *Analysis) TileSize() int { return a.tileSize }

// Original returns the sheet size before padding.
func (a *Analysis) Original() image.Point { return a.original }

// Size returns the padded sheet size.
func (a *Analysis) Size() image.Point { return a.img.Bounds().Size() }

// Columns returns the number of tile columns.
func (a *Analysis) Columns() int { return a.cols }

// Rows returns the number of tile rows.
func (a *Analysis) Rows() int { return a.rows }

// InGrid reports whether c lies inside the tile grid.
func (a *Analysis) InGrid(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < a.cols && c.Y < a.rows
}

// IsEmpty reports whether tile c is fully transparent.
func (a *Analysis) IsEmpty(c Coord) bool {
	_, ok := a.empty[c]
	return ok
}

// Connections returns the edge mask of tile c. Coordinates outside the grid
// report None.
func (a *Analysis) Connections(c Coord) Connection {
	if !a.InGrid(c) {
		return None
	}
	return a.conns[c]
}

// TileBounds returns the pixel rectangle of tile c in the normalized image.
func (a *Analysis) TileBounds(c Coord) image.Rectangle {
	t := a.tileSize
	return image.Rect(c.X*t, c.Y*t, c.X*t+t, c.Y*t+t)
}

// Tiles returns every coordinate of the grid in row-major order.
func (a *Analysis) Tiles() []Coord {
	out := make([]Coord, 0, a.cols*a.rows)
	for ty := 0; ty < a.rows; ty++ {
		for tx := 0; tx < a.cols; tx++ {
			out = append(out, Coord{tx, ty})
		}
	}
	return out
}

// EmptyTiles returns the empty tiles in row-major order.
func (a *Analysis) EmptyTiles() []Coord {
	out := make([]Coord, 0, len(a.empty))
	for c := range a.empty {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// EmptyCount returns the number of empty tiles.
func (a *Analysis) EmptyCount() int { return len(a.empty) }

// Viewer holds the analysis currently published to a renderer. A load either
// publishes a complete new analysis or clears the previous one; readers never
// observe a partially built result.
type Viewer struct {
	current atomic.Pointer[Analysis]
}

// Load analyzes a freshly decoded sheet and publishes it. decodeErr is the
// decoder's outcome for img; when it is set, or the tile size is invalid,
// nothing is analyzed and the published analysis is cleared.
func (v *Viewer) Load(img *image.NRGBA, decodeErr error, tileSize int) (*Analysis, error) {
	if decodeErr != nil {
		v.current.Store(nil)
		if errors.Is(decodeErr, ErrDecodeFailure) {
			return nil, decodeErr
		}
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, decodeErr)
	}

	a, err := Analyze(img, tileSize)
	if err != nil {
		v.current.Store(nil)
		return nil, err
	}

	v.current.Store(a)
	return a, nil
}

// Current returns the published analysis, or nil when no sheet is loaded.
func (v *Viewer) Current() *Analysis {
	return v.current.Load()
}

// Clear drops the published analysis.
func (v *Viewer) Clear() {
	v.current.Store(nil)
}
