// Package overlay draws the inspection view of an analyzed sheet: every
// non-empty tile on a magenta backing square, spaced apart, with its
// coordinate label and a line from its centre towards each connected edge.
package overlay

import (
	"image"
	"image/color"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"tilesheet-inspector/internal/sheet"
)

var (
	Backing = color.NRGBA{R: 255, G: 0, B: 255, A: 255}

	// Indicator colours per edge.
	UpColor    = color.NRGBA{R: 255, A: 255}
	DownColor  = color.NRGBA{G: 255, A: 255}
	LeftColor  = color.NRGBA{B: 255, A: 255}
	RightColor = color.NRGBA{R: 255, G: 255, A: 255}
)

// Options controls Render.
type Options struct {
	// Zoom is the integer magnification of the tile layer. Values below 1
	// mean 1.
	Zoom int
	// Labels draws "column/row" on every drawn tile when the zoomed tile is
	// big enough to hold two lines of text.
	Labels bool
	// Connections draws the edge indicators.
	Connections bool
}

// Layout maps tile coordinates to positions in the rendered view.
type Layout struct {
	TileSize int
	Spacing  int
	Zoom     int
}

// NewLayout returns the layout for tile size t at the given zoom. Tiles are
// separated by an eighth of their size.
func NewLayout(t, zoom int) Layout {
	if zoom < 1 {
		zoom = 1
	}
	return Layout{TileSize: t, Spacing: t / 8, Zoom: zoom}
}

// Cell returns the unzoomed destination square of tile c.
func (l Layout) Cell(c sheet.Coord) image.Rectangle {
	step := l.TileSize + l.Spacing
	p := image.Pt(c.X*step, c.Y*step)
	return image.Rectangle{Min: p, Max: p.Add(image.Pt(l.TileSize, l.TileSize))}
}

// Size returns the unzoomed canvas size for a cols x rows grid.
func (l Layout) Size(cols, rows int) image.Point {
	step := l.TileSize + l.Spacing
	return image.Pt(cols*step, rows*step)
}

// Render draws the inspection view of a.
func Render(a *sheet.Analysis, opts Options) *image.NRGBA {
	l := NewLayout(a.TileSize(), opts.Zoom)
	size := l.Size(a.Columns(), a.Rows())

	base := image.NewNRGBA(image.Rectangle{Max: size})
	for _, c := range a.Tiles() {
		if a.IsEmpty(c) {
			continue
		}
		cell := l.Cell(c)
		draw.Draw(base, cell, image.NewUniform(Backing), image.Point{}, draw.Src)
		draw.Draw(base, cell, a.Image(), a.TileBounds(c).Min, draw.Over)
	}

	out := base
	if l.Zoom > 1 && !base.Rect.Empty() {
		out = image.NewNRGBA(image.Rectangle{Max: size.Mul(l.Zoom)})
		draw.NearestNeighbor.Scale(out, out.Bounds(), base, base.Bounds(), draw.Src, nil)
	}

	for _, c := range a.Tiles() {
		if a.IsEmpty(c) {
			continue
		}
		cell := scale(l.Cell(c), l.Zoom)
		if opts.Labels {
			drawLabel(out, cell, c)
		}
		if opts.Connections {
			drawConnections(out, cell, a.Connections(c), l.Zoom)
		}
	}

	return out
}

func scale(r image.Rectangle, k int) image.Rectangle {
	return image.Rectangle{Min: r.Min.Mul(k), Max: r.Max.Mul(k)}
}

// drawConnections draws a line from the centre of cell to the middle of each
// connected edge.
func drawConnections(dst draw.Image, cell image.Rectangle, conns sheet.Connection, zoom int) {
	half := cell.Dx() / 2
	mid := cell.Min.Add(image.Pt(half, half))
	w := zoom/2 + 1
	lo, hi := -w/2, w-w/2

	if conns.Has(sheet.Up) {
		fillRect(dst, image.Rect(mid.X+lo, mid.Y-half, mid.X+hi, mid.Y), UpColor)
	}
	if conns.Has(sheet.Down) {
		fillRect(dst, image.Rect(mid.X+lo, mid.Y, mid.X+hi, mid.Y+half), DownColor)
	}
	if conns.Has(sheet.Left) {
		fillRect(dst, image.Rect(mid.X-half, mid.Y+lo, mid.X, mid.Y+hi), LeftColor)
	}
	if conns.Has(sheet.Right) {
		fillRect(dst, image.Rect(mid.X, mid.Y+lo, mid.X+half, mid.Y+hi), RightColor)
	}
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

var labelFace = basicfont.Face7x13

// drawLabel writes the tile column and row on two lines in the top-left of
// cell, white with a black outline. Cells too small for the text get none.
func drawLabel(dst draw.Image, cell image.Rectangle, c sheet.Coord) {
	lines := []string{strconv.Itoa(c.X), strconv.Itoa(c.Y)}
	lineHeight := labelFace.Metrics().Height.Ceil()

	width := 0
	for _, s := range lines {
		if adv := font.MeasureString(labelFace, s).Ceil(); adv > width {
			width = adv
		}
	}
	if width+2 > cell.Dx() || lineHeight*len(lines)+2 > cell.Dy() {
		return
	}

	d := &font.Drawer{Dst: dst, Face: labelFace}
	for i, s := range lines {
		x := cell.Min.X + 1
		y := cell.Min.Y + 1 + lineHeight*i + labelFace.Metrics().Ascent.Ceil()

		d.Src = image.Black
		for _, off := range [4]image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			d.Dot = fixed.P(x+off.X, y+off.Y)
			d.DrawString(s)
		}
		d.Src = image.White
		d.Dot = fixed.P(x, y)
		d.DrawString(s)
	}
}
