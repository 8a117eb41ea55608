// Package report summarizes a sheet analysis for people and for tools.
package report

import (
	"fmt"
	"io"
	"path/filepath"

	"tilesheet-inspector/internal/sheet"
)

// Size is a width/height pair in pixels or tiles.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Tile is one non-empty tile of the sheet.
type Tile struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Connections uint8  `json:"connections"`
	Edges       string `json:"edges"`
}

// Report describes one analyzed sheet.
type Report struct {
	Path     string `json:"path"`
	TileSize int    `json:"tile_size"`
	Original Size   `json:"original"`
	Padded   Size   `json:"padded"`
	Grid     Size   `json:"grid"`
	Empty    int    `json:"empty"`
	Tiles    []Tile `json:"tiles"`
	Overlay  string `json:"overlay,omitempty"`
}

// New builds the report of a for the sheet at path. Only non-empty tiles are
// listed, in row-major order.
func New(path string, a *sheet.Analysis) Report {
	o, p := a.Original(), a.Size()
	r := Report{
		Path:     filepath.ToSlash(path),
		TileSize: a.TileSize(),
		Original: Size{o.X, o.Y},
		Padded:   Size{p.X, p.Y},
		Grid:     Size{a.Columns(), a.Rows()},
		Empty:    a.EmptyCount(),
		Tiles:    []Tile{},
	}
	for _, c := range a.Tiles() {
		if a.IsEmpty(c) {
			continue
		}
		conns := a.Connections(c)
		r.Tiles = append(r.Tiles, Tile{
			X:           c.X,
			Y:           c.Y,
			Connections: uint8(conns),
			Edges:       conns.String(),
		})
	}
	return r
}

// Text writes a plain summary of r.
func Text(w io.Writer, r Report) error {
	_, err := fmt.Fprintf(w, "sheet = %s\nimage = %d x %d (padded %d x %d)\ntile size = %d\ntiles = %d x %d (%d empty)\n",
		r.Path, r.Original.W, r.Original.H, r.Padded.W, r.Padded.H, r.TileSize,
		r.Grid.W, r.Grid.H, r.Empty)
	if err != nil {
		return err
	}
	for _, t := range r.Tiles {
		if _, err := fmt.Fprintf(w, "  %s %s\n", sheet.Coord{X: t.X, Y: t.Y}, t.Edges); err != nil {
			return err
		}
	}
	return nil
}
