package sheet

import (
	"fmt"
	"strings"
)

// Coord identifies one tile cell by tile-column and tile-row.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Connection is a bit mask of the tile edges that carry opaque pixels.
type Connection uint8

const (
	Up Connection = 1 << iota
	Down
	Left
	Right

	None Connection = 0
	All             = Up | Down | Left | Right
)

// Directions lists the edge bits in drawing order.
var Directions = [4]Connection{Up, Down, Left, Right}

// Has reports whether every bit of d is set in c.
func (c Connection) Has(d Connection) bool {
	return c&d == d
}

// String renders the mask as edge letters, e.g. "UL", or "-" when no edge is set.
func (c Connection) String() string {
	if c&All == 0 {
		return "-"
	}
	var sb strings.Builder
	for i, d := range Directions {
		if c.Has(d) {
			sb.WriteByte("UDLR"[i])
		}
	}
	return sb.String()
}
