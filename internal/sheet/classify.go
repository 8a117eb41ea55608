package sheet

import "image"

// TileEmpty reports whether every pixel of tile c has zero alpha. img must
// already be normalized for tileSize. It stops at the first opaque pixel, so
// only the empty answer costs a full scan.
func TileEmpty(img *image.NRGBA, tileSize int, c Coord) bool {
	x0, y0 := c.X*tileSize, c.Y*tileSize
	for dy := 0; dy < tileSize; dy++ {
		i := img.PixOffset(x0, y0+dy) + 3
		for dx := 0; dx < tileSize; dx++ {
			if img.Pix[i+dx*4] != 0 {
				return false
			}
		}
	}
	return true
}

// TileConnections samples only the four edge lines of tile c and sets a bit
// for each edge holding at least one pixel with non-zero alpha. It does not
// look at the neighbouring tile.
func TileConnections(img *image.NRGBA, tileSize int, c Coord) Connection {
	x0, y0 := c.X*tileSize, c.Y*tileSize
	last := tileSize - 1
	var ret Connection

	for dy := 0; dy < tileSize; dy++ {
		if alphaAt(img, x0, y0+dy) != 0 {
			ret |= Left
		}
		if alphaAt(img, x0+last, y0+dy) != 0 {
			ret |= Right
		}
	}

	for dx := 0; dx < tileSize; dx++ {
		if alphaAt(img, x0+dx, y0) != 0 {
			ret |= Up
		}
		if alphaAt(img, x0+dx, y0+last) != 0 {
			ret |= Down
		}
	}

	return ret
}

func alphaAt(img *image.NRGBA, x, y int) uint8 {
	return img.Pix[img.PixOffset(x, y)+3]
}
