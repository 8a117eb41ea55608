// Package tilesize picks the tile size of a sheet from hints such as its
// filename.
package tilesize

import "strings"

// Default is used when no hint matches.
const Default = 16

// Supported lists the tile sizes a filename or an explicit setting can select.
var Supported = []int{16, 32, 48}

// IsSupported reports whether size is one of Supported.
func IsSupported(size int) bool {
	for _, s := range Supported {
		if s == size {
			return true
		}
	}
	return false
}

// Hinter suggests a tile size for a named sheet.
type Hinter interface {
	Hint(name string) (size int, ok bool)
}

// FilenameHint matches "16x16", "32x32" and "48x48" anywhere in a file path,
// directories included.
// When several patterns occur, 16 wins over 32 and 32 over 48, which is how
// existing sheets have always been read.
type FilenameHint struct{}

var filenamePatterns = []struct {
	pattern string
	size    int
}{
	{"16x16", 16},
	{"32x32", 32},
	{"48x48", 48},
}

func (FilenameHint) Hint(name string) (int, bool) {
	for _, p := range filenamePatterns {
		if strings.Contains(name, p.pattern) {
			return p.size, true
		}
	}
	return 0, false
}

// Fixed always suggests the same size.
type Fixed int

func (f Fixed) Hint(string) (int, bool) {
	return int(f), f > 0
}

// Chain asks each hinter in turn and returns the first suggestion.
type Chain []Hinter

func (c Chain) Hint(name string) (int, bool) {
	for _, h := range c {
		if size, ok := h.Hint(name); ok {
			return size, true
		}
	}
	return 0, false
}

// Resolve returns h's suggestion for name, or fallback when there is none.
func Resolve(h Hinter, name string, fallback int) int {
	if h != nil {
		if size, ok := h.Hint(name); ok {
			return size
		}
	}
	return fallback
}
