package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

// Format is an output encoding for rendered views.
type Format string

const (
	PNG     Format = "png"
	WebP    Format = "webp"
	Palette Format = "palette" // quantized, paletted PNG
)

// MaxPaletteColors bounds the palette of the Palette format, transparent
// entry included.
const MaxPaletteColors = 256

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case PNG, WebP, Palette:
		return f, nil
	}
	return "", fmt.Errorf("overlay: unknown format %q", s)
}

// Ext returns the file extension for f.
func (f Format) Ext() string {
	if f == WebP {
		return ".webp"
	}
	return ".png"
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case WebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("overlay: webp encode: %w", err)
		}
		return nil
	case Palette:
		return png.Encode(w, Quantize(img, MaxPaletteColors))
	}
	return fmt.Errorf("overlay: unknown format %q", f)
}

// Quantize reduces img to at most n colours. Index 0 is always fully
// transparent so empty space survives quantization.
func Quantize(img image.Image, n int) *image.Paletted {
	b := img.Bounds()
	p := make(color.Palette, 0, n)
	p = append(p, color.Transparent)
	if b.Empty() {
		return image.NewPaletted(b, p)
	}

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(p, img))
	draw.Draw(pm, b, img, b.Min, draw.Src)
	return pm
}
