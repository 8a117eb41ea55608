// Package texture reads tile sheet files into NRGBA pixel buffers.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"tilesheet-inspector/internal/sheet"
)

type decodeFunc func(io.Reader) (image.Image, error)

// TGA has no magic number, so formats are picked by extension instead of
// image.Decode sniffing.
var decoders = map[string]decodeFunc{
	".png":  png.Decode,
	".gif":  gif.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".bmp":  bmp.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// Supported reports whether path has an extension LoadSheet can decode.
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadSheet reads and decodes the sheet at path. Every failure wraps
// sheet.ErrDecodeFailure.
func LoadSheet(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w: %w", path, sheet.ErrDecodeFailure, err)
	}

	img, err := Decode(bytes.NewReader(raw), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes r using the format named by ext, e.g. ".png".
func Decode(r io.Reader, ext string) (*image.NRGBA, error) {
	dec, ok := decoders[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("texture: unknown extension %q: %w", ext, sheet.ErrDecodeFailure)
	}

	img, err := dec(r)
	if err != nil {
		return nil, fmt.Errorf("texture: decode: %w: %w", sheet.ErrDecodeFailure, err)
	}

	return ToNRGBA(img), nil
}

// ToNRGBA converts any image to NRGBA format with straight alpha.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}
