package sheet

import "image"

// RoundUp returns the smallest multiple of t that is >= x. t must be positive.
func RoundUp(x, t int) int {
	return ((x + t - 1) / t) * t
}

// Normalize pads img so both dimensions are multiples of tileSize. The
// original pixels land in the top-left corner and the added right and bottom
// margins are fully transparent. An already aligned image is returned as is,
// without copying.
//
// Some sheets carry notes along the right or bottom edge that do not fill a
// whole tile; padding keeps them visible and lets every later step assume an
// exact tile grid.
func Normalize(img *image.NRGBA, tileSize int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pw, ph := RoundUp(w, tileSize), RoundUp(h, tileSize)

	if pw == w && ph == h {
		return rebase(img)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, pw, ph))
	rowBytes := w * 4
	for y := 0; y < h; y++ {
		si := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowBytes], img.Pix[si:si+rowBytes])
	}
	return dst
}

// rebase moves the image origin to (0, 0) without touching the pixels.
func rebase(img *image.NRGBA) *image.NRGBA {
	if img.Rect.Min == (image.Point{}) {
		return img
	}
	dup := *img
	dup.Rect = dup.Rect.Sub(dup.Rect.Min)
	return &dup
}
