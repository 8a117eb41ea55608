package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"tilesheet-inspector/internal/sheet"
)

func testSheet() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 20), B: 90, A: 255})
		}
	}
	return img
}

func writeFile(t *testing.T, path string, encode func(*os.File) error) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, encode(f))
}

func TestLoadSheet(t *testing.T) {
	dir := t.TempDir()
	want := testSheet()

	t.Run("png keeps alpha", func(t *testing.T) {
		path := filepath.Join(dir, "sheet.png")
		writeFile(t, path, func(f *os.File) error { return png.Encode(f, want) })

		got, err := LoadSheet(path)
		require.NoError(t, err)
		assert.Equal(t, want.Bounds(), got.Bounds())
		assert.Equal(t, want.Pix, got.Pix)
	})

	t.Run("webp keeps alpha", func(t *testing.T) {
		path := filepath.Join(dir, "sheet.webp")
		writeFile(t, path, func(f *os.File) error { return nativewebp.Encode(f, want, nil) })

		got, err := LoadSheet(path)
		require.NoError(t, err)
		assert.Equal(t, want.Bounds(), got.Bounds())
		assert.Equal(t, uint8(255), got.NRGBAAt(0, 0).A)
		assert.Zero(t, got.NRGBAAt(15, 5).A)
	})

	t.Run("bmp without alpha is opaque", func(t *testing.T) {
		path := filepath.Join(dir, "sheet.BMP")
		writeFile(t, path, func(f *os.File) error {
			rgb := image.NewRGBA(image.Rect(0, 0, 4, 4))
			for i := 3; i < len(rgb.Pix); i += 4 {
				rgb.Pix[i] = 255
			}
			return bmp.Encode(f, rgb)
		})

		got, err := LoadSheet(path)
		require.NoError(t, err)
		for i := 3; i < len(got.Pix); i += 4 {
			require.Equal(t, uint8(255), got.Pix[i])
		}
	})

	t.Run("failures are decode failures", func(t *testing.T) {
		garbage := filepath.Join(dir, "broken.png")
		require.NoError(t, os.WriteFile(garbage, []byte("not a png"), 0644))
		unknown := filepath.Join(dir, "sheet.xcf")
		require.NoError(t, os.WriteFile(unknown, []byte{0}, 0644))

		for _, path := range []string{garbage, unknown, filepath.Join(dir, "missing.png")} {
			img, err := LoadSheet(path)
			assert.Nil(t, img)
			assert.ErrorIs(t, err, sheet.ErrDecodeFailure, path)
		}
	})
}

func TestToNRGBA(t *testing.T) {
	t.Run("nrgba passes through", func(t *testing.T) {
		img := testSheet()
		assert.Same(t, img, ToNRGBA(img))
	})

	t.Run("premultiplied alpha is straightened", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 2, 1))
		src.SetRGBA(0, 0, color.RGBA{R: 64, A: 128})
		got := ToNRGBA(src)
		assert.Equal(t, uint8(128), got.NRGBAAt(0, 0).A)
		assert.InDelta(t, 127, int(got.NRGBAAt(0, 0).R), 1)
		assert.Zero(t, got.NRGBAAt(1, 0).A)
	})

	t.Run("gray is opaque", func(t *testing.T) {
		src := image.NewGray(image.Rect(0, 0, 3, 3))
		got := ToNRGBA(src)
		for i := 3; i < len(got.Pix); i += 4 {
			require.Equal(t, uint8(255), got.Pix[i])
		}
	})
}

func TestBuildIndex(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"b_16x16.png",
		"a.tga",
		"notes.txt",
		".hidden.png",
		"sub/c.webp",
		".git/d.png",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
	}

	idx, err := BuildIndex(dir)
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "a.tga"),
		filepath.Join(dir, "b_16x16.png"),
		filepath.Join(dir, "sub", "c.webp"),
	}
	if diff := cmp.Diff(want, idx.Paths()); diff != "" {
		t.Errorf("Paths() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, idx.Len())

	_, err = BuildIndex(filepath.Join(dir, "nope"))
	assert.Error(t, err)
}
