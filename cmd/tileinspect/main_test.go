package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"tilesheet-inspector/internal/batch"
	"tilesheet-inspector/internal/report"
)

type env struct {
	dir     string
	config  string
	session string
}

func newEnv(t *testing.T) env {
	t.Helper()

	exiter, errWriter := cli.OsExiter, cli.ErrWriter
	cli.OsExiter = func(int) {}
	cli.ErrWriter = io.Discard
	t.Cleanup(func() {
		cli.OsExiter, cli.ErrWriter = exiter, errWriter
	})

	dir := t.TempDir()
	e := env{
		dir:     dir,
		config:  filepath.Join(dir, "config.json"),
		session: filepath.Join(dir, "session", "last.txt"),
	}
	cfg := fmt.Sprintf(`{"session_file": %q, "output_dir": %q, "workers": 2}`, e.session, filepath.Join(dir, "out"))
	require.NoError(t, os.WriteFile(e.config, []byte(cfg), 0644))
	return e
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runWith(t, &inspector{}, args...)
}

func (e env) runWith(t *testing.T, in *inspector, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(in)
	app.Writer = &out
	err := app.Run(append([]string{"tileinspect", "--config", e.config}, args...))
	return out.String(), err
}

// writeHalves writes a 32x16 sheet whose left tile is opaque.
func (e env) writeHalves(t *testing.T, name string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 50, G: 100, B: 150, A: 255})
		}
	}
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestAnalyze(t *testing.T) {
	e := newEnv(t)
	path := e.writeHalves(t, "halves.png")

	t.Run("prints a summary and remembers the sheet", func(t *testing.T) {
		out, err := e.run(t, "analyze", path)
		require.NoError(t, err)
		assert.Contains(t, out, "image = 32 x 16 (padded 32 x 16)")
		assert.Contains(t, out, "tiles = 2 x 1 (1 empty)")
		assert.Contains(t, out, "  0,0 UDLR\n")

		last, err := os.ReadFile(e.session)
		require.NoError(t, err)
		assert.Equal(t, path, string(last))
	})

	t.Run("without a file the last sheet is reopened", func(t *testing.T) {
		out, err := e.run(t, "analyze", "--json")
		require.NoError(t, err)

		var rep report.Report
		require.NoError(t, json.Unmarshal([]byte(out), &rep))
		assert.Equal(t, 16, rep.TileSize)
		assert.Equal(t, 1, rep.Empty)
		require.Len(t, rep.Tiles, 1)
		assert.Equal(t, "UDLR", rep.Tiles[0].Edges)
	})

	t.Run("explicit tile size wins over the filename", func(t *testing.T) {
		hinted := e.writeHalves(t, "halves_32x32.png")

		out, err := e.run(t, "analyze", "--json", hinted)
		require.NoError(t, err)
		var rep report.Report
		require.NoError(t, json.Unmarshal([]byte(out), &rep))
		assert.Equal(t, 32, rep.TileSize)
		assert.Equal(t, report.Size{W: 1, H: 1}, rep.Grid)

		out, err = e.run(t, "analyze", "--json", "--tile-size", "16", hinted)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal([]byte(out), &rep))
		assert.Equal(t, 16, rep.TileSize)
		assert.Equal(t, report.Size{W: 2, H: 1}, rep.Grid)
	})

	t.Run("unsupported tile sizes are rejected", func(t *testing.T) {
		for _, size := range []string{"8", "-16", "4611686018427387903"} {
			_, err := e.run(t, "analyze", "--tile-size", size, path)
			assert.ErrorContains(t, err, "unsupported tile size", size)
		}
	})

	t.Run("a failed load clears the open sheet", func(t *testing.T) {
		broken := filepath.Join(e.dir, "clear.png")
		require.NoError(t, os.WriteFile(broken, []byte("garbage"), 0644))

		in := &inspector{}
		_, err := e.runWith(t, in, "analyze", path)
		require.NoError(t, err)
		require.NotNil(t, in.viewer.Current())

		_, err = e.runWith(t, in, "analyze", broken)
		assert.ErrorContains(t, err, "decode failure")
		assert.Nil(t, in.viewer.Current())
	})

	t.Run("undecodable sheet fails and is not remembered", func(t *testing.T) {
		broken := filepath.Join(e.dir, "broken.png")
		require.NoError(t, os.WriteFile(broken, []byte("garbage"), 0644))

		_, err := e.run(t, "analyze", broken)
		assert.ErrorContains(t, err, "decode failure")

		last, err := os.ReadFile(e.session)
		require.NoError(t, err)
		assert.NotEqual(t, broken, string(last))
	})
}

func TestRender(t *testing.T) {
	e := newEnv(t)
	path := e.writeHalves(t, "halves.png")

	out, err := e.run(t, "render", "--zoom", "2", "--labels", path)
	require.NoError(t, err)

	want := filepath.Join(e.dir, "out", "halves.overlay.png")
	assert.Contains(t, out, want)

	f, err := os.Open(want)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 72, 36), img.Bounds())

	_, err = e.run(t, "render", "--format", "gif", path)
	assert.ErrorContains(t, err, "unknown format")
}

func TestBatch(t *testing.T) {
	e := newEnv(t)
	e.writeHalves(t, filepath.Join("sheets", "a.png"))
	e.writeHalves(t, filepath.Join("sheets", "nested", "b_16x16.png"))

	out, err := e.run(t, "batch", "--format", "webp", filepath.Join(e.dir, "sheets"))
	require.NoError(t, err)
	assert.Contains(t, out, "Inspected: 2/2")

	assert.FileExists(t, filepath.Join(e.dir, "out", "a.webp"))
	assert.FileExists(t, filepath.Join(e.dir, "out", "nested", "b_16x16.webp"))

	data, err := os.ReadFile(filepath.Join(e.dir, "out", "manifest.json"))
	require.NoError(t, err)
	var m batch.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Len(t, m.Sheets, 2)
	assert.Empty(t, m.Failed)

	_, err = e.run(t, "batch")
	assert.ErrorContains(t, err, "missing DIRECTORY")
}
