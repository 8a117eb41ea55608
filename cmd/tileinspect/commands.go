package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"tilesheet-inspector/internal/batch"
	"tilesheet-inspector/internal/config"
	"tilesheet-inspector/internal/overlay"
	"tilesheet-inspector/internal/report"
	"tilesheet-inspector/internal/sheet"
	"tilesheet-inspector/internal/texture"
	"tilesheet-inspector/internal/tilesize"
)

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// loadConfig reads the optional config file and applies the command's flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	var cfg config.Config
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	err := cfg.Resolve(config.Flags{
		OutputDir: c.String("output"),
		TileSize:  c.Int("tile-size"),
		Format:    c.String("format"),
		Zoom:      c.Int("zoom"),
		Labels:    c.Bool("labels"),
		Workers:   c.Int("workers"),
	})
	return cfg, err
}

// hinter prefers an explicit tile size over the filename.
func hinter(cfg config.Config) tilesize.Hinter {
	return tilesize.Chain{tilesize.Fixed(cfg.TileSize), tilesize.FilenameHint{}}
}

// inspector holds the sheet currently open in the app.
type inspector struct {
	viewer sheet.Viewer
}

// openSheet loads and analyzes the sheet named on the command line, or the
// last successfully opened one when no argument is given.
func (in *inspector) openSheet(c *cli.Context, cfg config.Config, logger *log.Logger) (string, *sheet.Analysis, error) {
	path := c.Args().First()
	if path == "" {
		last, err := config.LoadLastFile(cfg.SessionFile)
		if err != nil {
			return "", nil, err
		}
		if last == "" {
			return "", nil, errors.New("no sheet given and no previous session")
		}
		logger.Printf("reopening %s", last)
		path = last
	}

	size := tilesize.Resolve(hinter(cfg), path, tilesize.Default)

	start := time.Now()
	img, decodeErr := texture.LoadSheet(path)

	a, err := in.viewer.Load(img, decodeErr, size)
	if err != nil {
		return path, nil, err
	}
	logger.Printf("loaded %s in %.3fs", filepath.ToSlash(path), time.Since(start).Seconds())

	if err := config.SaveLastFile(cfg.SessionFile, path); err != nil {
		logger.Printf("session not saved: %v", err)
	}
	return path, a, nil
}

func (in *inspector) analyzeCmd(c *cli.Context) error {
	logger := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	path, a, err := in.openSheet(c, cfg, logger)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	rep := report.New(path, a)
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		err = enc.Encode(rep)
	} else {
		err = report.Text(c.App.Writer, rep)
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func (in *inspector) renderCmd(c *cli.Context) error {
	logger := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	format, err := overlay.ParseFormat(cfg.Format)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	path, a, err := in.openSheet(c, cfg, logger)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	out := c.String("output")
	if out == "" {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out = filepath.Join(cfg.OutputDir, name+".overlay"+format.Ext())
	}

	if a.EmptyCount() == a.Columns()*a.Rows() {
		return cli.NewExitError(fmt.Sprintf("%s: every tile is empty, nothing to render", path), 1)
	}
	img := overlay.Render(a, overlay.Options{
		Zoom:        cfg.Zoom,
		Labels:      cfg.Labels,
		Connections: cfg.ShowConnections(),
	})

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return cli.NewExitError(err, 1)
	}
	f, err := os.Create(out)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	if err := overlay.Encode(f, img, format); err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := f.Close(); err != nil {
		return cli.NewExitError(err, 1)
	}

	fmt.Fprintf(c.App.Writer, "Overlay: %s\n", out)
	return nil
}

func (in *inspector) batchCmd(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("missing DIRECTORY argument", 1)
	}
	logger := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	format, err := overlay.ParseFormat(cfg.Format)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	root := c.Args().First()
	idx, err := texture.BuildIndex(root)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if idx.Len() == 0 {
		fmt.Fprintln(c.App.Writer, "No sheets found.")
		return nil
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Sheets: %d, Workers: %d\n", idx.Len(), cfg.Workers)
	fmt.Fprintf(w, "Output: %s\n", cfg.OutputDir)

	start := time.Now()
	results := batch.Run(batch.Config{
		Root:      root,
		OutputDir: cfg.OutputDir,
		Hinter:    hinter(cfg),
		TileSize:  tilesize.Default,
		Render: overlay.Options{
			Zoom:        cfg.Zoom,
			Labels:      cfg.Labels,
			Connections: cfg.ShowConnections(),
		},
		Format:  format,
		Workers: cfg.Workers,
		Logger:  logger,
	}, idx.Paths())
	fmt.Fprintf(w, "Done in %.1fs\n", time.Since(start).Seconds())

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Fprintf(w, "  %s: %s\n", r.Path, r.Error)
		}
	}
	fmt.Fprintf(w, "Inspected: %d/%d\n", len(results)-failed, len(results))

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return cli.NewExitError(err, 1)
	}
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		return cli.NewExitError(fmt.Sprintf("manifest write failed: %v", err), 1)
	}
	fmt.Fprintf(w, "Manifest: %s\n", manifestPath)

	if failed > 0 {
		return cli.NewExitError(fmt.Sprintf("%d sheets failed", failed), 1)
	}
	return nil
}
