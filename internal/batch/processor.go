// Package batch inspects many sheets with a pool of workers. Each sheet is
// still analyzed on a single goroutine, exactly once.
package batch

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tilesheet-inspector/internal/overlay"
	"tilesheet-inspector/internal/report"
	"tilesheet-inspector/internal/sheet"
	"tilesheet-inspector/internal/texture"
	"tilesheet-inspector/internal/tilesize"
)

// Config holds all shared settings for a batch run.
type Config struct {
	// Root is the directory the sheet paths were found under. Overlay
	// files mirror the layout below it.
	Root string
	// OutputDir receives one rendered overlay per sheet. Empty disables
	// rendering.
	OutputDir string

	Hinter   tilesize.Hinter
	TileSize int // used when Hinter has no suggestion
	Render   overlay.Options
	Format   overlay.Format
	Workers  int

	Logger *log.Logger
}

// Result holds the outcome of processing one sheet.
type Result struct {
	Path    string
	Success bool
	Error   string
	Report  *report.Report
}

// Run processes all sheets using a worker pool. Results are in the order of
// paths.
func Run(cfg Config, paths []string) []Result {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "", 0)
	}

	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					cfg.Logger.Printf("  [%d/%d] %.1f sheets/sec", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	pathChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range pathChan {
				results[idx] = processSheet(cfg, paths[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range paths {
		pathChan <- i
	}
	close(pathChan)

	wg.Wait()
	close(done)

	return results
}

func processSheet(cfg Config, path string) Result {
	img, err := texture.LoadSheet(path)
	if err != nil {
		return Result{Path: path, Error: err.Error()}
	}

	size := tilesize.Resolve(cfg.Hinter, path, cfg.TileSize)
	a, err := sheet.Analyze(img, size)
	if err != nil {
		return Result{Path: path, Error: err.Error()}
	}

	rep := report.New(path, a)
	cfg.Logger.Printf("%s: %d x %d tiles of %d, %d empty", path, a.Columns(), a.Rows(), size, a.EmptyCount())

	if cfg.OutputDir != "" && len(rep.Tiles) > 0 {
		outPath := OverlayPath(cfg.Root, cfg.OutputDir, path, cfg.Format)
		if err := writeOverlay(outPath, overlay.Render(a, cfg.Render), cfg.Format); err != nil {
			return Result{Path: path, Error: err.Error(), Report: &rep}
		}
		rep.Overlay = filepath.ToSlash(outPath)
	}

	return Result{Path: path, Success: true, Report: &rep}
}

// OverlayPath returns where the overlay of path is written: its location
// relative to root, under outDir, with the extension of format.
func OverlayPath(root, outDir, path string, format overlay.Format) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(path)
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+format.Ext())
}

func writeOverlay(path string, img image.Image, format overlay.Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := overlay.Encode(f, img, format); err != nil {
		return fmt.Errorf("overlay %s: %w", path, err)
	}
	return f.Close()
}
