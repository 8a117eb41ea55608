package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"tilesheet-inspector/internal/tilesize"
)

// DefaultSessionFile remembers the last sheet that was opened successfully.
const DefaultSessionFile = "tilesheetviewer-lastfile.txt"

// Config holds all configurable paths and inspection settings.
type Config struct {
	// Paths
	OutputDir   string `json:"output_dir"`
	SessionFile string `json:"session_file"`

	// Inspection settings
	TileSize    int    `json:"tile_size"`
	Format      string `json:"format"`
	Zoom        int    `json:"zoom"`
	Labels      bool   `json:"labels"`
	Connections *bool  `json:"connections,omitempty"`
	Workers     int    `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	TileSize  int
	Format    string
	Zoom      int
	Labels    bool
	Workers   int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty. A tile size that is set
// must be one of tilesize.Supported.
func (c *Config) Resolve(flags Flags) error {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.TileSize != 0 {
		c.TileSize = flags.TileSize
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Zoom > 0 {
		c.Zoom = flags.Zoom
	}
	if flags.Labels {
		c.Labels = true
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.SessionFile == "" {
		c.SessionFile = defaultSessionPath()
	}
	if c.OutputDir == "" {
		c.OutputDir = "overlays"
	}

	// Defaults for inspection settings
	if c.Format == "" {
		c.Format = "png"
	}
	if c.Zoom <= 0 {
		c.Zoom = 1
	}
	if c.Connections == nil {
		on := true
		c.Connections = &on
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	if c.TileSize != 0 && !tilesize.IsSupported(c.TileSize) {
		return fmt.Errorf("config: unsupported tile size %d (want one of %v)", c.TileSize, tilesize.Supported)
	}
	return nil
}

// ShowConnections reports whether edge indicators are drawn.
func (c *Config) ShowConnections() bool {
	return c.Connections == nil || *c.Connections
}

func defaultSessionPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tileinspect", DefaultSessionFile)
	}
	return DefaultSessionFile
}
