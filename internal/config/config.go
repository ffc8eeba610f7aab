package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultFillRatio is the canvas fill fraction used when neither the config
// file nor a view entry sets one.
const DefaultFillRatio = 0.80

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	ModelDir   string `json:"model_dir"`
	TextureDir string `json:"texture_dir"`
	ViewsJSON  string `json:"views_json"`
	OutputDir  string `json:"output_dir"`

	// Render settings
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	FillRatio   float64 `json:"fill_ratio"`
	Workers     int     `json:"workers"`
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

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.ModelDir != "" {
		c.ModelDir = flags.ModelDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.ModelDir == "" {
		c.ModelDir = "."
	}
	c.TextureDir = underModelDir(c.ModelDir, c.TextureDir, "")
	c.ViewsJSON = underModelDir(c.ModelDir, c.ViewsJSON, "views.json")
	c.OutputDir = underModelDir(c.ModelDir, c.OutputDir, "renders")

	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = DefaultFillRatio
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// underModelDir resolves p against the model dir, substituting def when
// p is empty.
func underModelDir(modelDir, p, def string) string {
	if p == "" {
		return filepath.Join(modelDir, def)
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(modelDir, p)
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	ModelDir  string
	OutputDir string
	Size      int
	Workers   int
}
