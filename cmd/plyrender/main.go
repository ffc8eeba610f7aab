package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ply-renderer/internal/batch"
	"ply-renderer/internal/catalog"
	"ply-renderer/internal/config"
	"ply-renderer/internal/texture"
	"ply-renderer/internal/trs"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	modelDir := flag.String("models", "", "Directory scanned for .ply files (default: .)")
	outputDir := flag.String("output", "", "Output directory (default: <models>/renders)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	size := flag.Int("size", 0, "Output image size in pixels (default: 256)")
	testN := flag.Int("test", 0, "Render only first N models for testing")
	match := flag.String("match", "", "Render only models whose path matches (substring or glob)")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	cfg.Resolve(config.Flags{
		ModelDir:  *modelDir,
		OutputDir: *outputDir,
		Size:      *size,
		Workers:   *workers,
	})

	models, err := catalog.Scan(cfg.ModelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning models: %v\n", err)
		os.Exit(1)
	}
	models = catalog.Filter(models, *match)

	if *testN > 0 && *testN < len(models) {
		models = models[:*testN]
	}

	if len(models) == 0 {
		fmt.Println("No models to render.")
		os.Exit(0)
	}

	views, err := trs.Load(cfg.ViewsJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: views load: %v\n", err)
	}
	fmt.Printf("Views: %d entries loaded\n", views.Len())

	texDirs := []string{cfg.TextureDir}
	if filepath.Clean(cfg.TextureDir) != filepath.Clean(cfg.ModelDir) {
		texDirs = append(texDirs, cfg.ModelDir)
	}
	texIndex := texture.BuildIndex(texDirs...)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	mode := ""
	if *match != "" {
		mode = fmt.Sprintf(" (match %q)", *match)
	} else if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("PLY renderer → WebP%s\n", mode)
	fmt.Printf("Models: %d, Workers: %d, Size: %d\n", len(models), cfg.Workers, cfg.RenderSize)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir:   cfg.OutputDir,
		TexResolver: texCache,
		Views:       views,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		FillRatio:   cfg.FillRatio,
		Workers:     cfg.Workers,
	}, models)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	var failures []batch.Result
	for _, r := range results {
		if !r.Success {
			failures = append(failures, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", len(results)-len(failures), len(models))

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failures))
		for _, e := range failures[:min(len(failures), 20)] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	for path, err := range texCache.Failures() {
		fmt.Fprintf(os.Stderr, "Warning: texture %s: %v\n", path, err)
	}

	if manifestPath, err := saveManifest(cfg.OutputDir, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failures) > 0 {
		os.Exit(1)
	}
}

// saveManifest writes manifest.json into outDir, creating it if needed.
func saveManifest(outDir string, results []batch.Result) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outDir, "manifest.json")
	if err := batch.WriteManifest(path, results); err != nil {
		return "", err
	}
	return path, nil
}
