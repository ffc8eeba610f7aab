package batch

import (
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ply-renderer/internal/catalog"
	"ply-renderer/internal/ply"
	"ply-renderer/internal/postprocess"
	"ply-renderer/internal/raster"
	"ply-renderer/internal/texture"
	"ply-renderer/internal/trs"

	"github.com/HugoSmits86/nativewebp"
)

// speckRatio is the smallest cluster, as a fraction of opaque pixels, that
// survives RemoveSmallClusters.
const speckRatio = 0.02

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	TexResolver texture.Resolver
	Views       *trs.Data
	RenderSize  int
	Supersample int
	FillRatio   float64 // used when a view entry leaves fill_ratio unset; 0 fills the canvas
	Workers     int
	Quiet       bool // suppress the progress ticker
}

// Result holds the outcome of processing one model.
type Result struct {
	Name      string
	Path      string // relative path of the written image
	Vertices  int
	Triangles int
	Success   bool
	Error     string
}

// Run processes all models using a worker pool. Results are in the same
// order as models.
func Run(cfg Config, models []catalog.Model) []Result {
	total := len(models)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		if cfg.Quiet {
			return
		}
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f models/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processModel(cfg, models[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range models {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

// OutputPath returns the image path for a model relative to the output
// dir: its relative path with the extension replaced by .webp.
func OutputPath(m catalog.Model) string {
	return strings.TrimSuffix(m.RelPath, path.Ext(m.RelPath)) + ".webp"
}

func processModel(cfg Config, m catalog.Model) Result {
	res := Result{Name: m.Name}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	schema, geom, err := ply.Parse(m.Path)
	if err != nil {
		return fail(err)
	}
	res.Vertices = len(geom.Positions)
	res.Triangles = geom.TriangleCount()
	if res.Triangles == 0 {
		return fail(fmt.Errorf("no faces in %s", m.RelPath))
	}

	entry := cfg.Views.Lookup(m.RelPath)

	img := raster.RenderGeometry(geom, schema.TextureFile, entry, cfg.TexResolver, cfg.RenderSize, cfg.Supersample)

	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}
	if entry.Isolate {
		img = postprocess.KeepLargestComponent(img)
	} else if !entry.KeepSpecks {
		img = postprocess.RemoveSmallClusters(img, speckRatio)
	}

	fillRatio := entry.FillRatio
	if fillRatio <= 0 {
		fillRatio = cfg.FillRatio
	}
	img = postprocess.CropAndCenter(img, cfg.RenderSize, fillRatio)
	if entry.FlipCanvas {
		img = postprocess.FlipHorizontal(img)
	}

	rel := OutputPath(m)
	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fail(err)
	}

	if err := writeWebP(outPath, img); err != nil {
		return fail(err)
	}

	res.Path = rel
	res.Success = true
	return res
}

// writeWebP encodes img to path. On any failure the partial file is removed.
func writeWebP(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("webp encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("webp write %s: %w", path, err)
	}
	return nil
}
