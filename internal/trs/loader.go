package trs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
)

// Data resolves view overrides by model path.
type Data struct {
	exact    map[string]*Entry // lowercased slash path or base name
	patterns []patternEntry    // glob keys, sorted for deterministic matching
}

type patternEntry struct {
	pattern string
	entry   *Entry
}

// Len returns the number of configured keys.
func (d *Data) Len() int {
	if d == nil {
		return 0
	}
	return len(d.exact) + len(d.patterns)
}

// Lookup returns the override for relPath (relative to the model dir),
// trying the full path, then the base name, then glob keys. It returns
// Default() when nothing matches.
func (d *Data) Lookup(relPath string) *Entry {
	if d == nil {
		return Default()
	}
	key := normalizeKey(relPath)
	if e, ok := d.exact[key]; ok {
		return e
	}
	if e, ok := d.exact[path.Base(key)]; ok {
		return e
	}
	for _, p := range d.patterns {
		if ok, _ := path.Match(p.pattern, key); ok {
			return p.entry
		}
		if ok, _ := path.Match(p.pattern, path.Base(key)); ok {
			return p.entry
		}
	}
	return Default()
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "\\", "/"))
}

// viewsFile matches the JSON schema of views.json.
type viewsFile struct {
	Presets map[string]json.RawMessage `json:"presets"`
	Models  map[string]json.RawMessage `json:"models"`
}

type viewsEntry struct {
	RotX        *float64 `json:"rotX"`
	RotY        *float64 `json:"rotY"`
	RotZ        *float64 `json:"rotZ"`
	Up          *string  `json:"up"`
	Camera      *string  `json:"camera"`
	Perspective *bool    `json:"perspective"`
	FOV         *float64 `json:"fov"`
	FillRatio   *float64 `json:"fill_ratio"`
	FlipCanvas  *bool    `json:"flip_canvas"`
	KeepSpecks  *bool    `json:"keep_specks"`
	Isolate     *bool    `json:"isolate"`
	Exposure    *float64 `json:"exposure"`
}

// Load reads views.json. A missing file yields empty Data.
func Load(jsonPath string) (*Data, error) {
	d := &Data{exact: make(map[string]*Entry)}
	if jsonPath == "" {
		return d, nil
	}

	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return nil, fmt.Errorf("trs: read %s: %w", jsonPath, err)
	}

	var file viewsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("trs: parse %s: %w", jsonPath, err)
	}

	keys := make([]string, 0, len(file.Models))
	for k := range file.Models {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Supports two formats:
	//   "model.ply": "preset" | {...}    model or glob -> preset/inline config
	//   "preset": ["a.ply", "b.ply"]      preset name -> list of models
	for _, key := range keys {
		rawEntry := file.Models[key]

		var models []string
		if json.Unmarshal(rawEntry, &models) == nil && len(models) > 0 {
			name, _ := json.Marshal(key)
			c, err := resolveEntry(name, file.Presets)
			if err != nil {
				return nil, fmt.Errorf("trs: models[%q]: %w", key, err)
			}
			for _, m := range models {
				d.add(m, makeEntry(*c))
			}
			continue
		}

		c, err := resolveEntry(rawEntry, file.Presets)
		if err != nil {
			return nil, fmt.Errorf("trs: models[%q]: %w", key, err)
		}
		d.add(key, makeEntry(*c))
	}

	return d, nil
}

func (d *Data) add(key string, e *Entry) {
	key = normalizeKey(key)
	if strings.ContainsAny(key, "*?[") {
		d.patterns = append(d.patterns, patternEntry{pattern: key, entry: e})
		sort.SliceStable(d.patterns, func(i, j int) bool {
			return d.patterns[i].pattern < d.patterns[j].pattern
		})
		return
	}
	d.exact[key] = e
}

// resolveEntry resolves a json.RawMessage that is either a preset name (string)
// or an inline config object.
func resolveEntry(raw json.RawMessage, presets map[string]json.RawMessage) (*viewsEntry, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		presetRaw, ok := presets[name]
		if !ok {
			return nil, fmt.Errorf("preset %q not found", name)
		}
		raw = presetRaw
	}
	var c viewsEntry
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func makeEntry(c viewsEntry) *Entry {
	e := Default()
	if c.RotX != nil {
		e.RotX = *c.RotX
	}
	if c.RotY != nil {
		e.RotY = *c.RotY
	}
	if c.RotZ != nil {
		e.RotZ = *c.RotZ
	}
	if c.Up != nil {
		e.Up = strings.ToLower(*c.Up)
	}
	if c.Camera != nil {
		e.Camera = strings.ToLower(*c.Camera)
	}
	if c.Perspective != nil {
		e.Perspective = *c.Perspective
	}
	if c.FOV != nil {
		e.FOV = *c.FOV
	}
	if c.FillRatio != nil {
		e.FillRatio = *c.FillRatio
	}
	if c.FlipCanvas != nil {
		e.FlipCanvas = *c.FlipCanvas
	}
	if c.KeepSpecks != nil {
		e.KeepSpecks = *c.KeepSpecks
	}
	if c.Isolate != nil {
		e.Isolate = *c.Isolate
	}
	if c.Exposure != nil {
		e.Exposure = *c.Exposure
	}
	return e
}
