package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Scan walks dir for *.ply files (case-insensitive) and returns them sorted
// by relative path.
func Scan(dir string) ([]Model, error) {
	var models []Model
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".ply") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		base := filepath.Base(p)
		models = append(models, Model{
			Name:    strings.TrimSuffix(base, filepath.Ext(base)),
			Path:    p,
			RelPath: filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: scan %s: %w", dir, err)
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].RelPath < models[j].RelPath
	})
	return models, nil
}

// Filter keeps models whose relative path or name matches pattern.
// Patterns with glob metacharacters use path.Match; anything else is a
// case-insensitive substring. An empty pattern keeps everything.
func Filter(models []Model, pattern string) []Model {
	if pattern == "" {
		return models
	}
	pattern = strings.ToLower(pattern)
	glob := strings.ContainsAny(pattern, "*?[")

	var out []Model
	for _, m := range models {
		rel := strings.ToLower(m.RelPath)
		name := strings.ToLower(m.Name)
		var ok bool
		if glob {
			ok1, _ := path.Match(pattern, rel)
			ok2, _ := path.Match(pattern, path.Base(rel))
			ok = ok1 || ok2
		} else {
			ok = strings.Contains(rel, pattern) || strings.Contains(name, pattern)
		}
		if ok {
			out = append(out, m)
		}
	}
	return out
}
