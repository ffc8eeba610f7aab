package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// extPriority ranks texture formats when several files share a stem.
// TGA wins because exporters use it for textures with alpha.
var extPriority = map[string]int{
	".tga":  3,
	".png":  2,
	".jpg":  1,
	".jpeg": 1,
}

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex walks dirs for TGA, PNG and JPEG files. Earlier dirs win over
// later ones for the same stem; within a dir the format priority decides.
func BuildIndex(dirs ...string) *Index {
	idx := &Index{entries: make(map[string]string)}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		found := make(map[string]string)
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if extPriority[ext] == 0 {
				return nil
			}
			stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

			existing, exists := found[stem]
			if !exists || extPriority[ext] > extPriority[strings.ToLower(filepath.Ext(existing))] {
				found[stem] = path
			}
			return nil
		})
		for stem, path := range found {
			if _, taken := idx.entries[stem]; !taken {
				idx.entries[stem] = path
			}
		}
	}

	return idx
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
// Only the stem of texName is used, so "maps\\Wood.PNG" finds wood.tga.
func (idx *Index) ResolvePath(texName string) (string, bool) {
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := filepath.Base(texName)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
