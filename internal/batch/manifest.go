package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one rendered model in the output manifest.
type ManifestEntry struct {
	Name      string `json:"name"`
	Image     string `json:"image"`
	Vertices  int    `json:"vertices"`
	Triangles int    `json:"triangles"`
}

// WriteManifest writes the successful results as a JSON array to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Name:      r.Name,
			Image:     r.Path,
			Vertices:  r.Vertices,
			Triangles: r.Triangles,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
