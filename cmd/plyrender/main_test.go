package main

import (
	"os"
	"path/filepath"
	"testing"

	"ply-renderer/internal/batch"
)

func TestSaveManifest(t *testing.T) {
	dir := t.TempDir()
	results := []batch.Result{{Name: "cube", Path: "cube.webp", Vertices: 8, Triangles: 12, Success: true}}

	path, err := saveManifest(filepath.Join(dir, "a", "b"), results)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("manifest missing: %v", err)
	}

	// A regular file where the output dir should be.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := saveManifest(filepath.Join(blocker, "out"), results); err == nil {
		t.Error("expected error when the output dir cannot be created")
	}
}
