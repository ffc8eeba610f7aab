package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("ply\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "zebra.ply"))
	touch(t, filepath.Join(dir, "scans", "Bunny.PLY"))
	touch(t, filepath.Join(dir, "scans", "notes.txt"))
	touch(t, filepath.Join(dir, "armadillo.ply"))

	models, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"armadillo.ply", "scans/Bunny.PLY", "zebra.ply"}
	if len(models) != len(want) {
		t.Fatalf("got %d models, want %d", len(models), len(want))
	}
	for i, m := range models {
		if m.RelPath != want[i] {
			t.Errorf("models[%d].RelPath = %q, want %q", i, m.RelPath, want[i])
		}
	}
	if models[1].Name != "Bunny" || models[1].Path != filepath.Join(dir, "scans", "Bunny.PLY") {
		t.Errorf("models[1] = %+v", models[1])
	}
}

func TestScanMissingDir(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error")
	}
}

func TestFilter(t *testing.T) {
	models := []Model{
		{Name: "armadillo", RelPath: "armadillo.ply"},
		{Name: "Bunny", RelPath: "scans/Bunny.PLY"},
		{Name: "dragon", RelPath: "scans/dragon.ply"},
	}
	tests := []struct {
		pattern string
		want    int
	}{
		{"", 3},
		{"bunny", 1},
		{"scans/", 2},
		{"scans/*.ply", 2},
		{"d*.ply", 1},
		{"teapot", 0},
	}
	for _, tt := range tests {
		if got := Filter(models, tt.pattern); len(got) != tt.want {
			t.Errorf("Filter(%q) = %d models, want %d", tt.pattern, len(got), tt.want)
		}
	}
}
