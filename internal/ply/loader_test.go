package ply

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type recordingSink struct {
	calls     []string
	positions []mgl32.Vec3
	indices   []uint32
}

func (r *recordingSink) SetPositions(p []mgl32.Vec3) {
	r.calls = append(r.calls, "positions")
	r.positions = p
}

func (r *recordingSink) SetNormals([]mgl32.Vec3) { r.calls = append(r.calls, "normals") }

func (r *recordingSink) SetTexCoords([]mgl32.Vec2) { r.calls = append(r.calls, "texcoords") }

func (r *recordingSink) SetIndices(i []uint32) {
	r.calls = append(r.calls, "indices")
	r.indices = i
}

const triangle = "ply\nformat ascii 1.0\n" +
	"element vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
	"element face 1\nproperty list uchar int vertex_index\nend_header\n" +
	"0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n"

func TestLoad(t *testing.T) {
	sink := &recordingSink{}
	if err := Load(strings.NewReader(triangle), "ignored", sink); err != nil {
		t.Fatal(err)
	}
	if strings.Join(sink.calls, ",") != "positions,normals,texcoords,indices" {
		t.Errorf("calls = %v", sink.calls)
	}
	if len(sink.positions) != 3 || len(sink.indices) != 3 {
		t.Errorf("positions=%d indices=%d", len(sink.positions), len(sink.indices))
	}
}

func TestLoadFailurePublishesNothing(t *testing.T) {
	truncated := strings.TrimSuffix(triangle, "3 0 1 2\n") + "3 0 1"
	for _, in := range []string{truncated, "format quack\nend_header\n"} {
		sink := &recordingSink{}
		if err := Load(strings.NewReader(in), "", sink); err == nil {
			t.Errorf("expected error for %q", in)
		}
		if len(sink.calls) != 0 {
			t.Errorf("sink received %v", sink.calls)
		}
	}
}

func TestGeometryIsSink(t *testing.T) {
	var g Geometry
	if err := Load(strings.NewReader(triangle), "", &g); err != nil {
		t.Fatal(err)
	}
	if g.TriangleCount() != 1 {
		t.Errorf("triangles = %d", g.TriangleCount())
	}
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.ply")
	if err := os.WriteFile(path, []byte(triangle), 0644); err != nil {
		t.Fatal(err)
	}
	s, g, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Format != FormatASCII || len(g.Positions) != 3 {
		t.Errorf("format=%v positions=%d", s.Format, len(g.Positions))
	}

	_, _, err = Parse(filepath.Join(dir, "missing.ply"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}
