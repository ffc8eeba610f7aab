package ply

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Decode reads a complete PLY stream: header first, then the body, in one
// forward pass.
func Decode(r io.Reader) (*Schema, *Geometry, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	s, err := ReadHeader(br)
	if err != nil {
		return nil, nil, err
	}
	g, err := ReadMesh(br, s)
	if err != nil {
		return s, nil, err
	}
	return s, g, nil
}

// Load decodes r and hands the buffers to sink. PLY files carry a single
// mesh, so subMesh is ignored. Nothing reaches sink unless decoding
// succeeds.
func Load(r io.Reader, subMesh string, sink GeometrySink) error {
	_, g, err := Decode(r)
	if err != nil {
		return err
	}
	sink.SetPositions(g.Positions)
	sink.SetNormals(g.Normals)
	sink.SetTexCoords(g.TexCoords)
	sink.SetIndices(g.Indices)
	return nil
}

// Parse opens and decodes a PLY file.
func Parse(path string) (*Schema, *Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("ply: open %s: %w", path, err)
	}
	defer f.Close()

	s, g, err := Decode(bufio.NewReaderSize(f, 64<<10))
	if err != nil {
		return s, nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, g, nil
}
