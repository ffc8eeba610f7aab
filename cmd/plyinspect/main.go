package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ply-renderer/internal/ply"
	"ply-renderer/internal/texture"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: plyinspect FILE.ply...")
		os.Exit(2)
	}

	failed := false
	for _, arg := range os.Args[1:] {
		schema, geom, err := ply.Parse(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("\n=== %s ===\n", arg)
		printSchema(schema)
		printGeometry(geom)
		printTexture(arg, schema.TextureFile)
	}
	if failed {
		os.Exit(1)
	}
}

func printSchema(s *ply.Schema) {
	version := s.Version
	if version == "" {
		version = "?"
	}
	fmt.Printf("Format: %s %s\n", s.Format, version)
	for _, c := range s.Comments {
		fmt.Printf("Comment: %s\n", c)
	}
	for _, o := range s.ObjInfo {
		fmt.Printf("ObjInfo: %s\n", o)
	}
	for _, e := range s.Elements {
		fmt.Printf("Element %s (%d)\n", e.Name, e.Count)
		for _, p := range e.Properties {
			if p.DataType == ply.TypeList {
				fmt.Printf("  list %s %s %s\n", p.ListSizeType, p.ListElementType, p.Name)
			} else {
				fmt.Printf("  %s %s\n", p.DataType, p.Name)
			}
		}
	}
	fmt.Printf("Normals: %v  TexCoords: %v\n", s.HasNormals, s.HasTexCoords)
}

func printGeometry(g *ply.Geometry) {
	fmt.Printf("Vertices: %d  Triangles: %d\n", len(g.Positions), g.TriangleCount())
	min, max, ok := g.Bounds()
	if !ok {
		return
	}
	fmt.Printf("Bounds: [%.3f %.3f %.3f] .. [%.3f %.3f %.3f]\n",
		min[0], min[1], min[2], max[0], max[1], max[2])

	bad := 0
	for _, i := range g.Indices {
		if int(i) >= len(g.Positions) {
			bad++
		}
	}
	if bad > 0 {
		fmt.Printf("Out-of-range indices: %d\n", bad)
	}
}

func printTexture(plyPath, texName string) {
	if texName == "" {
		return
	}
	idx := texture.BuildIndex(filepath.Dir(plyPath))
	path, ok := idx.ResolvePath(texName)
	if !ok {
		fmt.Printf("Texture: %s MISSING\n", texName)
		return
	}
	img, err := texture.LoadTexture(path)
	if err != nil {
		fmt.Printf("Texture: %s %v\n", texName, err)
		return
	}
	b := img.Bounds()
	fmt.Printf("Texture: %s → %s (%dx%d %s)\n", texName, path, b.Dx(), b.Dy(),
		strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}
