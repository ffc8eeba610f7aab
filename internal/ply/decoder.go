package ply

import (
	"bufio"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// maxReserve caps up-front allocation so a bogus element count in the
// header cannot force a huge allocation before any data is read.
const maxReserve = 1 << 22

// ReadMesh decodes the body that follows the header described by s.
// Elements are walked in header order and each instance's properties in
// declaration order. Polygonal faces are fan-triangulated from their first
// index; faces with fewer than three indices are dropped.
func ReadMesh(r *bufio.Reader, s *Schema) (*Geometry, error) {
	sr := newScalarReader(r, s.Format)
	g := &Geometry{}

	if s.HasNormals {
		g.Normals = []mgl32.Vec3{}
	}
	if s.HasTexCoords {
		g.TexCoords = []mgl32.Vec2{}
	}

	var face []uint32
	for ei := range s.Elements {
		e := &s.Elements[ei]
		if e.Type == ElementVertex {
			g.reserve(e.Count, s)
		}

		for i := 0; i < e.Count; i++ {
			var pos, normal mgl32.Vec3
			var uv mgl32.Vec2
			face = face[:0]

			for _, p := range e.Properties {
				if p.DataType == TypeList {
					n, err := sr.readInt(p.ListSizeType)
					if err != nil {
						return nil, elementError(e, i, p, err)
					}
					for j := int64(0); j < n; j++ {
						v, err := sr.readInt(p.ListElementType)
						if err != nil {
							return nil, elementError(e, i, p, err)
						}
						if e.Type == ElementFace {
							face = append(face, uint32(v))
						}
					}
					continue
				}

				v, err := sr.readFloat(p.DataType)
				if err != nil {
					return nil, elementError(e, i, p, err)
				}
				if e.Type != ElementVertex {
					continue
				}
				switch p.Type {
				case PropertyX:
					pos[0] = v
				case PropertyY:
					pos[1] = v
				case PropertyZ:
					pos[2] = v
				case PropertyNormalX:
					normal[0] = v
				case PropertyNormalY:
					normal[1] = v
				case PropertyNormalZ:
					normal[2] = v
				case PropertyTextureU:
					uv[0] = v
				case PropertyTextureV:
					uv[1] = v
				}
			}

			switch e.Type {
			case ElementVertex:
				g.Positions = append(g.Positions, pos)
				if s.HasNormals {
					g.Normals = append(g.Normals, normal)
				}
				if s.HasTexCoords {
					g.TexCoords = append(g.TexCoords, uv)
				}
			case ElementFace:
				g.Indices = appendFan(g.Indices, face)
			}
		}
	}

	return g, nil
}

func (g *Geometry) reserve(count int, s *Schema) {
	n := min(count, maxReserve)
	g.Positions = grow3(g.Positions, n)
	if s.HasNormals {
		g.Normals = grow3(g.Normals, n)
	}
	if s.HasTexCoords && cap(g.TexCoords)-len(g.TexCoords) < n {
		t := make([]mgl32.Vec2, len(g.TexCoords), len(g.TexCoords)+n)
		copy(t, g.TexCoords)
		g.TexCoords = t
	}
}

func grow3(v []mgl32.Vec3, n int) []mgl32.Vec3 {
	if cap(v)-len(v) >= n {
		return v
	}
	out := make([]mgl32.Vec3, len(v), len(v)+n)
	copy(out, v)
	return out
}

// appendFan decomposes a convex polygon into len(face)-2 triangles sharing
// face[0].
func appendFan(dst, face []uint32) []uint32 {
	if len(face) < 3 {
		return dst
	}
	for j := 1; j < len(face)-1; j++ {
		dst = append(dst, face[0], face[j], face[j+1])
	}
	return dst
}

func elementError(e *Element, instance int, p Property, err error) error {
	name := e.Name
	if name == "" {
		name = e.Type.String()
	}
	return fmt.Errorf("ply: %s %d property %q: %w", name, instance, p.Name, err)
}
