package raster

import (
	"image"
	"image/color"
	"math"

	"ply-renderer/internal/mathutil"
	"ply-renderer/internal/ply"
	"ply-renderer/internal/texture"
	"ply-renderer/internal/trs"
	"ply-renderer/internal/viewmatrix"
)

// RenderGeometry renders decoded PLY geometry to an NRGBA image of
// size*supersample pixels. texName is the model's texture reference
// (may be empty).
func RenderGeometry(
	geom *ply.Geometry,
	texName string,
	entry *trs.Entry,
	texResolver texture.Resolver,
	size int,
	supersample int,
) *image.NRGBA {
	if supersample < 1 {
		supersample = 1
	}
	renderSize := size * supersample
	if geom == nil || len(geom.Positions) == 0 || geom.TriangleCount() == 0 {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	R := viewmatrix.ViewMatrix(entry)

	// Bounding box of all transformed vertices
	allMin, allMax := viewmatrix.Bounds(geom.Positions, R)
	center := [3]float64{
		(allMin[0] + allMax[0]) / 2,
		(allMin[1] + allMax[1]) / 2,
		(allMin[2] + allMax[2]) / 2,
	}
	span := allMax[0] - allMin[0]
	if spanY := allMax[1] - allMin[1]; spanY > span {
		span = spanY
	}
	if span < 1e-9 {
		span = 1e-9
	}

	margin := 16 * supersample
	scale := float64(renderSize-2*margin) / span

	px, py, pz := viewmatrix.ProjectVertices(geom.Positions, R, center, scale, renderSize, entry)

	var tex *image.NRGBA
	if texResolver != nil && texName != "" {
		tex = texResolver.Resolve(texName)
	}

	base := color.NRGBA{160, 160, 170, 255}
	if tex != nil {
		base = averageColor(tex)
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	lit := NewLighting(entry)
	vertShades := vertexShades(geom, R, lit)

	for i := 0; i < geom.TriangleCount(); i++ {
		t := geom.Triangle(i)
		vi := [3]int{int(t[0]), int(t[1]), int(t[2])}
		if vi[0] >= len(px) || vi[1] >= len(px) || vi[2] >= len(px) {
			continue
		}

		n, ok := FaceNormal(px, py, pz, vi)
		if !ok {
			continue
		}
		flat := lit.Shade(n)
		shades := [3]float64{flat, flat, flat}
		if vertShades != nil {
			for k, v := range vi {
				if s := vertShades[v]; !math.IsNaN(s) {
					shades[k] = s
				}
			}
		}

		RasterizeTriangle(fb, px, py, pz, geom.TexCoords, vi, tex, base, shades, lit)
	}

	return fb.Image()
}

// vertexShades lights each declared vertex normal once, in screen space
// (Y down) to match FaceNormal. It returns nil when the model has no
// normals; zero-length normals yield NaN so callers fall back to the face.
func vertexShades(geom *ply.Geometry, R mathutil.Mat3, lit *Lighting) []float64 {
	if len(geom.Normals) != len(geom.Positions) {
		return nil
	}
	shades := make([]float64, len(geom.Normals))
	for i, n := range geom.Normals {
		v := mathutil.FromVec3(n)
		if v.Len() < 1e-8 {
			shades[i] = math.NaN()
			continue
		}
		s := R.MulVec3(v.Normalize())
		shades[i] = lit.Shade(mathutil.Vec3{s[0], -s[1], s[2]})
	}
	return shades
}

func averageColor(tex *image.NRGBA) color.NRGBA {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return color.NRGBA{160, 160, 170, 255}
	}

	var sumR, sumG, sumB float64
	total := w * h
	stride := tex.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(total)
	return color.NRGBA{uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255}
}
