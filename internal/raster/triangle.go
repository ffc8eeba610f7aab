package raster

import (
	"image"
	"image/color"
	"math"

	"ply-renderer/internal/mathutil"

	"github.com/go-gl/mathgl/mgl32"
)

// FaceNormal returns the unit normal of a projected triangle, or false when
// the triangle is degenerate.
func FaceNormal(px, py, pz []float64, vi [3]int) (mathutil.Vec3, bool) {
	a := mathutil.Vec3{px[vi[0]], py[vi[0]], pz[vi[0]]}
	b := mathutil.Vec3{px[vi[1]], py[vi[1]], pz[vi[1]]}
	c := mathutil.Vec3{px[vi[2]], py[vi[2]], pz[vi[2]]}
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() < 1e-8 {
		return mathutil.Vec3{}, false
	}
	return n.Normalize(), true
}

// RasterizeTriangle draws one triangle into fb with a z-test. Color comes
// from tex through uvs (indexed by vertex like px; nil when the model has
// none) or from base. shades holds the light intensity at each corner and
// is interpolated across the face. The pixel loop does not allocate.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	uvs []mgl32.Vec2,
	vi [3]int,
	tex *image.NRGBA,
	base color.NRGBA,
	shades [3]float64,
	lit *Lighting,
) {
	nv := len(px)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	hasUV := tex != nil && len(uvs) == nv

	// Image rows grow downward while PLY texture v grows upward.
	var u0, v0uv, u1, v1uv, u2, v2uv float64
	if hasUV {
		u0, v0uv = float64(uvs[vi[0]][0]), 1-float64(uvs[vi[0]][1])
		u1, v1uv = float64(uvs[vi[1]][0]), 1-float64(uvs[vi[1]][1])
		u2, v2uv = float64(uvs[vi[2]][0]), 1-float64(uvs[vi[2]][1])
	}

	// Bounding box
	size := fb.Width
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= size {
		maxX = size - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	s0, s1, s2 := shades[0], shades[1], shades[2]

	// Pixel loop
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * size
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			var cr, cg, cb, ca uint8
			if hasUV {
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0uv + w1*v1uv + w2*v2uv
				cr, cg, cb, ca = SampleTexture(tex, u, v)
			} else {
				cr, cg, cb, ca = base.R, base.G, base.B, base.A
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			shade := w0*s0 + w1*s1 + w2*s2
			pxIdx := zIdx * 4
			fb.Color[pxIdx] = lit.Texel(cr, shade)
			fb.Color[pxIdx+1] = lit.Texel(cg, shade)
			fb.Color[pxIdx+2] = lit.Texel(cb, shade)
			fb.Color[pxIdx+3] = ca
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
