package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is a float64 vector used for projection and shading; mesh data stays
// in mgl32 and is widened once per vertex.
type Vec3 [3]float64

// FromVec3 widens a decoded mesh vector.
func FromVec3(v mgl32.Vec3) Vec3 {
	return Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func (a Vec3) Dot(b Vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (a Vec3) Len() float64 { return math.Sqrt(a.Dot(a)) }

// Normalize returns the unit vector, or the zero vector when a is (near) zero.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return Vec3{a[0] / l, a[1] / l, a[2] / l}
}
