package viewmatrix

import (
	"math"

	"ply-renderer/internal/mathutil"
	"ply-renderer/internal/trs"

	"github.com/go-gl/mathgl/mgl32"
)

// ViewMatrix builds the 3×3 model-to-view rotation for an entry:
// camera @ Rz @ Ry @ Rx @ up-axis correction.
func ViewMatrix(e *trs.Entry) mathutil.Mat3 {
	if e == nil {
		e = trs.Default()
	}
	rx := mathutil.Deg2Rad(e.RotX)
	ry := mathutil.Deg2Rad(e.RotY)
	rz := mathutil.Deg2Rad(e.RotZ)
	model := mathutil.Mat3Mul(mathutil.Mat3Mul(mathutil.RotZ(rz), mathutil.RotY(ry)), mathutil.RotX(rx))

	if e.Up == "z" {
		model = mathutil.Mat3Mul(model, mathutil.ZUpToYUp)
	}

	cam, ok := mathutil.Cameras[e.Camera]
	if !ok {
		cam = mathutil.Cameras[trs.DefaultCamera]
	}
	return mathutil.Mat3Mul(cam, model)
}

// Bounds returns the view-space bounding box of positions under R.
func Bounds(positions []mgl32.Vec3, R mathutil.Mat3) (min, max [3]float64) {
	min = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range positions {
		tv := R.MulVec3(mathutil.FromVec3(p))
		for k := 0; k < 3; k++ {
			if tv[k] < min[k] {
				min[k] = tv[k]
			}
			if tv[k] > max[k] {
				max[k] = tv[k]
			}
		}
	}
	return min, max
}

// ProjectVertices transforms 3D vertices to 2D screen coordinates.
// Returns px, py, pz slices (screen X, screen Y, depth).
func ProjectVertices(positions []mgl32.Vec3, R mathutil.Mat3, center [3]float64, scale float64, renderSize int, entry *trs.Entry) ([]float64, []float64, []float64) {
	n := len(positions)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)

	half := float64(renderSize) / 2

	usePersp := entry != nil && entry.Perspective
	var perspCamDist, perspZCenter float64
	if usePersp {
		fov := entry.FOV
		if fov <= 0 || fov >= 180 {
			fov = trs.DefaultFOV
		}
		halfFOV := mathutil.Deg2Rad(fov / 2)

		// Camera distance so the xy half-extent fills the field of view
		var xyMax float64
		zMin, zMax := math.Inf(1), math.Inf(-1)
		for _, p := range positions {
			t := R.MulVec3(mathutil.FromVec3(p))
			zMin = math.Min(zMin, t[2])
			zMax = math.Max(zMax, t[2])
			for k := 0; k < 2; k++ {
				xyMax = math.Max(xyMax, math.Abs(t[k]-center[k]))
			}
		}
		perspZCenter = (zMin + zMax) / 2
		if xyMax < 0.001 {
			xyMax = 0.001
		}
		perspCamDist = xyMax / math.Tan(halfFOV)
	}

	for i, p := range positions {
		t := R.MulVec3(mathutil.FromVec3(p))

		if usePersp {
			zOff := t[2] - perspZCenter
			depth := math.Max(perspCamDist-zOff, 0.1)
			factor := perspCamDist / depth
			t[0] = (t[0]-center[0])*factor + center[0]
			t[1] = (t[1]-center[1])*factor + center[1]
		}

		px[i] = (t[0]-center[0])*scale + half
		py[i] = -(t[1]-center[1])*scale + half
		pz[i] = t[2]
	}

	return px, py, pz
}
