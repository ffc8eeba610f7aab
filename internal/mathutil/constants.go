package mathutil

import "math"

// Camera and axis-correction matrices shared by the renderer.
var (
	// ZUpToYUp rotates Z-up scan data into the renderer's Y-up frame: Rx(-90°)
	ZUpToYUp = RotX(math.Pi / -2)

	// CamFront looks straight down -Z.
	CamFront = Mat3Identity()

	// CamThreeQuarter is the default thumbnail camera: Rx(20°) @ Ry(-35°)
	CamThreeQuarter = Mat3Mul(RotX(Deg2Rad(20)), RotY(Deg2Rad(-35)))

	// CamTop looks down the Y axis.
	CamTop = RotX(Deg2Rad(90))

	// CamSide looks along +X.
	CamSide = RotY(Deg2Rad(-90))
)

// Cameras maps the names accepted in views.json to camera matrices.
var Cameras = map[string]Mat3{
	"front": CamFront,
	"iso":   CamThreeQuarter,
	"top":   CamTop,
	"side":  CamSide,
}
