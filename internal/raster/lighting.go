package raster

import (
	"math"

	"ply-renderer/internal/mathutil"
	"ply-renderer/internal/trs"
)

// defaultExposure applies when a view entry sets no exposure.
const defaultExposure = 1.05

// Light is a directional light in screen space (X right, Y down, Z toward
// the viewer).
type Light struct {
	Dir      mathutil.Vec3
	Strength float64
}

// Lighting is the fixed thumbnail rig: a key light from the upper right,
// a rim light from behind, a sky fill and a Blinn-Phong highlight on the key.
type Lighting struct {
	Key, Rim   Light
	Ambient    float64
	Sky        float64
	Gloss      float64
	GlossPower float64
	Exposure   float64

	half mathutil.Vec3 // key/view half-vector
}

// NewLighting builds the rig for one model. Only exposure is taken from
// the view entry.
func NewLighting(e *trs.Entry) *Lighting {
	l := &Lighting{
		Key:        Light{Dir: mathutil.Vec3{180, 260, 140}.Normalize(), Strength: 1.50},
		Rim:        Light{Dir: mathutil.Vec3{-160, 130, -210}.Normalize(), Strength: 0.60},
		Ambient:    0.55,
		Sky:        0.50,
		Gloss:      0.45,
		GlossPower: 12,
		Exposure:   defaultExposure,
	}
	if e != nil && e.Exposure > 0 {
		l.Exposure = e.Exposure
	}
	view := mathutil.Vec3{0, -110, -400}.Normalize()
	l.half = l.Key.Dir.Sub(view).Normalize()
	return l
}

// Shade returns the light intensity for a unit screen-space normal.
// PLY winding is unreliable, so both sides of a surface are lit.
func (l *Lighting) Shade(n mathutil.Vec3) float64 {
	diffuse := math.Abs(n.Dot(l.Key.Dir))*l.Key.Strength +
		math.Abs(n.Dot(l.Rim.Dir))*l.Rim.Strength

	// Sky fill is strongest on surfaces seen edge-on from above or below.
	sky := (1 - math.Abs(n[1])*0.5) * l.Sky

	gloss := 0.0
	if ndh := n.Dot(l.half); ndh > 0 {
		gloss = math.Pow(ndh, l.GlossPower) * l.Gloss
	}
	return l.Ambient + sky + diffuse + gloss
}

// Texel lights one sRGB channel value: decode to linear, scale by shade and
// exposure, ACES tone map, re-encode.
func (l *Lighting) Texel(c uint8, shade float64) uint8 {
	t := acesFilmic(srgbToLinear[c] * shade * l.Exposure)
	return linearToSRGB[int(t*float64(len(linearToSRGB)-1)+0.5)]
}

var (
	srgbToLinear [256]float64
	linearToSRGB [4096]uint8 // indexed by tone-mapped value in [0, 1]
)

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math.Pow(float64(i)/255, 2.2)
	}
	for i := range linearToSRGB {
		linearToSRGB[i] = clamp255(math.Pow(float64(i)/float64(len(linearToSRGB)-1), 1/2.2) * 255)
	}
}

// acesFilmic is Narkowicz's fit of the ACES curve, clamped to [0, 1].
func acesFilmic(x float64) float64 {
	y := (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
	return math.Min(math.Max(y, 0), 1)
}
