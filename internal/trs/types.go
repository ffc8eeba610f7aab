package trs

// Entry holds per-model view settings from views.json.
type Entry struct {
	RotX, RotY, RotZ float64 // model rotation in degrees, applied before the camera
	Up               string  // "y" (default) or "z"
	Camera           string  // "", "front", "iso", "top", "side"

	Perspective bool
	FOV         float64 // field of view in degrees (default 60)
	FillRatio   float64 // canvas fill fraction; 0 defers to the run config
	FlipCanvas  bool    // mirror the final image left-to-right
	KeepSpecks  bool    // skip small-cluster removal
	Isolate     bool    // keep only the largest connected silhouette
	Exposure    float64 // light exposure; 0 uses the renderer default
}

// DefaultFOV is the default field of view.
const DefaultFOV = 60.0

// DefaultCamera is used when an entry names no camera.
const DefaultCamera = "iso"

// Default returns the entry used for models without an override.
func Default() *Entry {
	return &Entry{
		Up:        "y",
		Camera:    DefaultCamera,
		FOV:       DefaultFOV,
	}
}
