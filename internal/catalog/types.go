package catalog

// Model is one PLY file found under the model directory.
type Model struct {
	Name    string // file stem, e.g. "bunny"
	Path    string // full filesystem path
	RelPath string // slash-separated path relative to the scanned dir
}
