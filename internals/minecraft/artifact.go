package minecraft

// Artifact is an object describing a single downloadable file.
// It is used for libraries, the client jar itself, asset objects and the
// logging config.
type Artifact struct {
	// Path of the file relative to the libraries folder.
	// Not set for the minecraft client itself
	Path string `json:"path,omitempty"`
	Sha1 string `json:"sha1"`
	// Size in bytes
	Size int64  `json:"size"`
	URL  string `json:"url"`
}
