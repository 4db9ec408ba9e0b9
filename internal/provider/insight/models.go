package insight

// DetectRequest for POST /detect
type DetectRequest struct {
	Img      string `json:"img"`      // base64 encoded image
	Model    string `json:"model"`    // "buffalo_s", "buffalo_l"
	DetSize  int    `json:"det_size"` // detector input size, e.g. 640
	MaxFaces int    `json:"max_faces,omitempty"`
}

// DetectResponse from POST /detect
type DetectResponse struct {
	Faces []DetectedFaceResult `json:"faces"`
}

type DetectedFaceResult struct {
	// Embedding is the ArcFace vector for this face. The sidecar exposes
	// exactly one accessor for it; there is no fallback field.
	Embedding []float64 `json:"embedding"`
	// BBox is [x1, y1, x2, y2] in pixel coordinates.
	BBox [4]int `json:"bbox"`
}
