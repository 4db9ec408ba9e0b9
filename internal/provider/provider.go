package provider

import (
	"context"
	"errors"
)

// ErrUnavailable means the underlying detection model/service could not be
// loaded or reached at all. Callers must treat this differently from an
// empty detection result: zero faces in a valid image is a normal outcome.
var ErrUnavailable = errors.New("face detection unavailable")

// ErrInvalidImage means the detector rejected the image itself (corrupt,
// truncated, unsupported format). Retrying will not help; the caller should
// reject the upload, not record an outage.
var ErrInvalidImage = errors.New("detector rejected the image")

// FaceDetector define a interface com o serviço de detecção facial.
// A extração de embeddings (pixels -> vetor 512) acontece inteiramente do
// outro lado desta fronteira; aqui só consumimos o contrato de saída.
type FaceDetector interface {
	// DetectFaces returns every face found in the image, in detection
	// order, each with its extracted embedding and pixel bounding box.
	// Embeddings are unit-norm: providers normalize once at extraction
	// time. A valid image with no faces yields an empty slice and nil
	// error; ErrUnavailable is returned (possibly wrapped) when the model
	// cannot run.
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)
}

// DetectedFace is one face found in an uploaded photo.
type DetectedFace struct {
	// Index is the zero-based position among all faces found in the photo.
	Index     int         `json:"index"`
	Embedding []float64   `json:"embedding"`
	Box       BoundingBox `json:"box"`
}

// BoundingBox holds pixel coordinates of the face area, [x1,y1] top-left
// and [x2,y2] bottom-right.
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Area in pixels². Used to pick the largest face at enrollment time.
func (b BoundingBox) Area() int {
	w := b.X2 - b.X1
	h := b.Y2 - b.Y1
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}
