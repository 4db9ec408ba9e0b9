package insight

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/saturnino-fabrica-de-software/chamada/internal/embedding"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
)

// Provider implements provider.FaceDetector against the insight sidecar.
type Provider struct {
	client *Client
}

// Garantia em tempo de compilação
var _ provider.FaceDetector = (*Provider)(nil)

func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// DetectFaces returns every face in the image, in detection order, each with
// a unit-norm 512-dim embedding and its pixel bounding box.
//
// Normalization happens here, once, at extraction time. Comparisons further
// down the pipeline assume unit vectors and never re-normalize.
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("detect faces: %w: %w", provider.ErrInvalidImage, ErrInvalidImage)
	}

	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Detect(ctx, imageBase64)
	if err != nil {
		if isClientError(err) {
			// sidecar rejected the request; the image is the problem
			return nil, fmt.Errorf("detect faces: %w: %w", provider.ErrInvalidImage, err)
		}
		// service down, model not loaded, network exhausted retries
		return nil, fmt.Errorf("detect faces: %w: %v", provider.ErrUnavailable, err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Faces))
	for i, f := range resp.Faces {
		emb := f.Embedding
		if len(emb) != embedding.Dim {
			// skip faces the sidecar could not embed properly
			continue
		}
		if !embedding.IsNormalized(emb) {
			emb = embedding.Normalize(emb)
		}

		faces = append(faces, provider.DetectedFace{
			Index:     i,
			Embedding: emb,
			Box: provider.BoundingBox{
				X1: f.BBox[0],
				Y1: f.BBox[1],
				X2: f.BBox[2],
				Y2: f.BBox[3],
			},
		})
	}

	return faces, nil
}
