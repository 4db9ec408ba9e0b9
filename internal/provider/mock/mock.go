package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"github.com/saturnino-fabrica-de-software/chamada/internal/embedding"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
)

// Provider implementa provider.FaceDetector para testes e desenvolvimento.
// Gera uma única face determinística a partir do hash da imagem, de modo
// que a mesma imagem sempre produz o mesmo embedding.
type Provider struct{}

var _ provider.FaceDetector = (*Provider)(nil)

// New cria uma nova instância do mock
func New() *Provider {
	return &Provider{}
}

// DetectFaces simula detecção: imagens muito pequenas são rejeitadas,
// qualquer outra produz exatamente uma face.
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) < 1000 {
		return []provider.DetectedFace{}, nil
	}

	return []provider.DetectedFace{
		{
			Index:     0,
			Embedding: generateEmbedding(image),
			Box:       provider.BoundingBox{X1: 10, Y1: 10, X2: 110, Y2: 110},
		},
	}, nil
}

// generateEmbedding derives a deterministic unit-norm vector from the image
// bytes. Similar images do not yield similar vectors; only identity is
// preserved, which is all the tests need.
func generateEmbedding(image []byte) []float64 {
	seed := sha256.Sum256(image)

	v := make([]float64, embedding.Dim)
	for i := 0; i < embedding.Dim; i++ {
		word := binary.BigEndian.Uint32(seed[(i*4)%28 : (i*4)%28+4])
		// mix the index in so the vector is not periodic
		v[i] = float64((word+uint32(i)*2654435761)%10007) - 5003
	}

	return embedding.Normalize(v)
}
