package face

import (
	"fmt"

	"github.com/saturnino-fabrica-de-software/chamada/internal/config"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider/insight"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider/mock"
)

// DetectorType defines supported face detection provider types
type DetectorType string

const (
	// DetectorTypeInsight is the InsightFace/ArcFace sidecar (default)
	DetectorTypeInsight DetectorType = "insight"
	// DetectorTypeMock is the deterministic in-memory detector (dev/test)
	DetectorTypeMock DetectorType = "mock"
)

// NewFaceDetector creates a FaceDetector instance based on configuration.
//
// Environment variables:
//   - FACE_PROVIDER: "insight" or "mock" (default: "insight")
//   - INSIGHT_URL: insight sidecar URL (default: "http://localhost:18081")
func NewFaceDetector(cfg *config.Config) (provider.FaceDetector, error) {
	detectorType := DetectorType(cfg.FaceProvider)

	switch detectorType {
	case DetectorTypeInsight, "":
		return createInsightProvider(cfg), nil

	case DetectorTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s)",
			cfg.FaceProvider, DetectorTypeInsight, DetectorTypeMock)
	}
}

func createInsightProvider(cfg *config.Config) provider.FaceDetector {
	insightConfig := insight.DefaultConfig()
	if cfg.InsightURL != "" {
		insightConfig.BaseURL = cfg.InsightURL
	}
	return insight.NewProvider(insightConfig)
}
