package face

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/chamada/internal/config"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider/insight"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider/mock"
)

func TestNewFaceDetector(t *testing.T) {
	tests := []struct {
		name         string
		faceProvider string
		wantErr      bool
		wantType     interface{}
	}{
		{"insight explicit", "insight", false, &insight.Provider{}},
		{"empty defaults to insight", "", false, &insight.Provider{}},
		{"mock", "mock", false, &mock.Provider{}},
		{"unknown", "rekognition", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				FaceProvider: tt.faceProvider,
				InsightURL:   "http://localhost:18081",
			}

			det, err := NewFaceDetector(cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.wantType, det)
		})
	}
}
