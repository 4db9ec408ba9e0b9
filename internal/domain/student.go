package domain

import (
	"time"

	"github.com/google/uuid"
)

// Student representa um aluno cadastrado por um professor
type Student struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	RollNumber string    `json:"roll_number"`
	Grade      string    `json:"grade"`
	TeacherID  uuid.UUID `json:"-"`

	// FaceEmbedding is the reference embedding captured at enrollment.
	// nil when no face was ever detected in an enrollment photo; when
	// present it has exactly embedding.Dim elements and unit norm.
	FaceEmbedding []float64 `json:"-"`
	FaceImagePath string    `json:"face_image_path,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasReferenceEmbedding reports whether the student can take part in
// group-photo matching.
func (s *Student) HasReferenceEmbedding() bool {
	return len(s.FaceEmbedding) > 0
}
