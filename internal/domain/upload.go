package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProcessStatus classifies the outcome of a group-photo upload.
type ProcessStatus string

const (
	// StatusMatched: matching ran and attendance was reconciled.
	StatusMatched ProcessStatus = "matched"
	// StatusNoFaces: detection ran fine but found zero faces; everyone on
	// the roster was marked absent.
	StatusNoFaces ProcessStatus = "no_faces"
	// StatusNoEnrolledFaces: no student had a reference embedding, so no
	// comparison was possible. Not the same thing as "all absent".
	StatusNoEnrolledFaces ProcessStatus = "no_enrolled_faces"
	// StatusRecognitionUnavailable: the detection service could not run;
	// the upload was recorded but attendance was left untouched.
	StatusRecognitionUnavailable ProcessStatus = "recognition_unavailable"
	// StatusAttendanceFailed: matching succeeded but the attendance
	// transaction rolled back; no partial writes were committed.
	StatusAttendanceFailed ProcessStatus = "attendance_failed"
)

// FaceMatch é um registro de correspondência entre uma face detectada e um
// aluno. Faces sem correspondência acima do limiar não geram registro.
type FaceMatch struct {
	FaceIndex   int       `json:"face_index"`
	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student_name"`
	RollNumber  string    `json:"roll_number"`
	Similarity  float64   `json:"similarity"`
	// Box holds pixel coordinates [x1, y1, x2, y2].
	Box [4]int `json:"box"`
}

// Upload is the persisted record of one group-photo submission, including
// the structured match list (stored as JSONB).
type Upload struct {
	ID            uuid.UUID     `json:"id"`
	TeacherID     uuid.UUID     `json:"-"`
	Date          time.Time     `json:"date"`
	FileName      string        `json:"file_name"`
	FilePath      string        `json:"-"`
	AnnotatedPath string        `json:"annotated_path,omitempty"`
	FaceCount     int           `json:"face_count"`
	Status        ProcessStatus `json:"status"`
	Matches       []FaceMatch   `json:"matches"`
	UploadedAt    time.Time     `json:"uploaded_at"`
}
