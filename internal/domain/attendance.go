package domain

import (
	"time"

	"github.com/google/uuid"
)

// Attendance é o registro de presença de um aluno em um dia.
// Invariante: no máximo um registro por (student_id, date).
type Attendance struct {
	ID           uuid.UUID `json:"id"`
	StudentID    uuid.UUID `json:"student_id"`
	Date         time.Time `json:"date"`
	Present      bool      `json:"present"`
	MarkedBy     uuid.UUID `json:"marked_by"`
	LastModified time.Time `json:"last_modified"`
}

// DateOnly truncates a timestamp to the calendar day used as attendance key.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
