package domain

import (
	"time"

	"github.com/google/uuid"
)

// Teacher representa um professor, dono de uma turma de alunos
type Teacher struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
