package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

type TeacherRepository struct {
	pool PgxPool
}

func NewTeacherRepository(pool PgxPool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

func (r *TeacherRepository) Create(ctx context.Context, teacher *domain.Teacher) error {
	query := `
		INSERT INTO teachers (id, name, email, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`

	if teacher.ID == uuid.Nil {
		teacher.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		teacher.ID,
		teacher.Name,
		teacher.Email,
	).Scan(&teacher.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create teacher: %w", err)
	}

	return nil
}

func (r *TeacherRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Teacher, error) {
	query := `
		SELECT id, name, email, created_at
		FROM teachers
		WHERE id = $1
	`

	var teacher domain.Teacher
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&teacher.ID,
		&teacher.Name,
		&teacher.Email,
		&teacher.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTeacherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}

	return &teacher, nil
}
