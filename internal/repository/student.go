package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/matcher"
)

type StudentRepository struct {
	pool PgxPool
}

func NewStudentRepository(pool PgxPool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	query := `
		INSERT INTO students (id, name, roll_number, grade, teacher_id, face_embedding, face_image_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		student.ID,
		student.Name,
		student.RollNumber,
		student.Grade,
		student.TeacherID,
		toVector(student.FaceEmbedding),
		student.FaceImagePath,
	).Scan(&student.CreatedAt, &student.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRollNumberTaken
		}
		if isForeignKeyViolation(err) {
			return domain.ErrTeacherNotFound.WithError(err)
		}
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	query := `
		SELECT id, name, roll_number, grade, teacher_id, face_embedding, face_image_path, created_at, updated_at
		FROM students
		WHERE id = $1
	`

	var student domain.Student
	var embedding *pgvector.Vector
	var imagePath *string

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.Name,
		&student.RollNumber,
		&student.Grade,
		&student.TeacherID,
		&embedding,
		&imagePath,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}

	student.FaceEmbedding = fromVector(embedding)
	if imagePath != nil {
		student.FaceImagePath = *imagePath
	}

	return &student, nil
}

func (r *StudentRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]domain.Student, error) {
	query := `
		SELECT id, name, roll_number, grade, teacher_id, face_embedding, face_image_path, created_at, updated_at
		FROM students
		WHERE teacher_id = $1
		ORDER BY roll_number
	`

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		var student domain.Student
		var embedding *pgvector.Vector
		var imagePath *string

		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.RollNumber,
			&student.Grade,
			&student.TeacherID,
			&embedding,
			&imagePath,
			&student.CreatedAt,
			&student.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}

		student.FaceEmbedding = fromVector(embedding)
		if imagePath != nil {
			student.FaceImagePath = *imagePath
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	return students, nil
}

// UpdateFaceEmbedding overwrites the student's reference embedding, which
// is what a re-upload of the enrollment photo does.
func (r *StudentRepository) UpdateFaceEmbedding(ctx context.Context, id uuid.UUID, embedding []float64, imagePath string) error {
	query := `
		UPDATE students
		SET face_embedding = $2, face_image_path = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, toVector(embedding), imagePath)
	if err != nil {
		return fmt.Errorf("update face embedding: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrStudentNotFound
	}

	return nil
}

// Roster returns the matching roster for a teacher: only students that have
// a reference embedding, in roll-number order. The order matters: it is
// the tie-break order of the matcher.
func (r *StudentRepository) Roster(ctx context.Context, teacherID uuid.UUID) ([]matcher.Reference, error) {
	query := `
		SELECT id, name, roll_number, face_embedding
		FROM students
		WHERE teacher_id = $1 AND face_embedding IS NOT NULL
		ORDER BY roll_number
	`

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	defer rows.Close()

	var roster []matcher.Reference
	for rows.Next() {
		var ref matcher.Reference
		var embedding pgvector.Vector

		if err := rows.Scan(&ref.StudentID, &ref.Name, &ref.RollNumber, &embedding); err != nil {
			return nil, fmt.Errorf("scan roster entry: %w", err)
		}

		ref.Embedding = fromVector(&embedding)
		roster = append(roster, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	return roster, nil
}

func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrStudentNotFound
	}

	return nil
}
