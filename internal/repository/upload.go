package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

type UploadRepository struct {
	pool PgxPool
}

func NewUploadRepository(pool PgxPool) *UploadRepository {
	return &UploadRepository{pool: pool}
}

// Create persists a group-photo upload record. The structured match list
// is stored as JSONB alongside the file metadata, so the outcome stays
// auditable even after attendance records change.
func (r *UploadRepository) Create(ctx context.Context, upload *domain.Upload) error {
	query := `
		INSERT INTO uploads (id, teacher_id, date, file_name, file_path, annotated_path, face_count, status, matches, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING uploaded_at
	`

	if upload.ID == uuid.Nil {
		upload.ID = uuid.New()
	}
	if upload.Matches == nil {
		upload.Matches = []domain.FaceMatch{}
	}

	matches, err := json.Marshal(upload.Matches)
	if err != nil {
		return fmt.Errorf("marshal match results: %w", err)
	}

	var annotated *string
	if upload.AnnotatedPath != "" {
		annotated = &upload.AnnotatedPath
	}

	err = r.pool.QueryRow(ctx, query,
		upload.ID,
		upload.TeacherID,
		domain.DateOnly(upload.Date),
		upload.FileName,
		upload.FilePath,
		annotated,
		upload.FaceCount,
		string(upload.Status),
		matches,
	).Scan(&upload.UploadedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrTeacherNotFound.WithError(err)
		}
		return fmt.Errorf("create upload: %w", err)
	}

	return nil
}

func (r *UploadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Upload, error) {
	query := `
		SELECT id, teacher_id, date, file_name, file_path, annotated_path, face_count, status, matches, uploaded_at
		FROM uploads
		WHERE id = $1
	`

	var upload domain.Upload
	var annotated *string
	var status string
	var matches []byte

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&upload.ID,
		&upload.TeacherID,
		&upload.Date,
		&upload.FileName,
		&upload.FilePath,
		&annotated,
		&upload.FaceCount,
		&status,
		&matches,
		&upload.UploadedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUploadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get upload: %w", err)
	}

	if annotated != nil {
		upload.AnnotatedPath = *annotated
	}
	upload.Status = domain.ProcessStatus(status)

	if err := json.Unmarshal(matches, &upload.Matches); err != nil {
		return nil, fmt.Errorf("unmarshal match results: %w", err)
	}

	return &upload, nil
}

func (r *UploadRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID, date time.Time) ([]domain.Upload, error) {
	query := `
		SELECT id, teacher_id, date, file_name, file_path, annotated_path, face_count, status, matches, uploaded_at
		FROM uploads
		WHERE teacher_id = $1 AND date = $2
		ORDER BY uploaded_at DESC
	`

	rows, err := r.pool.Query(ctx, query, teacherID, domain.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []domain.Upload
	for rows.Next() {
		var upload domain.Upload
		var annotated *string
		var status string
		var matches []byte

		if err := rows.Scan(
			&upload.ID,
			&upload.TeacherID,
			&upload.Date,
			&upload.FileName,
			&upload.FilePath,
			&annotated,
			&upload.FaceCount,
			&status,
			&matches,
			&upload.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}

		if annotated != nil {
			upload.AnnotatedPath = *annotated
		}
		upload.Status = domain.ProcessStatus(status)

		if err := json.Unmarshal(matches, &upload.Matches); err != nil {
			return nil, fmt.Errorf("unmarshal match results: %w", err)
		}

		uploads = append(uploads, upload)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	return uploads, nil
}
