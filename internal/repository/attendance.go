package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

type AttendanceRepository struct {
	pool PgxPool
}

func NewAttendanceRepository(pool PgxPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// ReconcileResult reports how many rows an attendance reconciliation
// actually touched. Re-running the same reconciliation against an already
// reconciled day yields Written == 0.
type ReconcileResult struct {
	Written int
}

// upsertQuery creates or updates the single (student_id, date) record. The
// WHERE clause keeps the operation idempotent: an existing record with the
// same status is left alone, including its last_modified timestamp.
const upsertQuery = `
	INSERT INTO attendance (id, student_id, date, present, marked_by, last_modified)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (student_id, date) DO UPDATE
	SET present = EXCLUDED.present, marked_by = EXCLUDED.marked_by, last_modified = NOW()
	WHERE attendance.present IS DISTINCT FROM EXCLUDED.present
`

// Reconcile applies present/absent id sets for one day inside a single
// transaction. presentIDs and absentIDs are disjoint by construction in the
// matcher; any write failure rolls the whole batch back so attendance is
// never half-applied.
func (r *AttendanceRepository) Reconcile(ctx context.Context, date time.Time, markedBy uuid.UUID, presentIDs, absentIDs []uuid.UUID) (ReconcileResult, error) {
	var result ReconcileResult

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("begin reconciliation: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	day := domain.DateOnly(date)

	apply := func(ids []uuid.UUID, present bool) error {
		for _, studentID := range ids {
			tag, err := tx.Exec(ctx, upsertQuery, uuid.New(), studentID, day, present, markedBy)
			if err != nil {
				if isUniqueViolation(err) {
					// concurrent reconciliation for the same day; the
					// caller must serialize these per class/day
					return domain.ErrAttendanceConflict.WithError(err)
				}
				return fmt.Errorf("write attendance for student %s: %w", studentID, err)
			}
			result.Written += int(tag.RowsAffected())
		}
		return nil
	}

	if err := apply(presentIDs, true); err != nil {
		return ReconcileResult{}, err
	}
	if err := apply(absentIDs, false); err != nil {
		return ReconcileResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ReconcileResult{}, fmt.Errorf("commit reconciliation: %w", err)
	}

	return result, nil
}

// ListByTeacher returns the attendance rows for one teacher's students on
// one day, roll-number order.
func (r *AttendanceRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID, date time.Time) ([]domain.Attendance, error) {
	query := `
		SELECT a.id, a.student_id, a.date, a.present, a.marked_by, a.last_modified
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE s.teacher_id = $1 AND a.date = $2
		ORDER BY s.roll_number
	`

	rows, err := r.pool.Query(ctx, query, teacherID, domain.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var records []domain.Attendance
	for rows.Next() {
		var rec domain.Attendance
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.Date, &rec.Present, &rec.MarkedBy, &rec.LastModified); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	return records, nil
}
