package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

// AttendanceService interface for the service
type AttendanceService interface {
	ProcessGroupPhoto(ctx context.Context, teacherID uuid.UUID, date time.Time, fileName string, imageBytes []byte) (*domain.Upload, error)
	Mark(ctx context.Context, teacherID, studentID uuid.UUID, date time.Time, present bool) error
	DayAttendance(ctx context.Context, teacherID uuid.UUID, date time.Time) ([]domain.Attendance, error)
	Upload(ctx context.Context, id uuid.UUID) (*domain.Upload, error)
	Uploads(ctx context.Context, teacherID uuid.UUID, date time.Time) ([]domain.Upload, error)
}

type AttendanceHandler struct {
	service AttendanceService
	logger  *slog.Logger
}

func NewAttendanceHandler(service AttendanceService, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger,
	}
}

type MatchResponse struct {
	FaceIndex  int     `json:"face_index"`
	StudentID  string  `json:"student_id"`
	Name       string  `json:"name"`
	RollNumber string  `json:"roll_number"`
	Similarity float64 `json:"similarity"`
}

type UploadResponse struct {
	UploadID      string          `json:"upload_id"`
	Date          string          `json:"date"`
	Status        string          `json:"status"`
	FaceCount     int             `json:"face_count"`
	Matches       []MatchResponse `json:"matches"`
	AnnotatedPath string          `json:"annotated_path,omitempty"`
	UploadedAt    string          `json:"uploaded_at"`
}

func toUploadResponse(u *domain.Upload) UploadResponse {
	matches := make([]MatchResponse, 0, len(u.Matches))
	for _, m := range u.Matches {
		matches = append(matches, MatchResponse{
			FaceIndex:  m.FaceIndex,
			StudentID:  m.StudentID.String(),
			Name:       m.StudentName,
			RollNumber: m.RollNumber,
			Similarity: m.Similarity,
		})
	}

	return UploadResponse{
		UploadID:      u.ID.String(),
		Date:          u.Date.Format("2006-01-02"),
		Status:        string(u.Status),
		FaceCount:     u.FaceCount,
		Matches:       matches,
		AnnotatedPath: u.AnnotatedPath,
		UploadedAt:    u.UploadedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// UploadPhoto POST /v1/attendance/photo - processa a foto da turma
func (h *AttendanceHandler) UploadPhoto(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(strings.TrimSpace(c.FormValue("teacher_id")))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("teacher_id is required"))
	}

	date, err := formDate(c, "date")
	if err != nil {
		return err
	}

	fileName, imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return err
	}

	upload, err := h.service.ProcessGroupPhoto(c.Context(), teacherID, date, fileName, imageBytes)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toUploadResponse(upload))
}

type MarkRequest struct {
	TeacherID string `json:"teacher_id"`
	StudentID string `json:"student_id"`
	Date      string `json:"date"`
	Present   *bool  `json:"present"`
}

// Mark POST /v1/attendance - marca presença manualmente
func (h *AttendanceHandler) Mark(c *fiber.Ctx) error {
	var req MarkRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	teacherID, err := uuid.Parse(strings.TrimSpace(req.TeacherID))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("teacher_id is required"))
	}

	studentID, err := uuid.Parse(strings.TrimSpace(req.StudentID))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("student_id is required"))
	}

	if req.Present == nil {
		return domain.ErrValidationFailed.WithError(errors.New("present is required"))
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	if err := h.service.Mark(c.Context(), teacherID, studentID, date, *req.Present); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type AttendanceRecordResponse struct {
	StudentID    string `json:"student_id"`
	Present      bool   `json:"present"`
	LastModified string `json:"last_modified"`
}

// List GET /v1/attendance?teacher_id=...&date=... - presença do dia
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	teacherID, err := queryUUID(c, "teacher_id")
	if err != nil {
		return err
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		return err
	}

	records, err := h.service.DayAttendance(c.Context(), teacherID, date)
	if err != nil {
		return err
	}

	resp := make([]AttendanceRecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, AttendanceRecordResponse{
			StudentID:    rec.StudentID.String(),
			Present:      rec.Present,
			LastModified: rec.LastModified.Format("2006-01-02T15:04:05Z"),
		})
	}

	return c.JSON(fiber.Map{
		"date":    domain.DateOnly(date).Format("2006-01-02"),
		"records": resp,
	})
}

// ListUploads GET /v1/uploads?teacher_id=...&date=...
func (h *AttendanceHandler) ListUploads(c *fiber.Ctx) error {
	teacherID, err := queryUUID(c, "teacher_id")
	if err != nil {
		return err
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		return err
	}

	uploads, err := h.service.Uploads(c.Context(), teacherID, date)
	if err != nil {
		return err
	}

	resp := make([]UploadResponse, 0, len(uploads))
	for i := range uploads {
		resp = append(resp, toUploadResponse(&uploads[i]))
	}

	return c.JSON(fiber.Map{"uploads": resp})
}

// GetUpload GET /v1/uploads/:id
func (h *AttendanceHandler) GetUpload(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid upload id"))
	}

	upload, err := h.service.Upload(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(toUploadResponse(upload))
}

func formDate(c *fiber.Ctx, name string) (time.Time, error) {
	return parseDate(c.FormValue(name))
}

// parseDate aceita YYYY-MM-DD; vazio significa hoje.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC(), nil
	}

	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, domain.ErrValidationFailed.WithError(errors.New("date must be YYYY-MM-DD"))
	}
	return date, nil
}
