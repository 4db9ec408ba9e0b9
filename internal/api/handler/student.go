package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// StudentService interface for the service
type StudentService interface {
	CreateStudent(ctx context.Context, student *domain.Student) error
	Students(ctx context.Context, teacherID uuid.UUID) ([]domain.Student, error)
	Enroll(ctx context.Context, studentID uuid.UUID, fileName string, imageBytes []byte) (*domain.Student, error)
}

type StudentHandler struct {
	service StudentService
	logger  *slog.Logger
}

func NewStudentHandler(service StudentService, logger *slog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger,
	}
}

type CreateStudentRequest struct {
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
	Grade      string `json:"grade"`
	TeacherID  string `json:"teacher_id"`
}

type StudentResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
	Grade      string `json:"grade"`
	Enrolled   bool   `json:"enrolled"`
	CreatedAt  string `json:"created_at"`
}

func toStudentResponse(s *domain.Student) StudentResponse {
	return StudentResponse{
		ID:         s.ID.String(),
		Name:       s.Name,
		RollNumber: s.RollNumber,
		Grade:      s.Grade,
		Enrolled:   s.HasReferenceEmbedding(),
		CreatedAt:  s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Create POST /v1/students - cadastra um aluno (ainda sem foto de referência)
func (h *StudentHandler) Create(c *fiber.Ctx) error {
	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	teacherID, err := uuid.Parse(strings.TrimSpace(req.TeacherID))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("teacher_id is required"))
	}

	student := &domain.Student{
		Name:       strings.TrimSpace(req.Name),
		RollNumber: strings.TrimSpace(req.RollNumber),
		Grade:      strings.TrimSpace(req.Grade),
		TeacherID:  teacherID,
	}

	if err := h.service.CreateStudent(c.Context(), student); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toStudentResponse(student))
}

// List GET /v1/students?teacher_id=... - lista os alunos de um professor
func (h *StudentHandler) List(c *fiber.Ctx) error {
	teacherID, err := queryUUID(c, "teacher_id")
	if err != nil {
		return err
	}

	students, err := h.service.Students(c.Context(), teacherID)
	if err != nil {
		return err
	}

	resp := make([]StudentResponse, 0, len(students))
	for i := range students {
		resp = append(resp, toStudentResponse(&students[i]))
	}

	return c.JSON(fiber.Map{"students": resp})
}

// EnrollFace POST /v1/students/:id/face - registra a foto de referência
func (h *StudentHandler) EnrollFace(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid student id"))
	}

	fileName, imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return err
	}

	student, err := h.service.Enroll(c.Context(), studentID, fileName, imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(toStudentResponse(student))
}

func queryUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed.WithError(errors.New(name + " is required"))
	}
	return id, nil
}

func extractAndValidateImage(c *fiber.Ctx) (string, []byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil, domain.ErrValidationFailed.WithError(err)
	}

	if file.Size == 0 || file.Size > maxImageSize {
		return "", nil, domain.ErrInvalidImage.WithError(nil)
	}

	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return "", nil, domain.ErrInvalidImage.WithError(nil)
	}

	f, err := file.Open()
	if err != nil {
		return "", nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return "", nil, domain.ErrInvalidImage.WithError(err)
	}

	return file.Filename, imageBytes, nil
}
