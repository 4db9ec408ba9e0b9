package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

// TeacherService interface for the service
type TeacherService interface {
	CreateTeacher(ctx context.Context, teacher *domain.Teacher) error
	Teacher(ctx context.Context, id uuid.UUID) (*domain.Teacher, error)
}

type TeacherHandler struct {
	service TeacherService
	logger  *slog.Logger
}

func NewTeacherHandler(service TeacherService, logger *slog.Logger) *TeacherHandler {
	return &TeacherHandler{
		service: service,
		logger:  logger,
	}
}

type CreateTeacherRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TeacherResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func toTeacherResponse(t *domain.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Email:     t.Email,
		CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Create POST /v1/teachers - cadastra o professor dono da turma
func (h *TeacherHandler) Create(c *fiber.Ctx) error {
	var req CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	teacher := &domain.Teacher{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(strings.ToLower(req.Email)),
	}

	if err := h.service.CreateTeacher(c.Context(), teacher); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toTeacherResponse(teacher))
}

// Get GET /v1/teachers/:id - consulta um professor
func (h *TeacherHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	teacher, err := h.service.Teacher(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(toTeacherResponse(teacher))
}
