package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/chamada/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/chamada/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/chamada/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/chamada/internal/config"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
	"github.com/saturnino-fabrica-de-software/chamada/internal/repository"
	"github.com/saturnino-fabrica-de-software/chamada/internal/service"
)

type Dependencies struct {
	DB           *pgxpool.Pool
	FaceDetector provider.FaceDetector
	Config       *config.Config
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Chamada API",
		BodyLimit:    12 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	if r.deps == nil {
		healthHandler := handler.NewHealthHandler(nil)
		r.app.Get("/health", healthHandler.Health)
		r.app.Get("/ready", healthHandler.Ready)
		return
	}

	healthHandler := handler.NewHealthHandler(r.deps.DB)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Fotos originais e anotadas ficam acessíveis para a tela de revisão.
	r.app.Static("/uploads", r.deps.Config.UploadDir)

	teacherRepo := repository.NewTeacherRepository(r.deps.DB)
	studentRepo := repository.NewStudentRepository(r.deps.DB)
	attendanceRepo := repository.NewAttendanceRepository(r.deps.DB)
	uploadRepo := repository.NewUploadRepository(r.deps.DB)

	attendanceService := service.NewAttendanceService(
		teacherRepo,
		studentRepo,
		attendanceRepo,
		uploadRepo,
		r.deps.FaceDetector,
		r.deps.Config.UploadDir,
		r.logger,
	).WithThreshold(r.deps.Config.MatchThreshold)

	teacherHandler := handler.NewTeacherHandler(attendanceService, r.logger)
	studentHandler := handler.NewStudentHandler(attendanceService, r.logger)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, r.logger)

	v1 := r.app.Group("/v1")

	v1.Post("/teachers", teacherHandler.Create)
	v1.Get("/teachers/:id", teacherHandler.Get)

	v1.Post("/students", studentHandler.Create)
	v1.Get("/students", studentHandler.List)
	v1.Post("/students/:id/face", studentHandler.EnrollFace)

	v1.Post("/attendance/photo", attendanceHandler.UploadPhoto)
	v1.Post("/attendance", attendanceHandler.Mark)
	v1.Get("/attendance", attendanceHandler.List)

	v1.Get("/uploads", attendanceHandler.ListUploads)
	v1.Get("/uploads/:id", attendanceHandler.GetUpload)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
