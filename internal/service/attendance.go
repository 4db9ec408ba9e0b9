package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/chamada/internal/annotate"
	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/matcher"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
	"github.com/saturnino-fabrica-de-software/chamada/internal/repository"
)

type TeacherRepositoryInterface interface {
	Create(ctx context.Context, teacher *domain.Teacher) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Teacher, error)
}

type StudentRepositoryInterface interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]domain.Student, error)
	UpdateFaceEmbedding(ctx context.Context, id uuid.UUID, embedding []float64, imagePath string) error
	Roster(ctx context.Context, teacherID uuid.UUID) ([]matcher.Reference, error)
}

type AttendanceRepositoryInterface interface {
	Reconcile(ctx context.Context, date time.Time, markedBy uuid.UUID, presentIDs, absentIDs []uuid.UUID) (repository.ReconcileResult, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, date time.Time) ([]domain.Attendance, error)
}

type UploadRepositoryInterface interface {
	Create(ctx context.Context, upload *domain.Upload) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Upload, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, date time.Time) ([]domain.Upload, error)
}

// AttendanceService orchestra o fluxo completo: detecção de rostos,
// matching contra o roster, anotação da foto e reconciliação da presença.
type AttendanceService struct {
	teachers   TeacherRepositoryInterface
	students   StudentRepositoryInterface
	attendance AttendanceRepositoryInterface
	uploads    UploadRepositoryInterface
	detector   provider.FaceDetector
	matcher    *matcher.Matcher
	uploadDir  string
	logger     *slog.Logger

	// annotateFn is swappable in tests; production uses annotate.GroupPhoto.
	annotateFn func(srcPath string, faces []provider.DetectedFace, matches []domain.FaceMatch, scores []float64) (string, error)
}

func NewAttendanceService(
	teachers TeacherRepositoryInterface,
	students StudentRepositoryInterface,
	attendance AttendanceRepositoryInterface,
	uploads UploadRepositoryInterface,
	detector provider.FaceDetector,
	uploadDir string,
	logger *slog.Logger,
) *AttendanceService {
	return &AttendanceService{
		teachers:   teachers,
		students:   students,
		attendance: attendance,
		uploads:    uploads,
		detector:   detector,
		matcher:    matcher.NewDefault(),
		uploadDir:  uploadDir,
		logger:     logger,
		annotateFn: annotate.GroupPhoto,
	}
}

func (s *AttendanceService) WithThreshold(threshold float64) *AttendanceService {
	s.matcher = matcher.New(threshold)
	return s
}

func (s *AttendanceService) CreateTeacher(ctx context.Context, teacher *domain.Teacher) error {
	if teacher.Name == "" || teacher.Email == "" {
		return domain.ErrValidationFailed
	}
	return s.teachers.Create(ctx, teacher)
}

func (s *AttendanceService) Teacher(ctx context.Context, id uuid.UUID) (*domain.Teacher, error) {
	return s.teachers.GetByID(ctx, id)
}

func (s *AttendanceService) CreateStudent(ctx context.Context, student *domain.Student) error {
	if student.Name == "" || student.RollNumber == "" {
		return domain.ErrValidationFailed
	}
	return s.students.Create(ctx, student)
}

func (s *AttendanceService) Students(ctx context.Context, teacherID uuid.UUID) ([]domain.Student, error) {
	return s.students.ListByTeacher(ctx, teacherID)
}

// Enroll extracts the reference embedding for one student from an
// individual photo. When the photo contains several faces the largest
// bounding box wins, on the assumption that the subject dominates the
// frame. Re-enrolling overwrites the previous embedding.
func (s *AttendanceService) Enroll(ctx context.Context, studentID uuid.UUID, fileName string, imageBytes []byte) (*domain.Student, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	faces, err := s.detector.DetectFaces(ctx, imageBytes)
	if err != nil {
		if errors.Is(err, provider.ErrUnavailable) {
			return nil, domain.ErrRecognitionUnavailable.WithError(err)
		}
		if errors.Is(err, provider.ErrInvalidImage) {
			return nil, domain.ErrInvalidImage.WithError(err)
		}
		return nil, fmt.Errorf("student %s: detect faces: %w", studentID, err)
	}

	if len(faces) == 0 {
		return nil, domain.ErrNoFaceDetected
	}

	best := faces[0]
	for _, face := range faces[1:] {
		if face.Box.Area() > best.Box.Area() {
			best = face
		}
	}

	imagePath, err := s.saveFile(filepath.Join("faces", studentID.String()+extension(fileName)), imageBytes)
	if err != nil {
		return nil, err
	}

	if err := s.students.UpdateFaceEmbedding(ctx, studentID, best.Embedding, imagePath); err != nil {
		return nil, err
	}

	student.FaceEmbedding = best.Embedding
	student.FaceImagePath = imagePath
	return student, nil
}

// ProcessGroupPhoto runs the full attendance pipeline for one class photo.
// Pipeline outcomes degrade into the upload's Status instead of bubbling up
// as errors: a day without detectable faces or a recognition outage is a
// recorded result the caller can show, not a failed request. Only input
// validation and persistence of the upload record itself return errors.
func (s *AttendanceService) ProcessGroupPhoto(ctx context.Context, teacherID uuid.UUID, date time.Time, fileName string, imageBytes []byte) (*domain.Upload, error) {
	if len(imageBytes) == 0 {
		return nil, domain.ErrInvalidImage
	}

	upload := &domain.Upload{
		ID:        uuid.New(),
		TeacherID: teacherID,
		Date:      domain.DateOnly(date),
		FileName:  fileName,
	}

	filePath, err := s.saveFile(upload.ID.String()+extension(fileName), imageBytes)
	if err != nil {
		return nil, err
	}
	upload.FilePath = filePath

	faces, err := s.detector.DetectFaces(ctx, imageBytes)
	if err != nil {
		if errors.Is(err, provider.ErrUnavailable) {
			s.logger.Error("serviço de reconhecimento indisponível",
				"teacher_id", teacherID, "upload_id", upload.ID, "error", err)
			upload.Status = domain.StatusRecognitionUnavailable
			return s.record(ctx, upload)
		}
		if errors.Is(err, provider.ErrInvalidImage) {
			return nil, domain.ErrInvalidImage.WithError(err)
		}
		return nil, fmt.Errorf("teacher %s: detect faces: %w", teacherID, err)
	}

	upload.FaceCount = len(faces)

	roster, err := s.students.Roster(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	if len(roster) == 0 {
		// Nobody is enrolled, so there is no one to compare against and
		// no one to be absent. This wins over "no faces": both can hold
		// at once and the enrollment gap is the actionable condition.
		upload.Status = domain.StatusNoEnrolledFaces
		if len(faces) > 0 {
			s.annotatePhoto(upload, faces, nil, nil)
		}
		return s.record(ctx, upload)
	}

	// A photo with zero faces still reconciles: everyone on the roster is
	// marked absent for the day.
	outcome := s.matcher.Match(faces, roster)
	upload.Matches = outcome.Matches
	if len(faces) > 0 {
		s.annotatePhoto(upload, faces, outcome.Matches, outcome.Scores)
	}

	result, err := s.attendance.Reconcile(ctx, date, teacherID, outcome.PresentIDs, outcome.AbsentIDs)
	if err != nil {
		s.logger.Error("falha ao reconciliar presença",
			"teacher_id", teacherID, "upload_id", upload.ID, "error", err)
		upload.Status = domain.StatusAttendanceFailed
		return s.record(ctx, upload)
	}

	s.logger.Info("chamada processada",
		"teacher_id", teacherID,
		"upload_id", upload.ID,
		"faces", outcome.FaceCount,
		"matched", len(outcome.Matches),
		"present", len(outcome.PresentIDs),
		"absent", len(outcome.AbsentIDs),
		"written", result.Written,
	)

	if len(faces) == 0 {
		upload.Status = domain.StatusNoFaces
	} else {
		upload.Status = domain.StatusMatched
	}
	return s.record(ctx, upload)
}

// Mark sets one student's attendance by hand, for corrections after the
// photo run. It reuses the reconciliation upsert, so re-marking the same
// status is a no-op.
func (s *AttendanceService) Mark(ctx context.Context, teacherID, studentID uuid.UUID, date time.Time, present bool) error {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if student.TeacherID != teacherID {
		return domain.ErrStudentNotFound
	}

	var presentIDs, absentIDs []uuid.UUID
	if present {
		presentIDs = []uuid.UUID{studentID}
	} else {
		absentIDs = []uuid.UUID{studentID}
	}

	_, err = s.attendance.Reconcile(ctx, date, teacherID, presentIDs, absentIDs)
	return err
}

func (s *AttendanceService) DayAttendance(ctx context.Context, teacherID uuid.UUID, date time.Time) ([]domain.Attendance, error) {
	return s.attendance.ListByTeacher(ctx, teacherID, date)
}

func (s *AttendanceService) Upload(ctx context.Context, id uuid.UUID) (*domain.Upload, error) {
	return s.uploads.GetByID(ctx, id)
}

func (s *AttendanceService) Uploads(ctx context.Context, teacherID uuid.UUID, date time.Time) ([]domain.Upload, error) {
	return s.uploads.ListByTeacher(ctx, teacherID, date)
}

// annotatePhoto draws the boxes onto a copy of the stored photo. Failure
// here never fails the run; the original photo remains available.
func (s *AttendanceService) annotatePhoto(upload *domain.Upload, faces []provider.DetectedFace, matches []domain.FaceMatch, scores []float64) {
	annotated, err := s.annotateFn(upload.FilePath, faces, matches, scores)
	if err != nil {
		s.logger.Warn("falha ao anotar foto", "upload_id", upload.ID, "error", err)
		return
	}
	upload.AnnotatedPath = annotated
}

func (s *AttendanceService) record(ctx context.Context, upload *domain.Upload) (*domain.Upload, error) {
	if err := s.uploads.Create(ctx, upload); err != nil {
		return nil, err
	}
	return upload, nil
}

func (s *AttendanceService) saveFile(name string, data []byte) (string, error) {
	path := filepath.Join(s.uploadDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path, nil
}

func extension(fileName string) string {
	ext := filepath.Ext(fileName)
	if ext == "" {
		return ".jpg"
	}
	return ext
}
