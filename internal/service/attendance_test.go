package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/embedding"
	"github.com/saturnino-fabrica-de-software/chamada/internal/matcher"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
	"github.com/saturnino-fabrica-de-software/chamada/internal/repository"
)

type MockTeacherRepository struct {
	mock.Mock
}

func (m *MockTeacherRepository) Create(ctx context.Context, teacher *domain.Teacher) error {
	args := m.Called(ctx, teacher)
	return args.Error(0)
}

func (m *MockTeacherRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Teacher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Teacher), args.Error(1)
}

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]domain.Student, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentRepository) UpdateFaceEmbedding(ctx context.Context, id uuid.UUID, emb []float64, imagePath string) error {
	args := m.Called(ctx, id, emb, imagePath)
	return args.Error(0)
}

func (m *MockStudentRepository) Roster(ctx context.Context, teacherID uuid.UUID) ([]matcher.Reference, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]matcher.Reference), args.Error(1)
}

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Reconcile(ctx context.Context, date time.Time, markedBy uuid.UUID, presentIDs, absentIDs []uuid.UUID) (repository.ReconcileResult, error) {
	args := m.Called(ctx, date, markedBy, presentIDs, absentIDs)
	return args.Get(0).(repository.ReconcileResult), args.Error(1)
}

func (m *MockAttendanceRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID, date time.Time) ([]domain.Attendance, error) {
	args := m.Called(ctx, teacherID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attendance), args.Error(1)
}

type MockUploadRepository struct {
	mock.Mock
}

func (m *MockUploadRepository) Create(ctx context.Context, upload *domain.Upload) error {
	args := m.Called(ctx, upload)
	return args.Error(0)
}

func (m *MockUploadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Upload, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Upload), args.Error(1)
}

func (m *MockUploadRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID, date time.Time) ([]domain.Upload, error) {
	args := m.Called(ctx, teacherID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Upload), args.Error(1)
}

type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.DetectedFace), args.Error(1)
}

// unitVector builds a 512-dim unit vector along the given axis.
func unitVector(axis int) []float64 {
	v := make([]float64, embedding.Dim)
	v[axis] = 1.0
	return v
}

func newTestService(t *testing.T, students *MockStudentRepository, attendance *MockAttendanceRepository, uploads *MockUploadRepository, detector *MockDetector) *AttendanceService {
	t.Helper()
	return &AttendanceService{
		students:   students,
		attendance: attendance,
		uploads:    uploads,
		detector:   detector,
		matcher:    matcher.NewDefault(),
		uploadDir:  t.TempDir(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		annotateFn: func(srcPath string, faces []provider.DetectedFace, matches []domain.FaceMatch, scores []float64) (string, error) {
			return srcPath + ".annotated", nil
		},
	}
}

func TestAttendanceService_Enroll(t *testing.T) {
	studentID := uuid.New()
	teacherID := uuid.New()

	tests := []struct {
		name       string
		setupMocks func(*MockStudentRepository, *MockDetector)
		wantErr    error
	}{
		{
			name: "successful enrollment",
			setupMocks: func(sr *MockStudentRepository, fd *MockDetector) {
				sr.On("GetByID", mock.Anything, studentID).Return(&domain.Student{ID: studentID, TeacherID: teacherID}, nil)
				fd.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{
					{Index: 0, Embedding: unitVector(0), Box: provider.BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}},
				}, nil)
				sr.On("UpdateFaceEmbedding", mock.Anything, studentID, unitVector(0), mock.Anything).Return(nil)
			},
		},
		{
			name: "largest face wins when several are present",
			setupMocks: func(sr *MockStudentRepository, fd *MockDetector) {
				sr.On("GetByID", mock.Anything, studentID).Return(&domain.Student{ID: studentID, TeacherID: teacherID}, nil)
				fd.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{
					{Index: 0, Embedding: unitVector(0), Box: provider.BoundingBox{X1: 0, Y1: 0, X2: 40, Y2: 40}},
					{Index: 1, Embedding: unitVector(1), Box: provider.BoundingBox{X1: 0, Y1: 0, X2: 200, Y2: 200}},
					{Index: 2, Embedding: unitVector(2), Box: provider.BoundingBox{X1: 0, Y1: 0, X2: 30, Y2: 90}},
				}, nil)
				// the 200x200 face, not the first one
				sr.On("UpdateFaceEmbedding", mock.Anything, studentID, unitVector(1), mock.Anything).Return(nil)
			},
		},
		{
			name: "no face in photo",
			setupMocks: func(sr *MockStudentRepository, fd *MockDetector) {
				sr.On("GetByID", mock.Anything, studentID).Return(&domain.Student{ID: studentID, TeacherID: teacherID}, nil)
				fd.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{}, nil)
			},
			wantErr: domain.ErrNoFaceDetected,
		},
		{
			name: "recognition service down",
			setupMocks: func(sr *MockStudentRepository, fd *MockDetector) {
				sr.On("GetByID", mock.Anything, studentID).Return(&domain.Student{ID: studentID, TeacherID: teacherID}, nil)
				fd.On("DetectFaces", mock.Anything, mock.Anything).Return(nil, provider.ErrUnavailable)
			},
			wantErr: domain.ErrRecognitionUnavailable,
		},
		{
			name: "student not found",
			setupMocks: func(sr *MockStudentRepository, fd *MockDetector) {
				sr.On("GetByID", mock.Anything, studentID).Return(nil, domain.ErrStudentNotFound)
			},
			wantErr: domain.ErrStudentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students := &MockStudentRepository{}
			detector := &MockDetector{}
			tt.setupMocks(students, detector)

			svc := newTestService(t, students, &MockAttendanceRepository{}, &MockUploadRepository{}, detector)

			student, err := svc.Enroll(context.Background(), studentID, "ana.jpg", make([]byte, 4000))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, student)
			assert.True(t, student.HasReferenceEmbedding())
			students.AssertExpectations(t)
		})
	}
}

func TestAttendanceService_ProcessGroupPhoto(t *testing.T) {
	teacherID := uuid.New()
	s1, s2 := uuid.New(), uuid.New()
	date := time.Date(2026, 3, 12, 10, 30, 0, 0, time.UTC)

	roster := []matcher.Reference{
		{StudentID: s1, Name: "Ana", RollNumber: "R001", Embedding: unitVector(0)},
		{StudentID: s2, Name: "Bia", RollNumber: "R002", Embedding: unitVector(1)},
	}

	t.Run("matched photo reconciles attendance", func(t *testing.T) {
		students := &MockStudentRepository{}
		attendance := &MockAttendanceRepository{}
		uploads := &MockUploadRepository{}
		detector := &MockDetector{}

		detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{
			{Index: 0, Embedding: unitVector(0), Box: provider.BoundingBox{X1: 10, Y1: 10, X2: 50, Y2: 50}},
			{Index: 1, Embedding: unitVector(7), Box: provider.BoundingBox{X1: 60, Y1: 10, X2: 90, Y2: 50}},
		}, nil)
		students.On("Roster", mock.Anything, teacherID).Return(roster, nil)
		attendance.On("Reconcile", mock.Anything, date, teacherID,
			[]uuid.UUID{s1}, []uuid.UUID{s2}).Return(repository.ReconcileResult{Written: 2}, nil)
		uploads.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(t, students, attendance, uploads, detector)

		upload, err := svc.ProcessGroupPhoto(context.Background(), teacherID, date, "turma.jpg", make([]byte, 9000))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusMatched, upload.Status)
		assert.Equal(t, 2, upload.FaceCount)
		require.Len(t, upload.Matches, 1)
		assert.Equal(t, s1, upload.Matches[0].StudentID)
		assert.NotEmpty(t, upload.AnnotatedPath)
		attendance.AssertExpectations(t)
		uploads.AssertExpectations(t)
	})

	t.Run("photo without faces marks everyone absent", func(t *testing.T) {
		students := &MockStudentRepository{}
		attendance := &MockAttendanceRepository{}
		uploads := &MockUploadRepository{}
		detector := &MockDetector{}

		detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{}, nil)
		students.On("Roster", mock.Anything, teacherID).Return(roster, nil)
		attendance.On("Reconcile", mock.Anything, date, teacherID,
			mock.Anything, []uuid.UUID{s1, s2}).Return(repository.ReconcileResult{Written: 2}, nil)
		uploads.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(t, students, attendance, uploads, detector)

		upload, err := svc.ProcessGroupPhoto(context.Background(), teacherID, date, "vazia.jpg", make([]byte, 9000))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNoFaces, upload.Status)
		assert.Equal(t, 0, upload.FaceCount)
		assert.Empty(t, upload.Matches)
		attendance.AssertExpectations(t)
	})

	t.Run("empty roster is not everyone absent", func(t *testing.T) {
		students := &MockStudentRepository{}
		attendance := &MockAttendanceRepository{}
		uploads := &MockUploadRepository{}
		detector := &MockDetector{}

		detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{
			{Index: 0, Embedding: unitVector(0)},
		}, nil)
		students.On("Roster", mock.Anything, teacherID).Return([]matcher.Reference{}, nil)
		uploads.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(t, students, attendance, uploads, detector)

		upload, err := svc.ProcessGroupPhoto(context.Background(), teacherID, date, "turma.jpg", make([]byte, 9000))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNoEnrolledFaces, upload.Status)
		attendance.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty roster wins over empty photo", func(t *testing.T) {
		students := &MockStudentRepository{}
		attendance := &MockAttendanceRepository{}
		uploads := &MockUploadRepository{}
		detector := &MockDetector{}

		detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{}, nil)
		students.On("Roster", mock.Anything, teacherID).Return([]matcher.Reference{}, nil)
		uploads.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(t, students, attendance, uploads, detector)

		upload, err := svc.ProcessGroupPhoto(context.Background(), teacherID, date, "vazia.jpg", make([]byte, 9000))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNoEnrolledFaces, upload.Status)
		attendance.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("recognition outage degrades into recorded status", func(t *testing.T) {
		students := &MockStudentRepository{}
		attendance := &MockAttendanceRepository{}
		uploads := &MockUploadRepository{}
		detector := &MockDetector{}

		detector.On("DetectFaces", mock.Anything, mock.Anything).Return(nil, provider.ErrUnavailable)
		uploads.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(t, students, attendance, uploads, detector)

		upload, err := svc.ProcessGroupPhoto(context.Background(), teacherID, date, "turma.jpg", make([]byte, 9000))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRecognitionUnavailable, upload.Status)
	})

	t.Run("reconciliation failure keeps the upload record", func(t *testing.T) {
		students := &MockStudentRepository{}
		attendance := &MockAttendanceRepository{}
		uploads := &MockUploadRepository{}
		detector := &MockDetector{}

		detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{
			{Index: 0, Embedding: unitVector(0)},
		}, nil)
		students.On("Roster", mock.Anything, teacherID).Return(roster, nil)
		attendance.On("Reconcile", mock.Anything, date, teacherID, mock.Anything, mock.Anything).
			Return(repository.ReconcileResult{}, errors.New("connection reset"))
		uploads.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(t, students, attendance, uploads, detector)

		upload, err := svc.ProcessGroupPhoto(context.Background(), teacherID, date, "turma.jpg", make([]byte, 9000))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAttendanceFailed, upload.Status)
	})

	t.Run("annotation failure does not fail the run", func(t *testing.T) {
		students := &MockStudentRepository{}
		attendance := &MockAttendanceRepository{}
		uploads := &MockUploadRepository{}
		detector := &MockDetector{}

		detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{
			{Index: 0, Embedding: unitVector(0)},
		}, nil)
		students.On("Roster", mock.Anything, teacherID).Return(roster, nil)
		attendance.On("Reconcile", mock.Anything, date, teacherID, mock.Anything, mock.Anything).
			Return(repository.ReconcileResult{Written: 2}, nil)
		uploads.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(t, students, attendance, uploads, detector)
		svc.annotateFn = func(string, []provider.DetectedFace, []domain.FaceMatch, []float64) (string, error) {
			return "", errors.New("unsupported image format")
		}

		upload, err := svc.ProcessGroupPhoto(context.Background(), teacherID, date, "turma.jpg", make([]byte, 9000))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusMatched, upload.Status)
		assert.Empty(t, upload.AnnotatedPath)
	})

	t.Run("empty image is rejected", func(t *testing.T) {
		svc := newTestService(t, &MockStudentRepository{}, &MockAttendanceRepository{}, &MockUploadRepository{}, &MockDetector{})

		_, err := svc.ProcessGroupPhoto(context.Background(), teacherID, date, "turma.jpg", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
	})

	t.Run("detector rejecting the image is not an outage", func(t *testing.T) {
		detector := &MockDetector{}
		detector.On("DetectFaces", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("detect faces: %w: status 400", provider.ErrInvalidImage))

		svc := newTestService(t, &MockStudentRepository{}, &MockAttendanceRepository{}, &MockUploadRepository{}, detector)

		_, err := svc.ProcessGroupPhoto(context.Background(), teacherID, date, "corrompida.jpg", make([]byte, 9000))
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
		assert.NotErrorIs(t, err, domain.ErrRecognitionUnavailable)
	})
}

func TestAttendanceService_Mark(t *testing.T) {
	teacherID := uuid.New()
	studentID := uuid.New()
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	t.Run("marks present", func(t *testing.T) {
		students := &MockStudentRepository{}
		attendance := &MockAttendanceRepository{}

		students.On("GetByID", mock.Anything, studentID).Return(&domain.Student{ID: studentID, TeacherID: teacherID}, nil)
		attendance.On("Reconcile", mock.Anything, date, teacherID,
			[]uuid.UUID{studentID}, []uuid.UUID(nil)).Return(repository.ReconcileResult{Written: 1}, nil)

		svc := newTestService(t, students, attendance, &MockUploadRepository{}, &MockDetector{})

		err := svc.Mark(context.Background(), teacherID, studentID, date, true)
		require.NoError(t, err)
		attendance.AssertExpectations(t)
	})

	t.Run("marks absent", func(t *testing.T) {
		students := &MockStudentRepository{}
		attendance := &MockAttendanceRepository{}

		students.On("GetByID", mock.Anything, studentID).Return(&domain.Student{ID: studentID, TeacherID: teacherID}, nil)
		attendance.On("Reconcile", mock.Anything, date, teacherID,
			[]uuid.UUID(nil), []uuid.UUID{studentID}).Return(repository.ReconcileResult{Written: 1}, nil)

		svc := newTestService(t, students, attendance, &MockUploadRepository{}, &MockDetector{})

		err := svc.Mark(context.Background(), teacherID, studentID, date, false)
		require.NoError(t, err)
	})

	t.Run("student belongs to another teacher", func(t *testing.T) {
		students := &MockStudentRepository{}

		students.On("GetByID", mock.Anything, studentID).Return(&domain.Student{ID: studentID, TeacherID: uuid.New()}, nil)

		svc := newTestService(t, students, &MockAttendanceRepository{}, &MockUploadRepository{}, &MockDetector{})

		err := svc.Mark(context.Background(), teacherID, studentID, date, false)
		assert.ErrorIs(t, err, domain.ErrStudentNotFound)
	})
}

func TestAttendanceService_CreateStudent_Validation(t *testing.T) {
	svc := newTestService(t, &MockStudentRepository{}, &MockAttendanceRepository{}, &MockUploadRepository{}, &MockDetector{})

	err := svc.CreateStudent(context.Background(), &domain.Student{Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestAttendanceService_CreateTeacher(t *testing.T) {
	t.Run("creates the teacher", func(t *testing.T) {
		teachers := &MockTeacherRepository{}
		teachers.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(t, &MockStudentRepository{}, &MockAttendanceRepository{}, &MockUploadRepository{}, &MockDetector{})
		svc.teachers = teachers

		err := svc.CreateTeacher(context.Background(), &domain.Teacher{Name: "Clara", Email: "clara@escola.br"})
		require.NoError(t, err)
		teachers.AssertExpectations(t)
	})

	t.Run("requires name and email", func(t *testing.T) {
		teachers := &MockTeacherRepository{}

		svc := newTestService(t, &MockStudentRepository{}, &MockAttendanceRepository{}, &MockUploadRepository{}, &MockDetector{})
		svc.teachers = teachers

		err := svc.CreateTeacher(context.Background(), &domain.Teacher{Name: "Clara"})
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
		teachers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
