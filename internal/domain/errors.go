package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches by code, so a WithError copy still compares equal to its
// predefined base under errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrTeacherNotFound = &AppError{
		Code:       "TEACHER_NOT_FOUND",
		Message:    "Teacher not found",
		StatusCode: 404,
	}

	ErrEmailTaken = &AppError{
		Code:       "EMAIL_TAKEN",
		Message:    "Email already registered",
		StatusCode: 409,
	}

	ErrStudentNotFound = &AppError{
		Code:       "STUDENT_NOT_FOUND",
		Message:    "Student not found",
		StatusCode: 404,
	}

	ErrRollNumberTaken = &AppError{
		Code:       "ROLL_NUMBER_TAKEN",
		Message:    "Roll number already registered for this teacher",
		StatusCode: 409,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: 422,
	}

	// ErrRecognitionUnavailable means the detection model/service could not
	// run at all. Distinct from ErrNoFaceDetected: an empty result on a valid
	// image is a normal outcome, not a failure of the recognizer.
	ErrRecognitionUnavailable = &AppError{
		Code:       "RECOGNITION_UNAVAILABLE",
		Message:    "Face recognition is temporarily unavailable",
		StatusCode: 503,
	}

	ErrNoEnrolledFaces = &AppError{
		Code:       "NO_ENROLLED_FACES",
		Message:    "No students with enrolled faces to match against",
		StatusCode: 422,
	}

	ErrInvalidThreshold = &AppError{
		Code:       "INVALID_THRESHOLD",
		Message:    "Threshold must be between 0 and 1",
		StatusCode: 422,
	}

	ErrAttendanceConflict = &AppError{
		Code:       "ATTENDANCE_CONFLICT",
		Message:    "Attendance for this day is being written concurrently",
		StatusCode: 409,
	}

	ErrUploadNotFound = &AppError{
		Code:       "UPLOAD_NOT_FOUND",
		Message:    "Upload not found",
		StatusCode: 404,
	}
)
