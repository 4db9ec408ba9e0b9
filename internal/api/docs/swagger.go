package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// TeacherResponse represents a registered teacher
type TeacherResponse struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string `json:"name" example:"Maria Souza"`
	Email     string `json:"email" example:"maria@escola.br"`
	CreatedAt string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// StudentResponse represents a registered student
type StudentResponse struct {
	ID         string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name       string `json:"name" example:"João Silva"`
	RollNumber string `json:"roll_number" example:"12"`
	Grade      string `json:"grade" example:"5A"`
	Enrolled   bool   `json:"enrolled" example:"true"`
	CreatedAt  string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// StudentListResponse wraps the student listing
type StudentListResponse struct {
	Students []StudentResponse `json:"students"`
}

// FaceMatchData represents one face attributed to a student
type FaceMatchData struct {
	FaceIndex   int     `json:"face_index" example:"0"`
	StudentID   string  `json:"student_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	StudentName string  `json:"student_name" example:"João Silva"`
	RollNumber  string  `json:"roll_number" example:"12"`
	Similarity  float64 `json:"similarity" example:"0.87"`
}

// UploadResponse represents a processed group-photo upload
type UploadResponse struct {
	ID            string          `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Date          string          `json:"date" example:"2024-01-01"`
	FileName      string          `json:"file_name" example:"turma.jpg"`
	AnnotatedPath string          `json:"annotated_path,omitempty" example:"uploads/turma_annotated.jpg"`
	FaceCount     int             `json:"face_count" example:"18"`
	Status        string          `json:"status" example:"matched"`
	Matches       []FaceMatchData `json:"matches"`
	UploadedAt    string          `json:"uploaded_at" example:"2024-01-01T08:05:00Z"`
}

// UploadListResponse wraps the upload listing
type UploadListResponse struct {
	Uploads []UploadResponse `json:"uploads"`
}

// AttendanceRecordData represents one student's attendance for a day
type AttendanceRecordData struct {
	StudentID  string `json:"student_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name       string `json:"name" example:"João Silva"`
	RollNumber string `json:"roll_number" example:"12"`
	Present    bool   `json:"present" example:"true"`
	Source     string `json:"source" example:"photo"`
}

// AttendanceListResponse wraps the day attendance listing
type AttendanceListResponse struct {
	Date    string                 `json:"date" example:"2024-01-01"`
	Records []AttendanceRecordData `json:"records"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Chamada API",
		Version:     "v1.0.0",
		Description: "Chamada automática por foto da turma: cadastro de alunos, embedding facial de referência e reconciliação de presença",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// Teachers endpoints

		// POST /v1/teachers - Create Teacher
		endpoint.New(
			endpoint.POST,
			"/teachers",
			endpoint.WithTags("Teachers"),
			endpoint.WithSummary("Register a teacher"),
			endpoint.WithDescription("Creates the teacher that owns a class roster. All other operations reference the teacher by id."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(TeacherResponse{}, "201", "Teacher created successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "EMAIL_TAKEN", Message: "Email already registered"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/teachers/:id - Get Teacher
		endpoint.New(
			endpoint.GET,
			"/teachers/{id}",
			endpoint.WithTags("Teachers"),
			endpoint.WithSummary("Get a teacher"),
			endpoint.WithDescription("Retrieves a teacher by id"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Teacher UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(TeacherResponse{}, "200", "Teacher retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "TEACHER_NOT_FOUND", Message: "Teacher not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// Students endpoints

		// POST /v1/students - Create Student
		endpoint.New(
			endpoint.POST,
			"/students",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("Register a student"),
			endpoint.WithDescription("Creates a student in a teacher's roster, without a reference photo yet"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StudentResponse{}, "201", "Student created successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "TEACHER_NOT_FOUND", Message: "Teacher not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "ROLL_NUMBER_TAKEN", Message: "Roll number already registered for this teacher"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/students - List Students
		endpoint.New(
			endpoint.GET,
			"/students",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("List a teacher's students"),
			endpoint.WithDescription("Lists every student in the teacher's roster, in roll-number order"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("teacher_id", parameter.Query, parameter.WithDescription("Teacher UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StudentListResponse{}, "200", "Students listed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "teacher_id is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/students/:id/face - Enroll Reference Face
		endpoint.New(
			endpoint.POST,
			"/students/{id}/face",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("Enroll a student's reference face"),
			endpoint.WithDescription("Extracts the reference embedding from an individual photo. When several faces appear, the largest one wins. Re-uploading overwrites the previous embedding."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Student UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StudentResponse{}, "200", "Face enrolled successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "STUDENT_NOT_FOUND", Message: "Student not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "RECOGNITION_UNAVAILABLE", Message: "Face recognition is temporarily unavailable"}, "503", "Service Unavailable"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// Attendance endpoints

		// POST /v1/attendance/photo - Process Group Photo
		endpoint.New(
			endpoint.POST,
			"/attendance/photo",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Process a class group photo"),
			endpoint.WithDescription("Detects faces, matches them against the enrolled roster and reconciles the day's attendance: matched students present, everyone else absent"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("teacher_id", parameter.Query, parameter.WithDescription("Teacher UUID")),
				parameter.StrParam("date", parameter.Query, parameter.WithDescription("Attendance date (YYYY-MM-DD, default today)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UploadResponse{}, "201", "Photo processed and attendance reconciled"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "ATTENDANCE_CONFLICT", Message: "Attendance for this day is being written concurrently"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/attendance - Mark Attendance Manually
		endpoint.New(
			endpoint.POST,
			"/attendance",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Mark one student's attendance by hand"),
			endpoint.WithDescription("Overrides the photo result for one student. Re-marking the same status is a no-op."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Attendance marked"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "STUDENT_NOT_FOUND", Message: "Student not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/attendance - Day Attendance
		endpoint.New(
			endpoint.GET,
			"/attendance",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("List a day's attendance"),
			endpoint.WithDescription("Lists the attendance records of a teacher's roster for one day, in roll-number order"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("teacher_id", parameter.Query, parameter.WithDescription("Teacher UUID")),
				parameter.StrParam("date", parameter.Query, parameter.WithDescription("Attendance date (YYYY-MM-DD, default today)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AttendanceListResponse{}, "200", "Attendance listed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "teacher_id is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// Uploads endpoints

		// GET /v1/uploads - List Uploads
		endpoint.New(
			endpoint.GET,
			"/uploads",
			endpoint.WithTags("Uploads"),
			endpoint.WithSummary("List a day's photo uploads"),
			endpoint.WithDescription("Lists the group-photo uploads of a teacher for one day, newest first"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("teacher_id", parameter.Query, parameter.WithDescription("Teacher UUID")),
				parameter.StrParam("date", parameter.Query, parameter.WithDescription("Upload date (YYYY-MM-DD, default today)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UploadListResponse{}, "200", "Uploads listed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "teacher_id is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/uploads/:id - Get Upload
		endpoint.New(
			endpoint.GET,
			"/uploads/{id}",
			endpoint.WithTags("Uploads"),
			endpoint.WithSummary("Get one upload"),
			endpoint.WithDescription("Retrieves one processed upload with its match list and annotated photo path"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Upload UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UploadResponse{}, "200", "Upload retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UPLOAD_NOT_FOUND", Message: "Upload not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
