package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/literacy-registrar/internal/models"
	"github.com/noah-isme/literacy-registrar/internal/validation"
	"github.com/noah-isme/literacy-registrar/pkg/age"
	appErrors "github.com/noah-isme/literacy-registrar/pkg/errors"
)

type studentRepository interface {
	Insert(ctx context.Context, student *models.StudentRecord) (int64, error)
	Count(ctx context.Context) (int, error)
}

type registrationRecorder interface {
	RecordRegistration(outcome string)
}

// RegisterStudentRequest holds the entry form. Every field is optional; closed lists are checked when set.
type RegisterStudentRequest struct {
	Coordinator      string `json:"coordinator" validate:"max=255"`
	TeacherName      string `json:"teacher_name" validate:"max=255"`
	TeacherFirstName string `json:"teacher_first_name" validate:"max=255"`
	District         string `json:"district" validate:"district"`
	Municipality     string `json:"municipality" validate:"max=255"`
	School           string `json:"school" validate:"max=255"`
	Chapter          string `json:"chapter" validate:"chapter"`
	GroupNumber      string `json:"group_number" validate:"group"`
	Level            string `json:"level" validate:"level"`
	LastName         string `json:"last_name" validate:"max=255"`
	FirstName        string `json:"first_name" validate:"max=255"`
	BirthDate        string `json:"birth_date" validate:"max=32"`
	BirthPlace       string `json:"birth_place" validate:"max=255"`
	ContractNumber   string `json:"contract_number" validate:"max=255"`
	FatherName       string `json:"father_name" validate:"max=255"`
	MotherLastName   string `json:"mother_last_name" validate:"max=255"`
	MotherFirstName  string `json:"mother_first_name" validate:"max=255"`
	Gender           string `json:"gender" validate:"gender"`
}

// RegistrationResult is returned after a successful insert.
type RegistrationResult struct {
	Student         models.StudentRecord `json:"student"`
	RegisteredCount int                  `json:"registered_count"`
	Warnings        []string             `json:"warnings,omitempty"`
}

// StudentService handles registration use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   registrationRecorder
	now       func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// WithClock overrides the reference date used for age snapshots.
func (s *StudentService) WithClock(now func() time.Time) *StudentService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithMetrics attaches a registration counter.
func (s *StudentService) WithMetrics(metrics registrationRecorder) *StudentService {
	s.metrics = metrics
	return s
}

// Register validates the form, snapshots the age and stores the record.
// An unusable birth date is not an error: the record is stored with age 0 and a warning.
func (s *StudentService) Register(ctx context.Context, req RegisterStudentRequest) (*RegistrationResult, error) {
	req = trimRequest(req)
	if err := s.validator.Struct(req); err != nil {
		s.record(OutcomeFailure)
		return nil, appErrors.As(err, appErrors.ErrValidation, "invalid student payload")
	}

	var warnings []string
	years, err := age.Parse(req.BirthDate, s.now())
	if err != nil {
		warnings = append(warnings, ageWarning(err))
		s.logger.Warn("age derivation fell back to zero", zap.String("birth_date", req.BirthDate), zap.Error(err))
	}

	student := &models.StudentRecord{
		Coordinator:      req.Coordinator,
		TeacherName:      req.TeacherName,
		TeacherFirstName: req.TeacherFirstName,
		District:         req.District,
		Municipality:     req.Municipality,
		School:           req.School,
		Chapter:          req.Chapter,
		GroupNumber:      req.GroupNumber,
		Level:            req.Level,
		LastName:         req.LastName,
		FirstName:        req.FirstName,
		BirthDate:        req.BirthDate,
		BirthPlace:       req.BirthPlace,
		ContractNumber:   req.ContractNumber,
		FatherName:       req.FatherName,
		MotherLastName:   req.MotherLastName,
		MotherFirstName:  req.MotherFirstName,
		Gender:           req.Gender,
		Age:              years,
	}
	if _, err := s.repo.Insert(ctx, student); err != nil {
		s.record(OutcomeFailure)
		s.logger.Error("failed to save student", zap.String("last_name", student.LastName), zap.Error(err))
		return nil, appErrors.As(err, appErrors.ErrPersistence, "failed to save student")
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Warn("failed to count students after insert", zap.Error(err))
	}

	if len(warnings) > 0 {
		s.record(OutcomeWarning)
	} else {
		s.record(OutcomeSuccess)
	}
	s.logger.Info("student registered", zap.Int64("id", student.ID), zap.Int("age", student.Age))

	return &RegistrationResult{Student: *student, RegisteredCount: count, Warnings: warnings}, nil
}

// Count returns the number of registered students.
func (s *StudentService) Count(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count students", zap.Error(err))
		return 0, appErrors.As(err, appErrors.ErrPersistence, "failed to count students")
	}
	return count, nil
}

// Options returns the closed lists offered by the entry form.
func (s *StudentService) Options() models.FormOptions {
	return models.DefaultFormOptions()
}

func (s *StudentService) record(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordRegistration(outcome)
	}
}

func ageWarning(err error) string {
	if errors.Is(err, age.ErrInFuture) {
		return "birth_date is in the future; age stored as 0"
	}
	return "birth_date is not a year or YYYY-MM-DD date; age stored as 0"
}

func trimRequest(req RegisterStudentRequest) RegisterStudentRequest {
	fields := []*string{
		&req.Coordinator, &req.TeacherName, &req.TeacherFirstName, &req.District, &req.Municipality,
		&req.School, &req.Chapter, &req.GroupNumber, &req.Level, &req.LastName, &req.FirstName,
		&req.BirthDate, &req.BirthPlace, &req.ContractNumber, &req.FatherName, &req.MotherLastName,
		&req.MotherFirstName, &req.Gender,
	}
	for _, field := range fields {
		*field = strings.TrimSpace(*field)
	}
	return req
}
