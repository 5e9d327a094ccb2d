package service

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studydash/studydash/internal/models"
	"github.com/studydash/studydash/pkg/apperr"
)

// CreateStudentRequest carries everything needed to set up a fresh
// record: the student identity plus their program frame.
type CreateStudentRequest struct {
	FirstName       string  `validate:"required"`
	LastName        string  `validate:"required"`
	MatriculationNo string  `validate:"required"`
	BirthDate       models.Date
	Email           string  `validate:"omitempty,email"`
	Focus           string
	TargetAverage   float64 `validate:"required"`
	ProgramName     string  `validate:"required"`
	TotalCredits    int     `validate:"required,gt=0"`
	Scale           models.Scale
}

// AddSemesterRequest creates a new semester period.
type AddSemesterRequest struct {
	Ordinal            int `validate:"required,gt=0"`
	Start              *models.Date
	End                *models.Date
	RecommendedCredits int `validate:"omitempty,gt=0"`
	Status             models.SemesterStatus
}

// AddModuleRequest attaches a module to a semester; the semester is
// created on the fly when the ordinal is new.
type AddModuleRequest struct {
	SemesterOrdinal int    `validate:"required,gt=0"`
	Name            string `validate:"required"`
	Code            string
	Description     string
	Credits         int `validate:"required,gt=0"`
}

// AddExamRequest schedules an assessment for a module. When Grade is
// set the exam is recorded as completed immediately.
type AddExamRequest struct {
	ModuleName  string `validate:"required"`
	Kind        string
	Description string
	Date        models.Date
	Deadline    *models.Date
	Weight      *float64 `validate:"omitempty,gte=0"`
	Grade       *float64
}

// RecordGradeRequest completes a scheduled exam with its result.
type RecordGradeRequest struct {
	ExamID string  `validate:"required"`
	Grade  float64 `validate:"required"`
}

// RecordService owns every mutation of the record graph. Input is
// validated at this boundary; invalid values never reach an entity.
// All operations take the loaded student graph as an explicit context
// object.
type RecordService struct {
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRecordService constructs a RecordService.
func NewRecordService(validate *validator.Validate, logger *zap.Logger) *RecordService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{validator: validate, logger: logger}
}

// CreateStudent builds a new student with their program.
func (s *RecordService) CreateStudent(req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrValidation.Code, "invalid student payload")
	}
	scale := req.Scale
	if !scale.Valid() {
		scale = models.DefaultScale()
	}
	program, err := models.NewProgram(req.ProgramName, req.TotalCredits, scale)
	if err != nil {
		return nil, err
	}
	student, err := models.NewStudent(req.FirstName, req.LastName, req.MatriculationNo, req.BirthDate, req.TargetAverage, program)
	if err != nil {
		return nil, err
	}
	student.Email = req.Email
	student.Focus = req.Focus
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("program", program.Name))
	return student, nil
}

// AddSemester appends a semester; ordinals must be unique.
func (s *RecordService) AddSemester(st *models.Student, req AddSemesterRequest) (*models.Semester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrValidation.Code, "invalid semester payload")
	}
	sem := models.NewSemester(req.Ordinal)
	sem.Start = req.Start
	sem.End = req.End
	if req.RecommendedCredits > 0 {
		sem.RecommendedCredits = req.RecommendedCredits
	}
	if req.Status != "" {
		if !models.ValidSemesterStatus(req.Status) {
			return nil, apperr.Clone(apperr.ErrValidation, "unknown semester status")
		}
		sem.Status = req.Status
	}
	if err := st.Program.AddSemester(sem); err != nil {
		return nil, err
	}
	s.logger.Info("semester added", zap.Int("ordinal", sem.Ordinal))
	return sem, nil
}

// AddModule creates a module inside the referenced semester, creating
// the semester itself when the ordinal is new. Module names are unique
// per program because CSV interchange references modules by name.
func (s *RecordService) AddModule(st *models.Student, req AddModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrValidation.Code, "invalid module payload")
	}
	if st.Program.FindModule(req.Name) != nil {
		return nil, apperr.Clone(apperr.ErrConflict, "module name already exists")
	}
	module, err := models.NewModule(req.Name, req.Code, req.Credits, req.SemesterOrdinal)
	if err != nil {
		return nil, err
	}
	module.Description = req.Description
	sem := st.Program.EnsureSemester(req.SemesterOrdinal)
	sem.AddModule(module)
	s.logger.Info("module added", zap.String("module", module.Name), zap.Int("semester", sem.Ordinal))
	return module, nil
}

// AddExam schedules an exam for a module; with a grade supplied it is
// recorded as completed in the same step.
func (s *RecordService) AddExam(st *models.Student, req AddExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrValidation.Code, "invalid exam payload")
	}
	module := st.Program.FindModule(req.ModuleName)
	if module == nil {
		return nil, apperr.Clone(apperr.ErrNotFound, "module not found")
	}
	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}
	date := req.Date
	if date.IsZero() {
		date = models.Today()
	}
	exam, err := models.NewExam(module.ID, req.Kind, date, weight)
	if err != nil {
		return nil, err
	}
	exam.Description = req.Description
	exam.Deadline = req.Deadline
	if req.Grade != nil {
		if err := exam.SetGrade(*req.Grade, st.Program.Scale); err != nil {
			return nil, err
		}
	}
	module.AddExam(exam)
	s.logger.Info("exam added",
		zap.String("module", module.Name),
		zap.String("exam_id", exam.ID),
		zap.String("status", string(exam.Status)))
	return exam, nil
}

// RecordGrade completes a scheduled exam with its result.
func (s *RecordService) RecordGrade(st *models.Student, req RecordGradeRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrValidation.Code, "invalid grade payload")
	}
	exam, module := st.Program.FindExam(req.ExamID)
	if exam == nil {
		return nil, apperr.Clone(apperr.ErrNotFound, "exam not found")
	}
	if err := exam.SetGrade(req.Grade, st.Program.Scale); err != nil {
		return nil, err
	}
	s.logger.Info("grade recorded",
		zap.String("module", module.Name),
		zap.String("exam_id", exam.ID),
		zap.Float64("grade", req.Grade))
	return exam, nil
}

// SetTargetAverage updates the student's goal within the program scale.
func (s *RecordService) SetTargetAverage(st *models.Student, target float64) error {
	if !st.Program.Scale.Contains(target) {
		return apperr.Clone(apperr.ErrValidation, "target average outside the program scale")
	}
	st.TargetAverage = target
	s.logger.Info("target average updated", zap.Float64("target", target))
	return nil
}

// DeleteSemester removes a semester and everything it owns.
func (s *RecordService) DeleteSemester(st *models.Student, ordinal int) error {
	if !st.Program.RemoveSemester(ordinal) {
		return apperr.Clone(apperr.ErrNotFound, "semester not found")
	}
	s.logger.Info("semester deleted", zap.Int("ordinal", ordinal))
	return nil
}

// DeleteModule removes a module (and its exams) by name.
func (s *RecordService) DeleteModule(st *models.Student, name string) error {
	module := st.Program.FindModule(name)
	if module == nil {
		return apperr.Clone(apperr.ErrNotFound, "module not found")
	}
	sem := st.Program.Semester(module.SemesterOrdinal)
	if sem == nil || !sem.RemoveModule(module.ID) {
		return apperr.Clone(apperr.ErrInternal, "module not attached to its semester")
	}
	s.logger.Info("module deleted", zap.String("module", name))
	return nil
}

// DeleteExam removes a single exam record.
func (s *RecordService) DeleteExam(st *models.Student, examID string) error {
	exam, module := st.Program.FindExam(examID)
	if exam == nil {
		return apperr.Clone(apperr.ErrNotFound, "exam not found")
	}
	module.RemoveExam(examID)
	s.logger.Info("exam deleted", zap.String("exam_id", examID))
	return nil
}
