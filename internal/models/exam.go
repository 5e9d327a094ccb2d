package models

import (
	"github.com/google/uuid"

	"github.com/studydash/studydash/pkg/apperr"
)

// ExamStatus tracks whether an assessment has taken place.
type ExamStatus string

const (
	ExamScheduled ExamStatus = "scheduled"
	ExamCompleted ExamStatus = "completed"
)

// ValidExamStatus reports whether s is a known status value.
func ValidExamStatus(s ExamStatus) bool {
	return s == ExamScheduled || s == ExamCompleted
}

// Exam represents a single assessment belonging to a module: a written
// exam, paper, oral exam or project. Grade is nil until the exam has
// been taken. ModuleID is a back-reference for display context only and
// never drives ownership.
type Exam struct {
	ID          string     `json:"id"`
	ModuleID    string     `json:"module_id"`
	Kind        string     `json:"kind"`
	Description string     `json:"description,omitempty"`
	Grade       *float64   `json:"grade,omitempty"`
	Weight      float64    `json:"weight"`
	Date        Date       `json:"date"`
	Deadline    *Date      `json:"deadline,omitempty"`
	Attempt     int        `json:"attempt"`
	Status      ExamStatus `json:"status"`
}

// NewExam creates a scheduled exam for the given module. Weight must not
// be negative; zero-weight exams are listed and scheduled but excluded
// from averages.
func NewExam(moduleID, kind string, date Date, weight float64) (*Exam, error) {
	if weight < 0 {
		return nil, apperr.Clone(apperr.ErrValidation, "exam weight must not be negative")
	}
	if kind == "" {
		kind = "exam"
	}
	return &Exam{
		ID:       uuid.NewString(),
		ModuleID: moduleID,
		Kind:     kind,
		Weight:   weight,
		Date:     date,
		Attempt:  1,
		Status:   ExamScheduled,
	}, nil
}

// SetGrade records a result and flips the exam to completed. The grade
// must lie within the program scale.
func (e *Exam) SetGrade(grade float64, scale Scale) error {
	if !scale.Contains(grade) {
		return apperr.Clone(apperr.ErrValidation, "grade outside the program scale")
	}
	g := grade
	e.Grade = &g
	e.Status = ExamCompleted
	return nil
}

// Completed reports whether the exam has taken place and carries a grade.
func (e *Exam) Completed() bool {
	return e.Status == ExamCompleted && e.Grade != nil
}

// Passed reports whether the exam was completed with a passing grade.
func (e *Exam) Passed(scale Scale) bool {
	return e.Completed() && scale.Passed(*e.Grade)
}

// DaysUntilDeadline returns the remaining days until the deadline, never
// negative, and 0 when no deadline is set.
func (e *Exam) DaysUntilDeadline(today Date) int {
	if e.Deadline == nil {
		return 0
	}
	days := int(e.Deadline.Sub(today.Time).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
