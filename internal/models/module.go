package models

import (
	"github.com/google/uuid"

	"github.com/studydash/studydash/pkg/apperr"
)

// Module is a named course unit owning its exam records and carrying a
// credit value toward the program total.
type Module struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Code            string  `json:"code,omitempty"`
	Description     string  `json:"description,omitempty"`
	Credits         int     `json:"credits"`
	SemesterOrdinal int     `json:"semester_ordinal"`
	Exams           []*Exam `json:"exams"`
}

// NewModule creates a module assigned to the given semester ordinal.
func NewModule(name, code string, credits, semesterOrdinal int) (*Module, error) {
	if name == "" {
		return nil, apperr.Clone(apperr.ErrValidation, "module name must not be empty")
	}
	if credits <= 0 {
		return nil, apperr.Clone(apperr.ErrValidation, "module credits must be positive")
	}
	return &Module{
		ID:              uuid.NewString(),
		Name:            name,
		Code:            code,
		Credits:         credits,
		SemesterOrdinal: semesterOrdinal,
		Exams:           []*Exam{},
	}, nil
}

// AddExam appends an exam record, fixing up its back-reference.
func (m *Module) AddExam(e *Exam) {
	if e == nil {
		return
	}
	e.ModuleID = m.ID
	m.Exams = append(m.Exams, e)
}

// RemoveExam deletes the exam with the given ID.
func (m *Module) RemoveExam(id string) bool {
	for i, e := range m.Exams {
		if e.ID == id {
			m.Exams = append(m.Exams[:i], m.Exams[i+1:]...)
			return true
		}
	}
	return false
}

// Completed reports whether the module counts toward program credits:
// it has at least one exam and every exam is completed with a grade.
// A module with zero exams is never complete.
func (m *Module) Completed() bool {
	if len(m.Exams) == 0 {
		return false
	}
	for _, e := range m.Exams {
		if !e.Completed() {
			return false
		}
	}
	return true
}

// CurrentGrade computes the weighted mean over the module's completed
// exams. Zero-weight exams are skipped. Returns nil when no completed
// exam carries weight.
func (m *Module) CurrentGrade() *float64 {
	var weightedSum, totalWeight float64
	for _, e := range m.Exams {
		if !e.Completed() || e.Weight == 0 {
			continue
		}
		weightedSum += *e.Grade * e.Weight
		totalWeight += e.Weight
	}
	if totalWeight == 0 {
		return nil
	}
	avg := weightedSum / totalWeight
	return &avg
}
