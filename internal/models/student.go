package models

import (
	"github.com/google/uuid"

	"github.com/studydash/studydash/pkg/apperr"
)

// Student is the root of the record graph: identity fields plus exactly
// one owned program. There is only one kind of person in scope, so the
// identity is inlined rather than split into a base type.
type Student struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	BirthDate       Date     `json:"birth_date"`
	Email           string   `json:"email,omitempty"`
	MatriculationNo string   `json:"matriculation_no"`
	EnrolledAt      Date     `json:"enrolled_at"`
	TargetAverage   float64  `json:"target_average"`
	Focus           string   `json:"focus,omitempty"`
	CurrentSemester int      `json:"current_semester"`
	Program         *Program `json:"program"`
}

// NewStudent creates a student owning the given program. The target
// average must lie on the program scale.
func NewStudent(firstName, lastName, matriculationNo string, birthDate Date, targetAverage float64, program *Program) (*Student, error) {
	if firstName == "" || lastName == "" {
		return nil, apperr.Clone(apperr.ErrValidation, "student name must not be empty")
	}
	if matriculationNo == "" {
		return nil, apperr.Clone(apperr.ErrValidation, "matriculation number must not be empty")
	}
	if program == nil {
		return nil, apperr.Clone(apperr.ErrValidation, "student requires a program")
	}
	if !program.Scale.Contains(targetAverage) {
		return nil, apperr.Clone(apperr.ErrValidation, "target average outside the program scale")
	}
	return &Student{
		ID:              uuid.NewString(),
		FirstName:       firstName,
		LastName:        lastName,
		BirthDate:       birthDate,
		MatriculationNo: matriculationNo,
		EnrolledAt:      Today(),
		TargetAverage:   targetAverage,
		CurrentSemester: 1,
		Program:         program,
	}, nil
}

// FullName joins first and last name for display.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
