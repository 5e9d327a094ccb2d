package models

import (
	"github.com/studydash/studydash/pkg/apperr"
)

// Program (Studiengang) frames the whole study: total credit
// requirement, grade scale and the ordered semester sequence.
type Program struct {
	Name         string      `json:"name"`
	TotalCredits int         `json:"total_credits"`
	Scale        Scale       `json:"scale"`
	Semesters    []*Semester `json:"semesters"`
}

// NewProgram creates a program. The credit requirement must be positive
// and the scale usable.
func NewProgram(name string, totalCredits int, scale Scale) (*Program, error) {
	if name == "" {
		return nil, apperr.Clone(apperr.ErrValidation, "program name must not be empty")
	}
	if totalCredits <= 0 {
		return nil, apperr.Clone(apperr.ErrValidation, "program total credits must be positive")
	}
	if !scale.Valid() {
		return nil, apperr.Clone(apperr.ErrValidation, "grade scale is not usable")
	}
	return &Program{
		Name:         name,
		TotalCredits: totalCredits,
		Scale:        scale,
		Semesters:    []*Semester{},
	}, nil
}

// Semester returns the semester with the given ordinal, or nil.
func (p *Program) Semester(ordinal int) *Semester {
	for _, s := range p.Semesters {
		if s.Ordinal == ordinal {
			return s
		}
	}
	return nil
}

// AddSemester appends a semester; ordinals are unique per program.
func (p *Program) AddSemester(s *Semester) error {
	if s == nil {
		return apperr.Clone(apperr.ErrValidation, "semester must not be nil")
	}
	if p.Semester(s.Ordinal) != nil {
		return apperr.Clone(apperr.ErrConflict, "semester ordinal already exists")
	}
	p.Semesters = append(p.Semesters, s)
	return nil
}

// EnsureSemester returns the semester with the given ordinal, creating
// it when missing.
func (p *Program) EnsureSemester(ordinal int) *Semester {
	if s := p.Semester(ordinal); s != nil {
		return s
	}
	s := NewSemester(ordinal)
	p.Semesters = append(p.Semesters, s)
	return s
}

// RemoveSemester deletes the semester with the given ordinal together
// with everything it owns.
func (p *Program) RemoveSemester(ordinal int) bool {
	for i, s := range p.Semesters {
		if s.Ordinal == ordinal {
			p.Semesters = append(p.Semesters[:i], p.Semesters[i+1:]...)
			return true
		}
	}
	return false
}

// AllModules flattens the module lists of every semester in order.
func (p *Program) AllModules() []*Module {
	var all []*Module
	for _, s := range p.Semesters {
		all = append(all, s.Modules...)
	}
	return all
}

// FindModule looks a module up by name across all semesters.
func (p *Program) FindModule(name string) *Module {
	for _, m := range p.AllModules() {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// FindExam locates an exam by ID together with its owning module.
func (p *Program) FindExam(id string) (*Exam, *Module) {
	for _, m := range p.AllModules() {
		for _, e := range m.Exams {
			if e.ID == id {
				return e, m
			}
		}
	}
	return nil, nil
}
