package models

// SemesterStatus tracks where a semester sits in the study timeline.
type SemesterStatus string

const (
	SemesterPlanned  SemesterStatus = "planned"
	SemesterActive   SemesterStatus = "active"
	SemesterFinished SemesterStatus = "finished"
)

// ValidSemesterStatus reports whether s is a known status value.
func ValidSemesterStatus(s SemesterStatus) bool {
	return s == SemesterPlanned || s == SemesterActive || s == SemesterFinished
}

// Semester is one time period of the program, owning its modules.
// Insertion order of modules is preserved for display.
type Semester struct {
	Ordinal            int            `json:"ordinal"`
	Start              *Date          `json:"start,omitempty"`
	End                *Date          `json:"end,omitempty"`
	RecommendedCredits int            `json:"recommended_credits"`
	Status             SemesterStatus `json:"status"`
	Modules            []*Module      `json:"modules"`
}

// NewSemester creates a planned semester with the usual 30-credit load.
func NewSemester(ordinal int) *Semester {
	return &Semester{
		Ordinal:            ordinal,
		RecommendedCredits: 30,
		Status:             SemesterPlanned,
		Modules:            []*Module{},
	}
}

// AddModule appends a module, pinning its semester assignment.
func (s *Semester) AddModule(m *Module) {
	if m == nil {
		return
	}
	m.SemesterOrdinal = s.Ordinal
	s.Modules = append(s.Modules, m)
}

// RemoveModule deletes the module with the given ID, cascading to its
// exams through ownership.
func (s *Semester) RemoveModule(id string) bool {
	for i, m := range s.Modules {
		if m.ID == id {
			s.Modules = append(s.Modules[:i], s.Modules[i+1:]...)
			return true
		}
	}
	return false
}

// Active reports whether today falls between the semester dates; when
// no dates are set, the status flag decides.
func (s *Semester) Active(today Date) bool {
	if s.Start == nil || s.End == nil {
		return s.Status == SemesterActive
	}
	return !today.Before(s.Start.Time) && !today.After(s.End.Time)
}
