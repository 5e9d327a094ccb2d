package store

import (
	"fmt"

	"github.com/studydash/studydash/internal/models"
	"github.com/studydash/studydash/pkg/apperr"
)

// validateGraph re-checks every entity invariant over the whole tree.
// The same walk guards both directions: saving an invalid in-memory
// graph and loading a hand-edited store file. The first violation wins
// and is reported with its graph path.
func validateGraph(st *models.Student) error {
	if st.FirstName == "" || st.LastName == "" {
		return malformed("student.name", "name must not be empty")
	}
	if st.MatriculationNo == "" {
		return malformed("student.matriculation_no", "matriculation number missing")
	}
	if st.Program == nil {
		return malformed("student.program", "program missing")
	}

	p := st.Program
	if p.Name == "" {
		return malformed("program.name", "program name missing")
	}
	if p.TotalCredits <= 0 {
		return malformed("program.total_credits", "total credits must be positive")
	}
	if !p.Scale.Valid() {
		return malformed("program.scale", "grade scale is not usable")
	}
	if !p.Scale.Contains(st.TargetAverage) {
		return malformed("student.target_average", "target average outside the program scale")
	}

	seenOrdinals := make(map[int]bool)
	for i, sem := range p.Semesters {
		semPath := fmt.Sprintf("program.semesters[%d]", i)
		if sem == nil {
			return malformed(semPath, "semester missing")
		}
		if sem.Ordinal <= 0 {
			return malformed(semPath+".ordinal", "ordinal must be positive")
		}
		if seenOrdinals[sem.Ordinal] {
			return malformed(semPath+".ordinal", "duplicate semester ordinal")
		}
		seenOrdinals[sem.Ordinal] = true
		if !models.ValidSemesterStatus(sem.Status) {
			return malformed(semPath+".status", "unknown semester status")
		}
		for j, mod := range sem.Modules {
			modPath := fmt.Sprintf("%s.modules[%d]", semPath, j)
			if mod == nil {
				return malformed(modPath, "module missing")
			}
			if mod.Name == "" {
				return malformed(modPath+".name", "module name missing")
			}
			if mod.Credits <= 0 {
				return malformed(modPath+".credits", "credits must be positive")
			}
			for k, exam := range mod.Exams {
				examPath := fmt.Sprintf("%s.exams[%d]", modPath, k)
				if exam == nil {
					return malformed(examPath, "exam missing")
				}
				if !models.ValidExamStatus(exam.Status) {
					return malformed(examPath+".status", "unknown exam status")
				}
				if exam.Weight < 0 {
					return malformed(examPath+".weight", "weight must not be negative")
				}
				if exam.Grade != nil && !p.Scale.Contains(*exam.Grade) {
					return malformed(examPath+".grade", "grade outside the program scale")
				}
				if exam.Status == models.ExamCompleted && exam.Grade == nil {
					return malformed(examPath+".grade", "completed exam has no grade")
				}
			}
		}
	}
	return nil
}

func malformed(path, message string) error {
	e := apperr.Clone(apperr.ErrMalformedStore, message)
	return apperr.At(e, path)
}
