package service

import (
	"sort"

	"go.uber.org/zap"

	"github.com/studydash/studydash/internal/models"
	"github.com/studydash/studydash/pkg/apperr"
)

// Progress summarises credit completion against the program requirement.
// Completed is clamped to Required for reporting; Ratio lies in [0,1].
type Progress struct {
	Completed int     `json:"completed"`
	Required  int     `json:"required"`
	Ratio     float64 `json:"ratio"`
}

// GradeCount is one bucket of the grade distribution.
type GradeCount struct {
	Grade float64 `json:"grade"`
	Count int     `json:"count"`
}

// SemesterAverageRow carries the per-semester average series for charts.
type SemesterAverageRow struct {
	Ordinal int      `json:"ordinal"`
	Average *float64 `json:"average,omitempty"`
}

// UpcomingExam pairs a scheduled exam with its module for display.
type UpcomingExam struct {
	Exam   *models.Exam
	Module *models.Module
}

// AnalyticsService derives every dashboard figure from the current
// graph. It is pure: nothing is cached and no call mutates state. Nil
// results signal "no data" — callers must not coerce them to zero.
type AnalyticsService struct {
	logger *zap.Logger
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{logger: logger}
}

// weightedAverage folds completed exams into Σ(grade·weight)/Σweight.
// Zero-weight exams are listed elsewhere but never counted here.
func weightedAverage(modules []*models.Module, override map[string]float64) *float64 {
	var weightedSum, totalWeight float64
	for _, m := range modules {
		for _, e := range m.Exams {
			if e.Weight == 0 {
				continue
			}
			var grade float64
			switch {
			case e.Completed():
				grade = *e.Grade
			case override != nil:
				hyp, ok := override[e.ID]
				if !ok {
					continue
				}
				grade = hyp
			default:
				continue
			}
			weightedSum += grade * e.Weight
			totalWeight += e.Weight
		}
	}
	if totalWeight == 0 {
		return nil
	}
	avg := weightedSum / totalWeight
	return &avg
}

// OverallAverage computes the weighted grade average across the whole
// program, or nil when no completed exam carries weight.
func (s *AnalyticsService) OverallAverage(st *models.Student) *float64 {
	if st == nil || st.Program == nil {
		return nil
	}
	return weightedAverage(st.Program.AllModules(), nil)
}

// SemesterAverage restricts the weighted average to one semester.
func (s *AnalyticsService) SemesterAverage(st *models.Student, ordinal int) *float64 {
	if st == nil || st.Program == nil {
		return nil
	}
	sem := st.Program.Semester(ordinal)
	if sem == nil {
		return nil
	}
	return weightedAverage(sem.Modules, nil)
}

// SemesterAverages produces the per-semester series in semester order.
func (s *AnalyticsService) SemesterAverages(st *models.Student) []SemesterAverageRow {
	if st == nil || st.Program == nil {
		return nil
	}
	rows := make([]SemesterAverageRow, 0, len(st.Program.Semesters))
	for _, sem := range st.Program.Semesters {
		rows = append(rows, SemesterAverageRow{
			Ordinal: sem.Ordinal,
			Average: weightedAverage(sem.Modules, nil),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Ordinal < rows[j].Ordinal })
	return rows
}

// CreditsCompleted sums the credits of completed modules.
func (s *AnalyticsService) CreditsCompleted(st *models.Student) int {
	if st == nil || st.Program == nil {
		return 0
	}
	total := 0
	for _, m := range st.Program.AllModules() {
		if m.Completed() {
			total += m.Credits
		}
	}
	return total
}

// Progress reports credit completion with the ratio clamped to [0,1].
// Raw data may exceed the requirement; reporting never does.
func (s *AnalyticsService) Progress(st *models.Student) Progress {
	if st == nil || st.Program == nil {
		return Progress{}
	}
	completed := s.CreditsCompleted(st)
	required := st.Program.TotalCredits
	ratio := 0.0
	if required > 0 {
		ratio = float64(completed) / float64(required)
	}
	if ratio > 1 {
		ratio = 1
	}
	reported := completed
	if reported > required {
		reported = required
	}
	return Progress{Completed: reported, Required: required, Ratio: ratio}
}

// OnTarget compares the overall average against the student's target on
// the program scale. Nil means undetermined (no graded exams yet).
func (s *AnalyticsService) OnTarget(st *models.Student) *bool {
	avg := s.OverallAverage(st)
	if avg == nil {
		return nil
	}
	ok := st.Program.Scale.BetterOrEqual(*avg, st.TargetAverage)
	return &ok
}

// ProjectedAverage recomputes the overall average as if the given
// scheduled exams were completed with the hypothetical grades, without
// mutating the graph. Every referenced exam must exist, be scheduled
// and the grade must lie on the scale.
func (s *AnalyticsService) ProjectedAverage(st *models.Student, hypothetical map[string]float64) (*float64, error) {
	if st == nil || st.Program == nil {
		return nil, apperr.Clone(apperr.ErrNoData, "no record loaded")
	}
	for id, grade := range hypothetical {
		exam, _ := st.Program.FindExam(id)
		if exam == nil {
			return nil, apperr.Clone(apperr.ErrNotFound, "hypothetical grade for unknown exam")
		}
		if exam.Status != models.ExamScheduled {
			return nil, apperr.Clone(apperr.ErrValidation, "hypothetical grade for an already completed exam")
		}
		if !st.Program.Scale.Contains(grade) {
			return nil, apperr.Clone(apperr.ErrValidation, "hypothetical grade outside the program scale")
		}
	}
	return weightedAverage(st.Program.AllModules(), hypothetical), nil
}

// GradeDistribution counts the occurrences of each grade value over all
// completed exams, sorted by grade.
func (s *AnalyticsService) GradeDistribution(st *models.Student) []GradeCount {
	if st == nil || st.Program == nil {
		return nil
	}
	counts := make(map[float64]int)
	for _, m := range st.Program.AllModules() {
		for _, e := range m.Exams {
			if e.Completed() {
				counts[*e.Grade]++
			}
		}
	}
	out := make([]GradeCount, 0, len(counts))
	for grade, n := range counts {
		out = append(out, GradeCount{Grade: grade, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Grade < out[j].Grade })
	return out
}

// UpcomingExams lists scheduled exams dated within the next withinDays
// days, soonest first.
func (s *AnalyticsService) UpcomingExams(st *models.Student, withinDays int) []UpcomingExam {
	if st == nil || st.Program == nil {
		return nil
	}
	today := models.Today()
	horizon := models.DateOf(today.AddDate(0, 0, withinDays))
	var out []UpcomingExam
	for _, m := range st.Program.AllModules() {
		for _, e := range m.Exams {
			if e.Status != models.ExamScheduled || e.Date.IsZero() {
				continue
			}
			if e.Date.Before(today.Time) || e.Date.After(horizon.Time) {
				continue
			}
			out = append(out, UpcomingExam{Exam: e, Module: m})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Exam.Date.Before(out[j].Exam.Date.Time) })
	return out
}
