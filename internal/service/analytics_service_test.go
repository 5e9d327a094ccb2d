package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydash/studydash/internal/models"
)

// newTestStudent builds an empty record on the default German scale
// with a 2.0 target and a 180-credit program.
func newTestStudent(t *testing.T) *models.Student {
	t.Helper()
	program, err := models.NewProgram("Informatik Bachelor", 180, models.DefaultScale())
	require.NoError(t, err)
	student, err := models.NewStudent("Max", "Mustermann", "123456",
		models.NewDate(1990, time.January, 1), 2.0, program)
	require.NoError(t, err)
	return student
}

// addGradedModule attaches a module with one completed exam per grade.
func addGradedModule(t *testing.T, st *models.Student, ordinal int, name string, credits int, grades []float64, weights []float64) *models.Module {
	t.Helper()
	module, err := models.NewModule(name, "", credits, ordinal)
	require.NoError(t, err)
	for i, g := range grades {
		exam, err := models.NewExam(module.ID, "exam", models.NewDate(2024, time.July, 15), weights[i])
		require.NoError(t, err)
		require.NoError(t, exam.SetGrade(g, st.Program.Scale))
		module.AddExam(exam)
	}
	st.Program.EnsureSemester(ordinal).AddModule(module)
	return module
}

func TestOverallAverageWeighted(t *testing.T) {
	st := newTestStudent(t)
	addGradedModule(t, st, 1, "Programming 1", 10, []float64{2.0}, []float64{1})
	addGradedModule(t, st, 1, "Mathematics 1", 10, []float64{3.0}, []float64{2})

	analytics := NewAnalyticsService(nil)
	avg := analytics.OverallAverage(st)
	require.NotNil(t, avg)
	assert.InDelta(t, (2.0*1+3.0*2)/3.0, *avg, 1e-9)
}

func TestOverallAverageNoDataIsNil(t *testing.T) {
	st := newTestStudent(t)
	analytics := NewAnalyticsService(nil)
	assert.Nil(t, analytics.OverallAverage(st))

	// a scheduled exam alone is still "no data"
	module, err := models.NewModule("Databases", "", 5, 1)
	require.NoError(t, err)
	exam, err := models.NewExam(module.ID, "exam", models.Today(), 1.0)
	require.NoError(t, err)
	module.AddExam(exam)
	st.Program.EnsureSemester(1).AddModule(module)
	assert.Nil(t, analytics.OverallAverage(st))
}

func TestZeroWeightExamExcludedFromAverage(t *testing.T) {
	st := newTestStudent(t)
	addGradedModule(t, st, 1, "Programming 1", 10, []float64{2.0, 6.0}, []float64{1, 0})

	analytics := NewAnalyticsService(nil)
	avg := analytics.OverallAverage(st)
	require.NotNil(t, avg)
	assert.InDelta(t, 2.0, *avg, 1e-9)
}

func TestSemesterAverageRestrictsToOneSemester(t *testing.T) {
	st := newTestStudent(t)
	addGradedModule(t, st, 1, "Programming 1", 10, []float64{1.0}, []float64{1})
	addGradedModule(t, st, 2, "Programming 2", 10, []float64{3.0}, []float64{1})

	analytics := NewAnalyticsService(nil)
	first := analytics.SemesterAverage(st, 1)
	require.NotNil(t, first)
	assert.InDelta(t, 1.0, *first, 1e-9)

	assert.Nil(t, analytics.SemesterAverage(st, 99))

	rows := analytics.SemesterAverages(st)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Ordinal)
	assert.Equal(t, 2, rows[1].Ordinal)
}

func TestCreditsCompletedCountsOnlyFullyGradedModules(t *testing.T) {
	st := newTestStudent(t)
	addGradedModule(t, st, 1, "Programming 1", 10, []float64{2.0}, []float64{1})

	// second module has one graded and one still scheduled exam
	partial := addGradedModule(t, st, 1, "Mathematics 1", 10, []float64{1.7}, []float64{1})
	open, err := models.NewExam(partial.ID, "paper", models.Today(), 1.0)
	require.NoError(t, err)
	partial.AddExam(open)

	analytics := NewAnalyticsService(nil)
	assert.Equal(t, 10, analytics.CreditsCompleted(st))
}

func TestProgressRatioClamped(t *testing.T) {
	st := newTestStudent(t)
	st.Program.TotalCredits = 15
	addGradedModule(t, st, 1, "Programming 1", 10, []float64{2.0}, []float64{1})
	addGradedModule(t, st, 1, "Mathematics 1", 10, []float64{2.0}, []float64{1})

	analytics := NewAnalyticsService(nil)
	progress := analytics.Progress(st)
	assert.Equal(t, 1.0, progress.Ratio)
	assert.Equal(t, 15, progress.Completed)
	assert.Equal(t, 15, progress.Required)
}

func TestOnTargetLowerIsBetter(t *testing.T) {
	st := newTestStudent(t)
	analytics := NewAnalyticsService(nil)

	// no graded exams: undetermined, not false
	assert.Nil(t, analytics.OnTarget(st))

	addGradedModule(t, st, 1, "Programming 1", 10, []float64{2.3}, []float64{1})
	onTarget := analytics.OnTarget(st)
	require.NotNil(t, onTarget)
	assert.False(t, *onTarget)

	st.TargetAverage = 2.5
	onTarget = analytics.OnTarget(st)
	require.NotNil(t, onTarget)
	assert.True(t, *onTarget)
}

func TestProjectedAverageDoesNotMutate(t *testing.T) {
	st := newTestStudent(t)
	addGradedModule(t, st, 1, "Programming 1", 10, []float64{2.0}, []float64{1})

	module, err := models.NewModule("Databases", "", 5, 2)
	require.NoError(t, err)
	pending, err := models.NewExam(module.ID, "exam", models.Today(), 1.0)
	require.NoError(t, err)
	module.AddExam(pending)
	st.Program.EnsureSemester(2).AddModule(module)

	analytics := NewAnalyticsService(nil)
	projected, err := analytics.ProjectedAverage(st, map[string]float64{pending.ID: 1.0})
	require.NoError(t, err)
	require.NotNil(t, projected)
	assert.InDelta(t, 1.5, *projected, 1e-9)

	// the graph itself is untouched
	assert.Nil(t, pending.Grade)
	assert.Equal(t, models.ExamScheduled, pending.Status)
	actual := analytics.OverallAverage(st)
	require.NotNil(t, actual)
	assert.InDelta(t, 2.0, *actual, 1e-9)
}

func TestProjectedAverageValidatesInput(t *testing.T) {
	st := newTestStudent(t)
	module := addGradedModule(t, st, 1, "Programming 1", 10, []float64{2.0}, []float64{1})
	gradedID := module.Exams[0].ID

	analytics := NewAnalyticsService(nil)

	_, err := analytics.ProjectedAverage(st, map[string]float64{"missing": 2.0})
	require.Error(t, err)

	_, err = analytics.ProjectedAverage(st, map[string]float64{gradedID: 2.0})
	require.Error(t, err)

	pending, err := models.NewExam(module.ID, "paper", models.Today(), 1.0)
	require.NoError(t, err)
	module.AddExam(pending)
	_, err = analytics.ProjectedAverage(st, map[string]float64{pending.ID: 42})
	require.Error(t, err)
}

func TestGradeDistributionSorted(t *testing.T) {
	st := newTestStudent(t)
	addGradedModule(t, st, 1, "Programming 1", 10, []float64{2.0, 1.3, 2.0}, []float64{1, 1, 1})

	analytics := NewAnalyticsService(nil)
	dist := analytics.GradeDistribution(st)
	require.Len(t, dist, 2)
	assert.Equal(t, GradeCount{Grade: 1.3, Count: 1}, dist[0])
	assert.Equal(t, GradeCount{Grade: 2.0, Count: 2}, dist[1])
}

func TestUpcomingExamsWindowAndOrder(t *testing.T) {
	st := newTestStudent(t)
	module, err := models.NewModule("Databases", "", 5, 1)
	require.NoError(t, err)
	st.Program.EnsureSemester(1).AddModule(module)

	soon, err := models.NewExam(module.ID, "exam", models.DateOf(time.Now().AddDate(0, 0, 7)), 1.0)
	require.NoError(t, err)
	later, err := models.NewExam(module.ID, "paper", models.DateOf(time.Now().AddDate(0, 0, 21)), 1.0)
	require.NoError(t, err)
	farOut, err := models.NewExam(module.ID, "oral", models.DateOf(time.Now().AddDate(0, 0, 90)), 1.0)
	require.NoError(t, err)
	module.AddExam(later)
	module.AddExam(soon)
	module.AddExam(farOut)

	analytics := NewAnalyticsService(nil)
	upcoming := analytics.UpcomingExams(st, 30)
	require.Len(t, upcoming, 2)
	assert.Equal(t, soon.ID, upcoming[0].Exam.ID)
	assert.Equal(t, later.ID, upcoming[1].Exam.ID)
}
