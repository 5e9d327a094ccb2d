package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydash/studydash/internal/models"
	"github.com/studydash/studydash/pkg/apperr"
)

func TestCreateStudentValidatesPayload(t *testing.T) {
	svc := NewRecordService(nil, nil)

	_, err := svc.CreateStudent(CreateStudentRequest{
		FirstName:     "Max",
		TargetAverage: 2.0,
		ProgramName:   "Informatik Bachelor",
		TotalCredits:  180,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	student, err := svc.CreateStudent(CreateStudentRequest{
		FirstName:       "Max",
		LastName:        "Mustermann",
		MatriculationNo: "123456",
		BirthDate:       models.NewDate(1990, time.January, 1),
		TargetAverage:   2.0,
		ProgramName:     "Informatik Bachelor",
		TotalCredits:    180,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultScale(), student.Program.Scale)
	assert.Equal(t, 180, student.Program.TotalCredits)
}

func TestAddSemesterDuplicateOrdinalConflicts(t *testing.T) {
	svc := NewRecordService(nil, nil)
	st := newTestStudent(t)

	_, err := svc.AddSemester(st, AddSemesterRequest{Ordinal: 1})
	require.NoError(t, err)

	_, err = svc.AddSemester(st, AddSemesterRequest{Ordinal: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestAddModuleAutoCreatesSemester(t *testing.T) {
	svc := NewRecordService(nil, nil)
	st := newTestStudent(t)

	module, err := svc.AddModule(st, AddModuleRequest{
		SemesterOrdinal: 3,
		Name:            "Databases",
		Credits:         5,
	})
	require.NoError(t, err)

	sem := st.Program.Semester(3)
	require.NotNil(t, sem)
	require.Len(t, sem.Modules, 1)
	assert.Same(t, module, sem.Modules[0])

	// names are unique per program
	_, err = svc.AddModule(st, AddModuleRequest{SemesterOrdinal: 4, Name: "Databases", Credits: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestAddModuleRejectsNonPositiveCredits(t *testing.T) {
	svc := NewRecordService(nil, nil)
	st := newTestStudent(t)

	_, err := svc.AddModule(st, AddModuleRequest{SemesterOrdinal: 1, Name: "Databases", Credits: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestAddExamWithImmediateGrade(t *testing.T) {
	svc := NewRecordService(nil, nil)
	st := newTestStudent(t)
	_, err := svc.AddModule(st, AddModuleRequest{SemesterOrdinal: 1, Name: "Databases", Credits: 5})
	require.NoError(t, err)

	grade := 1.7
	exam, err := svc.AddExam(st, AddExamRequest{
		ModuleName: "Databases",
		Kind:       "exam",
		Date:       models.NewDate(2024, time.July, 15),
		Grade:      &grade,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ExamCompleted, exam.Status)
	require.NotNil(t, exam.Grade)
	assert.Equal(t, 1.7, *exam.Grade)
}

func TestAddExamRejectsGradeOutsideScale(t *testing.T) {
	svc := NewRecordService(nil, nil)
	st := newTestStudent(t)
	_, err := svc.AddModule(st, AddModuleRequest{SemesterOrdinal: 1, Name: "Databases", Credits: 5})
	require.NoError(t, err)

	grade := 9.0
	_, err = svc.AddExam(st, AddExamRequest{ModuleName: "Databases", Grade: &grade})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	// the invalid exam never entered the graph
	assert.Empty(t, st.Program.FindModule("Databases").Exams)
}

func TestRecordGradeCompletesScheduledExam(t *testing.T) {
	svc := NewRecordService(nil, nil)
	st := newTestStudent(t)
	_, err := svc.AddModule(st, AddModuleRequest{SemesterOrdinal: 1, Name: "Databases", Credits: 5})
	require.NoError(t, err)
	exam, err := svc.AddExam(st, AddExamRequest{ModuleName: "Databases", Date: models.Today()})
	require.NoError(t, err)
	require.Equal(t, models.ExamScheduled, exam.Status)

	updated, err := svc.RecordGrade(st, RecordGradeRequest{ExamID: exam.ID, Grade: 2.3})
	require.NoError(t, err)
	assert.Equal(t, models.ExamCompleted, updated.Status)

	_, err = svc.RecordGrade(st, RecordGradeRequest{ExamID: "missing", Grade: 2.0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestSetTargetAverageWithinScale(t *testing.T) {
	svc := NewRecordService(nil, nil)
	st := newTestStudent(t)

	require.NoError(t, svc.SetTargetAverage(st, 1.5))
	assert.Equal(t, 1.5, st.TargetAverage)

	err := svc.SetTargetAverage(st, 0.2)
	require.Error(t, err)
	assert.Equal(t, 1.5, st.TargetAverage)
}

func TestDeleteCascades(t *testing.T) {
	svc := NewRecordService(nil, nil)
	st := newTestStudent(t)
	_, err := svc.AddModule(st, AddModuleRequest{SemesterOrdinal: 1, Name: "Databases", Credits: 5})
	require.NoError(t, err)
	exam, err := svc.AddExam(st, AddExamRequest{ModuleName: "Databases", Date: models.Today()})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExam(st, exam.ID))
	found, _ := st.Program.FindExam(exam.ID)
	assert.Nil(t, found)

	require.NoError(t, svc.DeleteModule(st, "Databases"))
	assert.Nil(t, st.Program.FindModule("Databases"))

	require.NoError(t, svc.DeleteSemester(st, 1))
	assert.Nil(t, st.Program.Semester(1))

	err = svc.DeleteSemester(st, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
