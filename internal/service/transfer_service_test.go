package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydash/studydash/internal/models"
)

func TestExportCSVOneRowPerExam(t *testing.T) {
	st := newTestStudent(t)
	addGradedModule(t, st, 1, "Programming 1", 10, []float64{1.3}, []float64{1})

	module, err := models.NewModule("Databases", "", 5, 2)
	require.NoError(t, err)
	open, err := models.NewExam(module.ID, "exam", models.NewDate(2025, time.September, 14), 1.0)
	require.NoError(t, err)
	module.AddExam(open)
	st.Program.EnsureSemester(2).AddModule(module)

	svc := NewTransferService(5, nil)
	payload, err := svc.ExportCSV(st)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "module,semester,grade,weight,date,status", lines[0])
	assert.Equal(t, "Programming 1,1,1.3,1,2024-07-15,completed", lines[1])
	assert.Equal(t, "Databases,2,,1,2025-09-14,scheduled", lines[2])
}

func TestImportCSVBestEffortCollectsRowErrors(t *testing.T) {
	st := newTestStudent(t)

	csvInput := strings.Join([]string{
		"module,semester,grade,weight,date,status",
		"Programming 1,1,1.3,1,2023-07-15,completed",
		"Mathematics 1,1,2.0,1,2023-07-20,completed",
		"Computer Architecture,1,9,1,2023-07-25,completed",
		"Programming 2,2,2.7,1,2024-02-15,completed",
		"Databases,3,,1,2025-09-14,scheduled",
	}, "\n")

	svc := NewTransferService(5, nil)
	result, err := svc.ImportCSV(st, strings.NewReader(csvInput))
	require.NoError(t, err)

	assert.Equal(t, 4, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 4, result.Errors[0].Line) // header is line 1
	assert.Equal(t, "grade", result.Errors[0].Field)

	// the bad row left no trace, the good rows all landed
	assert.Nil(t, st.Program.FindModule("Computer Architecture"))
	require.NotNil(t, st.Program.FindModule("Programming 1"))
	require.NotNil(t, st.Program.FindModule("Databases"))
}

func TestImportCSVAutoCreatesModuleAndSemester(t *testing.T) {
	st := newTestStudent(t)

	csvInput := "module,semester,grade,weight,date,status\n" +
		"Machine Learning,5,1.7,2,2026-02-10,completed\n"

	svc := NewTransferService(5, nil)
	result, err := svc.ImportCSV(st, strings.NewReader(csvInput))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Errors)

	sem := st.Program.Semester(5)
	require.NotNil(t, sem)
	module := st.Program.FindModule("Machine Learning")
	require.NotNil(t, module)
	assert.Equal(t, 5, module.Credits) // documented auto-create default
	require.Len(t, module.Exams, 1)
	exam := module.Exams[0]
	assert.Equal(t, models.ExamCompleted, exam.Status)
	require.NotNil(t, exam.Grade)
	assert.Equal(t, 1.7, *exam.Grade)
	assert.Equal(t, 2.0, exam.Weight)
}

func TestImportCSVRejectsBadRows(t *testing.T) {
	st := newTestStudent(t)
	svc := NewTransferService(5, nil)

	cases := []struct {
		name  string
		row   string
		field string
	}{
		{"missing module", ",1,2.0,1,2024-07-15,completed", "module"},
		{"bad semester", "Databases,zero,2.0,1,2024-07-15,completed", "semester"},
		{"non numeric grade", "Databases,1,abc,1,2024-07-15,completed", "grade"},
		{"negative weight", "Databases,1,2.0,-1,2024-07-15,completed", "weight"},
		{"bad date", "Databases,1,2.0,1,15.07.2024,completed", "date"},
		{"bad status", "Databases,1,2.0,1,2024-07-15,done", "status"},
		{"completed without grade", "Databases,1,,1,2024-07-15,completed", "grade"},
		{"scheduled with grade", "Databases,1,2.0,1,2024-07-15,scheduled", "status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := "module,semester,grade,weight,date,status\n" + tc.row + "\n"
			result, err := svc.ImportCSV(st, strings.NewReader(input))
			require.NoError(t, err)
			assert.Equal(t, 0, result.Imported)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tc.field, result.Errors[0].Field)
		})
	}
}

func TestImportCSVRejectsWrongHeader(t *testing.T) {
	st := newTestStudent(t)
	svc := NewTransferService(5, nil)

	_, err := svc.ImportCSV(st, strings.NewReader("a,b,c\n"))
	require.Error(t, err)
}

func TestExportXLSXProducesWorkbook(t *testing.T) {
	st := newTestStudent(t)
	addGradedModule(t, st, 1, "Programming 1", 10, []float64{1.3}, []float64{1})

	svc := NewTransferService(5, nil)
	payload, err := svc.ExportXLSX(st)
	require.NoError(t, err)
	// XLSX files are zip archives
	require.True(t, len(payload) > 4)
	assert.Equal(t, []byte{'P', 'K'}, payload[:2])
}
