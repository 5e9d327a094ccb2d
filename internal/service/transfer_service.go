package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/studydash/studydash/internal/models"
	"github.com/studydash/studydash/pkg/apperr"
	"github.com/studydash/studydash/pkg/export"
)

// csvHeader is the interchange contract: one row per exam record.
var csvHeader = []string{"module", "semester", "grade", "weight", "date", "status"}

// RowError reports a single rejected CSV row without aborting the rest
// of the batch.
type RowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarises a best-effort CSV import.
type ImportResult struct {
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors,omitempty"`
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// TransferService handles field-level interchange of exam records: CSV
// in both directions and XLSX out.
type TransferService struct {
	csv    datasetRenderer
	xlsx   datasetRenderer
	logger *zap.Logger

	// moduleCredits is the credit value given to modules auto-created
	// by an import row naming an unknown module.
	moduleCredits int
}

// NewTransferService constructs a TransferService.
func NewTransferService(moduleCredits int, logger *zap.Logger) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if moduleCredits <= 0 {
		moduleCredits = 5
	}
	return &TransferService{
		csv:           export.NewCSVExporter(),
		xlsx:          export.NewXLSXExporter("Exams"),
		logger:        logger,
		moduleCredits: moduleCredits,
	}
}

// buildDataset flattens every exam into interchange rows, graph order.
func (s *TransferService) buildDataset(st *models.Student) export.Dataset {
	data := export.Dataset{Headers: csvHeader}
	for _, sem := range st.Program.Semesters {
		for _, m := range sem.Modules {
			for _, e := range m.Exams {
				grade := ""
				if e.Grade != nil {
					grade = strconv.FormatFloat(*e.Grade, 'f', -1, 64)
				}
				data.Rows = append(data.Rows, []string{
					m.Name,
					strconv.Itoa(sem.Ordinal),
					grade,
					strconv.FormatFloat(e.Weight, 'f', -1, 64),
					e.Date.String(),
					string(e.Status),
				})
			}
		}
	}
	return data
}

// ExportCSV renders all exam records as CSV.
func (s *TransferService) ExportCSV(st *models.Student) ([]byte, error) {
	if st == nil || st.Program == nil {
		return nil, apperr.Clone(apperr.ErrNoData, "no record loaded")
	}
	return s.csv.Render(s.buildDataset(st))
}

// ExportXLSX renders the same dataset as a workbook.
func (s *TransferService) ExportXLSX(st *models.Student) ([]byte, error) {
	if st == nil || st.Program == nil {
		return nil, apperr.Clone(apperr.ErrNoData, "no record loaded")
	}
	return s.xlsx.Render(s.buildDataset(st))
}

// ImportCSV reads exam rows and attaches them to their modules. Rows
// naming an unknown module create it inside the referenced semester
// (creating the semester too) with the configured default credits.
// Invalid rows are collected as RowErrors; the batch never aborts on a
// bad row.
func (s *TransferService) ImportCSV(st *models.Student, r io.Reader) (*ImportResult, error) {
	if st == nil || st.Program == nil {
		return nil, apperr.Clone(apperr.ErrNoData, "no record loaded")
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrValidation.Code, "read csv header")
	}
	if !headerMatches(header) {
		return nil, apperr.Clone(apperr.ErrValidation,
			fmt.Sprintf("csv header must be %q", strings.Join(csvHeader, ",")))
	}

	result := &ImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Field: "", Message: err.Error()})
			continue
		}
		if rowErr := s.importRow(st, record, line); rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}
		result.Imported++
	}

	s.logger.Info("csv import finished",
		zap.Int("imported", result.Imported),
		zap.Int("rejected", len(result.Errors)))
	return result, nil
}

// importRow validates one record column by column and mutates the graph
// only after every field has passed.
func (s *TransferService) importRow(st *models.Student, record []string, line int) *RowError {
	if len(record) != len(csvHeader) {
		return &RowError{Line: line, Field: "", Message: fmt.Sprintf("expected %d columns, got %d", len(csvHeader), len(record))}
	}
	moduleName := strings.TrimSpace(record[0])
	if moduleName == "" {
		return &RowError{Line: line, Field: "module", Message: "module name missing"}
	}

	ordinal, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil || ordinal <= 0 {
		return &RowError{Line: line, Field: "semester", Message: "semester must be a positive integer"}
	}

	scale := st.Program.Scale
	var grade *float64
	if g := strings.TrimSpace(record[2]); g != "" {
		v, err := strconv.ParseFloat(g, 64)
		if err != nil {
			return &RowError{Line: line, Field: "grade", Message: "grade is not numeric"}
		}
		if !scale.Contains(v) {
			return &RowError{Line: line, Field: "grade", Message: "grade outside the program scale"}
		}
		grade = &v
	}

	weight := 1.0
	if w := strings.TrimSpace(record[3]); w != "" {
		v, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return &RowError{Line: line, Field: "weight", Message: "weight is not numeric"}
		}
		if v < 0 {
			return &RowError{Line: line, Field: "weight", Message: "weight must not be negative"}
		}
		weight = v
	}

	var date models.Date
	if d := strings.TrimSpace(record[4]); d != "" {
		date, err = models.ParseDate(d)
		if err != nil {
			return &RowError{Line: line, Field: "date", Message: "date must be YYYY-MM-DD"}
		}
	}

	status := models.ExamStatus(strings.TrimSpace(record[5]))
	if !models.ValidExamStatus(status) {
		return &RowError{Line: line, Field: "status", Message: "status must be scheduled or completed"}
	}
	if status == models.ExamCompleted && grade == nil {
		return &RowError{Line: line, Field: "grade", Message: "completed row requires a grade"}
	}
	if status == models.ExamScheduled && grade != nil {
		return &RowError{Line: line, Field: "status", Message: "scheduled row must not carry a grade"}
	}

	module := st.Program.FindModule(moduleName)
	if module == nil {
		created, err := models.NewModule(moduleName, "", s.moduleCredits, ordinal)
		if err != nil {
			return &RowError{Line: line, Field: "module", Message: err.Error()}
		}
		st.Program.EnsureSemester(ordinal).AddModule(created)
		module = created
		s.logger.Debug("module auto-created from import",
			zap.String("module", moduleName), zap.Int("semester", ordinal))
	}

	exam, err := models.NewExam(module.ID, "exam", date, weight)
	if err != nil {
		return &RowError{Line: line, Field: "weight", Message: err.Error()}
	}
	if grade != nil {
		if err := exam.SetGrade(*grade, scale); err != nil {
			return &RowError{Line: line, Field: "grade", Message: err.Error()}
		}
	}
	module.AddExam(exam)
	return nil
}

func headerMatches(header []string) bool {
	if len(header) != len(csvHeader) {
		return false
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(h), csvHeader[i]) {
			return false
		}
	}
	return true
}
