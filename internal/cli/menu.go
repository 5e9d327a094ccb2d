// Package cli is the text interaction surface. It only collects raw
// field values, delegates to the services and prints their results; no
// domain rule lives here.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/studydash/studydash/internal/models"
	"github.com/studydash/studydash/internal/service"
	"github.com/studydash/studydash/internal/store"
)

// Menu drives the interactive loop over a loaded student record.
type Menu struct {
	in        *bufio.Scanner
	out       io.Writer
	records   *service.RecordService
	analytics *service.AnalyticsService
	transfer  *service.TransferService
	reports   *service.ReportService
	store     *store.JSONStore
	exportDir string
	logger    *zap.Logger
}

// New wires the menu against its collaborators.
func New(in io.Reader, out io.Writer, records *service.RecordService, analytics *service.AnalyticsService,
	transfer *service.TransferService, reports *service.ReportService, st *store.JSONStore,
	exportDir string, logger *zap.Logger) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Menu{
		in:        bufio.NewScanner(in),
		out:       out,
		records:   records,
		analytics: analytics,
		transfer:  transfer,
		reports:   reports,
		store:     st,
		exportDir: exportDir,
		logger:    logger,
	}
}

// Run loops until the user exits. The record is saved after every
// successful mutation and once more on exit.
func (m *Menu) Run(student *models.Student) error {
	for {
		m.printDashboard(student)
		fmt.Fprintln(m.out, "")
		fmt.Fprintln(m.out, " 1) record a grade")
		fmt.Fprintln(m.out, " 2) add a module")
		fmt.Fprintln(m.out, " 3) schedule an exam")
		fmt.Fprintln(m.out, " 4) change target average")
		fmt.Fprintln(m.out, " 5) what-if projection")
		fmt.Fprintln(m.out, " 6) export CSV")
		fmt.Fprintln(m.out, " 7) import CSV")
		fmt.Fprintln(m.out, " 8) export XLSX")
		fmt.Fprintln(m.out, " 9) render PDF report")
		fmt.Fprintln(m.out, " 0) save and exit")

		choice := m.prompt("> ")
		var err error
		switch choice {
		case "1":
			err = m.recordGrade(student)
		case "2":
			err = m.addModule(student)
		case "3":
			err = m.scheduleExam(student)
		case "4":
			err = m.changeTarget(student)
		case "5":
			err = m.projection(student)
		case "6":
			err = m.exportFile(student, "csv")
		case "7":
			err = m.importCSV(student)
		case "8":
			err = m.exportFile(student, "xlsx")
		case "9":
			err = m.exportFile(student, "pdf")
		case "0":
			return m.store.Save(student)
		default:
			fmt.Fprintln(m.out, "unknown option")
			continue
		}

		if err != nil {
			fmt.Fprintf(m.out, "error: %v\n", err)
			continue
		}
		if err := m.store.Save(student); err != nil {
			return err
		}
	}
}

func (m *Menu) printDashboard(st *models.Student) {
	fmt.Fprintf(m.out, "\n=== %s | %s ===\n", st.FullName(), st.Program.Name)

	avg := m.analytics.OverallAverage(st)
	if avg == nil {
		fmt.Fprintln(m.out, "average:   no graded exams yet")
	} else {
		fmt.Fprintf(m.out, "average:   %.2f (target %.2f)\n", *avg, st.TargetAverage)
	}

	switch onTarget := m.analytics.OnTarget(st); {
	case onTarget == nil:
		fmt.Fprintln(m.out, "on target: undetermined")
	case *onTarget:
		fmt.Fprintln(m.out, "on target: yes")
	default:
		fmt.Fprintln(m.out, "on target: no")
	}

	progress := m.analytics.Progress(st)
	fmt.Fprintf(m.out, "credits:   %d/%d (%.1f%%)\n", progress.Completed, progress.Required, progress.Ratio*100)

	for _, u := range m.analytics.UpcomingExams(st, 30) {
		fmt.Fprintf(m.out, "upcoming:  %s (%s) on %s [%s]\n", u.Module.Name, u.Exam.Kind, u.Exam.Date, u.Exam.ID)
	}
}

func (m *Menu) recordGrade(st *models.Student) error {
	module := st.Program.FindModule(m.prompt("module name: "))
	if module == nil {
		return fmt.Errorf("module not found")
	}
	grade, err := strconv.ParseFloat(m.prompt("grade: "), 64)
	if err != nil {
		return fmt.Errorf("grade must be numeric")
	}

	// prefer completing an open exam; otherwise record an ad-hoc one
	for _, e := range module.Exams {
		if e.Status == models.ExamScheduled {
			_, err := m.records.RecordGrade(st, service.RecordGradeRequest{ExamID: e.ID, Grade: grade})
			return err
		}
	}
	_, err = m.records.AddExam(st, service.AddExamRequest{
		ModuleName: module.Name,
		Kind:       m.prompt("kind (exam/paper/oral/project): "),
		Date:       models.Today(),
		Grade:      &grade,
	})
	return err
}

func (m *Menu) addModule(st *models.Student) error {
	ordinal, err := strconv.Atoi(m.prompt("semester ordinal: "))
	if err != nil {
		return fmt.Errorf("ordinal must be a number")
	}
	name := m.prompt("module name: ")
	credits, err := strconv.Atoi(m.prompt("credits: "))
	if err != nil {
		return fmt.Errorf("credits must be a number")
	}
	_, err = m.records.AddModule(st, service.AddModuleRequest{
		SemesterOrdinal: ordinal,
		Name:            name,
		Code:            m.prompt("code (optional): "),
		Credits:         credits,
	})
	return err
}

func (m *Menu) scheduleExam(st *models.Student) error {
	name := m.prompt("module name: ")
	date, err := models.ParseDate(m.prompt("date (YYYY-MM-DD): "))
	if err != nil {
		return err
	}
	_, err = m.records.AddExam(st, service.AddExamRequest{
		ModuleName: name,
		Kind:       m.prompt("kind (exam/paper/oral/project): "),
		Date:       date,
	})
	return err
}

func (m *Menu) changeTarget(st *models.Student) error {
	target, err := strconv.ParseFloat(m.prompt("new target average: "), 64)
	if err != nil {
		return fmt.Errorf("target must be numeric")
	}
	return m.records.SetTargetAverage(st, target)
}

func (m *Menu) projection(st *models.Student) error {
	examID := m.prompt("scheduled exam id: ")
	grade, err := strconv.ParseFloat(m.prompt("hypothetical grade: "), 64)
	if err != nil {
		return fmt.Errorf("grade must be numeric")
	}
	projected, err := m.analytics.ProjectedAverage(st, map[string]float64{examID: grade})
	if err != nil {
		return err
	}
	if projected == nil {
		fmt.Fprintln(m.out, "projection: still no data")
		return nil
	}
	fmt.Fprintf(m.out, "projected average: %.2f\n", *projected)
	return nil
}

func (m *Menu) exportFile(st *models.Student, format string) error {
	var payload []byte
	var err error
	switch format {
	case "csv":
		payload, err = m.transfer.ExportCSV(st)
	case "xlsx":
		payload, err = m.transfer.ExportXLSX(st)
	case "pdf":
		payload, err = m.reports.DashboardPDF(st)
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(m.exportDir, 0o755); err != nil {
		return fmt.Errorf("prepare export directory: %w", err)
	}
	name := fmt.Sprintf("grades-%s.%s", time.Now().Format("20060102-150405"), format)
	path := filepath.Join(m.exportDir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(m.out, "written %s\n", path)
	return nil
}

func (m *Menu) importCSV(st *models.Student) error {
	path := m.prompt("csv path: ")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	result, err := m.transfer.ImportCSV(st, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "imported %d rows\n", result.Imported)
	for _, rowErr := range result.Errors {
		fmt.Fprintf(m.out, "  line %d (%s): %s\n", rowErr.Line, rowErr.Field, rowErr.Message)
	}
	return nil
}

func (m *Menu) prompt(label string) string {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return ""
	}
	return strings.TrimSpace(m.in.Text())
}
