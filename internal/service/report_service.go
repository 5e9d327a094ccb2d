package service

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/studydash/studydash/internal/models"
	"github.com/studydash/studydash/pkg/apperr"
	"github.com/studydash/studydash/pkg/export"
)

// ReportService renders the dashboard as a PDF document: key figures,
// credit progress, grade distribution, per-semester averages and the
// upcoming exam list. It reads aggregates only and never writes to the
// graph.
type ReportService struct {
	analytics *AnalyticsService
	logger    *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(analytics *AnalyticsService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{analytics: analytics, logger: logger}
}

// DashboardPDF builds the full report for the loaded record.
func (s *ReportService) DashboardPDF(st *models.Student) ([]byte, error) {
	if st == nil || st.Program == nil {
		return nil, apperr.Clone(apperr.ErrNoData, "no record loaded")
	}

	report := export.NewPDFReport(fmt.Sprintf("Study dashboard - %s", st.FullName()))

	avg := s.analytics.OverallAverage(st)
	onTarget := s.analytics.OnTarget(st)
	progress := s.analytics.Progress(st)

	report.AddSection("Key figures")
	report.AddKeyValues([][2]string{
		{"Program", st.Program.Name},
		{"Overall average", formatAverage(avg)},
		{"Target average", fmt.Sprintf("%.2f", st.TargetAverage)},
		{"On target", formatOnTarget(onTarget)},
		{"Credits", fmt.Sprintf("%d / %d", progress.Completed, progress.Required)},
	})

	report.AddSection("Credit progress")
	report.AddProgressBar(progress.Ratio,
		fmt.Sprintf("%d of %d credits completed", progress.Completed, progress.Required))

	report.AddSection("Grade distribution")
	distribution := s.analytics.GradeDistribution(st)
	labels := make([]string, 0, len(distribution))
	counts := make([]float64, 0, len(distribution))
	maxCount := 0.0
	for _, gc := range distribution {
		labels = append(labels, strconv.FormatFloat(gc.Grade, 'f', -1, 64))
		counts = append(counts, float64(gc.Count))
		if float64(gc.Count) > maxCount {
			maxCount = float64(gc.Count)
		}
	}
	if err := report.AddBarChart(labels, counts, maxCount); err != nil {
		return nil, err
	}

	report.AddSection("Semester averages")
	rows := s.analytics.SemesterAverages(st)
	semLabels := make([]string, 0, len(rows))
	semValues := make([]float64, 0, len(rows))
	for _, row := range rows {
		if row.Average == nil {
			continue
		}
		semLabels = append(semLabels, fmt.Sprintf("S%d", row.Ordinal))
		semValues = append(semValues, *row.Average)
	}
	if err := report.AddBarChart(semLabels, semValues, st.Program.Scale.Worst); err != nil {
		return nil, err
	}

	report.AddSection("Upcoming exams (30 days)")
	upcoming := s.analytics.UpcomingExams(st, 30)
	table := export.Dataset{Headers: []string{"module", "kind", "date"}}
	for _, u := range upcoming {
		table.Rows = append(table.Rows, []string{u.Module.Name, u.Exam.Kind, u.Exam.Date.String()})
	}
	if err := report.AddTable(table); err != nil {
		return nil, err
	}

	payload, err := report.Output()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, "render dashboard pdf")
	}
	s.logger.Info("dashboard report rendered", zap.Int("bytes", len(payload)))
	return payload, nil
}

func formatAverage(avg *float64) string {
	if avg == nil {
		return "no graded exams yet"
	}
	return fmt.Sprintf("%.2f", *avg)
}

func formatOnTarget(v *bool) string {
	switch {
	case v == nil:
		return "undetermined"
	case *v:
		return "yes"
	default:
		return "no"
	}
}
