// Package sample seeds a demonstration record so the dashboard has
// something to show on first start, before the user enters real data.
package sample

import (
	"time"

	"github.com/studydash/studydash/internal/models"
	"github.com/studydash/studydash/pkg/config"
)

var sampleGrades = map[[2]int]float64{
	{1, 1}: 1.3, {1, 2}: 2.0, {1, 3}: 1.7,
	{2, 1}: 2.3, {2, 2}: 3.0, {2, 3}: 1.0,
	{3, 1}: 2.7,
}

// Student builds the demo record: six semesters with three modules
// each, graded through the first half of the third semester, plus two
// scheduled exams two weeks out.
func Student(cfg *config.Config) (*models.Student, error) {
	scale := models.Scale{
		Best:      cfg.Scale.Best,
		Worst:     cfg.Scale.Worst,
		PassLimit: cfg.Scale.PassLimit,
	}
	program, err := models.NewProgram(cfg.Defaults.ProgramName, cfg.Defaults.TotalCredits, scale)
	if err != nil {
		return nil, err
	}
	student, err := models.NewStudent(
		"Max", "Mustermann", "123456",
		models.NewDate(1985, time.June, 16),
		cfg.Defaults.TargetAverage,
		program,
	)
	if err != nil {
		return nil, err
	}
	student.Email = "max.mustermann@example.edu"
	student.Focus = "Computer Science"
	student.CurrentSemester = 3

	creditsFor := func(j int) int {
		switch j {
		case 1:
			return 10
		case 2:
			return 5
		default:
			return 15
		}
	}

	for i := 1; i <= 6; i++ {
		sem := models.NewSemester(i)
		year := 2022 + (i-1)/2
		if i%2 == 1 {
			start, end := models.NewDate(year, time.April, 1), models.NewDate(year, time.September, 30)
			sem.Start, sem.End = &start, &end
		} else {
			start, end := models.NewDate(year, time.October, 1), models.NewDate(year+1, time.March, 30)
			sem.Start, sem.End = &start, &end
		}
		switch {
		case i < 3:
			sem.Status = models.SemesterFinished
		case i == 3:
			sem.Status = models.SemesterActive
		}

		for j := 1; j <= 3; j++ {
			module, err := models.NewModule(
				moduleName(i, j),
				moduleCode(i, j),
				creditsFor(j),
				i,
			)
			if err != nil {
				return nil, err
			}

			if grade, ok := sampleGrades[[2]int{i, j}]; ok {
				kind := "exam"
				if j%2 == 0 {
					kind = "paper"
				}
				month := time.July
				if i%2 == 0 {
					month = time.February
				}
				exam, err := models.NewExam(module.ID, kind, models.NewDate(year, month, 15), 1.0)
				if err != nil {
					return nil, err
				}
				if err := exam.SetGrade(grade, scale); err != nil {
					return nil, err
				}
				module.AddExam(exam)
			}

			// current semester: schedule the still-open assessments
			if i == 3 && j > 1 {
				kind := "paper"
				if j%2 == 0 {
					kind = "exam"
				}
				exam, err := models.NewExam(module.ID, kind, models.DateOf(time.Now().AddDate(0, 0, 14)), 1.0)
				if err != nil {
					return nil, err
				}
				module.AddExam(exam)
			}

			sem.AddModule(module)
		}
		if err := program.AddSemester(sem); err != nil {
			return nil, err
		}
	}
	return student, nil
}

func moduleName(i, j int) string {
	names := [][3]string{
		{"Programming 1", "Mathematics 1", "Computer Architecture"},
		{"Programming 2", "Mathematics 2", "Algorithms and Data Structures"},
		{"Databases", "Operating Systems", "Software Engineering"},
		{"Computer Networks", "Theoretical CS", "Web Engineering"},
		{"Machine Learning", "IT Security", "Project Work"},
		{"Distributed Systems", "Seminar", "Bachelor Thesis"},
	}
	return names[i-1][j-1]
}

func moduleCode(i, j int) string {
	return "INF" + string(rune('0'+i)) + "0" + string(rune('0'+j))
}
