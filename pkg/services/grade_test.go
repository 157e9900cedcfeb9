package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwen23/campusbot/pkg/domain"
)

type fakeGradeRepository struct {
	grades map[int64][]domain.Grade
}

func (f *fakeGradeRepository) ListByStudentID(_ context.Context, studentID int64) ([]domain.Grade, error) {
	return f.grades[studentID], nil
}

func TestGradeReport(t *testing.T) {
	students := newFakeStudentRepository(domain.Student{StudentID: 2021001, Name: "Li Lei", PlatformID: 900})
	grades := &fakeGradeRepository{grades: map[int64][]domain.Grade{
		2021001: {
			{StudentID: 2021001, StudentName: "Li Lei", ExamName: "Calculus Midterm", Score: 85},
			{StudentID: 2021001, StudentName: "Li Lei", ExamName: "Physics Midterm", Score: 52},
		},
	}}
	svc := NewGradeService(students, grades)

	report, err := svc.ReportForPlatformID(context.Background(), 900)
	require.NoError(t, err)

	assert.Contains(t, report, "Li Lei scored 85 in Calculus Midterm")
	assert.Contains(t, report, "Li Lei scored 52 in Physics Midterm")
	assert.Contains(t, report, "more study time")
	// The reminder belongs to the failing exam only.
	assert.Equal(t, 1, strings.Count(report, "more study time"))
}

func TestGradeReportNoGrades(t *testing.T) {
	students := newFakeStudentRepository(domain.Student{StudentID: 2021001, Name: "Li Lei", PlatformID: 900})
	svc := NewGradeService(students, &fakeGradeRepository{grades: map[int64][]domain.Grade{}})

	report, err := svc.ReportForPlatformID(context.Background(), 900)
	require.NoError(t, err)
	assert.Contains(t, report, "no grades recorded for Li Lei")
}

func TestGradeReportUnboundAccount(t *testing.T) {
	svc := NewGradeService(newFakeStudentRepository(), &fakeGradeRepository{})

	_, err := svc.ReportForPlatformID(context.Background(), 900)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "/bind")
}
