package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwen23/campusbot/pkg/domain"
)

type GradeRepository interface {
	ListByStudentID(ctx context.Context, studentID int64) ([]domain.Grade, error)
}

type gradeService struct {
	students StudentRepository
	grades   GradeRepository
}

func NewGradeService(students StudentRepository, grades GradeRepository) *gradeService {
	return &gradeService{students: students, grades: grades}
}

// ReportForPlatformID formats the grade report of the student bound to the
// given platform account.
func (g *gradeService) ReportForPlatformID(ctx context.Context, platformID int64) (string, error) {
	student, err := g.students.GetByPlatformID(ctx, platformID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.Validationf("no student bound to this account, bind with /bind <student id> first")
		}
		return "", fmt.Errorf("resolving student: %w", err)
	}

	grades, err := g.grades.ListByStudentID(ctx, student.StudentID)
	if err != nil {
		return "", fmt.Errorf("listing grades: %w", err)
	}
	if len(grades) == 0 {
		return fmt.Sprintf("no grades recorded for %s yet", student.Name), nil
	}

	var b strings.Builder
	for _, grade := range grades {
		fmt.Fprintf(&b, "%s scored %d in %s\n", grade.StudentName, grade.Score, grade.ExamName)
		if grade.Score < 60 {
			b.WriteString("please put in more study time, this material matters for later courses\n")
		}
	}
	return b.String(), nil
}
