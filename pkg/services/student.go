package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwen23/campusbot/pkg/domain"
)

type StudentRepository interface {
	GetByID(ctx context.Context, studentID int64) (*domain.Student, error)
	GetByPlatformID(ctx context.Context, platformID int64) (*domain.Student, error)
	UpdatePlatformID(ctx context.Context, studentID, platformID int64) error
}

type studentService struct {
	students StudentRepository
}

func NewStudentService(students StudentRepository) *studentService {
	return &studentService{students: students}
}

// Bind associates a platform account with a student record. Re-binding an
// already bound account, or claiming a student bound to someone else, fails.
func (s *studentService) Bind(ctx context.Context, platformID, studentID int64) error {
	existing, err := s.students.GetByPlatformID(ctx, platformID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("checking existing binding: %w", err)
	}
	if existing != nil {
		return domain.Validationf("already bound to student %d, use --clear first", existing.StudentID)
	}

	target, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Validationf("student %d does not exist", studentID)
		}
		return fmt.Errorf("fetching student: %w", err)
	}
	if target.PlatformID != 0 {
		return domain.Validationf("student %d is already bound to another account", studentID)
	}

	if err := s.students.UpdatePlatformID(ctx, studentID, platformID); err != nil {
		return fmt.Errorf("binding student: %w", err)
	}
	return nil
}

// Unbind clears the binding of a platform account.
func (s *studentService) Unbind(ctx context.Context, platformID int64) error {
	existing, err := s.students.GetByPlatformID(ctx, platformID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Validationf("no student is bound to this account")
		}
		return fmt.Errorf("checking existing binding: %w", err)
	}

	if err := s.students.UpdatePlatformID(ctx, existing.StudentID, 0); err != nil {
		return fmt.Errorf("clearing binding: %w", err)
	}
	return nil
}

func (s *studentService) FindByPlatformID(ctx context.Context, platformID int64) (*domain.Student, error) {
	return s.students.GetByPlatformID(ctx, platformID)
}
