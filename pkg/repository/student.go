package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jwen23/campusbot/pkg/domain"
)

type studentRepository struct {
	db *sql.DB
}

func NewStudentRepository(db *sql.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, studentID int64) (*domain.Student, error) {
	const query = `
		SELECT student_id, name, platform_id
		FROM students
		WHERE student_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, studentID))
}

func (r *studentRepository) GetByPlatformID(ctx context.Context, platformID int64) (*domain.Student, error) {
	const query = `
		SELECT student_id, name, platform_id
		FROM students
		WHERE platform_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, platformID))
}

func (r *studentRepository) UpdatePlatformID(ctx context.Context, studentID, platformID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET platform_id = $2 WHERE student_id = $1`, studentID, platformID)
	if err != nil {
		return fmt.Errorf("updating student platform id: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *studentRepository) scanOne(row *sql.Row) (*domain.Student, error) {
	var s domain.Student
	if err := row.Scan(&s.StudentID, &s.Name, &s.PlatformID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching student: %w", err)
	}
	return &s, nil
}
