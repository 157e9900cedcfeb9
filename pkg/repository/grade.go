package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jwen23/campusbot/pkg/domain"
)

type gradeRepository struct {
	db *sql.DB
}

func NewGradeRepository(db *sql.DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) ListByStudentID(ctx context.Context, studentID int64) ([]domain.Grade, error) {
	const query = `
		SELECT g.student_id, s.name, g.exam_name, g.score
		FROM grades g
		JOIN students s ON s.student_id = g.student_id
		WHERE g.student_id = $1
		ORDER BY g.exam_name
	`

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("listing grades: %w", err)
	}
	defer rows.Close()

	var grades []domain.Grade
	for rows.Next() {
		var g domain.Grade
		if err := rows.Scan(&g.StudentID, &g.StudentName, &g.ExamName, &g.Score); err != nil {
			return nil, fmt.Errorf("scanning grade: %w", err)
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading grades: %w", err)
	}

	return grades, nil
}
