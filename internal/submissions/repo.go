package submissions

import (
	"context"
	"database/sql"
	"fmt"

	"tycoonhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, s models.Submission) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO submissions (id, name, developer, type, status, link, image, description, submitted_by, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Name, s.Developer, s.Type, s.Status, s.Link, s.Image, s.Description, s.SubmittedBy, s.SubmittedAt)

	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]models.Submission, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, developer, type, status, link, image, description, submitted_by, submitted_at
		FROM submissions
		ORDER BY submitted_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := []models.Submission{}
	for rows.Next() {
		var (
			s     models.Submission
			link  sql.NullString
			image sql.NullString
		)
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Developer, &s.Type, &s.Status,
			&link, &image, &s.Description, &s.SubmittedBy, &s.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		s.Link = link.String
		s.Image = image.String
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
