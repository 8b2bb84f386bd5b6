package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/premium-blog/internal/models"
)

// CreateSeries сохраняет серию постов.
func (s *Storage) CreateSeries(ctx context.Context, series models.Series) (*models.Series, error) {
	const op = "storage.CreateSeries"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	out := series
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO series (title, description, author_uid) VALUES ($1, $2, $3) RETURNING id, created_at`,
		series.Title, series.Description, series.AuthorUID).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// GetSeries возвращает серию по ID.
func (s *Storage) GetSeries(ctx context.Context, id int64) (*models.Series, error) {
	const op = "storage.GetSeries"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	var out models.Series
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, title, description, author_uid, created_at FROM series WHERE id = $1`, id).
		Scan(&out.ID, &out.Title, &out.Description, &out.AuthorUID, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}
