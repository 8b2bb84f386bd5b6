package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/premium-blog/internal/models"
)

const postColumns = `p.id, p.title, p.description, p.file, p.author_uid, p.public, p.premium, p.price,
	p.view_count, (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id), p.sequence_order,
	p.series_id, p.created_at, p.updated_at`

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		p        models.Post
		file     sql.NullString
		seq      sql.NullInt64
		seriesID sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &file, &p.AuthorUID, &p.Public, &p.Premium, &p.Price,
		&p.ViewCount, &p.LikeCount, &seq, &seriesID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.File = nullString(file)
	p.SeriesID = nullInt64(seriesID)
	if seq.Valid {
		v := int(seq.Int64)
		p.SequenceOrder = &v
	}
	return &p, nil
}

func (s *Storage) queryPosts(ctx context.Context, op, query string, args ...any) ([]*models.Post, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreatePost сохраняет пост и возвращает его с присвоенным ID.
func (s *Storage) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	const op = "storage.CreatePost"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	query := `INSERT INTO posts AS p (title, description, file, author_uid, public, premium, price, sequence_order, series_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + postColumns
	p, err := scanPost(s.DB.QueryRowContext(ctx, query,
		post.Title, post.Description, post.File, post.AuthorUID, post.Public, post.Premium, post.Price,
		post.SequenceOrder, post.SeriesID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetPost возвращает пост по ID.
func (s *Storage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	const op = "storage.GetPost"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	p, err := scanPost(s.DB.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdatePost перезаписывает редактируемые поля поста.
func (s *Storage) UpdatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	const op = "storage.UpdatePost"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	query := `UPDATE posts AS p SET
			      title = $2, description = $3, file = $4, premium = $5, price = $6,
			      sequence_order = $7, series_id = $8, updated_at = NOW()
			  WHERE p.id = $1
			  RETURNING ` + postColumns
	p, err := scanPost(s.DB.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Description, post.File, post.Premium, post.Price, post.SequenceOrder, post.SeriesID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// SetPostPublic меняет признак публикации поста.
func (s *Storage) SetPostPublic(ctx context.Context, id int64, public bool) error {
	const op = "storage.SetPostPublic"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, `UPDATE posts SET public = $2, updated_at = NOW() WHERE id = $1`, id, public)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOneRow(res, op)
}

// DeletePost удаляет пост.
func (s *Storage) DeletePost(ctx context.Context, id int64) error {
	const op = "storage.DeletePost"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOneRow(res, op)
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// CountPublicPosts возвращает число опубликованных постов.
func (s *Storage) CountPublicPosts(ctx context.Context) (int, error) {
	const op = "storage.CountPublicPosts"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE public`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// ListPublicPosts возвращает опубликованные посты, новые первыми.
func (s *Storage) ListPublicPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	const op = "storage.ListPublicPosts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	query := `SELECT ` + postColumns + ` FROM posts p
			  WHERE p.public
			  ORDER BY p.id DESC
			  LIMIT $1 OFFSET $2`
	return s.queryPosts(ctx, op, query, limit, offset)
}

// IncrementViews атомарно увеличивает счётчик просмотров.
func (s *Storage) IncrementViews(ctx context.Context, id int64) (int64, error) {
	const op = "storage.IncrementViews"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	var views int64
	err := s.DB.QueryRowContext(ctx,
		`UPDATE posts SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`, id).Scan(&views)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return views, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchPosts ищет query как подстроку в заголовке или тексте без учёта регистра.
func (s *Storage) SearchPosts(ctx context.Context, query string) ([]*models.Post, error) {
	const op = "storage.SearchPosts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	pattern := "%" + likeEscaper.Replace(query) + "%"
	q := `SELECT ` + postColumns + ` FROM posts p
		  WHERE p.public AND (p.title ILIKE $1 ESCAPE '\' OR p.description ILIKE $1 ESCAPE '\')
		  ORDER BY p.id`
	return s.queryPosts(ctx, op, q, pattern)
}

// ListPostsBySeries возвращает посты серии в порядке следования.
func (s *Storage) ListPostsBySeries(ctx context.Context, seriesID int64) ([]*models.Post, error) {
	const op = "storage.ListPostsBySeries"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	query := `SELECT ` + postColumns + ` FROM posts p
			  WHERE p.series_id = $1 AND p.public
			  ORDER BY p.sequence_order NULLS LAST, p.id`
	return s.queryPosts(ctx, op, query, seriesID)
}
