package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/premium-blog/internal/models"
)

// LikePost ставит лайк от пользователя. Повторный лайк ничего не меняет.
// Возвращает актуальное число лайков поста.
func (s *Storage) LikePost(ctx context.Context, userUID string, postID int64) (int64, error) {
	const op = "storage.LikePost"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO post_likes (user_uid, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userUID, postID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return s.countLikes(ctx, op, postID)
}

// UnlikePost снимает лайк пользователя.
func (s *Storage) UnlikePost(ctx context.Context, userUID string, postID int64) (int64, error) {
	const op = "storage.UnlikePost"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM post_likes WHERE user_uid = $1 AND post_id = $2`, userUID, postID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return s.countLikes(ctx, op, postID)
}

func (s *Storage) countLikes(ctx context.Context, op string, postID int64) (int64, error) {
	var n int64
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// AddComment сохраняет комментарий к посту.
func (s *Storage) AddComment(ctx context.Context, c models.Comment) (*models.Comment, error) {
	const op = "storage.AddComment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	out := c
	if err := s.DB.QueryRowContext(ctx,
		`INSERT INTO comments (user_uid, post_id, text) VALUES ($1, $2, $3) RETURNING id, created_at`,
		c.UserUID, c.PostID, c.Text).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// ListComments возвращает комментарии поста в порядке добавления.
func (s *Storage) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	const op = "storage.ListComments"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, user_uid, post_id, text, created_at FROM comments WHERE post_id = $1 ORDER BY id`, postID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.UserUID, &c.PostID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
