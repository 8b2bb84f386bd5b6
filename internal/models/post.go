package models

import "time"

// Post — публикация автора: текст и, возможно, медиафайл.
type Post struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	File          *string   `json:"file,omitempty"`
	AuthorUID     string    `json:"author_uid"`
	Public        bool      `json:"public"`
	Premium       bool      `json:"premium"`
	Price         int64     `json:"price"`
	ViewCount     int64     `json:"view_count"`
	LikeCount     int64     `json:"like_count"`
	SequenceOrder *int      `json:"sequence_order,omitempty"`
	SeriesID      *int64    `json:"series_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PostInput используется для приёма данных поста из JSON-запроса.
type PostInput struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Description   string  `json:"description"`
	File          *string `json:"file,omitempty" validate:"omitempty,max=255"`
	Premium       bool    `json:"premium"`
	Price         int64   `json:"price"`
	SequenceOrder *int    `json:"sequence_order,omitempty"`
	SeriesID      *int64  `json:"series_id,omitempty"`
}

// Series объединяет посты в серию (главы курса).
type Series struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorUID   string    `json:"author_uid"`
	CreatedAt   time.Time `json:"created_at"`
}

// SeriesInput используется для приёма данных серии из JSON-запроса.
type SeriesInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
}

// Comment — комментарий пользователя к посту.
type Comment struct {
	ID        int64     `json:"id"`
	UserUID   string    `json:"user_uid"`
	PostID    int64     `json:"post_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
