// Package models содержит доменные структуры платформы: пользователей,
// посты, серии, подписки и платежи.
package models

import "time"

const (
	// RoleUser — обычный пользователь.
	RoleUser = "user"
	// RoleAdmin — администратор, обладает всеми правами.
	RoleAdmin = "admin"
)

// Статусы оплаты подписки в профиле пользователя.
const (
	SubscriptionStatusNone = "none"
	SubscriptionStatusPaid = "paid"
)

// Permission — право пользователя на действие над чужим контентом.
type Permission string

const (
	// PermDeleteAnyPost позволяет удалять любой пост.
	PermDeleteAnyPost Permission = "can_delete_any_post"
	// PermUnpublishPost позволяет снимать с публикации любой пост.
	PermUnpublishPost Permission = "can_unpublish_post"
)

// User представляет зарегистрированного пользователя системы.
// Логином служит номер телефона.
type User struct {
	UID                string    `json:"uid"`
	PhoneNumber        string    `json:"phone_number"`
	Email              *string   `json:"email,omitempty"`
	PasswordHash       string    `json:"-"`
	Avatar             *string   `json:"avatar,omitempty"`
	Country            *string   `json:"country,omitempty"`
	Token              *string   `json:"-"`
	IsActive           bool      `json:"is_active"`
	Role               string    `json:"role"`
	CanDeleteAnyPost   bool      `json:"can_delete_any_post"`
	CanUnpublishPost   bool      `json:"can_unpublish_post"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
}

// HasPerm сообщает, обладает ли пользователь правом perm. Администратору разрешено всё.
func (u *User) HasPerm(perm Permission) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	switch perm {
	case PermDeleteAnyPost:
		return u.CanDeleteAnyPost
	case PermUnpublishPost:
		return u.CanUnpublishPost
	}
	return false
}

// ProfileUpdate — изменяемые пользователем поля профиля.
type ProfileUpdate struct {
	Avatar  *string `json:"avatar,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Country *string `json:"country,omitempty" validate:"omitempty,max=50"`
}
