package models

import "time"

// PendingRegistration — незавершённая регистрация, ожидающая подтверждения телефона кодом из SMS.
// Хранится во временном хранилище под непрозрачным токеном и живёт до ExpiresAt.
type PendingRegistration struct {
	Token        string    `json:"token"`
	PhoneNumber  string    `json:"phone_number"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Code         string    `json:"code"`
	Attempts     int       `json:"attempts"`
	ExpiresAt    time.Time `json:"expires_at"`
}
