// Package verification содержит генерацию кодов подтверждения и нормализацию
// контактных данных пользователя: телефона и email.
package verification

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// CodeLength — длина кода подтверждения из SMS.
const CodeLength = 6

// ErrInvalidPhone возвращается для номера, который не похож на телефон.
var ErrInvalidPhone = errors.New("invalid phone number")

// GenerateCode возвращает случайный цифровой код длиной length.
func GenerateCode(length int) (string, error) {
	const op = "verification.GenerateCode"
	var b strings.Builder
	b.Grow(length)
	ten := big.NewInt(10)
	for range length {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// CodesEqual сравнивает коды за время, не зависящее от совпавшего префикса.
func CodesEqual(expected, got string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

// NormalizePhone убирает из номера пробелы, скобки и дефисы, проверяет, что
// осталось от 10 до 15 цифр, и приводит номер к виду "+<цифры>".
// Ведущий "+" во входе необязателен.
func NormalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	b.WriteByte('+')
	for i, r := range phone {
		switch {
		case r == '+' && i == 0:
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return "", ErrInvalidPhone
		}
	}
	out := b.String()
	digits := strings.TrimPrefix(out, "+")
	if len(digits) < 10 || len(digits) > 15 {
		return "", ErrInvalidPhone
	}
	return out, nil
}

// NormalizeEmail обрезает пробелы и приводит доменную часть адреса к нижнему регистру.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
