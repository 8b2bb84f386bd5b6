// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога,
// например, для передачи информации об ошибках.
package sl

import (
	"io"
	"log/slog"
	"strings"
)

// Окружения из конфигурации.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// New создаёт текстовый логгер. В локальном окружении пишутся отладочные сообщения,
// в остальных начиная с info.
func New(env string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if env == EnvLocal {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Phone возвращает slog.Attr с замаскированным номером телефона:
// в лог попадают только последние четыре цифры.
func Phone(phone string) slog.Attr {
	if len(phone) <= 4 {
		return slog.String("phone", phone)
	}
	return slog.String("phone", strings.Repeat("*", len(phone)-4)+phone[len(phone)-4:])
}
