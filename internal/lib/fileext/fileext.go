// Package fileext определяет расширение прикреплённого к посту файла для отображения.
package fileext

import (
	"path"
	"strings"
)

// Unknown подставляется в списках вместо расширения, если файл не прикреплён.
const Unknown = "unknown"

// Extension возвращает расширение файла в нижнем регистре без точки.
// Для имени без точки или с единственной ведущей точкой возвращается пустая строка.
func Extension(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	i := strings.LastIndex(base, ".")
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// ForList возвращает расширение для элемента списка: Unknown, если файла нет.
func ForList(name *string) string {
	if name == nil || *name == "" {
		return Unknown
	}
	return Extension(*name)
}
