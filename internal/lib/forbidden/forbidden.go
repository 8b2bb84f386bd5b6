// Package forbidden проверяет тексты постов на недопустимые слова.
package forbidden

import "strings"

// Words — список недопустимых слов.
var Words = []string{
	"казино",
	"криптовалюта",
	"крипта",
	"биржа",
	"дешево",
	"бесплатно",
	"обман",
	"полиция",
	"радар",
}

var lookup = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Words))
	for _, w := range Words {
		m[w] = struct{}{}
	}
	return m
}()

// Find возвращает первое недопустимое слово в тексте. Текст делится на слова по пробельным
// символам, сравнение без учёта регистра. Если таких слов нет, возвращает "" и false.
func Find(text string) (string, bool) {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, ok := lookup[word]; ok {
			return word, true
		}
	}
	return "", false
}
