package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Reason - машиночитаемая причина отказа
type Reason string

const (
	ReasonEmpty         Reason = "empty"
	ReasonTooShort      Reason = "too_short"
	ReasonTooLong       Reason = "too_long"
	ReasonDisallowed    Reason = "disallowed"
	ReasonUnknownOption Reason = "unknown_option"
	ReasonDuplicate     Reason = "duplicate"
	ReasonFormat        Reason = "format"
)

// Rejection - результат неуспешной проверки ввода
type Rejection struct {
	Reason Reason
	Limit  int
}

func (r *Rejection) Error() string {
	if r.Limit > 0 {
		return fmt.Sprintf("input rejected: %s (%d)", r.Reason, r.Limit)
	}
	return fmt.Sprintf("input rejected: %s", r.Reason)
}

// Reject создает отказ без параметра
func Reject(reason Reason) error {
	return &Rejection{Reason: reason}
}

// AsRejection извлекает Rejection из цепочки ошибок
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// Guard - чистая функция проверки ввода: nil означает accept
type Guard func(input string) error

// Check применяет проверки по порядку и возвращает первый отказ
func Check(input string, guards ...Guard) error {
	for _, g := range guards {
		if err := g(input); err != nil {
			return err
		}
	}
	return nil
}

func NotEmpty() Guard {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return Reject(ReasonEmpty)
		}
		return nil
	}
}

// MinLength считает символы, а не байты
func MinLength(n int) Guard {
	return func(input string) error {
		if utf8.RuneCountInString(strings.TrimSpace(input)) < n {
			return &Rejection{Reason: ReasonTooShort, Limit: n}
		}
		return nil
	}
}

func MaxLength(n int) Guard {
	return func(input string) error {
		if utf8.RuneCountInString(strings.TrimSpace(input)) > n {
			return &Rejection{Reason: ReasonTooLong, Limit: n}
		}
		return nil
	}
}

// ContainsDigit - формат суммы: хотя бы одна цифра
func ContainsDigit() Guard {
	return func(input string) error {
		if strings.IndexFunc(input, unicode.IsDigit) < 0 {
			return Reject(ReasonFormat)
		}
		return nil
	}
}

// Fold приводит строку к виду для сравнения без учета регистра.
// Caser хранит состояние, поэтому создается на каждый вызов.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// EqualFold сравнивает строки без учета регистра и крайних пробелов
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Option - вариант выбора, предложенный кнопкой
type Option struct {
	Key   string
	Label string
}

// MatchChoice сопоставляет ввод с предложенными вариантами по ключу или подписи.
// Свободный текст, не совпавший ни с одной кнопкой, отклоняется.
func MatchChoice(input string, options []Option) (string, error) {
	for _, o := range options {
		if input == o.Key {
			return o.Key, nil
		}
	}
	folded := Fold(input)
	for _, o := range options {
		if folded != "" && Fold(o.Label) == folded {
			return o.Key, nil
		}
	}
	return "", Reject(ReasonUnknownOption)
}
