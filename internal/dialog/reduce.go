package dialog

import (
	"encoding/json"
	"fmt"

	"github.com/ivanoskov/vacancy_bot/internal/model"
)

// ReduceGender сворачивает выбранные варианты: пусто или оба - "any"
func ReduceGender(selected []model.Gender) model.Gender {
	var male, female bool
	for _, g := range selected {
		switch g {
		case model.GenderMale:
			male = true
		case model.GenderFemale:
			female = true
		}
	}
	switch {
	case male && !female:
		return model.GenderMale
	case female && !male:
		return model.GenderFemale
	default:
		return model.GenderAny
	}
}

type languageEntry struct {
	Language string `json:"language"`
	Custom   bool   `json:"custom,omitempty"`
	Level    string `json:"level"`
}

// ReduceLanguages сериализует выбранные языки в порядке добавления.
// Дубликаты отсекаются при добавлении, здесь они не проверяются.
func ReduceLanguages(selected []model.LanguageChoice) (string, error) {
	entries := make([]languageEntry, 0, len(selected))
	for _, c := range selected {
		entry := languageEntry{Language: c.Key, Level: c.Level}
		if c.Key == "" {
			entry = languageEntry{Language: c.Name, Custom: true, Level: c.Level}
		}
		entries = append(entries, entry)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode languages: %w", err)
	}
	return string(data), nil
}

// ParseLanguages разбирает значение, записанное ReduceLanguages
func ParseLanguages(raw string) ([]model.LanguageChoice, error) {
	var entries []languageEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse languages: %w", err)
	}
	out := make([]model.LanguageChoice, 0, len(entries))
	for _, entry := range entries {
		if entry.Custom {
			out = append(out, model.LanguageChoice{Name: entry.Language, Level: entry.Level})
			continue
		}
		out = append(out, model.LanguageChoice{Key: entry.Language, Level: entry.Level})
	}
	return out, nil
}
