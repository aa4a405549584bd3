package dialog

import (
	"fmt"
	"strings"

	"github.com/ivanoskov/vacancy_bot/internal/model"
	"github.com/ivanoskov/vacancy_bot/internal/validation"
)

func (e *Engine) text(locale, key string) string {
	return e.texts.Text(key, locale)
}

func (e *Engine) textf(locale, key string, args ...any) string {
	return fmt.Sprintf(e.texts.Text(key, locale), args...)
}

func (e *Engine) option(locale, key, labelKey string) Option {
	return Option{Key: key, Label: e.text(locale, labelKey)}
}

func (e *Engine) rejectionText(locale string, r *validation.Rejection) string {
	key := "reject." + string(r.Reason)
	if r.Limit > 0 {
		return e.textf(locale, key, r.Limit)
	}
	return e.text(locale, key)
}

// navRow - служебные кнопки шага: "оставить как есть" (только в редактировании), "назад", "отмена"
func (e *Engine) navRow(st *model.UserState, back, keep bool) [][]Option {
	var rows [][]Option
	if keep && isEdit(st) {
		rows = append(rows, []Option{e.option(st.Locale, keyKeep, "nav.keep")})
	}
	row := []Option{}
	if back {
		row = append(row, e.option(st.Locale, keyBack, "nav.back"))
	}
	row = append(row, e.option(st.Locale, KeyCancel, "nav.cancel"))
	return append(rows, row)
}

// pairs раскладывает кнопки по две в ряд
func pairs(options []Option) [][]Option {
	var rows [][]Option
	for i := 0; i < len(options); i += 2 {
		end := i + 2
		if end > len(options) {
			end = len(options)
		}
		rows = append(rows, options[i:end])
	}
	return rows
}

func flatten(rows [][]Option) []Option {
	var out []Option
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

func paragraphs(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

// currentValue показывает сохранённое значение поля в сценарии редактирования
func (e *Engine) currentValue(st *model.UserState, field model.Field) string {
	if !isEdit(st) {
		return ""
	}
	return e.textf(st.Locale, "prompt.current", e.fieldValue(st.Locale, st.Edit.Original, field))
}

func (e *Engine) fieldValue(locale string, v model.Vacancy, field model.Field) string {
	switch field {
	case model.FieldTitle:
		return v.Title
	case model.FieldDescription:
		return v.Description
	case model.FieldGender:
		return e.text(locale, "gender."+string(v.Gender))
	case model.FieldLanguages:
		return e.formatLanguages(locale, v.Languages)
	case model.FieldSalary:
		if v.Salary == model.SalaryNegotiable {
			return e.text(locale, "salary.negotiable")
		}
		return v.Salary
	case model.FieldEmploymentType:
		return e.text(locale, "employment."+string(v.EmploymentType))
	}
	return ""
}

func (e *Engine) summary(locale string, v model.Vacancy) string {
	fields := []model.Field{
		model.FieldTitle,
		model.FieldDescription,
		model.FieldGender,
		model.FieldLanguages,
		model.FieldSalary,
		model.FieldEmploymentType,
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%s: %s", e.text(locale, "field."+string(f)), e.fieldValue(locale, v, f)))
	}
	return strings.Join(lines, "\n")
}

func (e *Engine) languageName(locale string, c model.LanguageChoice) string {
	if c.Key != "" {
		return e.text(locale, "language."+c.Key)
	}
	return c.Name
}

func (e *Engine) formatChoices(locale string, choices []model.LanguageChoice) string {
	parts := make([]string, 0, len(choices))
	for _, c := range choices {
		parts = append(parts, fmt.Sprintf("%s (%s)", e.languageName(locale, c), strings.ToUpper(c.Level)))
	}
	return strings.Join(parts, ", ")
}

// formatLanguages показывает сохранённый список языков. Неразборчивое значение
// показывается как есть и не мешает сценарию.
func (e *Engine) formatLanguages(locale, raw string) string {
	if raw == model.LanguagesUnspecified || raw == "" {
		return e.text(locale, "languages.unspecified")
	}
	choices, err := ParseLanguages(raw)
	if err != nil {
		e.log.Debug().Err(err).Str("raw", raw).Msg("malformed languages value, showing as is")
		return raw
	}
	return e.formatChoices(locale, choices)
}
