package dialog

import (
	"errors"
	"strings"

	"github.com/ivanoskov/vacancy_bot/internal/model"
	"github.com/ivanoskov/vacancy_bot/internal/validation"
)

var genderOptions = []model.Gender{model.GenderMale, model.GenderFemale}

func selectionOf(st *model.UserState) (*model.Selection, error) {
	sel := st.Selection()
	if sel == nil {
		return nil, errNoPayload
	}
	return sel, nil
}

func hasGender(selected []model.Gender, g model.Gender) bool {
	for _, s := range selected {
		if s == g {
			return true
		}
	}
	return false
}

func genderStep() handler {
	genderButtons := func(e *Engine, st *model.UserState, skipSelected bool) []Option {
		var selected []model.Gender
		if sel := st.Selection(); sel != nil {
			selected = sel.Genders
		}
		var options []Option
		for _, g := range genderOptions {
			if skipSelected && hasGender(selected, g) {
				continue
			}
			options = append(options, e.option(st.Locale, prefixGender+string(g), "gender."+string(g)))
		}
		return options
	}

	return handler{
		prompt: func(e *Engine, st *model.UserState) Prompt {
			selectedLine := ""
			if sel := st.Selection(); sel != nil && len(sel.Genders) > 0 {
				names := make([]string, 0, len(sel.Genders))
				for _, g := range sel.Genders {
					names = append(names, e.text(st.Locale, "gender."+string(g)))
				}
				selectedLine = e.textf(st.Locale, "prompt.selected", strings.Join(names, ", "))
			}

			var rows [][]Option
			if remaining := genderButtons(e, st, true); len(remaining) > 0 {
				rows = append(rows, remaining)
			}
			// Поле необязательное: "Готово" доступно сразу
			rows = append(rows, []Option{e.option(st.Locale, keyDone, "nav.done")})
			rows = append(rows, e.navRow(st, true, true)...)
			return Prompt{
				Text:    paragraphs(e.text(st.Locale, "prompt.gender"), selectedLine, e.currentValue(st, model.FieldGender)),
				Options: rows,
			}
		},
		hidden: func(e *Engine, st *model.UserState) []Option {
			return genderButtons(e, st, false)
		},
		handle: func(e *Engine, st *model.UserState, in input) (Outcome, error) {
			sel, err := selectionOf(st)
			if err != nil {
				return "", err
			}
			switch in.choice {
			case keyBack:
				sel.Genders = nil
				return OutcomeBack, nil
			case keyKeep:
				sel.Genders = nil
				return OutcomeKeep, clearField(st, model.FieldGender)
			case keyDone:
				value := ReduceGender(sel.Genders)
				sel.Genders = nil
				return OutcomeDone, setField(st, model.FieldGender, string(value))
			}

			g := model.Gender(strings.TrimPrefix(in.choice, prefixGender))
			// Повторный выбор уже выбранного варианта ничего не меняет
			if !hasGender(sel.Genders, g) {
				sel.Genders = append(sel.Genders, g)
			}
			return OutcomeSelected, nil
		},
	}
}

// languageIdentities - имена, под которыми язык считается тем же самым
func (e *Engine) languageIdentities(locale string, c model.LanguageChoice) []string {
	if c.Key != "" {
		return []string{c.Key, e.text(locale, "language."+c.Key)}
	}
	return []string{c.Name}
}

// hasLanguage сравнивает языки без учета регистра
func (e *Engine) hasLanguage(locale string, selected []model.LanguageChoice, candidate model.LanguageChoice) bool {
	want := e.languageIdentities(locale, candidate)
	for _, c := range selected {
		if candidate.Key != "" && c.Key == candidate.Key {
			return true
		}
		for _, have := range e.languageIdentities(locale, c) {
			for _, w := range want {
				if validation.EqualFold(have, w) {
					return true
				}
			}
		}
	}
	return false
}

func languageSelectStep() handler {
	listed := func(e *Engine, st *model.UserState, skipSelected bool) []Option {
		var selected []model.LanguageChoice
		if sel := st.Selection(); sel != nil {
			selected = sel.Languages
		}
		var options []Option
		for _, key := range languages {
			if skipSelected && e.hasLanguage(st.Locale, selected, model.LanguageChoice{Key: key}) {
				continue
			}
			options = append(options, e.option(st.Locale, prefixLanguage+key, "language."+key))
		}
		return options
	}

	return handler{
		prompt: func(e *Engine, st *model.UserState) Prompt {
			var selected []model.LanguageChoice
			if sel := st.Selection(); sel != nil {
				selected = sel.Languages
			}
			selectedLine := ""
			if len(selected) > 0 {
				selectedLine = e.textf(st.Locale, "prompt.selected", e.formatChoices(st.Locale, selected))
			}

			rows := pairs(listed(e, st, true))
			rows = append(rows, []Option{e.option(st.Locale, keyLanguageCustom, "languages.custom")})
			// "Готово" - только после первого выбора, "Пропустить" - только пока ничего не выбрано
			if len(selected) > 0 {
				rows = append(rows, []Option{e.option(st.Locale, keyDone, "nav.done")})
			} else {
				rows = append(rows, []Option{e.option(st.Locale, keySkip, "nav.skip")})
			}
			rows = append(rows, e.navRow(st, true, true)...)
			return Prompt{
				Text:    paragraphs(e.text(st.Locale, "prompt.languages"), selectedLine, e.currentValue(st, model.FieldLanguages)),
				Options: rows,
			}
		},
		hidden: func(e *Engine, st *model.UserState) []Option {
			return listed(e, st, false)
		},
		handle: func(e *Engine, st *model.UserState, in input) (Outcome, error) {
			sel, err := selectionOf(st)
			if err != nil {
				return "", err
			}
			switch in.choice {
			case keyBack:
				sel.Languages, sel.Pending = nil, nil
				return OutcomeBack, nil
			case keyKeep:
				sel.Languages, sel.Pending = nil, nil
				return OutcomeKeep, clearField(st, model.FieldLanguages)
			case keySkip:
				sel.Languages, sel.Pending = nil, nil
				return OutcomeSkip, setField(st, model.FieldLanguages, model.LanguagesUnspecified)
			case keyDone:
				value, err := ReduceLanguages(sel.Languages)
				if err != nil {
					return "", err
				}
				sel.Languages, sel.Pending = nil, nil
				return OutcomeDone, setField(st, model.FieldLanguages, value)
			case keyLanguageCustom:
				sel.Pending = nil
				return OutcomeCustom, nil
			}

			candidate := model.LanguageChoice{Key: strings.TrimPrefix(in.choice, prefixLanguage)}
			if e.hasLanguage(st.Locale, sel.Languages, candidate) {
				return "", validation.Reject(validation.ReasonDuplicate)
			}
			sel.Pending = &candidate
			return OutcomePicked, nil
		},
	}
}

func languageCustomNameStep() handler {
	return handler{
		freeText: true,
		prompt: func(e *Engine, st *model.UserState) Prompt {
			return Prompt{
				Text:    e.text(st.Locale, "prompt.language_custom_name"),
				Options: e.navRow(st, true, false),
			}
		},
		handle: func(e *Engine, st *model.UserState, in input) (Outcome, error) {
			sel, err := selectionOf(st)
			if err != nil {
				return "", err
			}
			if in.choice == keyBack {
				sel.Pending = nil
				return OutcomeBack, nil
			}

			if err := validation.Check(in.text, e.textGuards(2, 32)...); err != nil {
				return "", err
			}
			name := strings.TrimSpace(in.text)

			// Название языка из списка превращается в выбор из списка
			candidate := model.LanguageChoice{Name: name}
			for _, key := range languages {
				if validation.EqualFold(name, key) || validation.EqualFold(name, e.text(st.Locale, "language."+key)) {
					candidate = model.LanguageChoice{Key: key}
					break
				}
			}
			if e.hasLanguage(st.Locale, sel.Languages, candidate) {
				return "", validation.Reject(validation.ReasonDuplicate)
			}
			sel.Pending = &candidate
			return OutcomeAccepted, nil
		},
	}
}

var errNoPendingLanguage = errors.New("no language awaiting its level")

func languageLevelStep() handler {
	return handler{
		prompt: func(e *Engine, st *model.UserState) Prompt {
			name := ""
			if sel := st.Selection(); sel != nil && sel.Pending != nil {
				name = e.languageName(st.Locale, *sel.Pending)
			}
			options := make([]Option, 0, len(levels))
			for _, l := range levels {
				options = append(options, e.option(st.Locale, prefixLevel+l, "level."+l))
			}
			rows := append(pairs(options), e.navRow(st, true, false)...)
			return Prompt{Text: e.textf(st.Locale, "prompt.language_level", name), Options: rows}
		},
		handle: func(e *Engine, st *model.UserState, in input) (Outcome, error) {
			sel, err := selectionOf(st)
			if err != nil {
				return "", err
			}
			if sel.Pending == nil {
				return "", errNoPendingLanguage
			}
			if in.choice == keyBack {
				sel.Pending = nil
				return OutcomeBack, nil
			}

			choice := *sel.Pending
			choice.Level = strings.TrimPrefix(in.choice, prefixLevel)
			sel.Languages = append(sel.Languages, choice)
			sel.Pending = nil
			return OutcomeAccepted, nil
		},
	}
}
