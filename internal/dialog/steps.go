package dialog

import (
	"errors"
	"strings"

	"github.com/ivanoskov/vacancy_bot/internal/model"
	"github.com/ivanoskov/vacancy_bot/internal/validation"
)

type input struct {
	choice string
	text   string
}

// handler - вход шага (подсказка) и проверка ввода с изменением данных.
// Следующий шаг обработчик не выбирает: он возвращает Outcome, дальше работает таблица переходов.
type handler struct {
	prompt func(e *Engine, st *model.UserState) Prompt
	handle func(e *Engine, st *model.UserState, in input) (Outcome, error)
	// hidden - кнопки, которые принимаются, но не показываются (повторное нажатие старой кнопки)
	hidden   func(e *Engine, st *model.UserState) []Option
	freeText bool
}

func (h handler) accepts(e *Engine, st *model.UserState) []Option {
	options := flatten(h.prompt(e, st).Options)
	if h.hidden != nil {
		options = append(options, h.hidden(e, st)...)
	}
	return options
}

func newHandlers() map[model.Step]handler {
	title := titleStep()
	description := descriptionStep()
	gender := genderStep()
	languageSelect := languageSelectStep()
	languageCustom := languageCustomNameStep()
	languageLevel := languageLevelStep()
	salary := salaryStep()
	employment := employmentStep()

	return map[model.Step]handler{
		model.StepSphere:             sphereStep(),
		model.StepProfession:         professionStep(),
		model.StepTitle:              title,
		model.StepDescription:        description,
		model.StepGender:             gender,
		model.StepLanguageSelect:     languageSelect,
		model.StepLanguageCustomName: languageCustom,
		model.StepLanguageLevel:      languageLevel,
		model.StepSalary:             salary,
		model.StepEmploymentType:     employment,

		model.StepEditTitle:              title,
		model.StepEditDescription:        description,
		model.StepEditGender:             gender,
		model.StepEditLanguageSelect:     languageSelect,
		model.StepEditLanguageCustomName: languageCustom,
		model.StepEditLanguageLevel:      languageLevel,
		model.StepEditSalary:             salary,
		model.StepEditEmploymentType:     employment,
	}
}

var errNoPayload = errors.New("state has no payload for its flow")

// setField пишет значение в черновик при создании или в diff при редактировании
func setField(st *model.UserState, field model.Field, value string) error {
	switch {
	case isEdit(st) && st.Edit != nil:
		st.Edit.Diff.Set(field, value)
	case !isEdit(st) && st.Create != nil:
		st.Create.Draft.Set(field, value)
	default:
		return errNoPayload
	}
	return nil
}

// clearField убирает поле из diff: "оставить как есть" отменяет и ранее введённое значение
func clearField(st *model.UserState, field model.Field) error {
	if !isEdit(st) || st.Edit == nil {
		return errNoPayload
	}
	st.Edit.Diff.Unset(field)
	return nil
}

func (e *Engine) textGuards(min, max int) []validation.Guard {
	return []validation.Guard{
		validation.NotEmpty(),
		validation.MinLength(min),
		validation.MaxLength(max),
		e.content.Guard(),
	}
}

func sphereStep() handler {
	return handler{
		prompt: func(e *Engine, st *model.UserState) Prompt {
			options := make([]Option, 0, len(spheres))
			for _, s := range spheres {
				options = append(options, e.option(st.Locale, prefixSphere+s.key, "sphere."+s.key))
			}
			rows := pairs(options)
			rows = append(rows, []Option{e.option(st.Locale, keyOther, "nav.other")})
			rows = append(rows, e.navRow(st, false, false)...)
			return Prompt{Text: e.text(st.Locale, "prompt.sphere"), Options: rows}
		},
		handle: func(e *Engine, st *model.UserState, in input) (Outcome, error) {
			if st.Create == nil {
				return "", errNoPayload
			}
			st.Create.Profession = ""
			if in.choice == keyOther {
				st.Create.Sphere = ""
				return OutcomeOther, nil
			}
			st.Create.Sphere = strings.TrimPrefix(in.choice, prefixSphere)
			return OutcomePicked, nil
		},
	}
}

func professionStep() handler {
	return handler{
		prompt: func(e *Engine, st *model.UserState) Prompt {
			var options []Option
			if st.Create != nil {
				s, _ := findSphere(st.Create.Sphere)
				for _, p := range s.professions {
					options = append(options, e.option(st.Locale, prefixProfession+p, "profession."+p))
				}
			}
			rows := pairs(options)
			rows = append(rows, []Option{e.option(st.Locale, keyOther, "nav.other")})
			rows = append(rows, e.navRow(st, true, false)...)
			return Prompt{Text: e.text(st.Locale, "prompt.profession"), Options: rows}
		},
		handle: func(e *Engine, st *model.UserState, in input) (Outcome, error) {
			if st.Create == nil {
				return "", errNoPayload
			}
			switch in.choice {
			case keyBack:
				return OutcomeBack, nil
			case keyOther:
				st.Create.Profession = ""
				return OutcomeOther, nil
			}
			st.Create.Profession = strings.TrimPrefix(in.choice, prefixProfession)
			return OutcomePicked, nil
		},
	}
}

func titleStep() handler {
	return handler{
		freeText: true,
		prompt: func(e *Engine, st *model.UserState) Prompt {
			var rows [][]Option
			hint := ""
			if !isEdit(st) && st.Create != nil && st.Create.Profession != "" {
				hint = e.text(st.Locale, "prompt.title_suggest")
				rows = append(rows, []Option{e.option(st.Locale, keyTitleSuggest, "profession."+st.Create.Profession)})
			}
			// Первый шаг редактирования: возвращаться некуда
			rows = append(rows, e.navRow(st, !isEdit(st), true)...)
			return Prompt{
				Text:    paragraphs(e.text(st.Locale, "prompt.title"), hint, e.currentValue(st, model.FieldTitle)),
				Options: rows,
			}
		},
		handle: func(e *Engine, st *model.UserState, in input) (Outcome, error) {
			switch in.choice {
			case keyBack:
				return OutcomeBack, nil
			case keyKeep:
				return OutcomeKeep, clearField(st, model.FieldTitle)
			case keyTitleSuggest:
				return OutcomeAccepted, setField(st, model.FieldTitle, e.text(st.Locale, "profession."+st.Create.Profession))
			}
			if err := validation.Check(in.text, e.textGuards(3, 128)...); err != nil {
				return "", err
			}
			return OutcomeAccepted, setField(st, model.FieldTitle, strings.TrimSpace(in.text))
		},
	}
}

func descriptionStep() handler {
	return handler{
		freeText: true,
		prompt: func(e *Engine, st *model.UserState) Prompt {
			return Prompt{
				Text:    paragraphs(e.text(st.Locale, "prompt.description"), e.currentValue(st, model.FieldDescription)),
				Options: e.navRow(st, true, true),
			}
		},
		handle: func(e *Engine, st *model.UserState, in input) (Outcome, error) {
			switch in.choice {
			case keyBack:
				return OutcomeBack, nil
			case keyKeep:
				return OutcomeKeep, clearField(st, model.FieldDescription)
			}
			if err := validation.Check(in.text, e.textGuards(10, 4000)...); err != nil {
				return "", err
			}
			return OutcomeAccepted, setField(st, model.FieldDescription, strings.TrimSpace(in.text))
		},
	}
}

func salaryStep() handler {
	return handler{
		freeText: true,
		prompt: func(e *Engine, st *model.UserState) Prompt {
			rows := [][]Option{{e.option(st.Locale, keySalaryNegotiable, "salary.negotiable")}}
			rows = append(rows, e.navRow(st, true, true)...)
			return Prompt{
				Text:    paragraphs(e.text(st.Locale, "prompt.salary"), e.currentValue(st, model.FieldSalary)),
				Options: rows,
			}
		},
		handle: func(e *Engine, st *model.UserState, in input) (Outcome, error) {
			switch in.choice {
			case keyBack:
				return OutcomeBack, nil
			case keyKeep:
				return OutcomeKeep, clearField(st, model.FieldSalary)
			case keySalaryNegotiable:
				return OutcomeAccepted, setField(st, model.FieldSalary, model.SalaryNegotiable)
			}
			guards := append(e.textGuards(1, 64), validation.ContainsDigit())
			if err := validation.Check(in.text, guards...); err != nil {
				return "", err
			}
			return OutcomeAccepted, setField(st, model.FieldSalary, strings.TrimSpace(in.text))
		},
	}
}

func employmentStep() handler {
	return handler{
		prompt: func(e *Engine, st *model.UserState) Prompt {
			options := make([]Option, 0, len(model.EmploymentTypes))
			for _, t := range model.EmploymentTypes {
				options = append(options, e.option(st.Locale, prefixEmployment+string(t), "employment."+string(t)))
			}
			rows := append(pairs(options), e.navRow(st, true, true)...)
			return Prompt{
				Text:    paragraphs(e.text(st.Locale, "prompt.employment_type"), e.currentValue(st, model.FieldEmploymentType)),
				Options: rows,
			}
		},
		handle: func(e *Engine, st *model.UserState, in input) (Outcome, error) {
			switch in.choice {
			case keyBack:
				return OutcomeBack, nil
			case keyKeep:
				return OutcomeKeep, clearField(st, model.FieldEmploymentType)
			}
			return OutcomeAccepted, setField(st, model.FieldEmploymentType, strings.TrimPrefix(in.choice, prefixEmployment))
		},
	}
}
