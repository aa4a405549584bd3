package dialog

import (
	"context"
	"errors"

	"github.com/ivanoskov/vacancy_bot/internal/model"
	"github.com/ivanoskov/vacancy_bot/internal/validation"
)

var (
	// ErrUndefinedTransition - в графе нет ребра для (шаг, исход). Ошибка программиста, не пользователя.
	ErrUndefinedTransition = errors.New("undefined transition")
	// ErrUnknownStep - шаг не принадлежит активному сценарию
	ErrUnknownStep = errors.New("unknown step")
)

// Ключи кнопок, общие для всех шагов
const (
	KeyCancel  = "nav:cancel"
	KeyMenuNew = "menu:new"
	KeyMenuMy  = "menu:my"

	keyBack  = "nav:back"
	keyDone  = "nav:done"
	keySkip  = "nav:skip"
	keyKeep  = "nav:keep"
	keyOther = "nav:other"

	keyTitleSuggest     = "title:suggest"
	keySalaryNegotiable = "salary:negotiable"
	keyLanguageCustom   = "language:custom"

	prefixSphere     = "sphere:"
	prefixProfession = "profession:"
	prefixGender     = "gender:"
	prefixLanguage   = "language:"
	prefixLevel      = "level:"
	prefixEmployment = "employment:"
)

// Option - кнопка с устойчивым ключом и локализованной подписью
type Option = validation.Option

// Prompt - сообщение с набором кнопок
type Prompt struct {
	ChatID  int64
	Text    string
	Options [][]Option
}

// Origin - кому принадлежит событие и куда отвечать
type Origin struct {
	UserID int64
	ChatID int64
	Locale string
}

// Event - входящее сообщение оператора: нажатая кнопка (Choice) или текст
type Event struct {
	Origin
	Text   string
	Choice string
}

// Renderer отправляет подсказку оператору. Движок не занимается транспортом сам.
type Renderer interface {
	RenderPrompt(ctx context.Context, prompt Prompt) error
}

// Localizer возвращает строку по ключу
type Localizer interface {
	Text(key, locale string) string
}

// EntityStore - внешнее хранилище вакансий.
// Ошибки "не найдено" должны оборачивать repository.ErrNotFound.
type EntityStore interface {
	CreateVacancy(ctx context.Context, draft model.VacancyDraft) (*model.Vacancy, error)
	UpdateVacancy(ctx context.Context, id string, ownerID int64, patch model.VacancyPatch) error
	GetOwnedVacancy(ctx context.Context, id string, ownerID int64) (*model.Vacancy, error)
}

// Outcome - класс проверенного ввода, по которому выбирается следующий шаг
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeBack     Outcome = "back"
	OutcomeSelected Outcome = "selected"
	OutcomeDone     Outcome = "done"
	OutcomeSkip     Outcome = "skip"
	OutcomeKeep     Outcome = "keep"
	OutcomePicked   Outcome = "picked"
	OutcomeCustom   Outcome = "custom"
	OutcomeOther    Outcome = "other"
)
