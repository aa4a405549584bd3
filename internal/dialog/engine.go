package dialog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivanoskov/vacancy_bot/internal/model"
	"github.com/ivanoskov/vacancy_bot/internal/repository"
	"github.com/ivanoskov/vacancy_bot/internal/state"
	"github.com/ivanoskov/vacancy_bot/internal/telemetry"
	"github.com/ivanoskov/vacancy_bot/internal/validation"
)

// Config - зависимости движка
type Config struct {
	Store    state.Store
	Entities EntityStore
	Renderer Renderer
	Texts    Localizer
	Content  *validation.ContentGuard
	Metrics  *telemetry.Metrics
	Log      zerolog.Logger
	// IdleTimeout сбрасывает простаивающие диалоги, 0 отключает
	IdleTimeout time.Duration
	Now         func() time.Time
}

// Engine загружает состояние пользователя, вызывает обработчик текущего шага
// и сохраняет либо очищает состояние. События одного пользователя обрабатываются строго по одному.
type Engine struct {
	store       state.Store
	locks       *state.Locks
	entities    EntityStore
	renderer    Renderer
	texts       Localizer
	content     *validation.ContentGuard
	structs     *validation.StructValidator
	metrics     *telemetry.Metrics
	log         zerolog.Logger
	idleTimeout time.Duration
	now         func() time.Time
	handlers    map[model.Step]handler
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Store == nil || cfg.Entities == nil || cfg.Renderer == nil || cfg.Texts == nil {
		return nil, errors.New("dialog: store, entities, renderer and texts are required")
	}
	if cfg.Content == nil {
		cfg.Content = validation.NewContentGuard()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	e := &Engine{
		store:       cfg.Store,
		locks:       state.NewLocks(),
		entities:    cfg.Entities,
		renderer:    cfg.Renderer,
		texts:       cfg.Texts,
		content:     cfg.Content,
		structs:     validation.NewStructValidator(),
		metrics:     cfg.Metrics,
		log:         telemetry.Component(cfg.Log, "dialog"),
		idleTimeout: cfg.IdleTimeout,
		now:         cfg.Now,
		handlers:    newHandlers(),
	}
	if err := validateGraph(e.handlers); err != nil {
		return nil, fmt.Errorf("dialog: invalid step graph: %w", err)
	}
	return e, nil
}

// StartCreate открывает сценарий создания вакансии
func (e *Engine) StartCreate(ctx context.Context, o Origin) error {
	unlock := e.locks.Lock(o.UserID)
	defer unlock()

	if busy, err := e.refuseIfBusy(ctx, o); busy || err != nil {
		return err
	}

	st := model.UserState{
		UserID: o.UserID,
		ChatID: o.ChatID,
		Locale: o.Locale,
		Flow:   model.FlowCreateVacancy,
		Step:   initialSteps[model.FlowCreateVacancy],
		Create: &model.CreatePayload{
			Draft: model.VacancyDraft{OwnerID: o.UserID},
		},
	}
	return e.begin(ctx, st, "")
}

// StartEdit открывает сценарий редактирования вакансии оператора
func (e *Engine) StartEdit(ctx context.Context, o Origin, vacancyID string) error {
	unlock := e.locks.Lock(o.UserID)
	defer unlock()

	if busy, err := e.refuseIfBusy(ctx, o); busy || err != nil {
		return err
	}

	vacancy, err := e.entities.GetOwnedVacancy(ctx, vacancyID, o.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		e.log.Info().Int64("user_id", o.UserID).Str("vacancy_id", vacancyID).Msg("vacancy for edit not found")
		return e.renderMenu(ctx, o, e.text(o.Locale, "error.not_found"))
	}
	if err != nil {
		e.log.Error().Err(err).Int64("user_id", o.UserID).Str("vacancy_id", vacancyID).Msg("failed to load vacancy for edit")
		return e.renderMenu(ctx, o, e.text(o.Locale, "error.generic"))
	}

	st := model.UserState{
		UserID: o.UserID,
		ChatID: o.ChatID,
		Locale: o.Locale,
		Flow:   model.FlowEditVacancy,
		Step:   initialSteps[model.FlowEditVacancy],
		Edit: &model.EditPayload{
			TargetID: vacancy.ID,
			Original: *vacancy,
		},
	}
	return e.begin(ctx, st, e.textf(o.Locale, "prompt.edit_intro", vacancy.Title))
}

// Cancel безусловно сбрасывает активный сценарий. Никакая проверка не может его заблокировать.
func (e *Engine) Cancel(ctx context.Context, o Origin) error {
	unlock := e.locks.Lock(o.UserID)
	defer unlock()

	if err := e.store.Clear(ctx, o.UserID); err != nil {
		e.log.Error().Err(err).Int64("user_id", o.UserID).Msg("failed to clear state on cancel")
	}
	e.metrics.FlowCleared("cancel")
	return e.renderMenu(ctx, o, e.text(o.Locale, "flow.cancelled"))
}

// ShowMenu показывает главное меню
func (e *Engine) ShowMenu(ctx context.Context, o Origin) error {
	return e.renderMenu(ctx, o, "")
}

// Handle обрабатывает одно входящее событие до конца: чтение, проверка, изменение, запись, ответ
func (e *Engine) Handle(ctx context.Context, ev Event) error {
	if e.isCancel(ev) {
		return e.Cancel(ctx, ev.Origin)
	}

	unlock := e.locks.Lock(ev.UserID)
	defer unlock()

	st, err := e.store.Get(ctx, ev.UserID)
	if err != nil {
		e.log.Error().Err(err).Int64("user_id", ev.UserID).Msg("failed to load state")
		return e.renderMenu(ctx, ev.Origin, e.text(ev.Locale, "error.generic"))
	}
	if st == nil {
		return e.renderMenu(ctx, ev.Origin, "")
	}
	if st.Expired(e.now(), e.idleTimeout) {
		return e.expire(ctx, *st)
	}
	// Ответ уходит в чат последнего события
	st.ChatID = ev.ChatID

	h, ok := e.handlers[st.Step]
	if !ok || !stepInFlow(st.Flow, st.Step) {
		return e.abort(ctx, *st, fmt.Errorf("%w: %s in %s", ErrUnknownStep, st.Step, st.Flow))
	}

	in, err := e.resolve(h, st, ev)
	if err == nil {
		// Обработчик меняет только копию: при отказе сохранённое состояние остается нетронутым
		work := st.Clone()
		var outcome Outcome
		outcome, err = h.handle(e, &work, in)
		if err == nil {
			return e.advance(ctx, *st, work, outcome)
		}
	}
	if r, ok := validation.AsRejection(err); ok {
		return e.reject(ctx, *st, r)
	}
	return e.abort(ctx, *st, err)
}

// resolve сопоставляет событие с кнопками шага; свободный текст допускается только на текстовых шагах
func (e *Engine) resolve(h handler, st *model.UserState, ev Event) (input, error) {
	accepted := h.accepts(e, st)
	if ev.Choice != "" {
		for _, o := range accepted {
			if o.Key == ev.Choice {
				return input{choice: ev.Choice}, nil
			}
		}
		return input{}, validation.Reject(validation.ReasonUnknownOption)
	}

	if key, err := validation.MatchChoice(ev.Text, accepted); err == nil {
		return input{choice: key}, nil
	}
	if !h.freeText {
		return input{}, validation.Reject(validation.ReasonUnknownOption)
	}
	return input{text: ev.Text}, nil
}

func (e *Engine) advance(ctx context.Context, prev, work model.UserState, outcome Outcome) error {
	e.metrics.Event(string(prev.Step), string(outcome))

	to, err := nextStep(prev.Step, outcome)
	if err != nil {
		return e.abort(ctx, prev, err)
	}
	if _, ok := terminalSteps[to]; ok {
		return e.commit(ctx, work)
	}

	work.Step = to
	work.UpdatedAt = e.now()
	if err := e.store.Set(ctx, work); err != nil {
		return e.abort(ctx, prev, fmt.Errorf("failed to save state: %w", err))
	}
	return e.renderStep(ctx, work, "")
}

func (e *Engine) begin(ctx context.Context, st model.UserState, notice string) error {
	st.UpdatedAt = e.now()
	if err := e.store.Set(ctx, st); err != nil {
		e.log.Error().Err(err).Int64("user_id", st.UserID).Msg("failed to save new state")
		return e.renderMenu(ctx, origin(st), e.text(st.Locale, "error.generic"))
	}
	e.metrics.FlowStarted(string(st.Flow))
	e.log.Info().Int64("user_id", st.UserID).Str("flow", string(st.Flow)).Msg("flow started")
	return e.renderStep(ctx, st, notice)
}

// refuseIfBusy не дает начать новый сценарий поверх активного
func (e *Engine) refuseIfBusy(ctx context.Context, o Origin) (bool, error) {
	st, err := e.store.Get(ctx, o.UserID)
	if err != nil {
		e.log.Error().Err(err).Int64("user_id", o.UserID).Msg("failed to load state")
		return true, e.renderMenu(ctx, o, e.text(o.Locale, "error.generic"))
	}
	if st == nil {
		return false, nil
	}
	if st.Expired(e.now(), e.idleTimeout) {
		// Брошенный сценарий закрывается так же, как при очистке по таймеру
		st.ChatID = o.ChatID
		_ = e.expire(ctx, *st)
		return false, nil
	}
	st.ChatID = o.ChatID
	return true, e.renderStep(ctx, *st, e.text(st.Locale, "flow.busy"))
}

// reject повторяет подсказку того же шага с причиной отказа, состояние не меняется
func (e *Engine) reject(ctx context.Context, st model.UserState, r *validation.Rejection) error {
	e.metrics.Rejection(string(st.Step), string(r.Reason))
	e.log.Debug().Int64("user_id", st.UserID).Str("step", string(st.Step)).Str("reason", string(r.Reason)).Msg("input rejected")
	return e.renderStep(ctx, st, "❌ "+e.rejectionText(st.Locale, r))
}

// abort завершает сценарий после внутренней ошибки, чтобы оператор не застрял на шаге
func (e *Engine) abort(ctx context.Context, st model.UserState, cause error) error {
	e.log.Error().Err(cause).
		Int64("user_id", st.UserID).
		Str("flow", string(st.Flow)).
		Str("step", string(st.Step)).
		Msg("flow aborted")
	if err := e.store.Clear(ctx, st.UserID); err != nil {
		e.log.Error().Err(err).Int64("user_id", st.UserID).Msg("failed to clear state after abort")
	}
	e.metrics.FlowCleared("error")
	return e.renderMenu(ctx, origin(st), e.text(st.Locale, "error.generic"))
}

// renderStep показывает подсказку шага. Ошибка отправки прерывает сценарий:
// повтор мог бы продублировать побочные эффекты.
func (e *Engine) renderStep(ctx context.Context, st model.UserState, notice string) error {
	h, ok := e.handlers[st.Step]
	if !ok {
		return e.abort(ctx, st, fmt.Errorf("%w: %s", ErrUnknownStep, st.Step))
	}
	p := h.prompt(e, &st)
	p.ChatID = st.ChatID
	if notice != "" {
		p.Text = notice + "\n\n" + p.Text
	}

	if err := e.renderer.RenderPrompt(ctx, p); err != nil {
		e.metrics.RenderFailed()
		e.log.Error().Err(err).
			Int64("user_id", st.UserID).
			Str("flow", string(st.Flow)).
			Str("step", string(st.Step)).
			Msg("failed to render prompt, dropping flow")
		if cerr := e.store.Clear(ctx, st.UserID); cerr != nil {
			e.log.Error().Err(cerr).Int64("user_id", st.UserID).Msg("failed to clear state after render failure")
		}
		e.metrics.FlowCleared("transport")
	}
	return nil
}

func (e *Engine) renderMenu(ctx context.Context, o Origin, notice string) error {
	text := e.text(o.Locale, "menu.text")
	if notice != "" {
		text = notice + "\n\n" + text
	}
	err := e.renderer.RenderPrompt(ctx, Prompt{
		ChatID: o.ChatID,
		Text:   text,
		Options: [][]Option{
			{e.option(o.Locale, KeyMenuNew, "menu.new")},
			{e.option(o.Locale, KeyMenuMy, "menu.my")},
		},
	})
	if err != nil {
		e.metrics.RenderFailed()
		e.log.Error().Err(err).Int64("user_id", o.UserID).Msg("failed to render menu")
	}
	return nil
}

func (e *Engine) isCancel(ev Event) bool {
	if ev.Choice != "" {
		return ev.Choice == KeyCancel
	}
	return ev.Text == "/cancel" || validation.EqualFold(ev.Text, e.text(ev.Locale, "nav.cancel"))
}

func origin(st model.UserState) Origin {
	return Origin{UserID: st.UserID, ChatID: st.ChatID, Locale: st.Locale}
}

func isEdit(st *model.UserState) bool {
	return st.Flow == model.FlowEditVacancy
}
