package dialog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/vacancy_bot/internal/i18n"
	"github.com/ivanoskov/vacancy_bot/internal/model"
	"github.com/ivanoskov/vacancy_bot/internal/repository"
	"github.com/ivanoskov/vacancy_bot/internal/state"
	"github.com/ivanoskov/vacancy_bot/internal/telemetry"
)

type fakeRenderer struct {
	mu      sync.Mutex
	prompts []Prompt
	err     error
}

func (r *fakeRenderer) RenderPrompt(_ context.Context, p Prompt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.prompts = append(r.prompts, p)
	return nil
}

func (r *fakeRenderer) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *fakeRenderer) last() Prompt {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.prompts) == 0 {
		return Prompt{}
	}
	return r.prompts[len(r.prompts)-1]
}

type vacancyUpdate struct {
	id    string
	owner int64
	patch model.VacancyPatch
}

type fakeEntities struct {
	mu            sync.Mutex
	created       []model.VacancyDraft
	updates       []vacancyUpdate
	vacancies     map[string]model.Vacancy
	createErr     error
	updateErr     error
	panicOnCreate bool
}

func newFakeEntities() *fakeEntities {
	return &fakeEntities{vacancies: make(map[string]model.Vacancy)}
}

func (f *fakeEntities) CreateVacancy(_ context.Context, draft model.VacancyDraft) (*model.Vacancy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOnCreate {
		panic("entity store exploded")
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, draft)
	v := model.Vacancy{
		ID:             fmt.Sprintf("vac-%d", len(f.created)),
		OwnerID:        draft.OwnerID,
		Title:          draft.Title,
		Description:    draft.Description,
		Gender:         draft.Gender,
		Languages:      draft.Languages,
		Salary:         draft.Salary,
		EmploymentType: draft.EmploymentType,
	}
	f.vacancies[v.ID] = v
	return &v, nil
}

func (f *fakeEntities) UpdateVacancy(_ context.Context, id string, ownerID int64, patch model.VacancyPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, vacancyUpdate{id: id, owner: ownerID, patch: patch})
	return f.updateErr
}

func (f *fakeEntities) GetOwnedVacancy(_ context.Context, id string, ownerID int64) (*model.Vacancy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vacancies[id]
	if !ok || v.OwnerID != ownerID {
		return nil, fmt.Errorf("vacancy %s: %w", id, repository.ErrNotFound)
	}
	return &v, nil
}

type harness struct {
	t        *testing.T
	engine   *Engine
	store    *state.MemoryStore
	renderer *fakeRenderer
	entities *fakeEntities
	metrics  *telemetry.Metrics
	origin   Origin

	mu  sync.Mutex
	now time.Time
}

func newHarness(t *testing.T, idleTimeout time.Duration) *harness {
	t.Helper()
	bundle, err := i18n.Load("ru")
	require.NoError(t, err)

	h := &harness{
		t:        t,
		store:    state.NewMemoryStore(),
		renderer: &fakeRenderer{},
		entities: newFakeEntities(),
		metrics:  telemetry.NewMetrics("test"),
		origin:   Origin{UserID: 42, ChatID: 420, Locale: "en"},
		now:      time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}
	h.engine, err = NewEngine(Config{
		Store:       h.store,
		Entities:    h.entities,
		Renderer:    h.renderer,
		Texts:       bundle,
		Metrics:     h.metrics,
		Log:         zerolog.Nop(),
		IdleTimeout: idleTimeout,
		Now:         h.clock,
	})
	require.NoError(t, err)
	return h
}

func (h *harness) clock() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

func (h *harness) advance(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = h.now.Add(d)
}

func (h *harness) press(key string) {
	h.t.Helper()
	require.NoError(h.t, h.engine.Handle(context.Background(), Event{Origin: h.origin, Choice: key}))
}

func (h *harness) say(text string) {
	h.t.Helper()
	require.NoError(h.t, h.engine.Handle(context.Background(), Event{Origin: h.origin, Text: text}))
}

func (h *harness) state() *model.UserState {
	h.t.Helper()
	st, err := h.store.Get(context.Background(), h.origin.UserID)
	require.NoError(h.t, err)
	return st
}

func (h *harness) step() model.Step {
	h.t.Helper()
	st := h.state()
	if st == nil {
		return ""
	}
	return st.Step
}

func (h *harness) lastText() string {
	return h.renderer.last().Text
}

func (h *harness) offered(key string) bool {
	for _, o := range flatten(h.renderer.last().Options) {
		if o.Key == key {
			return true
		}
	}
	return false
}

// createUntil проходит сценарий создания по умолчанию до шага target
func (h *harness) createUntil(target model.Step) {
	h.t.Helper()
	require.NoError(h.t, h.engine.StartCreate(context.Background(), h.origin))

	path := []struct {
		step model.Step
		do   func()
	}{
		{model.StepSphere, func() { h.press(keyOther) }},
		{model.StepTitle, func() { h.say("Go Developer") }},
		{model.StepDescription, func() { h.say("Backend service development in Go") }},
		{model.StepGender, func() { h.press(keyDone) }},
		{model.StepLanguageSelect, func() { h.press(keySkip) }},
		{model.StepSalary, func() { h.say("2000$") }},
		{model.StepEmploymentType, func() { h.press("employment:full_time") }},
	}
	for _, p := range path {
		if p.step == target {
			require.Equal(h.t, target, h.step())
			return
		}
		require.Equal(h.t, p.step, h.step(), "unexpected step on the way to %s: %s", target, h.lastText())
		p.do()
	}
}

func (h *harness) seedVacancy(v model.Vacancy) {
	h.entities.mu.Lock()
	defer h.entities.mu.Unlock()
	h.entities.vacancies[v.ID] = v
}

func sampleVacancy() model.Vacancy {
	return model.Vacancy{
		ID:             "v1",
		OwnerID:        42,
		Title:          "Go Developer",
		Description:    "Backend service development in Go",
		Gender:         model.GenderAny,
		Languages:      model.LanguagesUnspecified,
		Salary:         "2000$",
		EmploymentType: model.EmploymentFullTime,
	}
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
