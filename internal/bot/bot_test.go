package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/vacancy_bot/internal/dialog"
	"github.com/ivanoskov/vacancy_bot/internal/i18n"
	"github.com/ivanoskov/vacancy_bot/internal/model"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return tgbotapi.Message{}, s.sendErr
	}
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, nil
}

func (s *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (s *fakeSender) lastMessage(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.sent)
	msg, ok := s.sent[len(s.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	return msg
}

type call struct {
	method string
	origin dialog.Origin
	arg    string
}

type fakeEngine struct {
	calls []call
}

func (e *fakeEngine) StartCreate(_ context.Context, o dialog.Origin) error {
	e.calls = append(e.calls, call{method: "start_create", origin: o})
	return nil
}

func (e *fakeEngine) StartEdit(_ context.Context, o dialog.Origin, id string) error {
	e.calls = append(e.calls, call{method: "start_edit", origin: o, arg: id})
	return nil
}

func (e *fakeEngine) Cancel(_ context.Context, o dialog.Origin) error {
	e.calls = append(e.calls, call{method: "cancel", origin: o})
	return nil
}

func (e *fakeEngine) ShowMenu(_ context.Context, o dialog.Origin) error {
	e.calls = append(e.calls, call{method: "menu", origin: o})
	return nil
}

func (e *fakeEngine) Handle(_ context.Context, ev dialog.Event) error {
	arg := ev.Text
	if ev.Choice != "" {
		arg = "choice:" + ev.Choice
	}
	e.calls = append(e.calls, call{method: "handle", origin: ev.Origin, arg: arg})
	return nil
}

type fakeVacancies struct {
	list []model.Vacancy
	err  error
}

func (f *fakeVacancies) ListOwnedVacancies(_ context.Context, _ int64) ([]model.Vacancy, error) {
	return f.list, f.err
}

func newTestBot(t *testing.T) (*Bot, *fakeSender, *fakeEngine, *fakeVacancies) {
	t.Helper()
	bundle, err := i18n.Load("ru")
	require.NoError(t, err)

	sender := &fakeSender{}
	engine := &fakeEngine{}
	vacancies := &fakeVacancies{}
	return NewBot(sender, engine, vacancies, bundle, zerolog.Nop()), sender, engine, vacancies
}

func command(text, languageCode string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 100},
		From:     &tgbotapi.User{ID: 7, LanguageCode: languageCode},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		Data:    data,
		From:    &tgbotapi.User{ID: 7, LanguageCode: "en"},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 100}},
	}}
}

func TestHandleUpdate_Commands(t *testing.T) {
	tests := []struct {
		text string
		want call
	}{
		{"/start", call{method: "menu"}},
		{"/new", call{method: "start_create"}},
		{"/cancel", call{method: "cancel"}},
		{"/unknown", call{method: "handle", arg: "/unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			b, _, engine, _ := newTestBot(t)
			require.NoError(t, b.HandleUpdate(context.Background(), command(tt.text, "en")))

			require.Len(t, engine.calls, 1)
			got := engine.calls[0]
			assert.Equal(t, tt.want.method, got.method)
			assert.Equal(t, tt.want.arg, got.arg)
			assert.Equal(t, dialog.Origin{UserID: 7, ChatID: 100, Locale: "en"}, got.origin)
		})
	}
}

func TestHandleUpdate_LocaleFallback(t *testing.T) {
	b, _, engine, _ := newTestBot(t)
	require.NoError(t, b.HandleUpdate(context.Background(), command("/new", "pt-BR")))
	require.Len(t, engine.calls, 1)
	assert.Equal(t, "ru", engine.calls[0].origin.Locale)
}

func TestHandleUpdate_TextMessage(t *testing.T) {
	b, _, engine, _ := newTestBot(t)
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		Text: "Go Developer",
		Chat: &tgbotapi.Chat{ID: 100},
		From: &tgbotapi.User{ID: 7},
	}}

	require.NoError(t, b.HandleUpdate(context.Background(), update))
	require.Len(t, engine.calls, 1)
	assert.Equal(t, call{method: "handle", origin: dialog.Origin{UserID: 7, ChatID: 100, Locale: "ru"}, arg: "Go Developer"}, engine.calls[0])
}

func TestHandleUpdate_Callbacks(t *testing.T) {
	tests := []struct {
		data   string
		method string
		arg    string
	}{
		{dialog.KeyMenuNew, "start_create", ""},
		{"edit:v-1", "start_edit", "v-1"},
		{"gender:male", "handle", "choice:gender:male"},
		{dialog.KeyCancel, "handle", "choice:" + dialog.KeyCancel},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			b, sender, engine, _ := newTestBot(t)
			require.NoError(t, b.HandleUpdate(context.Background(), callback(tt.data)))

			require.Len(t, engine.calls, 1)
			assert.Equal(t, tt.method, engine.calls[0].method)
			assert.Equal(t, tt.arg, engine.calls[0].arg)
			assert.Equal(t, int64(100), engine.calls[0].origin.ChatID)

			require.Len(t, sender.requests, 1)
			answer, ok := sender.requests[0].(tgbotapi.CallbackConfig)
			require.True(t, ok)
			assert.Equal(t, "cb-1", answer.CallbackQueryID)
		})
	}
}

func TestShowVacancies(t *testing.T) {
	b, sender, engine, vacancies := newTestBot(t)
	vacancies.list = []model.Vacancy{
		{ID: "v-1", Title: "Go Developer"},
		{ID: "v-2", Title: "QA engineer"},
	}

	require.NoError(t, b.HandleUpdate(context.Background(), callback(dialog.KeyMenuMy)))
	assert.Empty(t, engine.calls)

	msg := sender.lastMessage(t)
	assert.Equal(t, int64(100), msg.ChatID)
	assert.Equal(t, "Your vacancies:", msg.Text)
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Equal(t, "✏️ Go Developer", markup.InlineKeyboard[0][0].Text)
	require.NotNil(t, markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "edit:v-1", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, dialog.KeyMenuNew, *markup.InlineKeyboard[2][0].CallbackData)
}

func TestShowVacancies_EmptyAndError(t *testing.T) {
	b, sender, _, vacancies := newTestBot(t)

	require.NoError(t, b.HandleUpdate(context.Background(), command("/my", "en")))
	assert.Equal(t, "You have no vacancies yet.", sender.lastMessage(t).Text)

	vacancies.err = errors.New("connection refused")
	require.NoError(t, b.HandleUpdate(context.Background(), command("/my", "en")))
	assert.Contains(t, sender.lastMessage(t).Text, "Something went wrong")
}

func TestHandleWebhook(t *testing.T) {
	b, _, engine, _ := newTestBot(t)
	body := []byte(`{"update_id":1,"callback_query":{"id":"cb-9","from":{"id":7,"is_bot":false,"first_name":"A","language_code":"en"},"message":{"message_id":3,"date":0,"chat":{"id":100,"type":"private"}},"data":"nav:back"}}`)

	require.NoError(t, b.HandleWebhook(context.Background(), body))
	require.Len(t, engine.calls, 1)
	assert.Equal(t, "choice:nav:back", engine.calls[0].arg)

	assert.Error(t, b.HandleWebhook(context.Background(), []byte("not json")))
}

func TestRenderer_RenderPrompt(t *testing.T) {
	sender := &fakeSender{}
	r := NewRenderer(sender, zerolog.Nop())

	err := r.RenderPrompt(context.Background(), dialog.Prompt{
		ChatID: 5,
		Text:   "Choose:",
		Options: [][]dialog.Option{
			{{Key: "gender:male", Label: "Male"}, {Key: "gender:female", Label: "Female"}},
			{},
			{{Key: dialog.KeyCancel, Label: "Cancel"}},
		},
	})
	require.NoError(t, err)

	msg := sender.lastMessage(t)
	assert.Equal(t, "Choose:", msg.Text)
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "gender:female", *markup.InlineKeyboard[0][1].CallbackData)

	require.NoError(t, r.RenderPrompt(context.Background(), dialog.Prompt{ChatID: 5, Text: "plain"}))
	assert.Nil(t, sender.lastMessage(t).ReplyMarkup)

	sender.sendErr = errors.New("Forbidden: bot was blocked by the user")
	assert.Error(t, r.RenderPrompt(context.Background(), dialog.Prompt{ChatID: 5, Text: "x"}))
}
