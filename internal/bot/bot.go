package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/ivanoskov/vacancy_bot/internal/dialog"
	"github.com/ivanoskov/vacancy_bot/internal/model"
	"github.com/ivanoskov/vacancy_bot/internal/telemetry"
)

// Префикс кнопки редактирования в списке вакансий
const prefixEdit = "edit:"

// Engine - сценарии диалога, которыми управляет бот
type Engine interface {
	StartCreate(ctx context.Context, o dialog.Origin) error
	StartEdit(ctx context.Context, o dialog.Origin, vacancyID string) error
	Cancel(ctx context.Context, o dialog.Origin) error
	ShowMenu(ctx context.Context, o dialog.Origin) error
	Handle(ctx context.Context, ev dialog.Event) error
}

// Vacancies - список вакансий оператора для меню "Мои вакансии"
type Vacancies interface {
	ListOwnedVacancies(ctx context.Context, ownerID int64) ([]model.Vacancy, error)
}

// Texts - локализованные строки и выбор языка по коду из Telegram
type Texts interface {
	Text(key, locale string) string
	Resolve(languageCode string) string
}

// Bot переводит обновления Telegram в события диалога
type Bot struct {
	api       Sender
	renderer  *Renderer
	engine    Engine
	vacancies Vacancies
	texts     Texts
	log       zerolog.Logger
}

func NewBot(api Sender, engine Engine, vacancies Vacancies, texts Texts, log zerolog.Logger) *Bot {
	log = telemetry.Component(log, "bot")
	return &Bot{
		api:       api,
		renderer:  NewRenderer(api, log),
		engine:    engine,
		vacancies: vacancies,
		texts:     texts,
		log:       log,
	}
}

// Start обрабатывает обновления long polling до закрытия канала или отмены ctx
func (b *Bot) Start(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.HandleUpdate(ctx, update); err != nil {
				// Логируем ошибку, но продолжаем работу
				b.log.Error().Err(err).Int("update_id", update.UpdateID).Msg("failed to handle update")
			}
		}
	}
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("failed to decode update: %w", err)
	}
	return b.HandleUpdate(ctx, update)
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		if update.Message.IsCommand() {
			return b.handleCommand(ctx, update.Message)
		}
		return b.handleMessage(ctx, update.Message)
	}
	return nil
}

func (b *Bot) origin(from *tgbotapi.User, chatID int64) dialog.Origin {
	return dialog.Origin{
		UserID: from.ID,
		ChatID: chatID,
		Locale: b.texts.Resolve(from.LanguageCode),
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	o := b.origin(message.From, message.Chat.ID)

	switch message.Command() {
	case "start", "menu":
		return b.engine.ShowMenu(ctx, o)
	case "new":
		return b.engine.StartCreate(ctx, o)
	case "my":
		return b.showVacancies(ctx, o)
	case "cancel":
		return b.engine.Cancel(ctx, o)
	}
	return b.handleMessage(ctx, message)
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	return b.engine.Handle(ctx, dialog.Event{
		Origin: b.origin(message.From, message.Chat.ID),
		Text:   message.Text,
	})
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	// Отвечаем на callback, чтобы убрать loading indicator
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.log.Warn().Err(err).Str("callback_id", callback.ID).Msg("failed to answer callback")
	}

	chatID := callback.From.ID
	if callback.Message != nil && callback.Message.Chat != nil {
		chatID = callback.Message.Chat.ID
	}
	o := b.origin(callback.From, chatID)

	switch data := callback.Data; {
	case data == dialog.KeyMenuNew:
		return b.engine.StartCreate(ctx, o)
	case data == dialog.KeyMenuMy:
		return b.showVacancies(ctx, o)
	case strings.HasPrefix(data, prefixEdit):
		return b.engine.StartEdit(ctx, o, strings.TrimPrefix(data, prefixEdit))
	default:
		return b.engine.Handle(ctx, dialog.Event{Origin: o, Choice: data})
	}
}

// showVacancies показывает вакансии оператора с кнопкой редактирования у каждой
func (b *Bot) showVacancies(ctx context.Context, o dialog.Origin) error {
	vacancies, err := b.vacancies.ListOwnedVacancies(ctx, o.UserID)
	if err != nil {
		b.log.Error().Err(err).Int64("user_id", o.UserID).Msg("failed to list vacancies")
		return b.renderer.RenderPrompt(ctx, dialog.Prompt{
			ChatID: o.ChatID,
			Text:   "❌ " + b.texts.Text("error.generic", o.Locale),
		})
	}

	newVacancy := []dialog.Option{{Key: dialog.KeyMenuNew, Label: b.texts.Text("menu.new", o.Locale)}}
	if len(vacancies) == 0 {
		return b.renderer.RenderPrompt(ctx, dialog.Prompt{
			ChatID:  o.ChatID,
			Text:    b.texts.Text("my.empty", o.Locale),
			Options: [][]dialog.Option{newVacancy},
		})
	}

	rows := make([][]dialog.Option, 0, len(vacancies)+1)
	for _, v := range vacancies {
		rows = append(rows, []dialog.Option{{
			Key:   prefixEdit + v.ID,
			Label: fmt.Sprintf(b.texts.Text("my.edit", o.Locale), v.Title),
		}})
	}
	rows = append(rows, newVacancy)

	return b.renderer.RenderPrompt(ctx, dialog.Prompt{
		ChatID:  o.ChatID,
		Text:    b.texts.Text("my.title", o.Locale),
		Options: rows,
	})
}
