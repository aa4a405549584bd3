package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/ivanoskov/vacancy_bot/internal/dialog"
)

// Sender - часть tgbotapi.BotAPI, нужная боту
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Renderer отправляет подсказки диалога сообщениями с inline-клавиатурой.
// Данные кнопки - ключ варианта, он возвращается в callback как есть.
type Renderer struct {
	api Sender
	log zerolog.Logger
}

func NewRenderer(api Sender, log zerolog.Logger) *Renderer {
	return &Renderer{api: api, log: log}
}

func (r *Renderer) RenderPrompt(_ context.Context, p dialog.Prompt) error {
	msg := tgbotapi.NewMessage(p.ChatID, p.Text)
	if len(p.Options) > 0 {
		msg.ReplyMarkup = keyboard(p.Options)
	}
	if _, err := r.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", p.ChatID, err)
	}
	return nil
}

func keyboard(options [][]dialog.Option) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range options {
		if len(row) == 0 {
			continue
		}
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, o := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(o.Label, o.Key))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
