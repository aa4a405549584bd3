package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ivanoskov/vacancy_bot/internal/app"
	"github.com/ivanoskov/vacancy_bot/internal/config"
	"github.com/ivanoskov/vacancy_bot/internal/telemetry"
)

// Request структура входящего запроса от API Gateway
type Request struct {
	Body string `json:"body"`
}

// Response структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Экземпляр переиспользуется между вызовами, пока функция "тёплая".
// Состояния диалогов должны жить во внешнем хранилище (STATE_BACKEND=sqlite на постоянном томе).
var (
	mu     sync.Mutex
	cached *app.App
	logger zerolog.Logger
)

func instance(ctx context.Context) (*app.App, error) {
	mu.Lock()
	defer mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger = telemetry.NewLogger(telemetry.LoggingConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	cached = a
	return a, nil
}

func Handler(ctx context.Context, request Request) (*Response, error) {
	a, err := instance(ctx)
	if err != nil {
		return errorResponse(err)
	}

	// Обработка webhook-обновления
	if err := a.Bot.HandleWebhook(ctx, []byte(request.Body)); err != nil {
		logger.Error().Err(err).Msg("failed to handle webhook")
		return errorResponse(err)
	}

	return &Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: http.StatusInternalServerError,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования: тело обновления читается из stdin
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Fatal().Err(err).Msg("failed to read update")
	}
	resp, _ := Handler(context.Background(), Request{Body: string(body)})
	logger := zerolog.New(os.Stdout)
	logger.Info().Int("status", resp.StatusCode).Str("body", resp.Body).Msg("handled")
}
