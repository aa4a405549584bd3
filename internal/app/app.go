package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/ivanoskov/vacancy_bot/internal/bot"
	"github.com/ivanoskov/vacancy_bot/internal/config"
	"github.com/ivanoskov/vacancy_bot/internal/dialog"
	"github.com/ivanoskov/vacancy_bot/internal/i18n"
	"github.com/ivanoskov/vacancy_bot/internal/repository"
	"github.com/ivanoskov/vacancy_bot/internal/service"
	"github.com/ivanoskov/vacancy_bot/internal/state"
	"github.com/ivanoskov/vacancy_bot/internal/telemetry"
	"github.com/ivanoskov/vacancy_bot/internal/validation"
)

// App - собранный бот: хранилища, движок диалога и транспорт
type App struct {
	Bot     *bot.Bot
	API     *tgbotapi.BotAPI
	Engine  *dialog.Engine
	Metrics *telemetry.Metrics

	cfg    *config.Config
	log    zerolog.Logger
	closer func() error
}

// New собирает зависимости по конфигурации. Вызывающий обязан вызвать Close.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if cfg.TelegramToken == "" {
		return nil, errors.New("TELEGRAM_TOKEN is required")
	}

	texts, err := i18n.Load(cfg.DefaultLocale)
	if err != nil {
		return nil, err
	}

	store, closer, err := OpenStateStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repo, err := newRepository(cfg, log)
	if err != nil {
		_ = closer()
		return nil, err
	}
	vacancies := service.NewVacancyService(repo)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		_ = closer()
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}

	metrics := telemetry.NewMetrics("vacancy_bot")
	engine, err := dialog.NewEngine(dialog.Config{
		Store:       store,
		Entities:    vacancies,
		Renderer:    bot.NewRenderer(api, log),
		Texts:       texts,
		Content:     validation.NewContentGuard(cfg.BannedWords...),
		Metrics:     metrics,
		Log:         log,
		IdleTimeout: cfg.IdleTimeout,
	})
	if err != nil {
		_ = closer()
		return nil, err
	}

	return &App{
		Bot:     bot.NewBot(api, engine, vacancies, texts, log),
		API:     api,
		Engine:  engine,
		Metrics: metrics,
		cfg:     cfg,
		log:     log,
		closer:  closer,
	}, nil
}

// OpenStateStore открывает хранилище состояний диалогов, выбранное в конфигурации
func OpenStateStore(ctx context.Context, cfg *config.Config) (state.Store, func() error, error) {
	switch cfg.StateBackend {
	case config.StateBackendSQLite:
		s, err := state.OpenSQLiteStore(ctx, cfg.StateDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open state store: %w", err)
		}
		return s, s.Close, nil
	default:
		return state.NewMemoryStore(), func() error { return nil }, nil
	}
}

func newRepository(cfg *config.Config, log zerolog.Logger) (repository.Repository, error) {
	if cfg.SupabaseURL == "" {
		log.Warn().Msg("SUPABASE_URL is not set, vacancies are kept in memory")
		return repository.NewMemoryRepository(), nil
	}
	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase repository: %w", err)
	}
	return repo, nil
}

// Run запускает long polling, очистку простаивающих диалогов и сервер метрик до отмены ctx
func (a *App) Run(ctx context.Context) error {
	go a.Engine.RunSweeper(ctx, a.cfg.SweepInterval)

	if a.cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              a.cfg.MetricsAddr,
			Handler:           metricsMux(a.Metrics),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			a.log.Info().Str("addr", a.cfg.MetricsAddr).Msg("metrics server started")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error().Err(err).Msg("metrics server failed")
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := a.API.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		a.API.StopReceivingUpdates()
	}()

	a.log.Info().Str("bot", a.API.Self.UserName).Msg("bot started")
	return a.Bot.Start(ctx, updates)
}

func metricsMux(m *telemetry.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}

func (a *App) Close() error {
	return a.closer()
}
