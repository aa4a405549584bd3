package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ivanoskov/vacancy_bot/internal/app"
	"github.com/ivanoskov/vacancy_bot/internal/config"
	"github.com/ivanoskov/vacancy_bot/internal/telemetry"
)

type globalFlags struct {
	envFile  string
	logLevel string
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "vacancy-bot",
		Short:         "Telegram bot for creating and editing vacancies",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "path to the .env file")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level, overrides LOG_LEVEL")

	rootCmd.AddCommand(newRunCommand(flags))
	rootCmd.AddCommand(newMigrateCommand(flags))
	return rootCmd
}

func (f *globalFlags) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(f.envFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	log := telemetry.NewLogger(telemetry.LoggingConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, log, nil
}

func newRunCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the bot with long polling",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := flags.load()
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.Run(cmd.Context())
		},
	}
}

func newMigrateCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply state database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := flags.load()
			if err != nil {
				return err
			}
			if cfg.StateBackend != config.StateBackendSQLite {
				log.Info().Str("backend", cfg.StateBackend).Msg("state backend needs no migrations")
				return nil
			}

			// Миграции применяются при открытии хранилища
			_, closeStore, err := app.OpenStateStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			log.Info().Str("path", cfg.StateDBPath).Msg("state database is up to date")
			return closeStore()
		},
	}
}
