package state

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/ivanoskov/vacancy_bot/internal/model"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore хранит состояния диалогов в SQLite, переживая перезапуск бота
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore открывает базу и применяет миграции
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Один писатель: сериализация по пользователю делается в движке, здесь достаточно одного соединения
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate применяет встроенные миграции схемы
func (s *SQLiteStore) Migrate() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, userID int64) (*model.UserState, error) {
	var payload string
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, version FROM user_states WHERE user_id = ?`, userID,
	).Scan(&payload, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user state: %w", err)
	}

	var st model.UserState
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return nil, fmt.Errorf("failed to parse user state %d: %w", userID, err)
	}
	st.Version = version
	return &st, nil
}

func (s *SQLiteStore) Set(ctx context.Context, st model.UserState) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode user state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_states (user_id, chat_id, flow, step, payload, version, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			chat_id    = excluded.chat_id,
			flow       = excluded.flow,
			step       = excluded.step,
			payload    = excluded.payload,
			version    = user_states.version + 1,
			updated_at = excluded.updated_at`,
		st.UserID, st.ChatID, string(st.Flow), string(st.Step), string(payload),
		st.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save user state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_states WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear user state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.UserState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload, version FROM user_states ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user states: %w", err)
	}
	defer rows.Close()

	var out []model.UserState
	for rows.Next() {
		var payload string
		var version int64
		if err := rows.Scan(&payload, &version); err != nil {
			return nil, fmt.Errorf("failed to scan user state: %w", err)
		}
		var st model.UserState
		if err := json.Unmarshal([]byte(payload), &st); err != nil {
			return nil, fmt.Errorf("failed to parse user state: %w", err)
		}
		st.Version = version
		out = append(out, st)
	}
	return out, rows.Err()
}
