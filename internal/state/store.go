package state

import (
	"context"

	"github.com/ivanoskov/vacancy_bot/internal/model"
)

// Store хранит одно состояние диалога на пользователя.
// Хранилище не придает смысла шагу или черновику и всегда отдает копии.
type Store interface {
	// Get возвращает nil, nil если активного диалога нет
	Get(ctx context.Context, userID int64) (*model.UserState, error)
	Set(ctx context.Context, state model.UserState) error
	Clear(ctx context.Context, userID int64) error
	// List нужен для фоновой очистки зависших диалогов
	List(ctx context.Context) ([]model.UserState, error)
}
