package dialog

import (
	"context"
	"fmt"
	"time"

	"github.com/ivanoskov/vacancy_bot/internal/model"
)

// SweepIdle сбрасывает диалоги, простаивающие дольше IdleTimeout, и уведомляет операторов
func (e *Engine) SweepIdle(ctx context.Context) (int, error) {
	if e.idleTimeout <= 0 {
		return 0, nil
	}

	states, err := e.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list states: %w", err)
	}

	now := e.now()
	swept := 0
	for _, st := range states {
		if !st.Expired(now, e.idleTimeout) {
			continue
		}
		if e.expireUser(ctx, st.UserID) {
			swept++
		}
	}
	return swept, nil
}

// RunSweeper периодически вызывает SweepIdle до отмены ctx
func (e *Engine) RunSweeper(ctx context.Context, interval time.Duration) {
	if e.idleTimeout <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := e.SweepIdle(ctx)
			if err != nil {
				e.log.Error().Err(err).Msg("idle sweep failed")
				continue
			}
			if n > 0 {
				e.log.Info().Int("swept", n).Msg("idle flows cleared")
			}
		}
	}
}

// expireUser перепроверяет состояние под блокировкой: событие могло прийти после List
func (e *Engine) expireUser(ctx context.Context, userID int64) bool {
	unlock := e.locks.Lock(userID)
	defer unlock()

	st, err := e.store.Get(ctx, userID)
	if err != nil {
		e.log.Error().Err(err).Int64("user_id", userID).Msg("failed to load state for sweep")
		return false
	}
	if st == nil || !st.Expired(e.now(), e.idleTimeout) {
		return false
	}
	_ = e.expire(ctx, *st)
	return true
}

// expire вызывается под блокировкой пользователя
func (e *Engine) expire(ctx context.Context, st model.UserState) error {
	e.log.Info().
		Int64("user_id", st.UserID).
		Str("flow", string(st.Flow)).
		Str("step", string(st.Step)).
		Msg("flow expired")
	if err := e.store.Clear(ctx, st.UserID); err != nil {
		e.log.Error().Err(err).Int64("user_id", st.UserID).Msg("failed to clear expired state")
	}
	e.metrics.FlowCleared("idle")
	return e.renderMenu(ctx, origin(st), e.text(st.Locale, "flow.expired"))
}
