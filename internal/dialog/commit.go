package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivanoskov/vacancy_bot/internal/model"
	"github.com/ivanoskov/vacancy_bot/internal/repository"
)

// commit выполняет терминальный шаг и в любом случае очищает состояние:
// неудачная фиксация не должна оставлять пользователя в зависшем сценарии
func (e *Engine) commit(ctx context.Context, st model.UserState) error {
	notice := e.runCommit(ctx, st)

	if err := e.store.Clear(ctx, st.UserID); err != nil {
		e.log.Error().Err(err).Int64("user_id", st.UserID).Msg("failed to clear state after commit")
	}
	e.metrics.FlowCleared("commit")
	return e.renderMenu(ctx, origin(st), notice)
}

func (e *Engine) runCommit(ctx context.Context, st model.UserState) (notice string) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().
				Int64("user_id", st.UserID).
				Str("flow", string(st.Flow)).
				Str("panic", fmt.Sprint(r)).
				Msg("commit panicked")
			e.metrics.Commit(string(st.Flow), "panic")
			notice = e.text(st.Locale, "error.generic")
		}
	}()

	switch {
	case st.Flow == model.FlowCreateVacancy && st.Create != nil:
		return e.commitCreate(ctx, st)
	case st.Flow == model.FlowEditVacancy && st.Edit != nil:
		return e.commitEdit(ctx, st)
	}
	e.log.Error().Int64("user_id", st.UserID).Str("flow", string(st.Flow)).Msg("commit without payload")
	return e.text(st.Locale, "error.generic")
}

func (e *Engine) commitCreate(ctx context.Context, st model.UserState) string {
	draft := st.Create.Draft
	draft.OwnerID = st.UserID
	log := e.log.With().Int64("user_id", st.UserID).Str("flow", string(st.Flow)).Logger()

	if err := e.structs.Draft(draft); err != nil {
		log.Error().Err(err).Msg("draft failed schema validation")
		e.metrics.Commit(string(st.Flow), "invalid")
		return e.text(st.Locale, "error.create_failed")
	}

	vacancy, err := e.entities.CreateVacancy(ctx, draft)
	if err != nil {
		log.Error().Err(err).Msg("failed to create vacancy")
		e.metrics.Commit(string(st.Flow), "failed")
		return e.text(st.Locale, "error.create_failed")
	}

	log.Info().Str("vacancy_id", vacancy.ID).Msg("vacancy created")
	e.metrics.Commit(string(st.Flow), "ok")
	return paragraphs(e.text(st.Locale, "commit.created"), e.summary(st.Locale, *vacancy))
}

func (e *Engine) commitEdit(ctx context.Context, st model.UserState) string {
	patch := st.Edit.Diff
	log := e.log.With().
		Int64("user_id", st.UserID).
		Str("flow", string(st.Flow)).
		Str("vacancy_id", st.Edit.TargetID).
		Logger()

	// Пустой diff в хранилище не отправляется
	if patch.IsEmpty() {
		e.metrics.Commit(string(st.Flow), "unchanged")
		return e.text(st.Locale, "commit.nothing_changed")
	}

	if err := e.structs.Patch(patch); err != nil {
		log.Error().Err(err).Msg("patch failed schema validation")
		e.metrics.Commit(string(st.Flow), "invalid")
		return e.text(st.Locale, "error.update_failed")
	}

	err := e.entities.UpdateVacancy(ctx, st.Edit.TargetID, st.UserID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info().Msg("vacancy disappeared before update")
		e.metrics.Commit(string(st.Flow), "not_found")
		return e.text(st.Locale, "error.not_found")
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to update vacancy")
		e.metrics.Commit(string(st.Flow), "failed")
		return e.text(st.Locale, "error.update_failed")
	}

	log.Info().Strs("fields", changedFields(patch)).Msg("vacancy updated")
	e.metrics.Commit(string(st.Flow), "ok")
	return paragraphs(e.text(st.Locale, "commit.updated"), e.summary(st.Locale, patch.Apply(st.Edit.Original)))
}

func changedFields(p model.VacancyPatch) []string {
	fields := make([]string, 0, 6)
	for name := range p.Fields() {
		fields = append(fields, name)
	}
	return fields
}
