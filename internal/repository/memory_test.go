package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/vacancy_bot/internal/model"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateVacancy(ctx, &model.Vacancy{ID: "a", OwnerID: 1, Title: "First", Salary: "1000$", CreatedAt: base}))
	require.NoError(t, repo.CreateVacancy(ctx, &model.Vacancy{ID: "b", OwnerID: 1, Title: "Second", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.CreateVacancy(ctx, &model.Vacancy{ID: "c", OwnerID: 2, Title: "Foreign"}))

	list, err := repo.ListVacanciesByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)

	var patch model.VacancyPatch
	patch.Set(model.FieldSalary, "2500$")
	require.NoError(t, repo.UpdateVacancy(ctx, "a", 1, patch, base.Add(2*time.Hour)))

	got, err := repo.GetVacancy(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2500$", got.Salary)
	assert.Equal(t, "First", got.Title)
	assert.Equal(t, base.Add(2*time.Hour), got.UpdatedAt)

	assert.ErrorIs(t, repo.UpdateVacancy(ctx, "c", 1, patch, base), ErrNotFound)
	_, err = repo.GetVacancy(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
