package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ivanoskov/vacancy_bot/internal/model"
)

// MemoryRepository - хранилище вакансий в памяти для локального запуска без Supabase
type MemoryRepository struct {
	mu        sync.RWMutex
	vacancies map[string]model.Vacancy
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{vacancies: make(map[string]model.Vacancy)}
}

func (r *MemoryRepository) CreateVacancy(_ context.Context, vacancy *model.Vacancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.vacancies[vacancy.ID] = *vacancy
	return nil
}

func (r *MemoryRepository) GetVacancy(_ context.Context, id string) (*model.Vacancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vacancies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (r *MemoryRepository) ListVacanciesByOwner(_ context.Context, ownerID int64) ([]model.Vacancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Vacancy
	for _, v := range r.vacancies {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	// Сначала новые
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) UpdateVacancy(_ context.Context, id string, ownerID int64, patch model.VacancyPatch, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vacancies[id]
	if !ok || v.OwnerID != ownerID {
		return ErrNotFound
	}
	v = patch.Apply(v)
	v.UpdatedAt = updatedAt
	r.vacancies[id] = v
	return nil
}
