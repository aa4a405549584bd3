package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ivanoskov/vacancy_bot/internal/model"
)

// ErrNotFound - вакансия не найдена или принадлежит другому пользователю
var ErrNotFound = errors.New("vacancy not found")

type Repository interface {
	CreateVacancy(ctx context.Context, vacancy *model.Vacancy) error
	GetVacancy(ctx context.Context, id string) (*model.Vacancy, error)
	ListVacanciesByOwner(ctx context.Context, ownerID int64) ([]model.Vacancy, error)
	// UpdateVacancy меняет только поля, присутствующие в patch
	UpdateVacancy(ctx context.Context, id string, ownerID int64, patch model.VacancyPatch, updatedAt time.Time) error
}
