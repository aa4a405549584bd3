package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ivanoskov/vacancy_bot/internal/model"
	"github.com/ivanoskov/vacancy_bot/internal/repository"
)

// ErrNotFound возвращается и для чужих вакансий, чтобы не раскрывать их существование
var ErrNotFound = repository.ErrNotFound

// VacancyService предоставляет методы для работы с вакансиями
type VacancyService struct {
	repo repository.Repository
	now  func() time.Time
}

// NewVacancyService создает новый экземпляр VacancyService
func NewVacancyService(repo repository.Repository) *VacancyService {
	return &VacancyService{
		repo: repo,
		now:  time.Now,
	}
}

// CreateVacancy сохраняет вакансию из завершённого черновика.
// Владелец передаётся вместе с остальными полями, без дозаписи после вставки.
func (s *VacancyService) CreateVacancy(ctx context.Context, draft model.VacancyDraft) (*model.Vacancy, error) {
	now := s.now()
	vacancy := &model.Vacancy{
		ID:             uuid.New().String(),
		OwnerID:        draft.OwnerID,
		Title:          draft.Title,
		Description:    draft.Description,
		Gender:         draft.Gender,
		Languages:      draft.Languages,
		Salary:         draft.Salary,
		EmploymentType: draft.EmploymentType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateVacancy(ctx, vacancy); err != nil {
		return nil, fmt.Errorf("error creating vacancy: %w", err)
	}
	return vacancy, nil
}

// UpdateVacancy применяет только изменённые поля. Пустой patch - ошибка вызывающего кода.
func (s *VacancyService) UpdateVacancy(ctx context.Context, id string, ownerID int64, patch model.VacancyPatch) error {
	if patch.IsEmpty() {
		return errors.New("empty vacancy patch")
	}
	if err := s.repo.UpdateVacancy(ctx, id, ownerID, patch, s.now()); err != nil {
		return fmt.Errorf("error updating vacancy %s: %w", id, err)
	}
	return nil
}

// GetOwnedVacancy возвращает вакансию, только если она принадлежит ownerID
func (s *VacancyService) GetOwnedVacancy(ctx context.Context, id string, ownerID int64) (*model.Vacancy, error) {
	vacancy, err := s.repo.GetVacancy(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting vacancy %s: %w", id, err)
	}
	if vacancy.OwnerID != ownerID {
		return nil, fmt.Errorf("vacancy %s of another owner: %w", id, ErrNotFound)
	}
	return vacancy, nil
}

func (s *VacancyService) ListOwnedVacancies(ctx context.Context, ownerID int64) ([]model.Vacancy, error) {
	return s.repo.ListVacanciesByOwner(ctx, ownerID)
}
