package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/ivanoskov/vacancy_bot/internal/model"
)

const vacanciesTable = "vacancies"

type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(url, key string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, err
	}

	return &SupabaseRepository{
		client: client,
	}, nil
}

func (r *SupabaseRepository) CreateVacancy(ctx context.Context, vacancy *model.Vacancy) error {
	data, _, err := r.client.From(vacanciesTable).Insert(vacancy, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create vacancy: %w", err)
	}

	// Парсим ответ, чтобы получить значения, проставленные базой
	var created []model.Vacancy
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("failed to parse created vacancy: %w", err)
	}
	if len(created) > 0 {
		vacancy.ID = created[0].ID
		vacancy.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (r *SupabaseRepository) GetVacancy(ctx context.Context, id string) (*model.Vacancy, error) {
	data, _, err := r.client.From(vacanciesTable).
		Select("*", "", false).
		Eq("id", id).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get vacancy: %w", err)
	}

	var vacancies []model.Vacancy
	if err := json.Unmarshal(data, &vacancies); err != nil {
		return nil, fmt.Errorf("failed to parse vacancy: %w", err)
	}
	if len(vacancies) == 0 {
		return nil, ErrNotFound
	}
	return &vacancies[0], nil
}

func (r *SupabaseRepository) ListVacanciesByOwner(ctx context.Context, ownerID int64) ([]model.Vacancy, error) {
	data, _, err := r.client.From(vacanciesTable).
		Select("*", "", false).
		Eq("owner_id", strconv.FormatInt(ownerID, 10)).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list vacancies: %w", err)
	}

	var vacancies []model.Vacancy
	if err := json.Unmarshal(data, &vacancies); err != nil {
		return nil, fmt.Errorf("failed to parse vacancies: %w", err)
	}
	return vacancies, nil
}

func (r *SupabaseRepository) UpdateVacancy(ctx context.Context, id string, ownerID int64, patch model.VacancyPatch, updatedAt time.Time) error {
	fields := patch.Fields()
	fields["updated_at"] = updatedAt.UTC().Format(time.RFC3339)

	data, _, err := r.client.From(vacanciesTable).
		Update(fields, "representation", "").
		Eq("id", id).
		Eq("owner_id", strconv.FormatInt(ownerID, 10)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update vacancy: %w", err)
	}

	var updated []model.Vacancy
	if err := json.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("failed to parse updated vacancy: %w", err)
	}
	if len(updated) == 0 {
		return ErrNotFound
	}
	return nil
}
