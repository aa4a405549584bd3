package model

import "time"

// Gender - требование к полу кандидата
type Gender string

const (
	GenderAny    Gender = "any"
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// EmploymentType - тип занятости
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentRemote     EmploymentType = "remote"
	EmploymentProject    EmploymentType = "project"
	EmploymentInternship EmploymentType = "internship"
)

// EmploymentTypes перечисляет допустимые типы занятости в порядке показа
var EmploymentTypes = []EmploymentType{
	EmploymentFullTime,
	EmploymentPartTime,
	EmploymentRemote,
	EmploymentProject,
	EmploymentInternship,
}

// LanguagesUnspecified хранится вместо списка языков, если оператор пропустил шаг
const LanguagesUnspecified = "unspecified"

// SalaryNegotiable хранится, если зарплата "по договорённости"
const SalaryNegotiable = "negotiable"

// Vacancy - сохранённая вакансия
type Vacancy struct {
	ID             string         `json:"id,omitempty"`
	OwnerID        int64          `json:"owner_id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Gender         Gender         `json:"gender"`
	Languages      string         `json:"languages"`
	Salary         string         `json:"salary"`
	EmploymentType EmploymentType `json:"employment_type"`
	CreatedAt      time.Time      `json:"created_at,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at,omitempty"`
}

// VacancyDraft накапливает поля вакансии до завершения сценария создания
type VacancyDraft struct {
	OwnerID        int64          `json:"owner_id" validate:"required"`
	Title          string         `json:"title" validate:"required,min=3,max=128"`
	Description    string         `json:"description" validate:"required,min=10,max=4000"`
	Gender         Gender         `json:"gender" validate:"required,oneof=any male female"`
	Languages      string         `json:"languages" validate:"required"`
	Salary         string         `json:"salary" validate:"required,max=64"`
	EmploymentType EmploymentType `json:"employment_type" validate:"required,oneof=full_time part_time remote project internship"`
}

// VacancyPatch - разреженный набор изменений для сценария редактирования.
// nil означает "поле не менялось".
type VacancyPatch struct {
	Title          *string         `json:"title,omitempty" validate:"omitempty,min=3,max=128"`
	Description    *string         `json:"description,omitempty" validate:"omitempty,min=10,max=4000"`
	Gender         *Gender         `json:"gender,omitempty" validate:"omitempty,oneof=any male female"`
	Languages      *string         `json:"languages,omitempty"`
	Salary         *string         `json:"salary,omitempty" validate:"omitempty,max=64"`
	EmploymentType *EmploymentType `json:"employment_type,omitempty" validate:"omitempty,oneof=full_time part_time remote project internship"`
}

// Field - поле вакансии, которое заполняет отдельный шаг диалога
type Field string

const (
	FieldTitle          Field = "title"
	FieldDescription    Field = "description"
	FieldGender         Field = "gender"
	FieldLanguages      Field = "languages"
	FieldSalary         Field = "salary"
	FieldEmploymentType Field = "employment_type"
)

// Set записывает значение поля в черновик
func (d *VacancyDraft) Set(field Field, value string) {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldDescription:
		d.Description = value
	case FieldGender:
		d.Gender = Gender(value)
	case FieldLanguages:
		d.Languages = value
	case FieldSalary:
		d.Salary = value
	case FieldEmploymentType:
		d.EmploymentType = EmploymentType(value)
	}
}

// Set отмечает поле как изменённое
func (p *VacancyPatch) Set(field Field, value string) {
	switch field {
	case FieldTitle:
		p.Title = &value
	case FieldDescription:
		p.Description = &value
	case FieldGender:
		g := Gender(value)
		p.Gender = &g
	case FieldLanguages:
		p.Languages = &value
	case FieldSalary:
		p.Salary = &value
	case FieldEmploymentType:
		e := EmploymentType(value)
		p.EmploymentType = &e
	}
}

// Unset снимает отметку об изменении поля
func (p *VacancyPatch) Unset(field Field) {
	switch field {
	case FieldTitle:
		p.Title = nil
	case FieldDescription:
		p.Description = nil
	case FieldGender:
		p.Gender = nil
	case FieldLanguages:
		p.Languages = nil
	case FieldSalary:
		p.Salary = nil
	case FieldEmploymentType:
		p.EmploymentType = nil
	}
}

// IsEmpty сообщает, что оператор ничего не изменил
func (p VacancyPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields возвращает только изменённые поля в виде column -> value
func (p VacancyPatch) Fields() map[string]any {
	fields := make(map[string]any)
	if p.Title != nil {
		fields[string(FieldTitle)] = *p.Title
	}
	if p.Description != nil {
		fields[string(FieldDescription)] = *p.Description
	}
	if p.Gender != nil {
		fields[string(FieldGender)] = string(*p.Gender)
	}
	if p.Languages != nil {
		fields[string(FieldLanguages)] = *p.Languages
	}
	if p.Salary != nil {
		fields[string(FieldSalary)] = *p.Salary
	}
	if p.EmploymentType != nil {
		fields[string(FieldEmploymentType)] = string(*p.EmploymentType)
	}
	return fields
}

// Apply накладывает изменения на копию вакансии
func (p VacancyPatch) Apply(v Vacancy) Vacancy {
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.Gender != nil {
		v.Gender = *p.Gender
	}
	if p.Languages != nil {
		v.Languages = *p.Languages
	}
	if p.Salary != nil {
		v.Salary = *p.Salary
	}
	if p.EmploymentType != nil {
		v.EmploymentType = *p.EmploymentType
	}
	return v
}

// Clone возвращает независимую копию набора изменений
func (p VacancyPatch) Clone() VacancyPatch {
	var c VacancyPatch
	for field, value := range p.Fields() {
		c.Set(Field(field), value.(string))
	}
	return c
}
