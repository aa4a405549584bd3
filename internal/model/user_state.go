package model

import "time"

// Flow - активный сценарий диалога
type Flow string

const (
	FlowCreateVacancy Flow = "create_vacancy"
	FlowEditVacancy   Flow = "edit_vacancy"
)

// Step - узел графа диалога
type Step string

const (
	StepSphere             Step = "sphere"
	StepProfession         Step = "profession"
	StepTitle              Step = "title"
	StepDescription        Step = "description"
	StepGender             Step = "gender"
	StepLanguageSelect     Step = "language_select"
	StepLanguageCustomName Step = "language_custom_name"
	StepLanguageLevel      Step = "language_level"
	StepSalary             Step = "salary"
	StepEmploymentType     Step = "employment_type"
	StepCommit             Step = "commit"

	StepEditTitle              Step = "edit_title"
	StepEditDescription        Step = "edit_description"
	StepEditGender             Step = "edit_gender"
	StepEditLanguageSelect     Step = "edit_language_select"
	StepEditLanguageCustomName Step = "edit_language_custom_name"
	StepEditLanguageLevel      Step = "edit_language_level"
	StepEditSalary             Step = "edit_salary"
	StepEditEmploymentType     Step = "edit_employment_type"
	StepEditCommit             Step = "edit_commit"
)

// LanguageChoice - выбранный язык и уровень владения.
// Key заполнен для языка из списка, Name - для введённого вручную.
type LanguageChoice struct {
	Key   string `json:"key,omitempty"`
	Name  string `json:"name,omitempty"`
	Level string `json:"level,omitempty"`
}

// Selection - временные наборы мультивыбора, очищаются после свёртки в черновик
type Selection struct {
	Genders   []Gender         `json:"genders,omitempty"`
	Languages []LanguageChoice `json:"languages,omitempty"`
	// Pending - язык, для которого ожидается выбор уровня
	Pending *LanguageChoice `json:"pending,omitempty"`
}

// CreatePayload - данные сценария создания вакансии
type CreatePayload struct {
	Sphere     string       `json:"sphere,omitempty"`
	Profession string       `json:"profession,omitempty"`
	Draft      VacancyDraft `json:"draft"`
	Selection  Selection    `json:"selection"`
}

// EditPayload - данные сценария редактирования вакансии
type EditPayload struct {
	TargetID  string       `json:"target_id"`
	Original  Vacancy      `json:"original"`
	Diff      VacancyPatch `json:"diff"`
	Selection Selection    `json:"selection"`
}

// UserState - состояние активного диалога пользователя
type UserState struct {
	UserID    int64          `json:"user_id"`
	ChatID    int64          `json:"chat_id"`
	Locale    string         `json:"locale"`
	Flow      Flow           `json:"flow"`
	Step      Step           `json:"step"`
	Create    *CreatePayload `json:"create,omitempty"`
	Edit      *EditPayload   `json:"edit,omitempty"`
	Version   int64          `json:"version"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Selection возвращает временный набор активного сценария
func (s *UserState) Selection() *Selection {
	switch {
	case s.Flow == FlowEditVacancy && s.Edit != nil:
		return &s.Edit.Selection
	case s.Create != nil:
		return &s.Create.Selection
	}
	return nil
}

// Expired сообщает, что диалог простаивает дольше timeout
func (s *UserState) Expired(now time.Time, timeout time.Duration) bool {
	return timeout > 0 && now.Sub(s.UpdatedAt) > timeout
}

// Clone возвращает глубокую копию, которую обработчик может менять без блокировок хранилища
func (s UserState) Clone() UserState {
	c := s
	if s.Create != nil {
		p := *s.Create
		p.Selection = s.Create.Selection.clone()
		c.Create = &p
	}
	if s.Edit != nil {
		p := *s.Edit
		p.Diff = s.Edit.Diff.Clone()
		p.Selection = s.Edit.Selection.clone()
		c.Edit = &p
	}
	return c
}

func (s Selection) clone() Selection {
	c := Selection{}
	if s.Genders != nil {
		c.Genders = append([]Gender(nil), s.Genders...)
	}
	if s.Languages != nil {
		c.Languages = append([]LanguageChoice(nil), s.Languages...)
	}
	if s.Pending != nil {
		p := *s.Pending
		c.Pending = &p
	}
	return c
}
