package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVacancyPatch(t *testing.T) {
	var p VacancyPatch
	assert.True(t, p.IsEmpty())

	p.Set(FieldSalary, "2500$")
	p.Set(FieldGender, "female")
	assert.False(t, p.IsEmpty())
	assert.Equal(t, map[string]any{"salary": "2500$", "gender": "female"}, p.Fields())

	original := Vacancy{ID: "v1", Title: "Go Developer", Salary: "2000$", Gender: GenderAny}
	applied := p.Apply(original)
	assert.Equal(t, "2500$", applied.Salary)
	assert.Equal(t, GenderFemale, applied.Gender)
	assert.Equal(t, "Go Developer", applied.Title)
	assert.Equal(t, "2000$", original.Salary)
}

func TestVacancyPatch_Unset(t *testing.T) {
	var p VacancyPatch
	p.Set(FieldSalary, "2500$")
	p.Set(FieldLanguages, `[{"language":"german","level":"c1"}]`)

	p.Unset(FieldSalary)
	assert.Equal(t, map[string]any{"languages": `[{"language":"german","level":"c1"}]`}, p.Fields())

	p.Unset(FieldLanguages)
	p.Unset(FieldTitle)
	assert.True(t, p.IsEmpty())
}

func TestVacancyPatch_CloneIsIndependent(t *testing.T) {
	var p VacancyPatch
	p.Set(FieldTitle, "Go Developer")

	c := p.Clone()
	*c.Title = "changed"
	c.Set(FieldSalary, "100$")

	assert.Equal(t, "Go Developer", *p.Title)
	assert.Nil(t, p.Salary)
}

func TestUserState_Clone(t *testing.T) {
	st := UserState{
		Flow: FlowCreateVacancy,
		Step: StepLanguageLevel,
		Create: &CreatePayload{
			Draft: VacancyDraft{Title: "Go Developer"},
			Selection: Selection{
				Genders:   []Gender{GenderMale},
				Languages: []LanguageChoice{{Key: "english", Level: "b2"}},
				Pending:   &LanguageChoice{Name: "Klingon"},
			},
		},
	}

	c := st.Clone()
	require.Equal(t, st, c)

	c.Create.Draft.Title = "changed"
	c.Create.Selection.Genders[0] = GenderFemale
	c.Create.Selection.Languages[0].Level = "c2"
	c.Create.Selection.Pending.Name = "Elvish"

	assert.Equal(t, "Go Developer", st.Create.Draft.Title)
	assert.Equal(t, GenderMale, st.Create.Selection.Genders[0])
	assert.Equal(t, "b2", st.Create.Selection.Languages[0].Level)
	assert.Equal(t, "Klingon", st.Create.Selection.Pending.Name)
}

func TestUserState_SelectionFollowsFlow(t *testing.T) {
	st := UserState{Flow: FlowEditVacancy, Edit: &EditPayload{}}
	st.Selection().Genders = []Gender{GenderMale}
	assert.Equal(t, []Gender{GenderMale}, st.Edit.Selection.Genders)

	assert.Nil(t, (&UserState{Flow: FlowEditVacancy}).Selection())
}

func TestUserState_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	st := UserState{UpdatedAt: now.Add(-31 * time.Minute)}

	assert.True(t, st.Expired(now, 30*time.Minute))
	assert.False(t, st.Expired(now, time.Hour))
	assert.False(t, st.Expired(now, 0))
}
