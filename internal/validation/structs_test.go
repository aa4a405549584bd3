package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ivanoskov/vacancy_bot/internal/model"
)

func validDraft() model.VacancyDraft {
	return model.VacancyDraft{
		OwnerID:        42,
		Title:          "Go Developer",
		Description:    "Backend service development in Go",
		Gender:         model.GenderAny,
		Languages:      model.LanguagesUnspecified,
		Salary:         "2000$",
		EmploymentType: model.EmploymentFullTime,
	}
}

func TestStructValidator_Draft(t *testing.T) {
	v := NewStructValidator()
	assert.NoError(t, v.Draft(validDraft()))

	missing := validDraft()
	missing.Salary = ""
	assert.ErrorContains(t, v.Draft(missing), "Salary(required)")

	badGender := validDraft()
	badGender.Gender = "robot"
	assert.ErrorContains(t, v.Draft(badGender), "Gender(oneof)")
}

func TestStructValidator_Patch(t *testing.T) {
	v := NewStructValidator()
	assert.NoError(t, v.Patch(model.VacancyPatch{}))

	var p model.VacancyPatch
	p.Set(model.FieldSalary, "2500$")
	assert.NoError(t, v.Patch(p))

	p.Set(model.FieldTitle, "Go")
	assert.ErrorContains(t, v.Patch(p), "Title(min)")
}
