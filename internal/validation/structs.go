package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ivanoskov/vacancy_bot/internal/model"
)

// StructValidator проверяет черновик и изменения на соответствие схеме вакансии перед сохранением
type StructValidator struct {
	validate *validator.Validate
}

func NewStructValidator() *StructValidator {
	return &StructValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (s *StructValidator) Draft(d model.VacancyDraft) error {
	return s.check(d)
}

func (s *StructValidator) Patch(p model.VacancyPatch) error {
	return s.check(p)
}

func (s *StructValidator) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validation failed: %w", err)
	}
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid %T: %s: %w", v, strings.Join(fields, ", "), err)
}
