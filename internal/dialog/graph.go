package dialog

import (
	"fmt"

	"github.com/ivanoskov/vacancy_bot/internal/model"
)

type edge struct {
	from model.Step
	on   Outcome
}

// transitions - весь граф диалога. Обработчики только проверяют ввод и меняют данные,
// следующий шаг выбирается здесь. "Назад" - статическое ребро к конкретному предшественнику.
var transitions = map[edge]model.Step{
	{model.StepSphere, OutcomePicked}: model.StepProfession,
	{model.StepSphere, OutcomeOther}:  model.StepTitle,

	{model.StepProfession, OutcomePicked}: model.StepTitle,
	{model.StepProfession, OutcomeOther}:  model.StepTitle,
	{model.StepProfession, OutcomeBack}:   model.StepSphere,

	{model.StepTitle, OutcomeAccepted}: model.StepDescription,
	{model.StepTitle, OutcomeBack}:     model.StepSphere,

	{model.StepDescription, OutcomeAccepted}: model.StepGender,
	{model.StepDescription, OutcomeBack}:     model.StepTitle,

	{model.StepGender, OutcomeSelected}: model.StepGender,
	{model.StepGender, OutcomeDone}:     model.StepLanguageSelect,
	{model.StepGender, OutcomeBack}:     model.StepDescription,

	{model.StepLanguageSelect, OutcomePicked}: model.StepLanguageLevel,
	{model.StepLanguageSelect, OutcomeCustom}: model.StepLanguageCustomName,
	{model.StepLanguageSelect, OutcomeDone}:   model.StepSalary,
	{model.StepLanguageSelect, OutcomeSkip}:   model.StepSalary,
	{model.StepLanguageSelect, OutcomeBack}:   model.StepGender,

	{model.StepLanguageCustomName, OutcomeAccepted}: model.StepLanguageLevel,
	{model.StepLanguageCustomName, OutcomeBack}:     model.StepLanguageSelect,

	{model.StepLanguageLevel, OutcomeAccepted}: model.StepLanguageSelect,
	{model.StepLanguageLevel, OutcomeBack}:     model.StepLanguageSelect,

	{model.StepSalary, OutcomeAccepted}: model.StepEmploymentType,
	{model.StepSalary, OutcomeBack}:     model.StepLanguageSelect,

	{model.StepEmploymentType, OutcomeAccepted}: model.StepCommit,
	{model.StepEmploymentType, OutcomeBack}:     model.StepSalary,

	{model.StepEditTitle, OutcomeAccepted}: model.StepEditDescription,
	{model.StepEditTitle, OutcomeKeep}:     model.StepEditDescription,

	{model.StepEditDescription, OutcomeAccepted}: model.StepEditGender,
	{model.StepEditDescription, OutcomeKeep}:     model.StepEditGender,
	{model.StepEditDescription, OutcomeBack}:     model.StepEditTitle,

	{model.StepEditGender, OutcomeSelected}: model.StepEditGender,
	{model.StepEditGender, OutcomeDone}:     model.StepEditLanguageSelect,
	{model.StepEditGender, OutcomeKeep}:     model.StepEditLanguageSelect,
	{model.StepEditGender, OutcomeBack}:     model.StepEditDescription,

	{model.StepEditLanguageSelect, OutcomePicked}: model.StepEditLanguageLevel,
	{model.StepEditLanguageSelect, OutcomeCustom}: model.StepEditLanguageCustomName,
	{model.StepEditLanguageSelect, OutcomeDone}:   model.StepEditSalary,
	{model.StepEditLanguageSelect, OutcomeSkip}:   model.StepEditSalary,
	{model.StepEditLanguageSelect, OutcomeKeep}:   model.StepEditSalary,
	{model.StepEditLanguageSelect, OutcomeBack}:   model.StepEditGender,

	{model.StepEditLanguageCustomName, OutcomeAccepted}: model.StepEditLanguageLevel,
	{model.StepEditLanguageCustomName, OutcomeBack}:     model.StepEditLanguageSelect,

	{model.StepEditLanguageLevel, OutcomeAccepted}: model.StepEditLanguageSelect,
	{model.StepEditLanguageLevel, OutcomeBack}:     model.StepEditLanguageSelect,

	{model.StepEditSalary, OutcomeAccepted}: model.StepEditEmploymentType,
	{model.StepEditSalary, OutcomeKeep}:     model.StepEditEmploymentType,
	{model.StepEditSalary, OutcomeBack}:     model.StepEditLanguageSelect,

	{model.StepEditEmploymentType, OutcomeAccepted}: model.StepEditCommit,
	{model.StepEditEmploymentType, OutcomeKeep}:     model.StepEditCommit,
	{model.StepEditEmploymentType, OutcomeBack}:     model.StepEditSalary,
}

// terminalSteps - псевдошаги, на которых выполняется фиксация
var terminalSteps = map[model.Step]model.Flow{
	model.StepCommit:     model.FlowCreateVacancy,
	model.StepEditCommit: model.FlowEditVacancy,
}

var initialSteps = map[model.Flow]model.Step{
	model.FlowCreateVacancy: model.StepSphere,
	model.FlowEditVacancy:   model.StepEditTitle,
}

// flowSteps - допустимые шаги каждого сценария
var flowSteps = map[model.Flow][]model.Step{
	model.FlowCreateVacancy: {
		model.StepSphere, model.StepProfession, model.StepTitle, model.StepDescription,
		model.StepGender, model.StepLanguageSelect, model.StepLanguageCustomName,
		model.StepLanguageLevel, model.StepSalary, model.StepEmploymentType,
	},
	model.FlowEditVacancy: {
		model.StepEditTitle, model.StepEditDescription, model.StepEditGender,
		model.StepEditLanguageSelect, model.StepEditLanguageCustomName,
		model.StepEditLanguageLevel, model.StepEditSalary, model.StepEditEmploymentType,
	},
}

func nextStep(from model.Step, on Outcome) (model.Step, error) {
	to, ok := transitions[edge{from, on}]
	if !ok {
		return "", fmt.Errorf("%w: %s --%s-->", ErrUndefinedTransition, from, on)
	}
	return to, nil
}

func stepInFlow(flow model.Flow, step model.Step) bool {
	for _, s := range flowSteps[flow] {
		if s == step {
			return true
		}
	}
	return false
}

// validateGraph проверяет, что у каждого ребра есть обработчики на обоих концах
// и что ни один шаг не остался без выхода
func validateGraph(handlers map[model.Step]handler) error {
	outgoing := make(map[model.Step]bool)
	for e, to := range transitions {
		if _, ok := handlers[e.from]; !ok {
			return fmt.Errorf("transition from %s: no handler", e.from)
		}
		if _, ok := terminalSteps[to]; ok {
			if terminalSteps[to] != flowOf(e.from) {
				return fmt.Errorf("transition %s -> %s crosses flows", e.from, to)
			}
		} else {
			if _, ok := handlers[to]; !ok {
				return fmt.Errorf("transition %s -> %s: no handler", e.from, to)
			}
			if flowOf(to) != flowOf(e.from) {
				return fmt.Errorf("transition %s -> %s crosses flows", e.from, to)
			}
		}
		outgoing[e.from] = true
	}
	for step := range handlers {
		if !outgoing[step] {
			return fmt.Errorf("step %s has no outgoing transitions", step)
		}
		if flowOf(step) == "" {
			return fmt.Errorf("step %s belongs to no flow", step)
		}
	}
	for flow, step := range initialSteps {
		if !stepInFlow(flow, step) {
			return fmt.Errorf("initial step %s is not part of %s", step, flow)
		}
	}
	return nil
}

func flowOf(step model.Step) model.Flow {
	for flow := range flowSteps {
		if stepInFlow(flow, step) {
			return flow
		}
	}
	return ""
}
