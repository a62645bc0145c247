package services

import "github.com/provadapt/provadapt-backend/internal/types"

// Step projection for the exam lifecycle UI. Every rendering surface calls
// ProjectSteps instead of branching on status itself.

type Step struct {
	Key   types.ExamStatus `json:"key"`
	Label string           `json:"label"`
}

type StepProjection struct {
	Steps        []Step `json:"steps"`
	CurrentIndex int    `json:"current_index"`
	Partial      bool   `json:"partial"`
	Failed       bool   `json:"failed"`
}

var stepsWithDI = []Step{
	{Key: types.ExamStatusUploaded, Label: "Enviado"},
	{Key: types.ExamStatusAnalyzing, Label: "Analisando"},
	{Key: types.ExamStatusWaitingDIInput, Label: "Aguardando DI"},
	{Key: types.ExamStatusGenerating, Label: "Gerando"},
	{Key: types.ExamStatusReady, Label: "Pronto"},
}

var stepsWithoutDI = []Step{
	{Key: types.ExamStatusUploaded, Label: "Enviado"},
	{Key: types.ExamStatusAnalyzing, Label: "Analisando"},
	{Key: types.ExamStatusGenerating, Label: "Gerando"},
	{Key: types.ExamStatusReady, Label: "Pronto"},
}

// ProjectSteps maps (status, DI requested) to the step sequence and current
// position. READY_TO_GENERATE displays as GENERATING; PARTIAL_READY lands on
// the terminal step flagged as partial; a status missing from the sequence
// clamps to the last step instead of erroring.
func ProjectSteps(status types.ExamStatus, hasDI bool) StepProjection {
	steps := stepsWithoutDI
	if hasDI {
		steps = stepsWithDI
	}

	display := status
	if display == types.ExamStatusReadyToGenerate {
		display = types.ExamStatusGenerating
	}

	partial := status == types.ExamStatusPartialReady
	failed := status == types.ExamStatusFailed
	if partial {
		display = types.ExamStatusReady
	}

	index := -1
	for i, step := range steps {
		if step.Key == display {
			index = i
			break
		}
	}
	if index < 0 {
		index = len(steps) - 1
	}

	return StepProjection{
		Steps:        steps,
		CurrentIndex: index,
		Partial:      partial,
		Failed:       failed,
	}
}
