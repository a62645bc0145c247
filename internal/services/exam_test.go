package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provadapt/provadapt-backend/internal/repos"
	"github.com/provadapt/provadapt-backend/internal/services"
	"github.com/provadapt/provadapt-backend/internal/types"
)

func intakeInput(conditions ...types.Condition) services.CreateExamInput {
	return services.CreateExamInput{
		Disciplina: "Ciências",
		AnoSerie:   "7º ano",
		Conditions: conditions,
		File:       strings.NewReader("%PDF-1.4 fake"),
	}
}

func TestCreateExamHappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t)

	exam, err := env.examService.CreateExam(ctx, user.ID, user.Email, intakeInput(types.ConditionTEA))
	require.NoError(t, err)
	require.NotNil(t, exam)

	assert.Equal(t, types.ExamStatusAnalyzing, exam.Status)
	expectedPath := user.ID.String() + "/" + exam.ID.String() + "/original.pdf"
	assert.Equal(t, expectedPath, exam.PdfPath)
	require.Len(t, env.bucket.uploads, 1)
	assert.Equal(t, expectedPath, env.bucket.uploads[0])

	require.Len(t, env.n8n.analyzed, 1)
	payload := env.n8n.analyzed[0]
	assert.Equal(t, exam.ID.String(), payload.ExamID)
	assert.Equal(t, user.Email, payload.User.Email)
	assert.Contains(t, payload.Pdf.SignedURL, expectedPath)

	reloaded, err := env.examRepo.GetByID(ctx, nil, exam.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.AnalysisRunID)
	assert.Equal(t, "run-analyze-1", *reloaded.AnalysisRunID)
}

func TestCreateExamUploadFailureLeavesNoRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t)
	env.bucket.uploadErr = errBoom

	_, err := env.examService.CreateExam(ctx, user.ID, user.Email, intakeInput(types.ConditionTEA))
	require.ErrorIs(t, err, services.ErrStorageFailure)

	exams, listErr := env.examRepo.ListForUser(ctx, nil, user.ID, repos.ListExamsFilter{})
	require.NoError(t, listErr)
	assert.Empty(t, exams, "compensating delete must remove the orphan row")
}

func TestCreateExamDispatchFailureKeepsAnalyzing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t)
	env.n8n.analyzeErr = errBoom

	exam, err := env.examService.CreateExam(ctx, user.ID, user.Email, intakeInput(types.ConditionTDAH))
	require.NoError(t, err, "dispatch failure does not fail the request")
	assert.Equal(t, types.ExamStatusAnalyzing, env.examStatus(t, exam.ID))
	assert.Nil(t, exam.AnalysisRunID)
}

func TestCreateExamRequiresConditions(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	_, err := env.examService.CreateExam(context.Background(), user.ID, user.Email, intakeInput())
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestGetExamStatusProjectsStepper(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t)
	exam := env.seedExam(t, user.ID, types.ExamStatusWaitingDIInput, []types.Condition{types.ConditionDI})

	view, err := env.examService.GetExamStatus(ctx, user.ID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ExamStatusWaitingDIInput, view.Status)
	assert.True(t, view.HasDI)
	assert.Len(t, view.Stepper.Steps, 5)
	assert.Equal(t, 2, view.Stepper.CurrentIndex)
}

func TestGetExamStatusHidesForeignExam(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t)
	exam := env.seedExam(t, user.ID, types.ExamStatusAnalyzing, []types.Condition{types.ConditionTEA})

	_, err := env.examService.GetExamStatus(ctx, uuid.New(), exam.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestGetExamReturnsDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t)
	exam := env.seedExam(t, user.ID, types.ExamStatusWaitingDIInput, []types.Condition{types.ConditionDI})
	env.seedQuestion(t, exam.ID, 1, true)
	env.seedQuestion(t, exam.ID, 2, true)

	detail, err := env.examService.GetExam(ctx, user.ID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, exam.ID, detail.Exam.ID)
	assert.Len(t, detail.Questions, 2)
	assert.Empty(t, detail.Answers)
	assert.Empty(t, detail.Versions)
}
