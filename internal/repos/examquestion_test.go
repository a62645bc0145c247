package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provadapt/provadapt-backend/internal/repos"
	"github.com/provadapt/provadapt-backend/internal/repos/testutil"
	"github.com/provadapt/provadapt-backend/internal/types"
)

func TestExamQuestionRepoUpsertKeyedByOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewExamQuestionRepo(db, log)
	ctx := context.Background()

	exam := seedExam(t, db, uuid.New(), nil)
	now := time.Now().UTC()
	build := func(order int, prompt string) *types.ExamQuestion {
		return &types.ExamQuestion{
			ID:         uuid.New(),
			ExamID:     exam.ID,
			OrderIndex: order,
			Prompt:     prompt,
			Options: []types.QuestionOption{
				{Key: "A", Text: "primeira"},
				{Key: "B", Text: "segunda"},
			},
			QuestionType:  "objective",
			NeedsDiAnswer: true,
			CreatedAt:     now,
		}
	}

	require.NoError(t, repo.Upsert(ctx, nil, []*types.ExamQuestion{build(1, "original"), build(2, "outra")}))
	require.NoError(t, repo.Upsert(ctx, nil, []*types.ExamQuestion{build(1, "reescrita")}))

	questions, err := repo.GetByExamID(ctx, nil, exam.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "reescrita", questions[0].Prompt, "redelivery overwrites by order index")
	assert.Equal(t, "outra", questions[1].Prompt)
	assert.Len(t, questions[0].Options, 2)
}
