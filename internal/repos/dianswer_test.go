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

func TestDiAnswerRepoUpsertOverwrites(t *testing.T) {
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewDiAnswerRepo(db, log)
	ctx := context.Background()

	exam := seedExam(t, db, uuid.New(), nil)
	questionID := uuid.New()
	now := time.Now().UTC()

	require.NoError(t, repo.Upsert(ctx, nil, []*types.DiAnswer{{
		ID:               uuid.New(),
		ExamID:           exam.ID,
		QuestionID:       questionID,
		CorrectOptionKey: "A",
		CreatedAt:        now,
	}}))
	require.NoError(t, repo.Upsert(ctx, nil, []*types.DiAnswer{{
		ID:               uuid.New(),
		ExamID:           exam.ID,
		QuestionID:       questionID,
		CorrectOptionKey: "C",
		CreatedAt:        now,
	}}))

	answers, err := repo.GetByExamID(ctx, nil, exam.ID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "C", answers[0].CorrectOptionKey, "resubmission replaces the answer")
}
