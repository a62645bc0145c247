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

func TestExamVersionRepoUpsertIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewExamVersionRepo(db, log)
	ctx := context.Background()

	owner := uuid.New()
	exam := seedExam(t, db, owner, nil)
	now := time.Now().UTC()

	first := &types.ExamVersion{
		ID:        uuid.New(),
		ExamID:    exam.ID,
		Condition: types.ConditionTDAH,
		Status:    types.VersionStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Upsert(ctx, nil, []*types.ExamVersion{first}))

	redelivered := &types.ExamVersion{
		ID:           uuid.New(),
		ExamID:       exam.ID,
		Condition:    types.ConditionTDAH,
		Status:       types.VersionStatusReady,
		GoogleDocURL: strPtr("https://docs.google.com/d/abc"),
		CreatedAt:    now,
		UpdatedAt:    now.Add(time.Minute),
	}
	require.NoError(t, repo.Upsert(ctx, nil, []*types.ExamVersion{redelivered}))

	versions, err := repo.GetByExamID(ctx, nil, exam.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1, "redelivery must overwrite, not duplicate")
	assert.Equal(t, first.ID, versions[0].ID, "original row survives")
	assert.Equal(t, types.VersionStatusReady, versions[0].Status)
	require.NotNil(t, versions[0].GoogleDocURL)
	assert.Equal(t, "https://docs.google.com/d/abc", *versions[0].GoogleDocURL)
}

func TestExamVersionRepoGetByIDForUserScopesThroughExam(t *testing.T) {
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewExamVersionRepo(db, log)
	ctx := context.Background()

	owner := uuid.New()
	exam := seedExam(t, db, owner, nil)
	now := time.Now().UTC()
	version := &types.ExamVersion{
		ID:        uuid.New(),
		ExamID:    exam.ID,
		Condition: types.ConditionTEA,
		Status:    types.VersionStatusReady,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Upsert(ctx, nil, []*types.ExamVersion{version}))

	got, err := repo.GetByIDForUser(ctx, nil, version.ID, owner)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, version.ID, got.ID)

	got, err = repo.GetByIDForUser(ctx, nil, version.ID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got, "foreign version must read as missing")
}
