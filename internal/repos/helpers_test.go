package repos_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/provadapt/provadapt-backend/internal/types"
)

func seedExam(t *testing.T, db *gorm.DB, userID uuid.UUID, mutate func(*types.Exam)) *types.Exam {
	t.Helper()
	now := time.Now().UTC()
	exam := &types.Exam{
		ID:         uuid.New(),
		UserID:     userID,
		Disciplina: "Matemática",
		AnoSerie:   "6º ano",
		PdfBucket:  "test-bucket",
		PdfPath:    userID.String() + "/exam/original.pdf",
		Conditions: []types.Condition{types.ConditionTDAH},
		Status:     types.ExamStatusUploaded,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if mutate != nil {
		mutate(exam)
	}
	require.NoError(t, db.Create(exam).Error)
	return exam
}

func strPtr(s string) *string { return &s }
