package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/types"
)

type ExamQuestionRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, questions []*types.ExamQuestion) error
	GetByExamID(ctx context.Context, tx *gorm.DB, examID uuid.UUID) ([]*types.ExamQuestion, error)
}

type examQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExamQuestionRepo(db *gorm.DB, baseLog *logger.Logger) ExamQuestionRepo {
	repoLog := baseLog.With("repo", "ExamQuestionRepo")
	return &examQuestionRepo{db: db, log: repoLog}
}

// Upsert writes extracted questions keyed by (exam_id, order_index) so a
// redelivered analyze callback overwrites instead of duplicating.
func (r *examQuestionRepo) Upsert(ctx context.Context, tx *gorm.DB, questions []*types.ExamQuestion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(questions) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "exam_id"},
				{Name: "order_index"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"prompt", "options", "question_type", "needs_di_answer"}),
		}).
		Create(&questions).Error
}

func (r *examQuestionRepo) GetByExamID(ctx context.Context, tx *gorm.DB, examID uuid.UUID) ([]*types.ExamQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ExamQuestion
	if err := transaction.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("order_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
