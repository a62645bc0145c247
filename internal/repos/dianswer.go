package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/types"
)

type DiAnswerRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, answers []*types.DiAnswer) error
	GetByExamID(ctx context.Context, tx *gorm.DB, examID uuid.UUID) ([]*types.DiAnswer, error)
}

type diAnswerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiAnswerRepo(db *gorm.DB, baseLog *logger.Logger) DiAnswerRepo {
	repoLog := baseLog.With("repo", "DiAnswerRepo")
	return &diAnswerRepo{db: db, log: repoLog}
}

// Upsert keys on (exam_id, question_id); a later submission overwrites the
// earlier answer for the same question.
func (r *diAnswerRepo) Upsert(ctx context.Context, tx *gorm.DB, answers []*types.DiAnswer) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(answers) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "exam_id"},
				{Name: "question_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"correct_option_key"}),
		}).
		Create(&answers).Error
}

func (r *diAnswerRepo) GetByExamID(ctx context.Context, tx *gorm.DB, examID uuid.UUID) ([]*types.DiAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.DiAnswer
	if err := transaction.WithContext(ctx).
		Where("exam_id = ?", examID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
