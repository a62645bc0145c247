package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/types"
)

type ExamVersionRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, versions []*types.ExamVersion) error
	GetByExamID(ctx context.Context, tx *gorm.DB, examID uuid.UUID) ([]*types.ExamVersion, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, versionID, userID uuid.UUID) (*types.ExamVersion, error)
}

type examVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExamVersionRepo(db *gorm.DB, baseLog *logger.Logger) ExamVersionRepo {
	repoLog := baseLog.With("repo", "ExamVersionRepo")
	return &examVersionRepo{db: db, log: repoLog}
}

// Upsert keys on (exam_id, condition); the generate callback may be
// redelivered, so the write must be idempotent.
func (r *examVersionRepo) Upsert(ctx context.Context, tx *gorm.DB, versions []*types.ExamVersion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(versions) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "exam_id"},
				{Name: "condition"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "google_doc_id", "google_doc_url", "limitations",
				"qa_status", "qa_score", "qa_issues", "updated_at",
			}),
		}).
		Create(&versions).Error
}

func (r *examVersionRepo) GetByExamID(ctx context.Context, tx *gorm.DB, examID uuid.UUID) ([]*types.ExamVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ExamVersion
	if err := transaction.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("condition ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByIDForUser joins through exams so a version can only be read by the
// owner of its exam; a foreign version reads the same as a missing one.
func (r *examVersionRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, versionID, userID uuid.UUID) (*types.ExamVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var version types.ExamVersion
	err := transaction.WithContext(ctx).
		Joins("JOIN exams ON exams.id = exam_versions.exam_id").
		Where("exam_versions.id = ? AND exams.user_id = ?", versionID, userID).
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}
