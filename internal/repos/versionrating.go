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

type VersionRatingRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, rating *types.VersionRating) error
	GetByVersionAndUser(ctx context.Context, tx *gorm.DB, versionID, userID uuid.UUID) (*types.VersionRating, error)
}

type versionRatingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVersionRatingRepo(db *gorm.DB, baseLog *logger.Logger) VersionRatingRepo {
	repoLog := baseLog.With("repo", "VersionRatingRepo")
	return &versionRatingRepo{db: db, log: repoLog}
}

// Upsert keys on (version_id, user_id); rating again replaces score and comment.
func (r *versionRatingRepo) Upsert(ctx context.Context, tx *gorm.DB, rating *types.VersionRating) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "version_id"},
				{Name: "user_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).
		Create(rating).Error
}

func (r *versionRatingRepo) GetByVersionAndUser(ctx context.Context, tx *gorm.DB, versionID, userID uuid.UUID) (*types.VersionRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rating types.VersionRating
	err := transaction.WithContext(ctx).
		Where("version_id = ? AND user_id = ?", versionID, userID).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}
