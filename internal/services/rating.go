package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/repos"
	"github.com/provadapt/provadapt-backend/internal/types"
)

type RatingService interface {
	RateVersion(ctx context.Context, userID, versionID uuid.UUID, rating int, comment *string) (*types.VersionRating, error)
}

type ratingService struct {
	db          *gorm.DB
	log         *logger.Logger
	versionRepo repos.ExamVersionRepo
	ratingRepo  repos.VersionRatingRepo
}

func NewRatingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	versionRepo repos.ExamVersionRepo,
	ratingRepo repos.VersionRatingRepo,
) RatingService {
	return &ratingService{
		db:          db,
		log:         baseLog.With("service", "RatingService"),
		versionRepo: versionRepo,
		ratingRepo:  ratingRepo,
	}
}

// RateVersion records a 1-5 rating on a generated version the caller owns.
// Rating the same version again replaces the previous score and comment.
func (rs *ratingService) RateVersion(ctx context.Context, userID, versionID uuid.UUID, rating int, comment *string) (*types.VersionRating, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	version, err := rs.versionRepo.GetByIDForUser(ctx, nil, versionID, userID)
	if err != nil {
		return nil, fmt.Errorf("load version for rating: %w", err)
	}
	if version == nil {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	row := &types.VersionRating{
		ID:        uuid.New(),
		VersionID: versionID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := rs.ratingRepo.Upsert(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("store rating: %w", err)
	}

	stored, err := rs.ratingRepo.GetByVersionAndUser(ctx, nil, versionID, userID)
	if err != nil {
		return nil, fmt.Errorf("reload rating: %w", err)
	}
	if stored == nil {
		return row, nil
	}
	return stored, nil
}
