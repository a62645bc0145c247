package types

import (
	"time"

	"github.com/google/uuid"
)

// VersionRating is a 1-5 star rating by one user on one generated version.
// Unique per (version, user); resubmission overwrites.
type VersionRating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VersionID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_version_rating_user" json:"version_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_version_rating_user" json:"user_id"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Comment   *string   `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (VersionRating) TableName() string { return "version_ratings" }
