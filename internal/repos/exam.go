package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/types"
)

// ListExamsFilter narrows the owner-scoped exam listing. Habilidade matches
// the BNCC code or the teacher-supplied hint as a substring; Search is a
// free-text match across subject and curriculum fields.
type ListExamsFilter struct {
	Disciplina string
	AnoSerie   string
	Habilidade string
	Search     string
}

type ExamRepo interface {
	Create(ctx context.Context, tx *gorm.DB, exams []*types.Exam) ([]*types.Exam, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Exam, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Exam, error)
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filter ListExamsFilter) ([]*types.Exam, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type examRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExamRepo(db *gorm.DB, baseLog *logger.Logger) ExamRepo {
	repoLog := baseLog.With("repo", "ExamRepo")
	return &examRepo{db: db, log: repoLog}
}

func (r *examRepo) Create(ctx context.Context, tx *gorm.DB, exams []*types.Exam) ([]*types.Exam, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(exams) == 0 {
		return []*types.Exam{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *examRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Exam, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var exam types.Exam
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Exam, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var exam types.Exam
	err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filter ListExamsFilter) ([]*types.Exam, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Preload("Versions").
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if filter.Disciplina != "" {
		query = query.Where("disciplina = ?", filter.Disciplina)
	}
	if filter.AnoSerie != "" {
		query = query.Where("ano_serie = ?", filter.AnoSerie)
	}
	if filter.Habilidade != "" {
		pattern := "%" + strings.ToLower(filter.Habilidade) + "%"
		query = query.Where("LOWER(bncc_code) LIKE ? OR LOWER(habilidade_hint) LIKE ?", pattern, pattern)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(disciplina) LIKE ? OR LOWER(ano_serie) LIKE ? OR LOWER(bncc_code) LIKE ?", pattern, pattern, pattern)
	}

	var exams []*types.Exam
	if err := query.Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *examRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Exam{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *examRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Exam{}).Error
}
