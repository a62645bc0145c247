package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provadapt/provadapt-backend/internal/clients/gcp"
	"github.com/provadapt/provadapt-backend/internal/clients/n8n"
	redisclient "github.com/provadapt/provadapt-backend/internal/clients/redis"
	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/repos"
	"github.com/provadapt/provadapt-backend/internal/types"
)

type AnswerInput struct {
	QuestionID       uuid.UUID `json:"question_id"`
	CorrectOptionKey string    `json:"correct_option_key"`
}

// DiAnswerService accepts the teacher's answer key for an exam parked in
// WAITING_DI_INPUT and resumes generation.
type DiAnswerService interface {
	SubmitAnswers(ctx context.Context, userID uuid.UUID, userEmail string, examID uuid.UUID, answers []AnswerInput) error
}

type diAnswerService struct {
	db           *gorm.DB
	log          *logger.Logger
	examRepo     repos.ExamRepo
	questionRepo repos.ExamQuestionRepo
	answerRepo   repos.DiAnswerRepo
	statusCache  redisclient.StatusCache
	dispatcher   *generateDispatcher
}

func NewDiAnswerService(
	db *gorm.DB,
	baseLog *logger.Logger,
	examRepo repos.ExamRepo,
	questionRepo repos.ExamQuestionRepo,
	answerRepo repos.DiAnswerRepo,
	bucket gcp.BucketService,
	n8nClient n8n.Client,
	statusCache redisclient.StatusCache,
) DiAnswerService {
	serviceLog := baseLog.With("service", "DiAnswerService")
	return &diAnswerService{
		db:           db,
		log:          serviceLog,
		examRepo:     examRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		statusCache:  statusCache,
		dispatcher: &generateDispatcher{
			log:       serviceLog,
			examRepo:  examRepo,
			bucket:    bucket,
			n8nClient: n8nClient,
		},
	}
}

// SubmitAnswers validates the answer key against the extracted questions,
// stores it, moves the exam to GENERATING and dispatches the generate job.
// Every question flagged needs_di_answer must be covered and every answer
// must name a real question and one of its option keys.
func (ds *diAnswerService) SubmitAnswers(ctx context.Context, userID uuid.UUID, userEmail string, examID uuid.UUID, answers []AnswerInput) error {
	exam, err := ds.examRepo.GetByIDForUser(ctx, nil, examID, userID)
	if err != nil {
		return fmt.Errorf("load exam for answer key: %w", err)
	}
	if exam == nil {
		return ErrNotFound
	}
	if exam.Status != types.ExamStatusWaitingDIInput {
		return fmt.Errorf("%w: exam is %s", ErrInvalidStatus, exam.Status)
	}

	questions, err := ds.questionRepo.GetByExamID(ctx, nil, examID)
	if err != nil {
		return fmt.Errorf("load questions for answer key: %w", err)
	}
	byID := make(map[uuid.UUID]*types.ExamQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	answered := make(map[uuid.UUID]bool, len(answers))
	rows := make([]*types.DiAnswer, 0, len(answers))
	refs := make([]n8n.DiAnswerRef, 0, len(answers))
	now := time.Now().UTC()
	for _, a := range answers {
		question, ok := byID[a.QuestionID]
		if !ok {
			return fmt.Errorf("%w: question %s does not belong to this exam", ErrValidation, a.QuestionID)
		}
		if answered[a.QuestionID] {
			return fmt.Errorf("%w: duplicate answer for question %s", ErrValidation, a.QuestionID)
		}
		if !hasOption(question, a.CorrectOptionKey) {
			return fmt.Errorf("%w: question %s has no option %q", ErrValidation, a.QuestionID, a.CorrectOptionKey)
		}
		answered[a.QuestionID] = true
		rows = append(rows, &types.DiAnswer{
			ID:               uuid.New(),
			ExamID:           examID,
			QuestionID:       a.QuestionID,
			CorrectOptionKey: a.CorrectOptionKey,
			CreatedAt:        now,
		})
		refs = append(refs, n8n.DiAnswerRef{
			QuestionID:       a.QuestionID.String(),
			CorrectOptionKey: a.CorrectOptionKey,
		})
	}
	for _, q := range questions {
		if q.NeedsDiAnswer && !answered[q.ID] {
			return fmt.Errorf("%w: question %d is missing an answer", ErrValidation, q.OrderIndex)
		}
	}

	if err := ds.answerRepo.Upsert(ctx, nil, rows); err != nil {
		return fmt.Errorf("store answer key: %w", err)
	}
	if err := ds.examRepo.UpdateFields(ctx, nil, examID, map[string]interface{}{
		"status":     types.ExamStatusGenerating,
		"updated_at": now,
	}); err != nil {
		return fmt.Errorf("move exam to generating: %w", err)
	}
	if ds.statusCache != nil {
		ds.statusCache.Invalidate(ctx, examID)
	}
	exam.Status = types.ExamStatusGenerating

	return ds.dispatcher.dispatchGenerate(ctx, exam, userEmail, refs)
}

func hasOption(question *types.ExamQuestion, key string) bool {
	for _, opt := range question.Options {
		if opt.Key == key {
			return true
		}
	}
	return false
}
