package services

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provadapt/provadapt-backend/internal/clients/gcp"
	"github.com/provadapt/provadapt-backend/internal/clients/n8n"
	redisclient "github.com/provadapt/provadapt-backend/internal/clients/redis"
	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/repos"
	"github.com/provadapt/provadapt-backend/internal/types"
)

type CreateExamInput struct {
	Disciplina       string
	AnoSerie         string
	HabilidadeHint   *string
	ConhecimentoHint *string
	Conditions       []types.Condition
	File             io.Reader
}

type ExamDetail struct {
	Exam      *types.Exam           `json:"exam"`
	Questions []*types.ExamQuestion `json:"questions"`
	Answers   []*types.DiAnswer     `json:"di_answers"`
	Versions  []*types.ExamVersion  `json:"versions"`
}

type ExamStatusView struct {
	Status  types.ExamStatus `json:"status"`
	HasDI   bool             `json:"has_di"`
	Stepper StepProjection   `json:"stepper"`
}

type ExamService interface {
	CreateExam(ctx context.Context, userID uuid.UUID, userEmail string, in CreateExamInput) (*types.Exam, error)
	ListExams(ctx context.Context, userID uuid.UUID, filter repos.ListExamsFilter) ([]*types.Exam, error)
	GetExam(ctx context.Context, userID, examID uuid.UUID) (*ExamDetail, error)
	GetExamStatus(ctx context.Context, userID, examID uuid.UUID) (*ExamStatusView, error)
}

type examService struct {
	db           *gorm.DB
	log          *logger.Logger
	examRepo     repos.ExamRepo
	questionRepo repos.ExamQuestionRepo
	answerRepo   repos.DiAnswerRepo
	versionRepo  repos.ExamVersionRepo
	bucket       gcp.BucketService
	n8nClient    n8n.Client
	statusCache  redisclient.StatusCache
}

func NewExamService(
	db *gorm.DB,
	baseLog *logger.Logger,
	examRepo repos.ExamRepo,
	questionRepo repos.ExamQuestionRepo,
	answerRepo repos.DiAnswerRepo,
	versionRepo repos.ExamVersionRepo,
	bucket gcp.BucketService,
	n8nClient n8n.Client,
	statusCache redisclient.StatusCache,
) ExamService {
	serviceLog := baseLog.With("service", "ExamService")
	return &examService{
		db:           db,
		log:          serviceLog,
		examRepo:     examRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		versionRepo:  versionRepo,
		bucket:       bucket,
		n8nClient:    n8nClient,
		statusCache:  statusCache,
	}
}

// CreateExam runs the intake flow: insert the exam as UPLOADED, upload the
// PDF under {user_id}/{exam_id}/original.pdf, move to ANALYZING and dispatch
// the analyze job. If the upload fails the inserted row is deleted so no
// orphan exam survives. A dispatch failure is logged only; the exam stays in
// ANALYZING so the teacher can resubmit.
func (es *examService) CreateExam(ctx context.Context, userID uuid.UUID, userEmail string, in CreateExamInput) (*types.Exam, error) {
	if len(in.Conditions) == 0 {
		return nil, fmt.Errorf("%w: at least one condition is required", ErrValidation)
	}

	exam := &types.Exam{
		ID:               uuid.New(),
		UserID:           userID,
		Disciplina:       in.Disciplina,
		AnoSerie:         in.AnoSerie,
		HabilidadeHint:   in.HabilidadeHint,
		ConhecimentoHint: in.ConhecimentoHint,
		PdfBucket:        es.bucket.Name(),
		Conditions:       in.Conditions,
		Status:           types.ExamStatusUploaded,
	}
	if _, err := es.examRepo.Create(ctx, nil, []*types.Exam{exam}); err != nil {
		es.log.Error("failed to create exam row", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create exam: %w", err)
	}

	pdfPath := fmt.Sprintf("%s/%s/original.pdf", userID, exam.ID)
	if err := es.bucket.Upload(ctx, pdfPath, in.File, "application/pdf"); err != nil {
		es.log.Error("pdf upload failed, rolling back exam row", "exam_id", exam.ID, "error", err)
		if delErr := es.examRepo.FullDeleteByID(ctx, nil, exam.ID); delErr != nil {
			es.log.Error("rollback delete failed", "exam_id", exam.ID, "error", delErr)
		}
		return nil, fmt.Errorf("%w: upload pdf: %v", ErrStorageFailure, err)
	}

	if err := es.examRepo.UpdateFields(ctx, nil, exam.ID, map[string]interface{}{
		"pdf_path": pdfPath,
		"status":   types.ExamStatusAnalyzing,
	}); err != nil {
		es.log.Error("failed to update exam after upload", "exam_id", exam.ID, "error", err)
	}
	exam.PdfPath = pdfPath
	exam.Status = types.ExamStatusAnalyzing
	es.invalidateStatus(ctx, exam.ID)

	signedURL, err := es.bucket.SignedURL(pdfPath, signedURLTTL)
	if err != nil {
		es.log.Error("failed to sign pdf url for analyze dispatch", "exam_id", exam.ID, "error", err)
		return nil, fmt.Errorf("%w: sign pdf url: %v", ErrStorageFailure, err)
	}

	payload := n8n.AnalyzePayload{
		ExamID: exam.ID.String(),
		User:   n8n.UserRef{ID: userID.String(), Email: userEmail},
		Metadata: n8n.ExamMetadata{
			Disciplina:       exam.Disciplina,
			AnoSerie:         exam.AnoSerie,
			HabilidadeHint:   exam.HabilidadeHint,
			ConhecimentoHint: exam.ConhecimentoHint,
		},
		SelectedConditions: exam.Conditions,
		Pdf: n8n.PdfRef{
			StorageBucket: exam.PdfBucket,
			StoragePath:   pdfPath,
			SignedURL:     signedURL,
		},
	}

	ack, err := es.n8nClient.TriggerAnalyze(ctx, payload)
	if err != nil {
		es.log.Error("analyze dispatch failed, exam stays in ANALYZING", "exam_id", exam.ID, "error", err)
		return exam, nil
	}
	if err := es.examRepo.UpdateFields(ctx, nil, exam.ID, map[string]interface{}{
		"n8n_analysis_run_id": ack.RunID,
	}); err != nil {
		es.log.Warn("failed to record analysis run id", "exam_id", exam.ID, "error", err)
	}
	exam.AnalysisRunID = &ack.RunID
	return exam, nil
}

func (es *examService) ListExams(ctx context.Context, userID uuid.UUID, filter repos.ListExamsFilter) ([]*types.Exam, error) {
	exams, err := es.examRepo.ListForUser(ctx, nil, userID, filter)
	if err != nil {
		es.log.Error("failed to list exams", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

func (es *examService) GetExam(ctx context.Context, userID, examID uuid.UUID) (*ExamDetail, error) {
	exam, err := es.examRepo.GetByIDForUser(ctx, nil, examID, userID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam == nil {
		return nil, ErrNotFound
	}

	questions, err := es.questionRepo.GetByExamID(ctx, nil, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam questions: %w", err)
	}
	answers, err := es.answerRepo.GetByExamID(ctx, nil, examID)
	if err != nil {
		return nil, fmt.Errorf("get di answers: %w", err)
	}
	versions, err := es.versionRepo.GetByExamID(ctx, nil, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam versions: %w", err)
	}

	return &ExamDetail{
		Exam:      exam,
		Questions: questions,
		Answers:   answers,
		Versions:  versions,
	}, nil
}

// GetExamStatus is the polling read. It answers from the redis entry when one
// is present and owned by the caller, otherwise from the exam row, refreshing
// the cache on the way out.
func (es *examService) GetExamStatus(ctx context.Context, userID, examID uuid.UUID) (*ExamStatusView, error) {
	if es.statusCache != nil {
		if entry, ok := es.statusCache.Get(ctx, examID); ok && entry.UserID == userID {
			return &ExamStatusView{
				Status:  entry.Status,
				HasDI:   entry.HasDI,
				Stepper: ProjectSteps(entry.Status, entry.HasDI),
			}, nil
		}
	}

	exam, err := es.examRepo.GetByIDForUser(ctx, nil, examID, userID)
	if err != nil {
		return nil, fmt.Errorf("get exam status: %w", err)
	}
	if exam == nil {
		return nil, ErrNotFound
	}

	hasDI := exam.HasDI()
	if es.statusCache != nil {
		es.statusCache.Set(ctx, examID, redisclient.StatusEntry{
			UserID: userID,
			Status: exam.Status,
			HasDI:  hasDI,
		})
	}
	return &ExamStatusView{
		Status:  exam.Status,
		HasDI:   hasDI,
		Stepper: ProjectSteps(exam.Status, hasDI),
	}, nil
}

func (es *examService) invalidateStatus(ctx context.Context, examID uuid.UUID) {
	if es.statusCache != nil {
		es.statusCache.Invalidate(ctx, examID)
	}
}
