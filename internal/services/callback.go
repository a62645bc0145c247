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

// CallbackService applies n8n results to exams. Callbacks are authenticated
// upstream by the shared-secret middleware; here they are trusted input.
type CallbackService interface {
	HandleAnalyzeResult(ctx context.Context, result n8n.AnalyzeResult) error
	HandleGenerateResult(ctx context.Context, result n8n.GenerateResult) error
}

type callbackService struct {
	db           *gorm.DB
	log          *logger.Logger
	examRepo     repos.ExamRepo
	questionRepo repos.ExamQuestionRepo
	userRepo     repos.UserRepo
	versionRepo  repos.ExamVersionRepo
	statusCache  redisclient.StatusCache
	dispatcher   *generateDispatcher
}

func NewCallbackService(
	db *gorm.DB,
	baseLog *logger.Logger,
	examRepo repos.ExamRepo,
	questionRepo repos.ExamQuestionRepo,
	userRepo repos.UserRepo,
	versionRepo repos.ExamVersionRepo,
	bucket gcp.BucketService,
	n8nClient n8n.Client,
	statusCache redisclient.StatusCache,
) CallbackService {
	serviceLog := baseLog.With("service", "CallbackService")
	return &callbackService{
		db:           db,
		log:          serviceLog,
		examRepo:     examRepo,
		questionRepo: questionRepo,
		userRepo:     userRepo,
		versionRepo:  versionRepo,
		statusCache:  statusCache,
		dispatcher: &generateDispatcher{
			log:       serviceLog,
			examRepo:  examRepo,
			bucket:    bucket,
			n8nClient: n8nClient,
		},
	}
}

// HandleAnalyzeResult records the BNCC/Bloom classification and extracted
// questions, then either parks the exam for answer-key input or dispatches
// generation right away. An exam whose conditions include DI always waits for
// the teacher, even when extraction found no objective questions.
func (cs *callbackService) HandleAnalyzeResult(ctx context.Context, result n8n.AnalyzeResult) error {
	examID, err := uuid.Parse(result.ExamID)
	if err != nil {
		return fmt.Errorf("%w: invalid exam_id %q", ErrValidation, result.ExamID)
	}
	exam, err := cs.examRepo.GetByID(ctx, nil, examID)
	if err != nil {
		return fmt.Errorf("load exam for analyze result: %w", err)
	}
	if exam == nil {
		return ErrNotFound
	}
	if exam.Status != types.ExamStatusAnalyzing {
		cs.log.Warn("analyze result for exam not in ANALYZING, ignoring",
			"exam_id", examID, "status", exam.Status)
		return fmt.Errorf("%w: exam is %s", ErrInvalidStatus, exam.Status)
	}

	if result.Status == n8n.StatusError {
		cs.log.Error("analyze run reported failure", "exam_id", examID, "error", result.ErrorMessage)
		return cs.markFailed(ctx, examID)
	}
	for _, warning := range result.Warnings {
		cs.log.Warn("analyze run warning",
			"exam_id", examID, "code", warning.Code, "message", warning.Message)
	}

	fields := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if result.Bncc != nil {
		fields["bncc_code"] = result.Bncc.Code
		fields["bncc_description"] = result.Bncc.Description
		fields["bncc_confidence"] = result.Bncc.Confidence
	}
	if result.Bloom != nil {
		fields["bloom_level"] = result.Bloom.Level
		fields["bloom_confidence"] = result.Bloom.Confidence
	}
	if result.Reports != nil {
		if result.Reports.BnccBloomReportMd != nil {
			fields["bncc_bloom_report"] = result.Reports.BnccBloomReportMd
		}
		if result.Reports.EmentaReportMd != nil {
			fields["ementa_report"] = result.Reports.EmentaReportMd
		}
	}

	var extracted []n8n.ExtractedQuestion
	if result.Extracted != nil {
		extracted = result.Extracted.ObjectiveQuestions
	}
	hasDI := exam.HasDI()
	questions := make([]*types.ExamQuestion, 0, len(extracted))
	now := time.Now().UTC()
	for _, q := range extracted {
		questions = append(questions, &types.ExamQuestion{
			ID:            questionID(q.QuestionID),
			ExamID:        examID,
			OrderIndex:    q.Order,
			Prompt:        q.Prompt,
			Options:       q.Options,
			QuestionType:  "objective",
			NeedsDiAnswer: hasDI,
			CreatedAt:     now,
		})
	}
	if len(questions) > 0 {
		if err := cs.questionRepo.Upsert(ctx, nil, questions); err != nil {
			return fmt.Errorf("upsert extracted questions: %w", err)
		}
	}

	if hasDI {
		fields["status"] = types.ExamStatusWaitingDIInput
		if err := cs.examRepo.UpdateFields(ctx, nil, examID, fields); err != nil {
			return fmt.Errorf("park exam for answer key: %w", err)
		}
		cs.invalidateStatus(ctx, examID)
		cs.log.Info("exam waiting for answer key", "exam_id", examID, "questions", len(questions))
		return nil
	}

	fields["status"] = types.ExamStatusGenerating
	if err := cs.examRepo.UpdateFields(ctx, nil, examID, fields); err != nil {
		return fmt.Errorf("move exam to generating: %w", err)
	}
	cs.invalidateStatus(ctx, examID)

	exam, err = cs.examRepo.GetByID(ctx, nil, examID)
	if err != nil || exam == nil {
		return fmt.Errorf("reload exam for generate dispatch: %w", err)
	}
	owner, err := cs.userRepo.GetByID(ctx, nil, exam.UserID)
	if err != nil || owner == nil {
		return fmt.Errorf("load exam owner: %w", err)
	}
	if err := cs.dispatcher.dispatchGenerate(ctx, exam, owner.Email, nil); err != nil {
		cs.log.Error("auto-dispatch could not sign pdf url, failing exam",
			"exam_id", examID, "error", err)
		return cs.markFailed(ctx, examID)
	}
	return nil
}

// HandleGenerateResult upserts one version row per condition and settles the
// terminal status: READY when every returned version is usable, PARTIAL_READY
// otherwise. A result with no versions is acked but changes nothing.
func (cs *callbackService) HandleGenerateResult(ctx context.Context, result n8n.GenerateResult) error {
	examID, err := uuid.Parse(result.ExamID)
	if err != nil {
		return fmt.Errorf("%w: invalid exam_id %q", ErrValidation, result.ExamID)
	}
	exam, err := cs.examRepo.GetByID(ctx, nil, examID)
	if err != nil {
		return fmt.Errorf("load exam for generate result: %w", err)
	}
	if exam == nil {
		return ErrNotFound
	}
	// Redeliveries after the exam settled re-apply the upsert; anything else
	// (still analyzing, waiting for the answer key, failed) is rejected.
	switch exam.Status {
	case types.ExamStatusGenerating, types.ExamStatusReady, types.ExamStatusPartialReady:
	default:
		cs.log.Warn("generate result for exam in unexpected status, ignoring",
			"exam_id", examID, "status", exam.Status)
		return fmt.Errorf("%w: exam is %s", ErrInvalidStatus, exam.Status)
	}

	if result.Status == n8n.StatusError {
		cs.log.Error("generate run reported failure", "exam_id", examID, "error", result.ErrorMessage)
		return cs.markFailed(ctx, examID)
	}

	if len(result.Versions) == 0 {
		cs.log.Warn("generate result carries no versions, leaving exam untouched", "exam_id", examID)
		return nil
	}

	now := time.Now().UTC()
	versions := make([]*types.ExamVersion, 0, len(result.Versions))
	allReady := true
	for _, v := range result.Versions {
		if !v.Condition.Valid() {
			// No row to store it under, but it still counts against a full
			// READY: one of the returned versions is unusable.
			cs.log.Warn("generate result carries unknown condition, skipping",
				"exam_id", examID, "condition", v.Condition)
			allReady = false
			continue
		}
		version := &types.ExamVersion{
			ID:           uuid.New(),
			ExamID:       examID,
			Condition:    v.Condition,
			Status:       versionStatus(v),
			GoogleDocID:  v.GoogleDocID,
			GoogleDocURL: v.GoogleDocURL,
			Limitations:  v.Limitations,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if result.Qa != nil {
			version.QaStatus = &result.Qa.Status
			version.QaScore = result.Qa.Score
			version.QaIssues = result.Qa.Issues
		}
		versions = append(versions, version)
		if version.Status != types.VersionStatusReady {
			allReady = false
		}
	}

	if len(versions) > 0 {
		if err := cs.versionRepo.Upsert(ctx, nil, versions); err != nil {
			return fmt.Errorf("upsert exam versions: %w", err)
		}
	}

	finalStatus := types.ExamStatusReady
	if !allReady {
		finalStatus = types.ExamStatusPartialReady
	}

	if err := cs.examRepo.UpdateFields(ctx, nil, examID, map[string]interface{}{
		"status":     finalStatus,
		"updated_at": now,
	}); err != nil {
		return fmt.Errorf("settle exam status: %w", err)
	}
	cs.invalidateStatus(ctx, examID)
	cs.log.Info("generate result applied",
		"exam_id", examID, "status", finalStatus, "versions", len(versions))
	return nil
}

func (cs *callbackService) markFailed(ctx context.Context, examID uuid.UUID) error {
	if err := cs.examRepo.UpdateFields(ctx, nil, examID, map[string]interface{}{
		"status":     types.ExamStatusFailed,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("mark exam failed: %w", err)
	}
	cs.invalidateStatus(ctx, examID)
	return nil
}

func (cs *callbackService) invalidateStatus(ctx context.Context, examID uuid.UUID) {
	if cs.statusCache != nil {
		cs.statusCache.Invalidate(ctx, examID)
	}
}

// questionID keeps the workflow-assigned id when it is a UUID so answer keys
// round-trip to n8n unchanged, and mints one otherwise.
func questionID(raw string) uuid.UUID {
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	return uuid.New()
}

func versionStatus(v n8n.VersionResult) types.VersionStatus {
	if v.Status != "" {
		return v.Status
	}
	switch {
	case v.GoogleDocURL == nil:
		return types.VersionStatusFailed
	case len(v.Limitations) > 0:
		return types.VersionStatusPartial
	default:
		return types.VersionStatusReady
	}
}
