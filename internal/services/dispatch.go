package services

import (
	"context"
	"fmt"
	"time"

	"github.com/provadapt/provadapt-backend/internal/clients/gcp"
	"github.com/provadapt/provadapt-backend/internal/clients/n8n"
	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/repos"
	"github.com/provadapt/provadapt-backend/internal/types"
)

const signedURLTTL = time.Hour

// generateDispatcher builds and sends the generate job. Shared between the
// analyze-callback auto-dispatch and the answer-key submission path.
type generateDispatcher struct {
	log       *logger.Logger
	examRepo  repos.ExamRepo
	bucket    gcp.BucketService
	n8nClient n8n.Client
}

// dispatchGenerate re-derives a signed URL for the stored PDF and triggers
// the generate webhook. A signing failure is returned (wrapped in
// ErrStorageFailure) so callers can decide how hard to fail. A dispatch
// failure is logged only; the exam stays in GENERATING and the operator or
// teacher retries by resubmitting.
func (d *generateDispatcher) dispatchGenerate(ctx context.Context, exam *types.Exam, userEmail string, answers []n8n.DiAnswerRef) error {
	signedURL, err := d.bucket.SignedURL(exam.PdfPath, signedURLTTL)
	if err != nil {
		return fmt.Errorf("%w: sign pdf url: %v", ErrStorageFailure, err)
	}

	payload := n8n.GeneratePayload{
		ExamID:             exam.ID.String(),
		User:               n8n.UserRef{Email: userEmail},
		SelectedConditions: exam.Conditions,
		Metadata: n8n.ExamMetadata{
			Disciplina:       exam.Disciplina,
			AnoSerie:         exam.AnoSerie,
			HabilidadeHint:   exam.HabilidadeHint,
			ConhecimentoHint: exam.ConhecimentoHint,
		},
		DiAnswers: answers,
		Pdf:       n8n.PdfRef{SignedURL: signedURL},
	}
	if exam.BnccCode != nil {
		payload.Bncc = &n8n.BnccRef{Code: *exam.BnccCode, Description: exam.BnccDescription}
	}
	if exam.BloomLevel != nil {
		payload.Bloom = &n8n.BloomRef{Level: *exam.BloomLevel}
	}

	ack, err := d.n8nClient.TriggerGenerate(ctx, payload)
	if err != nil {
		d.log.Error("generate dispatch failed, exam stays in GENERATING", "exam_id", exam.ID, "error", err)
		return nil
	}

	if err := d.examRepo.UpdateFields(ctx, nil, exam.ID, map[string]interface{}{
		"n8n_generate_run_id": ack.RunID,
	}); err != nil {
		d.log.Warn("failed to record generate run id", "exam_id", exam.ID, "error", err)
	}
	return nil
}
