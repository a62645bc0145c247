package services_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/provadapt/provadapt-backend/internal/clients/n8n"
	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/repos"
	"github.com/provadapt/provadapt-backend/internal/repos/testutil"
	"github.com/provadapt/provadapt-backend/internal/services"
	"github.com/provadapt/provadapt-backend/internal/types"
)

type fakeBucket struct {
	uploadErr error
	signErr   error
	uploads   []string
}

func (f *fakeBucket) Name() string { return "test-bucket" }

func (f *fakeBucket) Upload(ctx context.Context, key string, file io.Reader, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, key)
	return nil
}

func (f *fakeBucket) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeBucket) SignedURL(key string, ttl time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://signed.example/" + key, nil
}

type fakeN8nClient struct {
	analyzeErr  error
	generateErr error
	analyzed    []n8n.AnalyzePayload
	generated   []n8n.GeneratePayload
}

func (f *fakeN8nClient) TriggerAnalyze(ctx context.Context, payload n8n.AnalyzePayload) (n8n.AckResponse, error) {
	if f.analyzeErr != nil {
		return n8n.AckResponse{}, f.analyzeErr
	}
	f.analyzed = append(f.analyzed, payload)
	return n8n.AckResponse{Accepted: true, ExamID: payload.ExamID, RunID: "run-analyze-1"}, nil
}

func (f *fakeN8nClient) TriggerGenerate(ctx context.Context, payload n8n.GeneratePayload) (n8n.AckResponse, error) {
	if f.generateErr != nil {
		return n8n.AckResponse{}, f.generateErr
	}
	f.generated = append(f.generated, payload)
	return n8n.AckResponse{Accepted: true, ExamID: payload.ExamID, RunID: "run-generate-1"}, nil
}

func (f *fakeN8nClient) CallbackRef() n8n.CallbackRef {
	return n8n.CallbackRef{URL: "http://localhost/api/n8n/callback", SecretHeaderName: n8n.CallbackSecretHeader}
}

var errBoom = errors.New("boom")

type testEnv struct {
	db     *gorm.DB
	log    *logger.Logger
	bucket *fakeBucket
	n8n    *fakeN8nClient

	userRepo     repos.UserRepo
	examRepo     repos.ExamRepo
	questionRepo repos.ExamQuestionRepo
	answerRepo   repos.DiAnswerRepo
	versionRepo  repos.ExamVersionRepo
	ratingRepo   repos.VersionRatingRepo

	examService     services.ExamService
	callbackService services.CallbackService
	diAnswerService services.DiAnswerService
	ratingService   services.RatingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger(t)
	bucket := &fakeBucket{}
	n8nClient := &fakeN8nClient{}

	env := &testEnv{
		db:           db,
		log:          log,
		bucket:       bucket,
		n8n:          n8nClient,
		userRepo:     repos.NewUserRepo(db, log),
		examRepo:     repos.NewExamRepo(db, log),
		questionRepo: repos.NewExamQuestionRepo(db, log),
		answerRepo:   repos.NewDiAnswerRepo(db, log),
		versionRepo:  repos.NewExamVersionRepo(db, log),
		ratingRepo:   repos.NewVersionRatingRepo(db, log),
	}
	env.examService = services.NewExamService(db, log, env.examRepo, env.questionRepo, env.answerRepo, env.versionRepo, bucket, n8nClient, nil)
	env.callbackService = services.NewCallbackService(db, log, env.examRepo, env.questionRepo, env.userRepo, env.versionRepo, bucket, n8nClient, nil)
	env.diAnswerService = services.NewDiAnswerService(db, log, env.examRepo, env.questionRepo, env.answerRepo, bucket, n8nClient, nil)
	env.ratingService = services.NewRatingService(db, log, env.versionRepo, env.ratingRepo)
	return env
}

func (env *testEnv) seedUser(t *testing.T) *types.User {
	t.Helper()
	now := time.Now().UTC()
	user := &types.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@escola.example",
		Name:         "Professora Ana",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env *testEnv) seedExam(t *testing.T, userID uuid.UUID, status types.ExamStatus, conditions []types.Condition) *types.Exam {
	t.Helper()
	now := time.Now().UTC()
	exam := &types.Exam{
		ID:         uuid.New(),
		UserID:     userID,
		Disciplina: "Matemática",
		AnoSerie:   "6º ano",
		PdfBucket:  "test-bucket",
		PdfPath:    userID.String() + "/exam/original.pdf",
		Conditions: conditions,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, env.db.Create(exam).Error)
	return exam
}

func (env *testEnv) seedQuestion(t *testing.T, examID uuid.UUID, order int, needsAnswer bool) *types.ExamQuestion {
	t.Helper()
	question := &types.ExamQuestion{
		ID:         uuid.New(),
		ExamID:     examID,
		OrderIndex: order,
		Prompt:     "Quanto é 2 + 2?",
		Options: []types.QuestionOption{
			{Key: "A", Text: "3"},
			{Key: "B", Text: "4"},
			{Key: "C", Text: "5"},
		},
		QuestionType:  "objective",
		NeedsDiAnswer: needsAnswer,
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, env.db.Create(question).Error)
	return question
}

func (env *testEnv) examStatus(t *testing.T, examID uuid.UUID) types.ExamStatus {
	t.Helper()
	exam, err := env.examRepo.GetByID(context.Background(), nil, examID)
	require.NoError(t, err)
	require.NotNil(t, exam)
	return exam.Status
}
