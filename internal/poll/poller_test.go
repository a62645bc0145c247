package poll_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/poll"
	"github.com/provadapt/provadapt-backend/internal/repos"
	"github.com/provadapt/provadapt-backend/internal/services"
	"github.com/provadapt/provadapt-backend/internal/types"
)

// scriptedStatusService serves a fixed sequence of statuses, repeating the
// last one once the script runs out.
type scriptedStatusService struct {
	mu       sync.Mutex
	script   []types.ExamStatus
	hasDI    bool
	requests int
}

func (s *scriptedStatusService) GetExamStatus(ctx context.Context, userID, examID uuid.UUID) (*services.ExamStatusView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.requests
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	s.requests++
	status := s.script[idx]
	return &services.ExamStatusView{
		Status:  status,
		HasDI:   s.hasDI,
		Stepper: services.ProjectSteps(status, s.hasDI),
	}, nil
}

func (s *scriptedStatusService) CreateExam(ctx context.Context, userID uuid.UUID, userEmail string, in services.CreateExamInput) (*types.Exam, error) {
	return nil, nil
}

func (s *scriptedStatusService) ListExams(ctx context.Context, userID uuid.UUID, filter repos.ListExamsFilter) ([]*types.Exam, error) {
	return nil, nil
}

func (s *scriptedStatusService) GetExam(ctx context.Context, userID, examID uuid.UUID) (*services.ExamDetail, error) {
	return nil, services.ErrNotFound
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	return log
}

func TestPollerStopsOnTerminalStatus(t *testing.T) {
	service := &scriptedStatusService{
		script: []types.ExamStatus{
			types.ExamStatusAnalyzing,
			types.ExamStatusGenerating,
			types.ExamStatusReady,
		},
	}
	var seen []types.ExamStatus
	var mu sync.Mutex

	poller := poll.NewStatusPoller(newTestLogger(t), service, 5*time.Millisecond, uuid.New(), uuid.New(),
		func(view *services.ExamStatusView) {
			mu.Lock()
			seen = append(seen, view.Status)
			mu.Unlock()
		})
	poller.Start(context.Background())

	select {
	case <-poller.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on terminal status")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	assert.Equal(t, types.ExamStatusReady, seen[len(seen)-1])
}

func TestPollerStopsOnInputRequiredStatus(t *testing.T) {
	service := &scriptedStatusService{
		script: []types.ExamStatus{types.ExamStatusWaitingDIInput},
		hasDI:  true,
	}
	poller := poll.NewStatusPoller(newTestLogger(t), service, 5*time.Millisecond, uuid.New(), uuid.New(), nil)
	poller.Start(context.Background())

	select {
	case <-poller.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on input-required status")
	}
	assert.Equal(t, 1, service.requests, "first poll already settles")
}

func TestPollerStopTearsDown(t *testing.T) {
	service := &scriptedStatusService{
		script: []types.ExamStatus{types.ExamStatusAnalyzing},
	}
	poller := poll.NewStatusPoller(newTestLogger(t), service, time.Hour, uuid.New(), uuid.New(), nil)
	poller.Start(context.Background())

	done := make(chan struct{})
	go func() {
		poller.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	// Safe to call again.
	poller.Stop()
}

func TestPollerStopWithoutStartReturns(t *testing.T) {
	service := &scriptedStatusService{
		script: []types.ExamStatus{types.ExamStatusAnalyzing},
	}
	poller := poll.NewStatusPoller(newTestLogger(t), service, time.Hour, uuid.New(), uuid.New(), nil)

	done := make(chan struct{})
	go func() {
		poller.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop without Start did not return")
	}
	assert.Equal(t, 0, service.requests)
}
