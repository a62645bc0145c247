package poll

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/services"
)

// StatusPoller watches one exam on a fixed interval. It stops itself once the
// exam reaches a terminal or input-required status, and can be torn down
// early with Stop. One poller per exam; no ambient singletons.
type StatusPoller struct {
	log      *logger.Logger
	service  services.ExamService
	interval time.Duration
	userID   uuid.UUID
	examID   uuid.UUID
	onUpdate func(*services.ExamStatusView)

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

func NewStatusPoller(
	baseLog *logger.Logger,
	service services.ExamService,
	interval time.Duration,
	userID, examID uuid.UUID,
	onUpdate func(*services.ExamStatusView),
) *StatusPoller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &StatusPoller{
		log:      baseLog.With("poller", examID.String()),
		service:  service,
		interval: interval,
		userID:   userID,
		examID:   examID,
		onUpdate: onUpdate,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins polling in a background goroutine. A poll error is logged and
// the next tick proceeds; there is no backoff.
func (p *StatusPoller) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		go p.run(ctx)
	})
}

// Stop tears the poller down and waits for the loop to exit. Safe to call
// more than once and after self-stop.
func (p *StatusPoller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	// If Start never ran there is no loop to close done.
	p.startOnce.Do(func() {
		close(p.done)
	})
	<-p.done
}

// Done is closed when the loop has exited, whether by Stop, context
// cancellation or reaching a settled status.
func (p *StatusPoller) Done() <-chan struct{} {
	return p.done
}

func (p *StatusPoller) run(ctx context.Context) {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	if p.poll(ctx) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			if p.poll(ctx) {
				return
			}
		}
	}
}

// poll fetches the status once and reports whether polling should end.
func (p *StatusPoller) poll(ctx context.Context) bool {
	view, err := p.service.GetExamStatus(ctx, p.userID, p.examID)
	if err != nil {
		p.log.Warn("status poll failed", "error", err)
		return false
	}
	if p.onUpdate != nil {
		p.onUpdate(view)
	}
	if view.Status.IsTerminal() || view.Status.RequiresInput() {
		p.log.Info("polling stopped", "status", view.Status)
		return true
	}
	return false
}
