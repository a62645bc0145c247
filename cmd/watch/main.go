package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	redisclient "github.com/provadapt/provadapt-backend/internal/clients/redis"
	"github.com/provadapt/provadapt-backend/internal/db"
	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/poll"
	"github.com/provadapt/provadapt-backend/internal/repos"
	"github.com/provadapt/provadapt-backend/internal/services"
)

// watch follows one or more exams from the terminal until every one of them
// reaches a settled status. Operator tool; reads straight from the database.
//
//	watch -user <user-id> [-interval 3s] <exam-id> [exam-id...]
func main() {
	userFlag := flag.String("user", "", "owner user id")
	interval := flag.Duration("interval", 3*time.Second, "poll interval")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		log.Fatal("a valid -user id is required")
	}
	if flag.NArg() == 0 {
		log.Fatal("at least one exam id is required")
	}
	examIDs := make([]uuid.UUID, 0, flag.NArg())
	for _, arg := range flag.Args() {
		id, err := uuid.Parse(arg)
		if err != nil {
			log.Fatal("invalid exam id", "arg", arg)
		}
		examIDs = append(examIDs, id)
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	thePG := postgresService.DB()

	examRepo := repos.NewExamRepo(thePG, log)
	examQuestionRepo := repos.NewExamQuestionRepo(thePG, log)
	diAnswerRepo := repos.NewDiAnswerRepo(thePG, log)
	examVersionRepo := repos.NewExamVersionRepo(thePG, log)

	var statusCache redisclient.StatusCache
	if cache, err := redisclient.NewStatusCache(log); err == nil {
		statusCache = cache
	}

	// Status reads never touch storage or the workflow engine.
	examService := services.NewExamService(thePG, log, examRepo, examQuestionRepo, diAnswerRepo, examVersionRepo, nil, nil, statusCache)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	for _, examID := range examIDs {
		examID := examID
		group.Go(func() error {
			poller := poll.NewStatusPoller(log, examService, *interval, userID, examID,
				func(view *services.ExamStatusView) {
					fmt.Printf("%s  %s  step %d/%d\n",
						examID, view.Status, view.Stepper.CurrentIndex+1, len(view.Stepper.Steps))
				})
			poller.Start(ctx)
			select {
			case <-poller.Done():
			case <-ctx.Done():
				poller.Stop()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		log.Error("watch failed", "error", err)
		os.Exit(1)
	}
}
