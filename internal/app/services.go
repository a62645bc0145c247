package app

import (
	"gorm.io/gorm"

	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Exam     services.ExamService
	DiAnswer services.DiAnswerService
	Callback services.CallbackService
	Rating   services.RatingService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Auth: services.NewAuthService(db, log, reposet.User),
		Exam: services.NewExamService(db, log, reposet.Exam, reposet.ExamQuestion,
			reposet.DiAnswer, reposet.ExamVersion, clients.Bucket, clients.N8n, clients.StatusCache),
		DiAnswer: services.NewDiAnswerService(db, log, reposet.Exam, reposet.ExamQuestion,
			reposet.DiAnswer, clients.Bucket, clients.N8n, clients.StatusCache),
		Callback: services.NewCallbackService(db, log, reposet.Exam, reposet.ExamQuestion,
			reposet.User, reposet.ExamVersion, clients.Bucket, clients.N8n, clients.StatusCache),
		Rating: services.NewRatingService(db, log, reposet.ExamVersion, reposet.VersionRating),
	}
}
