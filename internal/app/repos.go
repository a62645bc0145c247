package app

import (
	"gorm.io/gorm"

	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/repos"
)

type Repos struct {
	User          repos.UserRepo
	Exam          repos.ExamRepo
	ExamQuestion  repos.ExamQuestionRepo
	DiAnswer      repos.DiAnswerRepo
	ExamVersion   repos.ExamVersionRepo
	VersionRating repos.VersionRatingRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		Exam:          repos.NewExamRepo(db, log),
		ExamQuestion:  repos.NewExamQuestionRepo(db, log),
		DiAnswer:      repos.NewDiAnswerRepo(db, log),
		ExamVersion:   repos.NewExamVersionRepo(db, log),
		VersionRating: repos.NewVersionRatingRepo(db, log),
	}
}
