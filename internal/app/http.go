package app

import (
	"github.com/gin-gonic/gin"

	"github.com/provadapt/provadapt-backend/internal/handlers"
	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/middleware"
	"github.com/provadapt/provadapt-backend/internal/server"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Exam     *handlers.ExamHandler
	Version  *handlers.VersionHandler
	Callback *handlers.CallbackHandler
}

type Middleware struct {
	Auth           *middleware.AuthMiddleware
	CallbackSecret *middleware.CallbackSecretMiddleware
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:     handlers.NewAuthHandler(serviceset.Auth),
		Exam:     handlers.NewExamHandler(serviceset.Exam, serviceset.DiAnswer),
		Version:  handlers.NewVersionHandler(serviceset.Rating),
		Callback: handlers.NewCallbackHandler(log, serviceset.Callback),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:           middleware.NewAuthMiddleware(log, serviceset.Auth),
		CallbackSecret: middleware.NewCallbackSecretMiddleware(log, cfg.CallbackSecret),
	}
}

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:        handlerset.Auth,
		ExamHandler:        handlerset.Exam,
		VersionHandler:     handlerset.Version,
		CallbackHandler:    handlerset.Callback,
		AuthMiddleware:     middlewareset.Auth,
		CallbackMiddleware: middlewareset.CallbackSecret,
		AllowedOrigins:     cfg.AllowedOrigins,
	})
}
