package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/provadapt/provadapt-backend/internal/handlers"
	"github.com/provadapt/provadapt-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	ExamHandler        *handlers.ExamHandler
	VersionHandler     *handlers.VersionHandler
	CallbackHandler    *handlers.CallbackHandler
	AuthMiddleware     *middleware.AuthMiddleware
	CallbackMiddleware *middleware.CallbackSecretMiddleware
	AllowedOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("provadapt-backend"))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)

		n8n := api.Group("/n8n")
		n8n.Use(cfg.CallbackMiddleware.RequireSecret())
		n8n.POST("/callback", cfg.CallbackHandler.Handle)

		protected := api.Group("/")
		protected.Use(cfg.AuthMiddleware.RequireAuth())
		protected.POST("/exams", cfg.ExamHandler.Create)
		protected.GET("/exams", cfg.ExamHandler.List)
		protected.GET("/exams/:id", cfg.ExamHandler.Get)
		protected.GET("/exams/:id/status", cfg.ExamHandler.GetStatus)
		protected.POST("/exams/:id/di-answers", cfg.ExamHandler.SubmitAnswers)
		protected.POST("/versions/:id/rating", cfg.VersionHandler.Rate)
	}

	return router
}
