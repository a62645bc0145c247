package app

import (
	"strings"

	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/utils"
)

type Config struct {
	Port           string
	Environment    string
	Version        string
	CallbackSecret string
	RedisAddr      string
	AllowedOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	var origins []string
	if raw := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	return Config{
		Port:           utils.GetEnv("PORT", "8080", log),
		Environment:    utils.GetEnv("APP_ENV", "development", log),
		Version:        utils.GetEnv("APP_VERSION", "dev", log),
		CallbackSecret: utils.GetEnv("N8N_TO_APP_SECRET", "", log),
		RedisAddr:      utils.GetEnv("REDIS_ADDR", "", log),
		AllowedOrigins: origins,
	}
}
