package app

import (
	"github.com/provadapt/provadapt-backend/internal/clients/gcp"
	"github.com/provadapt/provadapt-backend/internal/clients/n8n"
	redisclient "github.com/provadapt/provadapt-backend/internal/clients/redis"
	"github.com/provadapt/provadapt-backend/internal/logger"
)

type Clients struct {
	Bucket      gcp.BucketService
	N8n         n8n.Client
	StatusCache redisclient.StatusCache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		return Clients{}, err
	}
	n8nClient, err := n8n.NewClient(log)
	if err != nil {
		return Clients{}, err
	}

	// The status cache is optional; a missing Redis only costs read speed.
	var statusCache redisclient.StatusCache
	if cfg.RedisAddr != "" {
		statusCache, err = redisclient.NewStatusCache(log)
		if err != nil {
			log.Warn("Could not init status cache, continuing without it", "error", err)
			statusCache = nil
		}
	}

	return Clients{
		Bucket:      bucketService,
		N8n:         n8nClient,
		StatusCache: statusCache,
	}, nil
}
