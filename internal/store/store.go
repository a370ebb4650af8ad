package store

import (
	"fmt"

	"github.com/aurum-app/aurum/internal/config"
	"github.com/aurum-app/aurum/internal/models"
	"github.com/aurum-app/aurum/pkg/logger"
)

// New creates the subscription repository selected by the configuration.
func New(cfg *config.Config, logger *logger.Logger) (models.SubscriptionRepository, error) {
	switch cfg.StoreBackend {
	case "file":
		return NewFileStore(cfg.StorePath, cfg.MaxSubscriptions, logger), nil
	case "bolt":
		return OpenBolt(cfg.StorePath, cfg.MaxSubscriptions, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
