package app

import (
	"github.com/stackcare/stackcare-backend/internal/pkg/env"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
)

type Config struct {
	Port             string
	Environment      string
	Version          string
	ResolverStrategy string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:             env.Get("PORT", "8080", log),
		Environment:      env.Get("APP_ENV", "development", log),
		Version:          env.Get("APP_VERSION", "dev", log),
		ResolverStrategy: env.Get("RESOLVER_STRATEGY", "exact", log),
	}
}
