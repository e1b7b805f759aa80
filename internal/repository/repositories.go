package repository

import (
	"github.com/redis/go-redis/v9"
	"swynk_messaging/pkg/logger"
)

type Repositories struct {
	Store     *MemoryStore
	RateLimit RateLimitRepository
}

// NewRepositories собирает репозитории. Без Redis ограничение частоты отключено.
func NewRepositories(store *MemoryStore, rdb *redis.Client, log logger.Logger) *Repositories {
	repos := &Repositories{
		Store: store,
	}

	if rdb != nil {
		repos.RateLimit = NewRateLimitRepository(rdb, log)
		log.Info("RateLimit repository initialized")
	} else {
		log.Warn("Redis client is nil, rate limiting disabled")
	}

	return repos
}
