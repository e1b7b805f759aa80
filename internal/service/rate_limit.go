package service

import (
	"context"

	"swynk_messaging/internal/config"
	"swynk_messaging/internal/repository"
	"swynk_messaging/pkg/logger"
)

type RateLimitService interface {
	// Allow регистрирует запрос и сообщает, укладывается ли он в лимит
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

type rateLimitService struct {
	rateLimitRepo repository.RateLimitRepository
	cfg           config.RateLimitConfig
	log           logger.Logger
}

func NewRateLimitService(rateLimitRepo repository.RateLimitRepository, cfg config.RateLimitConfig, log logger.Logger) RateLimitService {
	return &rateLimitService{
		rateLimitRepo: rateLimitRepo,
		cfg:           cfg,
		log:           log,
	}
}

func (s *rateLimitService) Allow(ctx context.Context, key string) (bool, int, error) {
	count, err := s.rateLimitRepo.Hit(ctx, key, s.cfg.Window)
	if err != nil {
		return false, 0, err
	}

	remaining := s.cfg.Requests - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= s.cfg.Requests, remaining, nil
}

func (s *rateLimitService) Limit() int {
	return s.cfg.Requests
}
