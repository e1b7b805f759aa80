package service

import (
	"swynk_messaging/internal/config"
	"swynk_messaging/internal/registry"
	"swynk_messaging/internal/repository"
	"swynk_messaging/pkg/logger"
)

type Services struct {
	User      UserService
	Chat      ChatService
	Relay     *Relay
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, reg *registry.Registry, cfg *config.Config, log logger.Logger) *Services {
	services := &Services{
		User:  NewUserService(repos.Store, cfg.Store.PasswordCost, log),
		Chat:  NewChatService(repos.Store, log),
		Relay: NewRelay(repos.Store, reg, log.With("component", "relay")),
	}

	// Ограничение частоты работает только при наличии Redis
	if repos.RateLimit != nil {
		services.RateLimit = NewRateLimitService(repos.RateLimit, cfg.RateLimit, log)
		log.Info("RateLimit service initialized", "requests", cfg.RateLimit.Requests, "window", cfg.RateLimit.Window.String())
	}

	return services
}
