package handler

import (
	"swynk_messaging/internal/config"
	"swynk_messaging/internal/registry"
	"swynk_messaging/internal/service"
	"swynk_messaging/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	User      *UserHandler
	Chat      *ChatHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, reg *registry.Registry, cfg *config.Config, log logger.Logger) *Handlers {
	registerJSONTagNames()

	return &Handlers{
		Health:    NewHealthHandler(reg),
		User:      NewUserHandler(services.User, log),
		Chat:      NewChatHandler(services.Chat, log),
		WebSocket: NewWebSocketHandler(services.Relay, cfg.WebSocket, log.With("component", "websocket")),
	}
}
