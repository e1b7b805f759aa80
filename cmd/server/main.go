package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"swynk_messaging/internal/config"
	"swynk_messaging/internal/handler"
	"swynk_messaging/internal/middleware"
	"swynk_messaging/internal/registry"
	"swynk_messaging/internal/repository"
	"swynk_messaging/internal/service"
	"swynk_messaging/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	appLogger := logger.New(cfg.Log.Level)

	// Redis нужен только для ограничения частоты запросов
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			appLogger.Fatal("Failed to connect to Redis", "error", err)
		}
		appLogger.Info("Redis connection established")
	}

	// Хранилище живет в памяти процесса
	store := repository.NewMemoryStore(appLogger.With("component", "store"))
	if cfg.Store.SeedDemoData {
		passwordHash, err := service.HashPassword("password", cfg.Store.PasswordCost)
		if err != nil {
			appLogger.Fatal("Failed to hash demo password", "error", err)
		}
		if err := store.Seed(context.Background(), passwordHash); err != nil {
			appLogger.Fatal("Failed to seed demo data", "error", err)
		}
	}

	reg := registry.New()

	// Инициализация репозиториев
	repos := repository.NewRepositories(store, rdb, appLogger)

	// Инициализация сервисов
	services := service.NewServices(repos, reg, cfg, appLogger)

	// Инициализация middleware
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)

	// Инициализация handlers
	handlers := handler.NewHandlers(services, reg, cfg, appLogger)

	// Настройка роутера
	router := setupRouter(handlers, rateLimitMiddleware, cfg, appLogger)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		appLogger.Info("Starting server", "addr", srv.Addr, "ws_path", cfg.WebSocket.Path)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown не ждет hijacked WebSocket соединения, они закрываются вместе с процессом
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))

	// Health check
	router.GET("/health", handlers.Health.Check)

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.GET("", handlers.User.List)
			users.POST("", rateLimitMiddleware.Limit(), handlers.User.Register)
			users.GET("/:id", handlers.User.Get)
		}

		messages := api.Group("/messages")
		{
			messages.GET("/:senderId/:receiverId", handlers.Chat.GetMessages)
			messages.POST("", rateLimitMiddleware.Limit(), handlers.Chat.SendMessage)
			messages.POST("/:id/read", handlers.Chat.MarkAsRead)
		}

		conversations := api.Group("/conversations")
		{
			conversations.GET("/:userId", handlers.Chat.ListConversations)
			conversations.POST("", rateLimitMiddleware.Limit(), handlers.Chat.CreateConversation)
		}
	}

	// WebSocket endpoint чата
	router.GET(cfg.WebSocket.Path, handlers.WebSocket.Handle)

	return router
}
