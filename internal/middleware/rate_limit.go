package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"swynk_messaging/internal/service"
	apperrors "swynk_messaging/pkg/errors"
	"swynk_messaging/pkg/logger"
)

type RateLimitMiddleware struct {
	rateLimitService service.RateLimitService
	log              logger.Logger
}

// NewRateLimitMiddleware принимает nil сервис: тогда Limit пропускает все запросы
func NewRateLimitMiddleware(rateLimitService service.RateLimitService, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		log:              log,
	}
}

func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.rateLimitService == nil {
			c.Next()
			return
		}

		allowed, remaining, err := m.rateLimitService.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Redis недоступен: запрос пропускаем, чтобы не ронять API
			m.log.Error("Rate limit check failed", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(m.rateLimitService.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": apperrors.ErrRateLimited.Error()})
			return
		}

		c.Next()
	}
}
