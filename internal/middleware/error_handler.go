package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "swynk_messaging/pkg/errors"
	"swynk_messaging/pkg/logger"
)

// ErrorHandler превращает ошибки из c.Error в JSON ответ {error[, details]}
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		statusCode := apperrors.HTTPStatusFromError(err)

		var apiErr *apperrors.APIError
		switch {
		case errors.As(err, &apiErr):
			c.JSON(statusCode, apiErr)
		case statusCode == http.StatusInternalServerError:
			// внутренние детали клиенту не отдаем
			log.Error("Request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
			c.JSON(statusCode, gin.H{"error": apperrors.ErrInternalServer.Error()})
		default:
			c.JSON(statusCode, gin.H{"error": err.Error()})
		}
	}
}
