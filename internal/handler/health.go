package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"swynk_messaging/internal/registry"
)

type HealthHandler struct {
	registry *registry.Registry
}

func NewHealthHandler(reg *registry.Registry) *HealthHandler {
	return &HealthHandler{registry: reg}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"service":     "swynk-messaging",
		"connections": h.registry.Len(),
	})
}
