package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apperrors "swynk_messaging/pkg/errors"
)

var tagNamesOnce sync.Once

// registerJSONTagNames заставляет validator называть поля по json тегам
func registerJSONTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// validationDetails раскладывает ошибку биндинга в map "поле -> правило"
func validationDetails(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make(map[string]string, len(validationErrors))
		for _, fe := range validationErrors {
			details[fe.Field()] = fe.Tag()
		}
		return details
	}
	return map[string]string{"body": err.Error()}
}

func badRequest(c *gin.Context, message string, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, apperrors.NewAPIError(message, validationDetails(err)))
}

func parseID(c *gin.Context, param string) (int, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil {
		return 0, false
	}
	return id, true
}

// respondError отдает 4xx сразу, а неожиданные ошибки передает в ErrorHandler
func respondError(c *gin.Context, err error, notFoundMessage string) {
	status := apperrors.HTTPStatusFromError(err)
	switch {
	case status == http.StatusNotFound && notFoundMessage != "":
		c.JSON(status, gin.H{"error": notFoundMessage})
	case status == http.StatusInternalServerError:
		_ = c.Error(err)
	default:
		c.JSON(status, gin.H{"error": err.Error()})
	}
}
