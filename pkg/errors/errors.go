package errors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrBadRequest           = errors.New("bad request")
	ErrInternalServer       = errors.New("internal server error")
	ErrUserNotFound         = errors.New("user not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrUserAlreadyExists    = errors.New("username already taken")
	ErrRateLimited          = errors.New("rate limit exceeded")
)

type APIError struct {
	Message string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, details map[string]string) *APIError {
	return &APIError{
		Message: message,
		Details: details,
	}
}

// IsNotFound сообщает, относится ли ошибка к отсутствующей сущности
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrMessageNotFound) ||
		errors.Is(err, ErrConversationNotFound)
}

func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrUserAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}
