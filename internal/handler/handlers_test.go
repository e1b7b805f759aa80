package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"swynk_messaging/internal/config"
	"swynk_messaging/internal/middleware"
	"swynk_messaging/internal/registry"
	"swynk_messaging/internal/repository"
	"swynk_messaging/internal/service"
	"swynk_messaging/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type apiFixture struct {
	store    *repository.MemoryStore
	registry *registry.Registry
	router   *gin.Engine
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	store := repository.NewMemoryStore(log)
	require.NoError(t, store.Seed(context.Background(), "seed-hash"))

	cfg := &config.Config{
		WebSocket: config.WebSocketConfig{
			Path:            "/ws",
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			SendBufferSize:  16,
			MaxMessageSize:  64 * 1024,
		},
		Store: config.StoreConfig{PasswordCost: bcrypt.MinCost},
	}

	reg := registry.New()
	services := service.NewServices(repository.NewRepositories(store, nil, log), reg, cfg, log)
	handlers := NewHandlers(services, reg, cfg, log)

	router := gin.New()
	router.Use(middleware.ErrorHandler(log))
	router.GET("/health", handlers.Health.Check)
	api := router.Group("/api")
	api.GET("/users", handlers.User.List)
	api.POST("/users", handlers.User.Register)
	api.GET("/users/:id", handlers.User.Get)
	api.GET("/messages/:senderId/:receiverId", handlers.Chat.GetMessages)
	api.POST("/messages", handlers.Chat.SendMessage)
	api.POST("/messages/:id/read", handlers.Chat.MarkAsRead)
	api.GET("/conversations/:userId", handlers.Chat.ListConversations)
	api.POST("/conversations", handlers.Chat.CreateConversation)
	router.GET(cfg.WebSocket.Path, handlers.WebSocket.Handle)

	return &apiFixture{store: store, registry: reg, router: router}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(t, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "swynk-messaging", body["service"])
	assert.Equal(t, float64(0), body["connections"])
}

func TestUsers_List(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(t, http.MethodGet, "/api/users", "")

	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]interface{}
	decode(t, w, &users)
	require.Len(t, users, 6)
	assert.Equal(t, "sophia", users[0]["username"])
	assert.NotContains(t, w.Body.String(), "seed-hash")
	assert.NotContains(t, users[0], "password")
}

func TestUsers_Get(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name   string
		path   string
		status int
		error  string
	}{
		{"found", "/api/users/2", http.StatusOK, ""},
		{"invalid id", "/api/users/abc", http.StatusBadRequest, "Invalid user ID"},
		{"absent", "/api/users/9999", http.StatusNotFound, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodGet, tt.path, "")
			require.Equal(t, tt.status, w.Code)

			var body map[string]interface{}
			decode(t, w, &body)
			if tt.error != "" {
				assert.Equal(t, tt.error, body["error"])
				return
			}
			assert.Equal(t, "alexander", body["username"])
			assert.Equal(t, "/avatars/alexander.png", body["avatar"])
			assert.NotContains(t, w.Body.String(), "seed-hash")
		})
	}
}

func TestUsers_Register(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/users", `{"username":"maria","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	decode(t, w, &created)
	assert.Equal(t, float64(7), created["id"])
	assert.Equal(t, "maria", created["name"], "name defaults to username")
	assert.NotContains(t, w.Body.String(), "secret1")

	w = f.do(t, http.MethodPost, "/api/users", `{"username":"maria","password":"another1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var dup map[string]interface{}
	decode(t, w, &dup)
	assert.Equal(t, "username already taken", dup["error"])

	w = f.do(t, http.MethodPost, "/api/users", `{"username":"maria"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var invalid struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	decode(t, w, &invalid)
	assert.Equal(t, "Invalid user data", invalid.Error)
	assert.Equal(t, map[string]string{"password": "required"}, invalid.Details)
}

func TestMessages_SendAndHistory(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/messages", `{"senderId":5,"receiverId":6,"content":"hi Daniel"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var message map[string]interface{}
	decode(t, w, &message)
	assert.Equal(t, "hi Daniel", message["content"])
	assert.Nil(t, message["readAt"])

	w = f.do(t, http.MethodGet, "/api/messages/6/5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var history []map[string]interface{}
	decode(t, w, &history)
	require.Len(t, history, 1)
	assert.Equal(t, message["id"], history[0]["id"])

	w = f.do(t, http.MethodGet, "/api/messages/x/5", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessages_SendValidation(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/messages", `{"senderId":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Invalid message data", body.Error)
	assert.Equal(t, map[string]string{"receiverId": "required", "content": "required"}, body.Details)

	w = f.do(t, http.MethodPost, "/api/messages", `not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &body)
	assert.Contains(t, body.Details, "body")
}

func TestMessages_SendToUnknownUser(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/messages", `{"senderId":1,"receiverId":9999,"content":"hello?"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "User not found", body["error"])
}

func TestMessages_MarkAsRead(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/messages/1/read", "")
	require.Equal(t, http.StatusOK, w.Code)
	var message map[string]interface{}
	decode(t, w, &message)
	assert.NotNil(t, message["readAt"])

	w = f.do(t, http.MethodPost, "/api/messages/9999/read", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	var missing map[string]interface{}
	decode(t, w, &missing)
	assert.Equal(t, "Message not found", missing["error"])

	w = f.do(t, http.MethodPost, "/api/messages/abc/read", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConversations_ListEnriched(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/conversations/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var conversations []map[string]interface{}
	decode(t, w, &conversations)
	require.Len(t, conversations, 3)

	for _, conv := range conversations {
		other, ok := conv["otherUser"].(map[string]interface{})
		require.True(t, ok)
		assert.NotEqual(t, float64(1), other["id"])
		assert.NotEmpty(t, other["username"])
		assert.NotEmpty(t, conv["lastMessagePreview"])
	}
	assert.NotContains(t, w.Body.String(), "seed-hash")

	w = f.do(t, http.MethodGet, "/api/conversations/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConversations_CreateIsIdempotentPerPair(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/conversations", `{"participant1Id":5,"participant2Id":6}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var first map[string]interface{}
	decode(t, w, &first)
	assert.Equal(t, "", first["lastMessagePreview"])

	w = f.do(t, http.MethodPost, "/api/conversations", `{"participant1Id":6,"participant2Id":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	var second map[string]interface{}
	decode(t, w, &second)
	assert.Equal(t, first["id"], second["id"])

	w = f.do(t, http.MethodPost, "/api/conversations", `{"participant1Id":5}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var invalid struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	decode(t, w, &invalid)
	assert.Equal(t, "Invalid conversation data", invalid.Error)
	assert.Equal(t, map[string]string{"participant2Id": "required"}, invalid.Details)
}
