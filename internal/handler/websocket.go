package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"swynk_messaging/internal/config"
	"swynk_messaging/internal/service"
	"swynk_messaging/pkg/logger"
)

const writeWait = 10 * time.Second

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendQueueFull    = errors.New("send queue full")
)

type WebSocketHandler struct {
	relay    *service.Relay
	cfg      config.WebSocketConfig
	upgrader websocket.Upgrader
	log      logger.Logger
}

func NewWebSocketHandler(relay *service.Relay, cfg config.WebSocketConfig, log logger.Logger) *WebSocketHandler {
	h := &WebSocketHandler{
		relay: relay,
		cfg:   cfg,
		log:   log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin пропускает всех, пока WS_ALLOWED_ORIGINS не задан.
// Клиенты без заголовка Origin (не браузеры) пропускаются всегда.
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || lo.Contains(h.cfg.AllowedOrigins, origin)
}

func (h *WebSocketHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту ошибкой
		h.log.Warn("Failed to upgrade connection", "error", err)
		return
	}

	client := newWSClient(conn, h.cfg, h.log)
	go client.writeLoop()

	h.readLoop(context.WithoutCancel(c.Request.Context()), client)
}

// readLoop обрабатывает фреймы строго по порядку поступления
func (h *WebSocketHandler) readLoop(ctx context.Context, client *wsClient) {
	session := h.relay.Connect(client)
	defer func() {
		h.relay.Disconnect(ctx, session)
		client.close()
	}()

	conn := client.conn
	if h.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(h.cfg.MaxMessageSize)
	}
	if h.cfg.PingInterval > 0 {
		pongWait := 2 * h.cfg.PingInterval
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				h.log.Warn("WebSocket read failed", "conn_id", client.id, "error", err)
			}
			return
		}
		h.relay.HandleFrame(ctx, session, data)
	}
}

// wsClient обслуживает одно WebSocket соединение. Писать в сокет может только writeLoop,
// остальные горутины кладут фреймы в очередь send.
type wsClient struct {
	id           string
	conn         *websocket.Conn
	send         chan interface{}
	done         chan struct{}
	closeOnce    sync.Once
	pingInterval time.Duration
	log          logger.Logger
}

func newWSClient(conn *websocket.Conn, cfg config.WebSocketConfig, log logger.Logger) *wsClient {
	return &wsClient{
		id:           uuid.New().String(),
		conn:         conn,
		send:         make(chan interface{}, cfg.SendBufferSize),
		done:         make(chan struct{}),
		pingInterval: cfg.PingInterval,
		log:          log,
	}
}

func (c *wsClient) ID() string {
	return c.id
}

// Send не блокируется: при закрытом соединении или полной очереди фрейм отбрасывается.
// Канал send никогда не закрывается, поэтому гонки с close нет.
func (c *wsClient) Send(frame interface{}) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		return ErrSendQueueFull
	}
}

func (c *wsClient) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *wsClient) writeLoop() {
	defer c.close()

	var tick <-chan time.Time
	if c.pingInterval > 0 {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				c.log.Warn("WebSocket write failed", "conn_id", c.id, "error", err)
				return
			}
		case <-tick:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.log.Debug("WebSocket ping failed", "conn_id", c.id, "error", err)
				return
			}
		}
	}
}
