package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"swynk_messaging/internal/domain"
	"swynk_messaging/internal/registry"
	"swynk_messaging/internal/repository"
	"swynk_messaging/pkg/logger"
)

type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAuthenticated
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session хранит состояние одного соединения. Принадлежит читающей горутине
// соединения, поэтому не синхронизируется.
type Session struct {
	conn   registry.Connection
	state  SessionState
	userID int
}

func (s *Session) State() SessionState {
	return s.state
}

// UserID возвращает id пользователя, если сессия авторизована
func (s *Session) UserID() (int, bool) {
	return s.userID, s.state == StateAuthenticated
}

// Relay разбирает входящие фреймы, сохраняет сообщения и пересылает
// фреймы получателю, если тот онлайн. Доставка best-effort, без очередей.
type Relay struct {
	store    repository.Store
	registry *registry.Registry
	log      logger.Logger
	now      func() time.Time
}

func NewRelay(store repository.Store, reg *registry.Registry, log logger.Logger) *Relay {
	return &Relay{
		store:    store,
		registry: reg,
		log:      log,
		now:      time.Now,
	}
}

func (r *Relay) Connect(conn registry.Connection) *Session {
	r.log.Debug("WebSocket connected", "conn_id", conn.ID())
	return &Session{conn: conn, state: StateUnauthenticated}
}

// HandleFrame обрабатывает один фрейм. Ошибки логируются и не закрывают соединение.
func (r *Relay) HandleFrame(ctx context.Context, session *Session, raw []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Panic while processing frame", "conn_id", session.conn.ID(), "panic", fmt.Sprint(rec))
		}
	}()

	if session.state == StateClosed {
		return
	}

	var frame domain.InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		r.log.Warn("Error processing frame", "conn_id", session.conn.ID(), "error", err)
		return
	}

	switch frame.Type {
	case domain.FrameAuth:
		r.handleAuth(ctx, session, frame)
	case domain.FrameMessage:
		if r.requireAuth(session, frame.Type) {
			r.handleMessage(ctx, session, frame)
		}
	case domain.FrameTypingStart, domain.FrameTypingEnd:
		if r.requireAuth(session, frame.Type) {
			r.handleTyping(ctx, session, frame)
		}
	default:
		r.log.Warn("Unknown frame type", "conn_id", session.conn.ID(), "type", frame.Type)
	}
}

// Disconnect обновляет lastSeen, сбрасывает isTyping и снимает регистрацию
func (r *Relay) Disconnect(ctx context.Context, session *Session) {
	if session.state == StateClosed {
		return
	}

	if userID, ok := session.UserID(); ok {
		now := r.now()
		typing := false
		if _, err := r.store.UpdateUser(ctx, userID, domain.UserPatch{LastSeen: &now, IsTyping: &typing}); err != nil {
			r.log.Warn("Failed to update user on disconnect", "user_id", userID, "error", err)
		}
		r.registry.Unregister(userID, session.conn)
		r.log.Info("Client disconnected", "user_id", userID, "conn_id", session.conn.ID())
	}

	session.state = StateClosed
}

func (r *Relay) requireAuth(session *Session, frameType string) bool {
	if session.state != StateAuthenticated {
		r.log.Debug("Frame ignored on unauthenticated connection", "conn_id", session.conn.ID(), "type", frameType)
		return false
	}
	return true
}

func (r *Relay) handleAuth(ctx context.Context, session *Session, frame domain.InboundFrame) {
	if !frame.UserID.Valid {
		r.log.Debug("Auth frame with invalid user id ignored", "conn_id", session.conn.ID())
		return
	}
	userID := frame.UserID.Value

	// повторный auth под другим id освобождает прежнюю привязку
	if prevID, ok := session.UserID(); ok && prevID != userID {
		r.registry.Unregister(prevID, session.conn)
	}

	session.userID = userID
	session.state = StateAuthenticated

	if prev, replaced := r.registry.Register(userID, session.conn); replaced {
		r.log.Warn("Connection replaced by newer registration", "user_id", userID, "old_conn_id", prev.ID(), "conn_id", session.conn.ID())
	}

	now := r.now()
	if _, err := r.store.UpdateUser(ctx, userID, domain.UserPatch{LastSeen: &now}); err != nil {
		r.log.Warn("Failed to update last seen", "user_id", userID, "error", err)
	}

	r.log.Info("Client authenticated", "user_id", userID, "conn_id", session.conn.ID())
}

func (r *Relay) handleMessage(ctx context.Context, session *Session, frame domain.InboundFrame) {
	if !frame.ReceiverID.Present() || frame.Content == "" {
		r.log.Debug("Message frame without receiver or content dropped", "conn_id", session.conn.ID())
		return
	}

	message, err := r.store.CreateMessage(ctx, domain.NewMessage{
		SenderID:   session.userID,
		ReceiverID: frame.ReceiverID.Value,
		Content:    frame.Content,
	})
	if err != nil {
		r.log.Warn("Failed to create message", "sender_id", session.userID, "receiver_id", frame.ReceiverID.Value, "error", err)
		return
	}

	r.send(session.conn, domain.MessageFrame{Type: domain.FrameMessageSent, Data: *message})
	r.forward(message.ReceiverID, domain.MessageFrame{Type: domain.FrameMessage, Data: *message})
}

func (r *Relay) handleTyping(ctx context.Context, session *Session, frame domain.InboundFrame) {
	typing := frame.Type == domain.FrameTypingStart
	if _, err := r.store.UpdateUser(ctx, session.userID, domain.UserPatch{IsTyping: &typing}); err != nil {
		r.log.Warn("Failed to update typing status", "user_id", session.userID, "error", err)
	}

	if !frame.ReceiverID.Valid {
		return
	}
	r.forward(frame.ReceiverID.Value, domain.TypingFrame{Type: frame.Type, UserID: session.userID})
}

// forward отправляет фрейм получателю, если он зарегистрирован; иначе фрейм теряется
func (r *Relay) forward(receiverID int, frame interface{}) {
	conn, ok := r.registry.Lookup(receiverID)
	if !ok {
		return
	}
	r.send(conn, frame)
}

func (r *Relay) send(conn registry.Connection, frame interface{}) {
	if err := conn.Send(frame); err != nil {
		r.log.Warn("Failed to send frame", "conn_id", conn.ID(), "error", err)
	}
}
