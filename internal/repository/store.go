package repository

import (
	"context"
	"sync"
	"time"

	"swynk_messaging/internal/domain"
	"swynk_messaging/pkg/logger"
)

// Store является единственным владельцем пользователей, сообщений и диалогов.
// Все методы возвращают копии, ссылки на внутреннее состояние наружу не уходят.
type Store interface {
	GetUser(ctx context.Context, id int) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, draft domain.NewUser) (*domain.User, error)
	UpdateUser(ctx context.Context, id int, patch domain.UserPatch) (*domain.User, error)

	GetMessages(ctx context.Context, userA, userB int) ([]*domain.Message, error)
	// CreateMessage сохраняет сообщение и в той же критической секции
	// обновляет (или создает) диалог пары
	CreateMessage(ctx context.Context, draft domain.NewMessage) (*domain.Message, error)
	MarkMessageAsRead(ctx context.Context, id int) (*domain.Message, error)

	GetConversation(ctx context.Context, userA, userB int) (*domain.Conversation, error)
	GetConversationsForUser(ctx context.Context, userID int) ([]*domain.Conversation, error)
	CreateConversation(ctx context.Context, draft domain.NewConversation) (*domain.Conversation, error)
	OpenConversation(ctx context.Context, draft domain.NewConversation) (*domain.Conversation, bool, error)
	UpdateConversation(ctx context.Context, id int, patch domain.ConversationPatch) (*domain.Conversation, error)
}

type Option func(*MemoryStore)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// MemoryStore хранит данные в памяти процесса под одним RWMutex
type MemoryStore struct {
	mu  sync.RWMutex
	now func() time.Time
	log logger.Logger

	users         map[int]domain.User
	messages      map[int]domain.Message
	conversations map[int]domain.Conversation

	nextUserID         int
	nextMessageID      int
	nextConversationID int
}

func NewMemoryStore(log logger.Logger, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		now:                time.Now,
		log:                log,
		users:              make(map[int]domain.User),
		messages:           make(map[int]domain.Message),
		conversations:      make(map[int]domain.Conversation),
		nextUserID:         1,
		nextMessageID:      1,
		nextConversationID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func ptr[T any](v T) *T {
	return &v
}

func ptrs[T any](items []T) []*T {
	out := make([]*T, 0, len(items))
	for i := range items {
		out = append(out, &items[i])
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
