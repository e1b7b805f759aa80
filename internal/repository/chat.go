package repository

import (
	"context"
	"sort"
	"time"

	"swynk_messaging/internal/domain"
	apperrors "swynk_messaging/pkg/errors"

	"github.com/samber/lo"
)

func (s *MemoryStore) GetMessages(ctx context.Context, userA, userB int) ([]*domain.Message, error) {
	s.mu.RLock()
	messages := lo.Filter(lo.Values(s.messages), func(m domain.Message, _ int) bool {
		return m.Matches(userA, userB)
	})
	s.mu.RUnlock()

	// Сначала по id, чтобы равные (или пустые) метки времени сохраняли порядок создания
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	sort.SliceStable(messages, func(i, j int) bool {
		return earlier(messages[i].CreatedAt, messages[j].CreatedAt)
	})

	return ptrs(messages), nil
}

func (s *MemoryStore) CreateMessage(ctx context.Context, draft domain.NewMessage) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[draft.SenderID]; !ok {
		return nil, apperrors.ErrUserNotFound
	}
	if _, ok := s.users[draft.ReceiverID]; !ok {
		return nil, apperrors.ErrUserNotFound
	}

	now := s.now()
	message := domain.Message{
		ID:         s.nextMessageID,
		SenderID:   draft.SenderID,
		ReceiverID: draft.ReceiverID,
		Content:    draft.Content,
		CreatedAt:  now,
		ReadAt:     nil,
	}
	s.nextMessageID++
	s.messages[message.ID] = message

	s.touchConversation(draft.SenderID, draft.ReceiverID, now, domain.Preview(draft.Content))

	return ptr(message), nil
}

// touchConversation обновляет диалог пары или создает его. Вызывается под s.mu.
func (s *MemoryStore) touchConversation(userA, userB int, at time.Time, preview string) {
	if conversation, ok := s.findConversation(userA, userB); ok {
		conversation.LastMessageAt = at
		conversation.LastMessagePreview = preview
		s.conversations[conversation.ID] = conversation
		return
	}

	conversation := domain.Conversation{
		ID:                 s.nextConversationID,
		Participant1ID:     userA,
		Participant2ID:     userB,
		LastMessageAt:      at,
		LastMessagePreview: preview,
	}
	s.nextConversationID++
	s.conversations[conversation.ID] = conversation

	s.log.Debug("Conversation created", "conversation_id", conversation.ID, "participant1", userA, "participant2", userB)
}

// MarkMessageAsRead каждый раз перезаписывает readAt текущим временем
func (s *MemoryStore) MarkMessageAsRead(ctx context.Context, id int) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}

	message.ReadAt = ptr(s.now())
	s.messages[id] = message

	return ptr(message), nil
}

func (s *MemoryStore) GetConversation(ctx context.Context, userA, userB int) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversation, ok := s.findConversation(userA, userB)
	if !ok {
		return nil, apperrors.ErrConversationNotFound
	}
	return ptr(conversation), nil
}

// findConversation делает линейный поиск по неупорядоченной паре. Вызывается под s.mu.
func (s *MemoryStore) findConversation(userA, userB int) (domain.Conversation, bool) {
	var (
		found domain.Conversation
		ok    bool
	)
	for _, c := range s.conversations {
		// при нескольких совпадениях берем самый ранний id, чтобы ответ был детерминированным
		if c.Matches(userA, userB) && (!ok || c.ID < found.ID) {
			found, ok = c, true
		}
	}
	return found, ok
}

func (s *MemoryStore) GetConversationsForUser(ctx context.Context, userID int) ([]*domain.Conversation, error) {
	s.mu.RLock()
	conversations := lo.Filter(lo.Values(s.conversations), func(c domain.Conversation, _ int) bool {
		return c.Involves(userID)
	})
	s.mu.RUnlock()

	sort.Slice(conversations, func(i, j int) bool { return conversations[i].ID < conversations[j].ID })
	sort.SliceStable(conversations, func(i, j int) bool {
		return earlier(conversations[j].LastMessageAt, conversations[i].LastMessageAt)
	})

	return ptrs(conversations), nil
}

func (s *MemoryStore) CreateConversation(ctx context.Context, draft domain.NewConversation) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ptr(s.insertConversation(draft)), nil
}

// OpenConversation возвращает существующий диалог пары или создает новый.
// created=false означает, что диалог уже был.
func (s *MemoryStore) OpenConversation(ctx context.Context, draft domain.NewConversation) (*domain.Conversation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conversation, ok := s.findConversation(draft.Participant1ID, draft.Participant2ID); ok {
		return ptr(conversation), false, nil
	}
	return ptr(s.insertConversation(draft)), true, nil
}

func (s *MemoryStore) insertConversation(draft domain.NewConversation) domain.Conversation {
	conversation := domain.Conversation{
		ID:                 s.nextConversationID,
		Participant1ID:     draft.Participant1ID,
		Participant2ID:     draft.Participant2ID,
		LastMessageAt:      s.now(),
		LastMessagePreview: "",
	}
	s.nextConversationID++
	s.conversations[conversation.ID] = conversation
	return conversation
}

func (s *MemoryStore) UpdateConversation(ctx context.Context, id int, patch domain.ConversationPatch) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, ok := s.conversations[id]
	if !ok {
		return nil, apperrors.ErrConversationNotFound
	}

	if patch.LastMessageAt != nil {
		conversation.LastMessageAt = *patch.LastMessageAt
	}
	if patch.LastMessagePreview != nil {
		conversation.LastMessagePreview = *patch.LastMessagePreview
	}
	s.conversations[id] = conversation

	return ptr(conversation), nil
}

// earlier считает нулевые метки времени равными любым другим
func earlier(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return a.Before(b)
}
