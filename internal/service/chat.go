package service

import (
	"context"

	"swynk_messaging/internal/domain"
	"swynk_messaging/internal/repository"
	apperrors "swynk_messaging/pkg/errors"
	"swynk_messaging/pkg/logger"
)

type ChatService interface {
	GetMessages(ctx context.Context, userA, userB int) ([]*domain.Message, error)
	SendMessage(ctx context.Context, senderID, receiverID int, content string) (*domain.Message, error)
	MarkAsRead(ctx context.Context, messageID int) (*domain.Message, error)
	ListConversations(ctx context.Context, userID int) ([]*domain.ConversationView, error)
	OpenConversation(ctx context.Context, participant1ID, participant2ID int) (*domain.Conversation, bool, error)
}

type chatService struct {
	store repository.Store
	log   logger.Logger
}

func NewChatService(store repository.Store, log logger.Logger) ChatService {
	return &chatService{
		store: store,
		log:   log,
	}
}

func (s *chatService) GetMessages(ctx context.Context, userA, userB int) ([]*domain.Message, error) {
	return s.store.GetMessages(ctx, userA, userB)
}

func (s *chatService) SendMessage(ctx context.Context, senderID, receiverID int, content string) (*domain.Message, error) {
	if content == "" {
		return nil, apperrors.ErrBadRequest
	}
	return s.store.CreateMessage(ctx, domain.NewMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	})
}

func (s *chatService) MarkAsRead(ctx context.Context, messageID int) (*domain.Message, error) {
	return s.store.MarkMessageAsRead(ctx, messageID)
}

// ListConversations дополняет каждый диалог данными собеседника
func (s *chatService) ListConversations(ctx context.Context, userID int) ([]*domain.ConversationView, error) {
	conversations, err := s.store.GetConversationsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		otherID := conv.OtherParticipant(userID)

		view := &domain.ConversationView{Conversation: *conv}
		other, err := s.store.GetUser(ctx, otherID)
		switch {
		case err == nil:
			view.OtherUser = other
		case apperrors.IsNotFound(err):
			view.OtherUser = domain.UserStub{ID: otherID}
		default:
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *chatService) OpenConversation(ctx context.Context, participant1ID, participant2ID int) (*domain.Conversation, bool, error) {
	return s.store.OpenConversation(ctx, domain.NewConversation{
		Participant1ID: participant1ID,
		Participant2ID: participant2ID,
	})
}
