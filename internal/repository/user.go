package repository

import (
	"context"
	"sort"

	"swynk_messaging/internal/domain"
	apperrors "swynk_messaging/pkg/errors"

	"github.com/samber/lo"
)

func (s *MemoryStore) GetUser(ctx context.Context, id int) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return ptr(user), nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := lo.Find(lo.Values(s.users), func(u domain.User) bool {
		return u.Username == username
	})
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return ptr(user), nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	users := lo.Values(s.users)
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return ptrs(users), nil
}

// CreateUser не проверяет уникальность username, это делает сервис
func (s *MemoryStore) CreateUser(ctx context.Context, draft domain.NewUser) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := domain.User{
		ID:           s.nextUserID,
		Username:     draft.Username,
		PasswordHash: draft.PasswordHash,
		Name:         draft.Name,
		Avatar:       draft.Avatar,
		IsTyping:     false,
		LastSeen:     s.now(),
	}
	s.nextUserID++
	s.users[user.ID] = user

	s.log.Debug("User created", "user_id", user.ID, "username", user.Username)
	return ptr(user), nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, id int, patch domain.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	if patch.IsTyping != nil {
		user.IsTyping = *patch.IsTyping
	}
	if patch.LastSeen != nil {
		user.LastSeen = *patch.LastSeen
	}
	s.users[id] = user

	return ptr(user), nil
}

// insertUser кладет пользователя с заранее известным id (демо-данные)
func (s *MemoryStore) insertUser(user domain.User) {
	s.users[user.ID] = user
	if user.ID >= s.nextUserID {
		s.nextUserID = user.ID + 1
	}
}
