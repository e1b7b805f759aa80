package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"swynk_messaging/internal/domain"
	"swynk_messaging/internal/repository"
	apperrors "swynk_messaging/pkg/errors"
	"swynk_messaging/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id int) (*domain.User, error)
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
}

type RegisterInput struct {
	Username string
	Password string
	Name     string
	Avatar   string
}

type userService struct {
	store        repository.Store
	passwordCost int
	log          logger.Logger

	// хранилище не следит за уникальностью username, поэтому регистрации идут по одной
	registerMu sync.Mutex
}

func NewUserService(store repository.Store, passwordCost int, log logger.Logger) UserService {
	return &userService{
		store:        store,
		passwordCost: passwordCost,
		log:          log,
	}
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *userService) Get(ctx context.Context, id int) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	_, err := s.store.GetUserByUsername(ctx, input.Username)
	if err == nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	passwordHash, err := HashPassword(input.Password, s.passwordCost)
	if err != nil {
		s.log.Error("Failed to hash password", "error", err)
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, domain.NewUser{
		Username:     input.Username,
		PasswordHash: passwordHash,
		Name:         input.Name,
		Avatar:       input.Avatar,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// HashPassword хеширует пароль bcrypt; cost вне допустимого диапазона заменяется дефолтным
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
