package service

import (
	"context"
	"fmt"

	"github.com/ulafin/finbot/internal/model"
	"github.com/ulafin/finbot/internal/repository"
)

// UserService — авторегистрация и настройки пользователей.
type UserService struct {
	repo repository.Users

	// defaultCurrency присваивается новым пользователям из конфигурации.
	defaultCurrency string
}

func NewUserService(repo repository.Users, defaultCurrency string) *UserService {
	return &UserService{repo: repo, defaultCurrency: defaultCurrency}
}

// GetOrCreate возвращает пользователя, создавая запись при первом контакте.
// Вызывается на каждое входящее событие.
func (s *UserService) GetOrCreate(ctx context.Context, telegramID int64, username, firstName string) (*model.User, error) {
	user, err := s.repo.Upsert(ctx, telegramID, username, firstName, s.defaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("get or create user: %w", err)
	}
	return user, nil
}

// CompleteRegistration сохраняет телефон и помечает пользователя
// зарегистрированным.
func (s *UserService) CompleteRegistration(ctx context.Context, userID int64, phone string) error {
	return s.repo.CompleteRegistration(ctx, userID, phone)
}

func (s *UserService) UpdateLanguage(ctx context.Context, userID int64, language string) error {
	return s.repo.UpdateLanguage(ctx, userID, language)
}

func (s *UserService) UpdateCurrency(ctx context.Context, userID int64, currency string) error {
	return s.repo.UpdateCurrency(ctx, userID, currency)
}

func (s *UserService) UpdateTimezone(ctx context.Context, userID int64, timezone string) error {
	return s.repo.UpdateTimezone(ctx, userID, timezone)
}
