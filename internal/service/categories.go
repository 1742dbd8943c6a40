package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ulafin/finbot/internal/model"
	"github.com/ulafin/finbot/internal/repository"
)

// CategoryService — встроенные и пользовательские категории.
type CategoryService struct {
	repo repository.Categories
}

func NewCategoryService(repo repository.Categories) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) ListForUser(ctx context.Context, userID int64) ([]model.Category, error) {
	return s.repo.GetForUser(ctx, userID)
}

func (s *CategoryService) GetByID(ctx context.Context, id string) (*model.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateCustom создаёт пользовательскую категорию: иконка подбирается
// по названию, метка — иконка плюс название.
func (s *CategoryService) CreateCustom(ctx context.Context, userID int64, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	icon := PickIcon(name)

	category := &model.Category{
		UserID: &userID,
		Key:    strings.ToLower(strings.ReplaceAll(name, " ", "_")),
		Label:  icon + " " + name,
		Icon:   icon,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create custom category: %w", err)
	}
	return category, nil
}
