package model

import (
	"time"

	"github.com/google/uuid"
)

// FallbackCategoryLabel показывается вместо категории, которой
// больше нет, и для транзакций без категории.
const FallbackCategoryLabel = "📦 Другое"

// Category — встроенная (общая) или созданная пользователем категория.
// У встроенных категорий UserID равен nil.
type Category struct {
	ID        string    `json:"id,omitempty"`
	UserID    *int64    `json:"user_id,omitempty"`
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Icon      string    `json:"icon"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func (c *Category) GenerateID() {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
}
