package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind определяет тип записи: расход или доход
type EntryKind string

const (
	KindExpense EntryKind = "expense"
	KindIncome  EntryKind = "income"
)

// Icon возвращает иконку режима для сообщений бота
func (k EntryKind) Icon() string {
	if k == KindIncome {
		return "🟢"
	}
	return "🔴"
}

// Source определяет источник записи: текстовое сообщение или скриншот
type Source string

const (
	SourceText  Source = "text"
	SourcePhoto Source = "photo"
)

type Transaction struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"user_id"`
	Kind        EntryKind       `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	AmountBase  decimal.Decimal `json:"amount_base"`
	CategoryID  string          `json:"category_id"`
	Description string          `json:"description"`
	Source      Source          `json:"source"`
	CreatedAt   time.Time       `json:"created_at"`
}

// GenerateID генерирует новый UUID для транзакции, если он еще не установлен
func (t *Transaction) GenerateID() {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
}
