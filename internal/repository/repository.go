package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ulafin/finbot/internal/model"
)

// Users определяет интерфейс для работы с пользователями
type Users interface {
	Upsert(ctx context.Context, telegramID int64, username, firstName, defaultCurrency string) (*model.User, error)
	CompleteRegistration(ctx context.Context, id int64, phone string) error
	UpdateLanguage(ctx context.Context, id int64, language string) error
	UpdateCurrency(ctx context.Context, id int64, currency string) error
	UpdateTimezone(ctx context.Context, id int64, timezone string) error
}

// Categories определяет интерфейс для работы с категориями
type Categories interface {
	// GetForUser возвращает встроенные категории плюс созданные пользователем.
	GetForUser(ctx context.Context, userID int64) ([]model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	Create(ctx context.Context, category *model.Category) error
}

// Transactions определяет интерфейс для работы с транзакциями
type Transactions interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	MonthlySummary(ctx context.Context, userID int64, year, month int) (*MonthlySummary, error)
}

// MonthlySummary — агрегат за месяц для отчётов.
type MonthlySummary struct {
	TotalExpense decimal.Decimal
	TotalIncome  decimal.Decimal
	ExpenseCount int
	IncomeCount  int

	// ExpenseByCategory — расходы по category_id, в базовой валюте.
	ExpenseByCategory map[string]decimal.Decimal

	TopExpenses []model.Transaction
}

func (s *MonthlySummary) Balance() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpense)
}
