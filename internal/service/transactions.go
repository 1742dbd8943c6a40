package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ulafin/finbot/internal/model"
	"github.com/ulafin/finbot/internal/repository"
)

// TransactionService — запись расходов и доходов.
type TransactionService struct {
	repo repository.Transactions
}

func NewTransactionService(repo repository.Transactions) *TransactionService {
	return &TransactionService{repo: repo}
}

// Add сохраняет новую транзакцию и возвращает её с заполненным ID.
// Конвертация в базовую валюту внешняя: amount_base пока равен amount.
func (s *TransactionService) Add(ctx context.Context, userID int64, kind model.EntryKind,
	amount decimal.Decimal, currency, categoryID, description string, source model.Source) (*model.Transaction, error) {

	transaction := &model.Transaction{
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Currency:    currency,
		AmountBase:  amount,
		CategoryID:  categoryID,
		Description: description,
		Source:      source,
	}
	if err := s.repo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("add transaction: %w", err)
	}
	return transaction, nil
}

func (s *TransactionService) MonthlySummary(ctx context.Context, userID int64, year, month int) (*repository.MonthlySummary, error) {
	return s.repo.MonthlySummary(ctx, userID, year, month)
}
