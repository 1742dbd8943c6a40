package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulafin/finbot/internal/model"
	"github.com/ulafin/finbot/internal/repository"
)

type stubTransactions struct {
	summary *repository.MonthlySummary
}

func (s *stubTransactions) Create(_ context.Context, _ *model.Transaction) error { return nil }

func (s *stubTransactions) MonthlySummary(_ context.Context, _ int64, _, _ int) (*repository.MonthlySummary, error) {
	return s.summary, nil
}

type stubCategories struct {
	categories []model.Category
}

func (s *stubCategories) GetForUser(_ context.Context, _ int64) ([]model.Category, error) {
	return s.categories, nil
}

func (s *stubCategories) GetByID(_ context.Context, id string) (*model.Category, error) {
	for _, c := range s.categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *stubCategories) Create(_ context.Context, _ *model.Category) error { return nil }

func TestBuildMonthlyText(t *testing.T) {
	summary := &repository.MonthlySummary{
		TotalExpense: decimal.NewFromInt(150000),
		TotalIncome:  decimal.NewFromInt(1000000),
		ExpenseCount: 2,
		IncomeCount:  1,
		ExpenseByCategory: map[string]decimal.Decimal{
			"cat-1": decimal.NewFromInt(100000),
			"cat-2": decimal.NewFromInt(50000),
		},
		TopExpenses: []model.Transaction{
			{Amount: decimal.NewFromInt(100000), Currency: "UZS", Description: "продукты", CategoryID: "cat-1"},
		},
	}
	cats := &stubCategories{categories: []model.Category{
		{ID: "cat-1", Label: "🛒 Продукты"},
		{ID: "cat-2", Label: "🚗 Транспорт"},
	}}

	svc := NewReportService(&stubTransactions{summary: summary}, cats)

	text, err := svc.BuildMonthlyText(context.Background(), 1, 2025, 8, "UZS", "ru")
	require.NoError(t, err)

	assert.Contains(t, text, "Август 2025")
	assert.Contains(t, text, "150 000 сум")
	assert.Contains(t, text, "1 000 000 сум")
	assert.Contains(t, text, "+850 000 сум")
	assert.Contains(t, text, "🛒 Продукты")
	assert.Contains(t, text, "(66%)")
	assert.Contains(t, text, "Топ-5 расходов")
}

func TestBuildMonthlyText_UnknownCategory(t *testing.T) {
	summary := &repository.MonthlySummary{
		TotalExpense: decimal.NewFromInt(1000),
		ExpenseCount: 1,
		ExpenseByCategory: map[string]decimal.Decimal{
			"gone": decimal.NewFromInt(1000),
		},
	}
	svc := NewReportService(&stubTransactions{summary: summary}, &stubCategories{})

	text, err := svc.BuildMonthlyText(context.Background(), 1, 2025, 1, "UZS", "ru")
	require.NoError(t, err)
	assert.Contains(t, text, model.FallbackCategoryLabel)
}
