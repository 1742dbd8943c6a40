package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ulafin/finbot/internal/format"
	"github.com/ulafin/finbot/internal/model"
	"github.com/ulafin/finbot/internal/repository"
)

// ReportService строит текстовые отчёты за месяц.
type ReportService struct {
	transactions repository.Transactions
	categories   repository.Categories
}

func NewReportService(transactions repository.Transactions, categories repository.Categories) *ReportService {
	return &ReportService{transactions: transactions, categories: categories}
}

// MonthlySummary отдаёт сырой агрегат — для диаграмм.
func (s *ReportService) MonthlySummary(ctx context.Context, userID int64, year, month int) (*repository.MonthlySummary, error) {
	return s.transactions.MonthlySummary(ctx, userID, year, month)
}

// CategoryLabels строит отображение category_id → метка.
func (s *ReportService) CategoryLabels(ctx context.Context, userID int64) (map[string]string, error) {
	categories, err := s.categories.GetForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("category labels: %w", err)
	}
	labels := make(map[string]string, len(categories))
	for _, c := range categories {
		labels[c.ID] = c.Label
	}
	return labels, nil
}

// BuildMonthlyText собирает HTML-отчёт за месяц: итоги, разбивка по
// категориям с процентами, топ-5 расходов.
func (s *ReportService) BuildMonthlyText(ctx context.Context, userID int64, year, month int, currency, lang string) (string, error) {
	summary, err := s.transactions.MonthlySummary(ctx, userID, year, month)
	if err != nil {
		return "", fmt.Errorf("build monthly report: %w", err)
	}
	labels, err := s.CategoryLabels(ctx, userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>📊 %s %d</b>\n\n", format.MonthName(month, lang), year)

	balance := summary.Balance()
	balanceIcon := "🟢"
	balanceSign := "+"
	if balance.Sign() < 0 {
		balanceIcon = "🔴"
		balanceSign = "-"
	}

	fmt.Fprintf(&b, "🔴 Расходы: <b>%s</b> (%d)\n", format.Amount(summary.TotalExpense, currency), summary.ExpenseCount)
	fmt.Fprintf(&b, "🟢 Доходы: <b>%s</b> (%d)\n", format.Amount(summary.TotalIncome, currency), summary.IncomeCount)
	fmt.Fprintf(&b, "%s Баланс: <b>%s%s</b>\n", balanceIcon, balanceSign, format.Amount(balance.Abs(), currency))

	if len(summary.ExpenseByCategory) > 0 {
		b.WriteString("\n<b>По категориям:</b>\n")
		for _, row := range sortedByAmount(summary.ExpenseByCategory) {
			label := labels[row.categoryID]
			if label == "" {
				label = model.FallbackCategoryLabel
			}
			pct := 0
			if summary.TotalExpense.Sign() > 0 {
				pct = int(row.amount.Div(summary.TotalExpense).Mul(decimal.NewFromInt(100)).IntPart())
			}
			fmt.Fprintf(&b, "  %s: %s (%d%%)\n", label, format.Amount(row.amount, currency), pct)
		}
	}

	if len(summary.TopExpenses) > 0 {
		b.WriteString("\n<b>Топ-5 расходов:</b>\n")
		for i, t := range summary.TopExpenses {
			label := labels[t.CategoryID]
			if label == "" {
				label = model.FallbackCategoryLabel
			}
			fmt.Fprintf(&b, "  %d. %s — %s [%s]\n", i+1, format.Amount(t.Amount, t.Currency), t.Description, label)
		}
	}

	return b.String(), nil
}

type categoryAmount struct {
	categoryID string
	amount     decimal.Decimal
}

func sortedByAmount(byCategory map[string]decimal.Decimal) []categoryAmount {
	rows := make([]categoryAmount, 0, len(byCategory))
	for id, amount := range byCategory {
		rows = append(rows, categoryAmount{categoryID: id, amount: amount})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].amount.GreaterThan(rows[j].amount)
	})
	return rows
}
