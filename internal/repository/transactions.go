package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ulafin/finbot/internal/model"
)

// TransactionRepository реализует Transactions поверх Postgres.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *model.Transaction) error {
	transaction.GenerateID()
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}

	var categoryID sql.NullString
	if transaction.CategoryID != "" {
		categoryID = sql.NullString{String: transaction.CategoryID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions
			(id, user_id, type, amount, currency, amount_base, category_id, description, source, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		transaction.ID, transaction.UserID, transaction.Kind, transaction.Amount,
		transaction.Currency, transaction.AmountBase, categoryID,
		transaction.Description, transaction.Source, transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) MonthlySummary(ctx context.Context, userID int64, year, month int) (*MonthlySummary, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	summary := &MonthlySummary{
		TotalExpense:      decimal.Zero,
		TotalIncome:       decimal.Zero,
		ExpenseByCategory: make(map[string]decimal.Decimal),
	}

	if err := r.loadTotals(ctx, summary, userID, start, end); err != nil {
		return nil, err
	}
	if err := r.loadByCategory(ctx, summary, userID, start, end); err != nil {
		return nil, err
	}
	if err := r.loadTopExpenses(ctx, summary, userID, start, end); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *TransactionRepository) loadTotals(ctx context.Context, summary *MonthlySummary, userID int64, start, end time.Time) error {
	const q = `
		SELECT type, COUNT(*), COALESCE(SUM(amount_base), 0)
		FROM transactions
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY type`

	rows, err := r.db.QueryContext(ctx, q, userID, start, end)
	if err != nil {
		return fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int
		var total decimal.Decimal
		if err := rows.Scan(&kind, &count, &total); err != nil {
			return fmt.Errorf("scan totals: %w", err)
		}
		if kind == string(model.KindIncome) {
			summary.IncomeCount = count
			summary.TotalIncome = total
		} else {
			summary.ExpenseCount = count
			summary.TotalExpense = total
		}
	}
	return rows.Err()
}

func (r *TransactionRepository) loadByCategory(ctx context.Context, summary *MonthlySummary, userID int64, start, end time.Time) error {
	const q = `
		SELECT COALESCE(category_id, ''), COALESCE(SUM(amount_base), 0)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense' AND created_at >= $2 AND created_at < $3
		GROUP BY category_id`

	rows, err := r.db.QueryContext(ctx, q, userID, start, end)
	if err != nil {
		return fmt.Errorf("monthly by category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var categoryID string
		var total decimal.Decimal
		if err := rows.Scan(&categoryID, &total); err != nil {
			return fmt.Errorf("scan category total: %w", err)
		}
		summary.ExpenseByCategory[categoryID] = total
	}
	return rows.Err()
}

func (r *TransactionRepository) loadTopExpenses(ctx context.Context, summary *MonthlySummary, userID int64, start, end time.Time) error {
	const q = `
		SELECT id, user_id, type, amount, currency, amount_base,
			COALESCE(category_id, ''), description, source, created_at
		FROM transactions
		WHERE user_id = $1 AND type = 'expense' AND created_at >= $2 AND created_at < $3
		ORDER BY amount_base DESC
		LIMIT 5`

	rows, err := r.db.QueryContext(ctx, q, userID, start, end)
	if err != nil {
		return fmt.Errorf("monthly top expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.Currency,
			&t.AmountBase, &t.CategoryID, &t.Description, &t.Source, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan top expense: %w", err)
		}
		summary.TopExpenses = append(summary.TopExpenses, t)
	}
	return rows.Err()
}
