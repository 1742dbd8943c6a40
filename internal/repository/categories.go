package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ulafin/finbot/internal/model"
)

// CategoryRepository реализует Categories поверх Postgres.
type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetForUser(ctx context.Context, userID int64) ([]model.Category, error) {
	const q = `
		SELECT id, user_id, key, label, icon, is_default, created_at
		FROM categories
		WHERE user_id IS NULL OR user_id = $1
		ORDER BY is_default DESC, label`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	const q = `
		SELECT id, user_id, key, label, icon, is_default, created_at
		FROM categories WHERE id = $1`

	c, err := scanCategory(r.db.QueryRowContext(ctx, q, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	category.GenerateID()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, key, label, icon, is_default, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		category.ID, category.UserID, category.Key, category.Label,
		category.Icon, category.IsDefault, category.CreatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func scanCategory(scan func(dest ...any) error) (*model.Category, error) {
	var c model.Category
	var owner sql.NullInt64
	if err := scan(&c.ID, &owner, &c.Key, &c.Label, &c.Icon, &c.IsDefault, &c.CreatedAt); err != nil {
		return nil, err
	}
	if owner.Valid {
		c.UserID = &owner.Int64
	}
	return &c, nil
}
