package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ulafin/finbot/internal/model"
)

// UserRepository реализует Users поверх Postgres.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, telegram_id, COALESCE(username, ''), COALESCE(first_name, ''),
	COALESCE(phone, ''), is_registered, language, default_currency, timezone, created_at`

// Upsert создаёт пользователя при первом контакте. Валюта по умолчанию
// берётся из конфигурации только для новых записей — выбор пользователя
// повторный апсерт не перетирает.
func (r *UserRepository) Upsert(ctx context.Context, telegramID int64, username, firstName, defaultCurrency string) (*model.User, error) {
	q := `
		INSERT INTO users (telegram_id, username, first_name, default_currency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (telegram_id) DO UPDATE
			SET username = EXCLUDED.username, first_name = EXCLUDED.first_name
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, q, telegramID, username, firstName, defaultCurrency))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) CompleteRegistration(ctx context.Context, id int64, phone string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET phone = $1, is_registered = true WHERE id = $2`, phone, id)
	if err != nil {
		return fmt.Errorf("complete registration: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateLanguage(ctx context.Context, id int64, language string) error {
	return r.updateField(ctx, id, "language", language)
}

func (r *UserRepository) UpdateCurrency(ctx context.Context, id int64, currency string) error {
	return r.updateField(ctx, id, "default_currency", currency)
}

func (r *UserRepository) UpdateTimezone(ctx context.Context, id int64, timezone string) error {
	return r.updateField(ctx, id, "timezone", timezone)
}

// updateField собирает запрос из фиксированного имени колонки,
// пользовательский ввод в имя колонки не попадает.
func (r *UserRepository) updateField(ctx context.Context, id int64, field, value string) error {
	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE users SET %s = $1 WHERE id = $2`, field), value, id)
	if err != nil {
		return fmt.Errorf("update user %s: %w", field, err)
	}
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.Phone,
		&u.IsRegistered, &u.Language, &u.DefaultCurrency, &u.Timezone, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
