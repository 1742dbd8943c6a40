package model

import "time"

type User struct {
	ID              int64     `json:"id"`
	TelegramID      int64     `json:"telegram_id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	Phone           string    `json:"phone"`
	IsRegistered    bool      `json:"is_registered"`
	Language        string    `json:"language"`
	DefaultCurrency string    `json:"default_currency"`
	Timezone        string    `json:"timezone"`
	CreatedAt       time.Time `json:"created_at"`
}
