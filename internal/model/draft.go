package model

import "github.com/shopspring/decimal"

// PendingDraft — черновик записи, ожидающий выбора категории.
// Хранится в сессионном хранилище по message_id сообщения с кнопками.
type PendingDraft struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	Kind        EntryKind       `json:"entry_kind"`
	Source      Source          `json:"source"`
}

// WaitingDraft — черновик, для которого пользователь вводит название
// новой категории. Хранится по user_id.
type WaitingDraft struct {
	PendingDraft
	PromptID int `json:"prompt_id"`
}
