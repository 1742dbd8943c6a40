// Package capture — конвейер превращения сообщения или скриншота в
// сохранённую транзакцию: разбор, черновик с TTL, выбор или создание
// категории, запись. Пакет не знает про Telegram: события и эффекты
// описаны собственными типами, транспорт подключается через Messenger.
package capture

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ulafin/finbot/internal/model"
	"github.com/ulafin/finbot/internal/parser"
)

// токены callback-кнопок
const (
	TokenCategoryPrefix = "cat:"
	TokenNewCategory    = "newcat"
)

type EventKind string

const (
	EventText     EventKind = "text"
	EventPhoto    EventKind = "photo"
	EventCallback EventKind = "callback"
)

// Event — входящее событие в том виде, который нужен конвейеру,
// независимо от транспорта.
type Event struct {
	UserID int64
	ChatID int64
	Kind   EventKind

	// Text — текст сообщения (EventText).
	Text string

	// Image и Caption — скриншот и его подпись (EventPhoto).
	Image   []byte
	Caption string

	// CallbackID и CallbackToken — ответ на кнопку (EventCallback).
	// PromptID — id сообщения с кнопками, к которому относится ответ.
	CallbackID    string
	CallbackToken string
	PromptID      int
}

// Choice — кнопка под сообщением: подпись и непрозрачный токен,
// который вернётся в следующем событии.
type Choice struct {
	Label string
	Token string
}

// Messenger отправляет исходящие эффекты конвейера.
type Messenger interface {
	// Send отправляет обычное сообщение.
	Send(ctx context.Context, chatID int64, text string) error

	// SendPrompt отправляет сообщение с кнопками и возвращает его id —
	// ключ, под которым хранится черновик.
	SendPrompt(ctx context.Context, chatID int64, text string, choices [][]Choice) (int, error)

	// Edit заменяет текст сообщения с кнопками (и убирает кнопки).
	Edit(ctx context.Context, chatID int64, messageID int, text string) error

	// Answer отвечает на нажатие кнопки; alert показывает всплывающее окно.
	Answer(ctx context.Context, callbackID, text string, alert bool) error
}

// Categories — внешний справочник категорий.
type Categories interface {
	ListForUser(ctx context.Context, userID int64) ([]model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	CreateCustom(ctx context.Context, userID int64, name string) (*model.Category, error)
}

// Transactions — внешнее долговременное хранилище записей.
type Transactions interface {
	Add(ctx context.Context, userID int64, kind model.EntryKind, amount decimal.Decimal,
		currency, categoryID, description string, source model.Source) (*model.Transaction, error)
}

// Recognizer извлекает кандидата записи из скриншота.
type Recognizer interface {
	Extract(ctx context.Context, image []byte) (*parser.Candidate, error)
}
