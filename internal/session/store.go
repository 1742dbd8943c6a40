// Package session хранит эфемерное состояние диалога: черновики записей,
// ожидание названия категории и текущий режим ввода. Всё с TTL, всё
// переживает только жизнь ключа — не рестарт процесса.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ulafin/finbot/internal/kv"
	"github.com/ulafin/finbot/internal/model"
)

const (
	// PendingTTL — сколько черновик ждёт выбора категории.
	PendingTTL = time.Hour
	// WaitingTTL — сколько ждём название новой категории.
	WaitingTTL = 10 * time.Minute
	// ModeTTL — гигиенический срок жизни режима ввода; отсутствие
	// ключа равносильно режиму расхода.
	ModeTTL = 24 * time.Hour
)

const (
	prefixPending = "pending:"
	prefixWaiting = "waiting:"
	prefixMode    = "mode:"
)

type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// ── Черновики, ожидающие выбора категории ──────────────────────────

func (s *Store) SetPending(ctx context.Context, promptID int, draft model.PendingDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal pending draft: %w", err)
	}
	if err := s.kv.Set(ctx, pendingKey(promptID), string(raw), PendingTTL); err != nil {
		return fmt.Errorf("set pending draft: %w", err)
	}
	return nil
}

func (s *Store) GetPending(ctx context.Context, promptID int) (*model.PendingDraft, error) {
	raw, ok, err := s.kv.Get(ctx, pendingKey(promptID))
	if err != nil {
		return nil, fmt.Errorf("get pending draft: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return unmarshalPending(raw)
}

// PopPending атомарно читает и удаляет черновик. Повторный вызов (или
// вызов после истечения TTL) возвращает nil — ровно один из гонящихся
// обработчиков получает черновик.
func (s *Store) PopPending(ctx context.Context, promptID int) (*model.PendingDraft, error) {
	raw, ok, err := s.kv.GetDel(ctx, pendingKey(promptID))
	if err != nil {
		return nil, fmt.Errorf("pop pending draft: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return unmarshalPending(raw)
}

// ── Ожидание названия новой категории ──────────────────────────────

func (s *Store) SetWaitingCategory(ctx context.Context, userID int64, draft model.WaitingDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal waiting draft: %w", err)
	}
	if err := s.kv.Set(ctx, waitingKey(userID), string(raw), WaitingTTL); err != nil {
		return fmt.Errorf("set waiting draft: %w", err)
	}
	return nil
}

func (s *Store) PopWaitingCategory(ctx context.Context, userID int64) (*model.WaitingDraft, error) {
	raw, ok, err := s.kv.GetDel(ctx, waitingKey(userID))
	if err != nil {
		return nil, fmt.Errorf("pop waiting draft: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var draft model.WaitingDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("unmarshal waiting draft: %w", err)
	}
	return &draft, nil
}

// IsWaitingCategory сообщает, вводит ли пользователь сейчас название
// категории. Проверяется до общего разбора текста.
func (s *Store) IsWaitingCategory(ctx context.Context, userID int64) (bool, error) {
	ok, err := s.kv.Exists(ctx, waitingKey(userID))
	if err != nil {
		return false, fmt.Errorf("check waiting draft: %w", err)
	}
	return ok, nil
}

// ── Текущий режим ввода ────────────────────────────────────────────

func (s *Store) SetMode(ctx context.Context, userID int64, kind model.EntryKind) error {
	if err := s.kv.Set(ctx, modeKey(userID), string(kind), ModeTTL); err != nil {
		return fmt.Errorf("set mode: %w", err)
	}
	return nil
}

func (s *Store) GetMode(ctx context.Context, userID int64) (model.EntryKind, error) {
	raw, ok, err := s.kv.Get(ctx, modeKey(userID))
	if err != nil {
		return "", fmt.Errorf("get mode: %w", err)
	}
	if !ok || raw == "" {
		return model.KindExpense, nil
	}
	return model.EntryKind(raw), nil
}

func pendingKey(promptID int) string {
	return prefixPending + strconv.Itoa(promptID)
}

func waitingKey(userID int64) string {
	return prefixWaiting + strconv.FormatInt(userID, 10)
}

func modeKey(userID int64) string {
	return prefixMode + strconv.FormatInt(userID, 10)
}

func unmarshalPending(raw string) (*model.PendingDraft, error) {
	var draft model.PendingDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("unmarshal pending draft: %w", err)
	}
	return &draft, nil
}
