// Package ratelimit ограничивает частоту входящих событий на пользователя.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ulafin/finbot/internal/kv"
	"time"
)

const (
	DefaultLimit  = 30
	DefaultWindow = 60 * time.Second

	prefix = "rl:"
)

// Limiter — счётчик с фиксированным окном. Все запросы окна делят один
// счётчик и один момент сброса, поэтому на границе окон возможно до
// 2×limit запросов подряд — это принятое приближение, не ошибка.
type Limiter struct {
	kv kv.Store
}

func New(store kv.Store) *Limiter {
	return &Limiter{kv: store}
}

// IsAllowed инкрементирует счётчик пользователя и отвечает, уложился ли
// он в лимит. TTL выставляется ровно один раз — при создании счётчика;
// перевзвод TTL на каждый запрос сделал бы окно бесконечным под нагрузкой.
func (l *Limiter) IsAllowed(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	key := counterKey(userID)

	n, err := l.kv.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if n == 1 {
		if err := l.kv.Expire(ctx, key, window); err != nil {
			return false, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	return n <= int64(limit), nil
}

// Remaining возвращает остаток запросов в текущем окне, не меняя счётчик.
func (l *Limiter) Remaining(ctx context.Context, userID int64, limit int) (int, error) {
	raw, ok, err := l.kv.Get(ctx, counterKey(userID))
	if err != nil {
		return 0, fmt.Errorf("ratelimit get: %w", err)
	}
	used := 0
	if ok {
		used, err = strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("ratelimit counter value: %w", err)
		}
	}
	if remaining := limit - used; remaining > 0 {
		return remaining, nil
	}
	return 0, nil
}

func counterKey(userID int64) string {
	return prefix + strconv.FormatInt(userID, 10)
}
