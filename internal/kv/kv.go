// Package kv определяет контракт хранилища ключ-значение с TTL,
// на котором работают сессии разговора и лимитер запросов.
// Реализации: Redis (прод) и память процесса (разработка, тесты).
package kv

import (
	"context"
	"time"
)

// Store — хранилище с TTL на ключ. Get и GetDel возвращают ok=false
// для отсутствующего или истёкшего ключа: для вызывающего это одно и то же.
type Store interface {
	// Set записывает значение с временем жизни. ttl <= 0 — без истечения.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// GetDel атомарно читает и удаляет ключ: из N конкурентных вызовов
	// ровно один получает значение.
	GetDel(ctx context.Context, key string) (value string, ok bool, err error)

	Exists(ctx context.Context, key string) (bool, error)

	// Incr увеличивает счётчик на 1 и возвращает новое значение.
	// Отсутствующий ключ считается нулём и создаётся без TTL.
	Incr(ctx context.Context, key string) (int64, error)

	// Expire выставляет TTL существующему ключу.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
