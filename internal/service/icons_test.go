package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickIcon(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Продукты", "🛒"},
		{"Обед в кафе", "🍽"},
		{"Такси", "🚗"},
		{"Спорт", "⚽"},
		{"Зарплата", "💰"},
		{"Что-то странное", DefaultIcon},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PickIcon(tt.name), tt.name)
	}
}
