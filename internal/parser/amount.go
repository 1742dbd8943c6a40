// Package parser разбирает свободный текст вида "50000 обед в кафе"
// или "$100 lunch" в структурированный черновик записи.
package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDescription подставляется, когда после суммы нет описания.
const DefaultDescription = "Без описания"

// Candidate — результат разбора: сумма, описание и (необязательно) валюта.
// Пустая Currency означает валюту пользователя по умолчанию.
type Candidate struct {
	Amount      decimal.Decimal
	Description string
	Currency    string
}

// символ валюты перед суммой
var symbolCurrencies = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"₽": "RUB",
	"₸": "KZT",
}

// слово-валюта сразу после суммы
var wordCurrencies = map[string]string{
	"руб": "RUB",
	"rub": "RUB",
	"сум": "UZS",
	"сўм": "UZS",
	"sum": "UZS",
	"som": "UZS",
	"usd": "USD",
	"eur": "EUR",
	"gbp": "GBP",
	"uzs": "UZS",
	"kzt": "KZT",
}

// Примеры: 50000, $100, 100€, 1 000 000, 50000.50, 50 000,50 такси
var amountRe = regexp.MustCompile(`^([€$£₽₸])?\s*(\d[\d\s]*[.,]?\d*)(.*)`)

// Parse разбирает текст в кандидата записи. Возвращает nil, если в тексте
// нет положительной суммы — частичного успеха не бывает.
func Parse(text string) *Candidate {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	m := amountRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	preSymbol, rawAmount, rest := m[1], m[2], m[3]

	normalized := strings.ReplaceAll(rawAmount, " ", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	amount, err := decimal.NewFromString(normalized)
	if err != nil || amount.Sign() <= 0 {
		return nil
	}

	currency := symbolCurrencies[preSymbol]
	description := strings.TrimSpace(rest)

	// Валюта после суммы: символ либо известное слово-алиас.
	// Нераспознанный токен остаётся частью описания.
	if currency == "" && description != "" {
		token, remainder := splitToken(description)
		if code, ok := currencyToken(token); ok {
			currency = code
			description = strings.TrimSpace(remainder)
		}
	}

	if description == "" {
		description = DefaultDescription
	}

	return &Candidate{
		Amount:      amount,
		Description: description,
		Currency:    currency,
	}
}

func splitToken(s string) (token, remainder string) {
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

func currencyToken(token string) (string, bool) {
	if code, ok := symbolCurrencies[token]; ok {
		return code, true
	}
	code, ok := wordCurrencies[strings.ToLower(token)]
	return code, ok
}
