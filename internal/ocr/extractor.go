// Package ocr извлекает сумму и описание из скриншотов банковских
// приложений. Текст распознаёт внешний движок; здесь — эвристики
// поиска суммы в зашумлённом многострочном тексте.
package ocr

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ulafin/finbot/internal/parser"
)

// FallbackDescription подставляется, когда в тексте нет осмысленной строки.
const FallbackDescription = "Платёж (из скриншота)"

const maxDescriptionLen = 100

// Engine распознаёт текст на изображении. Может вернуть ошибку —
// нечитаемое изображение или таймаут движка.
type Engine interface {
	RecognizeText(ctx context.Context, image []byte) (string, error)
}

type Extractor struct {
	engine Engine
}

func NewExtractor(engine Engine) *Extractor {
	return &Extractor{engine: engine}
}

// Extract прогоняет изображение через OCR и ищет сумму платежа.
// Возвращает (nil, nil), когда текст распознан, но суммы в нём нет;
// вызывающий обязан одинаково обрабатывать оба «пустых» исхода.
func (e *Extractor) Extract(ctx context.Context, image []byte) (*parser.Candidate, error) {
	text, err := e.engine.RecognizeText(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("ocr recognize: %w", err)
	}
	return ExtractFromText(text), nil
}

// Паттерны в порядке убывания приоритета: сумма со знаком списания,
// сумма после ключевого слова, сумма с валютой, любое десятичное число.
// Совпадения всех паттернов собираются вместе, берётся максимальное —
// так комиссия или остаток не перебивают сумму операции.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[-−–]\s*([\d\s]+[.,]\d{2})`),
	regexp.MustCompile(`(?i)(?:сумма|итого|всего|оплата|списание|списано|списана|перевод)\s*:?\s*([\d\s]+[.,]?\d*)`),
	regexp.MustCompile(`(?i)([\d\s]+[.,]\d{2})\s*(?:сум|сўм|uzs|usd|руб|₽|\$)`),
	regexp.MustCompile(`([\d\s]+[.,]\d{2})`),
}

// строка только из цифр и пунктуации — не описание
var noiseLineRe = regexp.MustCompile(`^[\d\s.,:%+\-−–]+$`)

var skipWords = []string{"сумма", "итого", "баланс", "комиссия", "дата", "время", "номер"}

// ExtractFromText ищет сумму и описание в уже распознанном тексте.
func ExtractFromText(text string) *parser.Candidate {
	amount, ok := findAmount(text)
	if !ok {
		return nil
	}
	return &parser.Candidate{
		Amount:      amount,
		Description: findDescription(text),
	}
}

func findAmount(text string) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false

	for _, re := range amountPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			cleaned := strings.ReplaceAll(m[1], " ", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
			value, err := decimal.NewFromString(cleaned)
			if err != nil || value.Sign() <= 0 {
				continue
			}
			if !found || value.GreaterThan(best) {
				best = value
				found = true
			}
		}
	}
	return best, found
}

// findDescription берёт первую строку, которая не состоит из одних цифр,
// не содержит служебных слов и длиннее трёх символов.
func findDescription(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || noiseLineRe.MatchString(line) {
			continue
		}
		if containsSkipWord(line) {
			continue
		}
		runes := []rune(line)
		if len(runes) <= 3 {
			continue
		}
		if len(runes) > maxDescriptionLen {
			return string(runes[:maxDescriptionLen])
		}
		return line
	}
	return FallbackDescription
}

func containsSkipWord(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range skipWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
