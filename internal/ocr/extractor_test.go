package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromText_SignedAmount(t *testing.T) {
	text := "Humo Card\nОплата прошла\n-125 000,00\nБаланс: 1 500 000,00"
	c := ExtractFromText(text)
	require.NotNil(t, c)
	// остаток больше суммы операции, но тоже попадает в кандидаты:
	// берётся максимум всех совпадений
	assert.True(t, c.Amount.Equal(decimal.NewFromInt(1500000)), c.Amount.String())
}

func TestExtractFromText_LabeledAmount(t *testing.T) {
	text := "Перевод выполнен\nСумма: 250 000\nKapitalbank"
	c := ExtractFromText(text)
	require.NotNil(t, c)
	assert.True(t, c.Amount.Equal(decimal.NewFromInt(250000)), c.Amount.String())
	assert.Equal(t, "Перевод выполнен", c.Description)
}

func TestExtractFromText_CurrencySuffix(t *testing.T) {
	text := "Click Evolution\n55 000,00 сум\nОплата услуг"
	c := ExtractFromText(text)
	require.NotNil(t, c)
	assert.True(t, c.Amount.Equal(decimal.NewFromInt(55000)), c.Amount.String())
	assert.Equal(t, "Click Evolution", c.Description)
}

func TestExtractFromText_PicksLargest(t *testing.T) {
	text := "Оплата 100 000,00\nКомиссия 1 000,00"
	c := ExtractFromText(text)
	require.NotNil(t, c)
	assert.True(t, c.Amount.Equal(decimal.NewFromInt(100000)), c.Amount.String())
}

func TestExtractFromText_NoAmount(t *testing.T) {
	assert.Nil(t, ExtractFromText("Добро пожаловать в приложение"))
	assert.Nil(t, ExtractFromText(""))
}

func TestFindDescription_SkipsNoiseAndLabels(t *testing.T) {
	text := "12.08.2025 14:32\nБаланс: 500 000\nSTARBUCKS TASHKENT\n-45 000,00"
	c := ExtractFromText(text)
	require.NotNil(t, c)
	assert.Equal(t, "STARBUCKS TASHKENT", c.Description)
}

func TestFindDescription_Fallback(t *testing.T) {
	// все строки — либо цифры, либо служебные слова
	text := "Сумма: 99 000,00\n123 456\n-99 000,00"
	c := ExtractFromText(text)
	require.NotNil(t, c)
	assert.Equal(t, FallbackDescription, c.Description)
}

func TestFindDescription_Truncated(t *testing.T) {
	long := strings.Repeat("о", 150)
	text := "-45 000,00\n" + long
	c := ExtractFromText(text)
	require.NotNil(t, c)
	assert.Equal(t, 100, len([]rune(c.Description)))
}

type fakeEngine struct {
	text string
	err  error
}

func (f *fakeEngine) RecognizeText(_ context.Context, _ []byte) (string, error) {
	return f.text, f.err
}

func TestExtract_EngineFailure(t *testing.T) {
	e := NewExtractor(&fakeEngine{err: errors.New("timeout")})
	c, err := e.Extract(context.Background(), []byte("img"))
	assert.Nil(t, c)
	assert.Error(t, err)
}

func TestExtract_NoCandidate(t *testing.T) {
	e := NewExtractor(&fakeEngine{text: "ничего полезного"})
	c, err := e.Extract(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestExtract_Success(t *testing.T) {
	e := NewExtractor(&fakeEngine{text: "PAYME\n-78 500,00\nОплата"})
	c, err := e.Extract(context.Background(), []byte("img"))
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, c.Amount.Equal(decimal.NewFromFloat(78500)))
	assert.Equal(t, "PAYME", c.Description)
}
