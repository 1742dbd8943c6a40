// Package format форматирует суммы, валюты и названия месяцев
// для сообщений бота.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"UZS": "сум",
	"USD": "$",
	"EUR": "€",
	"RUB": "₽",
	"GBP": "£",
	"KZT": "₸",
}

var monthsRU = [...]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

var monthsUZ = [...]string{
	"Yanvar", "Fevral", "Mart", "Aprel", "May", "Iyun",
	"Iyul", "Avgust", "Sentyabr", "Oktyabr", "Noyabr", "Dekabr",
}

var monthsEN = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Amount форматирует сумму с разделителями тысяч и символом валюты:
// 1000000 UZS → "1 000 000 сум", 100.5 USD → "$100.50".
func Amount(amount decimal.Decimal, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}

	// для сумов и тенге — без копеек
	if currency == "UZS" || currency == "KZT" {
		return AmountShort(amount) + " " + symbol
	}

	formatted := groupThousands(amount.StringFixed(2))
	switch currency {
	case "USD", "EUR", "GBP":
		return symbol + formatted
	default:
		return formatted + " " + symbol
	}
}

// AmountShort форматирует целую часть суммы с пробелами-разделителями.
func AmountShort(amount decimal.Decimal) string {
	return groupThousands(amount.Truncate(0).String())
}

// MonthName возвращает локализованное название месяца (1-12).
func MonthName(month int, lang string) string {
	if month < 1 || month > 12 {
		return ""
	}
	switch lang {
	case "uz":
		return monthsUZ[month-1]
	case "en":
		return monthsEN[month-1]
	default:
		return monthsRU[month-1]
	}
}

// groupThousands вставляет пробелы между разрядами целой части.
func groupThousands(s string) string {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	if hasFrac {
		out += "." + fracPart
	}
	return out
}
