package service

import "strings"

// DefaultIcon используется, когда по названию ничего не угадалось.
const DefaultIcon = "📌"

var iconKeywords = []struct {
	icon  string
	words []string
}{
	{"🛒", []string{"продукт", "магазин", "супермаркет", "grocer"}},
	{"🍽", []string{"еда", "кафе", "ресторан", "обед", "ужин", "food", "lunch"}},
	{"🚗", []string{"транспорт", "такси", "бензин", "авто", "taxi"}},
	{"🏠", []string{"дом", "аренда", "квартира", "коммунал", "rent"}},
	{"💊", []string{"здоровье", "аптека", "врач", "медицин", "health"}},
	{"🎬", []string{"развлечен", "кино", "игр", "fun"}},
	{"📱", []string{"связь", "интернет", "телефон", "mobile"}},
	{"👕", []string{"одежда", "обувь", "clothes"}},
	{"🎁", []string{"подар", "gift"}},
	{"📚", []string{"образован", "курс", "книг", "школ"}},
	{"⚽", []string{"спорт", "фитнес", "зал", "sport", "gym"}},
	{"✈️", []string{"путешеств", "отпуск", "билет", "travel"}},
	{"💰", []string{"зарплата", "доход", "премия", "salary"}},
}

// PickIcon подбирает иконку категории по ключевым словам в названии.
func PickIcon(name string) string {
	lower := strings.ToLower(name)
	for _, group := range iconKeywords {
		for _, w := range group.words {
			if strings.Contains(lower, w) {
				return group.icon
			}
		}
	}
	return DefaultIcon
}
