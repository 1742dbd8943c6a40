package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ulafin/finbot/internal/capture"
	"github.com/ulafin/finbot/internal/model"
)

// кнопки главного меню
const (
	btnExpense  = "🔴 Расход"
	btnIncome   = "🟢 Приход"
	btnReports  = "📊 Отчёты"
	btnSettings = "⚙️ Настройки"
)

const helpText = "Я записываю расходы и доходы.\n\n" +
	"• Напиши сумму и описание: <code>50000 обед в кафе</code>\n" +
	"• Или пришли скриншот оплаты — сумму распознаю сам\n" +
	"• Выбери категорию кнопкой — запись сохранена\n\n" +
	"Кнопки внизу переключают режим:\n" +
	"🔴 Расход — траты (по умолчанию)\n" +
	"🟢 Приход — доходы\n\n" +
	"📊 Отчёты — итоги месяца, ⚙️ Настройки — язык и валюта."

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message, user *model.User) error {
	if !user.IsRegistered {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"Привет! Я помогу вести учёт расходов. 💰\n\n"+
				"Для начала поделись номером телефона — кнопка внизу.")
		msg.ReplyMarkup = contactKeyboard()
		return b.send(msg)
	}

	// возврат через /start всегда начинается с режима расходов
	if err := b.capture.SetMode(ctx, user.TelegramID, model.KindExpense); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "С возвращением! 👋\n\n"+helpText)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainKeyboard()
	return b.send(msg)
}

// handleContact завершает регистрацию. Принимается только собственный
// контакт пользователя — пересланный чужой не подходит.
func (b *Bot) handleContact(ctx context.Context, message *tgbotapi.Message, user *model.User) error {
	contact := message.Contact
	if contact.UserID != message.From.ID {
		return b.send(tgbotapi.NewMessage(message.Chat.ID, "Нужен именно твой контакт — нажми кнопку внизу."))
	}

	phone := contact.PhoneNumber
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	if err := b.users.CompleteRegistration(ctx, user.ID, phone); err != nil {
		return err
	}
	if err := b.capture.SetMode(ctx, user.TelegramID, model.KindExpense); err != nil {
		return err
	}
	b.log.Info("user registered", "user_id", user.ID, "telegram_id", user.TelegramID)

	msg := tgbotapi.NewMessage(message.Chat.ID, "Готово, ты зарегистрирован! ✅\n\n"+helpText)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainKeyboard()
	return b.send(msg)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message, user *model.User) error {
	switch message.Command() {
	case "help":
		msg := tgbotapi.NewMessage(message.Chat.ID, helpText)
		msg.ParseMode = tgbotapi.ModeHTML
		return b.send(msg)
	case "report":
		return b.offerReports(message.Chat.ID)
	case "timezone":
		return b.handleTimezone(ctx, message, user)
	}
	return nil
}

// handleTimezone меняет часовой пояс: /timezone Asia/Tashkent.
func (b *Bot) handleTimezone(ctx context.Context, message *tgbotapi.Message, user *model.User) error {
	zone := strings.TrimSpace(message.CommandArguments())
	if zone == "" {
		return b.send(tgbotapi.NewMessage(message.Chat.ID,
			fmt.Sprintf("🕐 Текущий часовой пояс: %s.\nЧтобы изменить, напиши: /timezone Asia/Tashkent", user.Timezone)))
	}
	if _, err := time.LoadLocation(zone); err != nil {
		return b.send(tgbotapi.NewMessage(message.Chat.ID,
			"Не знаю такую зону. Пример: /timezone Asia/Tashkent"))
	}
	if err := b.users.UpdateTimezone(ctx, user.ID, zone); err != nil {
		return err
	}
	return b.send(tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("🕐 Часовой пояс: %s ✅", zone)))
}

func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message, user *model.User) error {
	switch message.Text {
	case btnExpense:
		if err := b.capture.SetMode(ctx, user.TelegramID, model.KindExpense); err != nil {
			return err
		}
		return b.send(tgbotapi.NewMessage(message.Chat.ID, "🔴 Режим расходов. Пиши сумму и описание."))
	case btnIncome:
		if err := b.capture.SetMode(ctx, user.TelegramID, model.KindIncome); err != nil {
			return err
		}
		return b.send(tgbotapi.NewMessage(message.Chat.ID, "🟢 Режим доходов. Пиши сумму и описание."))
	case btnReports:
		return b.offerReports(message.Chat.ID)
	case btnSettings:
		msg := tgbotapi.NewMessage(message.Chat.ID, "⚙️ Настройки:")
		msg.ReplyMarkup = settingsKeyboard()
		return b.send(msg)
	}

	ev := capture.Event{
		UserID: user.TelegramID,
		ChatID: message.Chat.ID,
		Kind:   capture.EventText,
		Text:   message.Text,
	}
	return b.capture.HandleEvent(ctx, ev, user)
}

func (b *Bot) handlePhoto(ctx context.Context, message *tgbotapi.Message, user *model.User) error {
	image, err := b.downloadPhoto(ctx, message.Photo)
	if err != nil {
		return fmt.Errorf("download photo: %w", err)
	}

	ev := capture.Event{
		UserID:  user.TelegramID,
		ChatID:  message.Chat.ID,
		Kind:    capture.EventPhoto,
		Image:   image,
		Caption: message.Caption,
	}
	return b.capture.HandleEvent(ctx, ev, user)
}

// downloadPhoto скачивает самый крупный вариант фото.
func (b *Bot) downloadPhoto(ctx context.Context, sizes []tgbotapi.PhotoSize) ([]byte, error) {
	largest := sizes[len(sizes)-1]
	url, err := b.api.GetFileDirectURL(largest.FileID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, user *model.User) error {
	if callback.Message == nil {
		return nil
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch {
	case data == "settings:lang":
		return b.editWithKeyboard(callback, "🌐 Выбери язык:", languageKeyboard())
	case data == "settings:currency":
		return b.editWithKeyboard(callback, "💱 Выбери валюту:", currencyKeyboard())
	case data == "settings:tz":
		hint := fmt.Sprintf("🕐 Часовой пояс — %s. Чтобы изменить, напиши: /timezone <зона>", user.Timezone)
		return b.Answer(ctx, callback.ID, hint, true)
	case strings.HasPrefix(data, "lang:"):
		lang := strings.TrimPrefix(data, "lang:")
		if err := b.users.UpdateLanguage(ctx, user.ID, lang); err != nil {
			return err
		}
		return b.answerAndEdit(callback, "🌐 Язык сохранён.")
	case strings.HasPrefix(data, "cur:"):
		currency := strings.TrimPrefix(data, "cur:")
		if err := b.users.UpdateCurrency(ctx, user.ID, currency); err != nil {
			return err
		}
		return b.answerAndEdit(callback, fmt.Sprintf("💱 Валюта по умолчанию: %s.", currency))
	case data == "report:text":
		if err := b.sendTextReport(ctx, chatID, user); err != nil {
			return err
		}
		return b.Answer(ctx, callback.ID, "", false)
	case data == "report:chart":
		if err := b.sendChartReport(ctx, chatID, user); err != nil {
			return err
		}
		return b.Answer(ctx, callback.ID, "", false)
	}

	// всё остальное — кнопки конвейера захвата
	ev := capture.Event{
		UserID:        user.TelegramID,
		ChatID:        chatID,
		Kind:          capture.EventCallback,
		CallbackID:    callback.ID,
		CallbackToken: data,
		PromptID:      callback.Message.MessageID,
	}
	return b.capture.HandleEvent(ctx, ev, user)
}

func (b *Bot) offerReports(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "📊 Какой отчёт показать?")
	msg.ReplyMarkup = reportsKeyboard()
	return b.send(msg)
}

func (b *Bot) sendTextReport(ctx context.Context, chatID int64, user *model.User) error {
	now := time.Now()
	text, err := b.reports.BuildMonthlyText(ctx, user.ID, now.Year(), int(now.Month()),
		user.DefaultCurrency, user.Language)
	if err != nil {
		return err
	}
	return b.Send(ctx, chatID, text)
}

func (b *Bot) sendChartReport(ctx context.Context, chatID int64, user *model.User) error {
	now := time.Now()
	summary, err := b.reports.MonthlySummary(ctx, user.ID, now.Year(), int(now.Month()))
	if err != nil {
		return err
	}
	labels, err := b.reports.CategoryLabels(ctx, user.ID)
	if err != nil {
		return err
	}

	pie, err := b.charts.GenerateCategoryPieChart(summary, labels)
	if err != nil {
		return err
	}
	bars, err := b.charts.GenerateBalanceChart(summary)
	if err != nil {
		return err
	}
	if pie == nil && bars == nil {
		return b.send(tgbotapi.NewMessage(chatID, "За этот месяц ещё нет записей."))
	}

	for _, png := range [][]byte{pie, bars} {
		if png == nil {
			continue
		}
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "report.png", Bytes: png})
		if err := b.send(photo); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) editWithKeyboard(callback *tgbotapi.CallbackQuery, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(callback.Message.Chat.ID, callback.Message.MessageID, text, keyboard)
	if err := b.send(edit); err != nil {
		return err
	}
	_, err := b.api.Request(tgbotapi.NewCallback(callback.ID, ""))
	return err
}

func (b *Bot) answerAndEdit(callback *tgbotapi.CallbackQuery, text string) error {
	edit := tgbotapi.NewEditMessageText(callback.Message.Chat.ID, callback.Message.MessageID, text)
	if err := b.send(edit); err != nil {
		return err
	}
	_, err := b.api.Request(tgbotapi.NewCallback(callback.ID, ""))
	return err
}
