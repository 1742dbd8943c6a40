package capture

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ulafin/finbot/internal/format"
	"github.com/ulafin/finbot/internal/model"
	"github.com/ulafin/finbot/internal/parser"
	"github.com/ulafin/finbot/internal/session"
)

const maxCategoryNameLen = 40

// тексты ответов пользователю
const (
	msgCannotParse = "Не понял. Напиши сумму и описание:\n<code>50000 обед в кафе</code>"
	msgOCRFailed   = "Не удалось распознать сумму на скриншоте.\n\n" +
		"Отправь скриншот с подписью — сумма и описание:\n<code>1000000 газ</code>"
	msgDraftGone   = "Расход уже сохранён или устарел."
	msgNamePrompt  = "Напиши название новой категории (например: <i>Продукты</i>, <i>Спорт</i>):"
	msgNameInvalid = "Название должно быть от 1 до 40 символов. Попробуй ещё:"
	msgSaved       = "Сохранено!"
)

// Orchestrator — машина состояний захвата записи. Каждое входящее
// событие даёт ровно один исходящий эффект и не больше одной записи
// в долговременное хранилище: черновик потребляется атомарным pop,
// поэтому двойное нажатие кнопки не приводит к двойной записи.
type Orchestrator struct {
	sessions     *session.Store
	categories   Categories
	transactions Transactions
	recognizer   Recognizer // nil — распознавание скриншотов выключено
	messenger    Messenger
	log          *slog.Logger
}

func NewOrchestrator(sessions *session.Store, categories Categories, transactions Transactions,
	recognizer Recognizer, messenger Messenger, log *slog.Logger) *Orchestrator {

	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		sessions:     sessions,
		categories:   categories,
		transactions: transactions,
		recognizer:   recognizer,
		messenger:    messenger,
		log:          log,
	}
}

// HandleEvent выбирает переход по виду события. Ошибки хранилищ
// возвращаются наверх: там логирование и общее извинение пользователю.
func (o *Orchestrator) HandleEvent(ctx context.Context, ev Event, user *model.User) error {
	switch ev.Kind {
	case EventText:
		return o.handleText(ctx, ev, user)
	case EventPhoto:
		return o.handlePhoto(ctx, ev, user)
	case EventCallback:
		return o.handleCallback(ctx, ev, user)
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}

// SetMode переключает режим ввода. Черновиков не трогает.
func (o *Orchestrator) SetMode(ctx context.Context, userID int64, kind model.EntryKind) error {
	return o.sessions.SetMode(ctx, userID, kind)
}

// handleText: если пользователь вводит название категории — это оно;
// иначе текст разбирается как новая запись.
func (o *Orchestrator) handleText(ctx context.Context, ev Event, user *model.User) error {
	waiting, err := o.sessions.IsWaitingCategory(ctx, ev.UserID)
	if err != nil {
		return err
	}
	if waiting {
		return o.handleCategoryName(ctx, ev, user)
	}

	candidate := parser.Parse(ev.Text)
	if candidate == nil {
		return o.messenger.Send(ctx, ev.ChatID, msgCannotParse)
	}
	return o.offerCategories(ctx, ev, user, candidate, model.SourceText, "")
}

// handlePhoto: подпись с суммой имеет приоритет над OCR.
func (o *Orchestrator) handlePhoto(ctx context.Context, ev Event, user *model.User) error {
	if ev.Caption != "" {
		if candidate := parser.Parse(ev.Caption); candidate != nil {
			return o.offerCategories(ctx, ev, user, candidate, model.SourcePhoto, "📷 ")
		}
	}

	if o.recognizer == nil {
		return o.messenger.Send(ctx, ev.ChatID, msgOCRFailed)
	}

	candidate, err := o.recognizer.Extract(ctx, ev.Image)
	if err != nil {
		// отказ движка и нераспознанная сумма для пользователя неразличимы
		o.log.Warn("ocr failed", "user_id", ev.UserID, "error", err)
		candidate = nil
	}
	if candidate == nil {
		return o.messenger.Send(ctx, ev.ChatID, msgOCRFailed)
	}
	return o.offerCategories(ctx, ev, user, candidate, model.SourcePhoto, "Распознано: ")
}

// offerCategories сохраняет черновик под id отправленного сообщения
// с кнопками категорий: это ключ корреляции для следующего события.
func (o *Orchestrator) offerCategories(ctx context.Context, ev Event, user *model.User,
	candidate *parser.Candidate, source model.Source, prefix string) error {

	mode, err := o.sessions.GetMode(ctx, ev.UserID)
	if err != nil {
		return err
	}

	currency := candidate.Currency
	if currency == "" {
		currency = user.DefaultCurrency
	}

	categories, err := o.categories.ListForUser(ctx, user.ID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("%s %s<b>%s</b> — %s\n\nВыбери категорию:",
		mode.Icon(), prefix, format.AmountShort(candidate.Amount), candidate.Description)

	promptID, err := o.messenger.SendPrompt(ctx, ev.ChatID, text, categoryChoices(categories))
	if err != nil {
		return err
	}

	draft := model.PendingDraft{
		Amount:      candidate.Amount,
		Description: candidate.Description,
		Currency:    currency,
		Kind:        mode,
		Source:      source,
	}
	if err := o.sessions.SetPending(ctx, promptID, draft); err != nil {
		return err
	}

	o.log.Info("draft offered",
		"user_id", ev.UserID, "prompt_id", promptID,
		"amount", candidate.Amount.String(), "source", string(source))
	return nil
}

func (o *Orchestrator) handleCallback(ctx context.Context, ev Event, user *model.User) error {
	switch {
	case strings.HasPrefix(ev.CallbackToken, TokenCategoryPrefix):
		categoryID := strings.TrimPrefix(ev.CallbackToken, TokenCategoryPrefix)
		return o.handleCategoryChosen(ctx, ev, user, categoryID)
	case ev.CallbackToken == TokenNewCategory:
		return o.handleNewCategory(ctx, ev)
	default:
		return o.messenger.Answer(ctx, ev.CallbackID, "", false)
	}
}

// handleCategoryChosen — терминальный переход: черновик потребляется,
// транзакция записывается, сообщение с кнопками заменяется подтверждением.
func (o *Orchestrator) handleCategoryChosen(ctx context.Context, ev Event, user *model.User, categoryID string) error {
	draft, err := o.sessions.PopPending(ctx, ev.PromptID)
	if err != nil {
		return err
	}
	if draft == nil {
		// потреблён конкурентным нажатием или истёк — всегда говорим об этом
		return o.messenger.Answer(ctx, ev.CallbackID, msgDraftGone, true)
	}

	label := model.FallbackCategoryLabel
	category, err := o.categories.GetByID(ctx, categoryID)
	if err != nil {
		o.log.Warn("category lookup failed", "category_id", categoryID, "error", err)
	} else if category != nil {
		label = category.Label
	}

	transaction, err := o.transactions.Add(ctx, user.ID, draft.Kind, draft.Amount,
		draft.Currency, categoryID, draft.Description, draft.Source)
	if err != nil {
		// черновик уже потреблён и не восстанавливается: пользователь
		// вводит запись заново
		return fmt.Errorf("commit transaction: %w", err)
	}

	if err := o.messenger.Edit(ctx, ev.ChatID, ev.PromptID, confirmation(draft.Kind, draft.Amount, draft.Description, label, transaction.ID)); err != nil {
		return err
	}
	return o.messenger.Answer(ctx, ev.CallbackID, msgSaved, false)
}

// handleNewCategory переносит черновик в состояние ожидания названия.
func (o *Orchestrator) handleNewCategory(ctx context.Context, ev Event) error {
	draft, err := o.sessions.PopPending(ctx, ev.PromptID)
	if err != nil {
		return err
	}
	if draft == nil {
		return o.messenger.Answer(ctx, ev.CallbackID, msgDraftGone, true)
	}

	waiting := model.WaitingDraft{PendingDraft: *draft, PromptID: ev.PromptID}
	if err := o.sessions.SetWaitingCategory(ctx, ev.UserID, waiting); err != nil {
		return err
	}

	if err := o.messenger.Edit(ctx, ev.ChatID, ev.PromptID, msgNamePrompt); err != nil {
		return err
	}
	return o.messenger.Answer(ctx, ev.CallbackID, "", false)
}

// handleCategoryName: текст пользователя — название новой категории.
func (o *Orchestrator) handleCategoryName(ctx context.Context, ev Event, user *model.User) error {
	draft, err := o.sessions.PopWaitingCategory(ctx, ev.UserID)
	if err != nil {
		return err
	}
	if draft == nil {
		// гонка или истечение: молча пропускаем, чтобы не создать
		// категорию-сироту
		return nil
	}

	name := strings.TrimSpace(ev.Text)
	if name == "" || utf8.RuneCountInString(name) > maxCategoryNameLen {
		// черновик возвращается на место, пользователь пробует ещё раз
		if err := o.sessions.SetWaitingCategory(ctx, ev.UserID, *draft); err != nil {
			return err
		}
		return o.messenger.Send(ctx, ev.ChatID, msgNameInvalid)
	}

	category, err := o.categories.CreateCustom(ctx, user.ID, name)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	transaction, err := o.transactions.Add(ctx, user.ID, draft.Kind, draft.Amount,
		draft.Currency, category.ID, draft.Description, draft.Source)
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	text := fmt.Sprintf("✅ Категория <b>%s</b> создана!\n\n%s",
		category.Label, confirmation(draft.Kind, draft.Amount, draft.Description, category.Label, transaction.ID))
	return o.messenger.Send(ctx, ev.ChatID, text)
}

func confirmation(kind model.EntryKind, amount decimal.Decimal, description, label, transactionID string) string {
	short := transactionID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("✅ %s <b>%s</b> — %s [%s]\n<i>ID: %s</i>",
		kind.Icon(), format.AmountShort(amount), description, label, short)
}

// categoryChoices раскладывает категории по две в ряд и добавляет
// кнопку создания новой.
func categoryChoices(categories []model.Category) [][]Choice {
	var rows [][]Choice
	var row []Choice
	for _, c := range categories {
		row = append(row, Choice{Label: c.Label, Token: TokenCategoryPrefix + c.ID})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []Choice{{Label: "➕ Новая категория", Token: TokenNewCategory}})
	return rows
}
