package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ulafin/finbot/internal/capture"
	"github.com/ulafin/finbot/internal/charts"
	"github.com/ulafin/finbot/internal/ratelimit"
	"github.com/ulafin/finbot/internal/service"
	"github.com/ulafin/finbot/internal/session"
)

const handleTimeout = 30 * time.Second

// Deps — зависимости бота, собираются в main.
type Deps struct {
	Users        *service.UserService
	Categories   *service.CategoryService
	Transactions *service.TransactionService
	Reports      *service.ReportService
	Charts       *charts.ChartGenerator
	Sessions     *session.Store
	Limiter      *ratelimit.Limiter
	Recognizer   capture.Recognizer
	RateLimit    int
	RateWindow   time.Duration
	Logger       *slog.Logger
	Debug        bool
}

type Bot struct {
	api        *tgbotapi.BotAPI
	users      *service.UserService
	reports    *service.ReportService
	charts     *charts.ChartGenerator
	capture    *capture.Orchestrator
	limiter    *ratelimit.Limiter
	rateLimit  int
	rateWindow time.Duration
	log        *slog.Logger
}

func NewBot(token string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram api: %w", err)
	}
	api.Debug = deps.Debug
	return newBot(api, deps), nil
}

func newBot(api *tgbotapi.BotAPI, deps Deps) *Bot {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	b := &Bot{
		api:        api,
		users:      deps.Users,
		reports:    deps.Reports,
		charts:     deps.Charts,
		limiter:    deps.Limiter,
		rateLimit:  deps.RateLimit,
		rateWindow: deps.RateWindow,
		log:        log,
	}
	// бот сам является транспортом для конвейера захвата
	b.capture = capture.NewOrchestrator(deps.Sessions, deps.Categories, deps.Transactions,
		deps.Recognizer, b, log)
	return b
}

// Start запускает бота в режиме long polling. Блокируется до отмены ctx.
func (b *Bot) Start(ctx context.Context) error {
	b.log.Info("bot started", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			// каждый update в своей горутине: медленный OCR одного
			// пользователя не блокирует остальных
			go b.process(update)
		}
	}
}

// HandleWebhook — точка входа для обработки входящих webhook-обновлений.
func (b *Bot) HandleWebhook(body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("unmarshal update: %w", err)
	}
	b.process(update)
	return nil
}

// StartWebhook поднимает HTTP-сервер приёма обновлений вместо long
// polling. Блокируется до отмены ctx.
func (b *Bot) StartWebhook(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := b.HandleWebhook(body); err != nil {
			b.log.Error("webhook update rejected", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	b.log.Info("webhook server started", "addr", addr, "username", b.api.Self.UserName)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (b *Bot) process(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic in update handler", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if err := b.handleUpdate(ctx, update); err != nil {
		b.log.Error("handle update failed", "update_id", update.UpdateID, "error", err)
		if chatID := updateChatID(update); chatID != 0 {
			b.sendErrorMessage(chatID, "Что-то пошло не так. Попробуй ещё раз.")
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	from := updateFrom(update)
	if from == nil {
		return nil
	}
	chatID := updateChatID(update)

	allowed, err := b.limiter.IsAllowed(ctx, from.ID, b.rateLimit, b.rateWindow)
	if err != nil {
		return err
	}
	if !allowed {
		return b.handleThrottled(update, chatID)
	}

	user, err := b.users.GetOrCreate(ctx, from.ID, from.UserName, from.FirstName)
	if err != nil {
		return err
	}

	// регистрация обрабатывается до общего гейта: иначе в неё не попасть
	if update.Message != nil && update.Message.Contact != nil {
		return b.handleContact(ctx, update.Message, user)
	}
	if update.Message != nil && update.Message.IsCommand() && update.Message.Command() == "start" {
		return b.handleStart(ctx, update.Message, user)
	}

	if !user.IsRegistered {
		return b.send(tgbotapi.NewMessage(chatID, "Для начала пройди регистрацию — нажми /start"))
	}

	switch {
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery, user)
	case update.Message != nil && update.Message.IsCommand():
		return b.handleCommand(ctx, update.Message, user)
	case update.Message != nil && len(update.Message.Photo) > 0:
		return b.handlePhoto(ctx, update.Message, user)
	case update.Message != nil && update.Message.Text != "":
		return b.handleText(ctx, update.Message, user)
	}
	return nil
}

// handleThrottled отвечает отказом, не трогая базу и сессии.
func (b *Bot) handleThrottled(update tgbotapi.Update, chatID int64) error {
	const text = "⏳ Слишком много запросов. Подождите немного."
	if update.CallbackQuery != nil {
		_, err := b.api.Request(tgbotapi.NewCallbackWithAlert(update.CallbackQuery.ID, text))
		return err
	}
	if chatID == 0 {
		return nil
	}
	return b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) error {
	if _, err := b.api.Send(c); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	if err := b.send(tgbotapi.NewMessage(chatID, "❌ "+text)); err != nil {
		b.log.Error("send error message failed", "chat_id", chatID, "error", err)
	}
}

func updateFrom(update tgbotapi.Update) *tgbotapi.User {
	switch {
	case update.Message != nil:
		return update.Message.From
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From
	}
	return nil
}

func updateChatID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}
