package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/Irakli288/my-portfolio/internal/authflow"
	"github.com/Irakli288/my-portfolio/internal/config"
)

const (
	callbackApprovePrefix = "approve_"
	callbackDenyPrefix    = "deny_"
)

// Bot long-polls Telegram for callback queries and turns the
// approver's button presses into session decisions. It is the only
// writer of terminal session states; it shares no memory with the
// HTTP server - all coordination goes through the database.
type Bot struct {
	bot        *tgbotapi.BotAPI
	api        botAPI
	store      *authflow.Store
	approverID int64
	logger     zerolog.Logger
}

func NewBot(cfg config.TelegramConfig, store *authflow.Store, logger zerolog.Logger) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if cfg.ApproverID == 0 {
		return nil, fmt.Errorf("TELEGRAM_APPROVER_ID is not set")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	b := newBot(api, store, cfg.ApproverID, logger)
	b.bot = api
	return b, nil
}

func newBot(api botAPI, store *authflow.Store, approverID int64, logger zerolog.Logger) *Bot {
	return &Bot{
		api:        api,
		store:      store,
		approverID: approverID,
		logger:     logger.With().Str("component", "telegram_bot").Logger(),
	}
}

// Run consumes updates until the context is cancelled
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"callback_query"}

	updates := b.bot.GetUpdatesChan(u)
	b.logger.Info().Str("bot", b.bot.Self.UserName).Msg("Listening for approval callbacks")

	for {
		select {
		case <-ctx.Done():
			b.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.CallbackQuery == nil {
				continue
			}
			b.handleCallback(ctx, update.CallbackQuery)
		}
	}
}

// handleCallback processes one approve/deny button press.
// Unauthorized actors get told off and nothing is mutated; duplicate
// decisions get acknowledged without changing state.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil {
		return
	}

	if cq.From.ID != b.approverID {
		b.logger.Warn().
			Int64("actor_id", cq.From.ID).
			Msg("Callback from unauthorized actor")
		b.answer(cq.ID, "❌ У вас нет прав администратора")
		return
	}

	var token string
	var approve bool
	switch {
	case strings.HasPrefix(cq.Data, callbackApprovePrefix):
		token = strings.TrimPrefix(cq.Data, callbackApprovePrefix)
		approve = true
	case strings.HasPrefix(cq.Data, callbackDenyPrefix):
		token = strings.TrimPrefix(cq.Data, callbackDenyPrefix)
	default:
		b.logger.Warn().Str("data", cq.Data).Msg("Unknown callback data")
		b.answer(cq.ID, "")
		return
	}

	var applied bool
	var err error
	if approve {
		applied, err = b.store.Approve(ctx, token, cq.From.ID)
	} else {
		applied, err = b.store.Reject(ctx, token, cq.From.ID)
	}
	if err != nil {
		b.logger.Error().Err(err).Str("token", authflow.Abbrev(token)).Msg("Failed to apply decision")
		b.answer(cq.ID, "⚠️ Ошибка, попробуйте еще раз")
		return
	}

	if !applied {
		// Stale click: the session is unknown, expired or already decided
		b.answer(cq.ID, "Запрос уже обработан или истек")
		return
	}

	b.answer(cq.ID, "")

	var text string
	if approve {
		text = fmt.Sprintf(
			"✅ Доступ разрешен\n🔑 Токен: %s\n\nПользователь будет автоматически перенаправлен в админ-панель.",
			authflow.Abbrev(token),
		)
	} else {
		text = fmt.Sprintf(
			"❌ Доступ отклонен\n🔑 Токен: %s\n\nПользователь получит уведомление об отказе.",
			authflow.Abbrev(token),
		)
	}

	if cq.Message != nil {
		edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, text)
		if _, err := b.api.Request(edit); err != nil {
			b.logger.Warn().Err(err).Msg("Failed to edit approval message")
		}
	}
}

// answer acknowledges a callback query so the approver's client stops
// showing a spinner
func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to answer callback query")
	}
}
