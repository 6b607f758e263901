package telegram

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/Irakli288/my-portfolio/internal/authflow"
	"github.com/Irakli288/my-portfolio/internal/config"
)

// transportTimeout bounds every Bot API call so a dead Telegram
// endpoint can never hold up the request that triggered it.
const transportTimeout = 5 * time.Second

// botAPI is the slice of tgbotapi.BotAPI the notifier and receiver use.
// Tests substitute a fake.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Notifier delivers access-request notifications to the configured
// approver chat. Delivery is best-effort: callers are expected to log
// and discard the returned error rather than fail the web request.
type Notifier struct {
	api    botAPI
	cfg    config.TelegramConfig
	logger zerolog.Logger
}

// NewNotifier connects to the Bot API with a bounded-timeout client
func NewNotifier(cfg config.TelegramConfig, logger zerolog.Logger) (*Notifier, error) {
	client := &http.Client{Timeout: transportTimeout}
	api, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	return newNotifier(api, cfg, logger), nil
}

func newNotifier(api botAPI, cfg config.TelegramConfig, logger zerolog.Logger) *Notifier {
	return &Notifier{
		api:    api,
		cfg:    cfg,
		logger: logger.With().Str("component", "telegram_notifier").Logger(),
	}
}

// NotifyApprover sends exactly one message for the access request,
// with inline approve/deny buttons correlated by the session token.
// No retry, no delivery guarantee.
func (n *Notifier) NotifyApprover(token, label, userAgent string) error {
	if len(userAgent) > 50 {
		userAgent = userAgent[:50] + "..."
	}

	text := fmt.Sprintf(
		"🔐 Запрос доступа к админ-панели\n\n"+
			"🌐 %s\n"+
			"🖥️ User Agent: %s\n"+
			"🔑 Session: %s\n\n"+
			"Разрешить доступ?",
		label, userAgent, authflow.Abbrev(token),
	)

	msg := tgbotapi.NewMessage(n.cfg.ApproverID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Разрешить", callbackApprovePrefix+token),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", callbackDenyPrefix+token),
		),
	)

	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send approval request: %w", err)
	}

	n.logger.Info().
		Str("token", authflow.Abbrev(token)).
		Int64("chat_id", n.cfg.ApproverID).
		Msg("Approval request sent")

	return nil
}
