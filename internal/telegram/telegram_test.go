package telegram

import (
	"context"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Irakli288/my-portfolio/internal/authflow"
	"github.com/Irakli288/my-portfolio/internal/config"
	"github.com/Irakli288/my-portfolio/internal/models"
)

const approverID int64 = 180587749

// fakeAPI records outbound Bot API calls instead of shipping them
type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) edits() []tgbotapi.EditMessageTextConfig {
	var edits []tgbotapi.EditMessageTextConfig
	for _, r := range f.requests {
		if e, ok := r.(tgbotapi.EditMessageTextConfig); ok {
			edits = append(edits, e)
		}
	}
	return edits
}

func newTestStore(t *testing.T) *authflow.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	return authflow.NewStore(db, zerolog.Nop())
}

func callback(actorID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		From: &tgbotapi.User{ID: actorID},
		Message: &tgbotapi.Message{
			MessageID: 7,
			Chat:      &tgbotapi.Chat{ID: approverID},
		},
		Data: data,
	}
}

func TestNotifierSendsApprovalKeyboard(t *testing.T) {
	api := &fakeAPI{}
	cfg := config.TelegramConfig{ApproverID: approverID}
	n := newNotifier(api, cfg, zerolog.Nop())

	token := authflow.NewToken()
	err := n.NotifyApprover(token, "Web user from 1.2.3.4", "Mozilla/5.0")
	require.NoError(t, err)
	require.Len(t, api.sent, 1)

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	require.Equal(t, approverID, msg.ChatID)
	require.Contains(t, msg.Text, "Web user from 1.2.3.4")

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	require.Equal(t, "approve_"+token, *markup.InlineKeyboard[0][0].CallbackData)
	require.Equal(t, "deny_"+token, *markup.InlineKeyboard[0][1].CallbackData)
}

func TestApproveCallback(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{}
	bot := newBot(api, store, approverID, zerolog.Nop())
	ctx := context.Background()

	token := authflow.NewToken()
	_, err := store.Create(ctx, token, "web user")
	require.NoError(t, err)

	bot.handleCallback(ctx, callback(approverID, "approve_"+token))

	session, err := store.Get(ctx, token)
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, session.Status)
	require.Equal(t, approverID, session.ApproverID)

	edits := api.edits()
	require.Len(t, edits, 1)
	require.Contains(t, edits[0].Text, "Доступ разрешен")
}

func TestDenyCallback(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{}
	bot := newBot(api, store, approverID, zerolog.Nop())
	ctx := context.Background()

	token := authflow.NewToken()
	_, err := store.Create(ctx, token, "web user")
	require.NoError(t, err)

	bot.handleCallback(ctx, callback(approverID, "deny_"+token))

	session, err := store.Get(ctx, token)
	require.NoError(t, err)
	require.Equal(t, models.StatusRejected, session.Status)

	edits := api.edits()
	require.Len(t, edits, 1)
	require.Contains(t, edits[0].Text, "Доступ отклонен")
}

func TestUnauthorizedActorMutatesNothing(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{}
	bot := newBot(api, store, approverID, zerolog.Nop())
	ctx := context.Background()

	token := authflow.NewToken()
	_, err := store.Create(ctx, token, "web user")
	require.NoError(t, err)

	bot.handleCallback(ctx, callback(approverID+1, "approve_"+token))

	// Still pending: a stranger's click changes nothing
	session, err := store.Get(ctx, token)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, session.Status)
	require.Equal(t, int64(0), session.ApproverID)

	require.Empty(t, api.edits())

	// The actor does get told off
	require.Len(t, api.requests, 1)
	cb, ok := api.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	require.True(t, strings.Contains(cb.Text, "нет прав"))
}

func TestDuplicateDecisionAcknowledgedAsNoop(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{}
	bot := newBot(api, store, approverID, zerolog.Nop())
	ctx := context.Background()

	token := authflow.NewToken()
	_, err := store.Create(ctx, token, "web user")
	require.NoError(t, err)

	bot.handleCallback(ctx, callback(approverID, "approve_"+token))
	api.requests = nil

	// The approver clicks deny on the stale message
	bot.handleCallback(ctx, callback(approverID, "deny_"+token))

	session, err := store.Get(ctx, token)
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, session.Status)

	// Acknowledged, not edited
	require.Empty(t, api.edits())
	require.Len(t, api.requests, 1)
	cb, ok := api.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	require.Contains(t, cb.Text, "уже обработан")
}

func TestUnknownCallbackDataIgnored(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{}
	bot := newBot(api, store, approverID, zerolog.Nop())

	bot.handleCallback(context.Background(), callback(approverID, "something_else"))

	require.Empty(t, api.edits())
}
