// Package telegram adapts the dialog engine to the Telegram Bot API. It maps
// incoming updates onto dialog events, feeds them to the engine, and renders
// the resulting effects back as messages.
package telegram

import (
	"context"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/cancelitnow/cancelbot/internal/dialog"
)

const pollTimeoutSeconds = 30

// Bot is the long-polling Telegram front end.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine *dialog.Engine
	logger *slog.Logger
}

// New authenticates against the Bot API and returns a ready bot.
func New(token string, engine *dialog.Engine, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	logger.Info("authorized with telegram", "username", api.Self.UserName)
	return &Bot{api: api, engine: engine, logger: logger}, nil
}

// Run consumes updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ev, chatID, ok := mapUpdate(update)
	if !ok {
		return
	}

	if update.CallbackQuery != nil {
		// Acknowledge the tap so the client stops its spinner.
		if _, err := b.api.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "")); err != nil {
			b.logger.Warn("failed to answer callback", "error", err)
		}
	}

	for _, effect := range b.engine.Handle(ctx, ev) {
		msg := RenderEffect(chatID, effect)
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Error("failed to send message", "chat", chatID, "error", err)
		}
	}
}

// mapUpdate converts one Telegram update to a dialog event. Updates the bot
// does not care about (edits, channel posts) are dropped.
func mapUpdate(update tgbotapi.Update) (dialog.Event, int64, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		msg := update.Message
		owner := strconv.FormatInt(msg.From.ID, 10)
		chatID := msg.Chat.ID

		if msg.IsCommand() {
			switch msg.Command() {
			case "start":
				return dialog.SessionStart{OwnerID: owner, Label: ownerLabel(msg.From)}, chatID, true
			case "menu":
				return dialog.Selection{OwnerID: owner, ChoiceID: dialog.ChoiceMenu}, chatID, true
			default:
				// Unknown commands take the engine's fallback path.
				return dialog.TextInput{OwnerID: owner, Text: msg.Text}, chatID, true
			}
		}
		return dialog.TextInput{OwnerID: owner, Text: msg.Text}, chatID, true

	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		cb := update.CallbackQuery
		owner := strconv.FormatInt(cb.From.ID, 10)
		var chatID int64
		if cb.Message != nil {
			chatID = cb.Message.Chat.ID
		}
		return dialog.Selection{OwnerID: owner, ChoiceID: cb.Data}, chatID, true
	}
	return nil, 0, false
}

func ownerLabel(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}
