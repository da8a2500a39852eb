package bot

import (
	"context"

	"game-checker-bot/internal/config"
	"game-checker-bot/internal/i18n"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// caller is who sent an update, resolved once per update.
type caller struct {
	user   *config.User
	region string
	lang   string
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil && update.CallbackQuery == nil {
		return
	}

	var from *tgbotapi.User
	var message *tgbotapi.Message
	if update.Message != nil {
		from = update.Message.From
		message = update.Message
	} else {
		from = update.CallbackQuery.From
		message = update.CallbackQuery.Message
	}
	if from == nil || message == nil || message.Chat == nil {
		return
	}

	c := b.callerFor(from)

	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery, c)
		return
	}

	b.logger.Info("received message", "username", from.UserName, "chat_id", message.Chat.ID, "chat_type", message.Chat.Type, "text", message.Text)

	if message.IsCommand() {
		b.handleCommand(ctx, message, c)
		return
	}
	if b.states.Get(from.ID).Searching() {
		b.handleGameName(ctx, message, c)
	}
}

// callerFor records the user in the store and picks up their region. A store
// failure is logged and the default region is used.
func (b *Bot) callerFor(from *tgbotapi.User) *caller {
	user := &config.User{ID: from.ID, FirstName: from.FirstName, Username: from.UserName}
	c := &caller{user: user, region: b.cfg.DefaultRegion, lang: i18n.LangFor(from.LanguageCode)}

	rec, err := b.store.Touch(user)
	if err != nil {
		b.logger.Error("could not process user", "user_id", from.ID, "error", err)
		return c
	}
	if rec.Region != "" {
		c.region = rec.Region
	}
	return c
}

