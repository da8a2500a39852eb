package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery, c *caller) {
	data := query.Data
	b.logger.Info("received callback", "username", query.From.UserName, "data", data)

	switch {
	case strings.HasPrefix(data, callbackSelectGame):
		b.handleSelectGame(ctx, query, c)
	case data == callbackCancelSearch:
		b.handleCancelSearch(query, c)
	case strings.HasPrefix(data, callbackRegion):
		b.handleRegionCallback(query, c)
	case strings.HasPrefix(data, callbackMenu):
		b.handleMenuCallback(query, c)
	default:
		b.answerCallback(query.ID, "", false)
	}
}

// handleMenuCallback serves the buttons under the /start greeting.
func (b *Bot) handleMenuCallback(query *tgbotapi.CallbackQuery, c *caller) {
	chatID := query.Message.Chat.ID
	b.answerCallback(query.ID, "", false)

	switch strings.TrimPrefix(query.Data, callbackMenu) {
	case "search":
		b.beginSearch(chatID, c)
	case "region":
		b.sendRegionMenu(chatID, c)
	case "help":
		b.sendMessage(chatID, b.localizer.Get(c.lang, "help_text"), "")
	}
}
