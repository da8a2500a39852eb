package bot

import (
	"context"
	"strings"

	"game-checker-bot/internal/conversation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message, c *caller) {
	switch cmd := message.Command(); cmd {
	case "start":
		b.handleStartCommand(message, c)
	case "help":
		b.handleHelpCommand(message, c)
	case "search":
		b.handleSearchCommand(message, c)
	case "cancel":
		b.handleCancelCommand(message, c)
	case "region":
		b.handleRegionCommand(message, c)
	case "stats", "top", "playtime", "genres", "correlation", "skewness":
		b.handleReportCommand(message, c, cmd)
	default:
	}
}

func (b *Bot) handleStartCommand(message *tgbotapi.Message, c *caller) {
	b.logger.Info("user started the bot", "username", message.From.UserName)

	text := strings.Replace(b.localizer.Get(c.lang, "start_welcome"), "{name}", message.From.FirstName, 1)
	b.sendWithKeyboard(message.Chat.ID, text, "", b.mainMenuKeyboard(c.lang))
}

func (b *Bot) handleHelpCommand(message *tgbotapi.Message, c *caller) {
	b.logger.Info("user asked for help", "first_name", message.From.FirstName)
	b.sendMessage(message.Chat.ID, b.localizer.Get(c.lang, "help_text"), "")
}

func (b *Bot) handleSearchCommand(message *tgbotapi.Message, c *caller) {
	b.beginSearch(message.Chat.ID, c)
}

func (b *Bot) beginSearch(chatID int64, c *caller) {
	b.states.Begin(c.user.ID, chatID)
	b.logger.Info("user started a search", "first_name", c.user.FirstName, "region", c.region)
	b.sendSearchPrompt(chatID, c.lang, b.localizer.Get(c.lang, "search_prompt"))
}

func (b *Bot) handleCancelCommand(message *tgbotapi.Message, c *caller) {
	chatID := message.Chat.ID
	state := b.states.Get(c.user.ID)
	if !state.Searching() {
		b.sendMessage(chatID, b.localizer.Get(c.lang, "search_nothing_to_cancel"), "")
		return
	}

	b.states.Reset(c.user.ID)
	if state.Status == conversation.StatusAwaitingChoice && state.MessageID != 0 {
		// the stale menu would otherwise still accept clicks
		b.editMessage(state.ChatID, state.MessageID, b.localizer.Get(c.lang, "search_cancelled"), "", nil)
		return
	}
	b.sendMessage(chatID, b.localizer.Get(c.lang, "search_cancelled"), "")
}
