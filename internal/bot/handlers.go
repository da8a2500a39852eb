package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackSelectGame   = "select_game:"
	callbackCancelSearch = "cancel_search"
	callbackRegion       = "region:"
	callbackMenu         = "menu_"

	// Telegram rejects photo captions longer than this.
	maxCaptionRunes = 1024
)

func (b *Bot) sendMessage(chatID int64, text string, parseMode string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	sent, err := b.api.Send(msg)
	if err != nil {
		b.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
	return sent, err
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, parseMode string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	msg.ReplyMarkup = keyboard
	sent, err := b.api.Send(msg)
	if err != nil {
		b.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
	return sent, err
}

// editMessage replaces the text of messageID. A nil keyboard removes any buttons.
func (b *Bot) editMessage(chatID int64, messageID int, text string, parseMode string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = parseMode
	edit.ReplyMarkup = keyboard
	_, err := b.api.Request(edit)
	if err != nil {
		b.logger.Error("failed to edit message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
	return err
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.logger.Warn("failed to delete message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}

func (b *Bot) answerCallback(queryID string, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Warn("failed to answer callback", "error", err)
	}
}

// sendSearchPrompt asks for a game name with a cancel button under it.
func (b *Bot) sendSearchPrompt(chatID int64, lang, text string) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get(lang, "button_cancel_search"), callbackCancelSearch),
		),
	)
	b.sendWithKeyboard(chatID, text, tgbotapi.ModeMarkdown, keyboard)
}

func (b *Bot) mainMenuKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get(lang, "button_search"), callbackMenu+"search"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get(lang, "button_region"), callbackMenu+"region"),
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get(lang, "button_help"), callbackMenu+"help"),
		),
	)
}
