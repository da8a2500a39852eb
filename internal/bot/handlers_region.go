package bot

import (
	"strings"

	"game-checker-bot/internal/steam"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// regionsPerRow is the number of region buttons per keyboard row.
const regionsPerRow = 4

func (b *Bot) handleRegionCommand(message *tgbotapi.Message, c *caller) {
	b.sendRegionMenu(message.Chat.ID, c)
}

func (b *Bot) sendRegionMenu(chatID int64, c *caller) {
	text := b.localizer.Format(c.lang, "region_current", map[string]string{"region": c.region})
	b.sendWithKeyboard(chatID, text, tgbotapi.ModeMarkdown, b.regionKeyboard(c.region))
}

func (b *Bot) regionKeyboard(current string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, code := range b.resolver.Regions().Codes() {
		label := code
		if code == current {
			label = "✅ " + code
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, callbackRegion+code))
		if len(row) == regionsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) handleRegionCallback(query *tgbotapi.CallbackQuery, c *caller) {
	code := strings.TrimPrefix(query.Data, callbackRegion)
	if !b.resolver.Regions().IsKnown(code) {
		b.answerCallback(query.ID, b.localizer.Get(c.lang, "region_unknown"), true)
		return
	}

	if err := b.store.SetRegion(c.user, code); err != nil {
		b.logger.Error("failed to save region", "user_id", c.user.ID, "region", code, "error", err)
		b.answerCallback(query.ID, b.localizer.Get(c.lang, "region_save_error"), true)
		return
	}
	b.logger.Info("region changed", "user_id", c.user.ID, "region", code)

	text := b.localizer.Format(c.lang, "region_changed", map[string]string{"region": code}) + "\n" + steam.RegionNotice(code)
	b.editMessage(query.Message.Chat.ID, query.Message.MessageID, text, tgbotapi.ModeMarkdown, nil)
	b.answerCallback(query.ID, "", false)
}
