package bot

import (
	"errors"

	"game-checker-bot/internal/analytics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleReportCommand answers one of the friends' dataset reports. The
// dataset is read on every call so edits to the CSV show up without a restart.
func (b *Bot) handleReportCommand(message *tgbotapi.Message, c *caller, kind string) {
	chatID := message.Chat.ID

	ds, err := analytics.Load(b.cfg.DatasetPath)
	if err != nil {
		b.logger.Error("failed to load dataset", "path", b.cfg.DatasetPath, "error", err)
		b.sendMessage(chatID, b.localizer.Get(c.lang, "dataset_error"), "")
		return
	}

	report, err := analytics.Build(ds, kind)
	if err != nil {
		if errors.Is(err, analytics.ErrNotEnoughData) {
			b.logger.Warn("report skipped", "kind", kind, "error", err)
		} else {
			b.logger.Error("failed to build report", "kind", kind, "error", err)
		}
		b.sendMessage(chatID, b.localizer.Get(c.lang, "report_error"), "")
		return
	}
	b.sendMessage(chatID, report.HTML(), tgbotapi.ModeHTML)
}
