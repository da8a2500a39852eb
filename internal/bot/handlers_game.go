package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"game-checker-bot/internal/present"
	"game-checker-bot/internal/steam"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const minQueryRunes = 2

// handleGameName runs one search for free text typed while a search is open.
func (b *Bot) handleGameName(ctx context.Context, message *tgbotapi.Message, c *caller) {
	chatID := message.Chat.ID
	query := strings.TrimSpace(message.Text)

	if utf8.RuneCountInString(query) < minQueryRunes {
		b.sendSearchPrompt(chatID, c.lang, b.localizer.Get(c.lang, "search_too_short"))
		return
	}

	args := map[string]string{"query": present.Bold(query)}
	placeholder, err := b.sendMessage(chatID, b.localizer.Format(c.lang, "search_in_progress", args), tgbotapi.ModeMarkdown)
	if err != nil {
		return
	}

	candidates, err := b.resolver.Resolve(ctx, query, c.region)
	if err != nil {
		b.deleteMessage(chatID, placeholder.MessageID)
		switch {
		case steam.IsTransport(err):
			b.sendSearchPrompt(chatID, c.lang, b.localizer.Get(c.lang, "search_unavailable"))
		case errors.Is(err, steam.ErrNotFound):
			args["suggestion"] = steam.SuggestionFor(query)
			args["region_notice"] = steam.RegionNotice(c.region)
			b.sendSearchPrompt(chatID, c.lang, b.localizer.Format(c.lang, "search_not_found", args))
		default:
			b.logger.Error("advanced search error", "query", query, "error", err)
			b.sendSearchPrompt(chatID, c.lang, b.localizer.Get(c.lang, "search_failed"))
		}
		return
	}

	if len(candidates) > 1 {
		b.showGameOptions(chatID, placeholder.MessageID, query, candidates, c)
		return
	}

	b.states.Reset(c.user.ID)
	b.processFoundGame(ctx, chatID, placeholder.MessageID, candidates[0], c)
}

// showGameOptions turns the placeholder into a menu of at most
// steam.SearchLimit candidates plus a cancel button.
func (b *Bot) showGameOptions(chatID int64, messageID int, query string, candidates []steam.SearchCandidate, c *caller) {
	if len(candidates) > steam.SearchLimit {
		candidates = candidates[:steam.SearchLimit]
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, game := range candidates {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(present.CandidateLabel(game.Name), callbackSelectGame+strconv.Itoa(game.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get(c.lang, "button_cancel"), callbackCancelSearch),
	))
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)

	if err := b.editMessage(chatID, messageID, b.localizer.Get(c.lang, "search_choose"), tgbotapi.ModeMarkdown, &keyboard); err != nil {
		b.sendSearchPrompt(chatID, c.lang, b.localizer.Get(c.lang, "search_failed"))
		return
	}
	b.states.AwaitChoice(c.user.ID, chatID, query, messageID, candidates)
}

// processFoundGame shows a single search hit in place of the placeholder. If
// the details cannot be loaded the user is sent back to typing a name.
func (b *Bot) processFoundGame(ctx context.Context, chatID int64, messageID int, game steam.SearchCandidate, c *caller) {
	detail, err := b.fetcher.Fetch(ctx, game.ID, c.region)
	if err != nil {
		b.states.Begin(c.user.ID, chatID)
		args := map[string]string{"name": present.Bold(game.Name)}
		b.sendSearchPrompt(chatID, c.lang, b.localizer.Format(c.lang, "details_failed_retry", args))
		b.deleteMessage(chatID, messageID)
		return
	}
	b.showGame(chatID, messageID, detail, c.region)
}

// showGame posts the rendered card. With a header image it goes out as a
// photo and the placeholder is removed; otherwise, or if the photo is
// rejected, the placeholder is edited into the card.
func (b *Bot) showGame(chatID int64, messageID int, detail *steam.GameDetail, region string) {
	text := present.Render(detail, region)

	if detail.HeaderImage != "" && utf8.RuneCountInString(text) <= maxCaptionRunes {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(detail.HeaderImage))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeMarkdown
		_, err := b.api.Send(photo)
		if err == nil {
			b.deleteMessage(chatID, messageID)
			return
		}
		b.logger.Warn("failed to send game photo, falling back to text", "app_id", detail.ID, "error", err)
	}
	b.editMessage(chatID, messageID, text, tgbotapi.ModeMarkdown, nil)
}

// handleSelectGame loads the candidate picked from the menu.
func (b *Bot) handleSelectGame(ctx context.Context, query *tgbotapi.CallbackQuery, c *caller) {
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	id, err := strconv.Atoi(strings.TrimPrefix(query.Data, callbackSelectGame))
	if err != nil {
		b.logger.Error("game selection error", "data", query.Data, "error", err)
		b.answerCallback(query.ID, b.localizer.Get(c.lang, "callback_load_error"), false)
		return
	}

	b.states.Reset(c.user.ID)
	b.answerCallback(query.ID, "", false)
	b.editMessage(chatID, messageID, b.localizer.Get(c.lang, "details_loading"), "", nil)

	detail, err := b.fetcher.Fetch(ctx, id, c.region)
	if err != nil {
		b.editMessage(chatID, messageID, b.localizer.Get(c.lang, "details_failed"), "", nil)
		return
	}
	b.showGame(chatID, messageID, detail, c.region)
}

func (b *Bot) handleCancelSearch(query *tgbotapi.CallbackQuery, c *caller) {
	b.states.Reset(c.user.ID)
	b.editMessage(query.Message.Chat.ID, query.Message.MessageID, b.localizer.Get(c.lang, "search_cancelled"), "", nil)
	b.answerCallback(query.ID, b.localizer.Get(c.lang, "callback_cancelled"), false)
}
