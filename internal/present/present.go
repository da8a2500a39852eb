// Package present renders storefront data as Telegram Markdown messages.
package present

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"game-checker-bot/internal/steam"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	FreeMarker        = "🤑 Бесплатно 🤑"
	ComingSoonMarker  = "🕐 Скоро выйдет"
	Unknown           = "Неизвестно"
	GenresUnspecified = "Не указаны"
	NoScore           = "Оценка не указана"
	NoDescription     = "Описание отсутствует"
	Ellipsis          = "..."
	FormatFailed      = "❌ Ошибка при форматировании информации об игре"

	MaxDescriptionRunes = 400
	MaxLabelRunes       = 35

	StoreAppURL = "https://store.steampowered.com/app/"
)

// Render formats detail for chat. It never returns partial output: any
// failure yields FormatFailed.
func Render(detail *steam.GameDetail, region string) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("format error", "panic", r)
			msg = FormatFailed
		}
	}()
	if detail == nil {
		slog.Error("format error", "error", "nil game detail")
		return FormatFailed
	}

	name := detail.Name
	if name == "" {
		name = Unknown
	}
	slog.Info("formatting game info", "name", name, "region", region)

	var price string
	if p := detail.PriceOverview; p != nil {
		final := p.FinalFormatted
		if final == "" {
			final = "Бесплатно"
		}
		price = "💰 " + final
		if p.DiscountPercent > 0 {
			price += fmt.Sprintf(" (скидка %d%% 🔥)", p.DiscountPercent)
		}
	} else {
		price = FreeMarker
	}

	var release string
	if detail.ReleaseDate.ComingSoon {
		release = ComingSoonMarker
	} else {
		date := detail.ReleaseDate.Date
		if date == "" {
			date = Unknown
		}
		release = "📅 " + date
	}

	developers := joinOr(detail.Developers, Unknown)
	publishers := joinOr(detail.Publishers, Unknown)

	genres := make([]string, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		genres = append(genres, g.Description)
	}
	genresStr := joinOr(genres, GenresUnspecified)

	score := NoScore
	if detail.Metacritic != nil {
		score = "⭐️ " + strconv.Itoa(detail.Metacritic.Score)
	}

	description := detail.ShortDescription
	if description == "" {
		description = NoDescription
	}
	description = Truncate(description, MaxDescriptionRunes)

	appID := ""
	if detail.SteamAppID != 0 {
		appID = strconv.Itoa(detail.SteamAppID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎮 *%s*\n\n", Bold(name))
	fmt.Fprintf(&b, "%s\n%s\n%s\n🌍 Регион: %s\n\n", price, release, score, region)
	fmt.Fprintf(&b, "*Разработчик:* %s\n", Escape(developers))
	fmt.Fprintf(&b, "*Издатель:* %s\n", Escape(publishers))
	fmt.Fprintf(&b, "*Жанры:* %s\n\n", Escape(genresStr))
	fmt.Fprintf(&b, "📖 *Описание:*\n%s\n\n", Escape(description))
	fmt.Fprintf(&b, "[Открыть в Steam](%s%s)", StoreAppURL, appID)
	return b.String()
}

// Truncate cuts s to max runes and appends Ellipsis. It may split a word.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + Ellipsis
}

// CandidateLabel is the disambiguation button text for a search hit.
func CandidateLabel(name string) string {
	r := []rune(name)
	if len(r) > MaxLabelRunes {
		name = string(r[:MaxLabelRunes-3]) + Ellipsis
	}
	return "🎮 " + name
}

func joinOr(items []string, fallback string) string {
	s := strings.Join(items, ", ")
	if s == "" {
		return fallback
	}
	return s
}

// Escape quotes s for Telegram legacy Markdown. Use it only outside entities.
func Escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// Bold prepares s for use between *...*. Legacy Markdown ignores backslash
// escapes inside an entity, so the only thing to do is drop the asterisks.
func Bold(s string) string {
	return strings.ReplaceAll(s, "*", "")
}
