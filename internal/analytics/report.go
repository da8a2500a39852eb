package analytics

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// Report is a titled block of preformatted text.
type Report struct {
	Title string
	Body  string
}

// HTML renders the report for Telegram's HTML parse mode.
func (r Report) HTML() string {
	return fmt.Sprintf("<b>%s</b>\n<pre>%s</pre>", html.EscapeString(r.Title), html.EscapeString(r.Body))
}

func (r Report) Plain() string {
	return r.Title + "\n\n" + r.Body
}

// Kinds lists the report names accepted by Build, in menu order.
var Kinds = []string{"stats", "top", "playtime", "genres", "correlation", "skewness"}

// Build produces the named report.
func Build(d *Dataset, kind string) (Report, error) {
	switch kind {
	case "stats":
		return BasicStatsReport(d), nil
	case "top":
		return TopGamesReport(d, 10), nil
	case "playtime":
		return PlaytimeReport(d, 20), nil
	case "genres":
		return GenreReport(d), nil
	case "correlation":
		return CorrelationReport(d)
	case "skewness":
		return SkewnessReport(d)
	default:
		return Report{}, fmt.Errorf("unknown report %q (want one of %s)", kind, strings.Join(Kinds, ", "))
	}
}

const barWidth = 20

func bar(value, max float64) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	n := int(math.Round(value / max * barWidth))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func BasicStatsReport(d *Dataset) Report {
	st := d.BasicStats()
	var b strings.Builder
	fmt.Fprintf(&b, "Игроков:          %d\n", st.Players)
	fmt.Fprintf(&b, "Игр:              %d\n", st.Games)
	fmt.Fprintf(&b, "Жанров:           %d\n", st.Genres)
	fmt.Fprintf(&b, "Всего часов:      %.0f\n", st.TotalHours)
	fmt.Fprintf(&b, "Среднее время:    %.1f ч\n", st.AvgPlaytime)
	fmt.Fprintf(&b, "Максимум:         %.0f ч", st.MaxPlaytime)
	return Report{Title: "📊 Общая статистика", Body: b.String()}
}

func TopGamesReport(d *Dataset, n int) Report {
	top := d.TopGames(n)
	width := 0
	for _, c := range top {
		width = max(width, len([]rune(c.Name)))
	}
	var b strings.Builder
	for i, c := range top {
		name := c.Name + strings.Repeat(" ", width-len([]rune(c.Name)))
		fmt.Fprintf(&b, "%2d. %s %s %d\n", i+1, name, bar(float64(c.Count), float64(top[0].Count)), c.Count)
	}
	return Report{
		Title: fmt.Sprintf("🏆 ТОП %d игр, в которые играют мои друзья", len(top)),
		Body:  strings.TrimRight(b.String(), "\n"),
	}
}

func PlaytimeReport(d *Dataset, bins int) Report {
	hist := d.PlaytimeHistogram(bins)
	peak := 0
	for _, h := range hist {
		peak = max(peak, h.Count)
	}
	var b strings.Builder
	for _, h := range hist {
		fmt.Fprintf(&b, "%7.1f–%-7.1f %s %d\n", h.Lo, h.Hi, bar(float64(h.Count), float64(peak)), h.Count)
	}
	return Report{Title: "⏱ Распределение времени игры (часы)", Body: strings.TrimRight(b.String(), "\n")}
}

func GenreReport(d *Dataset) Report {
	genres := d.GenreBreakdown()
	var b strings.Builder
	b.WriteString("Доля записей по жанрам:\n")
	for _, g := range genres {
		fmt.Fprintf(&b, "%-14s %5.1f%% %s\n", g.Genre, g.Share*100, bar(g.Share, genres[0].Share))
	}
	b.WriteString("\nВремя игры по жанрам (мин / Q1 / медиана / Q3 / макс):\n")
	for _, g := range genres {
		fmt.Fprintf(&b, "%-14s %.0f / %.0f / %.0f / %.0f / %.0f\n", g.Genre, g.Min, g.Q1, g.Median, g.Q3, g.Max)
	}
	return Report{Title: "🎭 Анализ по жанрам", Body: strings.TrimRight(b.String(), "\n")}
}

var strengthLabels = map[Strength]string{
	StrengthStrong:   "сильная",
	StrengthModerate: "умеренная",
	StrengthWeak:     "слабая",
	StrengthVeryWeak: "очень слабая",
}

func CorrelationReport(d *Dataset) (Report, error) {
	c, err := d.PlaytimeAchievementCorrelation()
	if err != nil {
		return Report{}, fmt.Errorf("correlation: %w", err)
	}
	direction := "отрицательная"
	if c.Positive {
		direction = "положительная"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Коэффициент Пирсона: %.3f\n", c.R)
	fmt.Fprintf(&b, "Связь: %s, %s\n\n", strengthLabels[c.Strength], direction)
	b.WriteString("Группа по времени игры   среднее достижений  записей\n")
	for _, g := range c.Groups {
		avg := "—"
		if !math.IsNaN(g.MeanAchievements) {
			avg = fmt.Sprintf("%.1f", g.MeanAchievements)
		}
		fmt.Fprintf(&b, "(%7.1f, %7.1f]       %10s  %7d\n", g.Lo, g.Hi, avg, g.Count)
	}
	return Report{Title: "🔗 Время игры и достижения", Body: strings.TrimRight(b.String(), "\n")}, nil
}

func SkewnessReport(d *Dataset) (Report, error) {
	s, err := d.PlaytimeSkewness()
	if err != nil {
		return Report{}, fmt.Errorf("skewness: %w", err)
	}
	var verdict string
	switch {
	case math.Abs(s) < 0.5:
		verdict = "распределение близко к симметричному"
	case s > 0:
		verdict = "правосторонняя асимметрия: большинство играет мало, немногие — очень много"
	default:
		verdict = "левосторонняя асимметрия: большинство играет много"
	}
	body := fmt.Sprintf("Коэффициент асимметрии: %.3f\n%s", s, verdict)
	return Report{Title: "📐 Асимметрия времени игры", Body: body}, nil
}
