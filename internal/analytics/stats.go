package analytics

import (
	"errors"
	"math"
	"sort"
)

var ErrNotEnoughData = errors.New("not enough data")

type BasicStats struct {
	Players     int
	Games       int
	Genres      int
	TotalHours  float64
	AvgPlaytime float64
	MaxPlaytime float64
}

func (d *Dataset) BasicStats() BasicStats {
	players := map[string]struct{}{}
	games := map[string]struct{}{}
	genres := map[string]struct{}{}
	var st BasicStats
	for i, r := range d.Records {
		players[r.Nick] = struct{}{}
		games[r.Game] = struct{}{}
		genres[r.Genre] = struct{}{}
		st.TotalHours += r.Playtime
		if i == 0 || r.Playtime > st.MaxPlaytime {
			st.MaxPlaytime = r.Playtime
		}
	}
	st.Players, st.Games, st.Genres = len(players), len(games), len(genres)
	if n := len(d.Records); n > 0 {
		st.AvgPlaytime = st.TotalHours / float64(n)
	}
	return st
}

// Count is a label with its number of rows.
type Count struct {
	Name  string
	Count int
}

// countBy counts rows per key, most frequent first; ties keep first appearance.
func countBy(records []Record, key func(Record) string) []Count {
	idx := map[string]int{}
	var out []Count
	for _, r := range records {
		k := key(r)
		if i, ok := idx[k]; ok {
			out[i].Count++
			continue
		}
		idx[k] = len(out)
		out = append(out, Count{Name: k, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// TopGames returns the n games owned by the most players.
func (d *Dataset) TopGames(n int) []Count {
	counts := countBy(d.Records, func(r Record) string { return r.Game })
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

type Bin struct {
	Lo, Hi float64
	Count  int
}

// PlaytimeHistogram splits the playtime range into equal-width bins; the
// last bin is closed on the right.
func (d *Dataset) PlaytimeHistogram(bins int) []Bin {
	if bins <= 0 || len(d.Records) == 0 {
		return nil
	}
	values := d.playtimes()
	lo, hi := minMax(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo = lo + float64(i)*width
		out[i].Hi = lo + float64(i+1)*width
	}
	out[bins-1].Hi = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

type GenreStats struct {
	Genre  string
	Count  int
	Share  float64 // 0..1
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// GenreBreakdown returns each genre's share of rows and the five-number
// summary of its playtime, most common genre first.
func (d *Dataset) GenreBreakdown() []GenreStats {
	counts := countBy(d.Records, func(r Record) string { return r.Genre })
	byGenre := map[string][]float64{}
	for _, r := range d.Records {
		byGenre[r.Genre] = append(byGenre[r.Genre], r.Playtime)
	}
	total := float64(len(d.Records))
	out := make([]GenreStats, 0, len(counts))
	for _, c := range counts {
		v := append([]float64(nil), byGenre[c.Name]...)
		sort.Float64s(v)
		out = append(out, GenreStats{
			Genre:  c.Name,
			Count:  c.Count,
			Share:  float64(c.Count) / total,
			Min:    v[0],
			Q1:     quantile(v, 0.25),
			Median: quantile(v, 0.5),
			Q3:     quantile(v, 0.75),
			Max:    v[len(v)-1],
		})
	}
	return out
}

type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
	StrengthVeryWeak Strength = "very_weak"
)

type PlaytimeGroup struct {
	Lo, Hi           float64 // (Lo, Hi]
	MeanAchievements float64 // NaN for an empty group
	Count            int
}

type Correlation struct {
	R        float64
	Strength Strength
	Positive bool
	Groups   []PlaytimeGroup
}

const correlationGroups = 5

// PlaytimeAchievementCorrelation computes Pearson's r between playtime and
// achievements and the mean achievements per equal-width playtime group.
func (d *Dataset) PlaytimeAchievementCorrelation() (Correlation, error) {
	if len(d.Records) < 2 {
		return Correlation{}, ErrNotEnoughData
	}
	x := d.playtimes()
	y := make([]float64, len(d.Records))
	for i, r := range d.Records {
		y[i] = r.Achievements
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return Correlation{}, ErrNotEnoughData
	}
	r := sxy / math.Sqrt(sxx*syy)

	c := Correlation{R: r, Positive: r > 0}
	switch a := math.Abs(r); {
	case a > 0.7:
		c.Strength = StrengthStrong
	case a > 0.5:
		c.Strength = StrengthModerate
	case a > 0.3:
		c.Strength = StrengthWeak
	default:
		c.Strength = StrengthVeryWeak
	}
	c.Groups = groupByPlaytime(x, y, correlationGroups)
	return c, nil
}

// groupByPlaytime mirrors pandas.cut with an integer bin count: equal-width,
// right-closed intervals with the lowest edge nudged down by 0.1% of the range.
func groupByPlaytime(x, y []float64, bins int) []PlaytimeGroup {
	lo, hi := minMax(x)
	if lo == hi {
		adj := 0.001
		if lo != 0 {
			adj = 0.001 * math.Abs(lo)
		}
		lo, hi = lo-adj, hi+adj
	}
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + (hi-lo)*float64(i)/float64(bins)
	}
	edges[0] -= (hi - lo) * 0.001

	groups := make([]PlaytimeGroup, bins)
	sums := make([]float64, bins)
	for i := range groups {
		groups[i].Lo, groups[i].Hi = edges[i], edges[i+1]
	}
	for i, v := range x {
		for g := 0; g < bins; g++ {
			if v > edges[g] && v <= edges[g+1] {
				groups[g].Count++
				sums[g] += y[i]
				break
			}
		}
	}
	for g := range groups {
		if groups[g].Count == 0 {
			groups[g].MeanAchievements = math.NaN()
			continue
		}
		groups[g].MeanAchievements = sums[g] / float64(groups[g].Count)
	}
	return groups
}

// PlaytimeSkewness is the adjusted Fisher-Pearson skewness of playtime,
// the same estimator pandas uses.
func (d *Dataset) PlaytimeSkewness() (float64, error) {
	n := float64(len(d.Records))
	if n < 3 {
		return 0, ErrNotEnoughData
	}
	x := d.playtimes()
	m := mean(x)
	var m2, m3 float64
	for _, v := range x {
		dv := v - m
		m2 += dv * dv
		m3 += dv * dv * dv
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0, nil
	}
	g1 := m3 / math.Pow(m2, 1.5)
	return math.Sqrt(n*(n-1)) / (n - 2) * g1, nil
}

func (d *Dataset) playtimes() []float64 {
	out := make([]float64, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Playtime
	}
	return out
}

func mean(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}

func minMax(v []float64) (float64, float64) {
	lo, hi := v[0], v[0]
	for _, x := range v[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

// quantile uses linear interpolation between closest ranks; sorted must be ascending.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	i := int(pos)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(i)
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}
