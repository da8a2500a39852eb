package steam

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Alias maps an informal or localized fragment to a catalog title fragment.
type Alias struct {
	Pattern   string `json:"pattern"`
	Canonical string `json:"canonical"`
}

// AliasTable is an ordered, read-only list of aliases.
type AliasTable struct {
	entries []Alias
}

// NewAliasTable copies entries and lower-cases every pattern.
func NewAliasTable(entries []Alias) *AliasTable {
	t := &AliasTable{entries: make([]Alias, 0, len(entries))}
	for _, e := range entries {
		p := strings.ToLower(strings.TrimSpace(e.Pattern))
		if p == "" {
			continue
		}
		t.entries = append(t.entries, Alias{Pattern: p, Canonical: e.Canonical})
	}
	return t
}

// LoadAliasTable reads a JSON array of {"pattern", "canonical"} objects.
func LoadAliasTable(path string) (*AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}
	var entries []Alias
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse aliases %s: %w", path, err)
	}
	return NewAliasTable(entries), nil
}

// Entries returns a copy of the table in definition order.
func (t *AliasTable) Entries() []Alias {
	out := make([]Alias, len(t.entries))
	copy(out, t.entries)
	return out
}

// AlternativesFor returns the canonical title of every alias whose pattern
// occurs anywhere in the lower-cased query, in table order, followed by the
// query itself. Matching is a plain substring test, so short patterns like
// "кс" also hit inside longer words.
func (t *AliasTable) AlternativesFor(query string) []string {
	lower := strings.ToLower(query)
	var alternatives []string
	for _, e := range t.entries {
		if strings.Contains(lower, e.Pattern) {
			alternatives = append(alternatives, e.Canonical)
		}
	}
	return append(alternatives, query)
}

// DefaultAliases is the built-in table. A bare "гта" is intentionally absent:
// it would shadow every numbered GTA alias below it.
func DefaultAliases() *AliasTable {
	return NewAliasTable([]Alias{
		{"ведьмак", "The Witcher"},
		{"витчер", "The Witcher"},
		{"киберпанк", "Cyberpunk"},
		{"сайберпанк", "Cyberpunk"},
		{"гта 5", "Grand Theft Auto V"},
		{"гта5", "Grand Theft Auto V"},
		{"гта 4", "Grand Theft Auto IV"},
		{"гта сан андреас", "Grand Theft Auto: San Andreas"},
		{"контр страйк", "Counter-Strike"},
		{"контр-страйк", "Counter-Strike"},
		{"кс", "Counter-Strike"},
		{"кс2", "Counter-Strike 2"},
		{"дота", "Dota"},
		{"дота 2", "Dota 2"},
		{"скайрим", "Skyrim"},
		{"фоллаут", "Fallout"},
		{"ассасин", "Assassin"},
		{"бэтмен", "Batman"},
		{"резедент вил", "Resident Evil"},
		{"арк", "ARK"},

		{"cs", "Counter-Strike"},
		{"cs2", "Counter-Strike 2"},
		{"cs:go", "Counter-Strike Global Offensive"},
		{"tf2", "Team Fortress 2"},
		{"pubg", "PLAYERUNKNOWN"},
		{"rdr2", "Red Dead Redemption 2"},
		{"rdr 2", "Red Dead Redemption 2"},
		{"ac", "Assassin"},
	})
}

type suggestion struct {
	keyword string
	text    string
}

// suggestions is scanned first-match-wins, so order matters here.
var suggestions = []suggestion{
	{"ведьмак", "💡 Попробуйте: `The Witcher 3`"},
	{"витчер", "💡 Попробуйте: `The Witcher`"},
	{"киберпанк", "💡 Попробуйте: `Cyberpunk 2077`"},
	{"сайберпанк", "💡 Попробуйте: `Cyberpunk 2077`"},
	{"гта", "💡 Попробуйте: `GTA V` или `Grand Theft Auto`"},
	{"контр страйк", "💡 Попробуйте: `Counter-Strike 2`"},
	{"кс", "💡 Попробуйте: `Counter-Strike 2` или `CS2`"},
	{"дота", "💡 Попробуйте: `Dota 2`"},
	{"майнкрафт", "💡 Попробуйте: `Minecraft`"},
	{"скайрим", "💡 Попробуйте: `Skyrim`"},
	{"фоллаут", "💡 Попробуйте: `Fallout 4`"},
}

const genericSuggestion = "💡 *Советы:*\n• Используйте английское название\n• Проверьте правильность написания\n• Попробуйте сокращенное название"

// SuggestionFor returns help text for a query that produced no results.
func SuggestionFor(query string) string {
	lower := strings.ToLower(query)
	for _, s := range suggestions {
		if strings.Contains(lower, s.keyword) {
			return s.text
		}
	}
	return genericSuggestion
}
