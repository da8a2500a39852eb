package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
)

const DefaultLang = "ru"

type Localizer struct {
	translations map[string]map[string]string
}

// New loads every <lang>.json file found in fsys.
func New(fsys fs.FS) (*Localizer, error) {
	translations := make(map[string]map[string]string)

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			lang := strings.TrimSuffix(d.Name(), ".json")
			file, err := fsys.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			var langMap map[string]string
			if err := json.NewDecoder(file).Decode(&langMap); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			translations[lang] = langMap
			slog.Debug("loaded language file", "path", path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load language files: %w", err)
	}

	return &Localizer{translations: translations}, nil
}

// Get looks key up in lang, then in DefaultLang, and finally returns the key itself.
func (l *Localizer) Get(lang, key string) string {
	if langMap, ok := l.translations[lang]; ok {
		if value, ok := langMap[key]; ok {
			return value
		}
	}

	if langMap, ok := l.translations[DefaultLang]; ok {
		if value, ok := langMap[key]; ok {
			return value
		}
	}
	return key
}

// Format is Get followed by {name} placeholder substitution.
func (l *Localizer) Format(lang, key string, args map[string]string) string {
	text := l.Get(lang, key)
	for k, v := range args {
		text = strings.ReplaceAll(text, "{"+k+"}", v)
	}
	return text
}

// LangFor maps a Telegram language_code onto a supported language.
func LangFor(code string) string {
	if strings.HasPrefix(strings.ToLower(code), "en") {
		return "en"
	}
	return DefaultLang
}
