package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramBotToken string
	TokenFile        string

	SteamAPIURL   string
	HTTPTimeout   time.Duration
	DefaultRegion string
	AliasesFile   string

	StoreBackend string
	UsersFile    string
	BoltPath     string
	SupabaseURL  string
	SupabaseKey  string

	DatasetPath string
	LocalesDir  string
	HTTPAddr    string
	LogLevel    string
}

type User struct {
	ID        int64
	FirstName string
	Username  string
}

var ErrNoToken = errors.New("TELEGRAM_BOT_TOKEN is not set and no token file was found")

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, reading from environment variables")
	}

	timeoutSecs, err := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "10"))
	if err != nil || timeoutSecs <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS: %q", os.Getenv("HTTP_TIMEOUT_SECONDS"))
	}

	cfg := &Config{
		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TokenFile:        getEnv("TOKEN_FILE", "Token.txt"),
		SteamAPIURL:      getEnv("STEAM_API_URL", "https://store.steampowered.com/api"),
		HTTPTimeout:      time.Duration(timeoutSecs) * time.Second,
		DefaultRegion:    strings.ToUpper(getEnv("DEFAULT_REGION", "RU")),
		AliasesFile:      os.Getenv("ALIASES_FILE"),
		StoreBackend:     strings.ToLower(getEnv("STORE_BACKEND", "file")),
		UsersFile:        getEnv("USERS_FILE", "users.json"),
		BoltPath:         getEnv("BOLT_PATH", "data/users.db"),
		SupabaseURL:      os.Getenv("SUPABASE_URL"),
		SupabaseKey:      os.Getenv("SUPABASE_KEY"),
		DatasetPath:      getEnv("DATASET_PATH", "DataSet.csv"),
		LocalesDir:       getEnv("LOCALES_DIR", "locales"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	switch cfg.StoreBackend {
	case "file", "bolt":
	case "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return nil, fmt.Errorf("STORE_BACKEND=supabase requires SUPABASE_URL and SUPABASE_KEY")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

// RequireToken resolves the bot token, falling back to TokenFile.
func (c *Config) RequireToken() error {
	if c.TelegramBotToken != "" {
		return nil
	}
	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return ErrNoToken
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return ErrNoToken
	}
	c.TelegramBotToken = token
	return nil
}

// SlogLevel converts LogLevel to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}
