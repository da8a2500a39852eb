package db

import (
	"time"
)

// UserRecord is the per-user state kept between sessions.
type UserRecord struct {
	TelegramUserID int64     `json:"telegram_user_id"`
	Username       string    `json:"username"`
	Region         string    `json:"region"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}
