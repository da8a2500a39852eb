package db

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"game-checker-bot/internal/config"

	"github.com/nedpals/supabase-go"
)

var ErrNotFound = errors.New("user not found")

// Store keeps user id -> {username, region}. Records are created on first
// contact and never deleted.
type Store interface {
	// Touch returns the user's record, creating it with the default region
	// on first contact and refreshing the username when it changed.
	Touch(user *config.User) (*UserRecord, error)
	// SetRegion updates (or creates) the user's record with region.
	SetRegion(user *config.User, region string) error
	Get(userID int64) (*UserRecord, error)
	Close() error
}

// Open picks the backend named by cfg.StoreBackend.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case "", "file":
		return NewFileStore(cfg.UsersFile, cfg.DefaultRegion)
	case "bolt":
		return NewBoltStore(cfg.BoltPath, cfg.DefaultRegion)
	case "supabase":
		return NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.DefaultRegion), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// touch applies the Touch rules to a possibly missing record and reports
// whether it has to be written back.
func touch(rec *UserRecord, user *config.User, defaultRegion string) (*UserRecord, bool) {
	if rec == nil {
		return &UserRecord{
			TelegramUserID: user.ID,
			Username:       user.Username,
			Region:         defaultRegion,
			UpdatedAt:      time.Now().UTC(),
		}, true
	}
	if rec.Username != user.Username {
		updated := *rec
		updated.Username = user.Username
		updated.UpdatedAt = time.Now().UTC()
		return &updated, true
	}
	return rec, false
}

// SupabaseStore keeps users in the "users" table of a Supabase project.
type SupabaseStore struct {
	*supabase.Client
	defaultRegion string
}

func NewSupabaseStore(url, key, defaultRegion string) *SupabaseStore {
	sbClient := supabase.CreateClient(url, key)
	slog.Info("connected to Supabase")
	return &SupabaseStore{Client: sbClient, defaultRegion: defaultRegion}
}

func (c *SupabaseStore) Get(userID int64) (*UserRecord, error) {
	var results []UserRecord
	err := c.DB.From("users").Select("*").Eq("telegram_user_id", strconv.FormatInt(userID, 10)).Execute(&results)
	if err != nil {
		slog.Error("error fetching user", "user_id", userID, "error", err)
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return &results[0], nil
}

func (c *SupabaseStore) Touch(user *config.User) (*UserRecord, error) {
	existing, err := c.Get(user.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	rec, changed := touch(existing, user, c.defaultRegion)
	if !changed {
		return rec, nil
	}
	if existing == nil {
		slog.Info("creating new user", "user_id", user.ID, "username", user.Username)
		return rec, c.insert(rec)
	}
	return rec, c.update(rec)
}

func (c *SupabaseStore) SetRegion(user *config.User, region string) error {
	rec, err := c.Touch(user)
	if err != nil {
		return err
	}
	rec.Region = region
	rec.UpdatedAt = time.Now().UTC()
	return c.update(rec)
}

func (c *SupabaseStore) Close() error { return nil }

func (c *SupabaseStore) insert(rec *UserRecord) error {
	var results []UserRecord
	if err := c.DB.From("users").Insert(rec).Execute(&results); err != nil {
		slog.Error("error creating user", "user_id", rec.TelegramUserID, "error", err)
		return err
	}
	return nil
}

func (c *SupabaseStore) update(rec *UserRecord) error {
	fields := map[string]interface{}{
		"username":   rec.Username,
		"region":     rec.Region,
		"updated_at": rec.UpdatedAt,
	}
	err := c.DB.From("users").Update(fields).Eq("telegram_user_id", strconv.FormatInt(rec.TelegramUserID, 10)).Execute(nil)
	if err != nil {
		slog.Error("error updating user", "user_id", rec.TelegramUserID, "error", err)
	}
	return err
}
