package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"game-checker-bot/internal/config"
)

// FileStore keeps every user in one flat JSON file. The file is read once
// on open and rewritten in full on every mutation through a temp file and
// rename, so a crash leaves either the old or the new content.
type FileStore struct {
	path          string
	defaultRegion string

	mu    sync.Mutex
	users map[int64]*UserRecord
}

type fileEntry struct {
	Username  string    `json:"username"`
	Region    string    `json:"region"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func NewFileStore(path, defaultRegion string) (*FileStore, error) {
	s := &FileStore{path: path, defaultRegion: defaultRegion, users: make(map[int64]*UserRecord)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read users file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var raw map[string]fileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", path, err)
	}
	for key, e := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			slog.Warn("skipping malformed user id in users file", "key", key)
			continue
		}
		s.users[id] = &UserRecord{TelegramUserID: id, Username: e.Username, Region: e.Region, UpdatedAt: e.UpdatedAt}
	}
	slog.Info("loaded users file", "path", path, "users", len(s.users))
	return s, nil
}

func (s *FileStore) Get(userID int64) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *FileStore) Touch(user *config.User) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, changed := touch(s.users[user.ID], user, s.defaultRegion)
	if changed {
		if err := s.commit(rec); err != nil {
			return nil, err
		}
	}
	cp := *rec
	return &cp, nil
}

func (s *FileStore) SetRegion(user *config.User, region string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, _ := touch(s.users[user.ID], user, s.defaultRegion)
	updated := *rec
	updated.Region = region
	updated.UpdatedAt = time.Now().UTC()
	return s.commit(&updated)
}

func (s *FileStore) Close() error { return nil }

// commit writes the users file with rec in it and only then updates the
// in-memory map, so a failed write leaves both untouched. Callers hold s.mu.
func (s *FileStore) commit(rec *UserRecord) error {
	next := make(map[int64]*UserRecord, len(s.users)+1)
	for id, r := range s.users {
		next[id] = r
	}
	next[rec.TelegramUserID] = rec
	if err := s.flush(next); err != nil {
		return err
	}
	s.users = next
	return nil
}

// flush rewrites the whole file from users.
func (s *FileStore) flush(users map[int64]*UserRecord) error {
	raw := make(map[string]fileEntry, len(users))
	for id, rec := range users {
		raw[strconv.FormatInt(id, 10)] = fileEntry{Username: rec.Username, Region: rec.Region, UpdatedAt: rec.UpdatedAt}
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create users dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp users file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close users file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace users file: %w", err)
	}
	return nil
}
