package db

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"game-checker-bot/internal/config"

	bolt "go.etcd.io/bbolt"
)

var bucketUsers = []byte("users")

// BoltStore keeps one JSON-encoded UserRecord per key in the "users" bucket,
// keyed by the decimal user id.
type BoltStore struct {
	db            *bolt.DB
	defaultRegion string
}

func NewBoltStore(path, defaultRegion string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketUsers)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt create bucket: %w", err)
	}
	return &BoltStore{db: db, defaultRegion: defaultRegion}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func userKey(id int64) []byte {
	return []byte(strconv.FormatInt(id, 10))
}

func getUser(b *bolt.Bucket, id int64) (*UserRecord, error) {
	data := b.Get(userKey(id))
	if data == nil {
		return nil, nil
	}
	var rec UserRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal user %d: %w", id, err)
	}
	return &rec, nil
}

func putUser(b *bolt.Bucket, rec *UserRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal user %d: %w", rec.TelegramUserID, err)
	}
	return b.Put(userKey(rec.TelegramUserID), data)
}

func (s *BoltStore) Get(userID int64) (*UserRecord, error) {
	var rec *UserRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		rec, err = getUser(tx.Bucket(bucketUsers), userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *BoltStore) Touch(user *config.User) (*UserRecord, error) {
	var out *UserRecord
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		existing, err := getUser(b, user.ID)
		if err != nil {
			return err
		}
		rec, changed := touch(existing, user, s.defaultRegion)
		out = rec
		if !changed {
			return nil
		}
		return putUser(b, rec)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltStore) SetRegion(user *config.User, region string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		existing, err := getUser(b, user.ID)
		if err != nil {
			return err
		}
		rec, _ := touch(existing, user, s.defaultRegion)
		updated := *rec
		updated.Region = region
		updated.UpdatedAt = time.Now().UTC()
		return putUser(b, &updated)
	})
}
