// Package store persists the last used control settings in SQLite.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/lixenwraith/fingerpath/engine"
)

var ErrNotFound = errors.New("not found")

const keySettings = "settings"

// Entry is a key/value row
type Entry struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex"`
	Value string
}

type Store struct {
	db *gorm.DB
}

// Open connects to dbpath and migrates the schema
func Open(dbpath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbpath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store open %s: %w", dbpath, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("store migrate: %w", err)
	}
	log.Debug().Str("path", dbpath).Msg("store opened")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get returns the value for key
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var e Entry
	err := s.db.WithContext(ctx).First(&e, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

// Set upserts key
func (s *Store) Set(ctx context.Context, key, value string) error {
	e := Entry{Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

// SaveSettings stores the control values for the next launch
func (s *Store) SaveSettings(ctx context.Context, st engine.Settings) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.Set(ctx, keySettings, string(b))
}

// LoadSettings returns ErrNotFound before the first save
func (s *Store) LoadSettings(ctx context.Context) (engine.Settings, error) {
	v, err := s.Get(ctx, keySettings)
	if err != nil {
		return engine.Settings{}, err
	}
	var st engine.Settings
	if err := json.Unmarshal([]byte(v), &st); err != nil {
		return engine.Settings{}, fmt.Errorf("store settings: %w", err)
	}
	return st.Normalized(), nil
}
