package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/checkin/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// getDocument reads one document's JSON into dst. A missing key or a value
// that no longer decodes leaves dst untouched so the caller's default
// survives.
func (s *SQLiteStore) getDocument(ctx context.Context, key string, dst any) error {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM documents WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading document %q: %w", key, err)
	}

	// Malformed content is substituted with the default, not raised.
	_ = json.Unmarshal([]byte(value), dst)
	return nil
}

// setDocument writes one document as JSON, replacing any previous value.
func (s *SQLiteStore) setDocument(ctx context.Context, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling document %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing document %q: %w", key, err)
	}

	return nil
}

// GetTasks retrieves the task collection.
func (s *SQLiteStore) GetTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.getDocument(ctx, KeyTasks, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveTasks persists the task collection.
func (s *SQLiteStore) SaveTasks(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return s.setDocument(ctx, KeyTasks, tasks)
}

// GetCheckins retrieves the checkin collection.
func (s *SQLiteStore) GetCheckins(ctx context.Context) ([]model.Checkin, error) {
	var checkins []model.Checkin
	if err := s.getDocument(ctx, KeyCheckins, &checkins); err != nil {
		return nil, err
	}
	return checkins, nil
}

// SaveCheckins persists the checkin collection.
func (s *SQLiteStore) SaveCheckins(ctx context.Context, checkins []model.Checkin) error {
	if checkins == nil {
		checkins = []model.Checkin{}
	}
	return s.setDocument(ctx, KeyCheckins, checkins)
}

// GetMeta retrieves the meta record, or the default before first run.
func (s *SQLiteStore) GetMeta(ctx context.Context) (model.Meta, error) {
	meta := model.DefaultMeta()
	if err := s.getDocument(ctx, KeyMeta, &meta); err != nil {
		return model.Meta{}, err
	}
	return meta, nil
}

// SaveMeta persists the meta record.
func (s *SQLiteStore) SaveMeta(ctx context.Context, meta model.Meta) error {
	return s.setDocument(ctx, KeyMeta, meta)
}

// GetSettings retrieves the sync settings, or the default when unset.
func (s *SQLiteStore) GetSettings(ctx context.Context) (model.Settings, error) {
	settings := model.DefaultSettings()
	if err := s.getDocument(ctx, KeySettings, &settings); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

// SaveSettings persists the sync settings.
func (s *SQLiteStore) SaveSettings(ctx context.Context, settings model.Settings) error {
	return s.setDocument(ctx, KeySettings, settings)
}
