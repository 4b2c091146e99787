// Package store persists the application's collections in a local SQLite
// database as independent JSON documents keyed by name. Each collection is
// read and written on its own; there is no transactional guarantee across
// keys, and none is assumed by the callers.
package store

import (
	"context"

	"github.com/nhle/checkin/internal/model"
)

// Document keys.
const (
	KeyTasks    = "tasks"
	KeyCheckins = "checkins"
	KeyMeta     = "meta"
	KeySettings = "settings"
)

// Store defines the local persistence interface. Reads return the
// collection's default when the key has never been written or holds
// content that no longer decodes; persistence problems are a bootstrapping
// concern, not a runtime failure.
type Store interface {
	GetTasks(ctx context.Context) ([]model.Task, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error

	GetCheckins(ctx context.Context) ([]model.Checkin, error)
	SaveCheckins(ctx context.Context, checkins []model.Checkin) error

	GetMeta(ctx context.Context) (model.Meta, error)
	SaveMeta(ctx context.Context, meta model.Meta) error

	GetSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error
}
