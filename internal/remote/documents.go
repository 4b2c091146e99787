package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nhle/checkin/internal/model"
)

// Repository paths of the three snapshot documents.
const (
	pathTasks    = "data/tasks.json"
	pathCheckins = "data/checkins.json"
	pathMeta     = "data/meta.json"
)

// decodeCollection unmarshals one document's content into dst. A document
// that is absent or not valid JSON leaves dst at its zero value: one
// corrupt collection degrades to an empty seed instead of failing the
// whole pull, and the next push rewrites it from the merged state.
func decodeCollection(content []byte, found bool, dst any) {
	if !found || len(content) == 0 {
		return
	}
	_ = json.Unmarshal(content, dst)
}

// Pull reads the three snapshot documents. Documents that have never been
// written come back as empty collections, so a fresh remote target is a
// valid (empty) snapshot rather than an error.
func (c *Client) Pull(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	snap.Meta = model.DefaultMeta()

	tasksContent, _, tasksFound, err := c.GetFile(ctx, pathTasks)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("pulling tasks: %w", err)
	}
	checkinsContent, _, checkinsFound, err := c.GetFile(ctx, pathCheckins)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("pulling checkins: %w", err)
	}
	metaContent, _, metaFound, err := c.GetFile(ctx, pathMeta)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("pulling meta: %w", err)
	}

	decodeCollection(tasksContent, tasksFound, &snap.Tasks)
	decodeCollection(checkinsContent, checkinsFound, &snap.Checkins)
	decodeCollection(metaContent, metaFound, &snap.Meta)

	return snap, nil
}

// Push writes the three snapshot documents, stamping a fresh lastSyncAt
// into the pushed meta document.
func (c *Client) Push(ctx context.Context, snap model.Snapshot, now time.Time) error {
	meta := snap.Meta
	meta.LastSyncAt = now

	tasksContent, err := marshalDocument(snap.Tasks)
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	checkinsContent, err := marshalDocument(snap.Checkins)
	if err != nil {
		return fmt.Errorf("encoding checkins: %w", err)
	}
	metaContent, err := marshalDocument(meta)
	if err != nil {
		return fmt.Errorf("encoding meta: %w", err)
	}

	if err := c.PutFile(ctx, pathTasks, tasksContent); err != nil {
		return fmt.Errorf("pushing tasks: %w", err)
	}
	if err := c.PutFile(ctx, pathCheckins, checkinsContent); err != nil {
		return fmt.Errorf("pushing checkins: %w", err)
	}
	if err := c.PutFile(ctx, pathMeta, metaContent); err != nil {
		return fmt.Errorf("pushing meta: %w", err)
	}

	return nil
}

// marshalDocument renders a collection the way the documents are stored:
// indented JSON with a trailing newline, diff-friendly in the backing
// repository. Nil slices render as [] rather than null.
func marshalDocument(v any) ([]byte, error) {
	switch vv := v.(type) {
	case []model.Task:
		if vv == nil {
			v = []model.Task{}
		}
	case []model.Checkin:
		if vv == nil {
			v = []model.Checkin{}
		}
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
