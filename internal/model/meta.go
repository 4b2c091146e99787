package model

import "time"

// CurrentSchemaVersion is the version stamped into newly created meta
// documents.
const CurrentSchemaVersion = 1

// Meta is the process-wide watermark record. It is persisted and synced
// like the task and checkin collections but always holds exactly one row.
type Meta struct {
	SchemaVersion int    `json:"schemaVersion"`
	ClientID      string `json:"clientId"`

	// LastSyncAt is the wall-clock time of the last successful sync, or
	// zero if the client has never synced.
	LastSyncAt time.Time `json:"lastSyncAt,omitzero"`

	DataVersion int `json:"dataVersion"`

	// LastGeneratedDate is the scheduling watermark: checkins are
	// guaranteed generated for every due date up to and including this
	// YYYY-MM-DD key, and never regenerated at or before it. Empty until
	// the first generation run.
	LastGeneratedDate string `json:"lastGeneratedDate,omitempty"`
}

// DefaultMeta returns the meta record used before first run. The client id
// is assigned once by the orchestrator on load.
func DefaultMeta() Meta {
	return Meta{SchemaVersion: CurrentSchemaVersion}
}

// Snapshot bundles the three synced collections. It is the unit the
// reconciler merges and the remote store pushes and pulls.
type Snapshot struct {
	Tasks    []Task    `json:"tasks"`
	Checkins []Checkin `json:"checkins"`
	Meta     Meta      `json:"meta"`
}

// Clone returns a deep-enough copy of the snapshot: the slices are copied
// so callers can append or reassign elements without aliasing, while the
// records themselves are value types.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Meta: s.Meta}
	if s.Tasks != nil {
		out.Tasks = append([]Task(nil), s.Tasks...)
	}
	if s.Checkins != nil {
		out.Checkins = append([]Checkin(nil), s.Checkins...)
	}
	return out
}
