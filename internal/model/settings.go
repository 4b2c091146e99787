package model

import "strings"

// Settings holds the remote sync connection parameters. The access token is
// deliberately not part of this record; it lives in the system keyring (see
// internal/credential) so the settings document stays safe to persist and
// inspect.
type Settings struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Branch string `json:"branch"`
}

// DefaultSettings returns the settings used before the user has configured
// sync.
func DefaultSettings() Settings {
	return Settings{Branch: "main"}
}

// Configured reports whether the settings name a complete remote target.
// The token is checked separately by the remote client.
func (s Settings) Configured() bool {
	return strings.TrimSpace(s.Owner) != "" && strings.TrimSpace(s.Repo) != ""
}
