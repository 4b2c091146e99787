// Package credential stores the remote access token in the system keyring
// so it never lands in the config file or the local database.
package credential

import (
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "checkin"

// tokenKey is the keyring entry holding the remote store access token.
const tokenKey = "remote-token"

// TokenEnvVar overrides the keyring when set, which is convenient in CI
// and on headless machines without a secret service.
const TokenEnvVar = "CHECKIN_TOKEN"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/checkin/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("checkin-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Token returns the remote access token from the environment or the system
// keyring. An empty string means no token is configured.
func Token() string {
	if token := os.Getenv(TokenEnvVar); token != "" {
		return token
	}

	ring, err := openKeyring()
	if err != nil {
		return ""
	}

	item, err := ring.Get(tokenKey)
	if err != nil {
		return ""
	}

	return string(item.Data)
}

// SetToken stores the remote access token in the system keyring.
func SetToken(value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  tokenKey,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting remote token: %w", err)
	}

	return nil
}

// DeleteToken removes the remote access token from the system keyring.
func DeleteToken() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(tokenKey)
	if err != nil {
		return fmt.Errorf("deleting remote token: %w", err)
	}

	return nil
}
