package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/checkin/internal/app"
	"github.com/nhle/checkin/internal/credential"
	"github.com/nhle/checkin/internal/model"
	"github.com/nhle/checkin/internal/remote"
	"github.com/nhle/checkin/internal/store"
	appsync "github.com/nhle/checkin/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "checkin:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = model.DefaultDBPath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	timeout := time.Duration(cfg.Sync.TimeoutSec) * time.Second
	factory := func(settings model.Settings) appsync.RemoteStore {
		client := remote.NewClient(settings, credential.Token(), timeout)
		if !client.Configured() {
			return nil
		}
		return client
	}

	debounce := time.Duration(cfg.Sync.DebounceMs) * time.Millisecond
	orch := appsync.New(s, factory, debounce)
	defer orch.Stop()

	program := tea.NewProgram(app.New(orch), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
