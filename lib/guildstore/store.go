// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package guildstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Document names, one per collection.
const (
	levelsDocument    = "permission_levels.json"
	bundlesDocument   = "bundles.json"
	groupsDocument    = "exclusive_groups.json"
	baselinesDocument = "category_baselines.json"
	rulesDocument     = "access_rules.json"
	scopesDocument    = "command_scopes.json"
)

// Store is the per-guild configuration store. Safe for concurrent use;
// mutations on the same guild serialize through that guild's lock.
type Store struct {
	root   string
	logger *slog.Logger

	// mu guards the lock registry itself. Guild locks are created
	// lazily on first mutation and never removed.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Store rooted at the given directory, creating it if
// needed.
func New(root string, logger *slog.Logger) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("guildstore: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("guildstore: creating root %s: %w", root, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		root:   root,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

// guildLock returns the guild's mutation lock, creating it on first
// use.
func (s *Store) guildLock(guildID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.locks[guildID]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[guildID] = lock
	}
	return lock
}

// guildDir returns the guild's data directory, creating it if needed.
func (s *Store) guildDir(guildID string) (string, error) {
	dir := filepath.Join(s.root, guildID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("guildstore: creating guild directory %s: %w", dir, err)
	}
	return dir, nil
}

// loadDocument reads one collection document. A missing file returns
// the default; a malformed file returns the default with a logged
// warning. Read paths never surface corrupt data as an error.
func loadDocument[T any](s *Store, guildID, name string, defaultValue func() T) T {
	path := filepath.Join(s.root, guildID, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("unreadable store document, using defaults",
				"guild", guildID,
				"document", name,
				"error", err,
			)
		}
		return defaultValue()
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.Warn("malformed store document, using defaults",
			"guild", guildID,
			"document", name,
			"error", err,
		)
		return defaultValue()
	}
	return value
}

// saveDocument atomically persists one collection document: write to a
// temporary file in the guild directory, fsync, rename over the
// target, then sync the directory so the rename survives power loss.
func saveDocument[T any](s *Store, guildID, name string, value T) error {
	dir, err := s.guildDir(guildID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("guildstore: encoding %s: %w", name, err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, name)
	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("guildstore: creating temporary file for %s: %w", name, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("guildstore: writing %s: %w", name, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("guildstore: syncing %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("guildstore: closing %s: %w", name, err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("guildstore: renaming %s into place: %w", name, err)
	}

	if parent, err := os.Open(dir); err == nil {
		parent.Sync()
		parent.Close()
	}

	return nil
}

// mutateDocument runs one locked read-modify-write cycle on a
// document. fn may return an error to abort without persisting; when
// fn succeeds the modified value is written atomically.
func mutateDocument[T any](s *Store, guildID, name string, defaultValue func() T, fn func(value T) (T, error)) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	value := loadDocument(s, guildID, name, defaultValue)
	modified, err := fn(value)
	if err != nil {
		return err
	}
	return saveDocument(s, guildID, name, modified)
}
