// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package guildstore

import (
	"fmt"

	"github.com/bureau-foundation/warrant/lib/permission"
)

// Levels returns the guild's permission levels: the factory defaults
// until the guild has edited them, the persisted document afterward.
func (s *Store) Levels(guildID string) permission.Levels {
	return loadDocument(s, guildID, levelsDocument, permission.FactoryLevels)
}

// CreateLevel adds a new named level. When copyFrom names an existing
// level, the new level starts as a deep copy of its current mapping;
// the copy is fully independent from that point on. An empty copyFrom
// starts the level all-neutral.
func (s *Store) CreateLevel(guildID, name, copyFrom string) error {
	if name == "" {
		return &ValidationError{Field: "level name", Message: "must not be empty"}
	}
	return mutateDocument(s, guildID, levelsDocument, permission.FactoryLevels,
		func(levels permission.Levels) (permission.Levels, error) {
			if _, exists := levels[name]; exists {
				return nil, fmt.Errorf("level %q: %w", name, ErrAlreadyExists)
			}
			if copyFrom == "" {
				levels[name] = permission.Level{}
				return levels, nil
			}
			source, exists := levels[copyFrom]
			if !exists {
				return nil, fmt.Errorf("level %q: %w", copyFrom, ErrNotFound)
			}
			levels[name] = source.Clone()
			return levels, nil
		})
}

// SetLevelFlag sets one capability flag on a level. A nil value clears
// the flag back to neutral — the key is removed, preserving the
// absence-is-neutral invariant in the persisted document.
func (s *Store) SetLevelFlag(guildID, name, capability string, value *bool) error {
	if !permission.Known(capability) {
		return &ValidationError{Field: "capability", Message: fmt.Sprintf("unknown capability %q", capability)}
	}
	return mutateDocument(s, guildID, levelsDocument, permission.FactoryLevels,
		func(levels permission.Levels) (permission.Levels, error) {
			level, exists := levels[name]
			if !exists {
				return nil, fmt.Errorf("level %q: %w", name, ErrNotFound)
			}
			if value == nil {
				delete(level, capability)
			} else {
				level[capability] = *value
			}
			return levels, nil
		})
}

// PutLevel creates or wholesale-replaces a named level. Every
// capability in the mapping must be known; the stored level is a deep
// copy of the argument. Manifest import uses this — interactive edits
// go through CreateLevel and SetLevelFlag.
func (s *Store) PutLevel(guildID, name string, level permission.Level) error {
	if name == "" {
		return &ValidationError{Field: "level name", Message: "must not be empty"}
	}
	for capability := range level {
		if !permission.Known(capability) {
			return &ValidationError{Field: "capability", Message: fmt.Sprintf("unknown capability %q", capability)}
		}
	}
	return mutateDocument(s, guildID, levelsDocument, permission.FactoryLevels,
		func(levels permission.Levels) (permission.Levels, error) {
			levels[name] = level.Clone()
			return levels, nil
		})
}

// DeleteLevel removes a named level. Baselines and rules referencing
// the deleted name become unresolved and are skipped at build time
// until edited or pruned.
func (s *Store) DeleteLevel(guildID, name string) error {
	return mutateDocument(s, guildID, levelsDocument, permission.FactoryLevels,
		func(levels permission.Levels) (permission.Levels, error) {
			if _, exists := levels[name]; !exists {
				return nil, fmt.Errorf("level %q: %w", name, ErrNotFound)
			}
			delete(levels, name)
			return levels, nil
		})
}

// ResetLevels discards every edit and restores the factory levels.
func (s *Store) ResetLevels(guildID string) error {
	return mutateDocument(s, guildID, levelsDocument, permission.FactoryLevels,
		func(permission.Levels) (permission.Levels, error) {
			return permission.FactoryLevels(), nil
		})
}
