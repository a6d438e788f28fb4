// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package guildstore

import "fmt"

// Baselines maps category IDs to the permission-level name whose
// compiled overwrite should apply to the category's default subject.
type Baselines map[string]string

func emptyBaselines() Baselines { return Baselines{} }

// Baselines returns the guild's category baselines.
func (s *Store) Baselines(guildID string) Baselines {
	return loadDocument(s, guildID, baselinesDocument, emptyBaselines)
}

// SetBaseline upserts the baseline level for a category. The level
// must exist in the guild's configuration at the time of the call; the
// category ID is not checked against live topology here — that
// resolution happens at build time, where a vanished category is a
// warning, not an error.
func (s *Store) SetBaseline(guildID, categoryID, levelName string) error {
	if categoryID == "" {
		return &ValidationError{Field: "category", Message: "must not be empty"}
	}
	if _, exists := s.Levels(guildID)[levelName]; !exists {
		return fmt.Errorf("level %q: %w", levelName, ErrNotFound)
	}
	return mutateDocument(s, guildID, baselinesDocument, emptyBaselines,
		func(baselines Baselines) (Baselines, error) {
			baselines[categoryID] = levelName
			return baselines, nil
		})
}

// ClearBaseline removes a category's baseline.
func (s *Store) ClearBaseline(guildID, categoryID string) error {
	return mutateDocument(s, guildID, baselinesDocument, emptyBaselines,
		func(baselines Baselines) (Baselines, error) {
			if _, exists := baselines[categoryID]; !exists {
				return nil, fmt.Errorf("baseline for category %q: %w", categoryID, ErrNotFound)
			}
			delete(baselines, categoryID)
			return baselines, nil
		})
}
