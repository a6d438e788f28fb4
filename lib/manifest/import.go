// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"sort"

	"github.com/bureau-foundation/warrant/lib/guildstore"
	"github.com/bureau-foundation/warrant/lib/permission"
)

// Report counts what an import wrote per collection.
type Report struct {
	Levels    int `json:"levels"`
	Bundles   int `json:"bundles"`
	Groups    int `json:"groups"`
	Baselines int `json:"baselines"`
	Rules     int `json:"rules"`
}

// Import writes the manifest into a guild's store. Named collections
// (levels, bundles, groups) are created-or-replaced per entry;
// baselines are upserted; rules are appended with store-assigned IDs.
// Collections the manifest omits are left untouched.
//
// Call Validate first — Import assumes a well-formed manifest and
// stops at the first store error, reporting what landed before it.
func Import(store *guildstore.Store, guildID string, m *Manifest) (Report, error) {
	var report Report

	for _, name := range sortedKeys(m.Levels) {
		if err := store.PutLevel(guildID, name, permission.Level(m.Levels[name])); err != nil {
			return report, fmt.Errorf("importing level %q: %w", name, err)
		}
		report.Levels++
	}

	for _, name := range sortedKeys(m.Bundles) {
		if err := store.PutBundle(guildID, name, RoleRefs(m.Bundles[name])); err != nil {
			return report, fmt.Errorf("importing bundle %q: %w", name, err)
		}
		report.Bundles++
	}

	for _, name := range sortedKeys(m.ExclusiveGroups) {
		if err := store.PutGroup(guildID, name, RoleRefs(m.ExclusiveGroups[name])); err != nil {
			return report, fmt.Errorf("importing exclusive group %q: %w", name, err)
		}
		report.Groups++
	}

	for _, categoryID := range sortedKeys(m.CategoryBaselines) {
		if err := store.SetBaseline(guildID, categoryID, m.CategoryBaselines[categoryID]); err != nil {
			return report, fmt.Errorf("importing baseline for category %s: %w", categoryID, err)
		}
		report.Baselines++
	}

	for i, rule := range m.Rules {
		direction, err := permission.ParseDirection(rule.Direction)
		if err != nil {
			return report, fmt.Errorf("importing rule %d: %w", i, err)
		}
		if _, err := store.AddRule(guildID, RoleRefs(rule.Roles),
			guildstore.TargetType(rule.TargetType), rule.Targets, rule.Level, direction); err != nil {
			return report, fmt.Errorf("importing rule %d: %w", i, err)
		}
		report.Rules++
	}

	return report, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
