// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"fmt"

	"github.com/bureau-foundation/warrant/lib/guildstore"
	"github.com/bureau-foundation/warrant/platform"
)

// PruneReport counts what a prune run removed from each collection.
type PruneReport struct {
	Rules       int `json:"rules"`
	Baselines   int `json:"baselines"`
	BundleRoles int `json:"bundle_roles"`
	GroupRoles  int `json:"group_roles"`
}

// Total returns the number of removed items across all collections.
func (r PruneReport) Total() int {
	return r.Rules + r.Baselines + r.BundleRoles + r.GroupRoles
}

// Prune drops configuration references that no longer resolve against
// the live topology: rules naming dead roles or targets, baselines for
// deleted categories, and dead role IDs inside bundles and exclusive
// groups. Legacy name references are kept — their validity cannot be
// judged from an ID set.
//
// Unresolvable references are otherwise harmless (the plan builder
// skips them with a warning), so pruning is an on-demand cleanup, not
// a precondition for building.
func Prune(store *guildstore.Store, guildID string, topology *platform.Topology) (PruneReport, error) {
	var report PruneReport

	roleIDs := topology.RoleIDs()
	unitIDs := topology.UnitIDs()
	categoryIDs := topology.CategoryIDs()

	removed, err := store.PruneRules(guildID, roleIDs, unitIDs)
	if err != nil {
		return report, fmt.Errorf("pruning rules: %w", err)
	}
	report.Rules = removed

	removed, err = store.PruneBaselines(guildID, categoryIDs)
	if err != nil {
		return report, fmt.Errorf("pruning baselines: %w", err)
	}
	report.Baselines = removed

	removed, err = store.PruneBundleRoles(guildID, roleIDs)
	if err != nil {
		return report, fmt.Errorf("pruning bundle roles: %w", err)
	}
	report.BundleRoles = removed

	removed, err = store.PruneGroupRoles(guildID, roleIDs)
	if err != nil {
		return report, fmt.Errorf("pruning group roles: %w", err)
	}
	report.GroupRoles = removed

	return report, nil
}
