// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/bureau-foundation/warrant/lib/guildstore"
	"github.com/bureau-foundation/warrant/lib/permission"
	"github.com/bureau-foundation/warrant/platform"
)

// Source is an immutable snapshot of the guild configuration a plan is
// built from. Build never touches the store directly; taking the
// snapshot up front means a concurrent configuration edit cannot
// produce a plan that mixes old and new state.
type Source struct {
	Levels    permission.Levels
	Baselines guildstore.Baselines
	Rules     []guildstore.Rule
}

// Snapshot reads the plan-relevant configuration for a guild.
func Snapshot(store *guildstore.Store, guildID string) Source {
	return Source{
		Levels:    store.Levels(guildID),
		Baselines: store.Baselines(guildID),
		Rules:     store.Rules(guildID),
	}
}

// Build compiles the guild configuration into a Plan against a live
// topology snapshot. Pure with respect to the platform: no writes, no
// reads beyond the snapshot.
//
// Three passes, in order:
//
//  1. Category baselines: every baselined category gets an
//     everyone-subject entry compiled from its level.
//  2. Access rules, ascending rule ID: every resolved (role, target)
//     pair gets an entry compiled from the rule's level and direction.
//     A later rule's entry replaces an earlier entry for the same
//     (unit, subject) pair; the collision is logged.
//  3. Baseline propagation: a channel with entries that is not synced
//     to its parent category does not inherit the category's everyone
//     overwrite, so if its category has a baseline and the channel has
//     no explicit everyone entry, one is synthesized. Without this the
//     everyone subject would fall back to the server default instead
//     of the configured level.
//
// Unresolvable references (dead IDs, dangling legacy names, unknown
// levels) are logged and skipped, never fatal: pruning fixes them on
// demand.
func Build(logger *slog.Logger, topology *platform.Topology, source Source) *Plan {
	p := NewPlan(topology.GuildID)

	unitsByID := topology.UnitsByID()

	compileLevel := func(levelName string, direction permission.Direction) (permission.OverwriteSet, bool) {
		level, known := source.Levels[levelName]
		if !known {
			return nil, false
		}
		return permission.Compile(level, direction), true
	}

	addEntry := func(unitID string, entry Entry) {
		if replaced, wasReplaced := p.add(unitID, entry); wasReplaced {
			logger.Warn("plan entry replaced by later rule",
				"unit", unitID,
				"subject", entry.Subject.String(),
				"replaced", replaced,
				"kept", entry.Source)
		}
	}

	// Pass 1: everyone baseline per category, in sorted category order
	// for deterministic output.
	baselineCategories := make([]string, 0, len(source.Baselines))
	for categoryID := range source.Baselines {
		baselineCategories = append(baselineCategories, categoryID)
	}
	sort.Strings(baselineCategories)

	for _, categoryID := range baselineCategories {
		levelName := source.Baselines[categoryID]

		unit, found := unitsByID[categoryID]
		if !found || unit.Kind != platform.UnitCategory {
			logger.Warn("baseline category not found, skipping",
				"category", categoryID, "level", levelName)
			continue
		}
		overwrite, known := compileLevel(levelName, permission.Allow)
		if !known {
			logger.Warn("baseline references unknown level, skipping",
				"category", categoryID, "level", levelName)
			continue
		}
		addEntry(categoryID, Entry{
			Subject:   platform.EveryoneSubject(),
			Overwrite: overwrite,
			Source:    fmt.Sprintf("@everyone baseline → %s", levelName),
		})
	}

	// Pass 2: role overwrites from access rules, ascending ID.
	rules := make([]guildstore.Rule, len(source.Rules))
	copy(rules, source.Rules)
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	for _, rule := range rules {
		overwrite, known := compileLevel(rule.Level, rule.Direction)
		if !known {
			logger.Warn("rule references unknown level, skipping",
				"rule", rule.ID, "level", rule.Level)
			continue
		}

		var targets []string
		for _, targetID := range rule.TargetIDs {
			unit, found := unitsByID[targetID]
			if !found || unit.Kind != platform.UnitKind(rule.TargetType) {
				logger.Warn("rule target not found, skipping",
					"rule", rule.ID, "target", targetID, "type", rule.TargetType)
				continue
			}
			targets = append(targets, targetID)
		}

		roles, missing := platform.ResolveRoleRefs(rule.RoleIDs, topology)
		for _, ref := range missing {
			logger.Warn("rule role not found, skipping",
				"rule", rule.ID, "role", string(ref))
		}

		label := rule.Level
		if rule.Direction == permission.Deny {
			label = rule.Level + " (deny)"
		}
		for _, role := range roles {
			for _, targetID := range targets {
				addEntry(targetID, Entry{
					Subject:   platform.RoleSubject(role.ID),
					Overwrite: overwrite,
					Source:    fmt.Sprintf("%s → %s", role.Name, label),
				})
			}
		}
	}

	// Pass 3: propagate category baselines to unsynced channels that
	// picked up rule entries but no explicit everyone entry.
	for _, unitID := range p.UnitIDs() {
		unit, found := unitsByID[unitID]
		if !found || unit.Kind != platform.UnitChannel {
			continue
		}
		if unit.Synced || unit.ParentID == "" {
			continue
		}
		if _, planned := p.lookup(unitID, platform.EveryoneSubject()); planned {
			continue
		}
		levelName, baselined := source.Baselines[unit.ParentID]
		if !baselined {
			continue
		}
		overwrite, known := compileLevel(levelName, permission.Allow)
		if !known {
			continue
		}
		addEntry(unitID, Entry{
			Subject:   platform.EveryoneSubject(),
			Overwrite: overwrite,
			Source:    fmt.Sprintf("@everyone baseline (category) → %s", levelName),
		})
	}

	return p
}
