// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package guildstore

import "github.com/bureau-foundation/warrant/platform"

// Pruning removes configuration references to platform entities that
// no longer exist. It runs on demand, fed with the ID sets from a
// fresh topology snapshot. Legacy name-based role references are
// always kept — their validity cannot be judged against an ID set.

// pruneRoleRefs filters a stored reference list against the live role
// ID set. Returns the kept references and how many were dropped.
func pruneRoleRefs(refs []platform.RoleRef, validRoleIDs map[string]bool) ([]platform.RoleRef, int) {
	kept := refs[:0:0]
	removed := 0
	for _, ref := range refs {
		if ref.IsID() && !validRoleIDs[string(ref)] {
			removed++
			continue
		}
		kept = append(kept, ref)
	}
	return kept, removed
}

// PruneRules removes access rules where any stored role ID or target
// ID no longer exists. A rule with a single dead reference is removed
// whole — a rule that no longer means what its author wrote should
// disappear rather than silently narrow. Returns the number of rules
// removed.
func (s *Store) PruneRules(guildID string, validRoleIDs, validUnitIDs map[string]bool) (int, error) {
	removed := 0
	err := mutateDocument(s, guildID, rulesDocument, emptyRuleData,
		func(data ruleData) (ruleData, error) {
			kept := data.Rules[:0:0]
			for _, rule := range data.Rules {
				if ruleIntact(rule, validRoleIDs, validUnitIDs) {
					kept = append(kept, rule)
				} else {
					removed++
				}
			}
			data.Rules = kept
			return data, nil
		})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func ruleIntact(rule Rule, validRoleIDs, validUnitIDs map[string]bool) bool {
	for _, ref := range rule.RoleIDs {
		if ref.IsID() && !validRoleIDs[string(ref)] {
			return false
		}
	}
	for _, targetID := range rule.TargetIDs {
		if !validUnitIDs[targetID] {
			return false
		}
	}
	return true
}

// PruneBaselines removes baselines whose category no longer exists.
// Returns the number removed.
func (s *Store) PruneBaselines(guildID string, validCategoryIDs map[string]bool) (int, error) {
	removed := 0
	err := mutateDocument(s, guildID, baselinesDocument, emptyBaselines,
		func(baselines Baselines) (Baselines, error) {
			for categoryID := range baselines {
				if !validCategoryIDs[categoryID] {
					delete(baselines, categoryID)
					removed++
				}
			}
			return baselines, nil
		})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// PruneBundleRoles drops dead role IDs from every bundle. Returns the
// total number of references removed.
func (s *Store) PruneBundleRoles(guildID string, validRoleIDs map[string]bool) (int, error) {
	return s.pruneListRoles(guildID, bundlesDocument, validRoleIDs)
}

// PruneGroupRoles drops dead role IDs from every exclusive group.
// Returns the total number of references removed.
func (s *Store) PruneGroupRoles(guildID string, validRoleIDs map[string]bool) (int, error) {
	return s.pruneListRoles(guildID, groupsDocument, validRoleIDs)
}

func (s *Store) pruneListRoles(guildID, document string, validRoleIDs map[string]bool) (int, error) {
	total := 0
	err := mutateDocument(s, guildID, document, emptyRoleList,
		func(lists RoleList) (RoleList, error) {
			for name, refs := range lists {
				kept, removed := pruneRoleRefs(refs, validRoleIDs)
				if removed > 0 {
					lists[name] = kept
					total += removed
				}
			}
			return lists, nil
		})
	if err != nil {
		return 0, err
	}
	return total, nil
}
