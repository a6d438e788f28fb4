// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assignment

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/bureau-foundation/warrant/lib/guildstore"
	"github.com/bureau-foundation/warrant/platform"
)

// Engine applies and removes role bundles through the platform client.
type Engine struct {
	client platform.Client
	logger *slog.Logger
}

// NewEngine returns an Engine writing through the given client.
func NewEngine(client platform.Client, logger *slog.Logger) *Engine {
	return &Engine{client: client, logger: logger}
}

// ApplyBundle grants every bundle role to the member. Before adding,
// any role the member holds that belongs to an exclusive group one of
// the bundle roles is in — and is not itself part of the bundle — is
// removed. Conflict removals happen strictly before additions.
//
// Returns the roles added and the conflicting roles removed. A client
// failure stops the operation and reports partial progress through the
// returned slices alongside the error.
func (e *Engine) ApplyBundle(ctx context.Context, guildID string, member *platform.Member, bundleRoles []platform.Role, groups guildstore.RoleList, topology *platform.Topology) (added, removed []platform.Role, err error) {
	conflicts := e.conflictingRoles(member, bundleRoles, groups, topology)

	for _, role := range conflicts {
		if err := e.client.RemoveMemberRole(ctx, guildID, member.ID, role.ID); err != nil {
			return added, removed, fmt.Errorf("assignment: removing conflicting role %s: %w", role.Name, err)
		}
		removed = append(removed, role)
		e.logger.Info("removed conflicting role",
			"member", member.DisplayName, "role", role.Name)
	}

	for _, role := range bundleRoles {
		if err := e.client.AddMemberRole(ctx, guildID, member.ID, role.ID); err != nil {
			return added, removed, fmt.Errorf("assignment: adding role %s: %w", role.Name, err)
		}
		added = append(added, role)
	}
	e.logger.Info("applied bundle",
		"member", member.DisplayName, "added", len(added), "removed", len(removed))

	return added, removed, nil
}

// RemoveBundle revokes the bundle roles the member actually holds. No
// exclusive-group logic applies on removal. Returns the roles removed,
// which may be empty when the member holds none of them.
func (e *Engine) RemoveBundle(ctx context.Context, guildID string, member *platform.Member, bundleRoles []platform.Role) (removed []platform.Role, err error) {
	for _, role := range bundleRoles {
		if !member.HasRole(role.ID) {
			continue
		}
		if err := e.client.RemoveMemberRole(ctx, guildID, member.ID, role.ID); err != nil {
			return removed, fmt.Errorf("assignment: removing role %s: %w", role.Name, err)
		}
		removed = append(removed, role)
	}
	if len(removed) > 0 {
		e.logger.Info("removed bundle",
			"member", member.DisplayName, "removed", len(removed))
	}
	return removed, nil
}

// conflictingRoles computes which of the member's current roles must
// go: roles in an exclusive group that the incoming bundle touches,
// excluding roles the bundle itself grants. Group members that no
// longer resolve are skipped; they cannot conflict with anything.
func (e *Engine) conflictingRoles(member *platform.Member, bundleRoles []platform.Role, groups guildstore.RoleList, topology *platform.Topology) []platform.Role {
	bundleIDs := make(map[string]bool, len(bundleRoles))
	for _, role := range bundleRoles {
		bundleIDs[role.ID] = true
	}

	// Resolve each group once and find the groups the bundle touches.
	resolvedGroups := make(map[string][]platform.Role, len(groups))
	roleToGroup := make(map[string]string)
	for groupName, refs := range groups {
		resolved, _ := platform.ResolveRoleRefs(refs, topology)
		resolvedGroups[groupName] = resolved
		for _, role := range resolved {
			roleToGroup[role.ID] = groupName
		}
	}

	incomingSet := make(map[string]bool)
	for _, role := range bundleRoles {
		if groupName, inGroup := roleToGroup[role.ID]; inGroup {
			incomingSet[groupName] = true
		}
	}
	if len(incomingSet) == 0 {
		return nil
	}
	incoming := make([]string, 0, len(incomingSet))
	for groupName := range incomingSet {
		incoming = append(incoming, groupName)
	}
	sort.Strings(incoming)

	var conflicts []platform.Role
	seen := make(map[string]bool)
	for _, groupName := range incoming {
		for _, role := range resolvedGroups[groupName] {
			if bundleIDs[role.ID] || seen[role.ID] {
				continue
			}
			if member.HasRole(role.ID) {
				conflicts = append(conflicts, role)
				seen[role.ID] = true
			}
		}
	}
	return conflicts
}
