// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assignment

import (
	"github.com/bureau-foundation/warrant/platform"
)

// TopRolePosition returns the highest role position the member holds.
// A member with no roles beyond the implicit everyone role sits at
// position 0, the bottom of the hierarchy.
func TopRolePosition(member *platform.Member, topology *platform.Topology) int {
	rolesByID := topology.RolesByID()
	top := 0
	for _, roleID := range member.RoleIDs {
		if role, found := rolesByID[roleID]; found && role.Position > top {
			top = role.Position
		}
	}
	return top
}

// BlockedRoles returns the names of roles the actor cannot manage:
// roles positioned at or above the actor's top role. The guild owner
// is never blocked. An empty result means the whole set is manageable.
func BlockedRoles(actor *platform.Member, roles []platform.Role, topology *platform.Topology) []string {
	if actor.ID == topology.OwnerID {
		return nil
	}
	actorTop := TopRolePosition(actor, topology)
	var blocked []string
	for _, role := range roles {
		if role.Position >= actorTop {
			blocked = append(blocked, role.Name)
		}
	}
	return blocked
}

// CanManageMember reports whether the actor outranks the target in the
// role hierarchy. The guild owner manages everyone; nobody else
// manages the owner; otherwise the actor's top role must be strictly
// above the target's.
func CanManageMember(actor, target *platform.Member, topology *platform.Topology) bool {
	if actor.ID == topology.OwnerID {
		return true
	}
	if target.ID == topology.OwnerID {
		return false
	}
	return TopRolePosition(actor, topology) > TopRolePosition(target, topology)
}
