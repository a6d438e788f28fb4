// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import "github.com/bureau-foundation/warrant/lib/permission"

// Role is a guild role. Position orders the role hierarchy: higher
// positions outrank lower ones, with the everyone role at position 0.
type Role struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// UnitKind distinguishes the two organizational unit shapes.
type UnitKind string

const (
	UnitCategory UnitKind = "category"
	UnitChannel  UnitKind = "channel"
)

// Unit is an organizational unit — a category or a channel — together
// with its current overwrite state.
type Unit struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind UnitKind `json:"kind"`

	// ParentID is the channel's parent category. Empty for categories
	// and for channels outside any category.
	ParentID string `json:"parent_id,omitempty"`

	// Synced marks a channel whose overwrites mirror its parent
	// category. The platform propagates category writes to synced
	// channels automatically, so the pipeline never touches them
	// directly. Always false for categories.
	Synced bool `json:"synced,omitempty"`

	// Overwrites is the unit's live overwrite state, one entry per
	// subject.
	Overwrites map[Subject]permission.OverwriteSet `json:"overwrites,omitempty"`
}

// Managed reports whether the reconciliation pipeline owns this unit's
// overwrites. Categories are always managed; channels only when they
// are not synced to their parent (synced channels inherit whatever the
// category gets).
func (u *Unit) Managed() bool {
	if u.Kind == UnitCategory {
		return true
	}
	return !u.Synced
}

// Member is a guild member and the roles they currently hold.
type Member struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	RoleIDs     []string `json:"role_ids"`
}

// HasRole reports whether the member holds the given role.
func (m *Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Topology is a point-in-time snapshot of a guild's structure: its
// roles and organizational units, plus the owner (who bypasses
// hierarchy checks). A snapshot is fetched once per pipeline operation
// and never mutated.
type Topology struct {
	GuildID string `json:"guild_id"`
	OwnerID string `json:"owner_id"`
	Roles   []Role `json:"roles"`
	Units   []Unit `json:"units"`
}

// RolesByID returns an ID-keyed index of the snapshot's roles.
func (t *Topology) RolesByID() map[string]Role {
	index := make(map[string]Role, len(t.Roles))
	for _, role := range t.Roles {
		index[role.ID] = role
	}
	return index
}

// RolesByName returns a name-keyed index of the snapshot's roles, for
// resolving legacy name-based references. When two roles share a name
// the later one in the snapshot wins — name collisions are already
// ambiguous in the source data.
func (t *Topology) RolesByName() map[string]Role {
	index := make(map[string]Role, len(t.Roles))
	for _, role := range t.Roles {
		index[role.Name] = role
	}
	return index
}

// UnitsByID returns an ID-keyed index of the snapshot's units. The
// pointers alias the snapshot's backing array.
func (t *Topology) UnitsByID() map[string]*Unit {
	index := make(map[string]*Unit, len(t.Units))
	for i := range t.Units {
		index[t.Units[i].ID] = &t.Units[i]
	}
	return index
}

// CategoryIDs returns the set of category unit IDs.
func (t *Topology) CategoryIDs() map[string]bool {
	ids := make(map[string]bool)
	for i := range t.Units {
		if t.Units[i].Kind == UnitCategory {
			ids[t.Units[i].ID] = true
		}
	}
	return ids
}

// UnitIDs returns the set of all unit IDs, categories and channels.
func (t *Topology) UnitIDs() map[string]bool {
	ids := make(map[string]bool, len(t.Units))
	for i := range t.Units {
		ids[t.Units[i].ID] = true
	}
	return ids
}

// RoleIDs returns the set of all role IDs.
func (t *Topology) RoleIDs() map[string]bool {
	ids := make(map[string]bool, len(t.Roles))
	for _, role := range t.Roles {
		ids[role.ID] = true
	}
	return ids
}
