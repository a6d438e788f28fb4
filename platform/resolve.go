// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

// RoleRef is a stored role reference. Current data stores the
// platform's numeric role ID; data persisted before IDs were stored
// carries the role's human name instead. Both forms resolve through
// Resolve — this is the only place the dual encoding is interpreted,
// so call sites never string-parse stored references themselves.
type RoleRef string

// IsID reports whether the reference is a platform ID (all digits).
// Non-ID references are legacy names: they resolve only while a role
// with that exact name exists, and pruning keeps them because their
// validity cannot be judged from an ID set.
func (r RoleRef) IsID() bool {
	if len(r) == 0 {
		return false
	}
	for _, ch := range r {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// Resolve looks the reference up against a topology snapshot: by ID
// first, then by name for legacy references. Returns false when
// nothing matches — the caller skips the reference with a warning.
func (r RoleRef) Resolve(byID, byName map[string]Role) (Role, bool) {
	if r.IsID() {
		role, found := byID[string(r)]
		return role, found
	}
	role, found := byName[string(r)]
	return role, found
}

// ResolveRoleRefs resolves a stored reference list against a topology
// snapshot. Unresolvable references are returned separately so callers
// can report them; resolution failures never abort the batch.
func ResolveRoleRefs(refs []RoleRef, topology *Topology) (resolved []Role, missing []RoleRef) {
	byID := topology.RolesByID()
	byName := topology.RolesByName()
	for _, ref := range refs {
		role, found := ref.Resolve(byID, byName)
		if !found {
			missing = append(missing, ref)
			continue
		}
		resolved = append(resolved, role)
	}
	return resolved, missing
}
