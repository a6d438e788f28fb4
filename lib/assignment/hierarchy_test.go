// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assignment

import (
	"testing"

	"github.com/bureau-foundation/warrant/platform"
)

func TestTopRolePosition(t *testing.T) {
	topology := testTopology()

	member := &platform.Member{ID: "m1", RoleIDs: []string{"30", "10"}}
	if got := TopRolePosition(member, topology); got != 3 {
		t.Errorf("TopRolePosition = %d, want 3", got)
	}

	roleless := &platform.Member{ID: "m2"}
	if got := TopRolePosition(roleless, topology); got != 0 {
		t.Errorf("TopRolePosition (no roles) = %d, want 0", got)
	}

	// Dead role IDs are ignored.
	stale := &platform.Member{ID: "m3", RoleIDs: []string{"999"}}
	if got := TopRolePosition(stale, topology); got != 0 {
		t.Errorf("TopRolePosition (stale) = %d, want 0", got)
	}
}

func TestBlockedRoles(t *testing.T) {
	topology := testTopology()
	actor := &platform.Member{ID: "m1", RoleIDs: []string{"10"}} // top position 3

	// Admin (10) and Red Team (3, equal) are blocked; Blue Team and
	// Veteran are below.
	blocked := BlockedRoles(actor, topology.Roles, topology)
	want := map[string]bool{"Red Team": true, "Admin": true}
	if len(blocked) != len(want) {
		t.Fatalf("blocked = %v", blocked)
	}
	for _, name := range blocked {
		if !want[name] {
			t.Errorf("unexpectedly blocked: %s", name)
		}
	}
}

func TestBlockedRolesOwnerBypass(t *testing.T) {
	topology := testTopology()
	owner := &platform.Member{ID: "owner-1"}
	if blocked := BlockedRoles(owner, topology.Roles, topology); blocked != nil {
		t.Errorf("owner blocked from %v", blocked)
	}
}

func TestCanManageMember(t *testing.T) {
	topology := testTopology()
	high := &platform.Member{ID: "m1", RoleIDs: []string{"10"}}
	low := &platform.Member{ID: "m2", RoleIDs: []string{"30"}}
	owner := &platform.Member{ID: "owner-1"}

	if !CanManageMember(high, low, topology) {
		t.Error("higher actor should manage lower target")
	}
	if CanManageMember(low, high, topology) {
		t.Error("lower actor should not manage higher target")
	}
	if CanManageMember(high, high, topology) {
		t.Error("equal positions should not manage")
	}
	if !CanManageMember(owner, high, topology) {
		t.Error("owner manages everyone")
	}
	if CanManageMember(high, owner, topology) {
		t.Error("nobody manages the owner")
	}
}
