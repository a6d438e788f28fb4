// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import "testing"

func testTopology() *Topology {
	return &Topology{
		GuildID: "guild-1",
		OwnerID: "owner",
		Roles: []Role{
			{ID: "10", Name: "Raiders", Position: 3},
			{ID: "20", Name: "Officers", Position: 5},
		},
	}
}

func TestRoleRefResolvesByIDFirst(t *testing.T) {
	topology := testTopology()
	role, found := RoleRef("10").Resolve(topology.RolesByID(), topology.RolesByName())
	if !found || role.Name != "Raiders" {
		t.Errorf("Resolve(\"10\") = %v, %v; want Raiders", role, found)
	}
}

func TestRoleRefFallsBackToLegacyName(t *testing.T) {
	topology := testTopology()
	role, found := RoleRef("Officers").Resolve(topology.RolesByID(), topology.RolesByName())
	if !found || role.ID != "20" {
		t.Errorf("Resolve(\"Officers\") = %v, %v; want role 20", role, found)
	}
}

func TestRoleRefIsID(t *testing.T) {
	cases := map[RoleRef]bool{
		"10":       true,
		"Officers": false,
		"12ab":     false,
		"":         false,
	}
	for ref, want := range cases {
		if got := ref.IsID(); got != want {
			t.Errorf("RoleRef(%q).IsID() = %v, want %v", ref, got, want)
		}
	}
}

func TestResolveRoleRefsSkipsMissingIndividually(t *testing.T) {
	topology := testTopology()
	resolved, missing := ResolveRoleRefs([]RoleRef{"10", "99", "Officers", "Ghosts"}, topology)

	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved roles, got %d", len(resolved))
	}
	if resolved[0].ID != "10" || resolved[1].ID != "20" {
		t.Errorf("resolved wrong roles: %v", resolved)
	}
	if len(missing) != 2 || missing[0] != "99" || missing[1] != "Ghosts" {
		t.Errorf("missing = %v, want [99 Ghosts]", missing)
	}
}
