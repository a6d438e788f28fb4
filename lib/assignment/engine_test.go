// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assignment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/bureau-foundation/warrant/lib/guildstore"
	"github.com/bureau-foundation/warrant/lib/permission"
	"github.com/bureau-foundation/warrant/platform"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// roleCall records one membership mutation the fake client saw, in
// global order — the tests assert removal-before-add through it.
type roleCall struct {
	Op       string // "add" or "remove"
	MemberID string
	RoleID   string
}

type fakeClient struct {
	mu       sync.Mutex
	calls    []roleCall
	failRole string // role ID whose mutation fails
}

func (c *fakeClient) AddMemberRole(ctx context.Context, guildID, memberID, roleID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if roleID == c.failRole {
		return &platform.APIError{Code: platform.ErrCodeForbidden, StatusCode: 403}
	}
	c.calls = append(c.calls, roleCall{Op: "add", MemberID: memberID, RoleID: roleID})
	return nil
}

func (c *fakeClient) RemoveMemberRole(ctx context.Context, guildID, memberID, roleID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if roleID == c.failRole {
		return &platform.APIError{Code: platform.ErrCodeForbidden, StatusCode: 403}
	}
	c.calls = append(c.calls, roleCall{Op: "remove", MemberID: memberID, RoleID: roleID})
	return nil
}

func (c *fakeClient) Topology(ctx context.Context, guildID string) (*platform.Topology, error) {
	return nil, fmt.Errorf("fakeClient: Topology not supported")
}

func (c *fakeClient) Member(ctx context.Context, guildID, memberID string) (*platform.Member, error) {
	return nil, fmt.Errorf("fakeClient: Member not supported")
}

func (c *fakeClient) SetOverwrite(ctx context.Context, unitID string, subject platform.Subject, overwrite permission.OverwriteSet) error {
	return fmt.Errorf("fakeClient: SetOverwrite not supported")
}

func (c *fakeClient) ClearOverwrite(ctx context.Context, unitID string, subject platform.Subject) error {
	return fmt.Errorf("fakeClient: ClearOverwrite not supported")
}

// testTopology: team roles 10 (Red) and 20 (Blue) form the "teams"
// exclusive group; 30 (Veteran) is unconstrained.
func testTopology() *platform.Topology {
	return &platform.Topology{
		GuildID: "guild-1",
		OwnerID: "owner-1",
		Roles: []platform.Role{
			{ID: "10", Name: "Red Team", Position: 3},
			{ID: "20", Name: "Blue Team", Position: 2},
			{ID: "30", Name: "Veteran", Position: 1},
			{ID: "40", Name: "Admin", Position: 10},
		},
	}
}

func testGroups() guildstore.RoleList {
	return guildstore.RoleList{
		"teams": {"10", "20"},
	}
}

func rolesByID(t *testing.T, topology *platform.Topology, ids ...string) []platform.Role {
	t.Helper()
	index := topology.RolesByID()
	var roles []platform.Role
	for _, id := range ids {
		role, found := index[id]
		if !found {
			t.Fatalf("fixture role %s missing", id)
		}
		roles = append(roles, role)
	}
	return roles
}

func TestApplyBundleRemovesConflictsFirst(t *testing.T) {
	topology := testTopology()
	client := &fakeClient{}
	engine := NewEngine(client, discardLogger())

	// Member holds Blue Team (20); the bundle grants Red Team (10),
	// which shares the exclusive group, so Blue must be removed before
	// Red is added.
	member := &platform.Member{ID: "m1", DisplayName: "Kael", RoleIDs: []string{"20"}}
	bundle := rolesByID(t, topology, "10", "30")

	added, removed, err := engine.ApplyBundle(context.Background(), "guild-1", member, bundle, testGroups(), topology)
	if err != nil {
		t.Fatalf("ApplyBundle: %v", err)
	}

	if len(added) != 2 || added[0].ID != "10" || added[1].ID != "30" {
		t.Errorf("added = %+v", added)
	}
	if len(removed) != 1 || removed[0].ID != "20" {
		t.Errorf("removed = %+v", removed)
	}

	wantCalls := []roleCall{
		{Op: "remove", MemberID: "m1", RoleID: "20"},
		{Op: "add", MemberID: "m1", RoleID: "10"},
		{Op: "add", MemberID: "m1", RoleID: "30"},
	}
	if len(client.calls) != len(wantCalls) {
		t.Fatalf("calls = %+v", client.calls)
	}
	for i, want := range wantCalls {
		if client.calls[i] != want {
			t.Errorf("call %d = %+v, want %+v", i, client.calls[i], want)
		}
	}
}

func TestApplyBundleKeepsRolesInsideBundle(t *testing.T) {
	topology := testTopology()
	client := &fakeClient{}
	engine := NewEngine(client, discardLogger())

	// Member already holds Red Team and the bundle grants it again:
	// the role is in the touched group but also in the bundle, so no
	// removal happens.
	member := &platform.Member{ID: "m1", DisplayName: "Kael", RoleIDs: []string{"10"}}
	bundle := rolesByID(t, topology, "10")

	_, removed, err := engine.ApplyBundle(context.Background(), "guild-1", member, bundle, testGroups(), topology)
	if err != nil {
		t.Fatalf("ApplyBundle: %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("removed = %+v, want none", removed)
	}
	for _, call := range client.calls {
		if call.Op == "remove" {
			t.Errorf("unexpected removal: %+v", call)
		}
	}
}

func TestApplyBundleNoGroupsTouched(t *testing.T) {
	topology := testTopology()
	client := &fakeClient{}
	engine := NewEngine(client, discardLogger())

	// Veteran is in no exclusive group; even though the member holds a
	// team role, nothing conflicts.
	member := &platform.Member{ID: "m1", DisplayName: "Kael", RoleIDs: []string{"20"}}
	bundle := rolesByID(t, topology, "30")

	_, removed, err := engine.ApplyBundle(context.Background(), "guild-1", member, bundle, testGroups(), topology)
	if err != nil {
		t.Fatalf("ApplyBundle: %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("removed = %+v", removed)
	}
}

func TestApplyBundlePartialProgressOnFailure(t *testing.T) {
	topology := testTopology()
	client := &fakeClient{failRole: "30"}
	engine := NewEngine(client, discardLogger())

	member := &platform.Member{ID: "m1", DisplayName: "Kael", RoleIDs: []string{"20"}}
	bundle := rolesByID(t, topology, "10", "30")

	added, removed, err := engine.ApplyBundle(context.Background(), "guild-1", member, bundle, testGroups(), topology)
	if err == nil {
		t.Fatal("ApplyBundle should fail when a role add fails")
	}
	if len(removed) != 1 || len(added) != 1 || added[0].ID != "10" {
		t.Errorf("partial progress: added=%+v removed=%+v", added, removed)
	}
}

func TestRemoveBundleOnlyHeldRoles(t *testing.T) {
	topology := testTopology()
	client := &fakeClient{}
	engine := NewEngine(client, discardLogger())

	member := &platform.Member{ID: "m1", DisplayName: "Kael", RoleIDs: []string{"10"}}
	bundle := rolesByID(t, topology, "10", "30")

	removed, err := engine.RemoveBundle(context.Background(), "guild-1", member, bundle)
	if err != nil {
		t.Fatalf("RemoveBundle: %v", err)
	}
	if len(removed) != 1 || removed[0].ID != "10" {
		t.Errorf("removed = %+v, want only the held role", removed)
	}
}

func TestRemoveBundleNothingHeld(t *testing.T) {
	topology := testTopology()
	engine := NewEngine(&fakeClient{}, discardLogger())

	member := &platform.Member{ID: "m1", DisplayName: "Kael"}
	removed, err := engine.RemoveBundle(context.Background(), "guild-1", member, rolesByID(t, topology, "10"))
	if err != nil {
		t.Fatalf("RemoveBundle: %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("removed = %+v", removed)
	}
}
