// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"

	"github.com/bureau-foundation/warrant/lib/permission"
)

// Client is the capability Warrant needs from the live platform: read
// a guild's topology, write overwrites, and manage member roles. The
// reconciliation pipeline and the assignment engine depend on this
// interface, never on the REST implementation — tests substitute
// in-memory fakes.
type Client interface {
	// Topology fetches a point-in-time snapshot of the guild's roles,
	// units, and overwrite state.
	Topology(ctx context.Context, guildID string) (*Topology, error)

	// SetOverwrite creates or replaces the overwrite for one subject
	// on one unit. The write is a full replacement of that subject's
	// overwrite, not a merge.
	SetOverwrite(ctx context.Context, unitID string, subject Subject, overwrite permission.OverwriteSet) error

	// ClearOverwrite removes the overwrite for one subject on one
	// unit. Clearing a subject with no overwrite is not an error.
	ClearOverwrite(ctx context.Context, unitID string, subject Subject) error

	// Member fetches a guild member and their current roles.
	Member(ctx context.Context, guildID, memberID string) (*Member, error)

	// AddMemberRole grants a role to a member.
	AddMemberRole(ctx context.Context, guildID, memberID, roleID string) error

	// RemoveMemberRole revokes a role from a member.
	RemoveMemberRole(ctx context.Context, guildID, memberID, roleID string) error
}
