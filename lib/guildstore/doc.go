// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package guildstore persists Warrant's per-guild configuration: the
// permission levels, role bundles, exclusive groups, category
// baselines, access rules, and command scopes a guild's administrators
// have defined.
//
// Each guild owns one directory under the store root, holding one JSON
// document per collection. A missing document reads as its type's
// default (the factory levels for permission_levels, empty collections
// otherwise); a malformed document reads as the default with a logged
// warning, never as an error on a read path.
//
// Every mutation runs under the guild's lock: load, modify, persist.
// Locks are created lazily in a registry guarded by the store's own
// mutex, so an unbounded number of guilds serialize independently —
// two commands on the same guild cannot interleave their
// read-modify-write, while commands on different guilds proceed in
// parallel. Persistence is crash-atomic: documents are written to a
// temporary file, fsynced, and renamed over the target.
//
// Named-entity mutations fail with ErrNotFound or ErrAlreadyExists
// (errors.Is-compatible sentinels); malformed inputs fail with a typed
// *ValidationError.
package guildstore
