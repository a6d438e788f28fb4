// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package assignment applies role bundles to guild members.
//
// A bundle is an ordered list of roles granted together. Exclusive
// groups constrain membership: a member may hold at most one role from
// a group, so assigning a bundle first removes any conflicting roles
// the member already holds from the groups the bundle touches, then
// adds the bundle's roles. The removal-before-add ordering is what
// keeps the at-most-one invariant from being observable as violated
// mid-assignment.
//
// The engine performs no authorization itself. Hierarchy preconditions
// (the actor outranks every affected role and the target member, with
// an owner bypass) are pure helpers for the caller to gate on before
// invoking the engine.
package assignment
