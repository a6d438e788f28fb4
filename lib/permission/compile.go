// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package permission

import "fmt"

// Direction qualifies an access rule: Allow applies a level's flags as
// stored, Deny applies them inverted ("the Chat level's capabilities,
// but as denials").
type Direction string

const (
	Allow Direction = "Allow"
	Deny  Direction = "Deny"
)

// ParseDirection normalizes a stored direction string. The empty
// string maps to Allow — rules persisted before the direction field
// existed carry no value and have always meant Allow.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "Allow", "allow":
		return Allow, nil
	case "Deny", "deny":
		return Deny, nil
	}
	return "", fmt.Errorf("permission: invalid direction %q (want Allow or Deny)", s)
}

// OverwriteSet is the concrete overwrite compiled from a level: every
// key is an explicit allow (true) or deny (false). Neutral
// capabilities are absent, never present with a third value.
type OverwriteSet map[string]bool

// Equal reports whether two overwrite sets contain the same explicit
// flags. Absent keys only compare equal to absent keys — an explicit
// deny is not the same as neutral.
func (o OverwriteSet) Equal(other OverwriteSet) bool {
	if len(o) != len(other) {
		return false
	}
	for capability, allowed := range o {
		otherAllowed, present := other[capability]
		if !present || otherAllowed != allowed {
			return false
		}
	}
	return true
}

// Clone returns a deep, independent copy of the set.
func (o OverwriteSet) Clone() OverwriteSet {
	cloned := make(OverwriteSet, len(o))
	for capability, allowed := range o {
		cloned[capability] = allowed
	}
	return cloned
}

// Compile converts a level into the overwrite set for the given rule
// direction. Allow copies the level as-is; Deny inverts every explicit
// flag. Absent keys stay absent either way, so neutrality survives
// inversion and double inversion restores the original. Compile never
// mutates the input level.
func Compile(level Level, direction Direction) OverwriteSet {
	set := make(OverwriteSet, len(level))
	for capability, allowed := range level {
		if direction == Deny {
			set[capability] = !allowed
		} else {
			set[capability] = allowed
		}
	}
	return set
}
