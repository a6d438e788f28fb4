// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"fmt"
	"strings"
)

// Subject identifies what an overwrite applies to: a specific role, or
// the guild's default ("everyone") sentinel. Subject is a closed
// variant — callers branch on IsEveryone/RoleID rather than inspecting
// a shared identifier field, because the everyone sentinel has no role
// ID of its own.
//
// Subject is comparable and usable as a map key. The zero value is not
// valid; construct subjects with RoleSubject or EveryoneSubject.
type Subject struct {
	kind   subjectKind
	roleID string
}

type subjectKind uint8

const (
	subjectInvalid subjectKind = iota
	subjectRole
	subjectEveryone
)

// RoleSubject returns the subject for a role's overwrite.
func RoleSubject(roleID string) Subject {
	return Subject{kind: subjectRole, roleID: roleID}
}

// EveryoneSubject returns the default/no-role sentinel subject.
func EveryoneSubject() Subject {
	return Subject{kind: subjectEveryone}
}

// IsEveryone reports whether this is the default-subject sentinel.
func (s Subject) IsEveryone() bool { return s.kind == subjectEveryone }

// RoleID returns the role identifier and true for role subjects, and
// "" and false for the everyone sentinel.
func (s Subject) RoleID() (string, bool) {
	if s.kind != subjectRole {
		return "", false
	}
	return s.roleID, true
}

// String returns a stable identifier used for ordering, logging, and
// wire encoding: "everyone" for the sentinel, "role:<id>" for roles.
func (s Subject) String() string {
	switch s.kind {
	case subjectEveryone:
		return "everyone"
	case subjectRole:
		return "role:" + s.roleID
	}
	return "invalid"
}

// MarshalText encodes the subject using its String form. Plan files
// persist subjects as text so the deterministic CBOR encoder sees a
// string, not an empty struct.
func (s Subject) MarshalText() ([]byte, error) {
	if s.kind == subjectInvalid {
		return nil, fmt.Errorf("platform: cannot encode zero-value subject")
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a subject from its String form.
func (s *Subject) UnmarshalText(text []byte) error {
	value := string(text)
	switch {
	case value == "everyone":
		*s = EveryoneSubject()
	case strings.HasPrefix(value, "role:") && len(value) > len("role:"):
		*s = RoleSubject(strings.TrimPrefix(value, "role:"))
	default:
		return fmt.Errorf("platform: invalid subject encoding %q", value)
	}
	return nil
}
