// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import "testing"

func TestSubjectRoundTrip(t *testing.T) {
	subjects := []Subject{
		EveryoneSubject(),
		RoleSubject("123456789"),
	}
	for _, subject := range subjects {
		encoded, err := subject.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%s): %v", subject, err)
		}
		var decoded Subject
		if err := decoded.UnmarshalText(encoded); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", encoded, err)
		}
		if decoded != subject {
			t.Errorf("round trip changed %s into %s", subject, decoded)
		}
	}
}

func TestSubjectVariants(t *testing.T) {
	everyone := EveryoneSubject()
	if !everyone.IsEveryone() {
		t.Error("EveryoneSubject should report IsEveryone")
	}
	if _, isRole := everyone.RoleID(); isRole {
		t.Error("everyone sentinel must not expose a role ID")
	}

	role := RoleSubject("42")
	if role.IsEveryone() {
		t.Error("role subject reported IsEveryone")
	}
	if id, isRole := role.RoleID(); !isRole || id != "42" {
		t.Errorf("RoleID() = %q, %v; want \"42\", true", id, isRole)
	}

	if role == everyone {
		t.Error("distinct subject variants compared equal")
	}
}

func TestSubjectRejectsInvalidEncodings(t *testing.T) {
	for _, input := range []string{"", "role:", "member:7", "anything"} {
		var subject Subject
		if err := subject.UnmarshalText([]byte(input)); err == nil {
			t.Errorf("UnmarshalText(%q): expected error", input)
		}
	}

	var zero Subject
	if _, err := zero.MarshalText(); err == nil {
		t.Error("marshaling the zero-value subject should fail")
	}
}
