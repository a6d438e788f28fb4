// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"sort"

	"github.com/bureau-foundation/warrant/lib/permission"
	"github.com/bureau-foundation/warrant/platform"
)

// ChangeKind classifies a diff line.
type ChangeKind string

const (
	// ChangeApply: the planned overwrite differs from (or is absent in)
	// live state and will be written.
	ChangeApply ChangeKind = "apply"

	// ChangeKeep: the planned overwrite already matches live state.
	ChangeKeep ChangeKind = "keep"

	// ChangeRemove: a live overwrite with no planned counterpart will
	// be cleared.
	ChangeRemove ChangeKind = "remove"

	// ChangeWarning: the plan references a unit that no longer exists.
	ChangeWarning ChangeKind = "warning"
)

// ChangeLine is one row of a plan preview.
type ChangeLine struct {
	Kind     ChangeKind       `json:"kind"`
	UnitID   string           `json:"unit_id"`
	UnitName string           `json:"unit_name,omitempty"`
	Subject  platform.Subject `json:"subject,omitzero"`

	// SubjectName is the display name for the subject: "@everyone" or
	// the role's name (the raw ID when the role is gone).
	SubjectName string `json:"subject_name,omitempty"`

	// Detail carries the entry source for apply/keep lines and the
	// removal reason for remove lines.
	Detail string `json:"detail,omitempty"`
}

// Diff compares a plan against a live topology snapshot and returns
// the changes an apply would make, in a deterministic order (planned
// units sorted by ID, then unplanned managed units sorted by ID;
// removals before applies within a unit). Pure: no platform calls.
//
// Running Diff twice over the same inputs yields identical output, and
// diffing right after a clean apply yields only keep lines.
func Diff(p *Plan, topology *platform.Topology) []ChangeLine {
	unitsByID := topology.UnitsByID()
	rolesByID := topology.RolesByID()

	subjectName := func(subject platform.Subject) string {
		if subject.IsEveryone() {
			return "@everyone"
		}
		roleID, _ := subject.RoleID()
		if role, found := rolesByID[roleID]; found {
			return role.Name
		}
		return roleID
	}

	var lines []ChangeLine

	// Planned units.
	for _, unitID := range p.UnitIDs() {
		entries := p.Entries[unitID]
		unit, found := unitsByID[unitID]
		if !found {
			lines = append(lines, ChangeLine{
				Kind:   ChangeWarning,
				UnitID: unitID,
				Detail: "unit not found on platform",
			})
			continue
		}

		// Live overwrites with no planned counterpart.
		for _, subject := range sortedSubjects(unit.Overwrites) {
			if _, planned := p.lookup(unitID, subject); planned {
				continue
			}
			lines = append(lines, ChangeLine{
				Kind:        ChangeRemove,
				UnitID:      unitID,
				UnitName:    unit.Name,
				Subject:     subject,
				SubjectName: subjectName(subject),
				Detail:      "not in plan",
			})
		}

		// Planned overwrites, changed or already matching.
		for _, entry := range entries {
			kind := ChangeApply
			if live, exists := unit.Overwrites[entry.Subject]; exists && live.Equal(entry.Overwrite) {
				kind = ChangeKeep
			}
			lines = append(lines, ChangeLine{
				Kind:        kind,
				UnitID:      unitID,
				UnitName:    unit.Name,
				Subject:     entry.Subject,
				SubjectName: subjectName(entry.Subject),
				Detail:      entry.Source,
			})
		}
	}

	// Managed units outside the plan: every live overwrite will be
	// stripped so nothing outside the configuration lingers.
	for _, unitID := range sortedUnplannedManaged(p, topology) {
		unit := unitsByID[unitID]
		for _, subject := range sortedSubjects(unit.Overwrites) {
			lines = append(lines, ChangeLine{
				Kind:        ChangeRemove,
				UnitID:      unitID,
				UnitName:    unit.Name,
				Subject:     subject,
				SubjectName: subjectName(subject),
				Detail:      "unit unmanaged by plan",
			})
		}
	}

	return lines
}

// sortedSubjects returns the overwrite map's subjects ordered by their
// text form, so iteration order never leaks map randomness.
func sortedSubjects(overwrites map[platform.Subject]permission.OverwriteSet) []platform.Subject {
	subjects := make([]platform.Subject, 0, len(overwrites))
	for subject := range overwrites {
		subjects = append(subjects, subject)
	}
	sort.Slice(subjects, func(i, j int) bool {
		return subjects[i].String() < subjects[j].String()
	})
	return subjects
}

// sortedUnplannedManaged returns the IDs of managed units that the
// plan does not cover, sorted.
func sortedUnplannedManaged(p *Plan, topology *platform.Topology) []string {
	var ids []string
	for i := range topology.Units {
		unit := &topology.Units[i]
		if _, planned := p.Entries[unit.ID]; planned {
			continue
		}
		if !unit.Managed() {
			continue
		}
		ids = append(ids, unit.ID)
	}
	sort.Strings(ids)
	return ids
}
