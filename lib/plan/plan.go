// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"sort"

	"github.com/bureau-foundation/warrant/lib/permission"
	"github.com/bureau-foundation/warrant/platform"
)

// Entry is one planned permission overwrite: a subject and the
// compiled overwrite it should have on some unit. Source is a human
// label recording where the entry came from ("@everyone baseline →
// View", "Raid Team → Chat") for previews and logs.
type Entry struct {
	Subject   platform.Subject        `json:"subject"`
	Overwrite permission.OverwriteSet `json:"overwrite"`
	Source    string                  `json:"source"`
}

// Plan maps each unit ID (category or channel) to the complete list
// of overwrites that should exist on it. A unit absent from the plan
// but managed by warrant will have all its overwrites cleared on
// apply.
//
// Invariant: at most one entry per (unit, subject) pair. When two
// configuration sources produce an overwrite for the same pair, the
// later one replaces the earlier (the builder logs the collision).
type Plan struct {
	GuildID string             `json:"guild_id"`
	Entries map[string][]Entry `json:"entries"`
}

// NewPlan returns an empty plan for the given guild.
func NewPlan(guildID string) *Plan {
	return &Plan{
		GuildID: guildID,
		Entries: make(map[string][]Entry),
	}
}

// add inserts an entry for a unit, replacing any existing entry for
// the same subject. It returns the source of the replaced entry and
// whether a replacement occurred.
func (p *Plan) add(unitID string, entry Entry) (replaced string, wasReplaced bool) {
	entries := p.Entries[unitID]
	for i, existing := range entries {
		if existing.Subject == entry.Subject {
			entries[i] = entry
			return existing.Source, true
		}
	}
	p.Entries[unitID] = append(entries, entry)
	return "", false
}

// lookup returns the entry for (unitID, subject) if present.
func (p *Plan) lookup(unitID string, subject platform.Subject) (Entry, bool) {
	for _, entry := range p.Entries[unitID] {
		if entry.Subject == subject {
			return entry, true
		}
	}
	return Entry{}, false
}

// IsEmpty reports whether the plan contains no entries at all.
func (p *Plan) IsEmpty() bool {
	for _, entries := range p.Entries {
		if len(entries) > 0 {
			return false
		}
	}
	return true
}

// EntryCount returns the total number of planned overwrites.
func (p *Plan) EntryCount() int {
	total := 0
	for _, entries := range p.Entries {
		total += len(entries)
	}
	return total
}

// UnitIDs returns the planned unit IDs in sorted order. Diff and
// apply iterate in this order so output and write sequences are
// stable across runs.
func (p *Plan) UnitIDs() []string {
	ids := make([]string, 0, len(p.Entries))
	for id := range p.Entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
