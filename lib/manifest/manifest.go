// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest provides parsing, validation, and store import for
// declarative guild configuration manifests.
//
// A manifest describes a guild's whole permission configuration —
// levels, bundles, exclusive groups, category baselines, and access
// rules — in one reviewable file. Manifests are authored as JSONC
// (JSON extended with comments and trailing commas); the stored guild
// documents remain plain JSON.
//
// The typical flow:
//
//  1. ReadFile or Parse: JSONC bytes → Manifest
//  2. Validate: structural checks (known capabilities, referenced
//     levels exist, valid target types)
//  3. Import: write the manifest into a guild's store
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/warrant/lib/permission"
	"github.com/bureau-foundation/warrant/platform"
)

// Manifest is a guild's declarative permission configuration. Every
// section is optional; Import only touches the collections a section
// provides.
type Manifest struct {
	// Levels maps level names to capability flags. Imported levels
	// replace same-named stored levels wholesale.
	Levels map[string]map[string]bool `json:"levels,omitempty"`

	// Bundles maps bundle names to ordered role references (IDs, or
	// names for legacy data).
	Bundles map[string][]string `json:"bundles,omitempty"`

	// ExclusiveGroups maps group names to role references.
	ExclusiveGroups map[string][]string `json:"exclusive_groups,omitempty"`

	// CategoryBaselines maps category IDs to level names.
	CategoryBaselines map[string]string `json:"category_baselines,omitempty"`

	// Rules lists access rules. IDs are assigned by the store on
	// import, never by the manifest.
	Rules []Rule `json:"rules,omitempty"`
}

// Rule is one declarative access rule.
type Rule struct {
	Roles      []string `json:"roles"`
	TargetType string   `json:"target_type"`
	Targets    []string `json:"targets"`
	Level      string   `json:"level"`
	Direction  string   `json:"direction,omitempty"`
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into a Manifest.
func Parse(data []byte) (*Manifest, error) {
	stripped := jsonc.ToJSON(data)

	var m Manifest
	if err := json.Unmarshal(stripped, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// ReadFile reads a JSONC manifest from disk and parses it.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks the manifest's internal consistency:
//
//   - every level flag names a known capability
//   - every baseline and rule references a level defined in the
//     manifest or a factory level
//   - every rule has roles, targets, a valid target type, and a
//     parseable direction
//
// All problems are reported at once, one error per line, so a manifest
// author fixes a file in one pass.
func (m *Manifest) Validate() error {
	var problems []string

	for levelName, flags := range m.Levels {
		for capability := range flags {
			if !permission.Known(capability) {
				problems = append(problems,
					fmt.Sprintf("level %q: unknown capability %q", levelName, capability))
			}
		}
	}

	levelDefined := func(name string) bool {
		if _, inManifest := m.Levels[name]; inManifest {
			return true
		}
		_, inFactory := permission.FactoryLevels()[name]
		return inFactory
	}

	for categoryID, levelName := range m.CategoryBaselines {
		if !levelDefined(levelName) {
			problems = append(problems,
				fmt.Sprintf("baseline for category %s: unknown level %q", categoryID, levelName))
		}
	}

	for i, rule := range m.Rules {
		if len(rule.Roles) == 0 {
			problems = append(problems, fmt.Sprintf("rule %d: no roles", i))
		}
		if len(rule.Targets) == 0 {
			problems = append(problems, fmt.Sprintf("rule %d: no targets", i))
		}
		if rule.TargetType != "category" && rule.TargetType != "channel" {
			problems = append(problems,
				fmt.Sprintf("rule %d: invalid target type %q (want category or channel)", i, rule.TargetType))
		}
		if !levelDefined(rule.Level) {
			problems = append(problems, fmt.Sprintf("rule %d: unknown level %q", i, rule.Level))
		}
		if _, err := permission.ParseDirection(rule.Direction); err != nil {
			problems = append(problems, fmt.Sprintf("rule %d: %v", i, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("manifest: %d problem(s):\n  %s",
			len(problems), strings.Join(problems, "\n  "))
	}
	return nil
}

// RoleRefs converts a manifest's string references to the store's
// reference type.
func RoleRefs(refs []string) []platform.RoleRef {
	out := make([]platform.RoleRef, len(refs))
	for i, ref := range refs {
		out[i] = platform.RoleRef(ref)
	}
	return out
}
