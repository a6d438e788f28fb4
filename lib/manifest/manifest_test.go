// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/bureau-foundation/warrant/lib/guildstore"
)

const sampleManifest = `{
	// Raid community configuration.
	"levels": {
		"Lurker": {
			"view_channel": true,
			"send_messages": false, // read-only
		},
	},
	"bundles": {
		"raiders": ["100", "200"],
	},
	"exclusive_groups": {
		"teams": ["100", "300"],
	},
	"category_baselines": {
		"cat-1": "Lurker",
		"cat-2": "View",
	},
	"rules": [
		{
			"roles": ["100"],
			"target_type": "channel",
			"targets": ["ch-1"],
			"level": "Chat",
		},
		{
			"roles": ["300"],
			"target_type": "category",
			"targets": ["cat-1"],
			"level": "Lurker",
			"direction": "deny",
		},
	],
}`

func TestParseJSONC(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(m.Levels) != 1 || m.Levels["Lurker"]["view_channel"] != true {
		t.Errorf("Levels = %+v", m.Levels)
	}
	if len(m.Rules) != 2 || m.Rules[1].Direction != "deny" {
		t.Errorf("Rules = %+v", m.Rules)
	}
	if m.CategoryBaselines["cat-2"] != "View" {
		t.Errorf("CategoryBaselines = %+v", m.CategoryBaselines)
	}
}

func TestValidateAcceptsSample(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	m := &Manifest{
		Levels: map[string]map[string]bool{
			"Broken": {"teleport": true},
		},
		CategoryBaselines: map[string]string{"cat-1": "Ghost"},
		Rules: []Rule{
			{TargetType: "server", Level: "Ghost", Direction: "sideways"},
		},
	}

	err := m.Validate()
	if err == nil {
		t.Fatal("Validate should fail")
	}
	message := err.Error()
	for _, want := range []string{
		"unknown capability \"teleport\"",
		"unknown level \"Ghost\"",
		"no roles",
		"no targets",
		"invalid target type \"server\"",
		"invalid direction",
	} {
		if !strings.Contains(message, want) {
			t.Errorf("error missing %q:\n%s", want, message)
		}
	}
}

func TestValidateAllowsFactoryLevelReferences(t *testing.T) {
	m := &Manifest{
		CategoryBaselines: map[string]string{"cat-1": "Chat"},
	}
	if err := m.Validate(); err != nil {
		t.Errorf("factory level reference should validate: %v", err)
	}
}

func TestImport(t *testing.T) {
	store, err := guildstore.New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	const guild = "guild-1"

	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	report, err := Import(store, guild, m)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	want := Report{Levels: 1, Bundles: 1, Groups: 1, Baselines: 2, Rules: 2}
	if report != want {
		t.Errorf("report = %+v, want %+v", report, want)
	}

	levels := store.Levels(guild)
	if _, exists := levels["Lurker"]; !exists {
		t.Error("imported level missing from store")
	}
	if refs := store.Bundles(guild)["raiders"]; len(refs) != 2 {
		t.Errorf("bundle refs = %v", refs)
	}
	if store.Baselines(guild)["cat-1"] != "Lurker" {
		t.Errorf("baselines = %v", store.Baselines(guild))
	}

	rules := store.Rules(guild)
	if len(rules) != 2 || rules[0].ID != 1 || rules[1].ID != 2 {
		t.Errorf("rules = %+v, want store-assigned IDs", rules)
	}

	// Re-import replaces named collections instead of erroring, and
	// appends the rules again with fresh IDs.
	report, err = Import(store, guild, m)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if refs := store.Bundles(guild)["raiders"]; len(refs) != 2 {
		t.Errorf("bundle refs after re-import = %v", refs)
	}
	rules = store.Rules(guild)
	if len(rules) != 4 || rules[3].ID != 4 {
		t.Errorf("rules after re-import = %+v", rules)
	}
}

func TestImportStopsOnUnknownLevelRule(t *testing.T) {
	store, err := guildstore.New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}

	m := &Manifest{
		Rules: []Rule{
			{Roles: []string{"100"}, TargetType: "channel", Targets: []string{"ch-1"}, Level: "Ghost"},
		},
	}
	if _, err := Import(store, "guild-1", m); err == nil {
		t.Error("Import should surface the store's level validation")
	}
}
