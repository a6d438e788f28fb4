// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package guildstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bureau-foundation/warrant/platform"
)

const testGuild = "guild-1"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestLevelsDefaultToFactory(t *testing.T) {
	store := newTestStore(t)

	levels := store.Levels(testGuild)
	if len(levels) != 5 {
		t.Fatalf("expected 5 factory levels, got %d", len(levels))
	}
	if !levels["View"]["view_channel"] {
		t.Error("factory View level should allow view_channel")
	}
}

func TestMalformedDocumentFallsBackToDefault(t *testing.T) {
	store := newTestStore(t)

	dir := filepath.Join(store.root, testGuild)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, levelsDocument), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	levels := store.Levels(testGuild)
	if len(levels) != 5 {
		t.Errorf("corrupt document should read as factory defaults, got %d levels", len(levels))
	}
}

func TestCreateLevelCopyIsIndependent(t *testing.T) {
	store := newTestStore(t)

	if err := store.CreateLevel(testGuild, "Raider", "Chat"); err != nil {
		t.Fatalf("CreateLevel: %v", err)
	}

	chatBefore := store.Levels(testGuild)["Chat"]
	deny := false
	if err := store.SetLevelFlag(testGuild, "Raider", "send_messages", &deny); err != nil {
		t.Fatalf("SetLevelFlag: %v", err)
	}

	levels := store.Levels(testGuild)
	if levels["Raider"]["send_messages"] {
		t.Error("Raider edit did not land")
	}
	if !levels["Chat"]["send_messages"] {
		t.Error("editing the copy changed the source level")
	}
	if len(levels["Chat"]) != len(chatBefore) {
		t.Error("source level key set changed")
	}
}

func TestCreateLevelErrors(t *testing.T) {
	store := newTestStore(t)

	if err := store.CreateLevel(testGuild, "Chat", ""); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("duplicate create: got %v, want ErrAlreadyExists", err)
	}
	if err := store.CreateLevel(testGuild, "New", "Ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("copy from missing level: got %v, want ErrNotFound", err)
	}
	if err := store.CreateLevel(testGuild, "", ""); err == nil {
		t.Error("empty name should fail validation")
	}
}

func TestSetLevelFlagClearsToNeutral(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetLevelFlag(testGuild, "View", "send_messages", nil); err != nil {
		t.Fatalf("SetLevelFlag(nil): %v", err)
	}

	level := store.Levels(testGuild)["View"]
	if _, present := level["send_messages"]; present {
		t.Error("cleared flag still present — neutrality must be absence")
	}

	// The persisted document must not contain the key either: decode
	// the raw JSON and look inside the View object.
	data, err := os.ReadFile(filepath.Join(store.root, testGuild, levelsDocument))
	if err != nil {
		t.Fatal(err)
	}
	var persisted map[string]map[string]bool
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatal(err)
	}
	if _, present := persisted["View"]["send_messages"]; present {
		t.Error("persisted View level still carries the cleared capability")
	}
}

func TestSetLevelFlagValidation(t *testing.T) {
	store := newTestStore(t)

	allow := true
	err := store.SetLevelFlag(testGuild, "View", "teleport", &allow)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("unknown capability: got %v, want *ValidationError", err)
	}

	if err := store.SetLevelFlag(testGuild, "Ghost", "view_channel", &allow); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing level: got %v, want ErrNotFound", err)
	}
}

func TestResetLevelsRestoresFactory(t *testing.T) {
	store := newTestStore(t)

	if err := store.CreateLevel(testGuild, "Custom", ""); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteLevel(testGuild, "Mod"); err != nil {
		t.Fatal(err)
	}

	if err := store.ResetLevels(testGuild); err != nil {
		t.Fatalf("ResetLevels: %v", err)
	}

	levels := store.Levels(testGuild)
	if _, exists := levels["Custom"]; exists {
		t.Error("reset kept a custom level")
	}
	if _, exists := levels["Mod"]; !exists {
		t.Error("reset did not restore a deleted factory level")
	}
}

func TestBundleLifecycle(t *testing.T) {
	store := newTestStore(t)

	if err := store.CreateBundle(testGuild, "raiders"); err != nil {
		t.Fatalf("CreateBundle: %v", err)
	}
	if err := store.CreateBundle(testGuild, "raiders"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("duplicate bundle: got %v", err)
	}

	if err := store.AddBundleRole(testGuild, "raiders", "10"); err != nil {
		t.Fatal(err)
	}
	if err := store.AddBundleRole(testGuild, "raiders", "20"); err != nil {
		t.Fatal(err)
	}
	// Re-adding is a no-op, not an error.
	if err := store.AddBundleRole(testGuild, "raiders", "10"); err != nil {
		t.Fatal(err)
	}

	bundles := store.Bundles(testGuild)
	if refs := bundles["raiders"]; len(refs) != 2 || refs[0] != "10" || refs[1] != "20" {
		t.Errorf("bundle refs = %v, want [10 20] in insertion order", refs)
	}

	if err := store.RemoveBundleRole(testGuild, "raiders", "10"); err != nil {
		t.Fatal(err)
	}
	if refs := store.Bundles(testGuild)["raiders"]; len(refs) != 1 || refs[0] != "20" {
		t.Errorf("after removal refs = %v", refs)
	}

	if err := store.AddBundleRole(testGuild, "ghosts", "10"); !errors.Is(err, ErrNotFound) {
		t.Errorf("add to missing bundle: got %v", err)
	}

	if err := store.DeleteBundle(testGuild, "raiders"); err != nil {
		t.Fatal(err)
	}
	if _, exists := store.Bundles(testGuild)["raiders"]; exists {
		t.Error("deleted bundle still present")
	}
}

func TestBaselineLifecycle(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetBaseline(testGuild, "cat-1", "View"); err != nil {
		t.Fatalf("SetBaseline: %v", err)
	}
	if err := store.SetBaseline(testGuild, "cat-1", "Chat"); err != nil {
		t.Fatalf("SetBaseline upsert: %v", err)
	}
	if err := store.SetBaseline(testGuild, "cat-2", "Ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("baseline with missing level: got %v", err)
	}

	baselines := store.Baselines(testGuild)
	if baselines["cat-1"] != "Chat" {
		t.Errorf("baseline = %q, want Chat", baselines["cat-1"])
	}

	if err := store.ClearBaseline(testGuild, "cat-1"); err != nil {
		t.Fatal(err)
	}
	if err := store.ClearBaseline(testGuild, "cat-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("clearing absent baseline: got %v", err)
	}
}

func TestCommandScopes(t *testing.T) {
	store := newTestStore(t)

	if err := store.GrantScope(testGuild, "10", "sync"); err != nil {
		t.Fatalf("GrantScope: %v", err)
	}
	if err := store.GrantScope(testGuild, "10", "sync"); err != nil {
		t.Fatalf("re-grant should be a no-op: %v", err)
	}
	if err := store.GrantScope(testGuild, "10", "launch-missiles"); err == nil {
		t.Error("unknown scope should fail validation")
	}

	scopes := store.CommandScopes(testGuild)
	if !scopes.HasScope([]string{"10", "20"}, "sync") {
		t.Error("granted scope not reported")
	}
	if scopes.HasScope([]string{"20"}, "sync") {
		t.Error("scope reported for ungranted role")
	}

	if err := store.RevokeScope(testGuild, "10", "sync"); err != nil {
		t.Fatal(err)
	}
	if err := store.RevokeScope(testGuild, "10", "sync"); !errors.Is(err, ErrNotFound) {
		t.Errorf("revoking absent grant: got %v", err)
	}
}

func TestConcurrentMutationsDoNotLoseUpdates(t *testing.T) {
	store := newTestStore(t)
	if err := store.CreateBundle(testGuild, "big"); err != nil {
		t.Fatal(err)
	}

	const writers = 20
	var group sync.WaitGroup
	for i := 0; i < writers; i++ {
		group.Add(1)
		go func(n int) {
			defer group.Done()
			ref := platform.RoleRef(fmt.Sprintf("%d", 100+n))
			if err := store.AddBundleRole(testGuild, "big", ref); err != nil {
				t.Errorf("AddBundleRole(%s): %v", ref, err)
			}
		}(i)
	}
	group.Wait()

	if refs := store.Bundles(testGuild)["big"]; len(refs) != writers {
		t.Errorf("lost updates: %d refs persisted, want %d", len(refs), writers)
	}
}
