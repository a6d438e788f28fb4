// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/warrant/lib/plan"
)

func TestRenderDiffGroupsAndSummarizes(t *testing.T) {
	lines := []plan.ChangeLine{
		{Kind: plan.ChangeApply, UnitID: "ch-1", UnitName: "raid-chat", SubjectName: "Raid Team", Detail: "Raid Team → Chat"},
		{Kind: plan.ChangeKeep, UnitID: "ch-1", UnitName: "raid-chat", SubjectName: "@everyone", Detail: "unchanged"},
		{Kind: plan.ChangeRemove, UnitID: "ch-2", UnitName: "raid-voice", SubjectName: "Officers", Detail: "not in plan"},
		{Kind: plan.ChangeWarning, UnitID: "cat-9", Detail: "unit not found on platform"},
	}

	rendered := RenderDiff(lines)

	for _, want := range []string{
		"#raid-chat",
		"#raid-voice",
		"Raid Team",
		"unit cat-9: unit not found on platform",
		"1 to apply, 1 unchanged, 1 to remove, 1 warnings",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("RenderDiff output missing %q:\n%s", want, rendered)
		}
	}

	// The unit header appears once even with multiple lines under it.
	if strings.Count(rendered, "#raid-chat") != 1 {
		t.Errorf("unit header repeated:\n%s", rendered)
	}
}

func TestRenderDiffEmpty(t *testing.T) {
	rendered := RenderDiff(nil)
	if !strings.Contains(rendered, "nothing planned") {
		t.Errorf("RenderDiff(nil) = %q", rendered)
	}
}

func TestRenderResult(t *testing.T) {
	clean := RenderResult(plan.Result{Applied: 3, Removed: 1})
	if !strings.Contains(clean, "applied 3, removed 1") {
		t.Errorf("RenderResult clean = %q", clean)
	}

	failed := RenderResult(plan.Result{Applied: 2, Errors: 1})
	if !strings.Contains(failed, "1 errors") {
		t.Errorf("RenderResult failed = %q", failed)
	}
}
