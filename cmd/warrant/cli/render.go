// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/warrant/lib/plan"
)

var (
	applyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	keepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	removeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")) // magenta
	unitStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// changeMarker returns the one-character gutter symbol for a change
// kind, styled for the terminal.
func changeMarker(kind plan.ChangeKind) string {
	switch kind {
	case plan.ChangeApply:
		return applyStyle.Render("~")
	case plan.ChangeKeep:
		return keepStyle.Render("=")
	case plan.ChangeRemove:
		return removeStyle.Render("-")
	case plan.ChangeWarning:
		return warningStyle.Render("!")
	}
	return "?"
}

// RenderDiff formats change lines for terminal review, grouped by
// unit in the differ's order, with a trailing summary count.
func RenderDiff(lines []plan.ChangeLine) string {
	if len(lines) == 0 {
		return dimStyle.Render("no managed overwrites and nothing planned") + "\n"
	}

	var out strings.Builder
	currentUnit := ""
	counts := make(map[plan.ChangeKind]int)

	for _, line := range lines {
		counts[line.Kind]++

		if line.Kind == plan.ChangeWarning {
			fmt.Fprintf(&out, "%s %s\n", changeMarker(line.Kind),
				warningStyle.Render(fmt.Sprintf("unit %s: %s", line.UnitID, line.Detail)))
			continue
		}

		if line.UnitID != currentUnit {
			currentUnit = line.UnitID
			fmt.Fprintf(&out, "%s\n", unitStyle.Render("#"+line.UnitName))
		}
		fmt.Fprintf(&out, "  %s %-24s %s\n",
			changeMarker(line.Kind), line.SubjectName, dimStyle.Render(line.Detail))
	}

	fmt.Fprintf(&out, "\n%s\n", renderSummary(counts))
	return out.String()
}

func renderSummary(counts map[plan.ChangeKind]int) string {
	parts := []string{
		applyStyle.Render(fmt.Sprintf("%d to apply", counts[plan.ChangeApply])),
		keepStyle.Render(fmt.Sprintf("%d unchanged", counts[plan.ChangeKeep])),
		removeStyle.Render(fmt.Sprintf("%d to remove", counts[plan.ChangeRemove])),
	}
	if warnings := counts[plan.ChangeWarning]; warnings > 0 {
		parts = append(parts, warningStyle.Render(fmt.Sprintf("%d warnings", warnings)))
	}
	return strings.Join(parts, ", ")
}

// RenderResult formats an apply outcome.
func RenderResult(result plan.Result) string {
	line := fmt.Sprintf("applied %d, removed %d", result.Applied, result.Removed)
	if result.Errors > 0 {
		return line + ", " + removeStyle.Render(fmt.Sprintf("%d errors", result.Errors))
	}
	return keepStyle.Render(line)
}
