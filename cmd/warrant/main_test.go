// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/warrant/cmd/warrant/cli"
)

// TestCommandTreeShape walks the full production command tree and
// validates the invariants help synthesis and dispatch rely on: every
// command has a name and summary (the root carries a description
// instead), sibling names are unique, and every leaf has a Run.
func TestCommandTreeShape(t *testing.T) {
	root := rootCommand()
	walkCommands(root, nil, func(command *cli.Command, path []string) {
		name := strings.Join(path, " ")
		if command.Name == "" {
			t.Errorf("%s: command without a name", name)
		}
		if command != root && command.Summary == "" {
			t.Errorf("%s: command without a summary", name)
		}
		if len(command.Subcommands) == 0 && command.Run == nil {
			t.Errorf("%s: leaf command without a Run", name)
		}

		seen := make(map[string]bool)
		for _, sub := range command.Subcommands {
			if seen[sub.Name] {
				t.Errorf("%s: duplicate subcommand %q", name, sub.Name)
			}
			seen[sub.Name] = true
		}
	})
}

// walkCommands recursively visits every command in the tree,
// calling visit for each node with the accumulated command path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}
