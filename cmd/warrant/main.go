// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/warrant/cmd/warrant/cli"
	"github.com/bureau-foundation/warrant/lib/version"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like plan diff) return
		// an ExitError with the desired exit code. Don't print a
		// redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return rootCommand().Execute(os.Args[1:])
}

func rootCommand() *cli.Command {
	return &cli.Command{
		Name: "warrant",
		Description: `Warrant: declarative guild permission management.

Store a guild's desired permission state locally (levels, bundles,
exclusive groups, category baselines, access rules), then reconcile
the platform to it with a build/diff/apply pipeline.`,
		Subcommands: []*cli.Command{
			levelCommand(),
			bundleCommand(),
			groupCommand(),
			baselineCommand(),
			ruleCommand(),
			scopeCommand(),
			planCommand(),
			pruneCommand(),
			assignCommand(),
			removeCommand(),
			statusCommand(),
			importCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("warrant %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Preview what an apply would change",
				Command:     "warrant plan build --guild 123 -o guild.plan && warrant plan diff --guild 123 --plan guild.plan",
			},
			{
				Description: "Reconcile the guild to the stored configuration",
				Command:     "warrant plan apply --guild 123 --plan guild.plan",
			},
			{
				Description: "Give a member a role bundle",
				Command:     "warrant assign raiders --guild 123 --member 456",
			},
			{
				Description: "Import a declarative guild manifest",
				Command:     "warrant import guild.jsonc --guild 123",
			},
		},
	}
}
