// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warrant/cmd/warrant/cli"
)

func baselineCommand() *cli.Command {
	return &cli.Command{
		Name:    "baseline",
		Summary: "Manage category baselines",
		Description: `Manage the guild's category baselines.

A baseline binds a permission level to a category's @everyone subject.
Plan build compiles it first, before access rules, and propagates it to
unsynced channels inside the category that no rule touches.`,
		Subcommands: []*cli.Command{
			baselineListCommand(),
			baselineSetCommand(),
			baselineClearCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Lock a category down to View for everyone",
				Command:     "warrant baseline set 111222333 View --guild 123",
			},
		},
	}
}

func baselineListCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "list",
		Summary: "List the guild's category baselines",
		Usage:   "warrant baseline list --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("baseline list", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "baseline/list")
			if err != nil {
				return err
			}

			baselines := rt.store.Baselines(guildID)
			categoryIDs := make([]string, 0, len(baselines))
			for categoryID := range baselines {
				categoryIDs = append(categoryIDs, categoryID)
			}
			sort.Strings(categoryIDs)

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "CATEGORY\tLEVEL")
			for _, categoryID := range categoryIDs {
				fmt.Fprintf(writer, "%s\t%s\n", categoryID, baselines[categoryID])
			}
			return writer.Flush()
		},
	}
}

func baselineSetCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "set",
		Summary: "Set a category's baseline level",
		Usage:   "warrant baseline set <category-id> <level> --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("baseline set", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: warrant baseline set <category-id> <level> --guild <id>")
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "baseline/set")
			if err != nil {
				return err
			}
			if err := rt.store.SetBaseline(guildID, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("baseline for category %s set to %s\n", args[0], args[1])
			return nil
		},
	}
}

func baselineClearCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "clear",
		Summary: "Clear a category's baseline",
		Usage:   "warrant baseline clear <category-id> --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("baseline clear", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: warrant baseline clear <category-id> --guild <id>")
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "baseline/clear")
			if err != nil {
				return err
			}
			if err := rt.store.ClearBaseline(guildID, args[0]); err != nil {
				return err
			}
			fmt.Printf("baseline for category %s cleared\n", args[0])
			return nil
		},
	}
}
