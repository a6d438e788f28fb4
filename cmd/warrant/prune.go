// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warrant/cmd/warrant/cli"
	"github.com/bureau-foundation/warrant/lib/plan"
)

func pruneCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "prune",
		Summary: "Drop stored references to deleted roles and units",
		Description: `Remove stored references that no longer resolve against the guild:
rules whose roles or targets are all gone, baselines for deleted
categories, and dead role IDs in bundles and groups. Legacy name-based
references are kept; their validity can't be judged from an ID set.`,
		Usage: "warrant prune --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("prune", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "prune")
			if err != nil {
				return err
			}
			client, err := rt.client()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			topology, err := client.Topology(ctx, guildID)
			if err != nil {
				return err
			}

			report, err := plan.Prune(rt.store, guildID, topology)
			if err != nil {
				return err
			}
			if report.Total() == 0 {
				fmt.Println("nothing to prune")
				return nil
			}
			fmt.Printf("pruned %d references: %d rules, %d baselines, %d bundle roles, %d group roles\n",
				report.Total(), report.Rules, report.Baselines, report.BundleRoles, report.GroupRoles)
			return nil
		},
	}
}
