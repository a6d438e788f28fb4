// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warrant/cmd/warrant/cli"
)

func statusCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "status",
		Summary: "Summarize a guild's stored configuration",
		Usage:   "warrant status --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("status", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "status")
			if err != nil {
				return err
			}

			scopeGrants := 0
			for _, scopes := range rt.store.CommandScopes(guildID) {
				scopeGrants += len(scopes)
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "guild\t%s\n", guildID)
			fmt.Fprintf(writer, "levels\t%d\n", len(rt.store.Levels(guildID)))
			fmt.Fprintf(writer, "bundles\t%d\n", len(rt.store.Bundles(guildID)))
			fmt.Fprintf(writer, "groups\t%d\n", len(rt.store.Groups(guildID)))
			fmt.Fprintf(writer, "baselines\t%d\n", len(rt.store.Baselines(guildID)))
			fmt.Fprintf(writer, "rules\t%d\n", len(rt.store.Rules(guildID)))
			fmt.Fprintf(writer, "scope grants\t%d\n", scopeGrants)
			return writer.Flush()
		},
	}
}
