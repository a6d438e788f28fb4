// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warrant/cmd/warrant/cli"
	"github.com/bureau-foundation/warrant/lib/manifest"
)

func importCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "import",
		Summary: "Import a declarative guild manifest",
		Description: `Import a JSONC manifest (levels, bundles, exclusive groups, category
baselines, access rules) into the guild's stored configuration.

Levels, bundles, groups, and baselines replace any stored entry with
the same name; rules append with fresh IDs. The manifest is validated
as a whole before anything is written. Run "warrant plan diff" after
importing to see what changed.`,
		Usage: "warrant import <manifest.jsonc> --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("import", &configPath, &guildID)
		},
		Examples: []cli.Example{
			{
				Description: "Import and preview",
				Command:     "warrant import guild.jsonc --guild 123 && warrant plan diff --guild 123",
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: warrant import <manifest.jsonc> --guild <id>")
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}

			parsed, err := manifest.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := parsed.Validate(); err != nil {
				return err
			}

			rt, err := openRuntime(configPath, "import")
			if err != nil {
				return err
			}
			report, err := manifest.Import(rt.store, guildID, parsed)
			if err != nil {
				return err
			}
			fmt.Printf("imported %s: %d levels, %d bundles, %d groups, %d baselines, %d rules\n",
				args[0], report.Levels, report.Bundles, report.Groups, report.Baselines, report.Rules)
			return nil
		},
	}
}
