// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warrant/cmd/warrant/cli"
	"github.com/bureau-foundation/warrant/lib/guildstore"
	"github.com/bureau-foundation/warrant/lib/permission"
	"github.com/bureau-foundation/warrant/platform"
)

func ruleCommand() *cli.Command {
	return &cli.Command{
		Name:    "rule",
		Summary: "Manage access rules",
		Description: `Manage the guild's access rules.

A rule applies a permission level to every (role, target) pair it
names, in the Allow or Deny direction. Rules compile in ascending ID
order; when two rules hit the same (unit, subject) pair the later one
wins.`,
		Subcommands: []*cli.Command{
			ruleListCommand(),
			ruleAddCommand(),
			ruleRemoveCommand(),
			ruleUpdateCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Let the Raid Team chat in two channels",
				Command:     "warrant rule add --role 100 --type channel --target 111 --target 222 --level Chat --guild 123",
			},
			{
				Description: "Deny everything Chat grants, for a muted role",
				Command:     "warrant rule add --role 300 --type category --target 444 --level Chat --deny --guild 123",
			},
		},
	}
}

func ruleListCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "list",
		Summary: "List the guild's access rules",
		Usage:   "warrant rule list --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("rule list", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "rule/list")
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "ID\tROLES\tTYPE\tTARGETS\tLEVEL\tDIRECTION")
			for _, rule := range rt.store.Rules(guildID) {
				refs := make([]string, len(rule.RoleIDs))
				for i, ref := range rule.RoleIDs {
					refs[i] = string(ref)
				}
				direction := rule.Direction
				if direction == "" {
					direction = permission.Allow
				}
				fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\t%s\n",
					rule.ID, strings.Join(refs, ","), rule.TargetType,
					strings.Join(rule.TargetIDs, ","), rule.Level, direction)
			}
			return writer.Flush()
		},
	}
}

func ruleAddCommand() *cli.Command {
	var configPath, guildID, targetType, level string
	var roles, targets []string
	var deny bool

	return &cli.Command{
		Name:    "add",
		Summary: "Add an access rule",
		Usage:   "warrant rule add --role <id>... --type <category|channel> --target <id>... --level <name> [--deny] --guild <id>",
		Flags: func() *pflag.FlagSet {
			flagSet := commandFlags("rule add", &configPath, &guildID)
			flagSet.StringArrayVar(&roles, "role", nil, "role ID the rule covers (repeatable)")
			flagSet.StringVar(&targetType, "type", "", "target type: category or channel")
			flagSet.StringArrayVar(&targets, "target", nil, "target unit ID (repeatable)")
			flagSet.StringVar(&level, "level", "", "permission level to apply")
			flagSet.BoolVar(&deny, "deny", false, "invert the level: allows become denies, denies neutral")
			return flagSet
		},
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}

			var kind guildstore.TargetType
			switch targetType {
			case "category":
				kind = guildstore.TargetCategory
			case "channel":
				kind = guildstore.TargetChannel
			default:
				return fmt.Errorf("--type must be category or channel")
			}

			direction := permission.Allow
			if deny {
				direction = permission.Deny
			}

			refs := make([]platform.RoleRef, len(roles))
			for i, role := range roles {
				refs[i] = platform.RoleRef(role)
			}

			rt, err := openRuntime(configPath, "rule/add")
			if err != nil {
				return err
			}
			ruleID, err := rt.store.AddRule(guildID, refs, kind, targets, level, direction)
			if err != nil {
				return err
			}
			fmt.Printf("added rule %d\n", ruleID)
			return nil
		},
	}
}

func ruleRemoveCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "remove",
		Summary: "Remove an access rule by ID",
		Usage:   "warrant rule remove <rule-id> --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("rule remove", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: warrant rule remove <rule-id> --guild <id>")
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			ruleID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid rule ID %q", args[0])
			}
			rt, err := openRuntime(configPath, "rule/remove")
			if err != nil {
				return err
			}
			if err := rt.store.RemoveRule(guildID, ruleID); err != nil {
				return err
			}
			fmt.Printf("removed rule %d\n", ruleID)
			return nil
		},
	}
}

func ruleUpdateCommand() *cli.Command {
	var configPath, guildID, level, direction string

	return &cli.Command{
		Name:    "update",
		Summary: "Update a rule's level or direction",
		Usage:   "warrant rule update <rule-id> [--level <name>] [--direction <allow|deny>] --guild <id>",
		Flags: func() *pflag.FlagSet {
			flagSet := commandFlags("rule update", &configPath, &guildID)
			flagSet.StringVar(&level, "level", "", "new permission level")
			flagSet.StringVar(&direction, "direction", "", "new direction: allow or deny")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: warrant rule update <rule-id> [--level <name>] [--direction <allow|deny>] --guild <id>")
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			ruleID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid rule ID %q", args[0])
			}
			if level == "" && direction == "" {
				return fmt.Errorf("nothing to update: pass --level and/or --direction")
			}

			var newLevel *string
			if level != "" {
				newLevel = &level
			}
			var newDirection *permission.Direction
			if direction != "" {
				parsed, err := permission.ParseDirection(direction)
				if err != nil {
					return err
				}
				newDirection = &parsed
			}

			rt, err := openRuntime(configPath, "rule/update")
			if err != nil {
				return err
			}
			rule, err := rt.store.UpdateRule(guildID, ruleID, newLevel, newDirection)
			if err != nil {
				return err
			}
			fmt.Printf("rule %d now applies %s (%s)\n", rule.ID, rule.Level, rule.Direction)
			return nil
		},
	}
}
