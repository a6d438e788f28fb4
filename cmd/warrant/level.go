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
	"github.com/bureau-foundation/warrant/lib/permission"
)

func levelCommand() *cli.Command {
	return &cli.Command{
		Name:    "level",
		Summary: "Manage permission levels",
		Description: `Manage the guild's named permission levels.

A level maps capability names to explicit allow/deny flags; unmapped
capabilities stay neutral. Five factory levels (None, View, Chat, Mod,
Admin) exist until overridden, and "reset" restores them.`,
		Subcommands: []*cli.Command{
			levelListCommand(),
			levelCreateCommand(),
			levelSetCommand(),
			levelDeleteCommand(),
			levelResetCommand(),
			levelCapabilitiesCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Create a custom level starting from Chat",
				Command:     "warrant level create Raider --from Chat --guild 123",
			},
			{
				Description: "Deny a single capability on it",
				Command:     "warrant level set Raider attach_files deny --guild 123",
			},
		},
	}
}

func levelListCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "list",
		Summary: "List the guild's permission levels",
		Usage:   "warrant level list --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("level list", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "level/list")
			if err != nil {
				return err
			}

			levels := rt.store.Levels(guildID)
			names := make([]string, 0, len(levels))
			for name := range levels {
				names = append(names, name)
			}
			sort.Strings(names)

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "LEVEL\tALLOWS\tDENIES")
			for _, name := range names {
				allows, denies := splitLevel(levels[name])
				fmt.Fprintf(writer, "%s\t%d\t%d\n", name, allows, denies)
			}
			return writer.Flush()
		},
	}
}

func splitLevel(level permission.Level) (allows, denies int) {
	for _, value := range level {
		if value {
			allows++
		} else {
			denies++
		}
	}
	return allows, denies
}

func levelCreateCommand() *cli.Command {
	var configPath, guildID, copyFrom string

	return &cli.Command{
		Name:    "create",
		Summary: "Create a new permission level",
		Usage:   "warrant level create <name> [--from <level>] --guild <id>",
		Flags: func() *pflag.FlagSet {
			flagSet := commandFlags("level create", &configPath, &guildID)
			flagSet.StringVar(&copyFrom, "from", "", "existing level to copy flags from")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: warrant level create <name> [--from <level>] --guild <id>")
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "level/create")
			if err != nil {
				return err
			}
			if err := rt.store.CreateLevel(guildID, args[0], copyFrom); err != nil {
				return err
			}
			fmt.Printf("created level %s\n", args[0])
			return nil
		},
	}
}

func levelSetCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "set",
		Summary: "Set a capability flag on a level",
		Description: `Set one capability on a level to allow, deny, or neutral.

"neutral" removes the explicit flag so the capability falls through to
whatever the role's base permissions say.`,
		Usage: "warrant level set <level> <capability> <allow|deny|neutral> --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("level set", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if len(args) != 3 {
				return fmt.Errorf("usage: warrant level set <level> <capability> <allow|deny|neutral> --guild <id>")
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}

			var value *bool
			switch args[2] {
			case "allow":
				v := true
				value = &v
			case "deny":
				v := false
				value = &v
			case "neutral":
			default:
				return fmt.Errorf("invalid flag value %q (want allow, deny, or neutral)", args[2])
			}

			rt, err := openRuntime(configPath, "level/set")
			if err != nil {
				return err
			}
			if err := rt.store.SetLevelFlag(guildID, args[0], args[1], value); err != nil {
				return err
			}
			fmt.Printf("set %s.%s = %s\n", args[0], args[1], args[2])
			return nil
		},
	}
}

func levelDeleteCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a permission level",
		Usage:   "warrant level delete <name> --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("level delete", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: warrant level delete <name> --guild <id>")
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "level/delete")
			if err != nil {
				return err
			}
			if err := rt.store.DeleteLevel(guildID, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted level %s\n", args[0])
			return nil
		},
	}
}

func levelResetCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "reset",
		Summary: "Restore the factory levels",
		Description: `Discard all stored levels and restore the factory set (None, View,
Chat, Mod, Admin). Custom levels are removed; rules and baselines that
referenced them will be skipped at plan build until re-pointed or
pruned.`,
		Usage: "warrant level reset --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("level reset", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			if !cli.Confirm(fmt.Sprintf("Reset guild %s to the factory levels?", guildID)) {
				return &cli.ExitError{Code: 1}
			}
			rt, err := openRuntime(configPath, "level/reset")
			if err != nil {
				return err
			}
			if err := rt.store.ResetLevels(guildID); err != nil {
				return err
			}
			fmt.Println("levels reset to factory defaults")
			return nil
		},
	}
}

func levelCapabilitiesCommand() *cli.Command {
	return &cli.Command{
		Name:    "capabilities",
		Summary: "List the known capabilities by group",
		Usage:   "warrant level capabilities",
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			for _, group := range permission.GroupNames() {
				for _, capability := range permission.Groups[group] {
					fmt.Fprintf(writer, "%s\t%s\n", group, capability)
				}
			}
			return writer.Flush()
		},
	}
}
