// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warrant/cmd/warrant/cli"
	"github.com/bureau-foundation/warrant/lib/guildstore"
	"github.com/bureau-foundation/warrant/platform"
)

// roleListFamily parameterizes the bundle and group command families.
// Both are named role lists with identical CRUD shapes; only the store
// methods and the help text differ.
type roleListFamily struct {
	kind     string // "bundle" or "group"
	summary  string
	describe string

	list       func(rt *runtime, guildID string) guildstore.RoleList
	create     func(rt *runtime, guildID, name string) error
	delete     func(rt *runtime, guildID, name string) error
	addRole    func(rt *runtime, guildID, name string, ref platform.RoleRef) error
	removeRole func(rt *runtime, guildID, name string, ref platform.RoleRef) error
}

func bundleCommand() *cli.Command {
	return roleListCommands(roleListFamily{
		kind:    "bundle",
		summary: "Manage role bundles",
		describe: `Manage the guild's role bundles.

A bundle names a set of roles assigned and removed together with
"warrant assign" and "warrant remove".`,
		list: func(rt *runtime, guildID string) guildstore.RoleList {
			return rt.store.Bundles(guildID)
		},
		create: func(rt *runtime, guildID, name string) error {
			return rt.store.CreateBundle(guildID, name)
		},
		delete: func(rt *runtime, guildID, name string) error {
			return rt.store.DeleteBundle(guildID, name)
		},
		addRole: func(rt *runtime, guildID, name string, ref platform.RoleRef) error {
			return rt.store.AddBundleRole(guildID, name, ref)
		},
		removeRole: func(rt *runtime, guildID, name string, ref platform.RoleRef) error {
			return rt.store.RemoveBundleRole(guildID, name, ref)
		},
	})
}

func groupCommand() *cli.Command {
	return roleListCommands(roleListFamily{
		kind:    "group",
		summary: "Manage exclusive groups",
		describe: `Manage the guild's exclusive groups.

An exclusive group names roles that are mutually exclusive: when a
bundle assignment would grant a role from a group, any other role the
member holds from that group is removed first.`,
		list: func(rt *runtime, guildID string) guildstore.RoleList {
			return rt.store.Groups(guildID)
		},
		create: func(rt *runtime, guildID, name string) error {
			return rt.store.CreateGroup(guildID, name)
		},
		delete: func(rt *runtime, guildID, name string) error {
			return rt.store.DeleteGroup(guildID, name)
		},
		addRole: func(rt *runtime, guildID, name string, ref platform.RoleRef) error {
			return rt.store.AddGroupRole(guildID, name, ref)
		},
		removeRole: func(rt *runtime, guildID, name string, ref platform.RoleRef) error {
			return rt.store.RemoveGroupRole(guildID, name, ref)
		},
	})
}

func roleListCommands(family roleListFamily) *cli.Command {
	return &cli.Command{
		Name:        family.kind,
		Summary:     family.summary,
		Description: family.describe,
		Subcommands: []*cli.Command{
			roleListListCommand(family),
			roleListCreateCommand(family),
			roleListDeleteCommand(family),
			roleListAddRoleCommand(family),
			roleListRemoveRoleCommand(family),
		},
	}
}

func roleListListCommand(family roleListFamily) *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "list",
		Summary: fmt.Sprintf("List the guild's %ss", family.kind),
		Usage:   fmt.Sprintf("warrant %s list --guild <id>", family.kind),
		Flags: func() *pflag.FlagSet {
			return commandFlags(family.kind+" list", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, family.kind+"/list")
			if err != nil {
				return err
			}

			lists := family.list(rt, guildID)
			names := make([]string, 0, len(lists))
			for name := range lists {
				names = append(names, name)
			}
			sort.Strings(names)

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "%s\tROLES\n", strings.ToUpper(family.kind))
			for _, name := range names {
				refs := make([]string, len(lists[name]))
				for i, ref := range lists[name] {
					refs[i] = string(ref)
				}
				fmt.Fprintf(writer, "%s\t%s\n", name, strings.Join(refs, ", "))
			}
			return writer.Flush()
		},
	}
}

func roleListCreateCommand(family roleListFamily) *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "create",
		Summary: fmt.Sprintf("Create an empty %s", family.kind),
		Usage:   fmt.Sprintf("warrant %s create <name> --guild <id>", family.kind),
		Flags: func() *pflag.FlagSet {
			return commandFlags(family.kind+" create", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: warrant %s create <name> --guild <id>", family.kind)
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, family.kind+"/create")
			if err != nil {
				return err
			}
			if err := family.create(rt, guildID, args[0]); err != nil {
				return err
			}
			fmt.Printf("created %s %s\n", family.kind, args[0])
			return nil
		},
	}
}

func roleListDeleteCommand(family roleListFamily) *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "delete",
		Summary: fmt.Sprintf("Delete a %s", family.kind),
		Usage:   fmt.Sprintf("warrant %s delete <name> --guild <id>", family.kind),
		Flags: func() *pflag.FlagSet {
			return commandFlags(family.kind+" delete", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: warrant %s delete <name> --guild <id>", family.kind)
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, family.kind+"/delete")
			if err != nil {
				return err
			}
			if err := family.delete(rt, guildID, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s %s\n", family.kind, args[0])
			return nil
		},
	}
}

func roleListAddRoleCommand(family roleListFamily) *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "add-role",
		Summary: fmt.Sprintf("Add a role to a %s", family.kind),
		Usage:   fmt.Sprintf("warrant %s add-role <name> <role-id> --guild <id>", family.kind),
		Flags: func() *pflag.FlagSet {
			return commandFlags(family.kind+" add-role", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: warrant %s add-role <name> <role-id> --guild <id>", family.kind)
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, family.kind+"/add-role")
			if err != nil {
				return err
			}
			if err := family.addRole(rt, guildID, args[0], platform.RoleRef(args[1])); err != nil {
				return err
			}
			fmt.Printf("added role %s to %s %s\n", args[1], family.kind, args[0])
			return nil
		},
	}
}

func roleListRemoveRoleCommand(family roleListFamily) *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "remove-role",
		Summary: fmt.Sprintf("Remove a role from a %s", family.kind),
		Usage:   fmt.Sprintf("warrant %s remove-role <name> <role-id> --guild <id>", family.kind),
		Flags: func() *pflag.FlagSet {
			return commandFlags(family.kind+" remove-role", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: warrant %s remove-role <name> <role-id> --guild <id>", family.kind)
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, family.kind+"/remove-role")
			if err != nil {
				return err
			}
			if err := family.removeRole(rt, guildID, args[0], platform.RoleRef(args[1])); err != nil {
				return err
			}
			fmt.Printf("removed role %s from %s %s\n", args[1], family.kind, args[0])
			return nil
		},
	}
}
