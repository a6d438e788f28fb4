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
)

func scopeCommand() *cli.Command {
	return &cli.Command{
		Name:    "scope",
		Summary: "Manage command scope grants",
		Description: `Manage per-role command scope grants.

A scope names a command family (` + strings.Join(guildstore.Scopes, ", ") + `).
Granting a scope to a role delegates that family to members holding
the role; administrators bypass scope checks entirely. "check"
evaluates a grant for a set of held roles.`,
		Subcommands: []*cli.Command{
			scopeListCommand(),
			scopeGrantCommand(),
			scopeRevokeCommand(),
			scopeCheckCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Let the Officers role run bundle assignment",
				Command:     "warrant scope grant 200 assign --guild 123",
			},
			{
				Description: "Check whether a member's roles cover plan sync",
				Command:     "warrant scope check sync --role 100 --role 200 --guild 123",
			},
		},
	}
}

func scopeListCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "list",
		Summary: "List the guild's scope grants",
		Usage:   "warrant scope list --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("scope list", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "scope/list")
			if err != nil {
				return err
			}

			scopes := rt.store.CommandScopes(guildID)
			roleIDs := make([]string, 0, len(scopes))
			for roleID := range scopes {
				roleIDs = append(roleIDs, roleID)
			}
			sort.Strings(roleIDs)

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "ROLE\tSCOPES")
			for _, roleID := range roleIDs {
				fmt.Fprintf(writer, "%s\t%s\n", roleID, strings.Join(scopes[roleID], ", "))
			}
			return writer.Flush()
		},
	}
}

func scopeGrantCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "grant",
		Summary: "Grant a scope to a role",
		Usage:   "warrant scope grant <role-id> <scope> --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("scope grant", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: warrant scope grant <role-id> <scope> --guild <id>")
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "scope/grant")
			if err != nil {
				return err
			}
			if err := rt.store.GrantScope(guildID, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("granted %s to role %s\n", args[1], args[0])
			return nil
		},
	}
}

func scopeRevokeCommand() *cli.Command {
	var configPath, guildID string

	return &cli.Command{
		Name:    "revoke",
		Summary: "Revoke a scope from a role",
		Usage:   "warrant scope revoke <role-id> <scope> --guild <id>",
		Flags: func() *pflag.FlagSet {
			return commandFlags("scope revoke", &configPath, &guildID)
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: warrant scope revoke <role-id> <scope> --guild <id>")
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "scope/revoke")
			if err != nil {
				return err
			}
			if err := rt.store.RevokeScope(guildID, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("revoked %s from role %s\n", args[1], args[0])
			return nil
		},
	}
}

func scopeCheckCommand() *cli.Command {
	var configPath, guildID string
	var roles []string

	return &cli.Command{
		Name:    "check",
		Summary: "Evaluate a scope against a set of held roles",
		Usage:   "warrant scope check <scope> --role <id>... --guild <id>",
		Flags: func() *pflag.FlagSet {
			flagSet := commandFlags("scope check", &configPath, &guildID)
			flagSet.StringArrayVar(&roles, "role", nil, "role ID the member holds (repeatable)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: warrant scope check <scope> --role <id>... --guild <id>")
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			if !guildstore.ValidScope(args[0]) {
				return fmt.Errorf("unknown scope %q (known: %s)", args[0], strings.Join(guildstore.Scopes, ", "))
			}
			rt, err := openRuntime(configPath, "scope/check")
			if err != nil {
				return err
			}

			if rt.store.CommandScopes(guildID).HasScope(roles, args[0]) {
				fmt.Printf("granted: %s\n", args[0])
				return nil
			}
			fmt.Printf("denied: %s\n", args[0])
			return &cli.ExitError{Code: 1}
		},
	}
}
