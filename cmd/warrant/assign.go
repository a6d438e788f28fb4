// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warrant/cmd/warrant/cli"
	"github.com/bureau-foundation/warrant/lib/assignment"
	"github.com/bureau-foundation/warrant/lib/guildstore"
	"github.com/bureau-foundation/warrant/platform"
)

func assignCommand() *cli.Command {
	var configPath, guildID, memberID string

	return &cli.Command{
		Name:    "assign",
		Summary: "Assign a role bundle to a member",
		Description: `Give a member every role in a bundle.

When a bundle role belongs to an exclusive group, other roles the
member holds from that group are removed first, so assigning "red-team"
takes the member off "blue-team" in the same step.`,
		Usage: "warrant assign <bundle> --guild <id> --member <id>",
		Flags: func() *pflag.FlagSet {
			flagSet := commandFlags("assign", &configPath, &guildID)
			flagSet.StringVar(&memberID, "member", "", "member ID (required)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: warrant assign <bundle> --guild <id> --member <id>")
			}
			rt, member, roles, client, topology, err := bundleContext(configPath, guildID, memberID, args[0], "assign")
			if err != nil {
				return err
			}

			engine := assignment.NewEngine(client, rt.logger)
			groups := rt.store.Groups(guildID)
			added, removed, err := engine.ApplyBundle(context.Background(), guildID, member, roles, groups, topology)
			if err != nil {
				return err
			}
			fmt.Printf("assigned %s to %s: +[%s] -[%s]\n",
				args[0], member.DisplayName, roleNames(added), roleNames(removed))
			return nil
		},
	}
}

func removeCommand() *cli.Command {
	var configPath, guildID, memberID string

	return &cli.Command{
		Name:    "remove",
		Summary: "Remove a role bundle from a member",
		Description: `Take a bundle's roles away from a member. Only roles the member
actually holds are removed; exclusive groups play no part here.`,
		Usage: "warrant remove <bundle> --guild <id> --member <id>",
		Flags: func() *pflag.FlagSet {
			flagSet := commandFlags("remove", &configPath, &guildID)
			flagSet.StringVar(&memberID, "member", "", "member ID (required)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: warrant remove <bundle> --guild <id> --member <id>")
			}
			rt, member, roles, client, _, err := bundleContext(configPath, guildID, memberID, args[0], "remove")
			if err != nil {
				return err
			}

			engine := assignment.NewEngine(client, rt.logger)
			removed, err := engine.RemoveBundle(context.Background(), guildID, member, roles)
			if err != nil {
				return err
			}
			fmt.Printf("removed %s from %s: -[%s]\n",
				args[0], member.DisplayName, roleNames(removed))
			return nil
		},
	}
}

// bundleContext gathers everything assign and remove share: the
// runtime, the target member, the bundle's resolved roles, the client,
// and a topology snapshot. Unresolvable bundle references are logged
// and skipped.
func bundleContext(configPath, guildID, memberID, bundleName, command string) (*runtime, *platform.Member, []platform.Role, platform.Client, *platform.Topology, error) {
	if err := requireGuild(guildID); err != nil {
		return nil, nil, nil, nil, nil, err
	}
	if memberID == "" {
		return nil, nil, nil, nil, nil, fmt.Errorf("--member is required")
	}
	rt, err := openRuntime(configPath, command)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	client, err := rt.client()
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	refs, exists := rt.store.Bundles(guildID)[bundleName]
	if !exists {
		return nil, nil, nil, nil, nil, fmt.Errorf("bundle %q: %w", bundleName, guildstore.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topology, err := client.Topology(ctx, guildID)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	member, err := client.Member(ctx, guildID, memberID)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	roles, missing := platform.ResolveRoleRefs(refs, topology)
	for _, ref := range missing {
		rt.logger.Warn("skipping unresolvable bundle role",
			"bundle", bundleName,
			"reference", string(ref))
	}
	if len(roles) == 0 {
		return nil, nil, nil, nil, nil, fmt.Errorf("bundle %q has no resolvable roles", bundleName)
	}

	return rt, member, roles, client, topology, nil
}

func roleNames(roles []platform.Role) string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.Name
	}
	return strings.Join(names, ", ")
}
