// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warrant/cmd/warrant/cli"
	"github.com/bureau-foundation/warrant/lib/plan"
	"github.com/bureau-foundation/warrant/platform"
)

func planCommand() *cli.Command {
	return &cli.Command{
		Name:    "plan",
		Summary: "Build, preview, and apply permission plans",
		Description: `The reconciliation pipeline.

"build" compiles the stored configuration (baselines first, then rules
in ascending ID order) into a plan file. "diff" previews the plan
against the live guild without writing anything. "apply" writes it:
stale overwrites are cleared, planned ones set, and managed units
outside the plan stripped, with rate-limit-aware pacing throughout.`,
		Subcommands: []*cli.Command{
			planBuildCommand(),
			planDiffCommand(),
			planApplyCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Build, review, then apply",
				Command:     "warrant plan build --guild 123 -o guild.plan && warrant plan diff --guild 123 --plan guild.plan && warrant plan apply --guild 123 --plan guild.plan",
			},
		},
	}
}

func planBuildCommand() *cli.Command {
	var configPath, guildID, outputPath string

	return &cli.Command{
		Name:    "build",
		Summary: "Compile the stored configuration into a plan file",
		Usage:   "warrant plan build --guild <id> [-o <path>]",
		Flags: func() *pflag.FlagSet {
			flagSet := commandFlags("plan build", &configPath, &guildID)
			flagSet.StringVarP(&outputPath, "output", "o", "", "plan file path (default: <plans-dir>/<guild>.plan)")
			return flagSet
		},
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "plan/build")
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

			built := plan.Build(rt.logger, topology, plan.Snapshot(rt.store, guildID))

			if outputPath == "" {
				outputPath = filepath.Join(rt.config.Paths.Plans, guildID+".plan")
			}
			if err := plan.Save(outputPath, built, time.Now()); err != nil {
				return err
			}

			fingerprint, err := plan.Fingerprint(built)
			if err != nil {
				return err
			}
			fmt.Printf("wrote %s: %d entries across %d units (%s)\n",
				outputPath, built.EntryCount(), len(built.UnitIDs()), fingerprint[:12])
			return nil
		},
	}
}

// loadOrBuildPlan returns the plan to preview or apply: the plan file
// when --plan was given (rejecting a file built for another guild), a
// fresh build otherwise.
func loadOrBuildPlan(rt *runtime, topology *platform.Topology, guildID, planPath string) (*plan.Plan, error) {
	if planPath == "" {
		return plan.Build(rt.logger, topology, plan.Snapshot(rt.store, guildID)), nil
	}
	loaded, builtAt, err := plan.Load(planPath)
	if err != nil {
		return nil, err
	}
	if loaded.GuildID != guildID {
		return nil, fmt.Errorf("plan file %s is for guild %s, not %s", planPath, loaded.GuildID, guildID)
	}
	rt.logger.Info("loaded plan file",
		"path", planPath,
		"built_at", builtAt.Format(time.RFC3339),
		"entries", loaded.EntryCount())
	return loaded, nil
}

func planDiffCommand() *cli.Command {
	var configPath, guildID, planPath string

	return &cli.Command{
		Name:    "diff",
		Summary: "Preview a plan against the live guild",
		Description: `Compare a plan against the guild's current overwrites without
writing anything. Exits 1 when an apply would change something, 0 when
the guild already matches.`,
		Usage: "warrant plan diff --guild <id> [--plan <path>]",
		Flags: func() *pflag.FlagSet {
			flagSet := commandFlags("plan diff", &configPath, &guildID)
			flagSet.StringVar(&planPath, "plan", "", "plan file to preview (default: build fresh)")
			return flagSet
		},
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "plan/diff")
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

			toPreview, err := loadOrBuildPlan(rt, topology, guildID, planPath)
			if err != nil {
				return err
			}

			lines := plan.Diff(toPreview, topology)
			fmt.Print(cli.RenderDiff(lines))

			for _, line := range lines {
				if line.Kind == plan.ChangeApply || line.Kind == plan.ChangeRemove {
					return &cli.ExitError{Code: 1}
				}
			}
			return nil
		},
	}
}

func planApplyCommand() *cli.Command {
	var configPath, guildID, planPath string
	var yes bool

	return &cli.Command{
		Name:    "apply",
		Summary: "Write a plan to the platform",
		Description: `Reconcile the guild to a plan: clear stale overwrites, set planned
ones, and strip overwrites from managed units the plan doesn't cover.

Shows the diff and asks for confirmation first (skip with --yes).
Failed writes are retried on rate limits, counted otherwise; the run
always goes through the whole batch.`,
		Usage: "warrant plan apply --guild <id> [--plan <path>] [--yes]",
		Flags: func() *pflag.FlagSet {
			flagSet := commandFlags("plan apply", &configPath, &guildID)
			flagSet.StringVar(&planPath, "plan", "", "plan file to apply (default: build fresh)")
			flagSet.BoolVarP(&yes, "yes", "y", false, "apply without confirmation")
			return flagSet
		},
		Run: func(args []string) error {
			if err := expectNoArgs(args); err != nil {
				return err
			}
			if err := requireGuild(guildID); err != nil {
				return err
			}
			rt, err := openRuntime(configPath, "plan/apply")
			if err != nil {
				return err
			}
			client, err := rt.client()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			topology, err := client.Topology(ctx, guildID)
			cancel()
			if err != nil {
				return err
			}

			toApply, err := loadOrBuildPlan(rt, topology, guildID, planPath)
			if err != nil {
				return err
			}

			fmt.Print(cli.RenderDiff(plan.Diff(toApply, topology)))

			if !yes && !cli.Confirm(fmt.Sprintf("Apply plan to guild %s?", guildID)) {
				return &cli.ExitError{Code: 1}
			}

			result, err := rt.applier(client).Apply(context.Background(), toApply, topology)
			if errors.Is(err, plan.ErrNothingToDo) {
				fmt.Println("nothing to do: the plan is empty")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Println(cli.RenderResult(result))
			if result.Errors > 0 {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
