// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warrant/cmd/warrant/cli"
	"github.com/bureau-foundation/warrant/lib/clock"
	"github.com/bureau-foundation/warrant/lib/config"
	"github.com/bureau-foundation/warrant/lib/guildstore"
	"github.com/bureau-foundation/warrant/lib/plan"
	"github.com/bureau-foundation/warrant/platform"
)

// runtime bundles the pieces every command needs: the loaded
// configuration, the guild store, and a command-scoped logger.
type runtime struct {
	config *config.Config
	store  *guildstore.Store
	logger *slog.Logger
}

// openRuntime loads configuration (an explicit --config path wins over
// WARRANT_CONFIG), validates it, creates the data directories, and
// opens the guild store.
func openRuntime(configPath, command string) (*runtime, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsurePaths(); err != nil {
		return nil, err
	}

	logger := cli.NewCommandLogger().With("command", command)

	store, err := guildstore.New(filepath.Join(cfg.Paths.Root, "guilds"), logger)
	if err != nil {
		return nil, err
	}

	return &runtime{config: cfg, store: store, logger: logger}, nil
}

// client builds the platform REST client from the configured base URL
// and resolved bot token.
func (rt *runtime) client() (platform.Client, error) {
	token, err := rt.config.Token()
	if err != nil {
		return nil, err
	}
	return platform.NewRESTClient(platform.RESTConfig{
		BaseURL: rt.config.Platform.BaseURL,
		Token:   token,
		Logger:  rt.logger,
	})
}

// applier builds a plan applier with the configured pacing.
func (rt *runtime) applier(client platform.Client) *plan.Applier {
	applier := plan.NewApplier(client, clock.Real(), rt.logger)
	applier.WriteDelay = rt.config.WriteDelay()
	applier.MaxRetries = rt.config.Apply.MaxRetries
	applier.RetryBackoff = rt.config.RetryBackoff()
	return applier
}

// commandFlags returns a flag set pre-loaded with the flags every
// store-backed command takes: --config and --guild.
func commandFlags(name string, configPath, guildID *string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(configPath, "config", "", "config file path (default: $WARRANT_CONFIG)")
	flagSet.StringVar(guildID, "guild", "", "guild ID (required)")
	return flagSet
}

func requireGuild(guildID string) error {
	if guildID == "" {
		return fmt.Errorf("--guild is required")
	}
	return nil
}

func expectNoArgs(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	return nil
}
