// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bureau-foundation/warrant/lib/clock"
	"github.com/bureau-foundation/warrant/lib/permission"
	"github.com/bureau-foundation/warrant/platform"
)

// ErrNothingToDo signals an empty plan: Apply returned without issuing
// a single write.
var ErrNothingToDo = errors.New("plan: nothing to do")

// Result reports how an apply run went. There is no all-or-nothing
// guarantee: a run with Errors > 0 made partial progress and the
// counts say how much.
type Result struct {
	// Applied is the number of planned overwrites written.
	Applied int `json:"applied"`

	// Removed is the number of live overwrites cleared.
	Removed int `json:"removed"`

	// Errors is the number of writes that failed after retries.
	Errors int `json:"errors"`
}

// Applier writes a plan to the platform. Writes are sequential so the
// rate-limit pressure is predictable; each write is retried on
// rate-limit responses and followed by a fixed pacing delay.
type Applier struct {
	client platform.Client
	clock  clock.Clock
	logger *slog.Logger

	// WriteDelay is the pause after each successful write. Keeps bulk
	// runs on large guilds well inside the platform's global request
	// budget.
	WriteDelay time.Duration

	// MaxRetries is the number of attempts per write.
	MaxRetries int

	// RetryBackoff is the sleep after a rate-limit response that
	// carries no retry-after hint. Doubles per attempt.
	RetryBackoff time.Duration
}

// NewApplier returns an Applier with the default pacing: 100ms between
// writes, 3 attempts per write, 1s initial backoff.
func NewApplier(client platform.Client, clk clock.Clock, logger *slog.Logger) *Applier {
	return &Applier{
		client:       client,
		clock:        clk,
		logger:       logger,
		WriteDelay:   100 * time.Millisecond,
		MaxRetries:   3,
		RetryBackoff: time.Second,
	}
}

// Apply reconciles the platform to the plan:
//
//   - Every planned unit first has live overwrites with no planned
//     counterpart cleared, then every planned overwrite written
//     unconditionally.
//   - Every managed unit outside the plan has all overwrites cleared,
//     so permissions granted by hand do not linger.
//   - Synced channels are never touched; the platform mirrors their
//     parent category automatically.
//
// Failed writes are counted and the run continues; once started, an
// apply goes through the whole batch (a cancelled context makes the
// remaining writes fail fast through the client rather than aborting
// the loop). An empty plan returns ErrNothingToDo without any writes.
func (a *Applier) Apply(ctx context.Context, p *Plan, topology *platform.Topology) (Result, error) {
	var result Result
	if p.IsEmpty() {
		return result, ErrNothingToDo
	}

	unitsByID := topology.UnitsByID()

	// Planned units: clear stale, then set planned.
	for _, unitID := range p.UnitIDs() {
		unit, found := unitsByID[unitID]
		if !found {
			a.logger.Warn("planned unit not found on platform, skipping",
				"unit", unitID)
			continue
		}

		for _, subject := range sortedSubjects(unit.Overwrites) {
			if _, planned := p.lookup(unitID, subject); planned {
				continue
			}
			if a.clearWithBackoff(ctx, unit, subject) {
				result.Removed++
				a.logger.Info("removed stale overwrite",
					"unit", unit.Name, "subject", subject.String())
			} else {
				result.Errors++
			}
		}

		for _, entry := range p.Entries[unitID] {
			if a.setWithBackoff(ctx, unit, entry.Subject, entry.Overwrite) {
				result.Applied++
			} else {
				result.Errors++
			}
		}
	}

	// Managed units outside the plan: strip everything.
	for _, unitID := range sortedUnplannedManaged(p, topology) {
		unit := unitsByID[unitID]
		for _, subject := range sortedSubjects(unit.Overwrites) {
			if a.clearWithBackoff(ctx, unit, subject) {
				result.Removed++
				a.logger.Info("removed unmanaged overwrite",
					"unit", unit.Name, "subject", subject.String())
			} else {
				result.Errors++
			}
		}
	}

	return result, nil
}

// setWithBackoff writes one overwrite with rate-limit retries and the
// pacing delay. Returns false once retries are exhausted or the write
// fails for a non-rate-limit reason.
func (a *Applier) setWithBackoff(ctx context.Context, unit *platform.Unit, subject platform.Subject, overwrite permission.OverwriteSet) bool {
	return a.writeWithBackoff(ctx, unit, subject, func() error {
		return a.client.SetOverwrite(ctx, unit.ID, subject, overwrite)
	})
}

// clearWithBackoff removes one overwrite with the same retry and
// pacing discipline as setWithBackoff.
func (a *Applier) clearWithBackoff(ctx context.Context, unit *platform.Unit, subject platform.Subject) bool {
	return a.writeWithBackoff(ctx, unit, subject, func() error {
		return a.client.ClearOverwrite(ctx, unit.ID, subject)
	})
}

func (a *Applier) writeWithBackoff(ctx context.Context, unit *platform.Unit, subject platform.Subject, write func() error) bool {
	backoff := a.RetryBackoff
	for attempt := 1; attempt <= a.MaxRetries; attempt++ {
		err := write()
		if err == nil {
			a.clock.Sleep(a.WriteDelay)
			return true
		}

		if !platform.IsRateLimit(err) {
			a.logger.Warn("overwrite write failed",
				"unit", unit.Name, "subject", subject.String(), "error", err)
			return false
		}

		wait := backoff
		var apiErr *platform.APIError
		if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
			wait = apiErr.RetryAfter
		}
		a.logger.Warn("rate limited, backing off",
			"unit", unit.Name,
			"subject", subject.String(),
			"wait", wait,
			"attempt", attempt,
			"max_attempts", a.MaxRetries)
		a.clock.Sleep(wait)
		backoff *= 2
	}

	a.logger.Warn("giving up on overwrite after retries",
		"unit", unit.Name, "subject", subject.String(), "attempts", a.MaxRetries)
	return false
}
