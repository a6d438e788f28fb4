// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/warrant/lib/permission"
	"github.com/bureau-foundation/warrant/platform"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordedCall is one write the fake client saw.
type recordedCall struct {
	Op        string // "set" or "clear"
	UnitID    string
	Subject   platform.Subject
	Overwrite permission.OverwriteSet
}

// fakeClient implements platform.Client in memory, recording writes
// and serving queued errors per (unit, subject) key.
type fakeClient struct {
	mu       sync.Mutex
	calls    []recordedCall
	failures map[string][]error
}

func newFakeClient() *fakeClient {
	return &fakeClient{failures: make(map[string][]error)}
}

func writeKey(unitID string, subject platform.Subject) string {
	return unitID + "/" + subject.String()
}

// failWith queues errors for a (unit, subject) write; each write pops
// one until the queue is empty, after which writes succeed.
func (c *fakeClient) failWith(unitID string, subject platform.Subject, errs ...error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := writeKey(unitID, subject)
	c.failures[key] = append(c.failures[key], errs...)
}

func (c *fakeClient) nextFailure(unitID string, subject platform.Subject) error {
	key := writeKey(unitID, subject)
	queue := c.failures[key]
	if len(queue) == 0 {
		return nil
	}
	c.failures[key] = queue[1:]
	return queue[0]
}

func (c *fakeClient) recorded() []recordedCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]recordedCall, len(c.calls))
	copy(out, c.calls)
	return out
}

func (c *fakeClient) SetOverwrite(ctx context.Context, unitID string, subject platform.Subject, overwrite permission.OverwriteSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.nextFailure(unitID, subject); err != nil {
		return err
	}
	c.calls = append(c.calls, recordedCall{Op: "set", UnitID: unitID, Subject: subject, Overwrite: overwrite})
	return nil
}

func (c *fakeClient) ClearOverwrite(ctx context.Context, unitID string, subject platform.Subject) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.nextFailure(unitID, subject); err != nil {
		return err
	}
	c.calls = append(c.calls, recordedCall{Op: "clear", UnitID: unitID, Subject: subject})
	return nil
}

func (c *fakeClient) Topology(ctx context.Context, guildID string) (*platform.Topology, error) {
	return nil, fmt.Errorf("fakeClient: Topology not supported")
}

func (c *fakeClient) Member(ctx context.Context, guildID, memberID string) (*platform.Member, error) {
	return nil, fmt.Errorf("fakeClient: Member not supported")
}

func (c *fakeClient) AddMemberRole(ctx context.Context, guildID, memberID, roleID string) error {
	return fmt.Errorf("fakeClient: AddMemberRole not supported")
}

func (c *fakeClient) RemoveMemberRole(ctx context.Context, guildID, memberID, roleID string) error {
	return fmt.Errorf("fakeClient: RemoveMemberRole not supported")
}

// sleepRecorder is a non-blocking clock for applier tests: Sleep
// returns immediately and records the requested duration, so a full
// apply run executes synchronously while the pacing behavior stays
// observable.
type sleepRecorder struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newSleepRecorder() *sleepRecorder {
	return &sleepRecorder{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *sleepRecorder) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *sleepRecorder) After(d time.Duration) <-chan time.Time {
	c.Sleep(d)
	ch := make(chan time.Time, 1)
	ch <- c.Now()
	return ch
}

func (c *sleepRecorder) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
}

func (c *sleepRecorder) recordedSleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

// testTopology is the shared fixture: one category with a synced and
// an unsynced channel, plus an uncategorized channel, and three roles.
//
//	cat-1  "Raids" (category)
//	  ch-1 "raid-chat"   synced
//	  ch-2 "raid-voice"  unsynced
//	ch-3   "general"     no parent
//	roles: 100 "Raid Team", 200 "Officers", everyone is implicit
func testTopology() *platform.Topology {
	return &platform.Topology{
		GuildID: "guild-1",
		OwnerID: "owner-1",
		Roles: []platform.Role{
			{ID: "100", Name: "Raid Team", Position: 2},
			{ID: "200", Name: "Officers", Position: 5},
		},
		Units: []platform.Unit{
			{ID: "cat-1", Name: "Raids", Kind: platform.UnitCategory},
			{ID: "ch-1", Name: "raid-chat", Kind: platform.UnitChannel, ParentID: "cat-1", Synced: true},
			{ID: "ch-2", Name: "raid-voice", Kind: platform.UnitChannel, ParentID: "cat-1"},
			{ID: "ch-3", Name: "general", Kind: platform.UnitChannel},
		},
	}
}

// testLevels returns the factory levels for build fixtures.
func testLevels() permission.Levels {
	return permission.FactoryLevels()
}
