// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling
// time.Now, time.After, or time.Sleep directly. In production, Real()
// provides the standard library behavior. In tests, Fake() provides a
// deterministic clock that advances only when Advance is called.
//
// # Wiring Pattern
//
// Add a Clock field to structs that use time:
//
//	type Applier struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	a := &Applier{clock: clock.Real()}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	a := &Applier{clock: c}
//	// ... start the operation in a goroutine ...
//	c.WaitForSleepers(1)          // wait for it to register a sleep
//	c.Advance(5 * time.Second)    // fire the sleep deterministically
//
// # FakeClock Synchronization
//
// When a goroutine calls Sleep or After on a FakeClock, it registers a
// pending waiter. Use WaitForSleepers to block until a specific number
// of waiters are registered before calling Advance. This eliminates
// the race between waiter registration and time advancement that
// plagues tests using time.Sleep for synchronization.
package clock
