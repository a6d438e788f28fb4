// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Warrant is the CLI for declarative guild permission management. It
// keeps a guild's desired permission state — named permission levels,
// role bundles, exclusive groups, category baselines, and access
// rules — in a local document store, and reconciles the platform to
// that state through a build/diff/apply pipeline.
//
// The pipeline is dry-run first: "warrant plan build" compiles the
// stored configuration into a plan file, "warrant plan diff" previews
// it against the live guild, and "warrant plan apply" writes it with
// rate-limit-aware pacing.
package main
