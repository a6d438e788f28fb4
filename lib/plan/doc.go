// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package plan builds, previews, and applies permission plans.
//
// A Plan is the compiled target state for one guild: for every managed
// category and channel, the complete set of permission overwrites that
// should exist on it. Build produces a Plan from the guild's stored
// configuration (category baselines and access rules) and a live
// topology snapshot, with no platform writes. Diff compares a Plan
// against the same topology and returns human-reviewable change lines.
// Apply mutates the platform to match the Plan, pacing writes and
// retrying rate limits.
//
// Build, Diff, and the plan file codec are pure with respect to the
// platform; only Applier writes. The flow mirrors a dry-run-first
// deployment: build once, diff for review, apply the same plan.
package plan
