// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package platform is Warrant's boundary to the live chat platform.
//
// It defines the topology snapshot (roles, categories, channels, and
// their current overwrite state), the Subject variant an overwrite
// applies to, the Client interface the reconciliation pipeline writes
// through, and a REST implementation of that interface.
//
// A Topology is fetched once at the start of a build, diff, or apply
// and treated as immutable for the duration of that operation. The
// pipeline never refreshes mid-operation — drift that happens during a
// long apply is picked up by the next run.
//
// Errors from the REST client are typed: *APIError carries the HTTP
// status, the platform error code, and the advised retry delay for
// rate-limit responses. IsRateLimit distinguishes backpressure from
// real failures so the applier can retry one and count the other.
package platform
