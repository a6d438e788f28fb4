// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides warrant's standard CBOR encoding configuration.
//
// Warrant uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: the platform REST API, the per-guild
//     state documents under the data root, and CLI --json output.
//   - CBOR for plan files: the snapshot a `plan build` writes to disk and
//     `plan diff`/`plan apply` read back.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every warrant package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes, so a plan's content fingerprint is stable across builds and
// machines.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
package codec
