// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package permission defines the capability registry, named permission
// levels, and the compiler that turns a level into a concrete overwrite
// set.
//
// A Level maps capability names to a tri-state flag: true is an
// explicit allow, false is an explicit deny, and an absent key is
// neutral (the capability inherits from the subject's roles and the
// guild default). Neutrality is represented by absence everywhere —
// levels are never stored or compiled with an explicit third value.
//
// Compile converts a level into an OverwriteSet for a given rule
// direction. Allow-direction rules use the level as stored;
// deny-direction rules invert every explicit flag (allow becomes deny
// and vice versa) while absent keys stay absent. Compilation is pure:
// the same level can back any number of rules without interference.
package permission
