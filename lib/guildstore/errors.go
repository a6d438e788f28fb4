// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package guildstore

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a mutation against a named entity (level,
// bundle, group, rule, baseline) that does not exist in the guild's
// configuration. Recoverable — the caller reports it and moves on.
var ErrNotFound = errors.New("guildstore: not found")

// ErrAlreadyExists reports a create against a name that is already
// taken.
var ErrAlreadyExists = errors.New("guildstore: already exists")

// ValidationError reports a malformed input: an unregistered
// capability, an empty role list, an unknown target type.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("guildstore: invalid %s: %s", e.Field, e.Message)
}
