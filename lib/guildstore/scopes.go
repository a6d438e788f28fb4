// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package guildstore

import (
	"fmt"
	"slices"
)

// Scopes groups Warrant's command families for delegation: an
// administrator grants a scope to a role, and members holding that
// role may use the commands the scope covers. Administrators bypass
// scope checks entirely — the gate lives in the presentation layer,
// this package only stores and answers the grants.
var Scopes = []string{
	"assign",       // bundle assignment and removal
	"bundles",      // bundle management
	"groups",       // exclusive group management
	"access-rules", // access rules and category baselines
	"levels",       // permission level management
	"sync",         // plan build, diff, apply
	"status",       // configuration summary
}

// ValidScope reports whether name is a known scope.
func ValidScope(name string) bool {
	return slices.Contains(Scopes, name)
}

// CommandScopes maps role IDs to the scopes granted to that role.
type CommandScopes map[string][]string

func emptyCommandScopes() CommandScopes { return CommandScopes{} }

// HasScope reports whether any of the given roles carries the scope.
func (c CommandScopes) HasScope(roleIDs []string, scope string) bool {
	for _, roleID := range roleIDs {
		if slices.Contains(c[roleID], scope) {
			return true
		}
	}
	return false
}

// CommandScopes returns the guild's scope grants.
func (s *Store) CommandScopes(guildID string) CommandScopes {
	return loadDocument(s, guildID, scopesDocument, emptyCommandScopes)
}

// GrantScope grants a scope to a role. Granting an already-held scope
// is a no-op.
func (s *Store) GrantScope(guildID, roleID, scope string) error {
	if !ValidScope(scope) {
		return &ValidationError{Field: "scope", Message: fmt.Sprintf("unknown scope %q", scope)}
	}
	return mutateDocument(s, guildID, scopesDocument, emptyCommandScopes,
		func(scopes CommandScopes) (CommandScopes, error) {
			if slices.Contains(scopes[roleID], scope) {
				return scopes, nil
			}
			scopes[roleID] = append(scopes[roleID], scope)
			return scopes, nil
		})
}

// RevokeScope removes a scope grant from a role.
func (s *Store) RevokeScope(guildID, roleID, scope string) error {
	return mutateDocument(s, guildID, scopesDocument, emptyCommandScopes,
		func(scopes CommandScopes) (CommandScopes, error) {
			granted := scopes[roleID]
			index := slices.Index(granted, scope)
			if index < 0 {
				return nil, fmt.Errorf("scope %q on role %s: %w", scope, roleID, ErrNotFound)
			}
			granted = slices.Delete(granted, index, index+1)
			if len(granted) == 0 {
				delete(scopes, roleID)
			} else {
				scopes[roleID] = granted
			}
			return scopes, nil
		})
}
