// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package guildstore

import (
	"fmt"

	"github.com/bureau-foundation/warrant/platform"
)

// RoleList is a named, ordered list of role references. Bundles and
// exclusive groups share this shape; they differ only in which engine
// consumes them.
type RoleList map[string][]platform.RoleRef

func emptyRoleList() RoleList { return RoleList{} }

// The bundle and group collections are the same document shape under
// different names, so their CRUD shares one implementation. kind is
// the human noun for error messages ("bundle", "exclusive group").

func (s *Store) createNamedList(guildID, document, kind, name string) error {
	if name == "" {
		return &ValidationError{Field: kind + " name", Message: "must not be empty"}
	}
	return mutateDocument(s, guildID, document, emptyRoleList,
		func(lists RoleList) (RoleList, error) {
			if _, exists := lists[name]; exists {
				return nil, fmt.Errorf("%s %q: %w", kind, name, ErrAlreadyExists)
			}
			lists[name] = []platform.RoleRef{}
			return lists, nil
		})
}

func (s *Store) deleteNamedList(guildID, document, kind, name string) error {
	return mutateDocument(s, guildID, document, emptyRoleList,
		func(lists RoleList) (RoleList, error) {
			if _, exists := lists[name]; !exists {
				return nil, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
			}
			delete(lists, name)
			return lists, nil
		})
}

func (s *Store) appendListRole(guildID, document, kind, name string, ref platform.RoleRef) error {
	if ref == "" {
		return &ValidationError{Field: "role reference", Message: "must not be empty"}
	}
	return mutateDocument(s, guildID, document, emptyRoleList,
		func(lists RoleList) (RoleList, error) {
			refs, exists := lists[name]
			if !exists {
				return nil, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
			}
			for _, existing := range refs {
				if existing == ref {
					return lists, nil // already present, persist as-is
				}
			}
			lists[name] = append(refs, ref)
			return lists, nil
		})
}

func (s *Store) removeListRole(guildID, document, kind, name string, ref platform.RoleRef) error {
	return mutateDocument(s, guildID, document, emptyRoleList,
		func(lists RoleList) (RoleList, error) {
			refs, exists := lists[name]
			if !exists {
				return nil, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
			}
			kept := refs[:0:0]
			for _, existing := range refs {
				if existing != ref {
					kept = append(kept, existing)
				}
			}
			lists[name] = kept
			return lists, nil
		})
}

func (s *Store) putNamedList(guildID, document, kind, name string, refs []platform.RoleRef) error {
	if name == "" {
		return &ValidationError{Field: kind + " name", Message: "must not be empty"}
	}
	return mutateDocument(s, guildID, document, emptyRoleList,
		func(lists RoleList) (RoleList, error) {
			stored := make([]platform.RoleRef, len(refs))
			copy(stored, refs)
			lists[name] = stored
			return lists, nil
		})
}

// Bundles returns the guild's role bundles.
func (s *Store) Bundles(guildID string) RoleList {
	return loadDocument(s, guildID, bundlesDocument, emptyRoleList)
}

// CreateBundle adds an empty bundle.
func (s *Store) CreateBundle(guildID, name string) error {
	return s.createNamedList(guildID, bundlesDocument, "bundle", name)
}

// DeleteBundle removes a bundle.
func (s *Store) DeleteBundle(guildID, name string) error {
	return s.deleteNamedList(guildID, bundlesDocument, "bundle", name)
}

// AddBundleRole appends a role reference to a bundle. Appending a
// reference that is already present is a no-op.
func (s *Store) AddBundleRole(guildID, name string, ref platform.RoleRef) error {
	return s.appendListRole(guildID, bundlesDocument, "bundle", name, ref)
}

// RemoveBundleRole drops a role reference from a bundle.
func (s *Store) RemoveBundleRole(guildID, name string, ref platform.RoleRef) error {
	return s.removeListRole(guildID, bundlesDocument, "bundle", name, ref)
}

// PutBundle creates or wholesale-replaces a bundle's role list.
// Manifest import uses this.
func (s *Store) PutBundle(guildID, name string, refs []platform.RoleRef) error {
	return s.putNamedList(guildID, bundlesDocument, "bundle", name, refs)
}

// Groups returns the guild's exclusive groups.
func (s *Store) Groups(guildID string) RoleList {
	return loadDocument(s, guildID, groupsDocument, emptyRoleList)
}

// CreateGroup adds an empty exclusive group.
func (s *Store) CreateGroup(guildID, name string) error {
	return s.createNamedList(guildID, groupsDocument, "exclusive group", name)
}

// DeleteGroup removes an exclusive group.
func (s *Store) DeleteGroup(guildID, name string) error {
	return s.deleteNamedList(guildID, groupsDocument, "exclusive group", name)
}

// AddGroupRole appends a role reference to an exclusive group.
func (s *Store) AddGroupRole(guildID, name string, ref platform.RoleRef) error {
	return s.appendListRole(guildID, groupsDocument, "exclusive group", name, ref)
}

// RemoveGroupRole drops a role reference from an exclusive group.
func (s *Store) RemoveGroupRole(guildID, name string, ref platform.RoleRef) error {
	return s.removeListRole(guildID, groupsDocument, "exclusive group", name, ref)
}

// PutGroup creates or wholesale-replaces an exclusive group's role
// list. Manifest import uses this.
func (s *Store) PutGroup(guildID, name string, refs []platform.RoleRef) error {
	return s.putNamedList(guildID, groupsDocument, "exclusive group", name, refs)
}
