// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package guildstore

import (
	"fmt"

	"github.com/bureau-foundation/warrant/lib/permission"
	"github.com/bureau-foundation/warrant/platform"
)

// TargetType says what kind of organizational unit a rule targets.
type TargetType string

const (
	TargetCategory TargetType = "category"
	TargetChannel  TargetType = "channel"
)

// Rule is a role-scoped access rule: apply the named level, in the
// given direction, to every (role, target) pair. The JSON field names
// match the persisted document shape, including the historical
// "overwrite" name for the direction.
type Rule struct {
	// ID is unique within the guild and never reused: the counter in
	// the rules document only moves forward, so a deleted rule's ID
	// stays dead. External references to a removed rule fail closed
	// instead of silently pointing at a newer rule.
	ID         int                  `json:"id"`
	RoleIDs    []platform.RoleRef   `json:"role_ids"`
	TargetType TargetType           `json:"target_type"`
	TargetIDs  []string             `json:"target_ids"`
	Level      string               `json:"level"`
	Direction  permission.Direction `json:"overwrite,omitempty"`
}

// ruleData is the rules document: the rule list plus the monotonic ID
// counter, persisted together.
type ruleData struct {
	NextID int    `json:"next_id"`
	Rules  []Rule `json:"rules"`
}

func emptyRuleData() ruleData { return ruleData{NextID: 1} }

// Rules returns the guild's access rules in storage order (ascending
// creation, since rules append).
func (s *Store) Rules(guildID string) []Rule {
	return loadDocument(s, guildID, rulesDocument, emptyRuleData).Rules
}

// AddRule validates and appends an access rule, returning its new ID.
func (s *Store) AddRule(guildID string, roleIDs []platform.RoleRef, targetType TargetType, targetIDs []string, levelName string, direction permission.Direction) (int, error) {
	if len(roleIDs) == 0 {
		return 0, &ValidationError{Field: "role_ids", Message: "at least one role is required"}
	}
	if len(targetIDs) == 0 {
		return 0, &ValidationError{Field: "target_ids", Message: "at least one target is required"}
	}
	if targetType != TargetCategory && targetType != TargetChannel {
		return 0, &ValidationError{Field: "target_type", Message: fmt.Sprintf("unknown target type %q", targetType)}
	}
	normalized, err := permission.ParseDirection(string(direction))
	if err != nil {
		return 0, &ValidationError{Field: "direction", Message: err.Error()}
	}
	if _, exists := s.Levels(guildID)[levelName]; !exists {
		return 0, fmt.Errorf("level %q: %w", levelName, ErrNotFound)
	}

	var assignedID int
	err = mutateDocument(s, guildID, rulesDocument, emptyRuleData,
		func(data ruleData) (ruleData, error) {
			assignedID = data.NextID
			data.Rules = append(data.Rules, Rule{
				ID:         assignedID,
				RoleIDs:    roleIDs,
				TargetType: targetType,
				TargetIDs:  targetIDs,
				Level:      levelName,
				Direction:  normalized,
			})
			data.NextID = assignedID + 1
			return data, nil
		})
	if err != nil {
		return 0, err
	}
	return assignedID, nil
}

// RemoveRule deletes a rule by ID. The ID counter is untouched, so the
// removed ID is never handed out again.
func (s *Store) RemoveRule(guildID string, ruleID int) error {
	return mutateDocument(s, guildID, rulesDocument, emptyRuleData,
		func(data ruleData) (ruleData, error) {
			kept := data.Rules[:0:0]
			for _, rule := range data.Rules {
				if rule.ID != ruleID {
					kept = append(kept, rule)
				}
			}
			if len(kept) == len(data.Rules) {
				return ruleData{}, fmt.Errorf("rule #%d: %w", ruleID, ErrNotFound)
			}
			data.Rules = kept
			return data, nil
		})
}

// UpdateRule edits a rule's level and/or direction in place. Nil
// fields are left unchanged. Returns the updated rule.
func (s *Store) UpdateRule(guildID string, ruleID int, levelName *string, direction *permission.Direction) (Rule, error) {
	if levelName != nil {
		if _, exists := s.Levels(guildID)[*levelName]; !exists {
			return Rule{}, fmt.Errorf("level %q: %w", *levelName, ErrNotFound)
		}
	}
	if direction != nil {
		normalized, err := permission.ParseDirection(string(*direction))
		if err != nil {
			return Rule{}, &ValidationError{Field: "direction", Message: err.Error()}
		}
		direction = &normalized
	}

	var updated Rule
	err := mutateDocument(s, guildID, rulesDocument, emptyRuleData,
		func(data ruleData) (ruleData, error) {
			for i := range data.Rules {
				if data.Rules[i].ID != ruleID {
					continue
				}
				if levelName != nil {
					data.Rules[i].Level = *levelName
				}
				if direction != nil {
					data.Rules[i].Direction = *direction
				}
				updated = data.Rules[i]
				return data, nil
			}
			return ruleData{}, fmt.Errorf("rule #%d: %w", ruleID, ErrNotFound)
		})
	if err != nil {
		return Rule{}, err
	}
	return updated, nil
}
