// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package permission

// Level is a named permission level's capability mapping. true allows
// a capability, false denies it, and an absent key is neutral. The
// absence-is-neutral invariant holds on every read and write path: no
// code stores an explicit neutral marker.
type Level map[string]bool

// Clone returns a deep, independent copy of the level. Mutating the
// copy never affects the original — create-with-copy-from relies on
// this.
func (l Level) Clone() Level {
	cloned := make(Level, len(l))
	for capability, allowed := range l {
		cloned[capability] = allowed
	}
	return cloned
}

// Levels is a guild's full set of named permission levels.
type Levels map[string]Level

// Clone returns a deep copy of every level.
func (ls Levels) Clone() Levels {
	cloned := make(Levels, len(ls))
	for name, level := range ls {
		cloned[name] = level.Clone()
	}
	return cloned
}

// FactoryOrder lists the factory level names in ascending privilege
// for display. The order is presentational only — levels carry no
// hierarchy at the data level.
var FactoryOrder = []string{"None", "View", "Chat", "Mod", "Admin"}

// factoryLevels holds the built-in level definitions. Guilds start
// with these and may edit, delete, or reset back to them. Never
// returned directly — FactoryLevels hands out deep copies so stored
// guild data cannot alias the factory table.
var factoryLevels = Levels{
	"None": {
		"view_channel": false,
	},
	"View": {
		"view_channel":             true,
		"read_message_history":     true,
		"send_messages":            false,
		"send_messages_in_threads": false,
		"add_reactions":            false,
		"connect":                  false,
		"speak":                    false,
		"stream":                   false,
		"use_soundboard":           false,
	},
	"Chat": {
		"change_nickname":          true,
		"view_channel":             true,
		"read_message_history":     true,
		"send_messages":            true,
		"send_messages_in_threads": true,
		"embed_links":              true,
		"attach_files":             true,
		"add_reactions":            true,
		"use_external_emojis":      true,
		"use_external_stickers":    true,
		"use_application_commands": true,
		"send_voice_messages":      true,
		"connect":                  true,
		"speak":                    true,
		"use_voice_activation":     true,
		"stream":                   true,
		"use_soundboard":           true,
		"use_external_sounds":      true,
		"use_embedded_activities":  true,
	},
	"Mod": {
		"view_channel":             true,
		"read_message_history":     true,
		"send_messages":            true,
		"send_messages_in_threads": true,
		"create_public_threads":    true,
		"create_private_threads":   true,
		"embed_links":              true,
		"attach_files":             true,
		"add_reactions":            true,
		"use_external_emojis":      true,
		"use_external_stickers":    true,
		"use_application_commands": true,
		"send_voice_messages":      true,
		"connect":                  true,
		"speak":                    true,
		"use_voice_activation":     true,
		"stream":                   true,
		"use_soundboard":           true,
		"use_external_sounds":      true,
		"use_embedded_activities":  true,
		"manage_messages":          true,
		"manage_threads":           true,
		"mute_members":             true,
		"deafen_members":           true,
		"move_members":             true,
		"manage_channels":          true,
		"moderate_members":         true,
		"kick_members":             true,
		"manage_nicknames":         true,
		"mention_everyone":         true,
	},
	"Admin": {
		"administrator": true,
	},
}

// FactoryLevels returns a deep copy of the built-in level definitions.
func FactoryLevels() Levels {
	return factoryLevels.Clone()
}
