// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package permission

import "sort"

// Groups organizes every known capability into display groups. The
// grouping exists for CLI listings and level editing — it carries no
// semantic weight in compilation. Capability names follow the
// platform's overwrite attribute names.
var Groups = map[string][]string{
	"General": {
		"administrator",
		"view_audit_log",
		"manage_guild",
		"manage_roles",
		"manage_channels",
		"kick_members",
		"ban_members",
		"create_instant_invite",
		"change_nickname",
		"manage_nicknames",
		"manage_emojis_and_stickers",
		"manage_webhooks",
		"manage_events",
		"view_channel",
		"moderate_members",
		"view_guild_insights",
	},
	"Text": {
		"send_messages",
		"send_messages_in_threads",
		"create_public_threads",
		"create_private_threads",
		"embed_links",
		"attach_files",
		"add_reactions",
		"use_external_emojis",
		"use_external_stickers",
		"mention_everyone",
		"manage_messages",
		"manage_threads",
		"read_message_history",
		"send_tts_messages",
		"use_application_commands",
		"send_voice_messages",
	},
	"Voice": {
		"connect",
		"speak",
		"stream",
		"use_soundboard",
		"use_external_sounds",
		"mute_members",
		"deafen_members",
		"move_members",
		"use_voice_activation",
		"priority_speaker",
		"request_to_speak",
		"use_embedded_activities",
	},
}

// capabilitySet is the flat registry, built once from Groups.
var capabilitySet = func() map[string]bool {
	set := make(map[string]bool)
	for _, names := range Groups {
		for _, name := range names {
			set[name] = true
		}
	}
	return set
}()

// Known reports whether name is a registered capability.
func Known(name string) bool {
	return capabilitySet[name]
}

// Capabilities returns every registered capability name, sorted.
func Capabilities() []string {
	names := make([]string, 0, len(capabilitySet))
	for name := range capabilitySet {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GroupNames returns the display group names in their conventional
// order: General, Text, Voice.
func GroupNames() []string {
	return []string{"General", "Text", "Voice"}
}
