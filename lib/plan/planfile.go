// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/warrant/lib/codec"
)

// planFile is the on-disk plan format: deterministic CBOR so the same
// plan always serializes to the same bytes.
type planFile struct {
	GuildID     string             `json:"guild_id"`
	BuiltAt     string             `json:"built_at"`
	Fingerprint string             `json:"fingerprint"`
	Entries     map[string][]Entry `json:"entries"`
}

// Fingerprint returns the BLAKE3 digest of the plan's canonical CBOR
// encoding, hex-encoded. Because the encoding is deterministic, two
// plans with the same content share a fingerprint; logs from a diff
// and a later apply of the same plan file correlate through it.
func Fingerprint(p *Plan) (string, error) {
	canonical, err := codec.Marshal(struct {
		GuildID string             `json:"guild_id"`
		Entries map[string][]Entry `json:"entries"`
	}{p.GuildID, p.Entries})
	if err != nil {
		return "", fmt.Errorf("plan: encoding for fingerprint: %w", err)
	}
	sum := blake3.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Save writes the plan to path as CBOR, atomically (temp file in the
// same directory, fsync, rename).
func Save(path string, p *Plan, builtAt time.Time) error {
	fingerprint, err := Fingerprint(p)
	if err != nil {
		return err
	}

	data, err := codec.Marshal(planFile{
		GuildID:     p.GuildID,
		BuiltAt:     builtAt.UTC().Format(time.RFC3339),
		Fingerprint: fingerprint,
		Entries:     p.Entries,
	})
	if err != nil {
		return fmt.Errorf("plan: encoding plan file: %w", err)
	}

	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, ".plan-*")
	if err != nil {
		return fmt.Errorf("plan: creating temp file: %w", err)
	}
	tempName := temp.Name()
	defer os.Remove(tempName)

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return fmt.Errorf("plan: writing plan file: %w", err)
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return fmt.Errorf("plan: syncing plan file: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("plan: closing plan file: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("plan: renaming plan file: %w", err)
	}

	if dirHandle, err := os.Open(dir); err == nil {
		dirHandle.Sync()
		dirHandle.Close()
	}
	return nil
}

// Load reads a plan file and verifies its fingerprint against the
// decoded content, rejecting files that were corrupted or hand-edited.
// Returns the plan and its build timestamp.
func Load(path string) (*Plan, time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("plan: reading plan file: %w", err)
	}

	var file planFile
	if err := codec.Unmarshal(data, &file); err != nil {
		return nil, time.Time{}, fmt.Errorf("plan: decoding plan file: %w", err)
	}

	p := &Plan{GuildID: file.GuildID, Entries: file.Entries}
	if p.Entries == nil {
		p.Entries = make(map[string][]Entry)
	}

	fingerprint, err := Fingerprint(p)
	if err != nil {
		return nil, time.Time{}, err
	}
	if fingerprint != file.Fingerprint {
		return nil, time.Time{}, fmt.Errorf("plan: fingerprint mismatch in %s: file claims %s, content is %s",
			path, file.Fingerprint, fingerprint)
	}

	builtAt, err := time.Parse(time.RFC3339, file.BuiltAt)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("plan: parsing build timestamp: %w", err)
	}
	return p, builtAt, nil
}
