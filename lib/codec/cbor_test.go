// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

// planHeader is a representative plan-file structure using json struct
// tags, relying on fxamacker's fallback so one tag controls naming in
// both JSON and CBOR output.
type planHeader struct {
	GuildID     string `json:"guild_id"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Entries     int    `json:"entries"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := planHeader{
		GuildID:     "217732403783",
		Fingerprint: "b3:4f2a",
		Entries:     42,
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded planHeader
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	// Map iteration order must not leak into the encoding: the same
	// logical value always produces the same bytes.
	value := map[string]any{
		"send_messages": true,
		"connect":       false,
		"view_channel":  true,
		"speak":         false,
	}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal %d: %v", i, err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestOmitemptyRespected(t *testing.T) {
	withFingerprint := planHeader{GuildID: "g", Fingerprint: "x", Entries: 1}
	withoutFingerprint := planHeader{GuildID: "g", Entries: 1}

	dataWith, err := Marshal(withFingerprint)
	if err != nil {
		t.Fatal(err)
	}
	dataWithout, err := Marshal(withoutFingerprint)
	if err != nil {
		t.Fatal(err)
	}

	if len(dataWithout) >= len(dataWith) {
		t.Errorf("omitempty not effective: without=%d bytes, with=%d bytes",
			len(dataWithout), len(dataWith))
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var header planHeader
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &header); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	// A future plan format may add fields; older readers must not
	// choke on them.
	data, err := Marshal(map[string]any{
		"guild_id": "g1",
		"entries":  3,
		"extra":    "from the future",
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded planHeader
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.GuildID != "g1" || decoded.Entries != 3 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]any{"guild_id": "g1"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"guild_id"`) {
		t.Errorf("notation %q does not contain \"guild_id\"", notation)
	}
	if !strings.Contains(notation, `"g1"`) {
		t.Errorf("notation %q does not contain \"g1\"", notation)
	}
}
