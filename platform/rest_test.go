// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bureau-foundation/warrant/lib/permission"
)

// newTestClient starts an httptest server with the given handler and
// returns a RESTClient pointed at it.
func newTestClient(t *testing.T, handler http.Handler) *RESTClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewRESTClient(RESTConfig{
		BaseURL: server.URL,
		Token:   "test-token",
	})
	if err != nil {
		t.Fatalf("NewRESTClient: %v", err)
	}
	return client
}

func TestTopologyAssemblesSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /guilds/g1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(wireGuild{ID: "g1", OwnerID: "owner-1"})
	})
	mux.HandleFunc("GET /guilds/g1/roles", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Role{
			{ID: "10", Name: "Raiders", Position: 2},
		})
	})
	mux.HandleFunc("GET /guilds/g1/channels", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]wireUnit{
			{ID: "c1", Name: "raids", Kind: "category"},
			{
				ID: "ch1", Name: "raid-chat", Kind: "channel", ParentID: "c1",
				Overwrites: []wireOverwrite{
					{Subject: "role:10", Allow: []string{"view_channel"}, Deny: []string{"send_messages"}},
				},
			},
		})
	})

	client := newTestClient(t, mux)
	topology, err := client.Topology(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Topology: %v", err)
	}

	if topology.OwnerID != "owner-1" {
		t.Errorf("owner = %q, want owner-1", topology.OwnerID)
	}
	if len(topology.Roles) != 1 || len(topology.Units) != 2 {
		t.Fatalf("snapshot shape wrong: %d roles, %d units", len(topology.Roles), len(topology.Units))
	}

	channel := topology.UnitsByID()["ch1"]
	if channel.Kind != UnitChannel || channel.ParentID != "c1" {
		t.Errorf("channel unit decoded wrong: %+v", channel)
	}
	overwrite := channel.Overwrites[RoleSubject("10")]
	want := permission.OverwriteSet{"view_channel": true, "send_messages": false}
	if !overwrite.Equal(want) {
		t.Errorf("overwrite = %v, want %v", overwrite, want)
	}
}

func TestSetOverwriteSendsSortedWireShape(t *testing.T) {
	var received wireOverwrite
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /channels/ch1/overwrites/{subject}", func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	client := newTestClient(t, mux)
	err := client.SetOverwrite(context.Background(), "ch1", RoleSubject("10"), permission.OverwriteSet{
		"view_channel":  true,
		"add_reactions": true,
		"send_messages": false,
	})
	if err != nil {
		t.Fatalf("SetOverwrite: %v", err)
	}

	if received.Subject != "role:10" {
		t.Errorf("subject = %q, want role:10", received.Subject)
	}
	if len(received.Allow) != 2 || received.Allow[0] != "add_reactions" || received.Allow[1] != "view_channel" {
		t.Errorf("allow list not sorted: %v", received.Allow)
	}
	if len(received.Deny) != 1 || received.Deny[0] != "send_messages" {
		t.Errorf("deny = %v", received.Deny)
	}
}

func TestClearOverwriteTolerates404(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /channels/ch1/overwrites/{subject}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"code": ErrCodeUnknownUnit, "message": "gone"})
	})

	client := newTestClient(t, mux)
	if err := client.ClearOverwrite(context.Background(), "ch1", EveryoneSubject()); err != nil {
		t.Fatalf("ClearOverwrite on missing overwrite should succeed, got %v", err)
	}
}

func TestRateLimitErrorCarriesRetryAfter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /channels/ch1/overwrites/{subject}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"code":        ErrCodeRateLimited,
			"message":     "slow down",
			"retry_after": 2.5,
		})
	})

	client := newTestClient(t, mux)
	err := client.SetOverwrite(context.Background(), "ch1", EveryoneSubject(), permission.OverwriteSet{"view_channel": true})
	if err == nil {
		t.Fatal("expected rate-limit error")
	}
	if !IsRateLimit(err) {
		t.Fatalf("IsRateLimit(%v) = false", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is not *APIError: %v", err)
	}
	if apiErr.RetryAfter != 2500*time.Millisecond {
		t.Errorf("RetryAfter = %s, want 2.5s", apiErr.RetryAfter)
	}
}

func TestNonRateLimitErrorIsTyped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /guilds/g1/members/m1/roles/r1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"code": ErrCodeForbidden, "message": "hierarchy"})
	})

	client := newTestClient(t, mux)
	err := client.AddMemberRole(context.Background(), "g1", "m1", "r1")
	if err == nil {
		t.Fatal("expected error")
	}
	if IsRateLimit(err) {
		t.Error("forbidden response classified as rate limit")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is not *APIError: %v", err)
	}
	if apiErr.Code != ErrCodeForbidden || apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("apiErr = %+v", apiErr)
	}
}
