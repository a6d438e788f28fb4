// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bureau-foundation/warrant/lib/permission"
)

// RESTConfig holds configuration for creating a RESTClient.
type RESTConfig struct {
	// BaseURL is the platform API base (e.g., "https://chat.example.com/api/v1").
	BaseURL string
	// Token is the bot token sent as the Authorization bearer.
	Token string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// RESTClient implements Client over the platform's HTTP API.
type RESTClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRESTClient creates a Client for the platform's HTTP API.
func NewRESTClient(config RESTConfig) (*RESTClient, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("platform: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("platform: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if config.Token == "" {
		return nil, fmt.Errorf("platform: Token is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RESTClient{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		token:      config.Token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// wireOverwrite is the API's overwrite shape: explicit allow and deny
// capability lists. Neutral capabilities appear in neither list.
type wireOverwrite struct {
	Subject string   `json:"subject"`
	Allow   []string `json:"allow"`
	Deny    []string `json:"deny"`
}

// wireUnit is the API's channel-list element.
type wireUnit struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	ParentID   string          `json:"parent_id"`
	Synced     bool            `json:"synced"`
	Overwrites []wireOverwrite `json:"overwrites"`
}

// wireGuild is the API's guild summary.
type wireGuild struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// Topology fetches the guild summary, role list, and channel list, and
// assembles them into a snapshot.
func (c *RESTClient) Topology(ctx context.Context, guildID string) (*Topology, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/guilds/"+guildID, nil)
	if err != nil {
		return nil, fmt.Errorf("platform: fetching guild %s: %w", guildID, err)
	}
	var guild wireGuild
	if err := json.Unmarshal(body, &guild); err != nil {
		return nil, fmt.Errorf("platform: parsing guild response: %w", err)
	}

	body, err = c.doRequest(ctx, http.MethodGet, "/guilds/"+guildID+"/roles", nil)
	if err != nil {
		return nil, fmt.Errorf("platform: fetching roles for guild %s: %w", guildID, err)
	}
	var roles []Role
	if err := json.Unmarshal(body, &roles); err != nil {
		return nil, fmt.Errorf("platform: parsing roles response: %w", err)
	}

	body, err = c.doRequest(ctx, http.MethodGet, "/guilds/"+guildID+"/channels", nil)
	if err != nil {
		return nil, fmt.Errorf("platform: fetching channels for guild %s: %w", guildID, err)
	}
	var wireUnits []wireUnit
	if err := json.Unmarshal(body, &wireUnits); err != nil {
		return nil, fmt.Errorf("platform: parsing channels response: %w", err)
	}

	units := make([]Unit, 0, len(wireUnits))
	for _, wu := range wireUnits {
		unit, err := decodeUnit(wu)
		if err != nil {
			return nil, fmt.Errorf("platform: unit %s: %w", wu.ID, err)
		}
		units = append(units, unit)
	}

	return &Topology{
		GuildID: guildID,
		OwnerID: guild.OwnerID,
		Roles:   roles,
		Units:   units,
	}, nil
}

func decodeUnit(wu wireUnit) (Unit, error) {
	kind := UnitChannel
	if wu.Kind == string(UnitCategory) {
		kind = UnitCategory
	}

	unit := Unit{
		ID:       wu.ID,
		Name:     wu.Name,
		Kind:     kind,
		ParentID: wu.ParentID,
		Synced:   wu.Synced,
	}
	if len(wu.Overwrites) > 0 {
		unit.Overwrites = make(map[Subject]permission.OverwriteSet, len(wu.Overwrites))
	}
	for _, wo := range wu.Overwrites {
		var subject Subject
		if err := subject.UnmarshalText([]byte(wo.Subject)); err != nil {
			return Unit{}, err
		}
		set := make(permission.OverwriteSet, len(wo.Allow)+len(wo.Deny))
		for _, capability := range wo.Allow {
			set[capability] = true
		}
		for _, capability := range wo.Deny {
			set[capability] = false
		}
		unit.Overwrites[subject] = set
	}
	return unit, nil
}

// SetOverwrite replaces one subject's overwrite on one unit.
func (c *RESTClient) SetOverwrite(ctx context.Context, unitID string, subject Subject, overwrite permission.OverwriteSet) error {
	allow, deny := splitOverwrite(overwrite)
	request := wireOverwrite{
		Subject: subject.String(),
		Allow:   allow,
		Deny:    deny,
	}
	path := "/channels/" + unitID + "/overwrites/" + url.PathEscape(subject.String())
	if _, err := c.doRequest(ctx, http.MethodPut, path, request); err != nil {
		return fmt.Errorf("platform: setting overwrite on %s for %s: %w", unitID, subject, err)
	}
	return nil
}

// ClearOverwrite removes one subject's overwrite on one unit. A 404 is
// treated as success — the overwrite is gone either way.
func (c *RESTClient) ClearOverwrite(ctx context.Context, unitID string, subject Subject) error {
	path := "/channels/" + unitID + "/overwrites/" + url.PathEscape(subject.String())
	if _, err := c.doRequest(ctx, http.MethodDelete, path, nil); err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("platform: clearing overwrite on %s for %s: %w", unitID, subject, err)
	}
	return nil
}

// Member fetches a guild member and their roles.
func (c *RESTClient) Member(ctx context.Context, guildID, memberID string) (*Member, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/guilds/"+guildID+"/members/"+memberID, nil)
	if err != nil {
		return nil, fmt.Errorf("platform: fetching member %s: %w", memberID, err)
	}
	var member Member
	if err := json.Unmarshal(body, &member); err != nil {
		return nil, fmt.Errorf("platform: parsing member response: %w", err)
	}
	return &member, nil
}

// AddMemberRole grants a role to a member.
func (c *RESTClient) AddMemberRole(ctx context.Context, guildID, memberID, roleID string) error {
	path := "/guilds/" + guildID + "/members/" + memberID + "/roles/" + roleID
	if _, err := c.doRequest(ctx, http.MethodPut, path, nil); err != nil {
		return fmt.Errorf("platform: adding role %s to member %s: %w", roleID, memberID, err)
	}
	return nil
}

// RemoveMemberRole revokes a role from a member.
func (c *RESTClient) RemoveMemberRole(ctx context.Context, guildID, memberID, roleID string) error {
	path := "/guilds/" + guildID + "/members/" + memberID + "/roles/" + roleID
	if _, err := c.doRequest(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("platform: removing role %s from member %s: %w", roleID, memberID, err)
	}
	return nil
}

// splitOverwrite converts an overwrite set into the wire's sorted
// allow/deny lists.
func splitOverwrite(overwrite permission.OverwriteSet) (allow, deny []string) {
	allow = []string{}
	deny = []string{}
	for capability, allowed := range overwrite {
		if allowed {
			allow = append(allow, capability)
		} else {
			deny = append(deny, capability)
		}
	}
	sort.Strings(allow)
	sort.Strings(deny)
	return allow, deny
}

// doRequest performs an HTTP request against the platform API and
// returns the response body. On 2xx, returns the body. On 4xx/5xx,
// returns a *APIError with the parsed platform error and, for 429s,
// the advised retry delay.
func (c *RESTClient) doRequest(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	requestURL := c.baseURL + path

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Authorization", "Bearer "+c.token)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// All platform error responses share one JSON shape. A non-JSON
	// error body means something other than the API answered (a proxy,
	// a load balancer) — fail loud with the raw body.
	apiErr := &APIError{StatusCode: response.StatusCode}
	if len(responseBody) > 0 {
		if jsonErr := json.Unmarshal(responseBody, apiErr); jsonErr != nil {
			return nil, fmt.Errorf("unexpected %d response from %s %s: %s",
				response.StatusCode, method, path, string(responseBody))
		}
	}
	apiErr.RetryAfter = retryAfterDuration(response, responseBody)

	return responseBody, apiErr
}

// retryAfterDuration extracts the advised backoff from a rate-limit
// response: the JSON retry_after field (seconds, possibly fractional)
// when present, otherwise the Retry-After header.
func retryAfterDuration(response *http.Response, body []byte) time.Duration {
	if response.StatusCode != http.StatusTooManyRequests {
		return 0
	}

	var payload struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.RetryAfter > 0 {
		return time.Duration(payload.RetryAfter * float64(time.Second))
	}

	if header := response.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.ParseFloat(header, 64); err == nil && seconds > 0 {
			return time.Duration(seconds * float64(time.Second))
		}
	}
	return 0
}
