// Package db is a thin admin client for a Supabase-style backend: auth
// admin lookups, the allowed_users table, and SQL migrations. The engine
// decides what to run; this client only transports.
package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to one project's API using the secret (service role) key.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient builds a client for the project at url. The key must be the
// secret key (sb_secret_* or a legacy service_role JWT); the public key
// lacks the admin permissions every operation here needs.
func NewClient(url, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(url, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// User is an auth user record.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.secretKey)
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// TestConnection verifies the credentials by listing auth users, an
// operation that requires admin permissions.
func (c *Client) TestConnection(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/auth/v1/admin/users", nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth admin request failed: %s", resp.Status)
	}
	return nil
}

// GetUserByEmail looks up an auth user by email. Returns nil when no user
// matches.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/auth/v1/admin/users", nil)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing users: %s", resp.Status)
	}
	var payload struct {
		Users []User `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding user list: %w", err)
	}
	for _, u := range payload.Users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

// InsertAllowedUser adds a user id to the allowed_users table. A duplicate
// entry counts as success.
func (c *Client) InsertAllowedUser(ctx context.Context, userID string) error {
	resp, err := c.do(ctx, http.MethodPost, "/rest/v1/allowed_users", map[string]string{"user_id": userID})
	if err != nil {
		return fmt.Errorf("inserting allowed user: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		return nil
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if strings.Contains(strings.ToLower(string(body)), "duplicate key") {
			return nil
		}
		return fmt.Errorf("inserting allowed user: %s", resp.Status)
	}
	return nil
}

// TableExists probes a table through the REST surface.
func (c *Client) TableExists(ctx context.Context, table string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/rest/v1/"+table+"?limit=1", nil)
	if err != nil {
		return false, fmt.Errorf("probing table %s: %w", table, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("probing table %s: %s", table, resp.Status)
	}
}

// SyncStats summarizes one allowed-users sync run.
type SyncStats struct {
	Added    int
	Skipped  int
	NotFound int
}

// SyncEvent reports per-email progress to the caller; nil disables
// reporting.
type SyncEvent func(email string, outcome string)

// SyncAllowedUsers pushes a list of emails into allowed_users. Blank lines
// and '#' comments are ignored. Users that have not signed up yet are
// counted as not found, never treated as errors.
func (c *Client) SyncAllowedUsers(ctx context.Context, emails []string, report SyncEvent) (SyncStats, error) {
	var stats SyncStats
	notify := func(email, outcome string) {
		if report != nil {
			report(email, outcome)
		}
	}
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" || strings.HasPrefix(email, "#") {
			continue
		}
		user, err := c.GetUserByEmail(ctx, email)
		if err != nil {
			return stats, err
		}
		if user == nil {
			stats.NotFound++
			notify(email, "not found in auth users (user needs to sign up first)")
			continue
		}
		if err := c.InsertAllowedUser(ctx, user.ID); err != nil {
			stats.Skipped++
			notify(email, fmt.Sprintf("skipped: %v", err))
			continue
		}
		stats.Added++
		notify(email, "added to allowed_users")
	}
	return stats, nil
}
