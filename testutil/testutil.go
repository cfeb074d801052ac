// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/election"
)

// TestAdminID is the administrator identity used by GetTestConfig
const TestAdminID = "admin"

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   ":memory:",
		DatabaseType:  db.TypeSQLite,
		AdminID:       TestAdminID,
		AccessKeySalt: "test-key-salt",
	}
}

// Clock is a settable election.Clock
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// QuietLogger discards log output
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestMachine builds a Machine on a fresh database with a settable clock
func NewTestMachine(t *testing.T) (*election.Machine, *Clock) {
	t.Helper()

	conn := SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	clock := NewClock()
	m, err := election.New(db.NewStore(conn), TestAdminID, clock, QuietLogger())
	if err != nil {
		t.Fatalf("Failed to create machine: %v", err)
	}
	return m, clock
}

// RegisterTestVoter registers id through the administrator
func RegisterTestVoter(t *testing.T, m *election.Machine, id string) {
	t.Helper()
	if _, err := m.RegisterVoter(context.Background(), m.Admin(), id); err != nil {
		t.Fatalf("Failed to register voter %s: %v", id, err)
	}
}

// AddTestCandidate adds a candidate and returns its id
func AddTestCandidate(t *testing.T, m *election.Machine, name string) int64 {
	t.Helper()
	c, err := m.AddCandidate(context.Background(), m.Admin(), name)
	if err != nil {
		t.Fatalf("Failed to add candidate %s: %v", name, err)
	}
	return c.ID
}

// StartTestElection opens round 1 for d
func StartTestElection(t *testing.T, m *election.Machine, d time.Duration) {
	t.Helper()
	if _, err := m.StartElection(context.Background(), m.Admin(), d); err != nil {
		t.Fatalf("Failed to start election: %v", err)
	}
}

// AuthHeaders returns the identity headers for a caller
func AuthHeaders(cfg cliparse.Config, identity string) map[string]string {
	return map[string]string{
		"X-Caller-ID":  identity,
		"X-Access-Key": auth.GenerateAccessKey(identity, cfg.AccessKeySalt),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
