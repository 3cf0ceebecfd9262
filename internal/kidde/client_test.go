package kidde

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newAPIStub serves a minimal HomeSafe cloud API: login issuing a token,
// one location, and a device list gated on the token header.
func newAPIStub(t *testing.T, token string, devices []map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": token})
	})

	mux.HandleFunc("/location", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("kidde-auth-token") != token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{{"id": 77}})
	})

	mux.HandleFunc("/location/77/device", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("kidde-auth-token") != token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(devices)
	})

	return httptest.NewServer(mux)
}

func TestClientPoll(t *testing.T) {
	devices := []map[string]any{
		{
			"id":        1234.0,
			"label":     "Hallway",
			"mb_model":  48,
			"last_seen": "2024-06-22T16:00:19Z",
			"life":      320,
			"tvoc":      map[string]any{"value": 605.09, "status": "Moderate", "Unit": "ppb"},
		},
		{
			"id":       5678.0,
			"label":    "Kitchen",
			"co_level": 0,
		},
		{
			// No id: skipped with a warning, not fatal.
			"label": "Orphan",
		},
	}

	srv := newAPIStub(t, "tok-1", devices)
	defer srv.Close()

	c := NewClient(srv.URL, "user@example.com", "hunter2", 5*time.Second, testLogger())
	snap, err := c.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll() error: %v", err)
	}

	if len(snap.Devices) != 2 {
		t.Fatalf("Poll() returned %d devices, want 2", len(snap.Devices))
	}
	hallway, ok := snap.Devices["1234"]
	if !ok {
		t.Fatal("device 1234 missing from snapshot")
	}
	if hallway.Label() != "Hallway" {
		t.Errorf("Label() = %q, want Hallway", hallway.Label())
	}
	if obj, ok := hallway.Object("tvoc"); !ok || obj["Unit"] != "ppb" {
		t.Errorf("tvoc object not preserved: %v", hallway["tvoc"])
	}
	if snap.FetchedAt.IsZero() {
		t.Error("snapshot FetchedAt not set")
	}
}

func TestClientReauthOnExpiredToken(t *testing.T) {
	srv := newAPIStub(t, "tok-2", []map[string]any{{"id": 1.0}})
	defer srv.Close()

	c := NewClient(srv.URL, "user@example.com", "hunter2", 5*time.Second, testLogger())
	c.token = "stale" // expired token forces a 401 and a re-login

	snap, err := c.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll() error: %v", err)
	}
	if len(snap.Devices) != 1 {
		t.Fatalf("Poll() returned %d devices, want 1", len(snap.Devices))
	}
	if c.token != "tok-2" {
		t.Errorf("token = %q, want refreshed tok-2", c.token)
	}
}

func TestClientLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user@example.com", "wrong", 5*time.Second, testLogger())
	if _, err := c.Poll(context.Background()); err == nil {
		t.Fatal("Poll() should fail when login is rejected")
	}
}
