// Package authgate implements the client-side gating state machine of the
// mini app: it obtains the signed payload from the host shell, exchanges it
// for a session credential and decides whether protected content may render.
package authgate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ansokolov/CourseFox/internal/pkg/auth"
)

// State is the gate's rendering decision.
type State string

const (
	StateLoading       State = "loading"
	StateAuthenticated State = "authenticated"
	StateDenied        State = "denied"
	StateError         State = "error"
)

// Event drives the gate out of the loading state.
type Event string

const (
	EventStoredCredential Event = "stored_credential"
	EventPayloadMissing   Event = "payload_missing"
	EventAuthSucceeded    Event = "auth_succeeded"
	EventAuthDenied       Event = "auth_denied"
	EventAuthFailed       Event = "auth_failed"
)

// Next is the gate's transition function. Terminal states are sticky:
// once the gate has settled, later events do not move it.
func Next(state State, event Event) State {
	if state != StateLoading {
		return state
	}
	switch event {
	case EventStoredCredential, EventAuthSucceeded:
		return StateAuthenticated
	case EventAuthDenied:
		return StateDenied
	case EventPayloadMissing, EventAuthFailed:
		return StateError
	}
	return state
}

// DefaultDenialRoute is where the gate navigates on a subscription denial.
const DefaultDenialRoute = "/access-denied"

// DefaultTimeout bounds each network call so a hung request resolves the
// gate to StateError instead of leaving it in loading forever.
const DefaultTimeout = 15 * time.Second

// PayloadSource hands out the raw signed payload from the host shell.
type PayloadSource interface {
	InitData() string
}

// StaticSource is a PayloadSource around an already-known payload string.
type StaticSource string

func (s StaticSource) InitData() string { return string(s) }

// TokenStore persists the session credential between page loads.
type TokenStore interface {
	Token() string
	SetToken(token string)
}

// MemoryTokenStore is the in-process TokenStore.
type MemoryTokenStore struct {
	mu  sync.Mutex
	tok string
}

func (m *MemoryTokenStore) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok
}

func (m *MemoryTokenStore) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = token
}

// Config wires a Gate to its backend and host shell.
type Config struct {
	BaseURL      string
	Source       PayloadSource
	Store        TokenStore
	CurrentRoute string
	DenialRoute  string            // defaults to DefaultDenialRoute
	HTTPClient   *http.Client      // defaults to a client with DefaultTimeout
	OnNavigate   func(route string) // called on the denial redirect
}

// Gate runs one authentication attempt and holds the resulting state.
// It is not restartable: a failed attempt requires a fresh Gate, the same
// way the mini app requires a full restart.
type Gate struct {
	cfg     Config
	state   State
	profile *auth.Profile
	errCode string
	message string
}

// New creates a gate in StateLoading.
func New(cfg Config) *Gate {
	if cfg.DenialRoute == "" {
		cfg.DenialRoute = DefaultDenialRoute
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.Store == nil {
		cfg.Store = &MemoryTokenStore{}
	}
	return &Gate{cfg: cfg, state: StateLoading}
}

// State returns the gate's current state.
func (g *Gate) State() State { return g.state }

// Profile returns the authenticated profile, or nil before StateAuthenticated.
func (g *Gate) Profile() *auth.Profile { return g.profile }

// ErrorCode returns the machine-readable failure code after StateError.
func (g *Gate) ErrorCode() string { return g.errCode }

// Message returns the user-facing text for denied/error states.
func (g *Gate) Message() string { return g.message }

// Run executes the single authentication attempt and returns the settled
// state. Calling Run again after the gate settled is a no-op.
func (g *Gate) Run(ctx context.Context) State {
	if g.state != StateLoading {
		return g.state
	}

	// A credential from a previous load, or landing on the denial view,
	// renders as-is without re-authenticating.
	if g.cfg.Store.Token() != "" || g.cfg.CurrentRoute == g.cfg.DenialRoute {
		return g.apply(EventStoredCredential)
	}

	initData := g.cfg.Source.InitData()
	if initData == "" || !strings.Contains(initData, "hash=") {
		g.errCode = "no_init_data"
		g.message = "The app did not receive login data. Close it completely and open it again."
		return g.apply(EventPayloadMissing)
	}

	res, status, err := g.authenticate(ctx, initData)
	if err != nil {
		g.errCode = "network_error"
		g.message = "Could not reach the server. Close the app completely and open it again."
		return g.apply(EventAuthFailed)
	}

	switch {
	case status == http.StatusForbidden:
		g.message = "No active subscription."
		if g.cfg.OnNavigate != nil {
			g.cfg.OnNavigate(g.cfg.DenialRoute)
		}
		return g.apply(EventAuthDenied)
	case status != http.StatusOK:
		g.errCode = res.errCode
		if g.errCode == "" {
			g.errCode = fmt.Sprintf("auth_failed_%d", status)
		}
		g.message = "Authentication failed. Close the app completely and open it again."
		return g.apply(EventAuthFailed)
	}

	g.cfg.Store.SetToken(res.Token)

	profile, err := g.fetchProfile(ctx)
	if err != nil {
		g.errCode = "profile_unavailable"
		g.message = "Authentication failed. Close the app completely and open it again."
		return g.apply(EventAuthFailed)
	}

	g.profile = profile
	return g.apply(EventAuthSucceeded)
}

func (g *Gate) apply(event Event) State {
	g.state = Next(g.state, event)
	return g.state
}

type authResponse struct {
	auth.Result
	errCode string
}

func (g *Gate) authenticate(ctx context.Context, initData string) (*authResponse, int, error) {
	body, err := json.Marshal(map[string]string{"init_data": initData})
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/api/auth", bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	res := &authResponse{}
	if resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(raw, &res.Result); err != nil {
			return nil, 0, err
		}
		return res, resp.StatusCode, nil
	}

	// Non-2xx bodies carry a machine-readable error code.
	var errBody struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &errBody); err == nil {
		res.errCode = errBody.Error
	}
	return res, resp.StatusCode, nil
}

func (g *Gate) fetchProfile(ctx context.Context) (*auth.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"/api/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.Store.Token())

	resp, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch failed: %d", resp.StatusCode)
	}

	profile := &auth.Profile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
