package authgate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ansokolov/CourseFox/internal/pkg/auth"
)

func TestNext_Transitions(t *testing.T) {
	tests := []struct {
		state State
		event Event
		want  State
	}{
		{StateLoading, EventStoredCredential, StateAuthenticated},
		{StateLoading, EventAuthSucceeded, StateAuthenticated},
		{StateLoading, EventAuthDenied, StateDenied},
		{StateLoading, EventPayloadMissing, StateError},
		{StateLoading, EventAuthFailed, StateError},
		// Terminal states are sticky.
		{StateAuthenticated, EventAuthFailed, StateAuthenticated},
		{StateDenied, EventAuthSucceeded, StateDenied},
		{StateError, EventAuthSucceeded, StateError},
	}

	for _, tt := range tests {
		if got := Next(tt.state, tt.event); got != tt.want {
			t.Fatalf("Next(%s, %s) = %s, want %s", tt.state, tt.event, got, tt.want)
		}
	}
}

func testProfile() *auth.Profile {
	return &auth.Profile{
		ID:         1,
		TelegramID: 424242,
		Role:       "student",
		Username:   "lena_k",
		Subscription: auth.SubscriptionView{
			Status: "active",
		},
	}
}

// newBackend fakes the auth endpoints. authStatus controls POST /api/auth;
// a 200 returns a token and the /me endpoint then accepts it.
func newBackend(t *testing.T, authStatus int, authBody any, requests *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth":
			w.WriteHeader(authStatus)
			json.NewEncoder(w).Encode(authBody)
		case "/api/me":
			if r.Header.Get("Authorization") != "Bearer test-token" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "bad_token"})
				return
			}
			json.NewEncoder(w).Encode(testProfile())
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

const validInitData = "auth_date=1756600000&user=%7B%22id%22%3A424242%7D&hash=deadbeef"

func TestRun_Success(t *testing.T) {
	srv := newBackend(t, http.StatusOK, auth.Result{Token: "test-token", Profile: testProfile()}, nil)
	defer srv.Close()

	store := &MemoryTokenStore{}
	gate := New(Config{
		BaseURL: srv.URL,
		Source:  StaticSource(validInitData),
		Store:   store,
	})

	state := gate.Run(context.Background())
	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "test-token", store.Token())
	assert.NotNil(t, gate.Profile())
	assert.Equal(t, "lena_k", gate.Profile().Username)
	assert.Equal(t, "active", gate.Profile().Subscription.Status)
}

func TestRun_DeniedNavigatesToDenialRoute(t *testing.T) {
	srv := newBackend(t, http.StatusForbidden, map[string]string{"error": "no_subscription"}, nil)
	defer srv.Close()

	var navigated string
	gate := New(Config{
		BaseURL:    srv.URL,
		Source:     StaticSource(validInitData),
		OnNavigate: func(route string) { navigated = route },
	})

	state := gate.Run(context.Background())
	assert.Equal(t, StateDenied, state)
	assert.Equal(t, DefaultDenialRoute, navigated)
}

func TestRun_BadSignatureSurfacesServerCode(t *testing.T) {
	srv := newBackend(t, http.StatusUnauthorized, map[string]string{"error": "bad_signature"}, nil)
	defer srv.Close()

	gate := New(Config{
		BaseURL: srv.URL,
		Source:  StaticSource(validInitData),
	})

	state := gate.Run(context.Background())
	assert.Equal(t, StateError, state)
	assert.Equal(t, "bad_signature", gate.ErrorCode())
}

func TestRun_MissingPayload(t *testing.T) {
	var requests atomic.Int64
	srv := newBackend(t, http.StatusOK, nil, &requests)
	defer srv.Close()

	for _, payload := range []string{"", "auth_date=123"} {
		gate := New(Config{
			BaseURL: srv.URL,
			Source:  StaticSource(payload),
		})

		state := gate.Run(context.Background())
		assert.Equal(t, StateError, state)
		assert.Equal(t, "no_init_data", gate.ErrorCode())
	}
	// The gate never went to the network.
	assert.Equal(t, int64(0), requests.Load())
}

func TestRun_StoredCredentialSkipsNetwork(t *testing.T) {
	var requests atomic.Int64
	srv := newBackend(t, http.StatusOK, nil, &requests)
	defer srv.Close()

	store := &MemoryTokenStore{}
	store.SetToken("previously-stored")
	gate := New(Config{
		BaseURL: srv.URL,
		Source:  StaticSource(validInitData),
		Store:   store,
	})

	state := gate.Run(context.Background())
	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, int64(0), requests.Load())
}

func TestRun_DenialRouteRendersAsIs(t *testing.T) {
	var requests atomic.Int64
	srv := newBackend(t, http.StatusOK, nil, &requests)
	defer srv.Close()

	gate := New(Config{
		BaseURL:      srv.URL,
		Source:       StaticSource(""),
		CurrentRoute: DefaultDenialRoute,
	})

	state := gate.Run(context.Background())
	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, int64(0), requests.Load())
}

func TestRun_NetworkErrorResolvesToError(t *testing.T) {
	// Point the gate at a closed server.
	srv := newBackend(t, http.StatusOK, nil, nil)
	srv.Close()

	gate := New(Config{
		BaseURL: srv.URL,
		Source:  StaticSource(validInitData),
	})

	state := gate.Run(context.Background())
	assert.Equal(t, StateError, state)
	assert.Equal(t, "network_error", gate.ErrorCode())
}

func TestRun_ProfileFetchFailureIsError(t *testing.T) {
	// Auth succeeds but hands out a token /me rejects.
	srv := newBackend(t, http.StatusOK, auth.Result{Token: "wrong-token", Profile: testProfile()}, nil)
	defer srv.Close()

	gate := New(Config{
		BaseURL: srv.URL,
		Source:  StaticSource(validInitData),
	})

	state := gate.Run(context.Background())
	assert.Equal(t, StateError, state)
	assert.Equal(t, "profile_unavailable", gate.ErrorCode())
}

func TestRun_SingleAttempt(t *testing.T) {
	srv := newBackend(t, http.StatusUnauthorized, map[string]string{"error": "bad_signature"}, nil)
	defer srv.Close()

	gate := New(Config{
		BaseURL: srv.URL,
		Source:  StaticSource(validInitData),
	})

	assert.Equal(t, StateError, gate.Run(context.Background()))
	// A second Run does not restart the attempt.
	assert.Equal(t, StateError, gate.Run(context.Background()))
}
