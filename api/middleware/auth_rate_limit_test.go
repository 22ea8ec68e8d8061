package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/juniorgolf-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
)

type countingStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newCountingStore() *countingStore {
	return &countingStore{counts: map[string]int64{}}
}

func (s *countingStore) CountAttempt(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func (s *countingStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.counts))
	for k := range s.counts {
		out = append(out, k)
	}
	return out
}

func authLimits() config.AuthRateLimitConfig {
	return config.AuthRateLimitConfig{
		LoginWindow:        time.Minute,
		LoginEmailLimit:    2,
		LoginIPLimit:       10,
		RegisterWindow:     5 * time.Minute,
		RegisterEmailLimit: 5,
		RegisterIPLimit:    1,
		PinWindow:          15 * time.Minute,
		PinUserLimit:       3,
		PinIPLimit:         50,
	}
}

func credentialRequest(path, remote, email string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"email":"`+email+`","password":"Fairway123"}`))
	req.RemoteAddr = remote
	return req
}

func pinRequest(remote, userID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify-pin", strings.NewReader(`{"pin":"1234"}`))
	req.RemoteAddr = remote
	return req.WithContext(WithUserID(req.Context(), userID))
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLoginThrottlePerEmailAcrossAddresses(t *testing.T) {
	store := newCountingStore()
	handler := AuthRateLimit(LoginRateLimitPolicy(authLimits()), store, nil, nil)(okHandler())

	assert.Equal(t, http.StatusOK, serve(handler, credentialRequest("/api/v1/auth/login", "1.1.1.1:1000", "Parent@Example.com")).Code)
	assert.Equal(t, http.StatusOK, serve(handler, credentialRequest("/api/v1/auth/login", "2.2.2.2:1000", "parent@example.com ")).Code)

	rec := serve(handler, credentialRequest("/api/v1/auth/login", "3.3.3.3:1000", "parent@example.com"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, string(pkgerrors.CodeRateLimit), payload.Error.Code)

	assert.Equal(t, http.StatusOK, serve(handler, credentialRequest("/api/v1/auth/login", "3.3.3.3:1000", "other@example.com")).Code)

	for _, key := range store.keys() {
		assert.NotContains(t, key, "example.com", "raw email leaked into %s", key)
	}
}

func TestLoginThrottleKeepsBodyForHandler(t *testing.T) {
	handler := AuthRateLimit(LoginRateLimitPolicy(authLimits()), newCountingStore(), nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"email":"coach@example.com"`)
		w.WriteHeader(http.StatusOK)
	}))

	assert.Equal(t, http.StatusOK, serve(handler, credentialRequest("/api/v1/auth/login", "1.1.1.1:1000", "coach@example.com")).Code)
}

func TestRegisterThrottlePerIP(t *testing.T) {
	handler := AuthRateLimit(RegisterRateLimitPolicy(authLimits()), newCountingStore(), nil, nil)(okHandler())

	assert.Equal(t, http.StatusOK, serve(handler, credentialRequest("/api/v1/auth/register", "5.6.7.8:1234", "a@example.com")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(handler, credentialRequest("/api/v1/auth/register", "5.6.7.8:4321", "b@example.com")).Code)
	assert.Equal(t, http.StatusOK, serve(handler, credentialRequest("/api/v1/auth/register", "8.7.6.5:1234", "c@example.com")).Code)
}

func TestPinThrottlePerUser(t *testing.T) {
	store := newCountingStore()
	handler := AuthRateLimit(PinRateLimitPolicy(authLimits()), store, nil, nil)(okHandler())
	guesser := uuid.NewString()

	// rotating addresses does not buy more guesses for the same account
	codes := make([]int, 0, 4)
	for i, remote := range []string{"1.1.1.1:1", "2.2.2.2:1", "3.3.3.3:1", "4.4.4.4:1"} {
		rec := serve(handler, pinRequest(remote, guesser))
		codes = append(codes, rec.Code)
		if i == 3 {
			assert.Equal(t, "900", rec.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	assert.Equal(t, http.StatusOK, serve(handler, pinRequest("1.1.1.1:1", uuid.NewString())).Code)
	assert.Contains(t, store.keys(), "auth:pin:user:"+guesser)
}

func TestPinThrottleSharedAcrossVerifyAndChange(t *testing.T) {
	store := newCountingStore()
	throttle := AuthRateLimit(PinRateLimitPolicy(authLimits()), store, nil, nil)
	verify, change := throttle(okHandler()), throttle(okHandler())
	userID := uuid.NewString()

	assert.Equal(t, http.StatusOK, serve(verify, pinRequest("1.1.1.1:1", userID)).Code)
	assert.Equal(t, http.StatusOK, serve(change, pinRequest("1.1.1.1:1", userID)).Code)
	assert.Equal(t, http.StatusOK, serve(verify, pinRequest("1.1.1.1:1", userID)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(change, pinRequest("1.1.1.1:1", userID)).Code)
}

func TestForwardedForIgnoredWithoutTrustedProxy(t *testing.T) {
	limits := authLimits()
	limits.LoginEmailLimit = 0
	limits.LoginIPLimit = 1
	handler := AuthRateLimit(LoginRateLimitPolicy(limits), newCountingStore(), NewClientIPResolver(nil), nil)(okHandler())

	first := credentialRequest("/api/v1/auth/login", "6.6.6.6:1000", "a@example.com")
	first.Header.Set("X-Forwarded-For", "10.1.1.1")
	assert.Equal(t, http.StatusOK, serve(handler, first).Code)

	spoofed := credentialRequest("/api/v1/auth/login", "6.6.6.6:1000", "a@example.com")
	spoofed.Header.Set("X-Forwarded-For", "10.2.2.2")
	spoofed.Header.Set("X-Real-IP", "10.3.3.3")
	assert.Equal(t, http.StatusTooManyRequests, serve(handler, spoofed).Code)
}

func TestForwardedForHonouredBehindTrustedProxy(t *testing.T) {
	limits := authLimits()
	limits.LoginEmailLimit = 0
	limits.LoginIPLimit = 1
	_, proxies, err := net.ParseCIDR("10.0.0.0/8")
	require.NoError(t, err)
	handler := AuthRateLimit(LoginRateLimitPolicy(limits), newCountingStore(), NewClientIPResolver([]*net.IPNet{proxies}), nil)(okHandler())

	for _, client := range []string{"203.0.113.1", "203.0.113.2"} {
		req := credentialRequest("/api/v1/auth/login", "10.0.0.5:443", "a@example.com")
		req.Header.Set("X-Forwarded-For", client)
		assert.Equal(t, http.StatusOK, serve(handler, req).Code, client)
	}

	repeat := credentialRequest("/api/v1/auth/login", "10.0.0.5:443", "a@example.com")
	repeat.Header.Set("X-Forwarded-For", "203.0.113.1")
	assert.Equal(t, http.StatusTooManyRequests, serve(handler, repeat).Code)
}

func TestAuthThrottleDependencyFailure(t *testing.T) {
	store := newCountingStore()
	store.err = errors.New("redis down")
	handler := AuthRateLimit(PinRateLimitPolicy(authLimits()), store, nil, nil)(okHandler())

	assert.Equal(t, http.StatusServiceUnavailable, serve(handler, pinRequest("1.1.1.1:1", uuid.NewString())).Code)
}

func TestAuthThrottleInactivePolicyPassesThrough(t *testing.T) {
	store := newCountingStore()
	store.err = errors.New("unused")
	handler := AuthRateLimit(PinRateLimitPolicy(config.AuthRateLimitConfig{}), store, nil, nil)(okHandler())

	assert.Equal(t, http.StatusOK, serve(handler, pinRequest("1.1.1.1:1", uuid.NewString())).Code)
	handler = AuthRateLimit(LoginRateLimitPolicy(authLimits()), nil, nil, nil)(okHandler())
	assert.Equal(t, http.StatusOK, serve(handler, credentialRequest("/api/v1/auth/login", "1.1.1.1:1", "a@example.com")).Code)
}
