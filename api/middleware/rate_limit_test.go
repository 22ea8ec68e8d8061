package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/config"
	"github.com/stretchr/testify/assert"
)

type fakeWindow struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (f *fakeWindow) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	cfg := config.RateLimitConfig{Requests: 2, Window: time.Minute}
	handler := RateLimit(cfg, &fakeWindow{}, nil, nil)(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/drills", nil)
		req.RemoteAddr = "9.9.9.9:1000"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodGet, "/api/v1/drills", nil)
	other.RemoteAddr = "8.8.8.8:1000"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, other)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRateLimitDependencyFailure(t *testing.T) {
	cfg := config.RateLimitConfig{Requests: 2, Window: time.Minute}
	handler := RateLimit(cfg, &fakeWindow{err: errors.New("redis down")}, nil, nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	handler := RateLimit(config.RateLimitConfig{}, &fakeWindow{err: errors.New("unused")}, nil, nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}
