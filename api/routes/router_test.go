package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/juniorgolf-backend/internal/auth"
	"github.com/angelmondragon/juniorgolf-backend/internal/avatar"
	"github.com/angelmondragon/juniorgolf-backend/internal/children"
	"github.com/angelmondragon/juniorgolf-backend/internal/permissions"
	pkgAuth "github.com/angelmondragon/juniorgolf-backend/pkg/auth"
	"github.com/angelmondragon/juniorgolf-backend/pkg/config"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/metrics"
	"github.com/angelmondragon/juniorgolf-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubParents struct{ parentID uuid.UUID }

func (s stubParents) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Parent, error) {
	return &models.Parent{ID: s.parentID, UserID: userID}, nil
}

type stubAuthorizer struct{ granted map[enums.Permission]bool }

func (s stubAuthorizer) RequireAll(_ context.Context, _ permissions.Principal, required ...enums.Permission) error {
	for _, perm := range required {
		if !s.granted[perm] {
			return pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("missing permissions: %s", perm))
		}
	}
	return nil
}

func (s stubAuthorizer) RequireAny(_ context.Context, _ permissions.Principal, candidates ...enums.Permission) error {
	for _, perm := range candidates {
		if s.granted[perm] {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "missing permissions")
}

type stubChildren struct {
	children.Service
	parentID uuid.UUID
}

func (s *stubChildren) List(_ context.Context, parentID uuid.UUID) ([]children.ChildDTO, error) {
	s.parentID = parentID
	return []children.ChildDTO{}, nil
}

type stubAvatar struct {
	avatar.Service
	mu        sync.Mutex
	purchases int
}

func (s *stubAvatar) Shop(context.Context, string) ([]avatar.ItemDTO, error) {
	return []avatar.ItemDTO{}, nil
}

func (s *stubAvatar) Purchase(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases++
	return nil
}

func (s *stubAvatar) Unequip(context.Context, uuid.UUID, uuid.UUID, string) (types.AvatarState, error) {
	return types.AvatarState{}, nil
}

type stubAuth struct {
	auth.Service
	mu      sync.Mutex
	guesses int
}

func (s *stubAuth) VerifyPin(context.Context, uuid.UUID, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guesses++
	return pkgerrors.New(pkgerrors.CodeInvalidPin, "incorrect pin")
}

// memoryStore is an in-process stand-in for the redis client.
type memoryStore struct {
	mu       sync.Mutex
	data     map[string]string
	counters map[string]int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}, counters: map[string]int64{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	switch v := value.(type) {
	case string:
		m.data[key] = v
	case []byte:
		m.data[key] = string(v)
	default:
		m.data[key] = fmt.Sprint(v)
	}
	return true, nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return "jg:idempotency:" + scope + ":" + id
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryStore) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	return true, 1, nil
}

func (m *memoryStore) CountAttempt(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
	return m.counters[key], nil
}

func (m *memoryStore) Ping(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", MetricsEnabled: true},
		JWT: config.JWTConfig{
			Secret:            "0123456789abcdef0123456789abcdef",
			Issuer:            "juniorgolf",
			ExpirationMinutes: 60,
		},
		Idempotency: config.IdempotencyConfig{TTL: time.Hour},
	}
}

type fixture struct {
	handler  http.Handler
	cfg      *config.Config
	parentID uuid.UUID
	children *stubChildren
	avatar   *stubAvatar
	auth     *stubAuth
	registry *prometheus.Registry
}

func newFixture(t *testing.T, granted ...enums.Permission) *fixture {
	t.Helper()
	return newFixtureWithConfig(t, nil, granted...)
}

func newFixtureWithConfig(t *testing.T, tune func(*config.Config), granted ...enums.Permission) *fixture {
	t.Helper()
	cfg := testConfig()
	if tune != nil {
		tune(cfg)
	}
	set := map[enums.Permission]bool{}
	for _, p := range granted {
		set[p] = true
	}
	f := &fixture{
		cfg:      cfg,
		parentID: uuid.New(),
		children: &stubChildren{},
		avatar:   &stubAvatar{},
		auth:     &stubAuth{},
		registry: prometheus.NewRegistry(),
	}
	f.handler = NewRouter(cfg, nil, Deps{
		DB:          stubPinger{},
		Redis:       newMemoryStore(),
		Parents:     stubParents{parentID: f.parentID},
		Authorizer:  stubAuthorizer{granted: set},
		HTTPMetrics: metrics.NewHTTPMetrics(f.registry),
		Gatherer:    f.registry,
		Children:    f.children,
		Avatar:      f.avatar,
		Auth:        f.auth,
	})
	return f
}

func (f *fixture) token(t *testing.T) string {
	t.Helper()
	return f.tokenFor(t, uuid.New())
}

func (f *fixture) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(f.cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   userID,
		Email:    "parent@example.com",
		RoleID:   uuid.New(),
		RoleName: enums.RoleParent,
		JTI:      uuid.NewString(),
	})
	require.NoError(t, err)
	return token
}

func (f *fixture) do(method, path, token, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	f.handler.ServeHTTP(resp, req)
	return resp
}

func TestHealthRoutes(t *testing.T) {
	f := newFixture(t)

	resp := f.do(http.MethodGet, "/health/live", "", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("X-Request-Id"))

	resp = f.do(http.MethodGet, "/health/ready", "", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	f := newFixture(t, enums.PermissionChildrenRead)

	for _, path := range []string{"/api/v1/children", "/api/v1/avatar/shop", "/api/v1/auth/me", "/api/v1/settings"} {
		resp := f.do(http.MethodGet, path, "", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, path)
	}
}

func TestChildrenListResolvesParent(t *testing.T) {
	f := newFixture(t, enums.PermissionChildrenRead)

	resp := f.do(http.MethodGet, "/api/v1/children", f.token(t), "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, f.parentID, f.children.parentID)
}

func TestPermissionGate(t *testing.T) {
	f := newFixture(t)

	resp := f.do(http.MethodGet, "/api/v1/children", f.token(t), "", nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, uuid.Nil, f.children.parentID)
}

func TestAvatarShopIsBearerOnly(t *testing.T) {
	f := newFixture(t)

	resp := f.do(http.MethodGet, "/api/v1/avatar/shop", f.token(t), "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAvatarUnequipRoute(t *testing.T) {
	f := newFixture(t, enums.PermissionChildrenWrite)

	resp := f.do(http.MethodDelete, "/api/v1/avatar/"+uuid.NewString()+"/equip/HAT", f.token(t), "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestPurchaseReplaysIdempotencyKey(t *testing.T) {
	f := newFixture(t, enums.PermissionChildrenWrite)
	token := f.token(t)
	path := "/api/v1/avatar/" + uuid.NewString() + "/purchase"
	body := `{"itemId":"` + uuid.NewString() + `"}`
	headers := map[string]string{"Idempotency-Key": "purchase-1"}

	first := f.do(http.MethodPost, path, token, body, headers)
	require.Equal(t, http.StatusOK, first.Code)

	second := f.do(http.MethodPost, path, token, body, headers)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, f.avatar.purchases)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodGet, "/health/live", "", "", nil)

	resp := f.do(http.MethodGet, "/metrics", "", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `route="/health/live"`)
}

func TestPinGuessesThrottledPerUser(t *testing.T) {
	f := newFixtureWithConfig(t, func(cfg *config.Config) {
		cfg.AuthRateLimit.PinWindow = time.Minute
		cfg.AuthRateLimit.PinUserLimit = 2
	})
	token := f.tokenFor(t, uuid.New())
	body := `{"pin":"0000"}`

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/v1/auth/verify-pin", token, body, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/v1/auth/verify-pin", token, body, nil).Code)

	blocked := f.do(http.MethodPost, "/api/v1/auth/verify-pin", token, body, nil)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))
	assert.Equal(t, 2, f.auth.guesses)

	other := f.tokenFor(t, uuid.New())
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/v1/auth/verify-pin", other, body, nil).Code)
}
