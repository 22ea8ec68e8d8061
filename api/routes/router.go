package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/juniorgolf-backend/api/controllers"
	"github.com/angelmondragon/juniorgolf-backend/api/middleware"
	"github.com/angelmondragon/juniorgolf-backend/internal/auth"
	"github.com/angelmondragon/juniorgolf-backend/internal/avatar"
	"github.com/angelmondragon/juniorgolf-backend/internal/children"
	"github.com/angelmondragon/juniorgolf-backend/internal/drills"
	"github.com/angelmondragon/juniorgolf-backend/internal/progress"
	"github.com/angelmondragon/juniorgolf-backend/internal/sessions"
	"github.com/angelmondragon/juniorgolf-backend/internal/settings"
	"github.com/angelmondragon/juniorgolf-backend/pkg/config"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
	"github.com/angelmondragon/juniorgolf-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/juniorgolf-backend/pkg/redis"
)

// Store is the redis surface the HTTP layer needs.
type Store interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	CountAttempt(ctx context.Context, key string, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	DB          controllers.Pinger
	Redis       Store
	Parents     middleware.ParentResolver
	Authorizer  middleware.Authorizer
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth     auth.Service
	Children children.Service
	Drills   drills.Service
	Sessions sessions.Service
	Progress progress.Service
	Avatar   avatar.Service
	Settings settings.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()

	// nil interfaces keep optional middleware disabled
	var limiter interface {
		FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	}
	var authLimiter interface {
		CountAttempt(ctx context.Context, key string, window time.Duration) (int64, error)
	}
	var idempotencyStore pkgredis.IdempotencyStore
	var redisPinger controllers.Pinger
	if deps.Redis != nil {
		limiter, authLimiter, idempotencyStore, redisPinger = deps.Redis, deps.Redis, deps.Redis, deps.Redis
	}

	trusted, err := cfg.App.TrustedProxyNets()
	if err != nil && logg != nil {
		logg.Error(context.Background(), "ignoring trusted proxies", err)
	}
	ips := middleware.NewClientIPResolver(trusted)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.RateLimit(cfg.RateLimit, limiter, ips, logg),
	)

	throttle := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		return middleware.AuthRateLimit(policy, authLimiter, ips, logg)
	}
	loginThrottle := throttle(middleware.LoginRateLimitPolicy(cfg.AuthRateLimit))
	registerThrottle := throttle(middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit))
	pinThrottle := throttle(middleware.PinRateLimitPolicy(cfg.AuthRateLimit))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if cfg.App.MetricsEnabled && deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	bearer := middleware.Auth(cfg.JWT, logg)
	parent := middleware.ParentContext(deps.Parents, logg)
	can := func(perm enums.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(deps.Authorizer, perm, logg)
	}
	// route level so the matched pattern is complete
	idempotent := middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL, logg)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(registerThrottle).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(loginThrottle).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(bearer)
			r.Post("/logout-all", controllers.AuthLogoutAll(deps.Auth, logg))
			r.Get("/me", controllers.AuthMe(deps.Auth, logg))
			r.Patch("/me", controllers.AuthUpdateMe(deps.Auth, logg))
			r.Post("/change-password", controllers.AuthChangePassword(deps.Auth, logg))
			r.Post("/set-pin", controllers.AuthSetPin(deps.Auth, logg))
			r.With(pinThrottle).Post("/verify-pin", controllers.AuthVerifyPin(deps.Auth, logg))
			r.With(pinThrottle).Patch("/change-pin", controllers.AuthChangePin(deps.Auth, logg))
			r.Get("/pin-status", controllers.AuthPinStatus(deps.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(bearer)

		r.Route("/drills", func(r chi.Router) {
			r.Use(can(enums.PermissionDrillsRead))
			r.Get("/", controllers.DrillsList(deps.Drills, logg))
			r.Get("/categories", controllers.DrillsCategories(deps.Drills, logg))
			r.Get("/{id}", controllers.DrillsGet(deps.Drills, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.With(can(enums.PermissionSettingsRead)).Get("/", controllers.SettingsGet(deps.Settings, logg))
			r.With(can(enums.PermissionSettingsWrite)).Patch("/", controllers.SettingsUpdate(deps.Settings, logg))
		})

		r.Get("/avatar/shop", controllers.AvatarShop(deps.Avatar, logg))

		r.Group(func(r chi.Router) {
			r.Use(parent)

			r.Route("/children", func(r chi.Router) {
				r.With(can(enums.PermissionChildrenWrite)).Post("/", controllers.ChildrenCreate(deps.Children, logg))
				r.With(can(enums.PermissionChildrenRead)).Get("/", controllers.ChildrenList(deps.Children, logg))
				r.With(can(enums.PermissionChildrenRead)).Get("/{id}", controllers.ChildrenGet(deps.Children, logg))
				r.With(can(enums.PermissionChildrenRead)).Get("/{id}/stats", controllers.ChildrenStats(deps.Children, logg))
				r.With(can(enums.PermissionChildrenWrite)).Patch("/{id}", controllers.ChildrenUpdate(deps.Children, logg))
				r.With(can(enums.PermissionChildrenDelete)).Delete("/{id}", controllers.ChildrenDelete(deps.Children, logg))
			})

			r.Route("/sessions", func(r chi.Router) {
				r.With(can(enums.PermissionSessionsWrite)).Post("/", controllers.SessionsGenerate(deps.Sessions, logg))
				r.With(can(enums.PermissionSessionsRead)).Get("/", controllers.SessionsList(deps.Sessions, logg))
				r.With(can(enums.PermissionSessionsRead)).Get("/{id}", controllers.SessionsGet(deps.Sessions, logg))
				r.With(can(enums.PermissionSessionsWrite)).Patch("/{id}/drills/{drillId}", controllers.SessionsCompleteDrill(deps.Sessions, logg))
				r.With(can(enums.PermissionSessionsWrite), idempotent).Post("/{id}/complete", controllers.SessionsComplete(deps.Sessions, logg))
			})

			r.Route("/progress/{childId}", func(r chi.Router) {
				r.With(can(enums.PermissionChildrenRead)).Get("/", controllers.ProgressStats(deps.Progress, logg))
				r.With(can(enums.PermissionChildrenRead)).Get("/streak", controllers.ProgressStreak(deps.Progress, logg))
				r.With(can(enums.PermissionChildrenWrite)).Post("/streak", controllers.ProgressUpdateStreak(deps.Progress, logg))
			})

			r.Route("/avatar/{childId}", func(r chi.Router) {
				r.With(can(enums.PermissionChildrenRead)).Get("/", controllers.AvatarGet(deps.Avatar, logg))
				r.With(can(enums.PermissionChildrenWrite), idempotent).Post("/purchase", controllers.AvatarPurchase(deps.Avatar, logg))
				r.With(can(enums.PermissionChildrenWrite)).Post("/equip", controllers.AvatarEquip(deps.Avatar, logg))
				r.With(can(enums.PermissionChildrenWrite)).Delete("/equip/{category}", controllers.AvatarUnequip(deps.Avatar, logg))
			})
		})
	})

	return r
}
