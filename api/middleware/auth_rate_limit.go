package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/api/responses"
	"github.com/angelmondragon/juniorgolf-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
)

type attemptCounter interface {
	CountAttempt(ctx context.Context, key string, window time.Duration) (int64, error)
}

// accountSubject names the account a credential check targets. An empty
// result skips the per-account window.
type accountSubject struct {
	kind    string
	resolve func(r *http.Request) (string, error)
}

var (
	emailAccount = accountSubject{kind: "email", resolve: hashedEmailFromBody}
	userAccount  = accountSubject{kind: "user", resolve: func(r *http.Request) (string, error) {
		return UserIDFromContext(r.Context()), nil
	}}
)

// AuthRateLimitPolicy throttles one family of credential checks per client IP
// and per targeted account.
type AuthRateLimitPolicy struct {
	Name         string
	Window       time.Duration
	IPLimit      int
	AccountLimit int
	account      accountSubject
}

// LoginRateLimitPolicy keys the account window on the email being signed into.
func LoginRateLimitPolicy(cfg config.AuthRateLimitConfig) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		Name:         "login",
		Window:       cfg.LoginWindow,
		IPLimit:      cfg.LoginIPLimit,
		AccountLimit: cfg.LoginEmailLimit,
		account:      emailAccount,
	}
}

func RegisterRateLimitPolicy(cfg config.AuthRateLimitConfig) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		Name:         "register",
		Window:       cfg.RegisterWindow,
		IPLimit:      cfg.RegisterIPLimit,
		AccountLimit: cfg.RegisterEmailLimit,
		account:      emailAccount,
	}
}

// PinRateLimitPolicy counts PIN guesses per signed-in user, so it must sit
// behind Auth. Verify and change share one counter.
func PinRateLimitPolicy(cfg config.AuthRateLimitConfig) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		Name:         "pin",
		Window:       cfg.PinWindow,
		IPLimit:      cfg.PinIPLimit,
		AccountLimit: cfg.PinUserLimit,
		account:      userAccount,
	}
}

func (p AuthRateLimitPolicy) active() bool {
	return p.Window > 0 && (p.IPLimit > 0 || p.AccountLimit > 0)
}

type attemptWindow struct {
	scope string
	value string
	limit int
}

func (p AuthRateLimitPolicy) key(w attemptWindow) string {
	return "auth:" + p.Name + ":" + w.scope + ":" + w.value
}

// AuthRateLimit counts every attempt, successful or not, and answers 429 once
// either the IP or the account window is spent.
func AuthRateLimit(policy AuthRateLimitPolicy, store attemptCounter, ips *ClientIPResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.active() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			windows := make([]attemptWindow, 0, 2)
			if ip := ips.ClientIP(r); ip != "" && policy.IPLimit > 0 {
				windows = append(windows, attemptWindow{scope: "ip", value: ip, limit: policy.IPLimit})
			}
			if policy.AccountLimit > 0 && policy.account.resolve != nil {
				account, err := policy.account.resolve(r)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				if account != "" {
					windows = append(windows, attemptWindow{scope: policy.account.kind, value: account, limit: policy.AccountLimit})
				}
			}

			for _, win := range windows {
				count, err := store.CountAttempt(ctx, policy.key(win), policy.Window)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if count > int64(win.limit) {
					policy.reject(ctx, logg, w, win, count)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (p AuthRateLimitPolicy) reject(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, win attemptWindow, count int64) {
	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"policy":         p.Name,
			"scope":          win.scope,
			"subject":        win.value,
			"attempts":       count,
			"limit":          win.limit,
			"window_seconds": int(p.Window.Seconds()),
		}), "auth.rate_limit.blocked")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(p.Window.Seconds()))))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

// hashedEmailFromBody peeks at the JSON body and restores it for the handler.
// The email is hashed so it never reaches redis keys or logs.
func hashedEmailFromBody(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return "", nil
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" {
		return "", nil
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:]), nil
}
