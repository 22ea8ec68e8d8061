package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const minJWTSecretLen = 32

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	Permissions   PermissionsConfig
	Idempotency   IdempotencyConfig
	FeatureFlags  FeatureFlagsConfig
	Maintenance   MaintenanceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.JWT.validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvTimezone, err)
	}
	if _, err := cfg.App.TrustedProxyNets(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvTrustedProxies, err)
	}
	cfg.Password.normalize()
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"JUNIORGOLF_APP_ENV" required:"true"`
	Port            string        `envconfig:"JUNIORGOLF_APP_PORT" required:"true"`
	LogLevel        string        `envconfig:"JUNIORGOLF_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"JUNIORGOLF_LOG_WARN_STACK" default:"false"`
	Timezone        string        `envconfig:"JUNIORGOLF_APP_TIMEZONE" default:"Local"`
	CORSOrigins     []string      `envconfig:"JUNIORGOLF_CORS_ORIGINS" default:"http://localhost:8103"`
	MetricsEnabled  bool          `envconfig:"JUNIORGOLF_METRICS_ENABLED" default:"true"`
	ShutdownTimeout time.Duration `envconfig:"JUNIORGOLF_SHUTDOWN_TIMEOUT" default:"15s"`
	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string `envconfig:"JUNIORGOLF_TRUSTED_PROXIES"`
}

// TrustedProxyNets parses TrustedProxies. A bare address becomes a single-host network.
func (a AppConfig) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(a.TrustedProxies))
	for _, raw := range a.TrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("%q is not an ip or cidr", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, err
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

// Location resolves the time zone used for calendar computations such as week starts.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

type DBConfig struct {
	DSN    string `envconfig:"JUNIORGOLF_DB_DSN"`
	Driver string `envconfig:"JUNIORGOLF_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"JUNIORGOLF_DB_HOST"`
	LegacyPort     int    `envconfig:"JUNIORGOLF_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"JUNIORGOLF_DB_USER"`
	LegacyPassword string `envconfig:"JUNIORGOLF_DB_PASSWORD"`
	LegacyName     string `envconfig:"JUNIORGOLF_DB_NAME"`
	LegacySSLMode  string `envconfig:"JUNIORGOLF_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"JUNIORGOLF_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JUNIORGOLF_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JUNIORGOLF_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JUNIORGOLF_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"JUNIORGOLF_REDIS_URL"`
	Address      string        `envconfig:"JUNIORGOLF_REDIS_ADDR"`
	Password     string        `envconfig:"JUNIORGOLF_REDIS_PASSWORD"`
	DB           int           `envconfig:"JUNIORGOLF_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JUNIORGOLF_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JUNIORGOLF_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JUNIORGOLF_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JUNIORGOLF_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JUNIORGOLF_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"JUNIORGOLF_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"JUNIORGOLF_JWT_ISSUER" default:"juniorgolf"`
	ExpirationMinutes      int    `envconfig:"JUNIORGOLF_JWT_EXPIRATION_MINUTES" default:"15"`
	RefreshTokenTTLMinutes int    `envconfig:"JUNIORGOLF_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
	RefreshTokenPepper     string `envconfig:"JUNIORGOLF_REFRESH_TOKEN_PEPPER"`
}

// AccessTokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// RefreshPepper is the key used to hash refresh tokens at rest. It falls back to the JWT secret.
func (j JWTConfig) RefreshPepper() string {
	if p := strings.TrimSpace(j.RefreshTokenPepper); p != "" {
		return p
	}
	return j.Secret
}

func (j JWTConfig) validate() error {
	if len(j.Secret) < minJWTSecretLen {
		return fmt.Errorf("%s must be at least %d characters", EnvJWTSecret, minJWTSecretLen)
	}
	if j.ExpirationMinutes <= 0 {
		return fmt.Errorf("%s must be positive", EnvJWTExpMins)
	}
	if j.RefreshTokenTTLMinutes <= 0 {
		return fmt.Errorf("%s must be positive", EnvRefreshTokenTTLMinutes)
	}
	return nil
}

const (
	MinBcryptCost = 12
	MaxBcryptCost = 15
)

type PasswordConfig struct {
	BcryptCost int `envconfig:"JUNIORGOLF_BCRYPT_COST" default:"12"`
}

func (p *PasswordConfig) normalize() {
	if p.BcryptCost < MinBcryptCost {
		p.BcryptCost = MinBcryptCost
	}
	if p.BcryptCost > MaxBcryptCost {
		p.BcryptCost = MaxBcryptCost
	}
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"JUNIORGOLF_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"JUNIORGOLF_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"JUNIORGOLF_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"JUNIORGOLF_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"JUNIORGOLF_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"JUNIORGOLF_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	// PIN attempts are counted per account across verify and change.
	PinWindow    time.Duration `envconfig:"JUNIORGOLF_AUTH_RATE_LIMIT_PIN_WINDOW" default:"15m"`
	PinUserLimit int           `envconfig:"JUNIORGOLF_AUTH_RATE_LIMIT_PIN_USER_LIMIT" default:"5"`
	PinIPLimit   int           `envconfig:"JUNIORGOLF_AUTH_RATE_LIMIT_PIN_IP_LIMIT" default:"20"`
}

// RateLimitConfig bounds requests per client IP across the whole API.
type RateLimitConfig struct {
	Requests int           `envconfig:"JUNIORGOLF_RATE_LIMIT_REQUESTS" default:"100"`
	Window   time.Duration `envconfig:"JUNIORGOLF_RATE_LIMIT_WINDOW" default:"1m"`
}

func (r RateLimitConfig) Enabled() bool {
	return r.Requests > 0 && r.Window > 0
}

type PermissionsConfig struct {
	CacheTTL time.Duration `envconfig:"JUNIORGOLF_PERMISSION_CACHE_TTL" default:"5m"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"JUNIORGOLF_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"JUNIORGOLF_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"JUNIORGOLF_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = "sqlite"
	}
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:juniorgolf.db?cache=shared"
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

// MaintenanceConfig drives the maintenance worker.
type MaintenanceConfig struct {
	Interval       time.Duration `envconfig:"JUNIORGOLF_MAINTENANCE_INTERVAL" default:"24h"`
	TokenRetention time.Duration `envconfig:"JUNIORGOLF_REFRESH_TOKEN_RETENTION" default:"168h"`
}
