package config

const EnvPrefix = "JUNIORGOLF"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv         = "JUNIORGOLF_APP_ENV"
	EnvPort           = "JUNIORGOLF_APP_PORT"
	EnvLogLevel       = "JUNIORGOLF_LOG_LEVEL"
	EnvLogWarnStack   = "JUNIORGOLF_LOG_WARN_STACK"
	EnvTimezone       = "JUNIORGOLF_APP_TIMEZONE"
	EnvCORSOrigins    = "JUNIORGOLF_CORS_ORIGINS"
	EnvTrustedProxies = "JUNIORGOLF_TRUSTED_PROXIES"

	EnvDBDSN      = "JUNIORGOLF_DB_DSN"
	EnvDBDriver   = "JUNIORGOLF_DB_DRIVER"
	EnvDBHost     = "JUNIORGOLF_DB_HOST"
	EnvDBPort     = "JUNIORGOLF_DB_PORT"
	EnvDBUser     = "JUNIORGOLF_DB_USER"
	EnvDBPassword = "JUNIORGOLF_DB_PASSWORD"
	EnvDBName     = "JUNIORGOLF_DB_NAME"
	EnvDBSSLMode  = "JUNIORGOLF_DB_SSLMODE"

	EnvRedisURL  = "JUNIORGOLF_REDIS_URL"
	EnvRedisAddr = "JUNIORGOLF_REDIS_ADDR"

	EnvJWTSecret              = "JUNIORGOLF_JWT_SECRET"
	EnvJWTIssuer              = "JUNIORGOLF_JWT_ISSUER"
	EnvJWTExpMins             = "JUNIORGOLF_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "JUNIORGOLF_REFRESH_TOKEN_TTL_MINUTES"
	EnvRefreshTokenPepper     = "JUNIORGOLF_REFRESH_TOKEN_PEPPER"
	EnvBcryptCost             = "JUNIORGOLF_BCRYPT_COST"
	EnvRateLimitRequests      = "JUNIORGOLF_RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow        = "JUNIORGOLF_RATE_LIMIT_WINDOW"
	EnvPermissionCacheTTL     = "JUNIORGOLF_PERMISSION_CACHE_TTL"
	EnvUseSQLite              = "JUNIORGOLF_USE_SQLITE"
	EnvAutoMigrate            = "JUNIORGOLF_AUTO_MIGRATE"
	EnvIdempotencyTTL         = "JUNIORGOLF_IDEMPOTENCY_TTL"
	EnvMetricsEnabled         = "JUNIORGOLF_METRICS_ENABLED"
	EnvShutdownTimeout        = "JUNIORGOLF_SHUTDOWN_TIMEOUT"
	EnvMaintenanceInterval    = "JUNIORGOLF_MAINTENANCE_INTERVAL"
	EnvRefreshTokenRetention  = "JUNIORGOLF_REFRESH_TOKEN_RETENTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
