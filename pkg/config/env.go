package config

const EnvPrefix = "SWEETSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
	AppEnvTest = "test"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "SWEETSHOP_APP_ENV"
	EnvPort     = "SWEETSHOP_APP_PORT"
	EnvLogLevel = "SWEETSHOP_LOG_LEVEL"

	EnvDBDSN    = "SWEETSHOP_DB_DSN"
	EnvDBDriver = "SWEETSHOP_DB_DRIVER"
	EnvDBHost   = "SWEETSHOP_DB_HOST"
	EnvDBUser   = "SWEETSHOP_DB_USER"
	EnvDBName   = "SWEETSHOP_DB_NAME"

	EnvRedisURL = "SWEETSHOP_REDIS_URL"

	EnvJWTAccessSecret  = "SWEETSHOP_JWT_ACCESS_SECRET"
	EnvJWTRefreshSecret = "SWEETSHOP_JWT_REFRESH_SECRET"
	EnvJWTAccessTTL     = "SWEETSHOP_JWT_ACCESS_TTL"
	EnvJWTRefreshTTL    = "SWEETSHOP_JWT_REFRESH_TTL"
	EnvJWTRotate        = "SWEETSHOP_JWT_ROTATE_REFRESH"

	EnvAllowAdminSignup = "SWEETSHOP_AUTH_ALLOW_ADMIN_SIGNUP"
	EnvDefaultPageLimit = "SWEETSHOP_DEFAULT_PAGE_LIMIT"
	EnvMaxPageLimit     = "SWEETSHOP_MAX_PAGE_LIMIT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
