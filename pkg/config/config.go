package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Auth          AuthConfig
	AuthRateLimit AuthRateLimitConfig
	Pagination    PaginationConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.JWT.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Pagination.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"SWEETSHOP_APP_ENV" required:"true"`
	Port         string   `envconfig:"SWEETSHOP_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"SWEETSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"SWEETSHOP_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"SWEETSHOP_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "prod")
}

func (a AppConfig) IsTest() bool {
	return strings.EqualFold(a.Env, AppEnvTest)
}

type DBConfig struct {
	DSN    string `envconfig:"SWEETSHOP_DB_DSN"`
	Driver string `envconfig:"SWEETSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SWEETSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"SWEETSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SWEETSHOP_DB_USER"`
	LegacyPassword string `envconfig:"SWEETSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"SWEETSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"SWEETSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SWEETSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SWEETSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SWEETSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SWEETSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite engine.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

// Redis is optional. When neither URL nor address is set the API runs without
// refresh-session tracking and auth rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"SWEETSHOP_REDIS_URL"`
	Address      string        `envconfig:"SWEETSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"SWEETSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SWEETSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SWEETSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SWEETSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SWEETSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SWEETSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SWEETSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	AccessSecret  string        `envconfig:"SWEETSHOP_JWT_ACCESS_SECRET" required:"true"`
	RefreshSecret string        `envconfig:"SWEETSHOP_JWT_REFRESH_SECRET" required:"true"`
	Issuer        string        `envconfig:"SWEETSHOP_JWT_ISSUER" default:"sweetshop"`
	AccessTTL     time.Duration `envconfig:"SWEETSHOP_JWT_ACCESS_TTL" default:"15m"`
	RefreshTTL    time.Duration `envconfig:"SWEETSHOP_JWT_REFRESH_TTL" default:"168h"`
	RotateRefresh bool          `envconfig:"SWEETSHOP_JWT_ROTATE_REFRESH" default:"false"`
}

func (j JWTConfig) validate() error {
	if j.AccessTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvJWTAccessTTL)
	}
	if j.RefreshTTL <= j.AccessTTL {
		return fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", j.RefreshTTL, j.AccessTTL)
	}
	if j.AccessSecret == j.RefreshSecret {
		return fmt.Errorf("%s and %s must differ", EnvJWTAccessSecret, EnvJWTRefreshSecret)
	}
	return nil
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"SWEETSHOP_BCRYPT_COST" default:"10"`

	ArgonMemoryKB    int `envconfig:"SWEETSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SWEETSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SWEETSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SWEETSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SWEETSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthConfig struct {
	AllowAdminSignup bool `envconfig:"SWEETSHOP_AUTH_ALLOW_ADMIN_SIGNUP" default:"false"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SWEETSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SWEETSHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SWEETSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SWEETSHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SWEETSHOP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SWEETSHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type PaginationConfig struct {
	DefaultLimit int `envconfig:"SWEETSHOP_DEFAULT_PAGE_LIMIT" default:"20"`
	MaxLimit     int `envconfig:"SWEETSHOP_MAX_PAGE_LIMIT" default:"100"`
}

func (p PaginationConfig) validate() error {
	if p.MaxLimit <= 0 {
		return fmt.Errorf("%s must be positive", EnvMaxPageLimit)
	}
	if p.DefaultLimit <= 0 || p.DefaultLimit > p.MaxLimit {
		return fmt.Errorf("%s must be between 1 and %d", EnvDefaultPageLimit, p.MaxLimit)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate   bool `envconfig:"SWEETSHOP_AUTO_MIGRATE" default:"false"`
	ExposeMetrics bool `envconfig:"SWEETSHOP_EXPOSE_METRICS" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
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
