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
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Upload        UploadConfig
	Checkout      CheckoutConfig
	Iyzico        IyzicoConfig
	Paytr         PaytrConfig
	SeedAdmin     SeedAdminConfig
	Jobs          JobsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VITALSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"VITALSHOP_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"VITALSHOP_APP_BASE_URL" default:"http://localhost:8080"`
	FrontendURL  string `envconfig:"VITALSHOP_APP_FRONTEND_URL" default:"http://localhost:3000"`
	LogLevel     string `envconfig:"VITALSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VITALSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VITALSHOP_DB_DSN"`
	Driver string `envconfig:"VITALSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VITALSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"VITALSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VITALSHOP_DB_USER"`
	LegacyPassword string `envconfig:"VITALSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"VITALSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"VITALSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VITALSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VITALSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VITALSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VITALSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VITALSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VITALSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"VITALSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"VITALSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VITALSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VITALSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VITALSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VITALSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VITALSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VITALSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VITALSHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VITALSHOP_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VITALSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VITALSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VITALSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VITALSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VITALSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"VITALSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"VITALSHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"VITALSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VITALSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VITALSHOP_AUTO_MIGRATE" default:"false"`
}

type UploadConfig struct {
	Dir         string `envconfig:"VITALSHOP_UPLOAD_DIR" default:"uploads"`
	MaxUploadMB int    `envconfig:"VITALSHOP_MAX_UPLOAD_MB" default:"5"`
}

type CheckoutConfig struct {
	InFlightTTL time.Duration `envconfig:"VITALSHOP_CHECKOUT_INFLIGHT_TTL" default:"30s"`
	IntentTTL   time.Duration `envconfig:"VITALSHOP_CHECKOUT_INTENT_TTL" default:"1h"`
}

// IyzicoConfig carries the inline-card gateway endpoints. Merchant
// credentials live in payment settings, not the environment.
type IyzicoConfig struct {
	SandboxURL string `envconfig:"VITALSHOP_IYZICO_SANDBOX_URL" default:"https://sandbox-api.iyzipay.com"`
	LiveURL    string `envconfig:"VITALSHOP_IYZICO_LIVE_URL" default:"https://api.iyzipay.com"`
}

// JobsConfig drives the background maintenance loop.
type JobsConfig struct {
	Enabled       bool          `envconfig:"VITALSHOP_JOBS_ENABLED" default:"true"`
	Interval      time.Duration `envconfig:"VITALSHOP_JOBS_INTERVAL" default:"10m"`
	LockTTL       time.Duration `envconfig:"VITALSHOP_JOBS_LOCK_TTL" default:"9m"`
	CartRetention time.Duration `envconfig:"VITALSHOP_JOBS_CART_RETENTION" default:"720h"`
}

// SeedAdminConfig bootstraps the first owner account on an empty
// install. Both fields must be set for seeding to run.
type SeedAdminConfig struct {
	Email    string `envconfig:"VITALSHOP_SEED_ADMIN_EMAIL"`
	Password string `envconfig:"VITALSHOP_SEED_ADMIN_PASSWORD"`
}

// PaytrConfig carries the hosted-iframe gateway endpoints.
type PaytrConfig struct {
	SandboxURL string `envconfig:"VITALSHOP_PAYTR_SANDBOX_URL" default:"https://www.paytr.com/odeme/api/get-token"`
	LiveURL    string `envconfig:"VITALSHOP_PAYTR_LIVE_URL" default:"https://www.paytr.com/odeme/api/get-token"`
	IframeBase string `envconfig:"VITALSHOP_PAYTR_IFRAME_BASE" default:"https://www.paytr.com/odeme/guvenli"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
