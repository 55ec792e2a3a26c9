package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names.
const EnvPrefix = "VITALSHOP"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv    = "VITALSHOP_APP_ENV"
	EnvPort      = "VITALSHOP_APP_PORT"
	EnvDBDSN     = "VITALSHOP_DB_DSN"
	EnvDBHost    = "VITALSHOP_DB_HOST"
	EnvDBUser    = "VITALSHOP_DB_USER"
	EnvDBName    = "VITALSHOP_DB_NAME"
	EnvRedisURL  = "VITALSHOP_REDIS_URL"
	EnvJWTSecret = "VITALSHOP_JWT_SECRET"
	EnvJWTIssuer = "VITALSHOP_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
