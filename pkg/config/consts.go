package config

const (
	EnvPrefix = "GROUPSTAY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "GROUPSTAY_APP_ENV"
	EnvPort     = "GROUPSTAY_APP_PORT"
	EnvDBDSN    = "GROUPSTAY_DB_DSN"
	EnvDBHost   = "GROUPSTAY_DB_HOST"
	EnvDBUser   = "GROUPSTAY_DB_USER"
	EnvDBName   = "GROUPSTAY_DB_NAME"
	EnvRedisURL = "GROUPSTAY_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
