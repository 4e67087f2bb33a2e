package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Auction      AuctionConfig
	Cron         CronConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"GROUPSTAY_APP_ENV" required:"true"`
	Port         string `envconfig:"GROUPSTAY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GROUPSTAY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GROUPSTAY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GROUPSTAY_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"GROUPSTAY_DB_DSN"`
	Driver string `envconfig:"GROUPSTAY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GROUPSTAY_DB_HOST"`
	LegacyPort     int    `envconfig:"GROUPSTAY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GROUPSTAY_DB_USER"`
	LegacyPassword string `envconfig:"GROUPSTAY_DB_PASSWORD"`
	LegacyName     string `envconfig:"GROUPSTAY_DB_NAME"`
	LegacySSLMode  string `envconfig:"GROUPSTAY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GROUPSTAY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GROUPSTAY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GROUPSTAY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GROUPSTAY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GROUPSTAY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GROUPSTAY_REDIS_ADDR"`
	Password     string        `envconfig:"GROUPSTAY_REDIS_PASSWORD"`
	DB           int           `envconfig:"GROUPSTAY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GROUPSTAY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GROUPSTAY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GROUPSTAY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GROUPSTAY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GROUPSTAY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GROUPSTAY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GROUPSTAY_AUTO_MIGRATE" default:"false"`
}

// AuctionConfig tunes claim-window behavior.
type AuctionConfig struct {
	MinDeadlineLead      time.Duration `envconfig:"GROUPSTAY_AUCTION_MIN_DEADLINE_LEAD" default:"1h"`
	SubmitIdempotencyTTL time.Duration `envconfig:"GROUPSTAY_AUCTION_SUBMIT_IDEMPOTENCY_TTL" default:"168h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"GROUPSTAY_CRON_INTERVAL" default:"1m"`
	LockTTL  time.Duration `envconfig:"GROUPSTAY_CRON_LOCK_TTL" default:"5m"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"GROUPSTAY_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"GROUPSTAY_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GROUPSTAY_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	NotificationTopic string `envconfig:"GROUPSTAY_PUBSUB_NOTIFICATION_TOPIC" default:"gs-notification-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"GROUPSTAY_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"GROUPSTAY_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"GROUPSTAY_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
