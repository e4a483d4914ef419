package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "COMANDA"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv    = "COMANDA_APP_ENV"
	EnvAppPort   = "COMANDA_APP_PORT"
	EnvDBPath    = "COMANDA_DB_PATH"
	EnvJWTSecret = "COMANDA_JWT_SECRET"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	Password PasswordConfig
	Invoice  InvoiceConfig
	Flags    FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"COMANDA_APP_ENV" required:"true"`
	Port         string `envconfig:"COMANDA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"COMANDA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"COMANDA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig describes the embedded sqlite datasource. BusyTimeout guards
// against SQLITE_BUSY when the API and a migration touch the file at once.
type DBConfig struct {
	Path            string        `envconfig:"COMANDA_DB_PATH" default:"comanda.db"`
	BusyTimeout     time.Duration `envconfig:"COMANDA_DB_BUSY_TIMEOUT" default:"5s"`
	MaxOpenConns    int           `envconfig:"COMANDA_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"COMANDA_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"COMANDA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"COMANDA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// DSN renders the sqlite connection string with the busy timeout applied.
func (db DBConfig) DSN() string {
	if db.Path == "" {
		return ""
	}
	timeoutMS := int64(db.BusyTimeout / time.Millisecond)
	if timeoutMS <= 0 {
		return db.Path
	}
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", db.Path, timeoutMS)
}

type JWTConfig struct {
	Secret            string `envconfig:"COMANDA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"COMANDA_JWT_ISSUER" default:"comanda"`
	ExpirationMinutes int    `envconfig:"COMANDA_JWT_EXPIRATION_MINUTES" default:"480"`
}

// AccessTokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"COMANDA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"COMANDA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"COMANDA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"COMANDA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"COMANDA_ARGON_KEY_LEN" default:"32"`
}

type InvoiceConfig struct {
	NumberPrefix string `envconfig:"COMANDA_INVOICE_NUMBER_PREFIX" default:"INV"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"COMANDA_AUTO_MIGRATE" default:"false"`
}
