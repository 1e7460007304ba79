package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/security"
)

type AppConfig struct {
	App        AppSettings        `mapstructure:"app"`
	Postgres   PostgresSettings   `mapstructure:"postgres"`
	Redis      RedisSettings      `mapstructure:"redis"`
	Kafka      KafkaSettings      `mapstructure:"kafka"`
	JWT        JWTSettings        `mapstructure:"jwt"`
	RateLimit  RateLimitSettings  `mapstructure:"rate_limit"`
	Revocation RevocationSettings `mapstructure:"revocation"`
	Sheets     SheetsSettings     `mapstructure:"sheets"`
}

type AppSettings struct {
	Name         string `mapstructure:"name"`
	Env          string `mapstructure:"env"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ClientOrigin string `mapstructure:"client_origin"`
}

// IsProduction reports whether the service runs with production hardening
// (release mode, Secure cookies).
func (s AppSettings) IsProduction() bool {
	return s.Env == "production"
}

type PostgresSettings struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// RedisSettings configures the revocation and rate-limit backend.
type RedisSettings struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	DB               int    `mapstructure:"db"`
	Password         string `mapstructure:"password"`
	TLSEnabled       bool   `mapstructure:"tls_enabled"`
	RevocationPrefix string `mapstructure:"revocation_prefix"`
	RateLimitPrefix  string `mapstructure:"rate_limit_prefix"`
}

// KafkaSettings configures the audit event publisher. Empty brokers select the
// logging stub publisher.
type KafkaSettings struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type JWTSettings struct {
	Secret             string        `mapstructure:"secret"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	ExtendedSessionTTL time.Duration `mapstructure:"extended_session_ttl"`
}

// RateLimitSettings configures the login attempt throttle.
type RateLimitSettings struct {
	WindowDuration   time.Duration `mapstructure:"window_duration"`
	LoginMaxAttempts int           `mapstructure:"login_max_attempts"`
}

// RevocationSettings selects fail-open versus fail-closed behaviour when the
// revocation store is unreachable during validation.
type RevocationSettings struct {
	DegradationPolicy string `mapstructure:"degradation_policy"`
}

// SheetsSettings points at the spreadsheet backing the inventory endpoint.
type SheetsSettings struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	ReadRange       string `mapstructure:"read_range"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("SHELVING")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"app.client_origin",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"redis.revocation_prefix",
		"redis.rate_limit_prefix",
		"kafka.brokers",
		"kafka.topic",
		"jwt.secret",
		"jwt.session_ttl",
		"jwt.extended_session_ttl",
		"rate_limit.window_duration",
		"rate_limit.login_max_attempts",
		"revocation.degradation_policy",
		"sheets.credentials_file",
		"sheets.spreadsheet_id",
		"sheets.read_range",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate enforces startup invariants. A missing signing secret must stop the
// process here rather than surface per request.
func validate(cfg *AppConfig) error {
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return fmt.Errorf("config: jwt.secret: %w", security.ErrSigningSecretMissing)
	}
	if cfg.JWT.SessionTTL <= 0 {
		return fmt.Errorf("config: jwt.session_ttl must be positive")
	}
	if cfg.JWT.ExtendedSessionTTL <= 0 {
		return fmt.Errorf("config: jwt.extended_session_ttl must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "smart-shelving")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.client_origin", "http://localhost:3000")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "shelving")
	v.SetDefault("postgres.database", "shelving")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.revocation_prefix", "shelving:revoked")
	v.SetDefault("redis.rate_limit_prefix", "shelving:rate-limit")

	v.SetDefault("kafka.topic", "shelving.audit")

	// Standard sessions last an hour; remember-me extends to seven days.
	v.SetDefault("jwt.session_ttl", time.Hour)
	v.SetDefault("jwt.extended_session_ttl", 7*24*time.Hour)

	v.SetDefault("rate_limit.window_duration", 15*time.Minute)
	v.SetDefault("rate_limit.login_max_attempts", 5)

	v.SetDefault("revocation.degradation_policy", "strict")

	v.SetDefault("sheets.read_range", "Sheet1!A1:C30")
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}
