package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yungbote/lifelessons-backend/internal/clients/redis"
	"github.com/yungbote/lifelessons-backend/internal/data/db"
	"github.com/yungbote/lifelessons-backend/internal/observability"
	"github.com/yungbote/lifelessons-backend/internal/platform/firebase"
	"github.com/yungbote/lifelessons-backend/internal/services"
)

const (
	AuthProviderFirebase = "firebase"
	AuthProviderHMAC     = "hmac"
)

type Config struct {
	Port    string `mapstructure:"PORT"`
	LogMode string `mapstructure:"LOG_MODE"`
	LogFile string `mapstructure:"LOG_FILE"`

	DBDriver         string `mapstructure:"DB_DRIVER"`
	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresName     string `mapstructure:"POSTGRES_NAME"`
	PostgresSSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	SQLitePath       string `mapstructure:"SQLITE_PATH"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	AuthProvider            string `mapstructure:"AUTH_PROVIDER"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseServiceKey      string `mapstructure:"FB_SERVICE_KEY"`
	AuthHMACSecret          string `mapstructure:"AUTH_HMAC_SECRET"`
	AuthHMACIssuer          string `mapstructure:"AUTH_HMAC_ISSUER"`
	AuthCacheTTLSeconds     int    `mapstructure:"AUTH_CACHE_TTL_SECONDS"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeSecretKeyAlt  string `mapstructure:"STRIPE_SECRECT_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	ClientDomain        string `mapstructure:"CLIENT_DOMAIN"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	MetricsEnabled       bool    `mapstructure:"METRICS_ENABLED"`
	MetricsAddr          string  `mapstructure:"METRICS_ADDR"`
	MetricsScrapeSeconds int     `mapstructure:"METRICS_SCRAPE_SECONDS"`
	MetricsLatencySLOMs  int     `mapstructure:"METRICS_LATENCY_SLO_MS"`
	OtelEnabled          bool    `mapstructure:"OTEL_ENABLED"`
	OtelServiceName      string  `mapstructure:"OTEL_SERVICE_NAME"`
	OtelEnvironment      string  `mapstructure:"OTEL_ENVIRONMENT"`
	OtelServiceVersion   string  `mapstructure:"OTEL_SERVICE_VERSION"`
	OtelEndpoint         string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders          string  `mapstructure:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure         bool    `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	OtelSampleRatio      float64 `mapstructure:"OTEL_SAMPLE_RATIO"`
	ShutdownGraceSeconds int     `mapstructure:"SHUTDOWN_GRACE_SECONDS"`
}

var defaults = map[string]interface{}{
	"PORT":                        "5000",
	"LOG_MODE":                    "development",
	"LOG_FILE":                    "",
	"DB_DRIVER":                   db.DriverPostgres,
	"POSTGRES_HOST":               "localhost",
	"POSTGRES_PORT":               "5432",
	"POSTGRES_USER":               "postgres",
	"POSTGRES_PASSWORD":           "",
	"POSTGRES_NAME":               "lifelessons",
	"POSTGRES_SSLMODE":            "disable",
	"SQLITE_PATH":                 "lifelessons.db",
	"REDIS_ADDR":                  "",
	"REDIS_PASSWORD":              "",
	"REDIS_DB":                    0,
	"AUTH_PROVIDER":               AuthProviderFirebase,
	"FIREBASE_PROJECT_ID":         "",
	"FIREBASE_CREDENTIALS_FILE":   "",
	"FB_SERVICE_KEY":              "",
	"AUTH_HMAC_SECRET":            "",
	"AUTH_HMAC_ISSUER":            "",
	"AUTH_CACHE_TTL_SECONDS":      300,
	"STRIPE_SECRET_KEY":           "",
	"STRIPE_SECRECT_KEY":          "",
	"STRIPE_WEBHOOK_SECRET":       "",
	"CLIENT_DOMAIN":               "http://localhost:5173",
	"CORS_ORIGINS":                "",
	"METRICS_ENABLED":             false,
	"METRICS_ADDR":                "",
	"METRICS_SCRAPE_SECONDS":      10,
	"METRICS_LATENCY_SLO_MS":      500,
	"OTEL_ENABLED":                false,
	"OTEL_SERVICE_NAME":           "lifelessons-backend",
	"OTEL_ENVIRONMENT":            "",
	"OTEL_SERVICE_VERSION":        "",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"OTEL_EXPORTER_OTLP_HEADERS":  "",
	"OTEL_EXPORTER_OTLP_INSECURE": false,
	"OTEL_SAMPLE_RATIO":           0.1,
	"SHUTDOWN_GRACE_SECONDS":      10,
}

// LoadConfig reads the environment, overlaid on an optional app.env in path.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.DBDriver)) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch strings.ToLower(strings.TrimSpace(c.AuthProvider)) {
	case AuthProviderFirebase:
	case AuthProviderHMAC:
		if strings.TrimSpace(c.AuthHMACSecret) == "" {
			return errors.New("AUTH_HMAC_SECRET is required when AUTH_PROVIDER=hmac")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.AuthProvider)
	}
	return nil
}

func (c Config) Addr() string {
	port := strings.TrimSpace(c.Port)
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func (c Config) Database() db.Config {
	return db.Config{
		Driver:     strings.ToLower(strings.TrimSpace(c.DBDriver)),
		Host:       c.PostgresHost,
		Port:       c.PostgresPort,
		User:       c.PostgresUser,
		Password:   c.PostgresPassword,
		Name:       c.PostgresName,
		SSLMode:    c.PostgresSSLMode,
		SQLitePath: c.SQLitePath,
	}
}

func (c Config) Redis() redis.Config {
	return redis.Config{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB}
}

func (c Config) Firebase() firebase.Config {
	return firebase.Config{
		ProjectID:       c.FirebaseProjectID,
		CredentialsFile: c.FirebaseCredentialsFile,
		ServiceKeyB64:   c.FirebaseServiceKey,
	}
}

func (c Config) AuthCacheTTL() time.Duration {
	return time.Duration(c.AuthCacheTTLSeconds) * time.Second
}

// StripeKey falls back to the misspelled STRIPE_SECRECT_KEY older deployments set.
func (c Config) StripeKey() string {
	if key := strings.TrimSpace(c.StripeSecretKey); key != "" {
		return key
	}
	return strings.TrimSpace(c.StripeSecretKeyAlt)
}

func (c Config) Payment() services.PaymentConfig {
	return services.PaymentConfig{ClientDomain: c.ClientDomain, WebhookSecret: c.StripeWebhookSecret}
}

func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) Metrics() observability.MetricsConfig {
	return observability.MetricsConfig{
		Enabled:        c.MetricsEnabled,
		ScrapeInterval: time.Duration(c.MetricsScrapeSeconds) * time.Second,
		LatencySLO:     time.Duration(c.MetricsLatencySLOMs) * time.Millisecond,
	}
}

func (c Config) Otel() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.OtelEnabled,
		ServiceName: c.OtelServiceName,
		Environment: c.OtelEnvironment,
		Version:     c.OtelServiceVersion,
		Endpoint:    c.OtelEndpoint,
		Headers:     c.OtelHeaders,
		Insecure:    c.OtelInsecure,
		SampleRatio: c.OtelSampleRatio,
	}
}

func (c Config) ShutdownGrace() time.Duration {
	if c.ShutdownGraceSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ShutdownGraceSeconds) * time.Second
}
