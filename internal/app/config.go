package app

import (
	"strings"

	"github.com/nomadicTree/frayerstore/internal/data/db"
	"github.com/nomadicTree/frayerstore/internal/observability"
	"github.com/nomadicTree/frayerstore/internal/platform/envutil"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
	"github.com/nomadicTree/frayerstore/internal/realtime/bus"
)

const serviceName = "frayerstore"

type Config struct {
	DB   db.Config
	OTel observability.OtelConfig

	HTTPAddr       string
	CORSOrigins    []string
	MetricsEnabled bool

	RedisAddr    string
	RedisChannel string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverSQLite, log),
			SQLitePath:       envutil.String("SQLITE_PATH", "frayerstore.db", log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "frayer", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "frayerstore", log),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
		},
		OTel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", serviceName, log),
			Environment: envutil.String("ENVIRONMENT", "development", log),
			Version:     envutil.String("SERVICE_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1.0, log),
		},
		HTTPAddr:       envutil.String("HTTP_ADDR", ":8080", log),
		CORSOrigins:    splitList(envutil.String("CORS_ORIGINS", "", log)),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true),
		RedisAddr:      envutil.String("REDIS_ADDR", "", log),
		RedisChannel:   envutil.String("REDIS_CHANNEL", bus.DefaultChannel, log),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
