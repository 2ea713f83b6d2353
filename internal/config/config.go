package config

import (
	"github.com/Skotchmaster/company/pkg/config"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL    string
	SSLKeyFormat   string
	DBMaxOpenConns int
	DBMaxIdleConns int

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() Config {
	return Config{
		ServiceName: config.EnvDefault("SERVICE_NAME", "company"),
		ServerPort:  config.EnvIntDefault("SERVER_PORT", 6543),
		LogLevel:    config.EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL:    config.EnvDefault("DATABASE_URL", ""),
		SSLKeyFormat:   config.EnvDefault("DB_SSLKEY_FORMAT", ""),
		DBMaxOpenConns: config.EnvIntDefault("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns: config.EnvIntDefault("DB_MAX_IDLE_CONNS", 10),

		KafkaBrokers: config.CSV(config.EnvDefault("KAFKA_BROKERS", "")),
		KafkaTopic:   config.EnvDefault("KAFKA_TOPIC", "company_events"),

		ESURL:      config.EnvDefault("ES_URL", ""),
		ESUser:     config.EnvDefault("ES_USER", ""),
		ESPassword: config.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    config.EnvDefault("ES_INDEX", "products"),
	}
}

// MustLoad is Load plus the start-up checks that abort the process.
func MustLoad() Config {
	cfg := Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	return cfg
}
