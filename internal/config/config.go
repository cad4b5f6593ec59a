package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the species survey service.
// It includes the environment, monitoring server port, observations
// provider settings, worker pool size, polling interval, and database
// configuration.
//
// Fields:
// - Env: The current environment (e.g., local, dev, prod).
// - Port: The port for the survey monitoring server.
// - ProviderType: The observations provider to use (inaturalist).
// - APIToken: Optional API token for the observations platform.
// - Workers: The number of concurrent workers surveying sites.
// - Interval: The duration between survey polling intervals.
// - QualityGrade: Observation verification level required for every query.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env          string         `yaml:"env"`                  // Env is the current environment: local, dev, prod.
	Port         int            `yaml:"survey.port"`          // Port is the survey monitoring server port.
	ProviderType string         `yaml:"provider.type"`        // ProviderType specifies which observations provider to use
	APIToken     string         `yaml:"survey.api_token"`     // Optional token for the observations platform.
	Workers      int            `yaml:"survey.workers"`       // The number of concurrent workers surveying sites.
	Interval     time.Duration  `yaml:"survey.interval"`      // The duration between survey polling intervals.
	QualityGrade string         `yaml:"survey.quality_grade"` // Observation quality grade applied to every query.
	Database     PostgresConfig `yaml:"postgres"`             // Database holds the postgres database configuration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"     env-default:"5432"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Name     string `yaml:"db_name"`                     // Name is the name of the database.
}

// MustLoad loads the configuration from the environment and returns a Config struct.
func MustLoad() *Config {
	_ = godotenv.Load()

	interval, err := time.ParseDuration(setDefaultEnv("NATURAE_INTERVAL", "30m"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	healthPort, err := strconv.Atoi(setDefaultEnv("NATURAE_HEALTH_PORT", "8080"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	workers, err := strconv.Atoi(setDefaultEnv("NATURAE_WORKERS", "4"))
	if err != nil {
		panic("failed to parse workers from configuration, must be an integer types")
	}

	return &Config{
		Env:          setDefaultEnv("NATURAE_ENV", "production"),
		Port:         healthPort,
		ProviderType: setDefaultEnv("NATURAE_PROVIDER_TYPE", "inaturalist"),
		APIToken:     os.Getenv("NATURAE_PROVIDER_TOKEN"),
		Workers:      workers,
		Interval:     interval,
		QualityGrade: setDefaultEnv("NATURAE_QUALITY_GRADE", "research"),
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
