package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Wordlist WordlistConfig `mapstructure:"wordlist"`
	Database DatabaseConfig `mapstructure:"database"`
	Backup   BackupConfig   `mapstructure:"backup"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WordlistConfig points at the .gtl file commands operate on.
type WordlistConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig configures the SQL word list library.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	LogSQL bool   `mapstructure:"log_sql"`
}

// BackupConfig holds export defaults.
type BackupConfig struct {
	Export ExportConfig `mapstructure:"export"`
}

type ExportConfig struct {
	Gzip   bool   `mapstructure:"gzip"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file, a .env file in the working
// directory or ./config, and environment variables such as
// LOG_LEVEL or DATABASE_DSN.
func Load(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	viper.SetDefault("wordlist.path", "wordlist.gtl")

	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.dsn", "file:glostrainer.db?_fk=1")
	viper.SetDefault("database.log_sql", false)

	viper.SetDefault("backup.export.gzip", false)
	viper.SetDefault("backup.export.format", "ndjson")
}

// DatabaseDriver returns the normalised driver name.
func (c *Config) DatabaseDriver() (string, error) {
	driver := strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch driver {
	case "sqlite3", "postgres", "pgx":
		return driver, nil
	case "sqlite":
		return "sqlite3", nil
	case "postgresql":
		return "postgres", nil
	case "":
		return "", errors.New("database driver is not configured")
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
}

// DatabaseURL returns the configured DSN.
func (c *Config) DatabaseURL() (string, error) {
	dsn := strings.TrimSpace(c.Database.DSN)
	if dsn == "" {
		return "", errors.New("database dsn is not configured")
	}
	return dsn, nil
}
