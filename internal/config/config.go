package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the uploader settings read from the environment
type Config struct {
	Environment       string
	LogLevel          string
	Database          DatabaseConfig
	CSVPath           string
	CSVSeparator      rune
	TableName         string
	ColumnMappingPath string
	SQLFilePath       string
	Workers           int
	Telegram          TelegramConfig
}

// DatabaseConfig describes the destination database
type DatabaseConfig struct {
	Driver     string
	DSN        string
	Host       string
	Port       int
	Name       string
	User       string
	Password   string
	SSLMode    string
	SQLitePath string
}

// TelegramConfig is optional, an empty token disables run notifications
type TelegramConfig struct {
	Token  string
	ChatID int64
}

// Load reads .env when present, then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return FromEnv(os.LookupEnv)
}

// FromEnv builds the config from an os.LookupEnv style function
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	getenv := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	mappingPath, ok := lookup("COLUMN_MAPPING_PATH")
	if !ok {
		mappingPath = "column_mapping.json"
	}

	cfg := &Config{
		Environment:       getenv("ENV"),
		LogLevel:          getenv("LOG_LEVEL"),
		CSVPath:           withDefault(getenv("CSV_PATH"), "./data/degustations.csv"),
		TableName:         withDefault(getenv("TABLE_NAME"), "degustations"),
		ColumnMappingPath: mappingPath,
		SQLFilePath:       withDefault(getenv("SQL_FILE_PATH"), "./sql/basic_queries.sql"),
		Database: DatabaseConfig{
			Driver:     withDefault(strings.ToLower(getenv("DB_DRIVER")), DriverPostgres),
			DSN:        getenv("DB_DSN"),
			Host:       firstNonEmpty(getenv("DB_HOST"), getenv("AZURE_SQL_SERVER")),
			Name:       firstNonEmpty(getenv("DB_NAME"), getenv("AZURE_SQL_DATABASE")),
			User:       firstNonEmpty(getenv("DB_USER"), getenv("AZURE_SQL_USERNAME")),
			Password:   firstNonEmpty(getenv("DB_PASSWORD"), getenv("AZURE_SQL_PASSWORD")),
			SSLMode:    withDefault(getenv("DB_SSLMODE"), "require"),
			SQLitePath: withDefault(getenv("SQLITE_PATH"), "degustations.sqlite"),
		},
		Telegram: TelegramConfig{
			Token: getenv("TELEGRAM_TOKEN"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	var err error
	if cfg.Database.Port, err = intWithDefault(getenv("DB_PORT"), 5432); err != nil {
		return nil, fmt.Errorf("DB_PORT: %w", err)
	}
	if cfg.Workers, err = intWithDefault(getenv("WORKERS"), runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("WORKERS: %w", err)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("WORKERS must be positive, got %d", cfg.Workers)
	}

	sep := withDefault(getenv("CSV_SEPARATOR"), ";")
	if utf8.RuneCountInString(sep) != 1 {
		return nil, fmt.Errorf("CSV_SEPARATOR must be a single character, got %q", sep)
	}
	cfg.CSVSeparator, _ = utf8.DecodeRuneInString(sep)

	if raw := getenv("TELEGRAM_CHAT_ID"); raw != "" {
		if cfg.Telegram.ChatID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
	}
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	if err := cfg.Database.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *DatabaseConfig) validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.DSN != "" {
			return nil
		}
		if c.Host == "" || c.Name == "" || c.User == "" {
			return fmt.Errorf("DB_DSN or DB_HOST, DB_NAME and DB_USER are required for the %s driver", c.Driver)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s driver", c.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
	return nil
}

// GetDSN returns DB_DSN or a postgres URL assembled from the parts
func (c *DatabaseConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()

	return u.String()
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func intWithDefault(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
