package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

//Config holds the settings read once at startup
type Config struct {
	ServicePort string
	LogLevel    string
	CORSOrigins []string

	DBHost            string
	DBPort            string
	DBUser            string
	DBName            string
	DBPassword        string
	DBSSLMode         string
	DBConnectAttempts int
	DBConnectDelay    time.Duration
	DBAutoMigrate     bool

	EventsEnabled bool
}

//Load reads an optional .env file and then the environment
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ServicePort: getEnv("SERVICE_PORT", "8880"),
		LogLevel:    getEnv("GEOLOG_LOG_LEVEL", "info"),
		CORSOrigins: strings.Split(getEnv("GEOLOG_CORS_ORIGINS", "*"), ","),

		DBHost:     os.Getenv("GEOLOG_DB_HOST"),
		DBPort:     getEnv("GEOLOG_DB_PORT", "5432"),
		DBUser:     os.Getenv("GEOLOG_DB_USER"),
		DBName:     getEnv("GEOLOG_DB_NAME", "geolog"),
		DBPassword: os.Getenv("GEOLOG_DB_PASSWORD"),
		DBSSLMode:  getEnv("GEOLOG_DB_SSLMODE", "require"),
	}

	var err error

	if cfg.DBConnectAttempts, err = getInt("GEOLOG_DB_CONNECT_ATTEMPTS", 10); err != nil {
		return Config{}, err
	}
	if cfg.DBConnectDelay, err = getDuration("GEOLOG_DB_CONNECT_DELAY", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DBAutoMigrate, err = getBool("GEOLOG_DB_AUTOMIGRATE", false); err != nil {
		return Config{}, err
	}
	if cfg.EventsEnabled, err = getBool("GEOLOG_EVENTS_ENABLED", false); err != nil {
		return Config{}, err
	}

	if cfg.DBHost == "" || cfg.DBUser == "" {
		return Config{}, errors.New("database configuration is incomplete: GEOLOG_DB_HOST and GEOLOG_DB_USER are required")
	}

	return cfg, nil
}

//DSN renders the postgres connection string as a URL so that credentials are escaped
func (c Config) DSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	return dsn.String()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	return i, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, "invalid %s", key)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	return d, nil
}
