// Package config builds the service configuration from the process
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
)

// ProtectedKeys are never overridden by values from the .env file when the
// process environment already sets them.
var ProtectedKeys = []string{"PASSWORD2"}

type Config struct {
	Addr           string
	AllowedOrigins string

	Admin AdminConfig
	DB    DBConfig

	LogLevel  string
	LogFormat string

	MetricsEnabled bool
	OTLPEndpoint   string
	ServiceName    string

	Watch bool
}

type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
	JWTSecret    string
}

type DBConfig struct {
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN returns URL when set, otherwise a postgres:// URL built from the parts.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// Load reads envFile (missing is fine) on top of the process environment and
// returns a validated Config.
func Load(envFile string) (*Config, error) {
	fileVals := map[string]string{}
	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVals = vals
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	cfg := FromLookup(mergedLookup(fileVals, os.LookupEnv))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergedLookup lets file values win over the process environment, except
// for ProtectedKeys already present in the process.
func mergedLookup(file map[string]string, env func(string) (string, bool)) func(string) string {
	return func(k string) string {
		for _, p := range ProtectedKeys {
			if k == p {
				if v, ok := env(k); ok && v != "" {
					return v
				}
			}
		}
		if v, ok := file[k]; ok {
			return v
		}
		v, _ := env(k)
		return v
	}
}

// FromLookup applies defaults to the values returned by get.
func FromLookup(get func(string) string) *Config {
	getEnv := func(k, def string) string {
		if v := strings.TrimSpace(get(k)); v != "" {
			return v
		}
		return def
	}
	getInt := func(k string, def int) int {
		if i, err := strconv.Atoi(get(k)); err == nil {
			return i
		}
		return def
	}
	getBool := func(k string, def bool) bool {
		if b, err := strconv.ParseBool(get(k)); err == nil {
			return b
		}
		return def
	}

	dbPassword := get("PASSWORD2")
	if dbPassword == "" {
		dbPassword = get("DB_PASSWORD")
	}

	return &Config{
		Addr:           getEnv("ADDR", ":3001"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			Password:     get("ADMIN_PASSWORD"),
			PasswordHash: get("ADMIN_PASSWORD_HASH"),
			JWTSecret:    get("JWT_SECRET"),
		},
		DB: DBConfig{
			URL:          get("DATABASE_URL"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     dbPassword,
			Name:         getEnv("DB_NAME", "youdu"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 5),
		},
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "json")),
		MetricsEnabled: getBool("METRICS_ENABLED", true),
		OTLPEndpoint:   get("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "chat-admin"),
		Watch:          getBool("CONFIG_WATCH", false),
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Admin.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required"))
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q: want json or text", c.LogFormat))
	}
	if c.DB.MaxOpenConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must be positive"))
	}
	if c.DB.MaxIdleConns < 0 {
		errs = append(errs, errors.New("DB_MAX_IDLE_CONNS must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Store holds the active Config and swaps it on reload.
type Store struct {
	cur atomic.Pointer[Config]
}

func NewStore(cfg *Config) *Store {
	s := &Store{}
	s.cur.Store(cfg)
	return s
}

func (s *Store) Current() *Config { return s.cur.Load() }

func (s *Store) Set(cfg *Config) { s.cur.Store(cfg) }
