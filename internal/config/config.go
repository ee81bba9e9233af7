package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSupabase = "supabase"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Database  DatabaseConfig
	Supabase  SupabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Directory DirectoryConfig
}

type AppConfig struct {
	AppName        string
	Environment    string
	HTTPPort       string
	WSPort         string
	MigrateOnStart bool
	SeedOnStart    bool
}

type BackendConfig struct {
	Driver     string
	SQLitePath string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type SupabaseConfig struct {
	URL string
	Key string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type DirectoryConfig struct {
	DefaultMinSalary float64
	DefaultMaxSalary float64
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	optInt32 := func(key string) int32 {
		raw := opt(key)
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return 0
		}
		return int32(v)
	}
	optFloat := func(key string, def float64) float64 {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string) bool {
		raw := opt(key)
		if raw == "" {
			return false
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return false
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:        req("APP_NAME"),
		Environment:    req("APP_ENV"),
		HTTPPort:       req("HTTP_PORT"),
		WSPort:         opt("WS_PORT"),
		MigrateOnStart: optBool("MIGRATIONS_ON_START"),
		SeedOnStart:    optBool("SEED_ON_START"),
	}

	driver := strings.ToLower(opt("BACKEND_DRIVER"))
	if driver == "" {
		driver = DriverPostgres
	}
	cfg.Backend = BackendConfig{
		Driver:     driver,
		SQLitePath: opt("SQLITE_PATH"),
	}
	if cfg.Backend.SQLitePath == "" {
		cfg.Backend.SQLitePath = "jobboard.db"
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 0),
		PoolMaxConns:          optInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          optInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.Supabase = SupabaseConfig{
		URL: opt("SUPABASE_URL"),
		Key: opt("SUPABASE_KEY"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      optDuration("REDIS_TTL", 10*time.Minute),
	}

	cfg.JWT = JWTConfig{
		Secret:    req("JWT_SECRET"),
		ExpiresIn: optDuration("JWT_EXPIRES_IN", 24*time.Hour),
	}

	cfg.Directory = DirectoryConfig{
		DefaultMinSalary: optFloat("DIRECTORY_MIN_SALARY", 30000),
		DefaultMaxSalary: optFloat("DIRECTORY_MAX_SALARY", 120000),
	}

	switch cfg.Backend.Driver {
	case DriverPostgres:
		for _, k := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER"} {
			if opt(k) == "" {
				missing = append(missing, k)
			}
		}
	case DriverSupabase:
		if cfg.Supabase.URL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if cfg.Supabase.Key == "" {
			missing = append(missing, "SUPABASE_KEY")
		}
	case DriverSQLite:
	default:
		invalid = append(invalid, "BACKEND_DRIVER")
	}

	if cfg.Directory.DefaultMinSalary > cfg.Directory.DefaultMaxSalary {
		invalid = append(invalid, "DIRECTORY_MIN_SALARY")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// PostgresURL renders the database config as a URL for tools that do not take
// key/value DSNs.
func (c DatabaseConfig) PostgresURL(scheme string) string {
	if scheme == "" {
		scheme = "postgres"
	}
	sslmode := c.DBSSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	return u.String()
}
