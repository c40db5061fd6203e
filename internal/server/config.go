package server

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"todobooks/internal/domain/errors"
	"todobooks/internal/validation"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Addr        string `koanf:"addr"`
	Port        int    `koanf:"port" validate:"min=1,max=65535"`
	DBStr       string `koanf:"db_str"`
	MigratePath string `koanf:"migrate_path"`
	RedisURL    string `koanf:"redis_url"`
	CacheTTL    int    `koanf:"cache_ttl" validate:"min=0"`
	LogLevel    string `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	LogPretty   bool   `koanf:"log_pretty"`
}

const (
	defaultAddr        = "0.0.0.0"
	defaultPort        = 8080
	defaultDBStr       = "postgresql://todos:todos@db:5432/todos?sslmode=disable"
	defaultMigratePath = "migrations"
	defaultCacheTTL    = 300
	defaultLogLevel    = "info"
)

// envKeys maps recognised environment variables to config keys.
var envKeys = map[string]string{
	"ADDR":         "addr",
	"PORT":         "port",
	"DB_STR":       "db_str",
	"MIGRATE_PATH": "migrate_path",
	"REDIS_URL":    "redis_url",
	"CACHE_TTL":    "cache_ttl",
	"LOG_LEVEL":    "log_level",
	"LOG_PRETTY":   "log_pretty",
}

func DefaultConfig() Config {
	return Config{
		Addr:        defaultAddr,
		Port:        defaultPort,
		DBStr:       defaultDBStr,
		MigratePath: defaultMigratePath,
		CacheTTL:    defaultCacheTTL,
		LogLevel:    defaultLogLevel,
	}
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Addr, c.Port)
}

// ReadConfig layers defaults, an optional JSON file (-c or CONFIG), the
// environment and finally explicitly set command-line flags.
func ReadConfig(name string, args []string) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("addr", defaultAddr, "server address")
	fs.Int("port", defaultPort, "server port")
	fs.String("dbstr", defaultDBStr, "database connection string")
	fs.String("dbdsn", "", "database DSN (takes precedence over dbstr)")
	fs.String("migratepath", defaultMigratePath, "path to the migrations directory")
	fs.String("redisurl", "", "redis URL for the todo list cache (empty disables it)")
	fs.Int("cachettl", defaultCacheTTL, "todo list cache TTL in seconds")
	fs.String("loglevel", defaultLogLevel, "log level")
	fs.Bool("logpretty", false, "human-readable console logs")
	configFile := fs.String("c", "", "path to a JSON config file")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfigParseFailed, err)
	}

	k := koanf.New(".")
	d := DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]any{
		"addr":         d.Addr,
		"port":         d.Port,
		"db_str":       d.DBStr,
		"migrate_path": d.MigratePath,
		"cache_ttl":    d.CacheTTL,
		"log_level":    d.LogLevel,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfigParseFailed, err)
	}

	path := *configFile
	if path == "" {
		path = os.Getenv("CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, fmt.Errorf("%w %s: %v", errors.ErrConfigFileReadFailed, path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfigParseFailed, err)
	}

	flagKeys := map[string]string{
		"addr":        "addr",
		"port":        "port",
		"dbstr":       "db_str",
		"migratepath": "migrate_path",
		"redisurl":    "redis_url",
		"cachettl":    "cache_ttl",
		"loglevel":    "log_level",
		"logpretty":   "log_pretty",
	}
	set := map[string]any{}
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			set[key] = f.Value.String()
		}
	})
	if dsn := fs.Lookup("dbdsn").Value.String(); dsn != "" {
		set["db_str"] = dsn
	}
	if err := k.Load(confmap.Provider(set, "."), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfigParseFailed, err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfigInvalidFormat, err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if cfg.DBStr == defaultDBStr {
		dbUser := os.Getenv("DB_USER")
		dbPassword := os.Getenv("DB_PASSWORD")
		dbName := os.Getenv("DB_NAME")
		dbHost := os.Getenv("DB_HOST")
		dbPort := os.Getenv("DB_PORT")
		if dbUser != "" && dbPassword != "" && dbName != "" && dbHost != "" && dbPort != "" {
			cfg.DBStr = fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPassword, dbHost, dbPort, dbName)
		}
	}

	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfigInvalidFormat, err)
	}
	return cfg, nil
}
