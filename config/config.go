package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de los dos binarios (api y backend).
type Config struct {
	Environment EnvironmentConfig

	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	Backend BackendConfig
	DB      DBConfig
	Odin    OdinConfig
	Session SessionConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// BackendConfig: dónde escucha el backend y cómo lo ve la api.
type BackendConfig struct {
	Port        int
	URL         string
	GraphQLPath string
	BreedsPath  string
	Timeout     time.Duration
}

type DBConfig struct {
	DSN string
}

type OdinConfig struct {
	URL          string
	APIKey       string
	APIKeyHeader string
	Timeout      time.Duration
	CacheTTL     time.Duration
	CacheSize    int
}

type SessionConfig struct {
	TTL             time.Duration
	MaxSessions     int
	CreatePerMinute int
	LoadTimeout     time.Duration
	WriteTimeout    time.Duration
	FailureHistory  int
}

// Load lee config.yaml (./config, ., /etc/pet-sync/) y pisa con env:
// http_server.port => HTTP_SERVER_PORT, backend.url => BACKEND_URL, etc.
func Load() (*Config, error) {
	return load(viper.New(), "./config", ".", "/etc/pet-sync/")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.ReadTimeout = v.GetDuration("http_server.read_timeout")
	cfg.HTTPServer.WriteTimeout = v.GetDuration("http_server.write_timeout")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Encoding = v.GetString("logger.encoding")

	cfg.Backend.Port = v.GetInt("backend.port")
	cfg.Backend.URL = strings.TrimRight(v.GetString("backend.url"), "/")
	cfg.Backend.GraphQLPath = v.GetString("backend.graphql_path")
	cfg.Backend.BreedsPath = v.GetString("backend.breeds_path")
	cfg.Backend.Timeout = v.GetDuration("backend.timeout")

	cfg.DB.DSN = v.GetString("db.dsn")

	cfg.Odin.URL = v.GetString("odin.url")
	cfg.Odin.APIKey = v.GetString("odin.api_key")
	cfg.Odin.APIKeyHeader = v.GetString("odin.api_key_header")
	cfg.Odin.Timeout = v.GetDuration("odin.timeout")
	cfg.Odin.CacheTTL = v.GetDuration("odin.cache_ttl")
	cfg.Odin.CacheSize = v.GetInt("odin.cache_size")

	cfg.Session.TTL = v.GetDuration("session.ttl")
	cfg.Session.MaxSessions = v.GetInt("session.max_sessions")
	cfg.Session.CreatePerMinute = v.GetInt("session.create_per_minute")
	cfg.Session.LoadTimeout = v.GetDuration("session.load_timeout")
	cfg.Session.WriteTimeout = v.GetDuration("session.write_timeout")
	cfg.Session.FailureHistory = v.GetInt("session.failure_history")

	if cfg.Backend.URL == "" {
		return nil, fmt.Errorf("backend.url must not be empty")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.read_timeout", "5s")
	v.SetDefault("http_server.write_timeout", "10s")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")

	v.SetDefault("backend.port", 8081)
	v.SetDefault("backend.url", "http://localhost:8081")
	v.SetDefault("backend.graphql_path", "/graphql")
	v.SetDefault("backend.breeds_path", "/breeds")
	v.SetDefault("backend.timeout", "10s")

	// Sin DSN el backend usa el repo in-memory.
	v.SetDefault("db.dsn", "")

	// Sin URL de Odin se corre en modo dev (header X-Debug-User-ID).
	v.SetDefault("odin.url", "")
	v.SetDefault("odin.api_key", "")
	v.SetDefault("odin.api_key_header", "X-Api-Key")
	v.SetDefault("odin.timeout", "5s")
	v.SetDefault("odin.cache_ttl", "1m")
	v.SetDefault("odin.cache_size", 1024)

	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.max_sessions", 1024)
	v.SetDefault("session.create_per_minute", 30)
	v.SetDefault("session.load_timeout", "15s")
	v.SetDefault("session.write_timeout", "15s")
	v.SetDefault("session.failure_history", 20)
}
