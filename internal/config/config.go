package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Backend  BackendConfiguration
	Server   ServerConfiguration
	Database DatabaseConfiguration
	Log      LogConfiguration
	Flags    FlagsConfiguration
}

// BackendConfiguration points the clients at the remote API. An empty URL
// disables every remote flag and API call.
type BackendConfiguration struct {
	URL string
}

// ServerConfiguration stores the port of the local flag service
type ServerConfiguration struct {
	Port string
}

// DatabaseConfiguration stores the SQLite file used by the flag service
type DatabaseConfiguration struct {
	Path string
}

type LogConfiguration struct {
	Level string
	File  string
}

// FlagsConfiguration tunes the flag resolver.
type FlagsConfiguration struct {
	Timeout time.Duration
	TTL     time.Duration
}

// Load reads config/config.yaml (optional), environment variables such as
// BACKEND_URL or SERVER_PORT, and any bound command-line flags.
func Load(fs *pflag.FlagSet) (*Configuration, error) {
	v := viper.New()
	v.AddConfigPath("config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("backend.url", "")
	v.SetDefault("server.port", "8008")
	v.SetDefault("database.path", "emma-flags.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("flags.timeout", "5s")
	v.SetDefault("flags.ttl", "5m")

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Backend.URL = strings.TrimRight(cfg.Backend.URL, "/")
	return &cfg, nil
}
