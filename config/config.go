package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"

	envPrefix = "PUSHREG"
)

type Config struct {
	Server     Server
	Bun        BunConfig
	Auth       Auth
	LoggerMode LoggerMode
}

type Server struct {
	Port            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// BunConfig selects the user info store. DriverMemory keeps everything in
// process and ignores DSN.
type BunConfig struct {
	Driver string
	DSN    string
}

// Auth controls request authentication.
type Auth struct {
	// FreshnessWindow is the allowed distance, in either direction, between
	// a signed timestamp and the server clock.
	FreshnessWindow time.Duration
}

type LoggerMode struct {
	Development bool
	Prod        bool
	Level       string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "local")
	v.SetDefault("server.readtimeout", 15*time.Second)
	v.SetDefault("server.writetimeout", 15*time.Second)
	v.SetDefault("server.idletimeout", 60*time.Second)
	v.SetDefault("server.shutdowntimeout", 10*time.Second)
	v.SetDefault("bun.driver", DriverSQLite)
	v.SetDefault("bun.dsn", "file:pushreg.db?cache=shared")
	v.SetDefault("auth.freshnesswindow", 10*time.Minute)
	v.SetDefault("loggermode.development", false)
	v.SetDefault("loggermode.prod", false)
	v.SetDefault("loggermode.level", "info")
}

// LoadConfig reads <filename>.yaml from the given paths, or from ./config
// when none are given. Keys can be overridden with PUSHREG_<SECTION>_<KEY>.
func LoadConfig(filename string, paths ...string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	err := v.Unmarshal(&c)
	if err != nil {
		slog.Error("Unable to unmarshal config", "err", err)
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("invalid server.port: must not be empty")
	}
	switch c.Bun.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("invalid bun.driver %q: must be %q, %q or %q", c.Bun.Driver, DriverPostgres, DriverSQLite, DriverMemory)
	}
	if c.Bun.Driver != DriverMemory && c.Bun.DSN == "" {
		return errors.New("invalid bun.dsn: must not be empty")
	}
	if c.Auth.FreshnessWindow <= 0 {
		return errors.New("invalid auth.freshnesswindow: must be > 0")
	}
	return nil
}
