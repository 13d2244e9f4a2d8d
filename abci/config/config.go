// Package config loads ServerConfig from environment variables and, if
// present, a config file, using spf13/viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds everything the ABCI engine needs to start and run: no
// application-level settings live here, only transport, lifecycle and
// observability knobs.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// CloseTimeout bounds how long Server.Stop, after closing every open
	// connection, waits for them to drain before it returns an error.
	CloseTimeout time.Duration `mapstructure:"close_timeout"`

	// SelfStopOnIdle, when true, makes the server stop itself once its
	// last connection closes. Off by default: a long-lived ABCI server
	// normally outlives any single consensus-engine connection.
	SelfStopOnIdle bool `mapstructure:"self_stop_on_idle"`

	// AdminAddr is the listen address for the gRPC health server. Setting it
	// to the empty string disables the health server.
	AdminAddr string `mapstructure:"admin_addr"`

	LogLevel string `mapstructure:"log_level"`

	// TracingEndpoint, if non-empty, enables OTLP export to this
	// collector address.
	TracingEndpoint string `mapstructure:"tracing_endpoint"`
	ServiceName     string `mapstructure:"service_name"`
}

// DefaultServerConfig returns a ServerConfig with production-sane defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:            "0.0.0.0",
		Port:            26658,
		CloseTimeout:    300 * time.Second,
		SelfStopOnIdle:  false,
		AdminAddr:       "127.0.0.1:26659",
		LogLevel:        "info",
		TracingEndpoint: "",
		ServiceName:     "abci-server",
	}
}

// Load reads ServerConfig from environment variables prefixed ABCI_ (and,
// if configPath is non-empty, from a config file), falling back to
// DefaultServerConfig for anything unset.
func Load(configPath string) (*ServerConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("abci")
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	def := DefaultServerConfig()
	v.SetDefault("host", def.Host)
	v.SetDefault("port", def.Port)
	v.SetDefault("close_timeout", def.CloseTimeout)
	v.SetDefault("self_stop_on_idle", def.SelfStopOnIdle)
	v.SetDefault("admin_addr", def.AdminAddr)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("tracing_endpoint", def.TracingEndpoint)
	v.SetDefault("service_name", def.ServiceName)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
