package config

import "time"

// Config holds server configuration values, read once at startup.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	MaxFileSize       int64         `mapstructure:"max_file_size" yaml:"max_file_size"`
	MaxMessageSize    int64         `mapstructure:"max_message_size" yaml:"max_message_size"`
	SweepPeriod       time.Duration `mapstructure:"sweep_period" yaml:"sweep_period"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":3030",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		AllowedOrigins:    []string{"*"},
		MaxFileSize:       100_000_000,
		MaxMessageSize:    1 << 20,
		SweepPeriod:       30 * time.Second,
		LogLevel:          "info",
	}
}
