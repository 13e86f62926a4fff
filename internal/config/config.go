// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	Upstream  UpstreamConfig
	Transcode TranscodeConfig
	Retention RetentionConfig
	RabbitMQ  RabbitMQConfig
	Logging   LoggingConfig
	Database  DatabaseConfig
	Server    ServerConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// UpstreamConfig contains the TikTok extraction API configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type UpstreamConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// TranscodeConfig contains ffmpeg invocation and scratch storage configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type TranscodeConfig struct {
	FFmpegPath      string
	ScratchDir      string
	DownloadTimeout time.Duration
	Timeout         time.Duration
}

// RetentionConfig contains the artifact sweeper configuration.
type RetentionConfig struct {
	MaxAge   time.Duration
	Interval time.Duration
}

// RabbitMQConfig contains RabbitMQ connection and queue configuration.
// An empty Host disables download event publishing.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Host       string
	User       string
	Password   string
	Exchange   string
	Queue      string
	RoutingKey string
	Port       int
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "tiktok_downloads")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 5)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// Upstream extraction API
	viper.SetDefault("upstream.baseurl", "https://tikwm.com/api/")
	viper.SetDefault("upstream.apikey", "")
	viper.SetDefault("upstream.timeout", 15*time.Second)

	// Transcode
	viper.SetDefault("transcode.ffmpegpath", "ffmpeg")
	viper.SetDefault("transcode.scratchdir", "/tmp/tiktok-artifacts")
	viper.SetDefault("transcode.downloadtimeout", 2*time.Minute)
	viper.SetDefault("transcode.timeout", 5*time.Minute)

	// Retention
	viper.SetDefault("retention.maxage", 3*time.Hour)
	viper.SetDefault("retention.interval", 1*time.Hour)

	// RabbitMQ (disabled unless host is set)
	viper.SetDefault("rabbitmq.host", "")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "tiktok.downloads")
	viper.SetDefault("rabbitmq.queue", "tiktok.downloads.served")
	viper.SetDefault("rabbitmq.routingkey", "download.served")

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
