package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required (use -config or -c)")
	}

	// Read and parse YAML
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvironmentOverrides(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

var (
	EnvRedisUsername             = "TLS_CONSTRAINTS_REDIS_USERNAME"
	EnvRedisPassword             = "TLS_CONSTRAINTS_REDIS_PASSWORD"
	EnvRedisSentinelUsername     = "TLS_CONSTRAINTS_REDIS_SENTINEL_USERNAME"
	EnvRedisSentinelPassword     = "TLS_CONSTRAINTS_REDIS_SENTINEL_PASSWORD"
	EnvUpstreamURL               = "TLS_CONSTRAINTS_UPSTREAM_URL"
	EnvUpstreamBasicAuthUsername = "TLS_CONSTRAINTS_UPSTREAM_BASIC_AUTH_USERNAME"
	EnvUpstreamBasicAuthPassword = "TLS_CONSTRAINTS_UPSTREAM_BASIC_AUTH_PASSWORD"
)

func applyEnvironmentOverrides(config *Config) {
	if redisUsername := os.Getenv(EnvRedisUsername); redisUsername != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Username = redisUsername
	}

	if redisPassword := os.Getenv(EnvRedisPassword); redisPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Password = redisPassword
	}

	if sentinelUsername := os.Getenv(EnvRedisSentinelUsername); sentinelUsername != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if config.Redis.Sentinel == nil {
			config.Redis.Sentinel = &RedisSentinelConfig{}
		}
		config.Redis.Sentinel.SentinelUsername = sentinelUsername
	}

	if sentinelPassword := os.Getenv(EnvRedisSentinelPassword); sentinelPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if config.Redis.Sentinel == nil {
			config.Redis.Sentinel = &RedisSentinelConfig{}
		}
		config.Redis.Sentinel.SentinelPassword = sentinelPassword
	}

	if upstreamURL := os.Getenv(EnvUpstreamURL); upstreamURL != "" {
		if config.Upstream == nil {
			config.Upstream = &UpstreamConfig{}
		}
		config.Upstream.URL = upstreamURL
	}

	if username := os.Getenv(EnvUpstreamBasicAuthUsername); username != "" {
		if config.Upstream == nil {
			config.Upstream = &UpstreamConfig{}
		}
		if config.Upstream.BasicAuth == nil {
			config.Upstream.BasicAuth = &BasicAuth{}
		}
		config.Upstream.BasicAuth.Username = username
	}

	if password := os.Getenv(EnvUpstreamBasicAuthPassword); password != "" {
		if config.Upstream == nil {
			config.Upstream = &UpstreamConfig{}
		}
		if config.Upstream.BasicAuth == nil {
			config.Upstream.BasicAuth = &BasicAuth{}
		}
		config.Upstream.BasicAuth.Password = password
	}
}

func validateConfig(config *Config) error {

	err := config.validateServerConfig()
	if err != nil {
		return err
	}

	err = config.validateLogConfig()
	if err != nil {
		return err
	}

	err = config.validateCORSConfig()
	if err != nil {
		return err
	}

	err = config.validateStoreConfig()
	if err != nil {
		return err
	}

	if config.Store.Type == "redis" {
		err = config.validateRedisConfig()
		if err != nil {
			return err
		}
	}

	err = config.validateRelayConfig()
	if err != nil {
		return err
	}

	err = config.validateUpstreamConfig()
	if err != nil {
		return err
	}

	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerConfig.Port
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.Debug != nil && c.Server.Debug.Enabled {
		if c.Server.Debug.Host == "" {
			c.Server.Debug.Host = DefaultDebugConfig.Host
		}
		if c.Server.Debug.Port <= 0 || c.Server.Debug.Port >= 65535 {
			c.Server.Debug.Port = DefaultDebugConfig.Port
		}
	}

	return nil
}

func (c *Config) validateLogConfig() error {
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogConfig.Format
	} else {
		switch c.Log.Format {
		case "text", "json":
		default:
			return fmt.Errorf("invalid log format: %s, options are text or json", c.Log.Format)
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig.Level
	} else {
		switch c.Log.Level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log level: %s, options are debug, info, warn, error", c.Log.Level)
		}
	}

	return nil
}

func (c *Config) validateCORSConfig() error {
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = DefaultCORSConfig.AllowedOrigins
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = DefaultCORSConfig.AllowedMethods
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = DefaultCORSConfig.AllowedHeaders
	}
	if c.CORS.MaxAgeSeconds == 0 {
		c.CORS.MaxAgeSeconds = DefaultCORSConfig.MaxAgeSeconds
	}

	return nil
}

func (c *Config) validateStoreConfig() error {
	if c.Store.Type == "" {
		c.Store.Type = "memory"
	}

	switch c.Store.Type {
	case "memory":
		break
	case "redis":
		if c.Redis == nil {
			return fmt.Errorf("redis configuration must be present to use redis for the reservation store")
		}
	default:
		return fmt.Errorf("invalid store type: %s, must be 'memory' or 'redis'", c.Store.Type)
	}

	return nil
}

func (c *Config) validateRedisConfig() error {
	if c.Redis == nil {
		return fmt.Errorf("redis config is nil")
	}

	if c.Redis.Sentinel != nil {
		if c.Redis.Sentinel.MasterName == "" {
			return fmt.Errorf("sentinel master_name is required")
		}
		if len(c.Redis.Sentinel.SentinelAddresses) == 0 {
			return fmt.Errorf("at least one sentinel address is required")
		}
	} else {
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required")
		}

		if _, _, err := net.SplitHostPort(c.Redis.Address); err != nil {
			return fmt.Errorf("invalid redis address format (expected host:port): %w", err)
		}
	}

	if c.Redis.ReservationsIndex < 0 {
		return fmt.Errorf("redis reservations_index must be non-negative, got %d", c.Redis.ReservationsIndex)
	}

	const maxRedisDB = 15
	if c.Redis.ReservationsIndex > maxRedisDB {
		return fmt.Errorf("redis reservations_index %d exceeds typical maximum of %d", c.Redis.ReservationsIndex, maxRedisDB)
	}

	return nil
}

func (c *Config) validateRelayConfig() error {
	if c.Relay.QueueSize == 0 {
		c.Relay.QueueSize = DefaultRelayConfig.QueueSize
	}

	if c.Relay.QueueSize < 0 {
		return fmt.Errorf("relay.queue_size must be positive, got %d", c.Relay.QueueSize)
	}

	if c.Relay.RetryInterval == 0 {
		c.Relay.RetryInterval = DefaultRelayConfig.RetryInterval
	} else if c.Relay.RetryInterval < time.Second {
		return fmt.Errorf("relay.retry_interval cannot be less than 1 second")
	}

	return nil
}

func (c *Config) validateUpstreamConfig() error {
	if c.Upstream == nil {
		return nil
	}

	if c.Upstream.URL != "" {
		if err := validateURL(c.Upstream.URL, "upstream.url"); err != nil {
			return err
		}
	}

	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = DefaultUpstreamConfig.Timeout
	}

	if c.Upstream.BasicAuth != nil {
		if c.Upstream.BasicAuth.Username == "" {
			return fmt.Errorf("upstream.basic_auth.username is required")
		}
		if c.Upstream.BasicAuth.Password == "" {
			return fmt.Errorf("upstream.basic_auth.password is required")
		}
	}

	return nil
}

func validateURL(rawURL, name string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https", name)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid %s: host is required", name)
	}

	return nil
}
