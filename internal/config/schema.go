package config

import (
	"time"
)

type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Log      LogConfig       `yaml:"log"`
	CORS     CORSConfig      `yaml:"cors"`
	Filters  FiltersConfig   `yaml:"filters"`
	Store    StoreConfig     `yaml:"store"`
	Redis    *RedisConfig    `yaml:"redis"`
	Relay    RelayConfig     `yaml:"relay"`
	Upstream *UpstreamConfig `yaml:"upstream"`
}

type ServerConfig struct {
	Port  int                `yaml:"port"`
	Debug *ServerDebugConfig `yaml:"debug"`
}

var DefaultServerConfig = ServerConfig{
	Port: 8080,
}

type ServerDebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

var DefaultDebugConfig = ServerDebugConfig{
	Enabled: false,
	Host:    "localhost",
	Port:    5123,
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var DefaultLogConfig = LogConfig{
	Level:  "info",
	Format: "text",
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAgeSeconds    int      `yaml:"max_age_seconds"`
}

var DefaultCORSConfig = CORSConfig{
	AllowedOrigins: []string{"http://localhost:5173"},
	AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	AllowedHeaders: []string{"*"},
	MaxAgeSeconds:  300,
}

// FiltersConfig selects which admission filters are active. With every filter
// disabled all CSRs pass straight through to the upstream CA.
type FiltersConfig struct {
	SingleOutstandingRequest bool `yaml:"single_outstanding_request"`
	FirstClaimWins           bool `yaml:"first_claim_wins"`
}

type StoreConfig struct {
	Type string `yaml:"type"` // "memory" or "redis"
}

type RedisConfig struct {
	Address           string               `yaml:"address"`
	Username          string               `yaml:"username"`
	Password          string               `yaml:"password"`
	Sentinel          *RedisSentinelConfig `yaml:"sentinel"`
	ReservationsIndex int                  `yaml:"reservations_index"`
}

var DefaultRedisConfig = RedisConfig{
	ReservationsIndex: 0,
}

type RedisSentinelConfig struct {
	MasterName        string   `yaml:"master_name"`
	SentinelAddresses []string `yaml:"addresses"`
	SentinelPassword  string   `yaml:"password"`
	SentinelUsername  string   `yaml:"username"`
}

type RelayConfig struct {
	QueueSize     int           `yaml:"queue_size"`
	RetryInterval time.Duration `yaml:"retry_interval"`
}

var DefaultRelayConfig = RelayConfig{
	QueueSize:     64,
	RetryInterval: 30 * time.Second,
}

type UpstreamConfig struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	BasicAuth *BasicAuth    `yaml:"basic_auth"`
}

var DefaultUpstreamConfig = UpstreamConfig{
	Timeout: 30 * time.Second,
}

type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}
