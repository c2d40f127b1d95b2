package config

import (
	"os"
	"time"
)

// Session backends understood by session.OpenStore.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds runtime settings for the storefront client.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	SessionBackend string
	SessionDSN     string
	RedisAddr      string
	InvoiceDir     string
	LogLevel       string
}

func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:5000/api"
	c.RequestTimeout = 15 * time.Second
	c.SessionBackend = BackendSQLite
	c.SessionDSN = "session.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.InvoiceDir = "invoices"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, the JSON file, the environment
// and os.Args, in that order. Malformed input panics.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
