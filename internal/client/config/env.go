package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString(&cfg.APIBaseURL, os.Getenv("SPICE_API_URL"))
	setString(&cfg.SessionBackend, os.Getenv("SPICE_SESSION_BACKEND"))
	setString(&cfg.SessionDSN, os.Getenv("SPICE_SESSION_DSN"))
	setString(&cfg.RedisAddr, os.Getenv("SPICE_REDIS_ADDR"))
	setString(&cfg.InvoiceDir, os.Getenv("SPICE_INVOICE_DIR"))
	setString(&cfg.LogLevel, os.Getenv("SPICE_LOG_LEVEL"))

	if v := os.Getenv("SPICE_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
}
