package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/spicestore/internal/flagx"
	"github.com/dmitrijs2005/spicestore/internal/timex"
)

// JsonConfig mirrors Config for unmarshalling. Empty fields leave the
// current value untouched.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	SessionBackend string         `json:"session_backend"`
	SessionDSN     string         `json:"session_dsn"`
	RedisAddr      string         `json:"redis_addr"`
	InvoiceDir     string         `json:"invoice_dir"`
	LogLevel       string         `json:"log_level"`
}

func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.SessionBackend, jc.SessionBackend)
	setString(&cfg.SessionDSN, jc.SessionDSN)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.InvoiceDir, jc.InvoiceDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
