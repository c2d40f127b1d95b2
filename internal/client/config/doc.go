// Package config loads runtime configuration for the spicestore client.
//
// Sources, lowest precedence first:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables, optionally seeded from a .env file.
//  4. Command-line flags.
//
// Flags
//
//	-u string   base URL of the storefront REST API
//	-t int      request timeout (seconds)
//	-s string   session backend: sqlite, redis or memory
//	-d string   SQLite DSN for the sqlite session backend
//	-r string   redis address for the redis session backend
//	-o string   directory for downloaded invoices and exports
//	-l string   log level
//
// Environment
//
//	SPICE_API_URL, SPICE_REQUEST_TIMEOUT, SPICE_SESSION_BACKEND,
//	SPICE_SESSION_DSN, SPICE_REDIS_ADDR, SPICE_INVOICE_DIR, SPICE_LOG_LEVEL
//
// SPICE_REQUEST_TIMEOUT accepts Go duration strings such as "10s".
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://127.0.0.1:5000/api",
//	  "request_timeout": "15s",
//	  "session_backend": "sqlite",
//	  "session_dsn": "session.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "invoice_dir": "invoices",
//	  "log_level": "info"
//	}
package config
