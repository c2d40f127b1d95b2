package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/spicestore/internal/flagx"
)

var knownFlags = []string{"-u", "-t", "-s", "-d", "-r", "-o", "-l"}

func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("spicestore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "storefront API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionBackend, "s", cfg.SessionBackend, "session backend: sqlite, redis or memory")
	fs.StringVar(&cfg.SessionDSN, "d", cfg.SessionDSN, "sqlite session DSN")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.InvoiceDir, "o", cfg.InvoiceDir, "directory for invoices and exports")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}

	// Only an explicit -t overrides; the default is rounded to whole seconds.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
