package config

import (
	"flag"
	"time"
)

type flagValues struct {
	set        map[string]bool
	configPath string
	address    string
	driver     string
	dsn        string
	secret     string
	logLevel   string
	tokenTTL   time.Duration
	version    bool
}

// parseFlags разбирает args. Значения применяются к Config только для
// явно переданных флагов, чтобы не затирать YAML и окружение.
//
// Supported flags:
//
//	-config string    path to YAML config
//	-a string         listen address (e.g. ":8080")
//	-driver string    database driver: sqlite or postgres
//	-d string         database DSN (file path for sqlite)
//	-s string         JWT HMAC secret
//	-t duration       token lifetime (e.g. "1h")
//	-l string         log level
//	-version          print version and exit
func parseFlags(args []string) (*flagValues, error) {
	fl := &flagValues{set: make(map[string]bool)}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&fl.configPath, "config", "", "path to YAML config file")
	fs.StringVar(&fl.address, "a", "", "address and port to run server")
	fs.StringVar(&fl.driver, "driver", "", "database driver (sqlite, postgres)")
	fs.StringVar(&fl.dsn, "d", "", "database DSN")
	fs.StringVar(&fl.secret, "s", "", "JWT secret key")
	fs.DurationVar(&fl.tokenTTL, "t", 0, "token lifetime")
	fs.StringVar(&fl.logLevel, "l", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&fl.version, "version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		fl.set[f.Name] = true
	})

	return fl, nil
}

func (fl *flagValues) apply(cfg *Config) {
	cfg.ShowVersion = fl.version
	if fl.set["a"] {
		cfg.Address = fl.address
	}
	if fl.set["driver"] {
		cfg.DBDriver = fl.driver
	}
	if fl.set["d"] {
		cfg.DatabaseDSN = fl.dsn
	}
	if fl.set["s"] {
		cfg.JWTSecret = fl.secret
	}
	if fl.set["t"] {
		cfg.TokenTTL = fl.tokenTTL
	}
	if fl.set["l"] {
		cfg.LogLevel = fl.logLevel
	}
}
