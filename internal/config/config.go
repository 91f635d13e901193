package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Decoding settings
	Password        string `env:"KEYRING_PASSWORD"`
	PasswordSet     bool   `env:"-"` // пароль задан явно, в том числе пустой
	PasswordFile    string `env:"KEYRING_PASSWORD_FILE"`
	StrictHashes    bool   `env:"KEYRING_STRICT_HASHES"`
	TimestampLayout string `env:"KEYRING_TIMESTAMP_LAYOUT"`

	// Export settings
	DatabaseDSN   string `env:"DATABASE_URI"`
	ExportSecrets bool   `env:"EXPORT_SECRETS"`

	Debug   bool `env:"DEBUG"`
	Version bool `env:"-"` // show version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги переопределяют значения из окружения
	flag.StringVar(&cfg.Password, "p", cfg.Password, "password used to decrypt the file(s)")
	flag.StringVar(&cfg.PasswordFile, "password-file", cfg.PasswordFile, "read the password from a file")
	flag.BoolVar(&cfg.StrictHashes, "strict", cfg.StrictHashes, "fail on attribute hash mismatch instead of warning")
	flag.StringVar(&cfg.TimestampLayout, "timestamps", cfg.TimestampLayout, "timestamp layout: u64 or halves")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "export database: SQLite path or postgres:// DSN")
	flag.BoolVar(&cfg.ExportSecrets, "export-secrets", cfg.ExportSecrets, "store secrets in the export database")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "debug logging to stderr")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show version and exit")

	flag.Parse()

	_, cfg.PasswordSet = os.LookupEnv("KEYRING_PASSWORD")
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "p" {
			cfg.PasswordSet = true
		}
	})

	// Defaults
	switch strings.ToLower(cfg.TimestampLayout) {
	case "u64", "halves":
		cfg.TimestampLayout = strings.ToLower(cfg.TimestampLayout)
	default:
		cfg.TimestampLayout = "u64"
	}
	if cfg.DatabaseDSN == "" {
		home, _ := os.UserHomeDir()
		cfg.DatabaseDSN = filepath.Join(home, "gkraw.db")
	}

	return cfg
}
