// Package config provides functionality for managing configuration options
// for the application using command-line flags, an optional YAML file and
// environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Simulated delays of the in-memory backend unless overridden.
const (
	DefaultReadLatency  = 300 * time.Millisecond
	DefaultWriteLatency = 500 * time.Millisecond
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `yaml:"address"`

	// DatabaseDSN is the PostgreSQL connection string. Empty selects the
	// in-memory backend.
	DatabaseDSN string `yaml:"database_dsn"`

	// JWTSecret signs session tokens.
	JWTSecret string `yaml:"jwt_secret"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// ReadLatency and WriteLatency are the simulated delays of the
	// in-memory backend.
	ReadLatency  time.Duration `yaml:"read_latency"`
	WriteLatency time.Duration `yaml:"write_latency"`

	// CleanerInterval and CleanerRetention drive the purge of
	// soft-deleted requests.
	CleanerInterval  time.Duration `yaml:"cleaner_interval"`
	CleanerRetention time.Duration `yaml:"cleaner_retention"`

	// Seed loads the demo accounts and requests on startup.
	Seed bool `yaml:"seed"`

	// Config is the path to the YAML config file.
	Config string `yaml:"-"`
}

// Parse parses the command-line flags, the config file and environment
// variables, in that order, later sources overriding earlier ones.
// It exits the process on malformed input.
func Parse() *Options {
	opts, err := Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("error while loading config: %v", err)
	}
	return opts
}

// Load is Parse with explicit arguments and environment lookup.
func Load(args []string, getenv func(string) string) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet("rentverify", flag.ContinueOnError)
	fs.StringVar(&options.Address, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.JWTSecret, "s", "", "token signing secret")
	fs.StringVar(&options.LogLevel, "l", "info", "log level")
	fs.DurationVar(&options.ReadLatency, "read-latency", DefaultReadLatency, "simulated read delay of the in-memory backend")
	fs.DurationVar(&options.WriteLatency, "write-latency", DefaultWriteLatency, "simulated write delay of the in-memory backend")
	fs.DurationVar(&options.CleanerInterval, "cleaner-interval", time.Hour, "purge interval for deleted requests")
	fs.DurationVar(&options.CleanerRetention, "cleaner-retention", 30*24*time.Hour, "how long deleted requests are kept")
	fs.BoolVar(&options.Seed, "seed", true, "load demo data")
	fs.StringVar(&options.Config, "config", "config.yaml", "path to config file")
	fs.StringVar(&options.Config, "c", "config.yaml", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		data, err := os.ReadFile(options.Config)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := applyEnv(options, getenv); err != nil {
		return nil, err
	}

	if options.JWTSecret == "" {
		return nil, errors.New("jwt secret is required (-s or JWT_SECRET)")
	}
	return options, nil
}

func applyEnv(o *Options, getenv func(string) string) error {
	if v := getenv("SERVER_ADDRESS"); v != "" {
		o.Address = v
	}
	if v := getenv("DATABASE_DSN"); v != "" {
		o.DatabaseDSN = v
	}
	if v := getenv("JWT_SECRET"); v != "" {
		o.JWTSecret = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		o.LogLevel = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"READ_LATENCY", &o.ReadLatency},
		{"WRITE_LATENCY", &o.WriteLatency},
		{"CLEANER_INTERVAL", &o.CleanerInterval},
		{"CLEANER_RETENTION", &o.CleanerRetention},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v := getenv("SEED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEED: %w", err)
		}
		o.Seed = b
	}
	return nil
}
