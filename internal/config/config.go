package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ndrandal/stock-dashboard/internal/symbol"
)

// EnvPrefix prefixes every environment variable, e.g. DASH_PORT.
const EnvPrefix = "DASH"

// Config holds all dashboard service configuration.
type Config struct {
	// Server
	Host string `yaml:"host" envconfig:"HOST"`
	Port int    `yaml:"port" envconfig:"PORT"`

	// Simulation
	Seed           int64         `yaml:"seed" envconfig:"SEED"`
	TickInterval   time.Duration `yaml:"tick_interval" envconfig:"TICK_INTERVAL"`
	DefaultSymbol  string        `yaml:"default_symbol" envconfig:"DEFAULT_SYMBOL"`
	SendBufferSize int           `yaml:"send_buffer" envconfig:"SEND_BUFFER"`

	// Observability
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	LogLevel       string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat      string `yaml:"log_format" envconfig:"LOG_FORMAT"`

	// NATS (opt-in: only active when NATSURL is set)
	NATSURL           string `yaml:"nats_url" envconfig:"NATS_URL"`
	NATSSubjectPrefix string `yaml:"nats_subject_prefix" envconfig:"NATS_SUBJECT_PREFIX"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host:              "0.0.0.0",
		Port:              8080,
		TickInterval:      time.Second,
		DefaultSymbol:     symbol.Default,
		SendBufferSize:    64,
		MetricsEnabled:    true,
		LogLevel:          "info",
		LogFormat:         "json",
		NATSSubjectPrefix: "dashboard",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// -config or CONFIG_FILE, then the environment (a .env file is loaded first
// if present), then the command-line flags in args.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	// First pass only discovers the config file path.
	var path string
	if err := newFlagSet(Default(), &path).Parse(args); err != nil {
		return nil, err
	}

	c := Default()
	if path != "" {
		if err := c.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}
	if err := newFlagSet(c, &path).Parse(args); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func newFlagSet(c *Config, path *string) *flag.FlagSet {
	fs := flag.NewFlagSet("dashd", flag.ContinueOnError)

	fs.StringVar(path, "config", os.Getenv("CONFIG_FILE"), "YAML config file")

	fs.StringVar(&c.Host, "host", c.Host, "Listen host")
	fs.IntVar(&c.Port, "port", c.Port, "HTTP/WebSocket server port")

	fs.Int64Var(&c.Seed, "seed", c.Seed, "PRNG seed (0 = random)")
	fs.DurationVar(&c.TickInterval, "tick", c.TickInterval, "Dashboard refresh interval")
	fs.StringVar(&c.DefaultSymbol, "symbol", c.DefaultSymbol, "Initially selected symbol")
	fs.IntVar(&c.SendBufferSize, "send-buffer", c.SendBufferSize, "Per-client send buffer size")

	fs.BoolVar(&c.MetricsEnabled, "metrics", c.MetricsEnabled, "Expose Prometheus metrics at /metrics")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format (json, console)")

	fs.StringVar(&c.NATSURL, "nats-url", c.NATSURL, "NATS server URL (empty = disabled)")
	fs.StringVar(&c.NATSSubjectPrefix, "nats-prefix", c.NATSSubjectPrefix, "NATS subject prefix")

	return fs
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive, got %s", c.TickInterval))
	}
	if _, err := symbol.Lookup(c.DefaultSymbol); err != nil {
		errs = append(errs, fmt.Errorf("default symbol: %w", err))
	}
	if c.SendBufferSize < 1 {
		errs = append(errs, fmt.Errorf("send buffer must be at least 1, got %d", c.SendBufferSize))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("log format %q must be json or console", c.LogFormat))
	}

	return errors.Join(errs...)
}

// ListenAddr returns the host:port the server binds.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
