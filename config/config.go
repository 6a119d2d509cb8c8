package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/bellapacxx/gwent-backend/utils/logger"
)

// DefaultPort is the TCP port the session listener binds when none is given.
const DefaultPort = 5000

var ErrInvalidPort = errors.New("invalid port")

// Config is the process configuration, read from the environment.
type Config struct {
	Port             int      `env:"PORT" envDefault:"5000"`
	HTTPEnabled      bool     `env:"HTTP_ENABLED" envDefault:"true"`
	HTTPAddr         string   `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL      string   `env:"DATABASE_URL"`
	CardCatalogFile  string   `env:"CARD_CATALOG_FILE"`
	CORSOrigins      []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	ActionRatePerSec float64  `env:"ACTION_RATE_PER_SEC" envDefault:"20"`
	ActionBurst      int      `env:"ACTION_BURST" envDefault:"40"`
	SendBuffer       int      `env:"SEND_BUFFER" envDefault:"32"`
	LogLevel         string   `env:"LOG_LEVEL" envDefault:"info"`
	LogEncoding      string   `env:"LOG_ENCODING" envDefault:"json"`
}

// initEnv loads a .env file when present.
func initEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Info("[Config] No .env file found, reading environment variables")
	}
}

// Load reads .env and the environment, then applies the optional positional
// port argument from args (os.Args[1:]).
func Load(args []string) (*Config, error) {
	initEnv()
	return Parse(args, nil)
}

// Parse builds a Config from environ (the process environment when nil) and args.
func Parse(args []string, environ map[string]string) (*Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if len(args) > 1 {
		return nil, fmt.Errorf("unexpected arguments %q: only a port may be given", args[1:])
	}
	if len(args) == 1 {
		port, err := ParsePort(args[0])
		if err != nil {
			return nil, err
		}
		cfg.Port = port
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT %d: %w", c.Port, ErrInvalidPort)
	}
	if c.ActionRatePerSec <= 0 || c.ActionBurst < 1 {
		return fmt.Errorf("action rate %.2f/s burst %d must be positive", c.ActionRatePerSec, c.ActionBurst)
	}
	if c.SendBuffer < 1 {
		return fmt.Errorf("SEND_BUFFER %d must be positive", c.SendBuffer)
	}
	return nil
}

// ParsePort validates a decimal TCP port.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidPort)
	}
	return port, nil
}

// ListenAddr is the TCP address for the session listener.
func (c *Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}
