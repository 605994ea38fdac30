package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Env type for environment
type Env string

const (
	// Dev is the development environment
	Dev Env = "dev"
	// Prod is the production environment
	Prod Env = "prod"
)

// Config is the configuration for the application
type Config struct {
	Env      Env            `yaml:"env" env:"ENV" env-default:"dev"`
	Network  NetworkConfig  `yaml:"network"`
	Protocol ProtocolConfig `yaml:"protocol"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// NetworkConfig is the configuration for the network
type NetworkConfig struct {
	Address string `yaml:"address" env:"RESPKV_ADDRESS" env-default:"127.0.0.1:6379"`
	// MaxConnections of 0 accepts any number of connections
	MaxConnections int `yaml:"max_connections" env:"RESPKV_MAX_CONNECTIONS" env-default:"0"`
	// IdleTimeout of 0 keeps silent connections open forever
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"RESPKV_IDLE_TIMEOUT" env-default:"0s"`
}

// ProtocolConfig bounds what a peer may send. Zero values mean unbounded.
type ProtocolConfig struct {
	MaxLineSize      string `yaml:"max_line_size" env:"RESPKV_MAX_LINE_SIZE" env-default:"0"`
	MaxLineSizeBytes uint64 `yaml:"-"` // calculated field
	MaxArrayLen      int    `yaml:"max_array_len" env:"RESPKV_MAX_ARRAY_LEN" env-default:"0"`
	MaxDepth         int    `yaml:"max_depth" env:"RESPKV_MAX_DEPTH" env-default:"0"`
}

// LoggingConfig is the configuration for the logging
type LoggingConfig struct {
	// Level overrides the default level of Env when set
	Level  string `yaml:"level" env:"RESPKV_LOG_LEVEL"`
	Output string `yaml:"output" env:"RESPKV_LOG_OUTPUT" env-default:"stdout"`
}

// NewConfig creates a new instance of Config. The file at path is optional:
// when it does not exist, defaults and environment variables are used.
func NewConfig(path string) (*Config, error) {
	cfg := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		// Load configuration from yaml file
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Load environment variables
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read env variables: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	// Calculate MaxLineSizeBytes
	size, err := parseSize(cfg.Protocol.MaxLineSize)
	if err != nil {
		return nil, fmt.Errorf("invalid protocol.max_line_size: %w", err)
	}
	cfg.Protocol.MaxLineSizeBytes = size

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithPort replaces the port of the listen address
func (c *Config) WithPort(port int) error {
	host, _, err := net.SplitHostPort(c.Network.Address)
	if err != nil {
		return fmt.Errorf("invalid network.address: %w", err)
	}
	c.Network.Address = net.JoinHostPort(host, strconv.Itoa(port))

	return nil
}

func (c *Config) validate() error {
	var errs []error

	if c.Env != Dev && c.Env != Prod {
		errs = append(errs, fmt.Errorf("unknown env %q", c.Env))
	}
	if c.Network.MaxConnections < 0 {
		errs = append(errs, errors.New("network.max_connections must not be negative"))
	}
	if c.Network.IdleTimeout < 0 {
		errs = append(errs, errors.New("network.idle_timeout must not be negative"))
	}
	if c.Protocol.MaxArrayLen < 0 {
		errs = append(errs, errors.New("protocol.max_array_len must not be negative"))
	}
	if c.Protocol.MaxDepth < 0 {
		errs = append(errs, errors.New("protocol.max_depth must not be negative"))
	}
	if c.Logging.Output != "stdout" && c.Logging.Output != "stderr" {
		errs = append(errs, fmt.Errorf("unknown logging.output %q", c.Logging.Output))
	}

	return errors.Join(errs...)
}
