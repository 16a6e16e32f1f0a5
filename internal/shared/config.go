package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
}

// DatabaseConfig contains store connection settings.
//
// Path is used by the sqlite driver, URI and Name by the mongo driver.
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Path         string `toml:"path"`
	URI          string `toml:"uri"`
	Name         string `toml:"name"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	CORSOrigins     []string `toml:"cors_origins"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	AuthRateLimit   float64  `toml:"auth_rate_limit"`
	AuthRateBurst   int      `toml:"auth_rate_burst"`
}

// AuthConfig contains token signing and password hashing settings.
type AuthConfig struct {
	Secret     string   `toml:"secret"`
	TokenTTL   Duration `toml:"token_ttl"`
	BcryptCost int      `toml:"bcrypt_cost"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a [time.Duration] decoded from strings like "1h" or "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q", ErrInvalidConfig, string(text))
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveConfig loads path when it exists (defaults otherwise), then a .env file from the working directory,
// then applies environment overrides.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return config, config.Validate()
}

// ApplyEnv overrides config values from environment variables.
//
// MONGODB_URI also switches the driver to mongo, matching how the service is usually deployed.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("MONGODB_URI"); ok && v != "" {
		c.Database.Driver = DriverMongo
		c.Database.URI = v
	}
	if v, ok := lookup("DATABASE_PATH"); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := lookup("JWT_SECRET"); ok && v != "" {
		c.Auth.Secret = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
		}
	case DriverMongo:
		if c.Database.URI == "" || c.Database.Name == "" {
			return fmt.Errorf("%w: database.uri and database.name are required for mongo", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}

	if c.Auth.Secret == "" {
		return ErrMissingSecret
	}
	if c.Auth.TokenTTL.Duration <= 0 {
		return fmt.Errorf("%w: auth.token_ttl must be positive", ErrInvalidConfig)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}
