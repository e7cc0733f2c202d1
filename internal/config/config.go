package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the optional configuration file looked up in the search
// directory, without extension.
const FileName = "usersvc"

// Config represents the complete usersvc configuration
type Config struct {
	// DatabaseURL is the store connection string. postgres:// URLs use
	// PostgreSQL, anything else is treated as a SQLite path.
	DatabaseURL string `mapstructure:"database_url"`

	ListenAddr     string        `mapstructure:"listen_addr"`
	ReadBufferSize int           `mapstructure:"read_buffer_size"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// DefaultConfig returns the default configuration. DatabaseURL has no
// default and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:     "0.0.0.0:8080",
		ReadBufferSize: 1024,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxOpenConns:   0,
		LogLevel:       "info",
		LogFormat:      "human",
	}
}

// keys lists every setting; each is also read from the upper-cased
// environment variable of the same name.
var keys = []string{
	"database_url",
	"listen_addr",
	"read_buffer_size",
	"read_timeout",
	"write_timeout",
	"max_open_conns",
	"log_level",
	"log_format",
}

// LoadConfig loads configuration from the environment, falling back to
// usersvc.toml in dir and then to defaults.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("read_buffer_size", def.ReadBufferSize)
	v.SetDefault("read_timeout", def.ReadTimeout)
	v.SetDefault("write_timeout", def.WriteTimeout)
	v.SetDefault("max_open_conns", def.MaxOpenConns)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)

	for _, key := range keys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, err
		}
	}

	v.SetConfigName(FileName)
	v.SetConfigType("toml")
	if dir != "" {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &ConfigError{Field: FileName + ".toml", Message: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return &ConfigError{Field: "DATABASE_URL", Message: "must be set to the store connection string"}
	}
	if c.ListenAddr == "" {
		return &ConfigError{Field: "LISTEN_ADDR", Message: "must not be empty"}
	}
	if c.ReadBufferSize <= 0 {
		return &ConfigError{Field: "READ_BUFFER_SIZE", Message: "must be positive"}
	}
	if c.ReadTimeout < 0 {
		return &ConfigError{Field: "READ_TIMEOUT", Message: "must not be negative"}
	}
	if c.WriteTimeout < 0 {
		return &ConfigError{Field: "WRITE_TIMEOUT", Message: "must not be negative"}
	}
	if c.MaxOpenConns < 0 {
		return &ConfigError{Field: "MAX_OPEN_CONNS", Message: "must not be negative"}
	}
	switch strings.ToLower(c.LogFormat) {
	case "human", "json":
	default:
		return &ConfigError{Field: "LOG_FORMAT", Message: "must be human or json"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
