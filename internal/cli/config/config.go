package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ALCHEMY_SERVER_PORT
const EnvPrefix = "ALCHEMY"

// Config represents the alchemy configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Metadata MetadataConfig `mapstructure:"metadata"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	APIPrefix       string        `mapstructure:"api_prefix"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Metrics         bool          `mapstructure:"metrics"`
	Playground      bool          `mapstructure:"playground"`
}

// Address returns host:port
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig represents ArangoDB connection configuration
type DatabaseConfig struct {
	Endpoints []string `mapstructure:"endpoints"`
	Name      string   `mapstructure:"name"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// MetadataConfig locates the metadata map
type MetadataConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig represents logger configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads defaults, then the config file, then ALCHEMY_* environment
// variables. An empty path looks for alchemy.yaml in the working directory;
// a missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("alchemy")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.api_prefix", "")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.metrics", true)
	v.SetDefault("server.playground", true)

	v.SetDefault("database.endpoints", []string{"http://localhost:8529"})
	v.SetDefault("database.name", "_system")
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")

	v.SetDefault("metadata.path", "metadata.yaml")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate API prefix format
	if c.Server.APIPrefix != "" {
		if !strings.HasPrefix(c.Server.APIPrefix, "/") {
			return fmt.Errorf("server.api_prefix must start with '/', got: %s", c.Server.APIPrefix)
		}
		if strings.HasSuffix(c.Server.APIPrefix, "/") {
			return fmt.Errorf("server.api_prefix must not end with '/', got: %s", c.Server.APIPrefix)
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	if len(c.Database.Endpoints) == 0 {
		return fmt.Errorf("database.endpoints must list at least one endpoint")
	}
	for _, endpoint := range c.Database.Endpoints {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("database.endpoints: invalid endpoint %q", endpoint)
		}
	}

	if c.Database.Name == "" {
		return fmt.Errorf("database.name must not be empty")
	}

	if c.Metadata.Path == "" {
		return fmt.Errorf("metadata.path must not be empty")
	}

	return nil
}
