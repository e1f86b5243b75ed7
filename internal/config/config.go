// Package config provides functionality for managing configuration options
// for the admin client and the stub backend using config files, environment
// variables and command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Client holds the configuration values for the admin client.
type Client struct {
	// APIURL is the backend base URL every request is resolved against.
	APIURL string `yaml:"api_url"`

	// SessionFile is where the auth token is persisted between runs.
	SessionFile string `yaml:"session_file"`

	// LogLevel is the zap level name.
	LogLevel string `yaml:"log_level"`

	// Timeout bounds every HTTP request.
	Timeout time.Duration `yaml:"timeout"`

	// CAFile optionally points to a PEM CA bundle trusted for the API host.
	CAFile string `yaml:"ca_file"`
}

// Server holds the configuration values for the stub backend.
type Server struct {
	// Address defines the server's listening address (ip:port).
	Address string `yaml:"address"`

	// DatabaseDSN holds the PostgreSQL connection string. Empty means in-memory storage.
	DatabaseDSN string `yaml:"database_dsn"`

	// LogLevel is the zap level name.
	LogLevel string `yaml:"log_level"`

	// PublicURL prefixes the URLs returned for uploaded files.
	PublicURL string `yaml:"public_url"`

	// AdminEmail and AdminPassword seed the bootstrap administrator.
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`

	// TokenTTL is how long issued bearer tokens stay valid.
	TokenTTL time.Duration `yaml:"token_ttl"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`
}

// DefaultClient returns the client defaults.
func DefaultClient() Client {
	return Client{
		APIURL:      "http://localhost:5000",
		SessionFile: "session.json",
		LogLevel:    "warn",
		Timeout:     10 * time.Second,
	}
}

// DefaultServer returns the stub backend defaults.
func DefaultServer() Server {
	return Server{
		Address:       "localhost:5000",
		LogLevel:      "info",
		PublicURL:     "http://localhost:5000",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin",
		TokenTTL:      24 * time.Hour,
	}
}

// LoadClient builds the client configuration: defaults, then the optional
// config file (path, or $CONFIG when path is empty), then environment variables.
// Command-line flags are applied by the caller on top of the result.
func LoadClient(path string) (Client, error) {
	cfg := DefaultClient()

	if err := loadFile(configPath(path), &cfg); err != nil {
		return Client{}, err
	}

	if v := os.Getenv("API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("SESSION_FILE"); v != "" {
		cfg.SessionFile = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CA_FILE"); v != "" {
		cfg.CAFile = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Client{}, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// ParseServer parses the stub backend flags from args and layers them over
// defaults, the config file and environment variables. Flags given
// explicitly on the command line win.
func ParseServer(args []string) (Server, error) {
	var (
		cfgPath string
		flagged = DefaultServer()
	)

	flags := flag.NewFlagSet("server", flag.ContinueOnError)
	flags.StringVar(&flagged.Address, "a", flagged.Address, "run on ip:port server")
	flags.StringVar(&flagged.DatabaseDSN, "d", "", "db address")
	flags.StringVar(&flagged.LogLevel, "l", flagged.LogLevel, "log level")
	flags.StringVar(&flagged.PublicURL, "public-url", flagged.PublicURL, "public base URL for uploads")
	flags.StringVar(&flagged.TLSCert, "tls-cert", "", "path to server TLS certificate")
	flags.StringVar(&flagged.TLSKey, "tls-key", "", "path to server TLS key")
	flags.StringVar(&cfgPath, "config", "", "path to config file")
	flags.StringVar(&cfgPath, "c", "", "path to config file (shorthand)")
	if err := flags.Parse(args); err != nil {
		return Server{}, err
	}

	cfg := DefaultServer()
	if err := loadFile(configPath(cfgPath), &cfg); err != nil {
		return Server{}, err
	}

	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PUBLIC_URL"); v != "" {
		cfg.PublicURL = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		cfg.AdminEmail = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.AdminPassword = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Server{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.Address = flagged.Address
		case "d":
			cfg.DatabaseDSN = flagged.DatabaseDSN
		case "l":
			cfg.LogLevel = flagged.LogLevel
		case "public-url":
			cfg.PublicURL = flagged.PublicURL
		case "tls-cert":
			cfg.TLSCert = flagged.TLSCert
		case "tls-key":
			cfg.TLSKey = flagged.TLSKey
		}
	})

	return cfg, nil
}

// configPath prefers the path given on the command line over $CONFIG.
func configPath(path string) string {
	if path != "" {
		return path
	}
	return os.Getenv("CONFIG")
}

// loadFile decodes a YAML (or JSON) config file into out. An empty path means
// no config file; a named file that does not exist is an error.
func loadFile(path string, out any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
