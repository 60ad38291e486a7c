package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Mode is the execution mode the process runs under.
//
// It decides whether the engine selector is allowed to substitute the
// in-memory store for the embedded engine.
type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
	ModeTest        Mode = "test"
)

// EnvMode and EnvInMemory are the two environment variables the engine
// selector consumes. Both are read once, at acquisition time.
const (
	EnvMode     = "BULLETIN_ENV"
	EnvInMemory = "BULLETIN_IN_MEMORY"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Admin    AdminConfig    `toml:"admin"`
}

// DatabaseConfig contains persistence settings.
//
// Path is the SQLite database file; SnapshotPath is where the in-memory
// store serializes its state when the embedded engine is not in use.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	SnapshotPath string `toml:"snapshot_path"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// AdminConfig contains the shared passcode that unlocks edit mode in clients.
type AdminConfig struct {
	Passcode string `toml:"passcode"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
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
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ModeFromEnv reads the execution mode from BULLETIN_ENV.
//
// Unset or unrecognized values default to development, which keeps local
// runs free of native-engine dependencies.
func ModeFromEnv() Mode {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvMode))) {
	case "production", "prod":
		return ModeProduction
	case "test":
		return ModeTest
	default:
		return ModeDevelopment
	}
}

// ForceInMemoryFromEnv reports whether BULLETIN_IN_MEMORY requests the
// in-memory store regardless of execution mode.
func ForceInMemoryFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvInMemory))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
