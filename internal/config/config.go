// Package config manages the DevHub settings file (~/.devhub/config.yaml)
// through viper, with DEVHUB_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/devhub-labs/devhub/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Settings keys.
const (
	// KeyMirrorsFile points at a user-supplied mirror catalog overriding
	// the bundled one.
	KeyMirrorsFile = "mirrors_file"
	// KeySpeedTestTimeout is the per-probe timeout in seconds.
	KeySpeedTestTimeout = "speedtest_timeout"
	// KeyShellTimeout bounds external tool probes, in seconds.
	KeyShellTimeout = "shell_timeout"
)

// Dir returns the path to the DevHub config directory (~/.devhub/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.devhub/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// MirrorsFile returns the user-configured catalog override path, or "".
func MirrorsFile() string {
	return Get(KeyMirrorsFile)
}

// SpeedTestTimeout returns the configured probe timeout, or 0 to let the
// speed test service apply its default.
func SpeedTestTimeout() time.Duration {
	return time.Duration(viper.GetInt(KeySpeedTestTimeout)) * time.Second
}

// ShellTimeout returns the configured external-process timeout, or 0 to
// let the shell runner apply its default.
func ShellTimeout() time.Duration {
	return time.Duration(viper.GetInt(KeyShellTimeout)) * time.Second
}
