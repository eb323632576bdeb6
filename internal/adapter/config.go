// Package adapter holds the thin glue to the outside world:
// configuration files and logging.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Library LibraryConfig `mapstructure:"library"`
	Player  PlayerConfig  `mapstructure:"player"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LibraryConfig holds storage configuration
type LibraryConfig struct {
	DataDir string `mapstructure:"data_dir"` // Where the database and staged content live

	// CopyImports embeds every imported file into the database instead
	// of referencing the source file in place. Slower imports, but the
	// library keeps working when sources move or unmount.
	CopyImports bool `mapstructure:"copy_imports"`
}

// PlayerConfig holds audio output configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"` // Player binary, "mpv" when empty
	Socket  string   `mapstructure:"socket"`  // IPC socket path, auto-generated when empty
	Args    []string `mapstructure:"args"`    // Extra player arguments
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{
			DataDir:     defaultDataPath(),
			CopyImports: false,
		},
		Player: PlayerConfig{
			Command: "mpv",
			Args:    []string{},
		},
		UI: UIConfig{
			Theme: "default",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "crate")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "crate")
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	return filepath.Join(defaultDataPath(), "crate.log")
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "crate")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "crate")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("CRATE")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("library.data_dir", cfg.Library.DataDir)
	viper.Set("library.copy_imports", cfg.Library.CopyImports)

	viper.Set("player.command", cfg.Player.Command)
	viper.Set("player.socket", cfg.Player.Socket)
	viper.Set("player.args", cfg.Player.Args)

	viper.Set("ui.theme", cfg.UI.Theme)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CachePath returns the directory for staged playback content.
func (c *Config) CachePath() string {
	return filepath.Join(c.Library.DataDir, "cache")
}
