package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Export ExportConfig `json:"export"`
	Matte  MatteConfig  `json:"matte"`
	Server ServerConfig `json:"server"`
	Output OutputConfig `json:"output"`
}

// ExportConfig holds configuration for the crop export pipeline
type ExportConfig struct {
	ArchiveBaseName string `json:"archive_base_name"`
	SettleDelayMS   int    `json:"settle_delay_ms"`
}

// MatteConfig holds configuration for background removal
type MatteConfig struct {
	DefaultColor   string `json:"default_color"`
	DefaultFeather int    `json:"default_feather"`
}

// ServerConfig holds configuration for the HTTP surface
type ServerConfig struct {
	Addr        string `json:"addr"`
	MaxUploadMB int    `json:"max_upload_mb"`
}

// OutputConfig holds configuration for on-disk output
type OutputConfig struct {
	Dir     string `json:"dir"`
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			ArchiveBaseName: "crops",
			SettleDelayMS:   500,
		},
		Matte: MatteConfig{
			DefaultColor:   "#ffffff",
			DefaultFeather: 0,
		},
		Server: ServerConfig{
			Addr:        "localhost:8382",
			MaxUploadMB: 64,
		},
		Output: OutputConfig{
			Dir:     "./output",
			Format:  "png",
			Quality: 90,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Export.ArchiveBaseName == "" {
		return fmt.Errorf("export.archive_base_name cannot be empty")
	}

	if c.Export.SettleDelayMS < 0 {
		return fmt.Errorf("export.settle_delay_ms cannot be negative")
	}

	if c.Matte.DefaultFeather < 0 || c.Matte.DefaultFeather > 100 {
		return fmt.Errorf("matte.default_feather must be between 0 and 100")
	}

	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	switch c.Output.Format {
	case "png", "jpg", "jpeg", "webp":
	default:
		return fmt.Errorf("output.format must be one of png, jpg, jpeg, webp")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "batch-cropper", "config.json")
}
