package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	// APIKey authorizes uploads to the catalog app. Usually supplied on
	// the command line rather than stored here.
	APIKey string `json:"api_key"`
	// Endpoint is the host:port of the catalog gRPC API.
	Endpoint string `json:"endpoint"`
	// ScaleFactor divides both slide dimensions before upload. The default
	// keeps scaled slides under the service's request size limit.
	ScaleFactor int `json:"scale_factor"`
	// OutputFormat is the scaled image format: png, jpg or webp.
	OutputFormat string `json:"output_format"`
	// OutputQuality applies to jpg and webp output.
	OutputQuality int `json:"output_quality"`
	// ReferenceFile is the path of the specimen metadata table.
	ReferenceFile string `json:"reference_file"`
	// Verbose enables debug logging.
	Verbose bool `json:"verbose"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Endpoint:      "api.clarifai.com:443",
		ScaleFactor:   25,
		OutputFormat:  "png",
		OutputQuality: 90,
		ReferenceFile: "tcga_metadata.csv",
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
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
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}

	if c.ScaleFactor < 1 {
		return fmt.Errorf("scale_factor must be positive")
	}

	switch c.OutputFormat {
	case "png", "jpg", "jpeg", "webp":
	default:
		return fmt.Errorf("output_format must be png, jpg or webp")
	}

	if c.OutputQuality < 1 || c.OutputQuality > 100 {
		return fmt.Errorf("output_quality must be between 1 and 100")
	}

	if c.ReferenceFile == "" {
		return fmt.Errorf("reference_file cannot be empty")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "slide-uploader", "config.json")
}
