package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/menta2k/label-analyzer/pkg/processing"
	"github.com/menta2k/label-analyzer/pkg/scale"
	"github.com/menta2k/label-analyzer/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Scale       ScaleConfig  `json:"scale" yaml:"scale"`
	ClassesFile string       `json:"classes_file" yaml:"classes_file"`
	Output      OutputConfig `json:"output" yaml:"output"`
	Images      ImagesConfig `json:"images" yaml:"images"`
}

// ScaleConfig describes the reference scale bar: Pixels pixels measure Real
// units of length.
type ScaleConfig struct {
	Pixels float64 `json:"pixels" yaml:"pixels"`
	Real   float64 `json:"real" yaml:"real"`
	Unit   string  `json:"unit" yaml:"unit"`
}

// OutputConfig holds the report directories
type OutputConfig struct {
	DiameterDir string `json:"diameter_dir" yaml:"diameter_dir"`
	CountDir    string `json:"count_dir" yaml:"count_dir"`
}

// ImagesConfig controls how the image belonging to a label file is found
type ImagesConfig struct {
	Extensions []string `json:"extensions" yaml:"extensions"`
	SearchDirs []string `json:"search_dirs" yaml:"search_dirs"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Scale: ScaleConfig{
			Unit: scale.DefaultUnit,
		},
		Output: OutputConfig{
			DiameterDir: "result",
			CountDir:    "count-result",
		},
		Images: ImagesConfig{
			Extensions: append([]string{}, processing.DefaultImageExtensions...),
			SearchDirs: append([]string{}, processing.DefaultSearchDirs...),
		},
	}
}

// LoadFromFile loads configuration from a JSON or YAML file. Fields absent
// from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON or YAML file, chosen by extension
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid. The scale is checked
// separately by Converter because counting runs do not need one.
func (c *Config) Validate() error {
	if c.Output.DiameterDir == "" {
		return fmt.Errorf("output.diameter_dir cannot be empty")
	}

	if c.Output.CountDir == "" {
		return fmt.Errorf("output.count_dir cannot be empty")
	}

	if len(c.Images.Extensions) == 0 {
		return fmt.Errorf("images.extensions cannot be empty")
	}

	if c.ClassesFile != "" {
		if info, err := os.Stat(c.ClassesFile); err != nil || info.IsDir() {
			return fmt.Errorf("classes_file %q is not a readable file", c.ClassesFile)
		}
	}

	return nil
}

// Converter builds the scale converter, failing with scale.ErrInvalidScale
// for an unusable reference scale.
func (c *Config) Converter() (*scale.Converter, error) {
	return scale.NewConverter(c.Scale.Pixels, c.Scale.Real, c.Scale.Unit)
}

// ProcessingOptions returns the image lookup settings
func (c *Config) ProcessingOptions() types.ProcessingOptions {
	return types.ProcessingOptions{
		ImageExtensions: c.Images.Extensions,
		ImageSearchDirs: c.Images.SearchDirs,
	}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(home, ".config", "label-analyzer", "config.yaml")
}
