package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "plsense.yaml"

// EnvPrefix prefixes every environment override, e.g.
// PLSENSE_CATEGORIZER_USE_AI.
const EnvPrefix = "PLSENSE"

// Config represents the top-level plsense.yaml configuration.
type Config struct {
	Categorizer  CategorizerConfig `yaml:"categorizer" split_words:"true"`
	TaxonomyFile string            `yaml:"taxonomy_file,omitempty" split_words:"true"`
	Waterfall    WaterfallConfig   `yaml:"waterfall" split_words:"true"`
	Log          LogConfig         `yaml:"log" split_words:"true"`
}

// CategorizerConfig controls the external account categorizer.
type CategorizerConfig struct {
	UseAI        bool          `yaml:"use_ai" split_words:"true"`
	Provider     string        `yaml:"provider" split_words:"true" validate:"oneof=gemini file"`
	Model        string        `yaml:"model,omitempty" split_words:"true"`
	APIKey       string        `yaml:"-" split_words:"true"` // environment only
	MappingsFile string        `yaml:"mappings_file,omitempty" split_words:"true" validate:"required_if=Provider file"`
	Timeout      time.Duration `yaml:"timeout" split_words:"true" validate:"gte=0"`
}

// WaterfallConfig holds bridge defaults.
type WaterfallConfig struct {
	TopN int `yaml:"top_n" split_words:"true" validate:"gte=0,lte=50"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=console json"`
}

// Load reads a plsense.yaml file from disk, applies PLSENSE_* environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return finish(cfg)
}

// LoadOrDefault is Load, falling back to Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return finish(Default())
	}
	return cfg, err
}

func finish(cfg *Config) (*Config, error) {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults: fuzzy matching only,
// five waterfall drivers, info-level console logs.
func Default() *Config {
	return &Config{
		Categorizer: CategorizerConfig{
			UseAI:    false,
			Provider: "gemini",
			Timeout:  30 * time.Second,
		},
		Waterfall: WaterfallConfig{
			TopN: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
