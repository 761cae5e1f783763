// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/nxrag/internal/corpus"
	"github.com/jonathan/nxrag/internal/llm"
)

// DefaultPath is where the CLI looks for its config file
const DefaultPath = "configs/app.yaml"

// Environment variables that override file values
const (
	EnvProvider    = "NX_RAG_LLM_PROVIDER"
	EnvModel       = "NX_RAG_MODEL"
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
)

// Config represents the CLI configuration loaded from configs/app.yaml.
// Missing values keep their defaults; CLI flags win over both.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Paths    PathsConfig    `yaml:"paths"`
	Limits   LimitsConfig   `yaml:"limits"`
	LLM      LLMConfig      `yaml:"llm"`
	Logging  LoggingConfig  `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
}

// AppConfig names the application and its default model
type AppConfig struct {
	Name         string `yaml:"name"`
	DefaultModel string `yaml:"default_model"`
}

// PathsConfig locates assets, the corpus, run outputs and the prompt template
type PathsConfig struct {
	Assets   string `yaml:"assets"`
	Corpus   string `yaml:"corpus"`
	Outputs  string `yaml:"outputs"`
	Template string `yaml:"template"`
}

// LimitsConfig bounds retrieval and generation
type LimitsConfig struct {
	MaxChunks         int `yaml:"max_chunks" validate:"gte=0"`
	MaxTokens         int `yaml:"max_tokens" validate:"gt=0"`
	MaxExemplars      int `yaml:"max_exemplars" validate:"gte=0"`
	MaxCharsPerDoc    int `yaml:"max_chars_per_doc" validate:"gt=0"`
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"gte=0"`
}

// LLMConfig selects the generation backend
type LLMConfig struct {
	Provider string `yaml:"provider" validate:"oneof=stub gemini"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"-"`
}

// LoggingConfig sets the zap level
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// DatabaseConfig enables the optional Postgres mirror when URL is set
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{Name: "nxrag", DefaultModel: llm.DefaultModel},
		Paths: PathsConfig{
			Assets:   "assets",
			Corpus:   "assets/corpus",
			Outputs:  "var/runs",
			Template: "configs/prompts/part_description.md",
		},
		Limits: LimitsConfig{
			MaxChunks:      10,
			MaxTokens:      llm.DefaultMaxTokens,
			MaxExemplars:   corpus.DefaultMaxExemplars,
			MaxCharsPerDoc: corpus.DefaultMaxCharsPerDoc,
		},
		LLM:     LLMConfig{Provider: "stub"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a YAML file over the defaults, then applies
// environment overrides. Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	cfg.applyEnvOverrides()

	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to defaults otherwise.
// Environment overrides apply either way.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}
	}
	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvProvider); v != "" {
		c.LLM.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Database.URL = v
	}
}

// Model returns the configured model, or the app default
func (c *Config) Model() string {
	if c.LLM.Model != "" {
		return c.LLM.Model
	}
	return c.App.DefaultModel
}

// Validate checks that the configuration has valid values.
// Paths are not checked here; the commands that need them report missing files.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' check (value: %v)", yamlPath(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// yamlPath turns "Config.Limits.MaxTokens" into "limits.max_tokens"
func yamlPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snakeCase(p)
	}
	return strings.Join(parts, ".")
}

func snakeCase(s string) string {
	if s == "LLM" {
		return "llm"
	}
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.App.Name == "" {
		result.App.Name = defaults.App.Name
	}
	if result.App.DefaultModel == "" {
		result.App.DefaultModel = defaults.App.DefaultModel
	}
	if result.Paths.Assets == "" {
		result.Paths.Assets = defaults.Paths.Assets
	}
	if result.Paths.Corpus == "" {
		result.Paths.Corpus = defaults.Paths.Corpus
	}
	if result.Paths.Outputs == "" {
		result.Paths.Outputs = defaults.Paths.Outputs
	}
	if result.Paths.Template == "" {
		result.Paths.Template = defaults.Paths.Template
	}
	if result.LLM.Provider == "" {
		result.LLM.Provider = defaults.LLM.Provider
	}
	if result.LLM.Model == "" {
		result.LLM.Model = defaults.LLM.Model
	}
	if result.LLM.APIKey == "" {
		result.LLM.APIKey = defaults.LLM.APIKey
	}
	if result.Logging.Level == "" {
		result.Logging.Level = defaults.Logging.Level
	}
	if result.Database.URL == "" {
		result.Database.URL = defaults.Database.URL
	}

	// Int fields: use default if zero
	if result.Limits.MaxChunks == 0 {
		result.Limits.MaxChunks = defaults.Limits.MaxChunks
	}
	if result.Limits.MaxTokens == 0 {
		result.Limits.MaxTokens = defaults.Limits.MaxTokens
	}
	if result.Limits.MaxCharsPerDoc == 0 {
		result.Limits.MaxCharsPerDoc = defaults.Limits.MaxCharsPerDoc
	}
	// max_exemplars and requests_per_minute treat zero as a real value, so they are not merged

	return result
}
