package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for casegen
type Config struct {
	Rules      RulesConfig   `yaml:"rules"`
	Arrays     ArraysConfig  `yaml:"arrays"`
	Objects    ObjectsConfig `yaml:"objects"`
	SkipFields []string      `yaml:"skip_fields"`
	Output     OutputConfig  `yaml:"output"`
	Runner     RunnerConfig  `yaml:"runner"`
	Store      StoreConfig   `yaml:"store"`
	Server     ServerConfig  `yaml:"server"`
	Dev        DevConfig     `yaml:"dev"`
}

// RulesConfig toggles the domain rule sets applied on top of the type rules
type RulesConfig struct {
	Email KeyRule `yaml:"email"`
	UUID  Toggle  `yaml:"uuid"`
	Date  KeyRule `yaml:"date"`
}

// Toggle enables or disables a rule set
type Toggle struct {
	Enabled bool `yaml:"enabled"`
}

// KeyRule is a rule set triggered by a field key matching a pattern
type KeyRule struct {
	Enabled    bool   `yaml:"enabled"`
	KeyPattern string `yaml:"key_pattern"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// ArraysConfig controls array mutations
type ArraysConfig struct {
	// MaxLength is the largest array the target is assumed to accept; the
	// oversize case uses MaxLength+1 elements.
	MaxLength int `yaml:"max_length"`
}

// ObjectsConfig controls object mutations
type ObjectsConfig struct {
	UnknownField string `yaml:"unknown_field"`
	UnknownValue string `yaml:"unknown_value"`
}

// OutputConfig controls how generated cases are written
type OutputConfig struct {
	Format string `yaml:"format"` // json or yaml
	Indent int    `yaml:"indent"`
}

// RunnerConfig controls execution of cases against a live endpoint
type RunnerConfig struct {
	URL         string            `yaml:"url"`
	Method      string            `yaml:"method"`
	Token       string            `yaml:"token"`
	Timeout     time.Duration     `yaml:"timeout"`
	Concurrency int               `yaml:"concurrency"`
	Headers     map[string]string `yaml:"headers"`
}

// StoreConfig controls run history persistence
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool `yaml:"debug"`
	Verbose bool `yaml:"verbose"`
}

// Default values
const (
	DefaultEmailKeyPattern = `(?i)mail`
	DefaultDateKeyPattern  = `(?i)date`
	DefaultMaxArrayLength  = 100
	DefaultUnknownField    = "unknownField"
	DefaultUnknownValue    = "unexpected"
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	cfg := &Config{
		Rules: RulesConfig{
			Email: KeyRule{Enabled: true, KeyPattern: DefaultEmailKeyPattern},
			UUID:  Toggle{Enabled: true},
			Date:  KeyRule{Enabled: true, KeyPattern: DefaultDateKeyPattern},
		},
		Arrays: ArraysConfig{
			MaxLength: DefaultMaxArrayLength,
		},
		Objects: ObjectsConfig{
			UnknownField: DefaultUnknownField,
			UnknownValue: DefaultUnknownValue,
		},
		SkipFields: []string{},
		Output: OutputConfig{
			Format: "json",
			Indent: 2,
		},
		Runner: RunnerConfig{
			Method:      "POST",
			Timeout:     30 * time.Second,
			Concurrency: 1,
			Headers:     make(map[string]string),
		},
		Store: StoreConfig{
			Path: "casegen.db",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
	// Defaults are known-good patterns.
	_ = cfg.compilePatterns()
	return cfg
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".casegen.yml", ".casegen.yaml", "casegen.yml", "casegen.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks value ranges and compiles regex patterns
func (c *Config) Validate() error {
	if c.Arrays.MaxLength < 0 {
		return fmt.Errorf("arrays.max_length must not be negative, got %d", c.Arrays.MaxLength)
	}
	if c.Runner.Concurrency < 1 {
		c.Runner.Concurrency = 1
	}
	if c.Output.Indent < 0 {
		return fmt.Errorf("output.indent must not be negative, got %d", c.Output.Indent)
	}
	switch c.Output.Format {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("output.format must be json or yaml, got '%s'", c.Output.Format)
	}
	if c.Objects.UnknownField == "" {
		c.Objects.UnknownField = DefaultUnknownField
	}
	if err := c.compilePatterns(); err != nil {
		return fmt.Errorf("failed to compile patterns: %w", err)
	}
	return nil
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	for _, rule := range []*KeyRule{&c.Rules.Email, &c.Rules.Date} {
		rule.regex = nil
		if rule.KeyPattern == "" {
			continue
		}
		regex, err := regexp.Compile(rule.KeyPattern)
		if err != nil {
			return fmt.Errorf("invalid key pattern '%s': %w", rule.KeyPattern, err)
		}
		rule.regex = regex
	}
	return nil
}

// MatchesKey checks if this rule is enabled and its pattern matches the key
func (kr *KeyRule) MatchesKey(key string) bool {
	if !kr.Enabled || kr.KeyPattern == "" {
		return false
	}
	if kr.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(kr.KeyPattern)
		if err != nil {
			return false
		}
		kr.regex = regex
	}
	return kr.regex.MatchString(key)
}

// ShouldSkipField checks if a field path is excluded from generation
func (c *Config) ShouldSkipField(path string) bool {
	for _, skip := range c.SkipFields {
		if skip == path {
			return true
		}
	}
	return false
}

// Overrides holds values supplied on the command line. Zero values mean
// "not set" and leave the loaded config untouched.
type Overrides struct {
	Format      string
	URL         string
	Method      string
	Token       string
	Timeout     time.Duration
	Concurrency int
	StorePath   string
	ServerAddr  string
	Debug       bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	// Start with defaults
	cfg := NewConfig()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if o.Format != "" {
		cfg.Output.Format = o.Format
	}
	if o.URL != "" {
		cfg.Runner.URL = o.URL
	}
	if o.Method != "" {
		cfg.Runner.Method = o.Method
	}
	if o.Token != "" {
		cfg.Runner.Token = o.Token
	}
	if o.Timeout > 0 {
		cfg.Runner.Timeout = o.Timeout
	}
	if o.Concurrency > 0 {
		cfg.Runner.Concurrency = o.Concurrency
	}
	if o.StorePath != "" {
		cfg.Store.Path = o.StorePath
	}
	if o.ServerAddr != "" {
		cfg.Server.Addr = o.ServerAddr
	}
	// A flag can only switch debug on.
	if o.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
