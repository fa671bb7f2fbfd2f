package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/anirudhraja/protoscan/digest"
	"github.com/anirudhraja/protoscan/fieldpath"
)

// EnvLogLevel overrides the configured log level when set
const EnvLogLevel = "PROTOSCAN_LOG_LEVEL"

const (
	defaultLogLevel = "info"
	defaultMaxDepth = 16
)

// Config is the protoscan configuration file
type Config struct {
	LogLevel   string            `toml:"log_level"`
	LogJSON    bool              `toml:"log_json"`
	SchemaDirs []string          `toml:"schema_dirs"`
	Paths      map[string]string `toml:"paths"`
	Rules      []RuleConfig      `toml:"rules"`
	Dump       DumpConfig        `toml:"dump"`
}

// RuleConfig renders one message kind in the digest command
type RuleConfig struct {
	Kind     string `toml:"kind"`
	Path     string `toml:"path"`
	Template string `toml:"template"`
	Await    bool   `toml:"await"`
}

// DumpConfig holds dump defaults
type DumpConfig struct {
	MaxDepth int `toml:"max_depth"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	cfg := Config{
		LogLevel: defaultLogLevel,
		Paths:    map[string]string{},
		Dump:     DumpConfig{MaxDepth: defaultMaxDepth},
	}
	applyEnv(&cfg)
	return cfg
}

// Load reads a TOML config file, fills in defaults and validates it
func Load(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if _, statErr := os.Stat(path); statErr != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, statErr)
		}
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if !meta.IsDefined("dump", "max_depth") {
		cfg.Dump.MaxDepth = defaultMaxDepth
	}
	if cfg.Paths == nil {
		cfg.Paths = map[string]string{}
	}
	applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		cfg.LogLevel = level
	}
}

// Validate checks path aliases and rules
func Validate(cfg Config) error {
	for name, text := range cfg.Paths {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("path alias missing name")
		}
		if _, err := fieldpath.Parse(text); err != nil {
			return fmt.Errorf("path alias %q invalid: %w", name, err)
		}
	}
	for i, rule := range cfg.Rules {
		if err := ValidateRule(rule, cfg.Paths); err != nil {
			return fmt.Errorf("rule[%d] invalid: %w", i, err)
		}
	}
	return nil
}

// ValidateRule checks a rule. Its path may name an alias.
func ValidateRule(rule RuleConfig, aliases map[string]string) error {
	if strings.TrimSpace(rule.Kind) == "" {
		return fmt.Errorf("kind is required")
	}
	if rule.Path == "" && rule.Template == "" {
		return fmt.Errorf("path or template is required")
	}
	if rule.Path == "" {
		return nil
	}
	text := rule.Path
	if alias, ok := aliases[text]; ok {
		text = alias
	}
	_, err := fieldpath.Parse(text)
	return err
}

// ResolvePath returns the path behind an alias, or parses name as a literal
// path when no alias matches
func (c Config) ResolvePath(name string) (fieldpath.Path, error) {
	if text, ok := c.Paths[name]; ok {
		return fieldpath.Parse(text)
	}
	return fieldpath.Parse(name)
}

// DigestRules converts the rule table for digest.NewExtractor. Rules are
// expected to be validated already.
func (c Config) DigestRules() ([]digest.Rule, error) {
	rules := make([]digest.Rule, 0, len(c.Rules))
	for _, rc := range c.Rules {
		rule := digest.Rule{Kind: rc.Kind, Template: rc.Template, Await: rc.Await}
		if rc.Path != "" {
			p, err := c.ResolvePath(rc.Path)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", rc.Kind, err)
			}
			rule.Path = p
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Encode renders the config as TOML
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("config encode failed: %w", err)
	}
	return buf.Bytes(), nil
}
