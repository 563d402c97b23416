package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/Tsinling0525/flowpatch/model"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// ParseFile loads a Config from a file on top of Default. The file
// extension picks the format (JSON or YAML).
func ParseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return ParseJSON(data)
	case ".yml", ".yaml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported config extension: %s", ext)
	}
}

// ParseYAML loads a Config from YAML. Unknown keys are rejected.
func ParseYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseJSON loads a Config from JSON
func ParseJSON(data []byte) (*Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseRules reads a rules file ({rules: [...]}) and checks every rule.
func ParseRules(data []byte) ([]model.Rule, error) {
	var set model.RuleSet
	if err := yaml.UnmarshalWithOptions(data, &set, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidRule, err)
	}
	for _, r := range set.Rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	return set.Rules, nil
}

// DefaultRules is the built-in rule table.
func DefaultRules() []model.Rule {
	rules, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rules: %v", err))
	}
	return rules
}

// LoadRules resolves the rules for a patch run: a rules file (from --rules,
// FLOWPATCH_RULES or patch.rules_file, in that order) wins over inline
// patch.rules, which win over the built-in table.
func (c *Config) LoadRules() ([]model.Rule, error) {
	if c.Patch.RulesFile != "" {
		data, err := os.ReadFile(c.Patch.RulesFile)
		if err != nil {
			return nil, err
		}
		return ParseRules(data)
	}
	if len(c.Patch.Rules) > 0 {
		for _, r := range c.Patch.Rules {
			if err := r.Validate(); err != nil {
				return nil, err
			}
		}
		return c.Patch.Rules, nil
	}
	return DefaultRules(), nil
}
