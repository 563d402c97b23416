package config

import (
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/Tsinling0525/flowpatch/infra/api"
	"github.com/Tsinling0525/flowpatch/model"
)

const (
	DefaultMigratedSuffix = ".migrated"
	DefaultPatchedSuffix  = ".patched"
)

// Config holds everything a run needs that used to be hard-coded: file
// paths, node ids, the API endpoint and its token.
type Config struct {
	// Workflow is the input workflow file. It is never written.
	Workflow  string        `yaml:"workflow" json:"workflow"`
	BackupDir string        `yaml:"backup_dir,omitempty" json:"backup_dir,omitempty"`
	LogLevel  string        `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	API       APIConfig     `yaml:"api" json:"api"`
	Migrate   MigrateConfig `yaml:"migrate" json:"migrate"`
	Patch     PatchConfig   `yaml:"patch" json:"patch"`
}

type APIConfig struct {
	URL        string `yaml:"url" json:"url"`
	Key        string `yaml:"key,omitempty" json:"key,omitempty"`
	WorkflowID string `yaml:"workflow_id" json:"workflow_id"`
	Header     string `yaml:"header,omitempty" json:"header,omitempty"`
	Bearer     bool   `yaml:"bearer,omitempty" json:"bearer,omitempty"`
	// TimeoutSeconds bounds the single PUT call.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
}

type MigrateConfig struct {
	Catalog string `yaml:"catalog" json:"catalog"`
	// Targets maps legacy node id to a human label. Empty means every id
	// the catalog replaces.
	Targets map[string]string `yaml:"targets,omitempty" json:"targets,omitempty"`
	Suffix  string            `yaml:"suffix,omitempty" json:"suffix,omitempty"`
}

type PatchConfig struct {
	RulesFile string       `yaml:"rules_file,omitempty" json:"rules_file,omitempty"`
	Rules     []model.Rule `yaml:"rules,omitempty" json:"rules,omitempty"`
	Suffix    string       `yaml:"suffix,omitempty" json:"suffix,omitempty"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		API: APIConfig{
			Header:         api.DefaultHeader,
			TimeoutSeconds: int(api.DefaultTimeout / time.Second),
		},
		Migrate: MigrateConfig{Suffix: DefaultMigratedSuffix},
		Patch:   PatchConfig{Suffix: DefaultPatchedSuffix},
	}
}

// ApplyEnv overrides fields from the environment. Secrets belong here or in
// an untracked config file, never in source.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Workflow, "FLOWPATCH_WORKFLOW")
	set(&c.BackupDir, "FLOWPATCH_BACKUP_DIR")
	set(&c.LogLevel, "FLOWPATCH_LOG_LEVEL")
	set(&c.Migrate.Catalog, "FLOWPATCH_CATALOG")
	set(&c.Patch.RulesFile, "FLOWPATCH_RULES")
	set(&c.API.URL, "N8N_API_URL")
	set(&c.API.Key, "N8N_API_KEY")
	set(&c.API.WorkflowID, "N8N_WORKFLOW_ID")
	if v := getenv("N8N_API_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.TimeoutSeconds = n
		}
	}
}

// TargetIDs returns the configured migration targets in sorted order.
func (c *Config) TargetIDs() []string {
	ids := make([]string, 0, len(c.Migrate.Targets))
	for id := range c.Migrate.Targets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Client builds the API client settings.
func (c *Config) Client() api.Config {
	return api.Config{
		BaseURL: c.API.URL,
		APIKey:  c.API.Key,
		Header:  c.API.Header,
		Bearer:  c.API.Bearer,
		Timeout: time.Duration(c.API.TimeoutSeconds) * time.Second,
	}
}
