package app

import (
	"errors"
	"fmt"
	"runtime"
	"slices"

	"dario.cat/mergo"
	"github.com/RayMarquina/dbt-project-sub004/internal/adapters"
	"github.com/RayMarquina/dbt-project-sub004/internal/config"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectDir string // hcl files

	// Select and Exclude are raw selector values; each may hold several
	// whitespace-separated patterns.
	Select  []string
	Exclude []string
	// Selector names a selector declared in the project files. It replaces
	// Select and Exclude.
	Selector string
	// ResourceTypes restricts the selection. Empty means every kind.
	ResourceTypes []node.Kind
	// ListOnly prints the selection instead of running it.
	ListOnly bool

	Settings Settings
	Adapter  string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	ProgressURL     string
}

// Settings are the run settings a project file may also provide. Zero values
// are filled from the project before defaults apply.
type Settings struct {
	Threads        int
	FailFast       bool
	SingleThreaded bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectDir == "" {
		return nil, errors.New("ProjectDir is a required configuration field and cannot be empty")
	}
	if cfg.Selector != "" && (len(cfg.Select) > 0 || len(cfg.Exclude) > 0) {
		return nil, errors.New("--selector cannot be combined with --select or --exclude")
	}
	if cfg.Settings.Threads < 0 {
		return nil, fmt.Errorf("threads must not be negative, got %d", cfg.Settings.Threads)
	}
	if cfg.Adapter == "" {
		cfg.Adapter = "shell"
	}
	if !slices.Contains(adapters.Names(), cfg.Adapter) {
		return nil, fmt.Errorf("unknown adapter '%s' (available: %v)", cfg.Adapter, adapters.Names())
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port out of range: %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}

// effectiveSettings merges project defaults under the command-line settings
// and applies the remaining defaults.
func effectiveSettings(cli Settings, project *config.Project) (Settings, error) {
	out := cli
	if project != nil {
		var fromProject Settings
		if project.Threads != nil {
			fromProject.Threads = *project.Threads
		}
		if project.FailFast != nil {
			fromProject.FailFast = *project.FailFast
		}
		if err := mergo.Merge(&out, fromProject); err != nil {
			return Settings{}, fmt.Errorf("merging project settings: %w", err)
		}
	}
	if out.Threads <= 0 {
		out.Threads = runtime.NumCPU()
	}
	return out, nil
}
