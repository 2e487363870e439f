package app

import (
	"fmt"

	"github.com/RayMarquina/dbt-project-sub004/internal/selector"
)

// Select resolves the configured selection against the project. Warnings
// recorded by an earlier call are forgotten first.
func (a *App) Select() ([]string, error) {
	a.diags.Reset()
	include, exclude := a.config.Select, a.config.Exclude
	if a.config.Selector != "" {
		named, err := a.model.Selector(a.config.Selector)
		if err != nil {
			return nil, err
		}
		include, exclude = named.Include, named.Exclude
	}

	spec, err := selector.ParseSpec(include, exclude)
	if err != nil {
		return nil, fmt.Errorf("parsing selection: %w", err)
	}
	spec = spec.WithResourceTypes(a.config.ResourceTypes...)

	ids := selector.Select(a.store, spec, a.diags)
	a.logger.Debug("Selection resolved.", "selected", len(ids), "include", include, "exclude", exclude)
	return ids, nil
}
