package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/RayMarquina/dbt-project-sub004/internal/config"
	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths. Blocks may appear in any file, but
// exactly one project block must exist across all of them.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{Selectors: make(map[string]*config.Selector)}

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl project files found in %v", paths)
	}

	parser := hclparse.NewParser()
	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		if err := l.merge(ctx, model, &root); err != nil {
			return nil, err
		}
	}

	if model.Project == nil {
		return nil, fmt.Errorf("no project block found in %v", paths)
	}

	logger.Debug("HCL loading complete.", "project", model.Project.Name, "resources", len(model.Resources), "selectors", len(model.Selectors))
	return model, nil
}

// merge translates and appends every block of one file into model.
func (l *Loader) merge(ctx context.Context, model *config.Model, root *fileRoot) error {
	for _, p := range root.Projects {
		if model.Project != nil {
			return fmt.Errorf("duplicate project block '%s', project '%s' already declared", p.Name, model.Project.Name)
		}
		model.Project = translateProject(p)
	}

	add := func(r *config.Resource, err error) error {
		if err != nil {
			return err
		}
		model.Resources = append(model.Resources, r)
		return nil
	}
	for _, m := range root.Models {
		if err := add(translateModel(ctx, m)); err != nil {
			return err
		}
	}
	for _, t := range root.Tests {
		if err := add(translateTest(ctx, t)); err != nil {
			return err
		}
	}
	for _, s := range root.Seeds {
		if err := add(translateResource(ctx, node.KindSeed, s)); err != nil {
			return err
		}
	}
	for _, s := range root.Snapshots {
		if err := add(translateSnapshot(ctx, s)); err != nil {
			return err
		}
	}
	for _, o := range root.Operations {
		if err := add(translateResource(ctx, node.KindOperation, o)); err != nil {
			return err
		}
	}
	for _, s := range root.Selectors {
		if _, exists := model.Selectors[s.Name]; exists {
			return fmt.Errorf("duplicate selector '%s'", s.Name)
		}
		model.Selectors[s.Name] = translateSelector(s)
	}
	return nil
}

// findAllHCLFiles walks all given paths and returns a sorted list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && filepath.Ext(p) == ".hcl" {
					if _, wasSeen := seen[p]; !wasSeen {
						allFiles = append(allFiles, p)
						seen[p] = struct{}{}
					}
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if filepath.Ext(path) == ".hcl" {
			if _, wasSeen := seen[path]; !wasSeen {
				allFiles = append(allFiles, path)
				seen[path] = struct{}{}
			}
		}
	}
	slices.Sort(allFiles)
	return allFiles, nil
}
