package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Projects   []*projectBlock  `hcl:"project,block"`
	Models     []*modelBlock    `hcl:"model,block"`
	Tests      []*testBlock     `hcl:"test,block"`
	Seeds      []*commonBlock   `hcl:"seed,block"`
	Snapshots  []*snapshotBlock `hcl:"snapshot,block"`
	Operations []*commonBlock   `hcl:"operation,block"`
	Selectors  []*selectorBlock `hcl:"selector,block"`
	Remain     hcl.Body         `hcl:",remain"`
}

// projectBlock represents the single `project "<name>"` block.
type projectBlock struct {
	Name       string   `hcl:"name,label"`
	Threads    *int     `hcl:"threads,optional"`
	FailFast   *bool    `hcl:"fail_fast,optional"`
	OnRunStart []string `hcl:"on_run_start,optional"`
	OnRunEnd   []string `hcl:"on_run_end,optional"`
}

// commonBlock holds the attributes every resource kind accepts.
type commonBlock struct {
	Name      string         `hcl:"name,label"`
	Path      string         `hcl:"path,optional"`
	Tags      []string       `hcl:"tags,optional"`
	DependsOn []string       `hcl:"depends_on,optional"`
	Command   string         `hcl:"command,optional"`
	Meta      hcl.Expression `hcl:"meta,optional"`
	Body      hcl.Body       `hcl:",body"`
}

type modelBlock struct {
	Name         string         `hcl:"name,label"`
	Path         string         `hcl:"path,optional"`
	Tags         []string       `hcl:"tags,optional"`
	DependsOn    []string       `hcl:"depends_on,optional"`
	Command      string         `hcl:"command,optional"`
	Meta         hcl.Expression `hcl:"meta,optional"`
	Materialized string         `hcl:"materialized,optional"`
	Body         hcl.Body       `hcl:",body"`
}

type testBlock struct {
	Name      string         `hcl:"name,label"`
	Path      string         `hcl:"path,optional"`
	Tags      []string       `hcl:"tags,optional"`
	DependsOn []string       `hcl:"depends_on,optional"`
	Command   string         `hcl:"command,optional"`
	Meta      hcl.Expression `hcl:"meta,optional"`
	Severity  string         `hcl:"severity,optional"`
	Body      hcl.Body       `hcl:",body"`
}

type snapshotBlock struct {
	Name      string         `hcl:"name,label"`
	Path      string         `hcl:"path,optional"`
	Tags      []string       `hcl:"tags,optional"`
	DependsOn []string       `hcl:"depends_on,optional"`
	Command   string         `hcl:"command,optional"`
	Meta      hcl.Expression `hcl:"meta,optional"`
	Strategy  string         `hcl:"strategy,optional"`
	UniqueKey string         `hcl:"unique_key,optional"`
	Body      hcl.Body       `hcl:",body"`
}

type selectorBlock struct {
	Name    string   `hcl:"name,label"`
	Include []string `hcl:"include,optional"`
	Exclude []string `hcl:"exclude,optional"`
}
