package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/RayMarquina/dbt-project-sub004/internal/config"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLoader_Load(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"project.hcl": `
project "jaffle_shop" {
  threads      = 4
  on_run_start = ["echo start"]
}

selector "nightly" {
  include = ["tag:nightly+"]
  exclude = ["tag:wip"]
}
`,
		"models/staging.hcl": `
seed "raw_orders" {}

model "stg_orders" {
  path         = "models/staging/stg_orders.sql"
  tags         = ["nightly"]
  materialized = "ephemeral"
  depends_on   = ["raw_orders"]
  command      = "echo build"
  meta         = { owner = "data", priority = 2, pii = false, owners = ["a", "b"] }
}

test "not_null_orders" {
  depends_on = ["stg_orders"]
  severity   = "warn"
}

snapshot "orders_snap" {
  strategy   = "timestamp"
  unique_key = "id"
}

operation "vacuum" {}
`,
		"README.md": "ignored",
	})

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	four := 4
	assert.Equal(t, &config.Project{Name: "jaffle_shop", Threads: &four, OnRunStart: []string{"echo start"}}, model.Project)
	assert.Equal(t, &config.Selector{Name: "nightly", Include: []string{"tag:nightly+"}, Exclude: []string{"tag:wip"}}, model.Selectors["nightly"])

	want := []*config.Resource{
		{Kind: node.KindModel, Name: "stg_orders", Path: "models/staging/stg_orders.sql", Tags: []string{"nightly"},
			Materialized: "ephemeral", DependsOn: []string{"raw_orders"}, Command: "echo build",
			Meta: map[string]any{"owner": "data", "priority": int64(2), "pii": false, "owners": []any{"a", "b"}}},
		{Kind: node.KindTest, Name: "not_null_orders", DependsOn: []string{"stg_orders"}, Severity: "warn"},
		{Kind: node.KindSeed, Name: "raw_orders"},
		{Kind: node.KindSnapshot, Name: "orders_snap", Strategy: "timestamp", UniqueKey: "id"},
		{Kind: node.KindOperation, Name: "vacuum"},
	}
	if diff := cmp.Diff(want, model.Resources, cmpopts.IgnoreFields(config.Resource{}, "DeclRange"), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Resources mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, model.Resources[0].DeclRange, "staging.hcl:")
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "no files",
			files:   map[string]string{"notes.txt": ""},
			wantErr: "no .hcl project files found",
		},
		{
			name:    "missing project block",
			files:   map[string]string{"a.hcl": `model "a" {}`},
			wantErr: "no project block found",
		},
		{
			name: "duplicate project block",
			files: map[string]string{
				"a.hcl": `project "one" {}`,
				"b.hcl": `project "two" {}`,
			},
			wantErr: "duplicate project block 'two'",
		},
		{
			name:    "syntax error",
			files:   map[string]string{"a.hcl": `project "p" {`},
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown attribute",
			files:   map[string]string{"a.hcl": "project \"p\" {}\nmodel \"a\" { colour = \"red\" }"},
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "unknown materialization",
			files:   map[string]string{"a.hcl": "project \"p\" {}\nmodel \"a\" { materialized = \"cube\" }"},
			wantErr: "unknown materialization 'cube'",
		},
		{
			name:    "unknown severity",
			files:   map[string]string{"a.hcl": "project \"p\" {}\ntest \"t\" { severity = \"fatal\" }"},
			wantErr: "unknown severity 'fatal'",
		},
		{
			name:    "meta must be an object",
			files:   map[string]string{"a.hcl": "project \"p\" {}\nseed \"s\" { meta = \"x\" }"},
			wantErr: "meta must be an object",
		},
		{
			name: "duplicate selector",
			files: map[string]string{
				"a.hcl": "project \"p\" {}\nselector \"x\" {}",
				"b.hcl": "selector \"x\" {}",
			},
			wantErr: "duplicate selector 'x'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeFiles(t, tc.files)
			_, err := NewLoader().Load(context.Background(), dir)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoader_SingleFileAndMissingPaths(t *testing.T) {
	dir := writeFiles(t, map[string]string{"p.hcl": `project "p" {}`})

	model, err := NewLoader().Load(context.Background(), filepath.Join(dir, "p.hcl"), filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Equal(t, "p", model.Project.Name)
	assert.Nil(t, model.Project.Threads)
	assert.Empty(t, model.Resources)
}
