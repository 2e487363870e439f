package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/RayMarquina/dbt-project-sub004/internal/app"
	"github.com/RayMarquina/dbt-project-sub004/internal/hcl_adapter"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
	"github.com/RayMarquina/dbt-project-sub004/internal/testutil"
	"github.com/stretchr/testify/require"
)

// harnessResult holds the outcome of one end-to-end run.
type harnessResult struct {
	App    *app.App
	Report *result.Report
	Err    error
	Dir    string
	Logs   *testutil.SafeBuffer
}

// runProject writes files into a fresh project directory, then loads, builds,
// selects and runs it. Load and build errors are returned in Err.
func runProject(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config) *harnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg.ProjectDir = dir
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("GRAPHRUN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	res := &harnessResult{Dir: dir, Logs: logs}
	res.App, res.Err = app.NewApp(logs, appConfig, hcl_adapter.NewLoader())
	if res.Err != nil {
		return res
	}
	res.Report, res.Err = res.App.Run(ctx)
	return res
}

// readMarkers returns the lines appended to the marker file by shell commands.
func readMarkers(t *testing.T, dir string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, "markers.txt"))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(b)
}
