package integration_tests

import (
	"context"
	"testing"
	"time"

	"github.com/RayMarquina/dbt-project-sub004/internal/app"
	"github.com/RayMarquina/dbt-project-sub004/internal/builder"
	"github.com/RayMarquina/dbt-project-sub004/internal/graph"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
	"github.com/RayMarquina/dbt-project-sub004/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandling_FailureSkipsDependents(t *testing.T) {
	t.Parallel()

	files := map[string]string{"project.hcl": `
project "p" {}

seed "a" { command = "exit 3" }
model "b" { depends_on = ["a"] }
model "c" { depends_on = ["b"] }
model "d" { command = "echo d >> markers.txt" }
`}
	res := runProject(context.Background(), t, files, app.Config{})
	require.NoError(t, res.Err)

	a, ok := res.Report.Result("seed.p.a")
	require.True(t, ok)
	assert.Equal(t, result.StatusError, a.Status)
	assert.Contains(t, a.Message, "command exited with code 3")

	for _, id := range []string{"model.p.b", "model.p.c"} {
		r, ok := res.Report.Result(id)
		require.True(t, ok, id)
		assert.Equal(t, result.StatusSkipped, r.Status, id)
		require.NotNil(t, r.SkipCause)
		assert.Equal(t, "seed.p.a", r.SkipCause.UpstreamID())
	}
	assert.Equal(t, "d\n", readMarkers(t, res.Dir))
	assert.Equal(t, 1, res.Report.ExitCode())
}

func TestErrorHandling_WarnSeverityTestDoesNotSkip(t *testing.T) {
	t.Parallel()

	files := map[string]string{"project.hcl": `
project "p" {}

model "a" {}
test "check_a" {
  depends_on = ["a"]
  severity   = "warn"
  command    = "exit 1"
}
model "b" { depends_on = ["check_a"] }
`}
	res := runProject(context.Background(), t, files, app.Config{})
	require.NoError(t, res.Err)

	check, _ := res.Report.Result("test.p.check_a")
	assert.Equal(t, result.StatusWarn, check.Status)
	b, _ := res.Report.Result("model.p.b")
	assert.Equal(t, result.StatusSuccess, b.Status)
	assert.Equal(t, 0, res.Report.ExitCode())
}

func TestErrorHandling_FailFastFromProject(t *testing.T) {
	t.Parallel()

	files := map[string]string{"project.hcl": `
project "p" { fail_fast = true }

model "a" { command = "exit 1" }
model "b" { depends_on = ["a"] }
`}
	res := runProject(context.Background(), t, files, app.Config{})
	require.ErrorIs(t, res.Err, runner.ErrAborted)
	require.NotNil(t, res.Report)
	assert.Equal(t, result.Aborted, res.Report.State)
	assert.Equal(t, []string{"model.p.b"}, res.Report.NotReached)
}

func TestErrorHandling_FailingStartHookAborts(t *testing.T) {
	t.Parallel()

	files := map[string]string{"project.hcl": `
project "p" { on_run_start = ["exit 1"] }
model "a" { command = "echo a >> markers.txt" }
`}
	res := runProject(context.Background(), t, files, app.Config{})
	require.ErrorIs(t, res.Err, runner.ErrAborted)
	assert.Empty(t, readMarkers(t, res.Dir))
}

func TestErrorHandling_InvalidProjects(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		files       map[string]string
		cfg         app.Config
		errContains string
		check       func(t *testing.T, err error)
	}{
		{
			name:        "invalid hcl",
			files:       map[string]string{"project.hcl": `project "p" {`},
			errContains: "failed to load configuration",
		},
		{
			name:        "unresolved dependency",
			files:       map[string]string{"project.hcl": "project \"p\" {}\nmodel \"a\" { depends_on = [\"ghost\"] }"},
			errContains: "depends on non-existent node 'ghost'",
			check: func(t *testing.T, err error) {
				var refErr *builder.UnresolvedRefError
				require.ErrorAs(t, err, &refErr)
			},
		},
		{
			name: "cycle",
			files: map[string]string{"project.hcl": `
project "p" {}
model "a" { depends_on = ["b"] }
model "b" { depends_on = ["a"] }
`},
			errContains: "cycle",
			check: func(t *testing.T, err error) {
				var cycleErr *graph.CycleError
				require.ErrorAs(t, err, &cycleErr)
			},
		},
		{
			name:        "bad selector",
			files:       map[string]string{"project.hcl": "project \"p\" {}\nselector \"s\" { include = [\"bogus:x\"] }"},
			cfg:         app.Config{Selector: "s"},
			errContains: "invalid selector",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := runProject(context.Background(), t, tc.files, tc.cfg)
			require.Error(t, res.Err)
			assert.Contains(t, res.Err.Error(), tc.errContains)
			if tc.check != nil {
				tc.check(t, res.Err)
			}
		})
	}
}

func TestErrorHandling_CancellationInterruptsRun(t *testing.T) {
	t.Parallel()

	files := map[string]string{"project.hcl": `
project "p" {}
model "slow" { command = "sleep 30" }
model "after" { depends_on = ["slow"] }
`}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	res := runProject(ctx, t, files, app.Config{})
	require.ErrorIs(t, res.Err, runner.ErrInterrupted)
	assert.Less(t, time.Since(start), 20*time.Second)

	require.NotNil(t, res.Report)
	assert.True(t, res.Report.Interrupted)
	assert.Equal(t, 130, res.Report.ExitCode())
	assert.Contains(t, res.Report.NotReached, "model.p.after")
}
