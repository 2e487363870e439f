package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/RayMarquina/dbt-project-sub004/internal/app"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
	"github.com/RayMarquina/dbt-project-sub004/internal/runner"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want *app.Config
	}{
		{
			name: "run defaults",
			args: []string{"run"},
			want: &app.Config{
				ProjectDir:    ".",
				ResourceTypes: []node.Kind{node.KindModel},
				Adapter:       "shell",
				LogFormat:     "text",
				LogLevel:      "info",
			},
		},
		{
			name: "build with everything",
			args: []string{
				"build", "--project-dir", "proj", "-s", "tag:nightly", "--select", "a b",
				"--exclude", "c", "--threads", "3", "--fail-fast", "--single-threaded",
				"--adapter", "dry", "--log-format", "JSON", "--log-level", "debug",
				"--healthcheck-port", "8080", "--progress-url", "http://localhost:3000",
			},
			want: &app.Config{
				ProjectDir:      "proj",
				Select:          []string{"tag:nightly", "a b"},
				Exclude:         []string{"c"},
				Settings:        app.Settings{Threads: 3, FailFast: true, SingleThreaded: true},
				Adapter:         "dry",
				LogFormat:       "json",
				LogLevel:        "debug",
				HealthcheckPort: 8080,
				ProgressURL:     "http://localhost:3000",
			},
		},
		{
			name: "test",
			args: []string{"test", "--selector", "nightly"},
			want: &app.Config{
				ProjectDir:    ".",
				Selector:      "nightly",
				ResourceTypes: []node.Kind{node.KindTest},
				Adapter:       "shell",
				LogFormat:     "text",
				LogLevel:      "info",
			},
		},
		{
			name: "ls with resource type",
			args: []string{"ls", "--resource-type", "seed"},
			want: &app.Config{
				ProjectDir:    ".",
				ResourceTypes: []node.Kind{node.KindSeed},
				ListOnly:      true,
				Adapter:       "shell",
				LogFormat:     "text",
				LogLevel:      "info",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, shouldExit, err := Parse(tc.args, &bytes.Buffer{})
			require.NoError(t, err)
			require.False(t, shouldExit)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Help(t *testing.T) {
	for _, args := range [][]string{nil, {"-h"}, {"help"}, {"run", "-h"}} {
		t.Run(fmt.Sprint(args), func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(args, out)
			require.NoError(t, err)
			assert.True(t, shouldExit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		errContains string
	}{
		{"unknown command", []string{"deploy"}, `unknown command "deploy"`},
		{"unknown flag", []string{"run", "--bogus"}, "flag provided but not defined"},
		{"stray argument", []string{"run", "extra"}, "unexpected arguments"},
		{"bad log format", []string{"run", "--log-format", "xml"}, "invalid log-format"},
		{"bad log level", []string{"run", "--log-level", "loud"}, "invalid log-level"},
		{"resource type on run", []string{"run", "--resource-type", "seed"}, "only valid with 'build' or 'ls'"},
		{"unknown resource type", []string{"build", "--resource-type", "source"}, "unknown resource type"},
		{"unknown adapter", []string{"run", "--adapter", "spark"}, "unknown adapter"},
		{"selector with select", []string{"run", "--selector", "x", "-s", "a"}, "cannot be combined"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, ExitUsage, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.errContains)
		})
	}
}

func TestExitFor(t *testing.T) {
	ok := &result.Report{State: result.Completed, Results: []*result.RunResult{{NodeID: "a", Status: result.StatusSuccess}}}
	failed := &result.Report{State: result.Completed, Results: []*result.RunResult{{NodeID: "a", Status: result.StatusFail}}}
	interrupted := &result.Report{State: result.Aborted, Interrupted: true}

	testCases := []struct {
		name     string
		report   *result.Report
		err      error
		wantCode int
	}{
		{name: "clean", report: ok, wantCode: ExitOK},
		{name: "list mode", wantCode: ExitOK},
		{name: "node failure", report: failed, wantCode: ExitFailure},
		{name: "end hook failure", report: ok, err: errors.New("hook failed"), wantCode: ExitFailure},
		{name: "interrupted", report: interrupted, err: runner.ErrInterrupted, wantCode: ExitInterrupted},
		{name: "rejected project", err: errors.New("cycle detected"), wantCode: ExitUsage},
		{name: "passthrough", err: &ExitError{Code: 7, Message: "x"}, wantCode: 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ExitFor(tc.report, tc.err)
			if tc.wantCode == ExitOK {
				assert.NoError(t, err)
				return
			}
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tc.wantCode, exitErr.Code)
		})
	}
}
