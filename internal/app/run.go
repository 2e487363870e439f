package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/RayMarquina/dbt-project-sub004/internal/adapters"
	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/progress"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
	"github.com/RayMarquina/dbt-project-sub004/internal/runner"
)

// Run executes the main application logic based on the provided
// configuration. In list mode it prints the selection and returns a nil
// report. Otherwise the report is returned whenever execution started.
func (a *App) Run(ctx context.Context) (*result.Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	ids, err := a.Select()
	if err != nil {
		return nil, err
	}

	if a.config.ListOnly {
		for _, id := range ids {
			fmt.Fprintln(a.outW, id)
		}
		return nil, nil
	}

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx, a.config.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	}

	if len(ids) == 0 {
		a.logger.Warn("Nothing to do. Selection matched no nodes.")
	}

	settings, err := effectiveSettings(a.config.Settings, a.model.Project)
	if err != nil {
		return nil, err
	}

	adapter, err := adapters.New(a.config.Adapter, adapters.Options{Dir: a.config.ProjectDir})
	if err != nil {
		return nil, err
	}

	sinks := progress.Multi{progress.LogSink{}, a.tracker, a.metrics}
	if a.config.ProgressURL != "" {
		sink, err := progress.DialSocketIO(ctx, a.config.ProgressURL, progress.SocketIOOptions{})
		if err != nil {
			return nil, fmt.Errorf("connecting progress sink: %w", err)
		}
		defer func() {
			if err := sink.Close(); err != nil {
				a.logger.Warn("Closing progress sink failed.", "error", err)
			}
		}()
		sinks = append(sinks, sink)
	}

	r := runner.New(adapter, runner.Options{
		Threads:     settings.Threads,
		Synchronous: settings.SingleThreaded,
		FailFast:    settings.FailFast,
		Hooks: runner.Hooks{
			Start: a.model.Project.OnRunStart,
			End:   a.model.Project.OnRunEnd,
		},
		Sink:        sinks,
		HookPackage: a.model.Project.Name,
	})

	a.logger.Info("🚀 Starting execution...", "selected", len(ids), "threads", settings.Threads, "adapter", a.config.Adapter)
	report, err := r.Run(ctx, a.store, ids)
	if report != nil {
		c := report.Counts()
		a.logger.Info("🏁 Execution finished.",
			"state", report.State.String(),
			"success", c.Success, "error", c.Error, "fail", c.Fail, "warn", c.Warn,
			"skipped", c.Skipped, "not_reached", c.NotReached, "elapsed", report.Elapsed)
	}
	if err != nil && !errors.Is(err, runner.ErrInterrupted) {
		return report, fmt.Errorf("execution failed: %w", err)
	}
	return report, err
}
