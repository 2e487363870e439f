package cli

import (
	"errors"
	"fmt"

	"github.com/RayMarquina/dbt-project-sub004/internal/result"
	"github.com/RayMarquina/dbt-project-sub004/internal/runner"
)

// ExitFor maps the outcome of a run to the process exit status. It returns
// nil when the process should exit with status 0.
func ExitFor(report *result.Report, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if errors.Is(err, runner.ErrInterrupted) {
		return &ExitError{Code: ExitInterrupted, Message: err.Error()}
	}
	if report == nil {
		if err != nil {
			// Nothing ran, so the project or selection was rejected.
			return &ExitError{Code: ExitUsage, Message: err.Error()}
		}
		return nil
	}

	code := report.ExitCode()
	switch {
	case code == ExitOK && err == nil:
		return nil
	case code == ExitOK:
		// A failing end hook leaves every node green but still fails the run.
		code = ExitFailure
	}
	msg := summary(report)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &ExitError{Code: code, Message: msg}
}

func summary(r *result.Report) string {
	c := r.Counts()
	return fmt.Sprintf("run %s: %d succeeded, %d errored, %d failed, %d warned, %d skipped, %d not reached",
		r.State, c.Success, c.Error, c.Fail, c.Warn, c.Skipped, c.NotReached)
}
